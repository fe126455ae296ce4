// internal/store/store.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"log-analyzer/internal/models"
)

// PutItemAPI is the subset of the DynamoDB client used to persist results
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// ObjectAPI is the subset of the S3 client used to read logs and write reports
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResultStore persists processing summaries to a DynamoDB table
type ResultStore struct {
	client PutItemAPI
	table  string
}

// NewResultStore creates a ResultStore for the given table
func NewResultStore(client PutItemAPI, table string) *ResultStore {
	return &ResultStore{client: client, table: table}
}

// Save writes one processing result
func (s *ResultStore) Save(ctx context.Context, result models.ProcessingResult) error {
	item, err := attributevalue.MarshalMap(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put result %s: %w", result.JobID, err)
	}
	return nil
}

// ObjectStore reads log objects and writes report objects in S3
type ObjectStore struct {
	client ObjectAPI
}

// NewObjectStore creates an ObjectStore around an S3 client
func NewObjectStore(client ObjectAPI) *ObjectStore {
	return &ObjectStore{client: client}
}

// Open returns the body of an object. The caller must close it.
func (s *ObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object %s/%s: %w", bucket, key, err)
	}
	return resp.Body, nil
}

// PutReport stores a report as JSON
func (s *ObjectStore) PutReport(ctx context.Context, bucket, key string, report *models.Report) error {
	body, err := json.Marshal(models.Result{Success: true, Report: report})
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put report %s/%s: %w", bucket, key, err)
	}
	return nil
}
