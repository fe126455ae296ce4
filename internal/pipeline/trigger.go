// internal/pipeline/trigger.go
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"log-analyzer/internal/config"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/models"
)

// ErrTooLarge is returned for objects above the upload ceiling
var ErrTooLarge = errors.New("log object exceeds upload size limit")

// HeadObjectAPI is the subset of the S3 client the trigger needs
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// SendMessageAPI is the subset of the SQS client the trigger needs
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// MetricsEmitter records a batch of metrics. *metrics.Collector satisfies it.
type MetricsEmitter interface {
	EmitBatch(ctx context.Context, m map[string]metrics.MetricValue) error
}

// Trigger validates uploaded log objects and queues them for analysis
type Trigger struct {
	objects HeadObjectAPI
	queue   SendMessageAPI
	metrics MetricsEmitter // optional
	cfg     config.Config
	log     *slog.Logger
	newID   func() string
	now     func() time.Time
}

// NewTrigger creates a Trigger. A nil emitter disables metrics.
func NewTrigger(objects HeadObjectAPI, queue SendMessageAPI, emitter MetricsEmitter, cfg config.Config, logger *slog.Logger) *Trigger {
	return &Trigger{
		objects: objects,
		queue:   queue,
		metrics: emitter,
		cfg:     cfg,
		log:     logger,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Handle processes an S3 event. A failing record does not stop the others.
func (t *Trigger) Handle(ctx context.Context, s3Event events.S3Event) error {
	for _, record := range s3Event.Records {
		if _, err := t.processRecord(ctx, record); err != nil {
			t.log.Error("failed to queue log object", "key", recordKey(record), "error", err)
			t.emit(ctx, map[string]metrics.MetricValue{"TriggerFailures": metrics.Count(1)})
			// Continue processing other records instead of failing the whole batch.
			continue
		}
	}
	return nil
}

// processRecord returns the queued job, or nil when the object was skipped
func (t *Trigger) processRecord(ctx context.Context, record events.S3EventRecord) (*models.ProcessingJob, error) {
	startTime := t.now()

	bucket := record.S3.Bucket.Name
	key := recordKey(record)

	if !t.cfg.AllowsKey(key) {
		t.log.Info("skipping object with unsupported extension", "key", key)
		t.emit(ctx, map[string]metrics.MetricValue{"TriggerSkipped": metrics.Count(1)})
		return nil, nil
	}

	// Get object metadata
	headResp, err := t.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to head object %s/%s: %w", bucket, key, err)
	}

	size := aws.ToInt64(headResp.ContentLength)
	if size > t.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%s/%s is %d bytes (limit %d): %w", bucket, key, size, t.cfg.MaxUploadBytes, ErrTooLarge)
	}

	job := models.ProcessingJob{
		JobID:       t.newID(),
		Bucket:      bucket,
		Key:         key,
		Size:        size,
		ContentType: aws.ToString(headResp.ContentType),
		ReceivedAt:  record.EventTime,
		ValidatedAt: t.now(),
	}

	// Serialize and send to SQS
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = t.queue.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(t.cfg.QueueURL),
		MessageBody: aws.String(string(jobBytes)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"JobID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(job.JobID),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send SQS message: %w", err)
	}

	validationLatency := float64(t.now().Sub(startTime).Milliseconds())
	t.emit(ctx, map[string]metrics.MetricValue{
		"TriggerValidationLatencyMs": metrics.LatencyMs(validationLatency),
		"TriggerFileSizeBytes":       metrics.Bytes(float64(job.Size)),
		"TriggerInvocations":         metrics.Count(1),
	})

	t.log.Info("queued log for analysis", "job_id", job.JobID, "bucket", bucket, "key", key, "size", size)
	return &job, nil
}

func (t *Trigger) emit(ctx context.Context, m map[string]metrics.MetricValue) {
	if t.metrics == nil {
		return
	}
	if err := t.metrics.EmitBatch(ctx, m); err != nil {
		t.log.Warn("failed to emit metrics", "error", err)
	}
}

// recordKey prefers the URL-decoded key S3 notifications carry alongside the raw one
func recordKey(record events.S3EventRecord) string {
	if record.S3.Object.URLDecodedKey != "" {
		return record.S3.Object.URLDecodedKey
	}
	return record.S3.Object.Key
}
