// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"log-analyzer/internal/config"
	"log-analyzer/internal/logging"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/pipeline"
	"log-analyzer/internal/processor"
	"log-analyzer/internal/store"
)

var worker *pipeline.Worker

func init() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.Init(true, logging.ParseLevel(cfg.LogLevel))

	awsCfg, err := cfg.AWS(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Create S3 client with path-style addressing for LocalStack
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Endpoint != ""
	})
	ddbClient := dynamodb.NewFromConfig(awsCfg)

	collector := metrics.NewCollector(awsCfg, cfg.MetricsNamespace, cfg.Environment)

	worker = pipeline.NewWorker(
		store.NewObjectStore(s3Client),
		store.NewResultStore(ddbClient, cfg.TableName),
		collector,
		processor.NewDefaultAnalyzer(),
		cfg,
		logger,
	)
	logger.Info("worker initialized", slog.String("table", cfg.TableName), slog.String("report_bucket", cfg.ReportBucket))
}

func main() {
	lambda.Start(worker.Handle)
}
