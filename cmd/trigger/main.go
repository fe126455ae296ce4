// cmd/trigger/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"log-analyzer/internal/config"
	"log-analyzer/internal/logging"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/pipeline"
)

var trigger *pipeline.Trigger

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
	sqsClient := sqs.NewFromConfig(awsCfg)

	collector := metrics.NewCollector(awsCfg, cfg.MetricsNamespace, cfg.Environment)

	trigger = pipeline.NewTrigger(s3Client, sqsClient, collector, cfg, logger)
	logger.Info("trigger initialized", slog.String("queue_url", cfg.QueueURL), slog.Int64("max_upload_bytes", cfg.MaxUploadBytes))
}

func main() {
	lambda.Start(trigger.Handle)
}
