// internal/pipeline/worker.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"log-analyzer/internal/config"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/models"
	"log-analyzer/internal/processor"
)

// resultTTL is how long processing results stay in DynamoDB
const resultTTL = 7 * 24 * time.Hour

// ObjectStore reads log objects and writes reports. *store.ObjectStore satisfies it.
type ObjectStore interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	PutReport(ctx context.Context, bucket, key string, report *models.Report) error
}

// ResultStore persists processing summaries. *store.ResultStore satisfies it.
type ResultStore interface {
	Save(ctx context.Context, result models.ProcessingResult) error
}

// Worker analyzes queued log objects
type Worker struct {
	objects  ObjectStore
	results  ResultStore
	metrics  MetricsEmitter // optional
	analyzer *processor.Analyzer
	cfg      config.Config
	log      *slog.Logger
	now      func() time.Time
}

// NewWorker creates a Worker. A nil emitter disables metrics.
func NewWorker(objects ObjectStore, results ResultStore, emitter MetricsEmitter, analyzer *processor.Analyzer, cfg config.Config, logger *slog.Logger) *Worker {
	return &Worker{
		objects:  objects,
		results:  results,
		metrics:  emitter,
		analyzer: analyzer,
		cfg:      cfg,
		log:      logger,
		now:      time.Now,
	}
}

// Handle processes an SQS event. The first failing message fails the batch so
// SQS retries it and eventually moves it to the DLQ.
func (w *Worker) Handle(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, record := range sqsEvent.Records {
		if err := w.processMessage(ctx, record); err != nil {
			w.log.Error("failed to process message", "message_id", record.MessageId, "error", err)
			// Return error to trigger retry/DLQ
			return err
		}
	}
	return nil
}

func (w *Worker) processMessage(ctx context.Context, record events.SQSMessage) error {
	// Parse job from SQS message
	var job models.ProcessingJob
	if err := json.Unmarshal([]byte(record.Body), &job); err != nil {
		return fmt.Errorf("failed to unmarshal job: %w", err)
	}
	_, err := w.Process(ctx, job)
	return err
}

// Process analyzes one job, stores its report and summary, and returns the summary
func (w *Worker) Process(ctx context.Context, job models.ProcessingJob) (models.ProcessingResult, error) {
	startTime := w.now()
	w.log.Info("processing job", "job_id", job.JobID, "bucket", job.Bucket, "key", job.Key)

	body, err := w.objects.Open(ctx, job.Bucket, job.Key)
	if err != nil {
		return w.saveFailedResult(ctx, job, startTime, err)
	}
	defer body.Close()

	report, err := w.analyzer.Analyze(body)
	if err != nil {
		return w.saveFailedResult(ctx, job, startTime, fmt.Errorf("failed to analyze log: %w", err))
	}

	bucket := w.cfg.ReportBucket
	if bucket == "" {
		bucket = job.Bucket
	}
	reportKey := w.cfg.ReportKey(job.JobID)
	if err := w.objects.PutReport(ctx, bucket, reportKey, report); err != nil {
		return w.saveFailedResult(ctx, job, startTime, err)
	}

	result := models.NewProcessingResult(job, report)
	result.ReportKey = reportKey
	result.StartedAt = startTime
	result.CompletedAt = w.now()
	result.ProcessingTimeMs = result.CompletedAt.Sub(startTime).Milliseconds()
	result.ExpiresAt = result.CompletedAt.Add(resultTTL).Unix()

	if err := w.results.Save(ctx, result); err != nil {
		return result, fmt.Errorf("failed to save result: %w", err)
	}

	w.emit(ctx, metrics.ReportMetrics(result))
	w.log.Info("completed job",
		"job_id", job.JobID,
		"lines", result.LineCount,
		"critical", result.CriticalProblems,
		"uncategorized", result.Uncategorized,
		"duration_ms", result.ProcessingTimeMs,
	)
	return result, nil
}

func (w *Worker) saveFailedResult(ctx context.Context, job models.ProcessingJob, startTime time.Time, processErr error) (models.ProcessingResult, error) {
	completed := w.now()
	result := models.ProcessingResult{
		JobID:            job.JobID,
		Status:           models.StatusFailed,
		SourceKey:        job.Key,
		ProcessingTimeMs: completed.Sub(startTime).Milliseconds(),
		FileSizeBytes:    job.Size,
		StartedAt:        startTime,
		CompletedAt:      completed,
		ErrorMessage:     processErr.Error(),
		ExpiresAt:        completed.Add(resultTTL).Unix(),
	}

	if err := w.results.Save(ctx, result); err != nil {
		w.log.Error("failed to save error result", "job_id", job.JobID, "error", err)
	}

	w.emit(ctx, map[string]metrics.MetricValue{
		"WorkerFailureCount": metrics.Count(1),
	})

	return result, processErr
}

func (w *Worker) emit(ctx context.Context, m map[string]metrics.MetricValue) {
	if w.metrics == nil {
		return
	}
	if err := w.metrics.EmitBatch(ctx, m); err != nil {
		w.log.Warn("failed to emit metrics", "error", err)
	}
}
