// internal/models/events.go
package models

import "time"

// Processing statuses stored on a ProcessingResult
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProcessingJob represents a log file queued for analysis
type ProcessingJob struct {
	JobID       string    `json:"job_id" dynamodbav:"job_id"`
	Bucket      string    `json:"bucket" dynamodbav:"bucket"`
	Key         string    `json:"key" dynamodbav:"key"`
	Size        int64     `json:"size" dynamodbav:"size"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	ReceivedAt  time.Time `json:"received_at" dynamodbav:"received_at"`
	ValidatedAt time.Time `json:"validated_at" dynamodbav:"validated_at"`
}

// ProcessingResult is the summary of one analysis run persisted to DynamoDB.
// The full report lives in S3 under ReportKey.
type ProcessingResult struct {
	JobID            string    `json:"job_id" dynamodbav:"job_id"`
	Status           string    `json:"status" dynamodbav:"status"` // "completed", "failed"
	SourceKey        string    `json:"source_key" dynamodbav:"source_key"`
	ReportKey        string    `json:"report_key,omitempty" dynamodbav:"report_key,omitempty"`
	LineCount        int       `json:"line_count,omitempty" dynamodbav:"line_count,omitempty"`
	EntryCount       int       `json:"entry_count,omitempty" dynamodbav:"entry_count,omitempty"`
	ErrorCount       int       `json:"error_count,omitempty" dynamodbav:"error_count,omitempty"`
	WarningCount     int       `json:"warning_count,omitempty" dynamodbav:"warning_count,omitempty"`
	InfoCount        int       `json:"info_count,omitempty" dynamodbav:"info_count,omitempty"`
	CriticalProblems int       `json:"critical_problems,omitempty" dynamodbav:"critical_problems,omitempty"`
	HighProblems     int       `json:"high_problems,omitempty" dynamodbav:"high_problems,omitempty"`
	Uncategorized    int       `json:"uncategorized,omitempty" dynamodbav:"uncategorized,omitempty"`
	SuggestionCount  int       `json:"suggestion_count,omitempty" dynamodbav:"suggestion_count,omitempty"`
	AvgSecondsApart  *float64  `json:"avg_seconds_apart,omitempty" dynamodbav:"avg_seconds_apart,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms" dynamodbav:"processing_time_ms"`
	FileSizeBytes    int64     `json:"file_size_bytes" dynamodbav:"file_size_bytes"`
	StartedAt        time.Time `json:"started_at" dynamodbav:"started_at"`
	CompletedAt      time.Time `json:"completed_at" dynamodbav:"completed_at"`
	ErrorMessage     string    `json:"error_message,omitempty" dynamodbav:"error_message,omitempty"`
	ExpiresAt        int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL
}

// NewProcessingResult summarizes a completed report for the given job
func NewProcessingResult(job ProcessingJob, report *Report) ProcessingResult {
	return ProcessingResult{
		JobID:            job.JobID,
		Status:           StatusCompleted,
		SourceKey:        job.Key,
		LineCount:        report.Statistics.TotalLines,
		EntryCount:       len(report.AllLogs),
		ErrorCount:       report.Statistics.ErrorCount,
		WarningCount:     report.Statistics.WarningCount,
		InfoCount:        report.Statistics.InfoCount,
		CriticalProblems: report.ProblemStats.Critical,
		HighProblems:     report.ProblemStats.High,
		Uncategorized:    report.Uncategorized(),
		SuggestionCount:  len(report.Suggestions),
		AvgSecondsApart:  report.Statistics.AvgTimeBetweenLogs,
		FileSizeBytes:    job.Size,
	}
}
