// internal/config/config.go
package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// DefaultMaxUploadBytes is the largest log object the trigger accepts (16 MiB)
const DefaultMaxUploadBytes = 16 * 1024 * 1024

// Config holds the settings shared by the Lambda functions
type Config struct {
	Environment       string
	LogLevel          string
	Endpoint          string // AWS_ENDPOINT_URL, set for LocalStack
	QueueURL          string
	TableName         string
	ReportBucket      string
	ReportPrefix      string
	MetricsNamespace  string
	MaxUploadBytes    int64
	AllowedExtensions []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Environment:       getenv("ENVIRONMENT", "development"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		Endpoint:          os.Getenv("AWS_ENDPOINT_URL"),
		QueueURL:          os.Getenv("QUEUE_URL"),
		TableName:         os.Getenv("DYNAMODB_TABLE"),
		ReportBucket:      os.Getenv("REPORT_BUCKET"),
		ReportPrefix:      strings.Trim(getenv("REPORT_PREFIX", "reports"), "/"),
		MetricsNamespace:  getenv("METRICS_NAMESPACE", "LogAnalyzer"),
		MaxUploadBytes:    getenvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		AllowedExtensions: getenvList("ALLOWED_EXTENSIONS", []string{"log", "txt"}),
	}
}

// AllowsKey reports whether an object key carries one of the allowed extensions
func (c Config) AllowsKey(key string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ReportKey returns the S3 key the report of a job is stored under
func (c Config) ReportKey(jobID string) string {
	if c.ReportPrefix == "" {
		return jobID + ".json"
	}
	return c.ReportPrefix + "/" + jobID + ".json"
}

// AWS loads the default AWS configuration, pointing it at Endpoint when set
func (c Config) AWS(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// LocalStack support
	if c.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(c.Endpoint)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getenvList reads a comma-separated, case-insensitive list
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item)), ".")
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
