// internal/metrics/collector.go
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"log-analyzer/internal/models"
)

// maxDatumsPerCall is the CloudWatch PutMetricData limit
const maxDatumsPerCall = 1000

// PutMetricDataAPI is the subset of the CloudWatch client the collector needs
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Collector handles custom CloudWatch metrics emission
type Collector struct {
	client    PutMetricDataAPI
	namespace string
	dims      []types.Dimension
}

// NewCollector creates a new metrics collector
func NewCollector(cfg aws.Config, namespace, environment string) *Collector {
	return NewCollectorWithClient(cloudwatch.NewFromConfig(cfg), namespace, environment)
}

// NewCollectorWithClient creates a collector around an existing client
func NewCollectorWithClient(client PutMetricDataAPI, namespace, environment string) *Collector {
	// Default dimensions
	dims := []types.Dimension{
		{
			Name:  aws.String("Environment"),
			Value: aws.String(environment),
		},
		{
			Name:  aws.String("Service"),
			Value: aws.String("log-analyzer"),
		},
	}

	return &Collector{
		client:    client,
		namespace: namespace,
		dims:      dims,
	}
}

// EmitBatch sends multiple metrics at once
func (c *Collector) EmitBatch(ctx context.Context, metrics map[string]MetricValue) error {
	if len(metrics) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(metrics))
	timestamp := aws.Time(time.Now())

	for name, mv := range metrics {
		data = append(data, types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(mv.Value),
			Unit:       mv.Unit,
			Timestamp:  timestamp,
			Dimensions: c.dims,
		})
	}

	for i := 0; i < len(data); i += maxDatumsPerCall {
		end := min(i+maxDatumsPerCall, len(data))

		_, err := c.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(c.namespace),
			MetricData: data[i:end],
		})
		if err != nil {
			return fmt.Errorf("failed to emit batch metrics: %w", err)
		}
	}

	return nil
}

// MetricValue holds a metric value and its unit
type MetricValue struct {
	Value float64
	Unit  types.StandardUnit
}

// Helper to create latency metric value
func LatencyMs(v float64) MetricValue {
	return MetricValue{Value: v, Unit: types.StandardUnitMilliseconds}
}

// Helper to create count metric value
func Count(v float64) MetricValue {
	return MetricValue{Value: v, Unit: types.StandardUnitCount}
}

// Helper to create bytes metric value
func Bytes(v float64) MetricValue {
	return MetricValue{Value: v, Unit: types.StandardUnitBytes}
}

// ReportMetrics converts a processing result into the worker's metric set
func ReportMetrics(result models.ProcessingResult) map[string]MetricValue {
	m := map[string]MetricValue{
		"WorkerProcessingLatencyMs": LatencyMs(float64(result.ProcessingTimeMs)),
		"WorkerLinesProcessed":      Count(float64(result.LineCount)),
		"WorkerErrorLevelLines":     Count(float64(result.ErrorCount)),
		"WorkerCriticalProblems":    Count(float64(result.CriticalProblems)),
		"WorkerHighProblems":        Count(float64(result.HighProblems)),
		"WorkerUncategorizedLines":  Count(float64(result.Uncategorized)),
		"WorkerSuccessCount":        Count(1),
	}
	if result.AvgSecondsApart != nil {
		m["WorkerAvgSecondsBetweenLogs"] = MetricValue{Value: *result.AvgSecondsApart, Unit: types.StandardUnitSeconds}
	}
	return m
}
