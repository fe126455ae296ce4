package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"log-analyzer/internal/config"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/models"
	"log-analyzer/internal/processor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		QueueURL:          "https://sqs.local/queue",
		ReportBucket:      "reports-bucket",
		ReportPrefix:      "reports",
		MaxUploadBytes:    1024,
		AllowedExtensions: []string{"log", "txt"},
	}
}

type fakeHead struct {
	sizes map[string]int64
}

func (f *fakeHead) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	size, ok := f.sizes[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NotFound")
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(size), ContentType: aws.String("text/plain")}, nil
}

type fakeQueue struct {
	sent []*sqs.SendMessageInput
	err  error
}

func (f *fakeQueue) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &sqs.SendMessageOutput{}, nil
}

type fakeEmitter struct {
	batches []map[string]metrics.MetricValue
}

func (f *fakeEmitter) EmitBatch(_ context.Context, m map[string]metrics.MetricValue) error {
	f.batches = append(f.batches, m)
	return nil
}

func (f *fakeEmitter) has(name string) bool {
	for _, b := range f.batches {
		if _, ok := b[name]; ok {
			return true
		}
	}
	return false
}

func s3Record(key string) events.S3EventRecord {
	var r events.S3EventRecord
	r.S3.Bucket.Name = "uploads"
	r.S3.Object.Key = key
	return r
}

// emitterOf keeps a nil *fakeEmitter from becoming a non-nil interface
func emitterOf(em *fakeEmitter) MetricsEmitter {
	if em == nil {
		return nil
	}
	return em
}

func newTestTrigger(head *fakeHead, queue *fakeQueue, em *fakeEmitter) *Trigger {
	tr := NewTrigger(head, queue, emitterOf(em), testConfig(), discardLogger())
	tr.newID = func() string { return "job-1" }
	return tr
}

func TestTriggerQueuesAllowedObject(t *testing.T) {
	queue := &fakeQueue{}
	em := &fakeEmitter{}
	tr := newTestTrigger(&fakeHead{sizes: map[string]int64{"app.log": 512}}, queue, em)

	job, err := tr.processRecord(context.Background(), s3Record("app.log"))
	if err != nil {
		t.Fatalf("processRecord() error: %v", err)
	}
	if job == nil || job.JobID != "job-1" || job.Size != 512 {
		t.Fatalf("unexpected job %+v", job)
	}
	if len(queue.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(queue.sent))
	}

	var queued models.ProcessingJob
	if err := json.Unmarshal([]byte(aws.ToString(queue.sent[0].MessageBody)), &queued); err != nil {
		t.Fatalf("message body is not a job: %v", err)
	}
	if queued.Bucket != "uploads" || queued.Key != "app.log" {
		t.Errorf("unexpected queued job %+v", queued)
	}
	if aws.ToString(queue.sent[0].QueueUrl) != "https://sqs.local/queue" {
		t.Errorf("unexpected queue url %q", aws.ToString(queue.sent[0].QueueUrl))
	}
	if !em.has("TriggerInvocations") {
		t.Error("expected invocation metric")
	}
}

func TestTriggerSkipsUnsupportedExtension(t *testing.T) {
	queue := &fakeQueue{}
	em := &fakeEmitter{}
	tr := newTestTrigger(&fakeHead{}, queue, em)

	job, err := tr.processRecord(context.Background(), s3Record("image.png"))
	if err != nil || job != nil {
		t.Fatalf("expected silent skip, got %+v, %v", job, err)
	}
	if len(queue.sent) != 0 {
		t.Error("expected nothing queued")
	}
	if !em.has("TriggerSkipped") {
		t.Error("expected skip metric")
	}
}

func TestTriggerRejectsOversizedObject(t *testing.T) {
	queue := &fakeQueue{}
	tr := newTestTrigger(&fakeHead{sizes: map[string]int64{"big.log": 4096}}, queue, &fakeEmitter{})

	_, err := tr.processRecord(context.Background(), s3Record("big.log"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if len(queue.sent) != 0 {
		t.Error("expected nothing queued")
	}
}

func TestTriggerPrefersDecodedKey(t *testing.T) {
	tr := newTestTrigger(&fakeHead{sizes: map[string]int64{"my app.log": 1}}, &fakeQueue{}, nil)

	r := s3Record("my+app.log")
	r.S3.Object.URLDecodedKey = "my app.log"
	job, err := tr.processRecord(context.Background(), r)
	if err != nil {
		t.Fatalf("processRecord() error: %v", err)
	}
	if job.Key != "my app.log" {
		t.Errorf("expected decoded key, got %q", job.Key)
	}
}

func TestTriggerHandleContinuesAfterFailure(t *testing.T) {
	queue := &fakeQueue{}
	em := &fakeEmitter{}
	tr := newTestTrigger(&fakeHead{sizes: map[string]int64{"ok.log": 10}}, queue, em)

	err := tr.Handle(context.Background(), events.S3Event{Records: []events.S3EventRecord{
		s3Record("missing.log"),
		s3Record("ok.log"),
	}})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(queue.sent) != 1 {
		t.Errorf("expected the healthy record to be queued, got %d", len(queue.sent))
	}
	if !em.has("TriggerFailures") {
		t.Error("expected failure metric")
	}
}

type fakeObjects struct {
	bodies  map[string]string
	openErr error
	reports map[string]*models.Report
}

func (f *fakeObjects) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	body, ok := f.bodies[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeObjects) PutReport(_ context.Context, bucket, key string, report *models.Report) error {
	if f.reports == nil {
		f.reports = make(map[string]*models.Report)
	}
	f.reports[bucket+"/"+key] = report
	return nil
}

type fakeResults struct {
	saved []models.ProcessingResult
}

func (f *fakeResults) Save(_ context.Context, r models.ProcessingResult) error {
	f.saved = append(f.saved, r)
	return nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (errReader) Close() error               { return nil }

type brokenObjects struct{ fakeObjects }

func (b *brokenObjects) Open(context.Context, string, string) (io.ReadCloser, error) {
	return errReader{}, nil
}

func newTestWorker(objects ObjectStore, results *fakeResults, em *fakeEmitter) *Worker {
	w := NewWorker(objects, results, emitterOf(em), processor.NewDefaultAnalyzer(), testConfig(), discardLogger())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}
	return w
}

const workerLog = `2023-12-01 10:30:45 ERROR database connection timeout
2023-12-01 10:31:00 CRITICAL no space left on device
something else
`

func TestWorkerProcess(t *testing.T) {
	objects := &fakeObjects{bodies: map[string]string{"uploads/app.log": workerLog}}
	results := &fakeResults{}
	em := &fakeEmitter{}
	w := newTestWorker(objects, results, em)

	job := models.ProcessingJob{JobID: "job-1", Bucket: "uploads", Key: "app.log", Size: int64(len(workerLog))}
	result, err := w.Process(context.Background(), job)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if result.Status != models.StatusCompleted {
		t.Errorf("expected completed, got %q", result.Status)
	}
	if result.LineCount != 3 || result.EntryCount != 3 {
		t.Errorf("expected 3 lines and entries, got %d/%d", result.LineCount, result.EntryCount)
	}
	if result.CriticalProblems != 1 || result.HighProblems != 1 || result.Uncategorized != 1 {
		t.Errorf("unexpected problem counts %+v", result)
	}
	if result.AvgSecondsApart == nil || *result.AvgSecondsApart != 15 {
		t.Errorf("expected 15s average, got %v", result.AvgSecondsApart)
	}
	if result.ReportKey != "reports/job-1.json" {
		t.Errorf("unexpected report key %q", result.ReportKey)
	}
	if _, ok := objects.reports["reports-bucket/reports/job-1.json"]; !ok {
		t.Error("expected report stored in report bucket")
	}
	if len(results.saved) != 1 || results.saved[0].JobID != "job-1" {
		t.Errorf("expected result saved, got %+v", results.saved)
	}
	if result.ExpiresAt != result.CompletedAt.Add(7*24*time.Hour).Unix() {
		t.Errorf("unexpected TTL %d", result.ExpiresAt)
	}
	if !em.has("WorkerSuccessCount") {
		t.Error("expected success metric")
	}
}

func TestWorkerProcessMissingObject(t *testing.T) {
	results := &fakeResults{}
	em := &fakeEmitter{}
	w := newTestWorker(&fakeObjects{openErr: errors.New("access denied")}, results, em)

	_, err := w.Process(context.Background(), models.ProcessingJob{JobID: "job-2", Bucket: "uploads", Key: "gone.log"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results.saved) != 1 || results.saved[0].Status != models.StatusFailed {
		t.Fatalf("expected failed result saved, got %+v", results.saved)
	}
	if results.saved[0].ErrorMessage != "access denied" {
		t.Errorf("unexpected error message %q", results.saved[0].ErrorMessage)
	}
	if !em.has("WorkerFailureCount") {
		t.Error("expected failure metric")
	}
}

func TestWorkerProcessReadFailure(t *testing.T) {
	results := &fakeResults{}
	objects := &brokenObjects{}
	w := newTestWorker(objects, results, &fakeEmitter{})

	_, err := w.Process(context.Background(), models.ProcessingJob{JobID: "job-3", Bucket: "uploads", Key: "app.log"})
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected read error, got %v", err)
	}
	if len(objects.reports) != 0 {
		t.Error("expected no partial report")
	}
	if results.saved[0].Status != models.StatusFailed {
		t.Errorf("expected failed status, got %q", results.saved[0].Status)
	}
}

func TestWorkerHandleBadMessage(t *testing.T) {
	w := newTestWorker(&fakeObjects{}, &fakeResults{}, nil)

	err := w.Handle(context.Background(), events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m1", Body: "not json"}}})
	if err == nil {
		t.Fatal("expected error for malformed message")
	}
}

func TestWorkerHandle(t *testing.T) {
	objects := &fakeObjects{bodies: map[string]string{"uploads/a.log": "INFO hello\n"}}
	results := &fakeResults{}
	w := newTestWorker(objects, results, nil)

	body, _ := json.Marshal(models.ProcessingJob{JobID: "job-4", Bucket: "uploads", Key: "a.log"})
	err := w.Handle(context.Background(), events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m1", Body: string(body)}}})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(results.saved) != 1 || results.saved[0].Status != models.StatusCompleted {
		t.Errorf("expected completed result, got %+v", results.saved)
	}
}
