package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENVIRONMENT", "LOG_LEVEL", "AWS_ENDPOINT_URL", "QUEUE_URL", "DYNAMODB_TABLE",
		"REPORT_BUCKET", "REPORT_PREFIX", "METRICS_NAMESPACE", "MAX_UPLOAD_BYTES", "ALLOWED_EXTENSIONS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected %d, got %d", DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	}
	if cfg.ReportPrefix != "reports" {
		t.Errorf("expected reports prefix, got %q", cfg.ReportPrefix)
	}
	if cfg.MetricsNamespace != "LogAnalyzer" {
		t.Errorf("expected LogAnalyzer namespace, got %q", cfg.MetricsNamespace)
	}
	if len(cfg.AllowedExtensions) != 2 || cfg.AllowedExtensions[0] != "log" || cfg.AllowedExtensions[1] != "txt" {
		t.Errorf("unexpected extensions %v", cfg.AllowedExtensions)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DYNAMODB_TABLE", "results")
	t.Setenv("REPORT_PREFIX", "/out/")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("ALLOWED_EXTENSIONS", " .LOG, out ,,")

	cfg := Load()
	if cfg.Environment != "prod" || cfg.TableName != "results" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.ReportPrefix != "out" {
		t.Errorf("expected trimmed prefix, got %q", cfg.ReportPrefix)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.AllowedExtensions) != 2 || cfg.AllowedExtensions[0] != "log" || cfg.AllowedExtensions[1] != "out" {
		t.Errorf("unexpected extensions %v", cfg.AllowedExtensions)
	}
}

func TestLoadInvalidSizeFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	if got := Load().MaxUploadBytes; got != DefaultMaxUploadBytes {
		t.Errorf("expected default, got %d", got)
	}
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	if got := Load().MaxUploadBytes; got != DefaultMaxUploadBytes {
		t.Errorf("expected default, got %d", got)
	}
}

func TestAllowsKey(t *testing.T) {
	cfg := Config{AllowedExtensions: []string{"log", "txt"}}

	tests := []struct {
		key  string
		want bool
	}{
		{"uploads/app.log", true},
		{"uploads/APP.LOG", true},
		{"notes.txt", true},
		{"archive.log.gz", false},
		{"report.json", false},
		{"noextension", false},
		{"dir.log/file", false},
	}
	for _, tt := range tests {
		if got := cfg.AllowsKey(tt.key); got != tt.want {
			t.Errorf("AllowsKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestReportKey(t *testing.T) {
	if got := (Config{ReportPrefix: "reports"}).ReportKey("abc"); got != "reports/abc.json" {
		t.Errorf("unexpected key %q", got)
	}
	if got := (Config{}).ReportKey("abc"); got != "abc.json" {
		t.Errorf("unexpected key %q", got)
	}
}
