// internal/processor/catalog.go
package processor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"log-analyzer/internal/models"
)

// DefaultCatalog returns the built-in rule catalog. Order matters: the first
// rule with a matching pattern classifies the line.
func DefaultCatalog() []models.RuleSpec {
	return []models.RuleSpec{
		{
			ID:         "database_connection",
			Patterns:   []string{`database.*connection.*timeout`, `db.*connection.*failed`, `sql.*connection.*error`, `database.*connection.*restored`},
			Severity:   models.SeverityHigh,
			Category:   "Database",
			Suggestion: "Check database connectivity, connection pool and timeout settings",
		},
		{
			ID:         "memory_usage",
			Patterns:   []string{`high.*memory.*usage`, `out.*of.*memory`, `memory.*leak`, `memory.*optimization`, `memory.*usage.*reduced`},
			Severity:   models.SeverityHigh,
			Category:   "Performance",
			Suggestion: "Optimize memory usage, look for leaks and consider adding RAM",
		},
		{
			ID:         "disk_space",
			Patterns:   []string{`disk.*space.*full`, `no.*space.*left`, `disk.*usage.*high`, `disk.*space.*usage`},
			Severity:   models.SeverityCritical,
			Category:   "Infrastructure",
			Suggestion: "Clean up temporary files, rotate logs and monitor disk space",
		},
		{
			ID:         "ssl_certificate",
			Patterns:   []string{`ssl.*certificate.*expire`, `certificate.*expir`, `tls.*cert.*invalid`, `certificate.*renewal`},
			Severity:   models.SeverityMedium,
			Category:   "Security",
			Suggestion: "Renew the SSL/TLS certificate before it expires",
		},
		{
			ID:         "authentication",
			Patterns:   []string{`authentication.*failed`, `login.*failed`, `auth.*error`, `user.*login`, `user.*logout`, `session.*created`, `session.*destroyed`},
			Severity:   models.SeverityMedium,
			Category:   "Security",
			Suggestion: "Review credentials, password policies and suspicious access attempts",
		},
		{
			ID:         "network_timeout",
			Patterns:   []string{`api.*timeout`, `request.*timeout`, `connection.*timeout`, `external.*api.*call.*failed`, `service.*unavailable`},
			Severity:   models.SeverityMedium,
			Category:   "Network",
			Suggestion: "Check network latency, optimize queries and tune timeouts",
		},
		{
			ID:         "cache_performance",
			Patterns:   []string{`cache.*miss`, `cache.*hit.*rate.*low`, `cache.*performance`, `cache.*warming`, `cache.*optimization`},
			Severity:   models.SeverityLow,
			Category:   "Performance",
			Suggestion: "Tune the caching strategy, adjust TTLs and add cache warming",
		},
		{
			ID:         "application_startup",
			Patterns:   []string{`application.*started`, `server.*listening`, `service.*initialized`, `system.*started`},
			Severity:   models.SeverityLow,
			Category:   "Application",
			Suggestion: "Monitor startup time and dependencies",
		},
		{
			ID:         "backup_operations",
			Patterns:   []string{`backup.*started`, `backup.*completed`, `database.*backup`, `backup.*process`},
			Severity:   models.SeverityLow,
			Category:   "Infrastructure",
			Suggestion: "Verify backup routines and storage capacity",
		},
		{
			ID:         "email_operations",
			Patterns:   []string{`email.*sent`, `email.*campaign`, `email.*verification`, `email.*bounce`},
			Severity:   models.SeverityLow,
			Category:   "Application",
			Suggestion: "Monitor deliverability and SMTP settings",
		},
		{
			ID:         "security_scan",
			Patterns:   []string{`security.*scan`, `vulnerabilities.*found`, `security.*alert`, `suspicious.*activity`},
			Severity:   models.SeverityMedium,
			Category:   "Security",
			Suggestion: "Review security alerts and put preventive measures in place",
		},
		{
			ID:         "performance_monitoring",
			Patterns:   []string{`performance.*metrics`, `slow.*query`, `response.*time`, `cpu.*usage`, `optimization.*recommended`},
			Severity:   models.SeverityLow,
			Category:   "Performance",
			Suggestion: "Optimize queries and monitor performance metrics",
		},
	}
}

// CompiledRule is a RuleSpec with its patterns ready for matching
type CompiledRule struct {
	models.RuleSpec
	patterns []*regexp.Regexp
}

// ErrEmptyCatalog is returned when a catalog has no rules
var ErrEmptyCatalog = errors.New("rule catalog is empty")

// CompileCatalog validates rules and compiles their patterns case-insensitively,
// preserving catalog order.
func CompileCatalog(rules []models.RuleSpec) ([]CompiledRule, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(rules))
	compiled := make([]CompiledRule, 0, len(rules))
	for i, spec := range rules {
		if spec.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if _, dup := seen[spec.ID]; dup {
			return nil, fmt.Errorf("rule %q: duplicate id", spec.ID)
		}
		seen[spec.ID] = struct{}{}

		if !spec.Severity.Valid() {
			return nil, fmt.Errorf("rule %q: unknown severity %q", spec.ID, spec.Severity)
		}
		if strings.TrimSpace(spec.Category) == "" {
			return nil, fmt.Errorf("rule %q: missing category", spec.ID)
		}
		if spec.Category == models.CategoryUncategorized {
			return nil, fmt.Errorf("rule %q: category %q is reserved", spec.ID, spec.Category)
		}
		if len(spec.Patterns) == 0 {
			return nil, fmt.Errorf("rule %q: no patterns", spec.ID)
		}

		cr := CompiledRule{RuleSpec: spec, patterns: make([]*regexp.Regexp, 0, len(spec.Patterns))}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("rule %q: invalid pattern %q: %w", spec.ID, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// MustCompileCatalog is like CompileCatalog but panics on error.
// It is meant for the built-in catalog.
func MustCompileCatalog(rules []models.RuleSpec) []CompiledRule {
	compiled, err := CompileCatalog(rules)
	if err != nil {
		panic(err)
	}
	return compiled
}

// matches reports whether any of the rule's patterns occur in msg
func (r CompiledRule) matches(msg string) bool {
	_, ok := firstMatch(r.patterns, func(re *regexp.Regexp) (struct{}, bool) {
		return struct{}{}, re.MatchString(msg)
	})
	return ok
}
