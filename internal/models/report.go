// internal/models/report.go
package models

import "time"

// Level is the verbosity tag extracted from a log line
type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
	LevelInfo    Level = "INFO"
	LevelDebug   Level = "DEBUG"
	LevelUnknown Level = "UNKNOWN"
)

// Levels lists every level in report order
var Levels = []Level{LevelError, LevelWarning, LevelInfo, LevelDebug, LevelUnknown}

// Severity is the urgency assigned to a classified entry, independent of its level
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity from most to least urgent
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is one of the four known severities
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Priority orders suggestions
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Fallback classification for lines no rule matches
const (
	CategoryUncategorized   = "Uncategorized"
	RuleUncategorized       = "uncategorized"
	SuggestionUncategorized = "Review manually"
)

// ParsedEntry is one non-empty input line after timestamp and level extraction
type ParsedEntry struct {
	Timestamp *time.Time
	Level     Level
	Message   string
}

// RuleSpec describes one problem signature of the rule catalog.
// Patterns are matched case-insensitively against the lower-cased message.
type RuleSpec struct {
	ID         string   `json:"id" mapstructure:"id"`
	Patterns   []string `json:"patterns" mapstructure:"patterns"`
	Severity   Severity `json:"severity" mapstructure:"severity"`
	Category   string   `json:"category" mapstructure:"category"`
	Suggestion string   `json:"suggestion" mapstructure:"suggestion"`
}

// ClassifiedEntry is a ParsedEntry with its problem classification attached
type ClassifiedEntry struct {
	Timestamp  *time.Time `json:"timestamp"`
	Level      Level      `json:"level"`
	Severity   Severity   `json:"severity"`
	Category   string     `json:"category"`
	Message    string     `json:"message"`
	Suggestion string     `json:"suggestion"`
	RuleID     string     `json:"type"`
}

// SuggestionItem is a human-readable recommendation derived from a report
type SuggestionItem struct {
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// Count is one labelled tally, kept in a slice so ordering survives serialization
type Count struct {
	Label string
	Value int
}

// Aggregate holds the tallies computed over one batch of classified entries
type Aggregate struct {
	LevelCounts      map[Level]int
	SeverityCounts   []Count // first-seen order
	CategoryCounts   []Count // first-seen order
	Hourly           []Count // ascending "YYYY-MM-DD HH:00" keys
	MeanInterArrival *float64
}

// ChartData is a parallel label/value projection for the dashboard
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors,omitempty"`
}

// Charts groups the four chart projections of a report
type Charts struct {
	PieChart      ChartData `json:"pie_chart"`
	LineChart     ChartData `json:"line_chart"`
	CategoryChart ChartData `json:"category_chart"`
	SeverityChart ChartData `json:"severity_chart"`
}

// Statistics is the headline block of a report
type Statistics struct {
	TotalLines         int      `json:"total_lines"`
	ErrorCount         int      `json:"error_count"`
	WarningCount       int      `json:"warning_count"`
	InfoCount          int      `json:"info_count"`
	DebugCount         int      `json:"debug_count"`
	UnknownCount       int      `json:"unknown_count"`
	AvgTimeBetweenLogs *float64 `json:"avg_time_between_logs"`
}

// ProblemStats counts classified entries by severity
type ProblemStats struct {
	Total    int `json:"total_problems"`
	Critical int `json:"critical_problems"`
	High     int `json:"high_problems"`
	Medium   int `json:"medium_problems"`
	Low      int `json:"low_problems"`
}

// Report is the full output of one analysis run
type Report struct {
	Statistics   Statistics        `json:"statistics"`
	Charts       Charts            `json:"charts"`
	AllLogs      []ClassifiedEntry `json:"all_logs"`
	Suggestions  []SuggestionItem  `json:"suggestions"`
	ProblemStats ProblemStats      `json:"problem_stats"`
}

// Uncategorized returns how many entries no rule matched
func (r *Report) Uncategorized() int {
	n := 0
	for _, e := range r.AllLogs {
		if e.Category == CategoryUncategorized {
			n++
		}
	}
	return n
}

// Result is the engine boundary value: either a complete report or a failure message
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	*Report
}
