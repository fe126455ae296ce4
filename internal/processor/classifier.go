// internal/processor/classifier.go
package processor

import (
	"strings"

	"log-analyzer/internal/models"
)

// DefaultFallback maps the level of an unmatched line to its severity
func DefaultFallback() map[models.Level]models.Severity {
	return map[models.Level]models.Severity{
		models.LevelError:   models.SeverityHigh,
		models.LevelWarning: models.SeverityMedium,
		models.LevelInfo:    models.SeverityLow,
		models.LevelDebug:   models.SeverityLow,
		models.LevelUnknown: models.SeverityLow,
	}
}

// Classifier assigns every parsed entry exactly one category, severity and
// suggestion from an ordered rule catalog.
type Classifier struct {
	rules    []CompiledRule
	fallback map[models.Level]models.Severity
}

// NewClassifier creates a Classifier over the given catalog. Levels missing
// from fallback resolve to low severity.
func NewClassifier(rules []CompiledRule, fallback map[models.Level]models.Severity) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// Rules returns the catalog in matching order
func (c *Classifier) Rules() []models.RuleSpec {
	specs := make([]models.RuleSpec, len(c.rules))
	for i, r := range c.rules {
		specs[i] = r.RuleSpec
	}
	return specs
}

// Classify classifies every entry, in input order, and synthesizes suggestions
// for the whole batch.
func (c *Classifier) Classify(entries []models.ParsedEntry) ([]models.ClassifiedEntry, []models.SuggestionItem) {
	classified := make([]models.ClassifiedEntry, 0, len(entries))
	for _, e := range entries {
		classified = append(classified, c.ClassifyEntry(e))
	}
	return classified, Suggest(classified)
}

// ClassifyEntry classifies a single entry
func (c *Classifier) ClassifyEntry(e models.ParsedEntry) models.ClassifiedEntry {
	out := models.ClassifiedEntry{
		Timestamp: e.Timestamp,
		Level:     e.Level,
		Message:   e.Message,
	}

	msg := strings.ToLower(e.Message)
	rule, ok := firstMatch(c.rules, func(r CompiledRule) (CompiledRule, bool) {
		return r, r.matches(msg)
	})
	if !ok {
		out.Severity = c.fallbackSeverity(e.Level)
		out.Category = models.CategoryUncategorized
		out.Suggestion = models.SuggestionUncategorized
		out.RuleID = models.RuleUncategorized
		return out
	}

	out.Severity = rule.Severity
	out.Category = rule.Category
	out.Suggestion = rule.Suggestion
	out.RuleID = rule.ID
	return out
}

func (c *Classifier) fallbackSeverity(lvl models.Level) models.Severity {
	if s, ok := c.fallback[lvl]; ok {
		return s
	}
	return models.SeverityLow
}
