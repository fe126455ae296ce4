// internal/processor/suggest.go
package processor

import (
	"fmt"

	"log-analyzer/internal/models"
)

// maxActions caps the actions listed on a category suggestion
const maxActions = 3

var (
	criticalActions = []string{
		"Review error logs immediately",
		"Check service status",
		"Set up proactive monitoring",
	}
	uncategorizedActions = []string{
		"Review unrecognized log patterns",
		"Consider adding new classification rules",
	}
)

// Suggest derives prioritized recommendations from a classified batch.
// An empty batch yields no suggestions.
func Suggest(entries []models.ClassifiedEntry) []models.SuggestionItem {
	if len(entries) == 0 {
		return nil
	}

	var suggestions []models.SuggestionItem

	stats := problemStats(entries)
	if stats.Critical > 0 || stats.High > 0 {
		suggestions = append(suggestions, models.SuggestionItem{
			Priority:    models.PriorityHigh,
			Title:       "Critical Problems Detected",
			Description: fmt.Sprintf("Found %d critical problems and %d high priority problems", stats.Critical, stats.High),
			Actions:     append([]string(nil), criticalActions...),
		})
	}

	// Categories in the order they first appear.
	var order []string
	members := make(map[string][]models.ClassifiedEntry)
	uncategorized := 0
	for _, e := range entries {
		if e.Category == models.CategoryUncategorized {
			uncategorized++
			continue
		}
		if _, ok := members[e.Category]; !ok {
			order = append(order, e.Category)
		}
		members[e.Category] = append(members[e.Category], e)
	}

	for _, category := range order {
		logs := members[category]
		suggestions = append(suggestions, models.SuggestionItem{
			Priority:    models.PriorityMedium,
			Title:       fmt.Sprintf("Optimizations for %s", category),
			Description: fmt.Sprintf("Found %d logs related to %s", len(logs), category),
			Actions:     distinctSuggestions(logs, maxActions),
		})
	}

	if uncategorized > 0 {
		suggestions = append(suggestions, models.SuggestionItem{
			Priority:    models.PriorityLow,
			Title:       "Uncategorized Logs",
			Description: fmt.Sprintf("Found %d logs that need manual review", uncategorized),
			Actions:     append([]string(nil), uncategorizedActions...),
		})
	}

	return suggestions
}

// distinctSuggestions returns up to limit unique rule suggestions, first seen first
func distinctSuggestions(entries []models.ClassifiedEntry, limit int) []string {
	seen := make(map[string]struct{})
	actions := make([]string, 0, limit)
	for _, e := range entries {
		if len(actions) == limit {
			break
		}
		if e.Suggestion == models.SuggestionUncategorized {
			continue
		}
		if _, dup := seen[e.Suggestion]; dup {
			continue
		}
		seen[e.Suggestion] = struct{}{}
		actions = append(actions, e.Suggestion)
	}
	return actions
}

// problemStats counts entries by severity
func problemStats(entries []models.ClassifiedEntry) models.ProblemStats {
	stats := models.ProblemStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Severity {
		case models.SeverityCritical:
			stats.Critical++
		case models.SeverityHigh:
			stats.High++
		case models.SeverityMedium:
			stats.Medium++
		case models.SeverityLow:
			stats.Low++
		}
	}
	return stats
}
