package processor

import (
	"testing"

	"log-analyzer/internal/models"
)

func entry(sev models.Severity, category, suggestion string) models.ClassifiedEntry {
	return models.ClassifiedEntry{Severity: sev, Category: category, Suggestion: suggestion}
}

func TestSuggestEmpty(t *testing.T) {
	if got := Suggest(nil); len(got) != 0 {
		t.Errorf("expected no suggestions, got %d", len(got))
	}
}

func TestSuggestCriticalAndLow(t *testing.T) {
	entries := []models.ClassifiedEntry{
		entry(models.SeverityCritical, "Infrastructure", "clean disk"),
		entry(models.SeverityLow, models.CategoryUncategorized, models.SuggestionUncategorized),
	}

	got := Suggest(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Priority != models.PriorityHigh {
		t.Errorf("expected high priority first, got %s", got[0].Priority)
	}
	if got[0].Description != "Found 1 critical problems and 0 high priority problems" {
		t.Errorf("unexpected description %q", got[0].Description)
	}
	if len(got[0].Actions) != 3 {
		t.Errorf("expected 3 generic actions, got %d", len(got[0].Actions))
	}
	if got[1].Priority != models.PriorityMedium || got[1].Title != "Optimizations for Infrastructure" {
		t.Errorf("unexpected category suggestion %+v", got[1])
	}
	if got[2].Priority != models.PriorityLow || len(got[2].Actions) != 2 {
		t.Errorf("unexpected uncategorized suggestion %+v", got[2])
	}
}

func TestSuggestNoCategoryWhenAllUncategorized(t *testing.T) {
	entries := []models.ClassifiedEntry{
		entry(models.SeverityHigh, models.CategoryUncategorized, models.SuggestionUncategorized),
		entry(models.SeverityLow, models.CategoryUncategorized, models.SuggestionUncategorized),
	}

	got := Suggest(entries)
	for _, s := range got {
		if s.Priority == models.PriorityMedium {
			t.Errorf("unexpected medium suggestion %+v", s)
		}
	}
	if len(got) != 2 {
		t.Errorf("expected high and low suggestions, got %d", len(got))
	}
	if got[1].Description != "Found 2 logs that need manual review" {
		t.Errorf("unexpected description %q", got[1].Description)
	}
}

func TestSuggestNoHighWhenOnlyMediumAndLow(t *testing.T) {
	got := Suggest([]models.ClassifiedEntry{entry(models.SeverityMedium, "Network", "tune timeouts")})
	if len(got) != 1 || got[0].Priority != models.PriorityMedium {
		t.Fatalf("expected a single medium suggestion, got %+v", got)
	}
	if got[0].Description != "Found 1 logs related to Network" {
		t.Errorf("unexpected description %q", got[0].Description)
	}
}

func TestSuggestCategoryActionsDedupedAndCapped(t *testing.T) {
	entries := []models.ClassifiedEntry{
		entry(models.SeverityLow, "Performance", "one"),
		entry(models.SeverityLow, "Performance", "one"),
		entry(models.SeverityLow, "Security", "sec"),
		entry(models.SeverityLow, "Performance", "two"),
		entry(models.SeverityLow, "Performance", "three"),
		entry(models.SeverityLow, "Performance", "four"),
	}

	got := Suggest(entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 category suggestions, got %d", len(got))
	}
	perf := got[0]
	if perf.Title != "Optimizations for Performance" {
		t.Fatalf("expected categories in first-seen order, got %q", perf.Title)
	}
	if perf.Description != "Found 5 logs related to Performance" {
		t.Errorf("unexpected description %q", perf.Description)
	}
	want := []string{"one", "two", "three"}
	if len(perf.Actions) != len(want) {
		t.Fatalf("expected %v, got %v", want, perf.Actions)
	}
	for i := range want {
		if perf.Actions[i] != want[i] {
			t.Errorf("action %d: expected %q, got %q", i, want[i], perf.Actions[i])
		}
	}
	if got[1].Title != "Optimizations for Security" {
		t.Errorf("expected Security second, got %q", got[1].Title)
	}
}
