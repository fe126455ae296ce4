// internal/processor/analyzer.go
package processor

import (
	"fmt"
	"io"
	"os"

	"log-analyzer/internal/models"
)

// Analyzer turns raw log text into a diagnostic report.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	parser     *LogParser
	classifier *Classifier
}

// NewAnalyzer creates an Analyzer around the given classifier
func NewAnalyzer(classifier *Classifier) *Analyzer {
	return &Analyzer{
		parser:     NewLogParser(),
		classifier: classifier,
	}
}

// NewDefaultAnalyzer creates an Analyzer using the built-in catalog and fallback map
func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(NewClassifier(MustCompileCatalog(DefaultCatalog()), DefaultFallback()))
}

// Classifier returns the classifier used by the analyzer
func (a *Analyzer) Classifier() *Classifier {
	return a.classifier
}

// Analyze reads the whole stream and builds a complete report
func (a *Analyzer) Analyze(reader io.Reader) (*models.Report, error) {
	parsed, err := a.parser.Parse(reader)
	if err != nil {
		return nil, err
	}

	all, suggestions := a.classifier.Classify(parsed.Entries)
	agg := Aggregate(all)

	return &models.Report{
		Statistics: models.Statistics{
			TotalLines:         parsed.TotalLines,
			ErrorCount:         agg.LevelCounts[models.LevelError],
			WarningCount:       agg.LevelCounts[models.LevelWarning],
			InfoCount:          agg.LevelCounts[models.LevelInfo],
			DebugCount:         agg.LevelCounts[models.LevelDebug],
			UnknownCount:       agg.LevelCounts[models.LevelUnknown],
			AvgTimeBetweenLogs: agg.MeanInterArrival,
		},
		Charts:       Charts(agg),
		AllLogs:      all,
		Suggestions:  nonNil(suggestions),
		ProblemStats: problemStats(all),
	}, nil
}

// Result runs Analyze and folds any failure into the returned value
func (a *Analyzer) Result(reader io.Reader) models.Result {
	report, err := a.Analyze(reader)
	if err != nil {
		return models.Result{Success: false, Error: err.Error()}
	}
	return models.Result{Success: true, Report: report}
}

// AnalyzeFile analyzes the file at path. It never returns an error: an
// unreadable file yields an unsuccessful Result.
func (a *Analyzer) AnalyzeFile(path string) models.Result {
	f, err := os.Open(path)
	if err != nil {
		return models.Result{Success: false, Error: fmt.Sprintf("failed to open %s: %v", path, err)}
	}
	defer f.Close()
	return a.Result(f)
}

func nonNil(s []models.SuggestionItem) []models.SuggestionItem {
	if s == nil {
		return []models.SuggestionItem{}
	}
	return s
}
