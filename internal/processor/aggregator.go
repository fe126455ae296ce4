// internal/processor/aggregator.go
package processor

import (
	"sort"
	"time"

	"log-analyzer/internal/models"
)

const hourBucketLayout = "2006-01-02 15:00"

var (
	levelColors    = []string{"#ef4444", "#f59e0b", "#3b82f6", "#10b981", "#6b7280"}
	categoryColors = []string{"#ef4444", "#f59e0b", "#3b82f6", "#10b981", "#8b5cf6", "#06b6d4", "#84cc16", "#f97316", "#ec4899", "#6b7280"}
	severityColors = []string{"#dc2626", "#ea580c", "#d97706", "#16a34a"} // critical, high, medium, low
)

// Aggregate computes level, severity, category and hourly tallies plus the
// mean time between timestamped entries.
func Aggregate(entries []models.ClassifiedEntry) models.Aggregate {
	agg := models.Aggregate{LevelCounts: make(map[models.Level]int, len(models.Levels))}
	for _, lvl := range models.Levels {
		agg.LevelCounts[lvl] = 0
	}

	severities := newTally()
	categories := newTally()
	hourly := make(map[string]int)
	var stamps []time.Time

	for _, e := range entries {
		agg.LevelCounts[e.Level]++
		severities.add(string(e.Severity))
		categories.add(e.Category)
		if e.Timestamp != nil {
			hourly[e.Timestamp.Format(hourBucketLayout)]++
			stamps = append(stamps, *e.Timestamp)
		}
	}

	agg.SeverityCounts = severities.counts()
	agg.CategoryCounts = categories.counts()
	agg.Hourly = sortedCounts(hourly)
	agg.MeanInterArrival = meanInterArrival(stamps)
	return agg
}

// meanInterArrival averages the gaps between consecutive sorted timestamps.
// It returns nil when fewer than two timestamps exist.
func meanInterArrival(stamps []time.Time) *float64 {
	if len(stamps) < 2 {
		return nil
	}
	sorted := append([]time.Time(nil), stamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var total float64
	for i := 1; i < len(sorted); i++ {
		total += secondsBetween(sorted[i-1], sorted[i])
	}
	mean := total / float64(len(sorted)-1)
	return &mean
}

// secondsBetween avoids time.Duration, which saturates after about 292 years
func secondsBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}

// Charts projects an aggregate into the four dashboard charts
func Charts(agg models.Aggregate) models.Charts {
	pie := models.ChartData{Colors: levelColors}
	for _, lvl := range models.Levels {
		pie.Labels = append(pie.Labels, string(lvl))
		pie.Data = append(pie.Data, agg.LevelCounts[lvl])
	}

	line := chartOf(agg.Hourly, nil)
	return models.Charts{
		PieChart:      pie,
		LineChart:     line,
		CategoryChart: chartOf(agg.CategoryCounts, categoryColors),
		SeverityChart: chartOf(agg.SeverityCounts, severityColors),
	}
}

func chartOf(counts []models.Count, colors []string) models.ChartData {
	chart := models.ChartData{
		Labels: make([]string, 0, len(counts)),
		Data:   make([]int, 0, len(counts)),
		Colors: colors,
	}
	for _, c := range counts {
		chart.Labels = append(chart.Labels, c.Label)
		chart.Data = append(chart.Data, c.Value)
	}
	return chart
}

// tally counts labels and remembers the order they were first seen
type tally struct {
	order []string
	n     map[string]int
}

func newTally() *tally {
	return &tally{n: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, ok := t.n[label]; !ok {
		t.order = append(t.order, label)
	}
	t.n[label]++
}

func (t *tally) counts() []models.Count {
	out := make([]models.Count, 0, len(t.order))
	for _, l := range t.order {
		out = append(out, models.Count{Label: l, Value: t.n[l]})
	}
	return out
}

func sortedCounts(m map[string]int) []models.Count {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.Count, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.Count{Label: k, Value: m[k]})
	}
	return out
}
