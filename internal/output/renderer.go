// internal/output/renderer.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"log-analyzer/internal/models"
)

// Renderer writes analysis results to an output stream.
type Renderer interface {
	Render(file string, res models.Result) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleFailure  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleCritical = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TextRenderer prints a human-readable summary per file.
type TextRenderer struct {
	w           io.Writer
	showEntries bool
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
// When showEntries is set every classified line is listed too.
func NewTextRenderer(w io.Writer, showEntries bool) *TextRenderer {
	return &TextRenderer{w: w, showEntries: showEntries}
}

func (r *TextRenderer) Render(file string, res models.Result) error {
	var b strings.Builder

	fmt.Fprintln(&b, styleTitle.Render("== "+file+" =="))
	if !res.Success {
		fmt.Fprintf(&b, "%s %s\n\n", styleFailure.Render("analysis failed:"), res.Error)
		_, err := io.WriteString(r.w, b.String())
		return err
	}

	st := res.Statistics
	gap := "n/a"
	if st.AvgTimeBetweenLogs != nil {
		gap = fmt.Sprintf("%.1fs", *st.AvgTimeBetweenLogs)
	}
	fmt.Fprintf(&b, "%s %d  %s %d  %s %s\n",
		styleLabel.Render("lines:"), st.TotalLines,
		styleLabel.Render("entries:"), len(res.AllLogs),
		styleLabel.Render("avg gap:"), gap)

	fmt.Fprintf(&b, "%s %s\n", styleLabel.Render("levels:"), pairs(res.Charts.PieChart))

	ps := res.ProblemStats
	fmt.Fprintf(&b, "%s %d total, %s, %s, %s, %s\n", styleLabel.Render("problems:"), ps.Total,
		styleSeverity(models.SeverityCritical, fmt.Sprintf("%d critical", ps.Critical)),
		styleSeverity(models.SeverityHigh, fmt.Sprintf("%d high", ps.High)),
		styleSeverity(models.SeverityMedium, fmt.Sprintf("%d medium", ps.Medium)),
		styleSeverity(models.SeverityLow, fmt.Sprintf("%d low", ps.Low)))

	if len(res.Charts.CategoryChart.Labels) > 0 {
		fmt.Fprintf(&b, "%s %s\n", styleLabel.Render("categories:"), pairs(res.Charts.CategoryChart))
	}

	if len(res.Suggestions) > 0 {
		fmt.Fprintln(&b, styleLabel.Render("suggestions:"))
		for _, s := range res.Suggestions {
			tag := fmt.Sprintf("[%s]", strings.ToUpper(string(s.Priority)))
			fmt.Fprintf(&b, "  %s %s: %s\n", stylePriority(s.Priority, tag), s.Title, s.Description)
			for _, a := range s.Actions {
				fmt.Fprintf(&b, "      - %s\n", a)
			}
		}
	}

	if r.showEntries {
		for _, e := range res.AllLogs {
			ts := "-------------------"
			if e.Timestamp != nil {
				ts = e.Timestamp.Format("2006-01-02 15:04:05")
			}
			sev := styleSeverity(e.Severity, fmt.Sprintf("%-8s", e.Severity))
			fmt.Fprintf(&b, "%s %s %-16s %s\n", ts, sev, e.Category, e.Message)
		}
	}

	fmt.Fprintln(&b)
	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderRules prints a catalog as a table, in matching order.
func RenderRules(w io.Writer, rules []models.RuleSpec) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "SEVERITY", "CATEGORY", "PATTERNS")
	for i, r := range rules {
		t.Row(fmt.Sprint(i+1), r.ID, string(r.Severity), r.Category, strings.Join(r.Patterns, " | "))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func pairs(c models.ChartData) string {
	parts := make([]string, 0, len(c.Labels))
	for i, l := range c.Labels {
		parts = append(parts, fmt.Sprintf("%s %d", l, c.Data[i]))
	}
	return strings.Join(parts, ", ")
}

func styleSeverity(s models.Severity, text string) string {
	switch s {
	case models.SeverityCritical:
		return styleCritical.Render(text)
	case models.SeverityHigh:
		return styleHigh.Render(text)
	case models.SeverityMedium:
		return styleMedium.Render(text)
	default:
		return styleLow.Render(text)
	}
}

func stylePriority(p models.Priority, text string) string {
	switch p {
	case models.PriorityHigh:
		return styleHigh.Render(text)
	case models.PriorityMedium:
		return styleMedium.Render(text)
	default:
		return styleLow.Render(text)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// fileResult tags a result with the file it came from.
type fileResult struct {
	File string `json:"file"`
	models.Result
}

// JSONRenderer prints each result as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(file string, res models.Result) error {
	return r.enc.Encode(fileResult{File: file, Result: res})
}
