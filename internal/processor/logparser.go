// internal/processor/logparser.go
package processor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"log-analyzer/internal/models"
)

// DefaultMaxLineBytes bounds a single line. It equals the default upload
// ceiling, so no accepted upload can hold a longer line.
const DefaultMaxLineBytes = 16 * 1024 * 1024

var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),      // 2023-12-01 10:30:45
	regexp.MustCompile(`\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}`),      // 01/12/2023 10:30:45
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`),      // 2023-12-01T10:30:45
	regexp.MustCompile(`[\p{L}\p{N}_]{3} \d{2} \d{2}:\d{2}:\d{2}`), // Dec 01 10:30:45
}

type timestampLayout struct {
	layout   string
	yearless bool
}

// Layouts are tried in order against whatever text the winning pattern captured.
var timestampLayouts = []timestampLayout{
	{layout: "2006-01-02 15:04:05"},
	{layout: "02/01/2006 15:04:05"},
	{layout: "2006-01-02T15:04:05"},
	{layout: "Jan 02 15:04:05", yearless: true},
}

// yearlessYear is the year given to syslog-style stamps that carry none
const yearlessYear = "1900"

type levelGroup struct {
	re    *regexp.Regexp
	level models.Level
}

// wordBounded matches any of the alternatives as a whole word. Word characters
// are Unicode letters, digits and underscore, so "éERROR" is not a match.
func wordBounded(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + alternatives + `)(?:$|[^\p{L}\p{N}_])`)
}

var levelGroups = []levelGroup{
	{wordBounded(`ERROR|FATAL|CRITICAL`), models.LevelError},
	{wordBounded(`WARN|WARNING`), models.LevelWarning},
	{wordBounded(`INFO|INFORMATION`), models.LevelInfo},
	{wordBounded(`DEBUG|TRACE`), models.LevelDebug},
}

// ParseLine extracts the timestamp and normalized level from a raw line.
// Lines without a recognizable timestamp or level are not errors: they yield a
// nil Timestamp and LevelUnknown.
func ParseLine(line string) models.ParsedEntry {
	entry := models.ParsedEntry{
		Timestamp: parseTimestamp(line),
		Level:     models.LevelUnknown,
		Message:   strings.TrimSpace(line),
	}
	if lvl, ok := firstMatch(levelGroups, func(g levelGroup) (models.Level, bool) {
		return g.level, g.re.MatchString(line)
	}); ok {
		entry.Level = lvl
	}
	return entry
}

// parseTimestamp uses the first pattern that matches the line. When none of the
// layouts accept the captured text the result is nil; later patterns are not
// consulted.
func parseTimestamp(line string) *time.Time {
	text, ok := firstMatch(timestampPatterns, func(re *regexp.Regexp) (string, bool) {
		loc := re.FindStringIndex(line)
		if loc == nil {
			return "", false
		}
		return line[loc[0]:loc[1]], true
	})
	if !ok {
		return nil
	}

	ts, ok := firstMatch(timestampLayouts, func(l timestampLayout) (time.Time, bool) {
		layout, value := l.layout, text
		if l.yearless {
			layout, value = "2006 "+layout, yearlessYear+" "+text
		}
		t, err := time.Parse(layout, value)
		return t, err == nil && t.Year() >= 1
	})
	if !ok {
		return nil
	}
	return &ts
}

// ParsedLog is the line-level view of one input
type ParsedLog struct {
	TotalLines int // every raw line, blanks included
	Entries    []models.ParsedEntry
}

// LogParser reads log files line by line and parses every non-blank line
type LogParser struct {
	maxLineBytes int
}

// NewLogParser creates a LogParser bounded by DefaultMaxLineBytes
func NewLogParser() *LogParser {
	return NewLogParserWithLimit(DefaultMaxLineBytes)
}

// NewLogParserWithLimit creates a LogParser that fails on lines longer than
// maxLineBytes.
func NewLogParserWithLimit(maxLineBytes int) *LogParser {
	return &LogParser{maxLineBytes: maxLineBytes}
}

// Parse reads the whole stream. Lines end at "\n", "\r\n" or a lone "\r".
// Bytes that are not valid UTF-8 are dropped.
func (p *LogParser) Parse(reader io.Reader) (*ParsedLog, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(scanLogLines)

	// Increase buffer size for potentially long lines. The scanner also needs
	// room for the terminator.
	limit := p.maxLineBytes + 2
	buf := make([]byte, 0, min(64*1024, limit))
	scanner.Buffer(buf, limit)

	parsed := &ParsedLog{}
	for scanner.Scan() {
		parsed.TotalLines++
		line := strings.ToValidUTF8(scanner.Text(), "")

		if strings.TrimSpace(line) == "" {
			continue
		}
		parsed.Entries = append(parsed.Entries, ParseLine(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning file: %w", err)
	}
	return parsed, nil
}

// scanLogLines is a bufio.SplitFunc that accepts "\n", "\r\n" and a lone "\r"
// as line terminators.
func scanLogLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		// A trailing "\r" may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
