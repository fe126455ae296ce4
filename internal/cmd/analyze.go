// internal/cmd/analyze.go
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"log-analyzer/internal/output"
	"log-analyzer/internal/processor"
)

var showEntries bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyze one or more log files",
	Long: `Analyze one or more log files (or glob patterns) and print a report for
each. Every file is read fully; blank lines count towards the line total but
are not classified.

Examples:
  loganalyzer analyze /var/log/app.log
  loganalyzer analyze "/var/log/**/*.log"
  loganalyzer analyze app.log server.txt --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&showEntries, "entries", "e", false, "list every classified line")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, err := newAnalyzer(viper.GetViper())
	if err != nil {
		return err
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(viper.GetString("output"), cmd.OutOrStdout(), showEntries)
	if err != nil {
		return err
	}

	return analyzeFiles(paths, analyzer, renderer)
}

// analyzeFiles renders a result for every path and reports how many failed.
func analyzeFiles(paths []string, analyzer *processor.Analyzer, renderer output.Renderer) error {
	failed := 0
	for _, p := range paths {
		slog.Debug("analyzing file", "path", p)
		res := analyzer.AnalyzeFile(p)
		if !res.Success {
			failed++
			slog.Warn("analysis failed", "path", p, "error", res.Error)
		}
		if err := renderer.Render(p, res); err != nil {
			return fmt.Errorf("failed to render %s: %w", p, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be analyzed", failed, len(paths))
	}
	return nil
}

// expandPaths resolves glob patterns, including recursive "**" patterns.
// An argument that matches nothing is kept as-is so its failure is reported.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	return paths, nil
}

func newRenderer(format string, w io.Writer, entries bool) (output.Renderer, error) {
	switch strings.ToLower(format) {
	case "json":
		return output.NewJSONRenderer(w), nil
	case "text", "":
		return output.NewTextRenderer(w, entries), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}
