package report

import (
	"fmt"
	"io"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/runner"
)

// WriteText renders a human-readable report: a status line per tool,
// indented finding lines, and a diagnostics section when any were raised.
func WriteText(w io.Writer, results []runner.ToolResult) error {
	var diagCount int

	for _, r := range results {
		switch {
		case r.Err != "":
			fmt.Fprintf(w, "[FAIL] %s: %s\n", r.Tool, r.Err)
		case len(r.Findings) > 0:
			fmt.Fprintf(w, "[FAIL] %s: %d findings (%dms)\n", r.Tool, len(r.Findings), r.DurationMs)
		default:
			fmt.Fprintf(w, "[PASS] %s (%dms)\n", r.Tool, r.DurationMs)
		}
		for _, f := range r.Findings {
			fmt.Fprintf(w, "  %s\n", formatFinding(f))
		}
		diagCount += len(r.Diagnostics)
	}

	if diagCount > 0 {
		fmt.Fprintf(w, "\ndiagnostics:\n")
		for _, r := range results {
			for _, d := range r.Diagnostics {
				fmt.Fprintf(w, "  %s [%s]: %s\n", d.Tool, d.Kind, d.Detail)
			}
		}
	}

	s := Summarize(results)
	fmt.Fprintf(w, "\n%d findings (%d errors, %d warnings, %d infos) across %d tools\n",
		s.Findings, s.Errors, s.Warnings, s.Infos, len(results))
	return nil
}

// formatFinding renders one finding as path:line:col: severity: message
// [code]. The column is omitted when the tool did not report one, and a
// finding with no location at all prints the tool name instead.
func formatFinding(f finding.Finding) string {
	loc := f.Path
	if loc == "" {
		loc = f.Tool
	}
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, f.Line)
		if f.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, f.Column)
		}
	}
	return fmt.Sprintf("%s: %s: %s [%s]", loc, f.Severity, f.Message, f.Code)
}
