package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/runner"
)

// jsonReport is the machine-readable envelope. The findings and
// diagnostics arrays are always present, never null.
type jsonReport struct {
	Findings    []finding.Finding    `json:"findings"`
	Diagnostics []finding.Diagnostic `json:"diagnostics"`
	Summary     Summary              `json:"summary"`
}

// WriteJSON renders all findings and diagnostics flattened across tools,
// in tool order, with the run summary attached.
func WriteJSON(w io.Writer, results []runner.ToolResult) error {
	rep := jsonReport{
		Findings:    make([]finding.Finding, 0),
		Diagnostics: make([]finding.Diagnostic, 0),
		Summary:     Summarize(results),
	}
	for _, r := range results {
		rep.Findings = append(rep.Findings, r.Findings...)
		rep.Diagnostics = append(rep.Diagnostics, r.Diagnostics...)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
