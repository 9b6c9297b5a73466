// Package report renders tool results as text, JSON, or SARIF and decides
// the run's exit status.
package report

import (
	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/runner"
)

// ToolSummary aggregates one tool's results.
type ToolSummary struct {
	Tool        string `json:"tool"`
	ExitCode    int    `json:"exit_code"`
	DurationMs  int    `json:"duration_ms"`
	Findings    int    `json:"findings"`
	Errors      int    `json:"errors"`
	Warnings    int    `json:"warnings"`
	Infos       int    `json:"infos"`
	Diagnostics int    `json:"diagnostics"`
	Drift       bool   `json:"drift"`
	Err         string `json:"error,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	Tools       []ToolSummary `json:"tools"`
	Findings    int           `json:"findings"`
	Errors      int           `json:"errors"`
	Warnings    int           `json:"warnings"`
	Infos       int           `json:"infos"`
	Diagnostics int           `json:"diagnostics"`
}

// Summarize counts findings and diagnostics per tool and overall. Tools
// appear in result order.
func Summarize(results []runner.ToolResult) Summary {
	s := Summary{Tools: make([]ToolSummary, 0, len(results))}

	for _, r := range results {
		ts := ToolSummary{
			Tool:        r.Tool,
			ExitCode:    r.ExitCode,
			DurationMs:  r.DurationMs,
			Findings:    len(r.Findings),
			Diagnostics: len(r.Diagnostics),
			Err:         r.Err,
		}
		for _, f := range r.Findings {
			switch f.Severity {
			case finding.SeverityError:
				ts.Errors++
			case finding.SeverityWarning:
				ts.Warnings++
			case finding.SeverityInfo:
				ts.Infos++
			}
		}
		for _, d := range r.Diagnostics {
			if d.Kind == finding.KindFingerprintDrift {
				ts.Drift = true
			}
		}

		s.Tools = append(s.Tools, ts)
		s.Findings += ts.Findings
		s.Errors += ts.Errors
		s.Warnings += ts.Warnings
		s.Infos += ts.Infos
		s.Diagnostics += ts.Diagnostics
	}
	return s
}

// severityRank orders severities for threshold comparison. Higher is worse.
func severityRank(s finding.Severity) int {
	switch s {
	case finding.SeverityError:
		return 3
	case finding.SeverityWarning:
		return 2
	case finding.SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ShouldFail reports whether any finding meets the fail-on threshold.
// Diagnostics never affect the outcome, and "none" never fails.
func ShouldFail(results []runner.ToolResult, failOn string) bool {
	threshold := severityRank(finding.Severity(failOn))
	if threshold == 0 {
		return false
	}
	for _, r := range results {
		for _, f := range r.Findings {
			if severityRank(f.Severity) >= threshold {
				return true
			}
		}
	}
	return false
}
