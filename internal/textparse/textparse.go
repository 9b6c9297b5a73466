// Package textparse extracts findings from free-form tool output, one line
// at a time, against an ordered pattern set. It is the degraded path used
// when structured output is unavailable or fails to parse, so it never
// aborts: every non-blank line either becomes a finding, extends the
// previous finding, or is accounted for in a diagnostic.
package textparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasnoah/lintmux/internal/finding"
)

// Pattern maps one line format to finding fields via regexp capture groups.
// Group indexes are 1-based; 0 means the pattern does not capture that
// field. Patterns are expected to be anchored at the start of the line so
// that indented detail lines fall through to continuation handling.
type Pattern struct {
	Name   string
	Regexp *regexp.Regexp

	// Capture group indexes.
	Path     int
	Line     int
	Column   int
	Code     int
	Message  int
	Severity int

	// DefaultCode fills Code when no group captures it or the capture is
	// empty. DefaultSeverity does the same for Severity.
	DefaultCode     string
	DefaultSeverity finding.Severity

	// MapCode normalizes a captured code (or message fragment) into a
	// stable code value. MapSeverity maps a captured severity word onto
	// the normalized scale.
	MapCode     func(string) string
	MapSeverity func(string) finding.Severity
}

// Parser matches lines against patterns in order; the first pattern that
// matches a line wins.
type Parser struct {
	tool     string
	patterns []Pattern
}

// New creates a parser for the named tool.
func New(tool string, patterns ...Pattern) *Parser {
	return &Parser{tool: tool, patterns: patterns}
}

// Parse scans raw line by line. Blank lines are skipped. A line matching no
// pattern is appended to the previous finding's message when it is indented
// and directly follows a line that produced a finding; otherwise it is
// recorded as a TextParseFailure diagnostic carrying the line content.
// A matched line whose numeric captures cannot be coerced is demoted to
// unmatched rather than producing a finding with garbage positions.
func (p *Parser) Parse(raw string) ([]finding.Finding, []finding.Diagnostic) {
	var findings []finding.Finding
	var diags []finding.Diagnostic
	prevFound := false

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			prevFound = false
			continue
		}

		f, matched, coerceErr := p.matchLine(line)
		if matched && coerceErr == nil {
			findings = append(findings, f)
			prevFound = true
			continue
		}
		if matched {
			diags = append(diags, finding.Diagnostic{
				Kind:   finding.KindTextParseFailure,
				Tool:   p.tool,
				Detail: fmt.Sprintf("%s: %q", coerceErr, line),
			})
			prevFound = false
			continue
		}

		if prevFound && isContinuation(line) {
			findings[len(findings)-1].Message += " " + strings.TrimSpace(line)
			continue
		}

		diags = append(diags, finding.Diagnostic{
			Kind:   finding.KindTextParseFailure,
			Tool:   p.tool,
			Detail: fmt.Sprintf("unmatched line: %q", line),
		})
		prevFound = false
	}

	return findings, diags
}

// matchLine tries each pattern in order. The bool reports whether any
// pattern's regexp accepted the line; the error is non-nil when the line
// matched but a capture could not be coerced into a finding field.
func (p *Parser) matchLine(line string) (finding.Finding, bool, error) {
	for _, pat := range p.patterns {
		m := pat.Regexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f, err := buildFinding(p.tool, pat, m)
		return f, true, err
	}
	return finding.Finding{}, false, nil
}

func buildFinding(tool string, pat Pattern, m []string) (finding.Finding, error) {
	f := finding.Finding{
		Tool:     tool,
		Code:     pat.DefaultCode,
		Severity: pat.DefaultSeverity,
	}

	if pat.Path > 0 {
		f.Path = strings.TrimSpace(group(m, pat.Path))
	}

	if pat.Line > 0 {
		if g := group(m, pat.Line); g != "" {
			n, err := strconv.Atoi(g)
			if err != nil {
				return f, fmt.Errorf("line number %q is not numeric", g)
			}
			if n < 1 {
				n = 1
			}
			f.Line = n
		}
	}

	if pat.Column > 0 {
		if g := group(m, pat.Column); g != "" {
			n, err := strconv.Atoi(g)
			if err != nil {
				return f, fmt.Errorf("column number %q is not numeric", g)
			}
			if n < 0 {
				n = 0
			}
			f.Column = n
		}
	}

	if pat.Code > 0 {
		if g := group(m, pat.Code); g != "" {
			if pat.MapCode != nil {
				f.Code = pat.MapCode(g)
			} else {
				f.Code = g
			}
		}
	}

	if pat.Severity > 0 {
		if g := group(m, pat.Severity); g != "" {
			if pat.MapSeverity != nil {
				f.Severity = pat.MapSeverity(g)
			} else if finding.Known(finding.Severity(g)) {
				f.Severity = finding.Severity(g)
			}
		}
	}

	if pat.Message > 0 {
		f.Message = strings.TrimSpace(group(m, pat.Message))
	}
	if f.Message == "" {
		return f, fmt.Errorf("pattern %s captured an empty message", pat.Name)
	}

	return f, nil
}

// group returns capture i from a FindStringSubmatch result, tolerating
// patterns with fewer groups than the index.
func group(m []string, i int) string {
	if i >= len(m) {
		return ""
	}
	return m[i]
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
