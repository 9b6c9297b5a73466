package adapter

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/fingerprint"
	"github.com/lucasnoah/lintmux/internal/schema"
	"github.com/lucasnoah/lintmux/internal/textparse"
)

// MypyBaseline is the recorded shape of a mypy JSON record as of mypy 1.13.
// The JSON emitter always writes every key, using null for absent hint and
// code values.
var MypyBaseline = fingerprint.FromFields(
	"file", "line", "column", "message", "hint", "code", "severity",
)

// mypyTextRe matches mypy's text format, which mypy still uses for syntax
// errors even under --output=json: file:line:col: severity: message [code],
// with the column and code parts optional.
var mypyTextRe = regexp.MustCompile(
	`^(.+?):(\d+):(?:(\d+):)?\s*(error|warning|note):\s*(.+?)(?:\s*\[([^\]]+)\])?$`,
)

// Mypy builds the adapter for mypy. Output is one JSON object per line;
// text lines for syntax errors and summary chatter are interleaved in the
// same stream.
func Mypy(v *fingerprint.Validator) *Adapter {
	reg := schema.New().Register(
		"mypy-record",
		schema.AllOf(schema.HasStringField("file"), schema.HasFields("line", "message")),
		decodeMypyRecord,
	)

	fallback := textparse.New("mypy", textparse.Pattern{
		Name:            "mypy-text",
		Regexp:          mypyTextRe,
		Path:            1,
		Line:            2,
		Column:          3,
		Severity:        4,
		Message:         5,
		Code:            6,
		DefaultCode:     "error",
		DefaultSeverity: finding.SeverityError,
		MapSeverity:     mypySeverity,
	})

	return &Adapter{
		name:           "mypy",
		structured:     true,
		layout:         layoutLines,
		registry:       reg,
		validator:      v,
		fallback:       fallback,
		stderrPrefixes: []string{"mypy:", "error:"},
		stderrCode:     "mypy-error",
	}
}

// decodeMypyRecord converts one mypy JSON record into a finding. Missing
// optional fields are defaulted; only the message is indispensable.
func decodeMypyRecord(payload map[string]any) ([]finding.Finding, []finding.Diagnostic, error) {
	message, ok := stringField(payload, "message")
	if !ok {
		return nil, nil, errors.New(`record has no usable "message" field`)
	}
	if hint, ok := stringField(payload, "hint"); ok {
		message = fmt.Sprintf("%s (%s)", message, hint)
	}

	f := finding.Finding{
		Tool:     "mypy",
		Line:     1,
		Code:     "error",
		Message:  message,
		Severity: finding.SeverityError,
	}
	if path, ok := stringField(payload, "file"); ok {
		f.Path = path
	}
	if line, ok := intField(payload, "line"); ok && line > 1 {
		f.Line = line
	}
	if col, ok := intField(payload, "column"); ok && col > 0 {
		f.Column = col
	}
	if code, ok := stringField(payload, "code"); ok {
		f.Code = code
	}
	if sev, ok := stringField(payload, "severity"); ok {
		f.Severity = mypySeverity(sev)
	}
	return []finding.Finding{f}, nil, nil
}

// mypySeverity maps mypy's severity words onto the normalized scale. Notes
// are informational attachments, not failures.
func mypySeverity(s string) finding.Severity {
	switch s {
	case "warning":
		return finding.SeverityWarning
	case "note":
		return finding.SeverityInfo
	default:
		return finding.SeverityError
	}
}
