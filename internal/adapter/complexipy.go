package adapter

import (
	"fmt"
	"regexp"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/fingerprint"
	"github.com/lucasnoah/lintmux/internal/schema"
	"github.com/lucasnoah/lintmux/internal/textparse"
)

// ComplexipyBaseline is the recorded shape of one entry in the report's
// messages array.
var ComplexipyBaseline = fingerprint.FromFields("path", "line", "code", "message")

// complexipyTextRe matches the plain report lines: path:line: CODE message,
// where CODE is CCR001 for functions over the complexity threshold and
// CCE001 for files that failed to parse.
var complexipyTextRe = regexp.MustCompile(`^(.+?):(\d+):\s*(CC[RE]\d{3})\s+(.+)$`)

// Complexipy builds the adapter for complexipy's cognitive complexity
// report, a single JSON document with the findings in a messages array.
func Complexipy(v *fingerprint.Validator) *Adapter {
	reg := schema.New().Register(
		"complexipy-report",
		schema.HasArrayField("messages"),
		decodeComplexipyReport,
	)

	fallback := textparse.New("complexipy", textparse.Pattern{
		Name:            "complexipy-text",
		Regexp:          complexipyTextRe,
		Path:            1,
		Line:            2,
		Code:            3,
		Message:         4,
		DefaultCode:     "unknown",
		DefaultSeverity: finding.SeverityWarning,
	})

	return &Adapter{
		name:         "complexipy",
		structured:   true,
		layout:       layoutDocument,
		recordsField: "messages",
		registry:     reg,
		validator:    v,
		fallback:     fallback,
	}
}

// decodeComplexipyReport walks the messages array. A malformed entry
// becomes a diagnostic and never blocks the entries after it.
func decodeComplexipyReport(payload map[string]any) ([]finding.Finding, []finding.Diagnostic, error) {
	entries, _ := payload["messages"].([]any)

	var findings []finding.Finding
	var diags []finding.Diagnostic
	for i, el := range entries {
		rec, ok := el.(map[string]any)
		if !ok {
			diags = append(diags, finding.Diagnostic{
				Kind:   finding.KindDecodeError,
				Tool:   "complexipy",
				Detail: fmt.Sprintf("messages[%d] is %T, not an object", i, el),
			})
			continue
		}
		message, ok := stringField(rec, "message")
		if !ok {
			diags = append(diags, finding.Diagnostic{
				Kind:   finding.KindDecodeError,
				Tool:   "complexipy",
				Detail: fmt.Sprintf(`messages[%d] has no usable "message" field`, i),
			})
			continue
		}

		f := finding.Finding{
			Tool:     "complexipy",
			Code:     "unknown",
			Message:  message,
			Severity: finding.SeverityWarning,
		}
		if path, ok := stringField(rec, "path"); ok {
			f.Path = path
		}
		if line, ok := intField(rec, "line"); ok && line > 0 {
			f.Line = line
		}
		if code, ok := stringField(rec, "code"); ok {
			f.Code = code
		}
		findings = append(findings, f)
	}
	return findings, diags, nil
}
