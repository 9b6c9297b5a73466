// Package finding defines the normalized issue model shared by every tool
// adapter. All downstream consumers (reporting, history, exit policy) work
// exclusively with these types, never with raw tool output.
package finding

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Known reports whether s is one of the recognized severity levels.
func Known(s Severity) bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Finding is a single normalized issue reported by an analysis tool.
// Line is 1-based and Column 0-based, following the conventions of the
// tools themselves; 0 in Line means the tool reported no usable location.
type Finding struct {
	Tool     string   `json:"tool"`
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// DiagnosticKind identifies the category of a parse diagnostic.
type DiagnosticKind string

const (
	// KindUnmatchedSchema: a structured record decoded as JSON but matched
	// no registered schema.
	KindUnmatchedSchema DiagnosticKind = "unmatched_schema"
	// KindDecodeError: a record matched a schema but a field could not be
	// converted to the normalized form.
	KindDecodeError DiagnosticKind = "decode_error"
	// KindFingerprintDrift: a record's field-name set no longer matches the
	// baseline recorded for the tool.
	KindFingerprintDrift DiagnosticKind = "fingerprint_drift"
	// KindTextParseFailure: a non-blank output line matched no text pattern.
	KindTextParseFailure DiagnosticKind = "text_parse_failure"
	// KindStructuredParseFailed: structured parsing of a whole payload
	// failed and the adapter fell back to text patterns.
	KindStructuredParseFailed DiagnosticKind = "structured_parse_failed"
)

// Diagnostic records a non-fatal problem encountered while parsing tool
// output. Diagnostics never abort a parse; they accompany whatever findings
// could still be extracted so that nothing disappears silently.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Tool   string         `json:"tool"`
	Detail string         `json:"detail"`
}
