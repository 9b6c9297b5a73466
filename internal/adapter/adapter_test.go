package adapter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lucasnoah/lintmux/internal/finding"
)

func table(t *testing.T) *Table {
	t.Helper()
	return NewTable()
}

func get(t *testing.T, name string) *Adapter {
	t.Helper()
	a, ok := table(t).Get(name)
	if !ok {
		t.Fatalf("adapter %q not in table", name)
	}
	return a
}

func countKind(diags []finding.Diagnostic, kind finding.DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func TestMypyStructuredRecords(t *testing.T) {
	a := get(t, "mypy")
	raw := `{"file": "src/app.py", "line": 10, "column": 4, "message": "Incompatible return value type", "hint": null, "code": "return-value", "severity": "error"}
{"file": "src/app.py", "line": 12, "column": 0, "message": "See reveal_type output", "hint": "try reveal_type", "code": null, "severity": "note"}
`
	findings, diags := a.Parse(raw, true)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v, want none", diags)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}

	f := findings[0]
	if f.Tool != "mypy" || f.Path != "src/app.py" || f.Line != 10 || f.Column != 4 {
		t.Errorf("location = %s %s:%d:%d", f.Tool, f.Path, f.Line, f.Column)
	}
	if f.Code != "return-value" || f.Severity != finding.SeverityError {
		t.Errorf("code/severity = %s/%s", f.Code, f.Severity)
	}

	note := findings[1]
	if note.Severity != finding.SeverityInfo {
		t.Errorf("note severity = %s, want info", note.Severity)
	}
	if note.Code != "error" {
		t.Errorf("note code = %q, want the error sentinel for null code", note.Code)
	}
	if note.Message != "See reveal_type output (try reveal_type)" {
		t.Errorf("hint not appended: %q", note.Message)
	}
}

func TestMypyMixedTextAndJSON(t *testing.T) {
	a := get(t, "mypy")
	raw := `src/broken.py:3: error: invalid syntax [syntax]
{"file": "src/app.py", "line": 7, "column": 2, "message": "Name \"x\" is not defined", "hint": null, "code": "name-defined", "severity": "error"}
`
	findings, diags := a.Parse(raw, true)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v, want none", diags)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[0].Code != "syntax" || findings[0].Line != 3 {
		t.Errorf("text finding = %+v", findings[0])
	}
	if findings[1].Code != "name-defined" {
		t.Errorf("json finding = %+v", findings[1])
	}
}

func TestMypyMalformedJSONLineFallsThroughToText(t *testing.T) {
	a := get(t, "mypy")
	raw := `{"file": "src/app.py", "line": 5,` + "\n"

	findings, diags := a.Parse(raw, true)
	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none", findings)
	}
	// The truncated JSON matches no text pattern either, so it must be
	// accounted for as an unmatched line.
	if countKind(diags, finding.KindTextParseFailure) != 1 {
		t.Errorf("diagnostics = %+v, want one unmatched line", diags)
	}
}

func TestMypyUnmatchedRecordSchema(t *testing.T) {
	a := get(t, "mypy")
	raw := `{"path": "src/app.py", "row": 3, "text": "something"}` + "\n"

	findings, diags := a.Parse(raw, true)
	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none", findings)
	}
	if countKind(diags, finding.KindUnmatchedSchema) != 1 {
		t.Fatalf("diagnostics = %+v, want one unmatched schema", diags)
	}
	if !strings.Contains(diags[0].Detail, "path") || !strings.Contains(diags[0].Detail, "row") {
		t.Errorf("detail does not name the record fields: %s", diags[0].Detail)
	}
}

func TestMypyNullMessageIsDecodeError(t *testing.T) {
	a := get(t, "mypy")
	raw := `{"file": "src/app.py", "line": 3, "column": 0, "message": null, "hint": null, "code": null, "severity": "error"}` + "\n"

	findings, diags := a.Parse(raw, true)
	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none", findings)
	}
	if countKind(diags, finding.KindDecodeError) != 1 {
		t.Errorf("diagnostics = %+v, want one decode error", diags)
	}
}

func TestMypyDriftReportedOncePerShape(t *testing.T) {
	a := get(t, "mypy")
	rec := `{"file": "a.py", "line": 1, "column": 0, "message": "m", "hint": null, "code": "misc", "severity": "error", "end_line": 2}`
	raw := rec + "\n" + rec + "\n"

	findings, diags := a.Parse(raw, true)
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2 (drift never blocks decoding)", len(findings))
	}
	if countKind(diags, finding.KindFingerprintDrift) != 1 {
		t.Errorf("diagnostics = %+v, want exactly one drift for a repeated shape", diags)
	}
	if !strings.Contains(diags[0].Detail, "end_line") {
		t.Errorf("drift detail does not name the new field: %s", diags[0].Detail)
	}
}

func TestMypyStderr(t *testing.T) {
	a := get(t, "mypy")
	raw := "mypy: can't read file 'missing.py': No such file or directory\nsome unrelated noise\n"

	findings := a.ParseStderr(raw)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Code != "mypy-error" || f.Severity != finding.SeverityError {
		t.Errorf("code/severity = %s/%s", f.Code, f.Severity)
	}
	if !strings.Contains(f.Message, "can't read file") {
		t.Errorf("message = %q", f.Message)
	}
}

func TestMypyStructuredHintFalseUsesTextOnly(t *testing.T) {
	a := get(t, "mypy")
	raw := `src/app.py:5:1: warning: Unused "type: ignore" comment [unused-ignore]` + "\n"

	findings, diags := a.Parse(raw, false)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Severity != finding.SeverityWarning {
		t.Errorf("severity = %s, want warning", findings[0].Severity)
	}
}

func TestComplexipyReport(t *testing.T) {
	a := get(t, "complexipy")
	raw := `{"messages":[{"path":"a.py","line":3,"code":"CCR001","message":"cognitive complexity 18 > 15"}]}`

	findings, diags := a.Parse(raw, true)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v, want none for the recorded baseline shape", diags)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Code != "CCR001" {
		t.Errorf("code = %q, want CCR001", f.Code)
	}
	if f.Severity != finding.SeverityWarning {
		t.Errorf("severity = %s, want the warning default", f.Severity)
	}
	if f.Path != "a.py" || f.Line != 3 {
		t.Errorf("location = %s:%d, want a.py:3", f.Path, f.Line)
	}
}

func TestComplexipyFieldOrderIrrelevant(t *testing.T) {
	a := get(t, "complexipy")
	ordered := `{"messages":[{"path":"a.py","line":3,"code":"CCR001","message":"cognitive complexity 18 > 15"}]}`
	permuted := `{"messages":[{"message":"cognitive complexity 18 > 15","code":"CCR001","path":"a.py","line":3}]}`

	f1, d1 := a.Parse(ordered, true)
	f2, d2 := a.Parse(permuted, true)
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("findings differ across field order: %+v vs %+v", f1, f2)
	}
	if len(d1) != 0 || len(d2) != 0 {
		t.Errorf("diagnostics = %+v / %+v, want none", d1, d2)
	}
}

func TestComplexipyDriftedRecord(t *testing.T) {
	a := get(t, "complexipy")
	raw := `{"messages":[{"path":"a.py","line":3,"code":"CCR001","message":"cognitive complexity 18 > 15","function":"login"}]}`

	findings, diags := a.Parse(raw, true)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1 (drift never blocks decoding)", len(findings))
	}
	if countKind(diags, finding.KindFingerprintDrift) != 1 {
		t.Errorf("diagnostics = %+v, want one drift", diags)
	}
}

func TestComplexipyMalformedEntrySkipped(t *testing.T) {
	a := get(t, "complexipy")
	raw := `{"messages":["not an object",{"path":"b.py","line":9,"code":"CCE001","message":"Parse error: invalid syntax"}]}`

	findings, diags := a.Parse(raw, true)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Code != "CCE001" {
		t.Errorf("code = %q", findings[0].Code)
	}
	if countKind(diags, finding.KindDecodeError) != 1 {
		t.Errorf("diagnostics = %+v, want one decode error", diags)
	}
}

func TestComplexipySyntaxErrorFallsBack(t *testing.T) {
	a := get(t, "complexipy")
	raw := "a.py:3: CCR001 cognitive complexity 18 exceeds threshold 15\nnot a report line\n"

	findings, diags := a.Parse(raw, true)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1 from fallback", len(findings))
	}
	if findings[0].Code != "CCR001" || findings[0].Line != 3 {
		t.Errorf("fallback finding = %+v", findings[0])
	}
	if countKind(diags, finding.KindStructuredParseFailed) != 1 {
		t.Errorf("diagnostics = %+v, want a structured-parse-failed marker", diags)
	}
	if countKind(diags, finding.KindTextParseFailure) != 1 {
		t.Errorf("diagnostics = %+v, want one unmatched line", diags)
	}
}

func TestComplexipyUnmatchedDocumentFallsBack(t *testing.T) {
	a := get(t, "complexipy")
	raw := `{"results": []}`

	findings, diags := a.Parse(raw, true)
	if len(findings) != 0 {
		t.Errorf("findings = %+v", findings)
	}
	if countKind(diags, finding.KindStructuredParseFailed) != 1 {
		t.Fatalf("diagnostics = %+v, want structured-parse-failed", diags)
	}
	if !strings.Contains(diags[0].Detail, "results") {
		t.Errorf("detail does not name the unmatched fields: %s", diags[0].Detail)
	}
}

func TestEmptyOutput(t *testing.T) {
	for _, name := range []string{"mypy", "complexipy", "interrogate", "vulture"} {
		a := get(t, name)
		findings, diags := a.Parse("  \n\n", true)
		if len(findings) != 0 || len(diags) != 0 {
			t.Errorf("%s: empty output produced %d findings, %d diagnostics", name, len(findings), len(diags))
		}
	}
}

func TestInterrogateTextPattern(t *testing.T) {
	a := get(t, "interrogate")
	raw := "src/app.py:12:4: missing module docstring (INT100)\n"

	findings, diags := a.Parse(raw, true)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Path != "src/app.py" || f.Line != 12 || f.Column != 4 {
		t.Errorf("location = %s:%d:%d, want src/app.py:12:4", f.Path, f.Line, f.Column)
	}
	if f.Code != "INT100" {
		t.Errorf("code = %q, want INT100", f.Code)
	}
	if !strings.Contains(f.Message, "missing module docstring") {
		t.Errorf("message = %q", f.Message)
	}
}

func TestInterrogateWithoutColumn(t *testing.T) {
	a := get(t, "interrogate")
	raw := "src/util.py:33: missing function docstring for helper (INT102)\n"

	findings, _ := a.Parse(raw, false)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Column != 0 {
		t.Errorf("column = %d, want 0 when not reported", findings[0].Column)
	}
	if findings[0].Code != "INT102" {
		t.Errorf("code = %q", findings[0].Code)
	}
}

func TestVultureLines(t *testing.T) {
	a := get(t, "vulture")
	raw := `util.py:40: unused function 'legacy_handler' (60% confidence)
util.py:52: unused variable 'cache_ttl' (100% confidence)
app.py:9: unreachable code after 'return' (100% confidence)
vulture summary noise
`
	findings, diags := a.Parse(raw, false)
	if len(findings) != 3 {
		t.Fatalf("got %d findings, want 3", len(findings))
	}
	if findings[0].Code != "unused-function" {
		t.Errorf("code = %q, want unused-function", findings[0].Code)
	}
	if findings[1].Code != "unused-variable" {
		t.Errorf("code = %q, want unused-variable", findings[1].Code)
	}
	if findings[2].Code != "unreachable-code" {
		t.Errorf("code = %q, want unreachable-code", findings[2].Code)
	}
	if !strings.Contains(findings[0].Message, "legacy_handler") {
		t.Errorf("message = %q", findings[0].Message)
	}
	if countKind(diags, finding.KindTextParseFailure) != 1 {
		t.Errorf("diagnostics = %+v, want one unmatched line", diags)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	a := get(t, "mypy")
	raw := `{"file": "a.py", "line": 1, "column": 0, "message": "m", "hint": null, "code": "misc", "severity": "error", "extra": 1}
not parseable at all
a.py:2: error: second [misc]
`
	f1, d1 := a.Parse(raw, true)
	f2, d2 := a.Parse(raw, true)
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("findings differ across calls:\n%+v\n%+v", f1, f2)
	}
	if !reflect.DeepEqual(d1, d2) {
		t.Errorf("diagnostics differ across calls:\n%+v\n%+v", d1, d2)
	}
}

func TestTableNamesAndBaselines(t *testing.T) {
	tbl := table(t)
	names := tbl.Names()
	want := []string{"mypy", "complexipy", "interrogate", "vulture"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}

	for _, name := range []string{"mypy", "complexipy"} {
		if _, ok := tbl.Validator().Expected(name); !ok {
			t.Errorf("no baseline recorded for %s", name)
		}
	}
	for _, name := range []string{"interrogate", "vulture"} {
		if fp, ok := tbl.Validator().Expected(name); ok {
			t.Errorf("unexpected baseline %s for text-only tool %s", fp, name)
		}
	}
}
