// Package adapter turns raw tool output into normalized findings. One
// Adapter exists per supported tool, wiring that tool's schema entries,
// fingerprint baseline, and text patterns into a single parse entry point.
// Adapters are constructed once at process start and are safe for
// concurrent use; every call allocates its own result slices.
package adapter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/fingerprint"
	"github.com/lucasnoah/lintmux/internal/schema"
	"github.com/lucasnoah/lintmux/internal/textparse"
)

// layout describes how a tool arranges structured output.
type layout int

const (
	// layoutDocument: one JSON document for the whole run, findings in an
	// array field.
	layoutDocument layout = iota
	// layoutLines: one JSON object per line, mixed with plain text lines
	// for anything the tool's JSON formatter cannot express.
	layoutLines
)

// Adapter normalizes one tool's raw output.
type Adapter struct {
	name         string
	structured   bool
	layout       layout
	recordsField string
	registry     *schema.Registry
	validator    *fingerprint.Validator
	fallback     *textparse.Parser

	stderrPrefixes []string
	stderrCode     string
}

// Name returns the tool identifier carried by every finding this adapter
// produces.
func (a *Adapter) Name() string { return a.name }

// Structured reports whether the tool is asked for structured output by
// default, which callers use as the structured hint when none is given.
func (a *Adapter) Structured() bool { return a.structured }

// Parse converts raw output into findings plus diagnostics. When structured
// is true the adapter attempts structured decoding first and falls back to
// text patterns on any failure, tagging the failure in the diagnostics;
// when false it goes straight to the text patterns. Parse never fails: a
// fully unreadable payload yields zero findings and diagnostics accounting
// for every non-blank line.
func (a *Adapter) Parse(raw string, structured bool) ([]finding.Finding, []finding.Diagnostic) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !structured || a.registry == nil {
		return a.fallback.Parse(raw)
	}
	if a.layout == layoutLines {
		return a.parseLines(raw)
	}
	return a.parseDocument(raw)
}

// parseDocument handles tools that emit a single JSON document per run.
// Any whole-document failure (syntax, unmatched schema, decode) falls back
// to the text patterns over the full raw output.
func (a *Adapter) parseDocument(raw string) ([]finding.Finding, []finding.Diagnostic) {
	payload, err := decodeObject(raw)
	if err != nil {
		return a.fallbackAfterFailure(raw, err.Error())
	}
	ent, err := a.registry.Resolve(payload)
	if err != nil {
		return a.fallbackAfterFailure(raw, describeUnmatched(payload))
	}
	findings, diags, err := ent.Decode(payload)
	if err != nil {
		return a.fallbackAfterFailure(raw, fmt.Sprintf("decode %s: %v", ent.Name, err))
	}
	diags = append(diags, a.checkRecords(payload, map[string]bool{})...)
	return findings, diags
}

// parseLines handles tools that emit one JSON object per line, with plain
// text interleaved for whatever bypasses the JSON formatter. Consecutive
// text lines are buffered and handed to the fallback parser as one chunk
// so its continuation handling still sees adjacent lines.
func (a *Adapter) parseLines(raw string) ([]finding.Finding, []finding.Diagnostic) {
	var findings []finding.Finding
	var diags []finding.Diagnostic
	var buf []string
	seenDrift := map[string]bool{}

	flush := func() {
		if len(buf) == 0 {
			return
		}
		fs, ds := a.fallback.Parse(strings.Join(buf, "\n"))
		findings = append(findings, fs...)
		diags = append(diags, ds...)
		buf = buf[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "{") {
			buf = append(buf, line)
			continue
		}
		payload, err := decodeObject(trimmed)
		if err != nil {
			// Looked like JSON but is not; let the text patterns have it.
			buf = append(buf, line)
			continue
		}
		flush()
		fs, ds := a.decodeRecord(payload, seenDrift)
		findings = append(findings, fs...)
		diags = append(diags, ds...)
	}
	flush()
	return findings, diags
}

// decodeRecord resolves and decodes a single record from a lines-layout
// stream. Failures stay local to the record.
func (a *Adapter) decodeRecord(payload map[string]any, seenDrift map[string]bool) ([]finding.Finding, []finding.Diagnostic) {
	var diags []finding.Diagnostic

	ent, err := a.registry.Resolve(payload)
	if err != nil {
		return nil, []finding.Diagnostic{{
			Kind:   finding.KindUnmatchedSchema,
			Tool:   a.name,
			Detail: describeUnmatched(payload),
		}}
	}

	findings, ds, err := ent.Decode(payload)
	diags = append(diags, ds...)
	if err != nil {
		diags = append(diags, finding.Diagnostic{
			Kind:   finding.KindDecodeError,
			Tool:   a.name,
			Detail: fmt.Sprintf("decode %s: %v", ent.Name, err),
		})
	}
	if d := a.validator.Check(a.name, payload); d != nil && !seenDrift[d.Detail] {
		seenDrift[d.Detail] = true
		diags = append(diags, *d)
	}
	return findings, diags
}

// checkRecords fingerprints every record of a document payload against the
// tool baseline. Each distinct drifted shape is reported once per parse.
func (a *Adapter) checkRecords(payload map[string]any, seenDrift map[string]bool) []finding.Diagnostic {
	if a.validator == nil {
		return nil
	}
	records := []map[string]any{payload}
	if a.recordsField != "" {
		arr, _ := payload[a.recordsField].([]any)
		records = records[:0]
		for _, el := range arr {
			if rec, ok := el.(map[string]any); ok {
				records = append(records, rec)
			}
		}
	}
	var diags []finding.Diagnostic
	for _, rec := range records {
		if d := a.validator.Check(a.name, rec); d != nil && !seenDrift[d.Detail] {
			seenDrift[d.Detail] = true
			diags = append(diags, *d)
		}
	}
	return diags
}

// fallbackAfterFailure runs the text patterns over the full raw output and
// prepends a diagnostic recording why the structured path was abandoned.
func (a *Adapter) fallbackAfterFailure(raw, cause string) ([]finding.Finding, []finding.Diagnostic) {
	findings, ds := a.fallback.Parse(raw)
	diags := make([]finding.Diagnostic, 0, len(ds)+1)
	diags = append(diags, finding.Diagnostic{
		Kind:   finding.KindStructuredParseFailed,
		Tool:   a.name,
		Detail: cause,
	})
	diags = append(diags, ds...)
	return findings, diags
}

// ParseStderr extracts findings from a tool's stderr stream. Only lines
// starting with one of the adapter's recognized prefixes become findings;
// everything else on stderr is noise and ignored.
func (a *Adapter) ParseStderr(raw string) []finding.Finding {
	if len(a.stderrPrefixes) == 0 {
		return nil
	}
	var findings []finding.Finding
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, prefix := range a.stderrPrefixes {
			if strings.HasPrefix(line, prefix) {
				findings = append(findings, finding.Finding{
					Tool:     a.name,
					Line:     1,
					Code:     a.stderrCode,
					Message:  line,
					Severity: finding.SeverityError,
				})
				break
			}
		}
	}
	return findings
}

// decodeObject parses s as a single JSON object.
func decodeObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, not a JSON object", v)
	}
	return obj, nil
}

// describeUnmatched names the field set that no schema accepted.
func describeUnmatched(payload map[string]any) string {
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("no registered schema matches record with fields [%s]", strings.Join(names, " "))
}
