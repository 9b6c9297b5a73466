// Package fingerprint detects silent shape changes in structured tool
// output. A fingerprint is derived from the set of field names present in a
// decoded record, so it is stable across field reordering and value changes
// but shifts as soon as a tool adds, renames, or drops a field.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasnoah/lintmux/internal/finding"
)

// A Fingerprint is the first 16 hex characters of the SHA-256 of a record's
// sorted field names.
type Fingerprint string

// Compute returns the fingerprint of a decoded record. Only top-level field
// names participate; values and nesting are ignored.
func Compute(payload map[string]any) Fingerprint {
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	return FromFields(names...)
}

// FromFields returns the fingerprint for an explicit field-name set.
// Adapters use it to record their baselines next to the schema they decode.
func FromFields(names ...string) Fingerprint {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return Fingerprint(hex.EncodeToString(sum[:])[:16])
}

// Validator compares live record shapes against per-tool baselines recorded
// when each adapter was written.
type Validator struct {
	baselines map[string]Fingerprint
}

// NewValidator creates a Validator over a fixed baseline table keyed by tool
// name. Tools without an entry are never flagged.
func NewValidator(baselines map[string]Fingerprint) *Validator {
	return &Validator{baselines: baselines}
}

// Expected returns the recorded baseline for a tool, if any.
func (v *Validator) Expected(tool string) (Fingerprint, bool) {
	fp, ok := v.baselines[tool]
	return fp, ok
}

// Check fingerprints payload and compares it against the tool's baseline.
// On mismatch it returns a drift diagnostic naming the live field set and
// both fingerprints; parsing always continues regardless. It returns nil
// when the shapes match or no baseline is recorded for the tool.
func (v *Validator) Check(tool string, payload map[string]any) *finding.Diagnostic {
	want, ok := v.baselines[tool]
	if !ok {
		return nil
	}
	got := Compute(payload)
	if got == want {
		return nil
	}
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)
	return &finding.Diagnostic{
		Kind: finding.KindFingerprintDrift,
		Tool: tool,
		Detail: fmt.Sprintf("record field set [%s] has fingerprint %s, baseline is %s",
			strings.Join(names, " "), got, want),
	}
}
