package fingerprint

import (
	"strings"
	"testing"

	"github.com/lucasnoah/lintmux/internal/finding"
)

func TestComputeIgnoresFieldOrderAndValues(t *testing.T) {
	a := Compute(map[string]any{"path": "a.py", "line": 3, "code": "X1", "message": "m"})
	b := Compute(map[string]any{"message": "other", "code": "Y2", "line": 99, "path": "b.py"})
	if a != b {
		t.Errorf("same field set produced different fingerprints: %s vs %s", a, b)
	}
}

func TestComputeChangesWithFieldSet(t *testing.T) {
	base := Compute(map[string]any{"path": "a.py", "line": 3})
	added := Compute(map[string]any{"path": "a.py", "line": 3, "column": 1})
	renamed := Compute(map[string]any{"file": "a.py", "line": 3})
	if base == added {
		t.Error("adding a field did not change the fingerprint")
	}
	if base == renamed {
		t.Error("renaming a field did not change the fingerprint")
	}
}

func TestFromFieldsMatchesCompute(t *testing.T) {
	got := FromFields("line", "path", "message")
	want := Compute(map[string]any{"path": nil, "message": nil, "line": nil})
	if got != want {
		t.Errorf("FromFields = %s, Compute = %s", got, want)
	}
	if len(got) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(got))
	}
}

func TestFromFieldsDoesNotMutateInput(t *testing.T) {
	names := []string{"zeta", "alpha"}
	FromFields(names...)
	if names[0] != "zeta" {
		t.Errorf("input slice reordered: %v", names)
	}
}

func TestValidatorCheckMatch(t *testing.T) {
	v := NewValidator(map[string]Fingerprint{
		"mypy": FromFields("file", "line", "message"),
	})
	diag := v.Check("mypy", map[string]any{"file": "a.py", "line": 1, "message": "m"})
	if diag != nil {
		t.Errorf("matching shape produced drift diagnostic: %+v", diag)
	}
}

func TestValidatorCheckDrift(t *testing.T) {
	v := NewValidator(map[string]Fingerprint{
		"mypy": FromFields("file", "line", "message"),
	})
	diag := v.Check("mypy", map[string]any{"file": "a.py", "line": 1, "message": "m", "extra": true})
	if diag == nil {
		t.Fatal("drifted shape produced no diagnostic")
	}
	if diag.Kind != finding.KindFingerprintDrift {
		t.Errorf("kind = %s, want %s", diag.Kind, finding.KindFingerprintDrift)
	}
	if diag.Tool != "mypy" {
		t.Errorf("tool = %s, want mypy", diag.Tool)
	}
	if !strings.Contains(diag.Detail, "extra") {
		t.Errorf("detail does not name the drifted field set: %s", diag.Detail)
	}
}

func TestValidatorUnknownTool(t *testing.T) {
	v := NewValidator(map[string]Fingerprint{})
	if diag := v.Check("unknown", map[string]any{"anything": 1}); diag != nil {
		t.Errorf("tool without baseline produced diagnostic: %+v", diag)
	}
}
