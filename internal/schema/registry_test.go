package schema

import (
	"errors"
	"testing"

	"github.com/lucasnoah/lintmux/internal/finding"
)

func stubDecode(code string) DecodeFunc {
	return func(payload map[string]any) ([]finding.Finding, []finding.Diagnostic, error) {
		return []finding.Finding{{Code: code}}, nil, nil
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := New().
		Register("narrow", HasFields("path", "line", "weight"), stubDecode("narrow")).
		Register("broad", HasFields("path", "line"), stubDecode("broad"))

	payload := map[string]any{"path": "a.py", "line": 3.0, "weight": 1.0}
	e, err := r.Resolve(payload)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Name != "narrow" {
		t.Errorf("resolved %q, want narrow (registration order is priority)", e.Name)
	}

	// Both predicates accept this payload; earlier registration still wins.
	both := map[string]any{"path": "a.py", "line": 3.0, "weight": 2.0, "extra": "x"}
	e, err = r.Resolve(both)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Name != "narrow" {
		t.Errorf("resolved %q for ambiguous payload, want narrow", e.Name)
	}
}

func TestResolveUnmatched(t *testing.T) {
	r := New().Register("only", HasFields("path"), stubDecode("only"))
	_, err := r.Resolve(map[string]any{"file": "a.py"})
	if !errors.Is(err, ErrUnmatchedSchema) {
		t.Errorf("err = %v, want ErrUnmatchedSchema", err)
	}
}

func TestResolveEmptyRegistry(t *testing.T) {
	_, err := New().Resolve(map[string]any{"path": "a.py"})
	if !errors.Is(err, ErrUnmatchedSchema) {
		t.Errorf("err = %v, want ErrUnmatchedSchema", err)
	}
}

func TestNames(t *testing.T) {
	r := New().
		Register("first", HasFields("a"), stubDecode("first")).
		Register("second", HasFields("b"), stubDecode("second"))
	names := r.Names()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("Names() = %v, want [first second]", names)
	}
}

func TestHasArrayField(t *testing.T) {
	p := HasArrayField("messages")
	if !p(map[string]any{"messages": []any{}}) {
		t.Error("empty array rejected")
	}
	if p(map[string]any{"messages": "not an array"}) {
		t.Error("string accepted as array")
	}
	if p(map[string]any{"other": []any{}}) {
		t.Error("missing field accepted")
	}
}

func TestHasStringField(t *testing.T) {
	p := HasStringField("file")
	if !p(map[string]any{"file": "a.py"}) {
		t.Error("string field rejected")
	}
	if p(map[string]any{"file": 3.0}) {
		t.Error("number accepted as string")
	}
}

func TestAllOf(t *testing.T) {
	p := AllOf(HasFields("file", "line"), HasStringField("file"))
	if !p(map[string]any{"file": "a.py", "line": 1.0}) {
		t.Error("conforming payload rejected")
	}
	if p(map[string]any{"file": 1.0, "line": 1.0}) {
		t.Error("payload with non-string file accepted")
	}
}
