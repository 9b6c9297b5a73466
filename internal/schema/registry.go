// Package schema routes decoded JSON payloads to the right decoder by
// structural inspection, without trusting any tool-supplied type tag.
package schema

import (
	"errors"

	"github.com/lucasnoah/lintmux/internal/finding"
)

// ErrUnmatchedSchema is returned by Resolve when no registered predicate
// accepts a payload.
var ErrUnmatchedSchema = errors.New("no registered schema matches payload")

// Predicate is a cheap structural check on a decoded payload. Predicates
// inspect field presence and container kinds only; value validation belongs
// to decoders.
type Predicate func(payload map[string]any) bool

// DecodeFunc converts a payload accepted by its entry's predicate into
// normalized findings. Problems with individual records inside an otherwise
// decodable payload are reported as diagnostics; a non-nil error means the
// payload as a whole could not be decoded.
type DecodeFunc func(payload map[string]any) ([]finding.Finding, []finding.Diagnostic, error)

// Entry is a registered (predicate, decoder) pair.
type Entry struct {
	Name      string
	Predicate Predicate
	Decode    DecodeFunc
}

// Registry holds entries in registration order. Order is a deliberate
// priority: the first entry whose predicate accepts a payload wins, so a
// payload that structurally satisfies two schemas always resolves the same
// way. Entries cannot be replaced or reordered after registration.
type Registry struct {
	entries []Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register appends an entry and returns the registry for chaining.
func (r *Registry) Register(name string, p Predicate, d DecodeFunc) *Registry {
	r.entries = append(r.entries, Entry{Name: name, Predicate: p, Decode: d})
	return r
}

// Resolve returns the first entry whose predicate accepts payload, or
// ErrUnmatchedSchema.
func (r *Registry) Resolve(payload map[string]any) (Entry, error) {
	for _, e := range r.entries {
		if e.Predicate(payload) {
			return e, nil
		}
	}
	return Entry{}, ErrUnmatchedSchema
}

// Names lists registered entries in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

// HasFields returns a predicate requiring every named top-level field to be
// present.
func HasFields(names ...string) Predicate {
	return func(payload map[string]any) bool {
		for _, name := range names {
			if _, ok := payload[name]; !ok {
				return false
			}
		}
		return true
	}
}

// HasArrayField returns a predicate requiring the named field to hold a JSON
// array.
func HasArrayField(name string) Predicate {
	return func(payload map[string]any) bool {
		v, ok := payload[name]
		if !ok {
			return false
		}
		_, isArray := v.([]any)
		return isArray
	}
}

// HasStringField returns a predicate requiring the named field to hold a
// string.
func HasStringField(name string) Predicate {
	return func(payload map[string]any) bool {
		v, ok := payload[name]
		if !ok {
			return false
		}
		_, isString := v.(string)
		return isString
	}
}

// AllOf combines predicates; the result accepts a payload only when every
// predicate does.
func AllOf(preds ...Predicate) Predicate {
	return func(payload map[string]any) bool {
		for _, p := range preds {
			if !p(payload) {
				return false
			}
		}
		return true
	}
}
