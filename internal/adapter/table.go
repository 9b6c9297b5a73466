package adapter

import "github.com/lucasnoah/lintmux/internal/fingerprint"

// Table is the fixed set of tool adapters, keyed by tool name. It is built
// once at process start; nothing registers into it afterwards.
type Table struct {
	adapters  map[string]*Adapter
	order     []string
	validator *fingerprint.Validator
}

// NewTable wires up every supported tool with a shared drift validator.
func NewTable() *Table {
	v := fingerprint.NewValidator(map[string]fingerprint.Fingerprint{
		"mypy":       MypyBaseline,
		"complexipy": ComplexipyBaseline,
	})

	t := &Table{
		adapters:  make(map[string]*Adapter),
		validator: v,
	}
	for _, a := range []*Adapter{Mypy(v), Complexipy(v), Interrogate(), Vulture()} {
		t.adapters[a.Name()] = a
		t.order = append(t.order, a.Name())
	}
	return t
}

// Get looks up an adapter by tool name.
func (t *Table) Get(name string) (*Adapter, bool) {
	a, ok := t.adapters[name]
	return a, ok
}

// Names lists the supported tools in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Validator exposes the shared drift validator, used to display recorded
// baselines.
func (t *Table) Validator() *fingerprint.Validator {
	return t.validator
}
