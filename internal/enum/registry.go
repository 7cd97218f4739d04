package enum

import (
	"sort"

	"github.com/roach88/wavequery/internal/wave"
)

// Registry holds every enum table of an open trace, keyed by table name.
// It is built once and read-only afterwards.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// BuildRegistry walks hierarchy events in order and registers a table for
// every attribute-begin event that parses as an enum encoding. A later
// table with the same name replaces the earlier one.
//
// The returned results cover every attribute that produced a table, in
// event order, so callers can report partial encodings.
func BuildRegistry(events []wave.HierEvent) (*Registry, []Result) {
	reg := NewRegistry()
	var results []Result
	for _, ev := range events {
		if ev.Kind != wave.HierAttrBegin {
			continue
		}
		res := Parse(ev.Attr.Name)
		if res.Status == StatusSkipped {
			continue
		}
		reg.tables[res.Table.Name] = res.Table
		results = append(results, res)
	}
	return reg, results
}

// Get returns the table registered under name.
func (r *Registry) Get(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.tables)
}

// Tables returns all tables sorted by name.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
