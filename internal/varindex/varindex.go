// Package varindex resolves variable names to decoder handles.
//
// Names are matched exactly (case-sensitive, whole string). When a trace
// declares the same name more than once, the declaration that comes first in
// the decoder's native order wins, for both Scan and Index.
package varindex

import (
	"errors"

	"github.com/roach88/wavequery/internal/wave"
)

// ErrNotFound is returned when no variable has the requested name.
var ErrNotFound = errors.New("variable not found")

// Scan returns the first variable in vars named name.
func Scan(vars []wave.Var, name string) (wave.Var, error) {
	for _, v := range vars {
		if v.Name == name {
			return v, nil
		}
	}
	return wave.Var{}, ErrNotFound
}

// Index is a name to variable map built once from a native-order list.
// It is read-only after Build.
type Index struct {
	byName map[string]wave.Var
}

// Build indexes vars. Names already present are skipped, so duplicates
// resolve to the first declaration exactly as Scan would.
func Build(vars []wave.Var) *Index {
	idx := &Index{
		byName: make(map[string]wave.Var, len(vars)),
	}
	for _, v := range vars {
		if _, seen := idx.byName[v.Name]; seen {
			continue
		}
		idx.byName[v.Name] = v
	}
	return idx
}

// Lookup returns the variable named name.
func (idx *Index) Lookup(name string) (wave.Var, error) {
	v, ok := idx.byName[name]
	if !ok {
		return wave.Var{}, ErrNotFound
	}
	return v, nil
}

// Len returns the number of distinct names.
func (idx *Index) Len() int {
	return len(idx.byName)
}
