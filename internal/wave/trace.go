package wave

import "errors"

// ErrNoMoreChanges is returned by Trace.NextChange when the variable does
// not change after the requested time.
var ErrNoMoreChanges = errors.New("no further value change")

// Trace is an open waveform file.
//
// Implementations are not required to be safe for concurrent use.
type Trace interface {
	// Hierarchy returns every hierarchy event in file order.
	Hierarchy() ([]HierEvent, error)

	// Vars returns every variable, aliases included, in file order.
	Vars() ([]Var, error)

	// ValueAt returns the raw value of h at the last change at or before t.
	// ok is false when h has no value at or before t.
	ValueAt(h Handle, t Time) (raw string, ok bool)

	// NextChange returns the first time strictly after t at which h changes.
	// Returns an error wrapping ErrNoMoreChanges when there is none.
	NextChange(h Handle, t Time) (Time, error)

	Date() (string, error)
	Version() (string, error)
	StartTime() Time
	EndTime() Time
	// Timescale returns the timescale string, e.g. "1ns"; ok is false when
	// the file declares none.
	Timescale() (ts string, ok bool)
	Timezero() int64
	FileType() FileType
	ScopeCount() uint64
	VarCount() uint64
	AliasCount() uint64

	Close() error
}

// Opener opens a trace file by path.
type Opener func(path string) (Trace, error)
