package testutil

import (
	"fmt"
	"sort"

	"github.com/roach88/wavequery/internal/wave"
)

// Point is one recorded value change.
type Point struct {
	Time uint64
	Raw  string
}

// FakeTrace is an in-memory wave.Trace for tests.
//
// Build it with the Add* methods, then set any error fields to make the
// corresponding accessor fail. Value changes must be added in time order.
type FakeTrace struct {
	Events  []wave.HierEvent
	VarList []wave.Var
	Points  map[uint32][]Point

	DateStr    string
	VersionStr string
	Start      uint64
	End        uint64
	Scale      string // empty means no timescale
	Zero       int64
	Type       wave.FileType
	Scopes     uint64
	Aliases    uint64

	HierErr    error
	VarsErr    error
	DateErr    error
	VersionErr error
	CloseErr   error

	// VarsCalls counts Vars calls, so tests can tell indexed from scanned lookups.
	VarsCalls  int
	CloseCalls int

	nextID uint32
}

// NewFakeTrace returns an empty trace with a 1ns timescale.
func NewFakeTrace() *FakeTrace {
	return &FakeTrace{
		Points:     make(map[uint32][]Point),
		DateStr:    "Mon Oct 19 2026",
		VersionStr: "fake 1.0",
		Scale:      "1ns",
	}
}

// AddScope records a scope begin event.
func (f *FakeTrace) AddScope(name string) *FakeTrace {
	f.Events = append(f.Events, wave.HierEvent{Kind: wave.HierScopeBegin, Scope: name})
	f.Scopes++
	return f
}

// EndScope records a scope end event.
func (f *FakeTrace) EndScope() *FakeTrace {
	f.Events = append(f.Events, wave.HierEvent{Kind: wave.HierScopeEnd})
	return f
}

// AddAttr records an attribute begin/end pair carrying name.
func (f *FakeTrace) AddAttr(name string) *FakeTrace {
	f.Events = append(f.Events,
		wave.HierEvent{Kind: wave.HierAttrBegin, Attr: wave.Attr{Kind: "misc", Subtype: 7, Name: name}},
		wave.HierEvent{Kind: wave.HierAttrEnd},
	)
	return f
}

// AddVar declares a new variable and returns its handle.
func (f *FakeTrace) AddVar(name string, typ wave.VarType, width uint32) wave.Handle {
	h := wave.NewHandle(f.nextID)
	f.nextID++
	v := wave.Var{Name: name, Handle: h, Type: typ, Width: width}
	f.VarList = append(f.VarList, v)
	f.Events = append(f.Events, wave.HierEvent{Kind: wave.HierVar, Var: v})
	return h
}

// AddChange records that h takes value raw at time t.
func (f *FakeTrace) AddChange(h wave.Handle, t uint64, raw string) *FakeTrace {
	f.Points[h.ID()] = append(f.Points[h.ID()], Point{Time: t, Raw: raw})
	if t > f.End {
		f.End = t
	}
	return f
}

func (f *FakeTrace) Hierarchy() ([]wave.HierEvent, error) {
	if f.HierErr != nil {
		return nil, f.HierErr
	}
	return f.Events, nil
}

func (f *FakeTrace) Vars() ([]wave.Var, error) {
	f.VarsCalls++
	if f.VarsErr != nil {
		return nil, f.VarsErr
	}
	return f.VarList, nil
}

func (f *FakeTrace) ValueAt(h wave.Handle, t uint64) (string, bool) {
	pts := f.Points[h.ID()]
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time > t })
	if i == 0 {
		return "", false
	}
	return pts[i-1].Raw, true
}

func (f *FakeTrace) NextChange(h wave.Handle, t uint64) (uint64, error) {
	pts := f.Points[h.ID()]
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time > t })
	if i == len(pts) {
		return 0, fmt.Errorf("%s after %d: %w", h, t, wave.ErrNoMoreChanges)
	}
	return pts[i].Time, nil
}

func (f *FakeTrace) Date() (string, error) {
	return f.DateStr, f.DateErr
}

func (f *FakeTrace) Version() (string, error) {
	return f.VersionStr, f.VersionErr
}

func (f *FakeTrace) StartTime() uint64 { return f.Start }
func (f *FakeTrace) EndTime() uint64 { return f.End }

func (f *FakeTrace) Timescale() (string, bool) {
	return f.Scale, f.Scale != ""
}

func (f *FakeTrace) Timezero() int64 { return f.Zero }
func (f *FakeTrace) FileType() wave.FileType { return f.Type }
func (f *FakeTrace) ScopeCount() uint64 { return f.Scopes }
func (f *FakeTrace) VarCount() uint64 { return uint64(len(f.VarList)) }
func (f *FakeTrace) AliasCount() uint64 { return f.Aliases }

func (f *FakeTrace) Close() error {
	f.CloseCalls++
	return f.CloseErr
}

var _ wave.Trace = (*FakeTrace)(nil)
