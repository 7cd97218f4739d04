package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/roach88/wavequery/internal/enum"
	"github.com/roach88/wavequery/internal/value"
	"github.com/roach88/wavequery/internal/varindex"
	"github.com/roach88/wavequery/internal/wave"
)

// UnknownTag is reported for a missing timescale and for unrecognized
// file-type and variable-type codes.
const UnknownTag = "Unknown"

// Operation names used in errors, logs and metrics.
const (
	OpOpen          = "open"
	OpListVariables = "list_variables"
	OpValueAt       = "value_at"
	OpRawValueAt    = "raw_value_at"
	OpEnumValueAt   = "enum_value_at"
	OpNextChange    = "next_change"
	OpChanges       = "changes"
	OpMetadata      = "metadata"
	OpVariableInfo  = "variable_info"
	OpClose         = "close"
)

// Reader answers queries against one open trace.
type Reader struct {
	trace   wave.Trace
	enums   *enum.Registry
	index   *varindex.Index // nil when resolving by linear scan
	logger  log.Logger
	metrics *Metrics
	closed  bool
}

// Metadata is a snapshot of a trace's header information.
type Metadata struct {
	Date       string `json:"date"`
	Version    string `json:"version"`
	StartTime  uint64 `json:"start_time"`
	EndTime    uint64 `json:"end_time"`
	FileType   string `json:"file_type"`
	Timescale  string `json:"timescale"`
	Timezero   int64  `json:"timezero"`
	ScopeCount uint64 `json:"scope_count"`
	VarCount   uint64 `json:"var_count"`
	AliasCount uint64 `json:"alias_count"`
}

// VariableInfo describes one variable. Type is empty when the variable
// does not exist.
type VariableInfo struct {
	Type string `json:"type,omitempty"`
}

// Change is one point of a variable's change series.
type Change struct {
	Time uint64 `json:"time"`
	Raw  string `json:"raw"`
}

// Open opens the trace at path and builds its enum registry.
// On failure nothing is retained and the trace is closed.
func Open(path string, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tr, err := o.opener(path)
	if err != nil {
		return nil, newError(ErrCodeDecoder, OpOpen, path, err)
	}

	r, err := newReader(tr, o)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	level.Debug(r.logger).Log("msg", "opened trace", "path", path, "enum_tables", r.enums.Len())
	return r, nil
}

// New wraps an already-open trace. The Reader takes ownership of tr: it is
// closed by Reader.Close, or immediately if New fails.
func New(tr wave.Trace, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r, err := newReader(tr, o)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}
	return r, nil
}

func newReader(tr wave.Trace, o options) (*Reader, error) {
	events, err := tr.Hierarchy()
	if err != nil {
		return nil, newError(ErrCodeDecoder, OpOpen, "", fmt.Errorf("read hierarchy: %w", err))
	}

	reg, results := enum.BuildRegistry(events)
	for _, res := range results {
		if res.Status == enum.StatusPartial {
			level.Debug(o.logger).Log("msg", "partial enum encoding", "enum", res.Table.Name, "reasons", strings.Join(res.Reasons, "; "))
		}
	}
	o.metrics.observeRegistry(reg, results)

	r := &Reader{
		trace:   tr,
		enums:   reg,
		logger:  o.logger,
		metrics: o.metrics,
	}

	if !o.linear {
		vars, err := tr.Vars()
		if err != nil {
			return nil, newError(ErrCodeDecoder, OpOpen, "", fmt.Errorf("read variables: %w", err))
		}
		r.index = varindex.Build(vars)
		level.Debug(o.logger).Log("msg", "indexed variables", "vars", len(vars), "distinct", r.index.Len())
	}

	return r, nil
}

// Close releases the trace. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.trace.Close(); err != nil {
		return newError(ErrCodeDecoder, OpClose, "", err)
	}
	return nil
}

func (r *Reader) checkOpen(op string) error {
	if r.closed {
		return newError(ErrCodeClosed, op, "", nil)
	}
	return nil
}

// lookup resolves name to the first variable declared with it.
func (r *Reader) lookup(op, name string) (wave.Var, error) {
	if r.index != nil {
		v, err := r.index.Lookup(name)
		if err != nil {
			return wave.Var{}, newError(ErrCodeNotFound, op, name, err)
		}
		return v, nil
	}

	vars, err := r.trace.Vars()
	if err != nil {
		return wave.Var{}, newError(ErrCodeDecoder, op, name, err)
	}
	v, err := varindex.Scan(vars, name)
	if err != nil {
		return wave.Var{}, newError(ErrCodeNotFound, op, name, err)
	}
	return v, nil
}

// rawAt returns the raw value of name at t. A missing value is not-found.
func (r *Reader) rawAt(op, name string, t uint64) (string, error) {
	if err := r.checkOpen(op); err != nil {
		return "", err
	}
	v, err := r.lookup(op, name)
	if err != nil {
		return "", err
	}
	raw, ok := r.trace.ValueAt(v.Handle, t)
	if !ok {
		return "", newError(ErrCodeNotFound, op, name, fmt.Errorf("no value at or before time %d", t))
	}
	return raw, nil
}

// ListVariables returns every variable name in the decoder's order, each
// followed by a newline. Duplicate names are listed as often as declared.
func (r *Reader) ListVariables() (out string, err error) {
	defer func() { r.metrics.observeQuery(OpListVariables, err) }()

	if err := r.checkOpen(OpListVariables); err != nil {
		return "", err
	}
	vars, err := r.trace.Vars()
	if err != nil {
		return "", newError(ErrCodeDecoder, OpListVariables, "", err)
	}

	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(v.Name)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// ValueAt returns the value of name at time t as an integer.
func (r *Reader) ValueAt(name string, t uint64) (v int32, err error) {
	defer func() { r.metrics.observeQuery(OpValueAt, err) }()

	raw, err := r.rawAt(OpValueAt, name, t)
	if err != nil {
		return 0, err
	}
	v, err = value.Int32(raw)
	if err != nil {
		return 0, valueError(OpValueAt, name, err)
	}
	return v, nil
}

// RawValueAt returns the undecoded digit string of name at time t.
func (r *Reader) RawValueAt(name string, t uint64) (raw string, err error) {
	defer func() { r.metrics.observeQuery(OpRawValueAt, err) }()

	return r.rawAt(OpRawValueAt, name, t)
}

// EnumValueAt returns the symbol of enum enumName for the value of name at
// time t.
func (r *Reader) EnumValueAt(name, enumName string, t uint64) (sym string, err error) {
	defer func() { r.metrics.observeQuery(OpEnumValueAt, err) }()

	raw, err := r.rawAt(OpEnumValueAt, name, t)
	if err != nil {
		return "", err
	}
	sym, err = value.Symbol(r.enums, enumName, raw)
	if err != nil {
		if errors.Is(err, value.ErrEnumNotFound) {
			return "", newError(ErrCodeEnumNotFound, OpEnumValueAt, enumName, err)
		}
		return "", valueError(OpEnumValueAt, name, err)
	}
	return sym, nil
}

// valueError maps a value package error onto a decode-failure code.
func valueError(op, name string, err error) *Error {
	switch {
	case errors.Is(err, value.ErrCodeNotInTable):
		return newError(ErrCodeCodeNotInTable, op, name, err)
	case errors.Is(err, value.ErrOverflow):
		return newError(ErrCodeValueOverflow, op, name, err)
	default:
		return newError(ErrCodeInvalidValue, op, name, err)
	}
}

// NextChange returns the first time after t at which name changes.
// When there is none the error wraps wave.ErrNoMoreChanges.
func (r *Reader) NextChange(name string, t uint64) (next uint64, err error) {
	defer func() { r.metrics.observeQuery(OpNextChange, err) }()

	if err := r.checkOpen(OpNextChange); err != nil {
		return 0, err
	}
	v, err := r.lookup(OpNextChange, name)
	if err != nil {
		return 0, err
	}
	next, err = r.trace.NextChange(v.Handle, t)
	if err != nil {
		return 0, newError(ErrCodeDecoder, OpNextChange, name, err)
	}
	return next, nil
}

// Changes returns the value of name at from (if it has one) followed by
// every change in (from, to], in time order.
func (r *Reader) Changes(name string, from, to uint64) (out []Change, err error) {
	defer func() { r.metrics.observeQuery(OpChanges, err) }()

	if err := r.checkOpen(OpChanges); err != nil {
		return nil, err
	}
	v, err := r.lookup(OpChanges, name)
	if err != nil {
		return nil, err
	}

	out = []Change{}
	if to < from {
		return out, nil
	}
	if raw, ok := r.trace.ValueAt(v.Handle, from); ok {
		out = append(out, Change{Time: from, Raw: raw})
	}

	t := from
	for {
		next, err := r.trace.NextChange(v.Handle, t)
		if errors.Is(err, wave.ErrNoMoreChanges) {
			break
		}
		if err != nil {
			return nil, newError(ErrCodeDecoder, OpChanges, name, err)
		}
		if next <= t {
			return nil, newError(ErrCodeDecoder, OpChanges, name, fmt.Errorf("next change %d does not advance past %d", next, t))
		}
		if next > to {
			break
		}
		if raw, ok := r.trace.ValueAt(v.Handle, next); ok {
			out = append(out, Change{Time: next, Raw: raw})
		}
		t = next
	}
	return out, nil
}

// Timescale returns the trace's timescale, or UnknownTag if it declares
// none or the Reader is closed.
func (r *Reader) Timescale() string {
	if r.closed {
		return UnknownTag
	}
	if ts, ok := r.trace.Timescale(); ok {
		return ts
	}
	return UnknownTag
}

// Timezero returns the trace's time offset, or 0 if the Reader is closed.
func (r *Reader) Timezero() int64 {
	if r.closed {
		return 0
	}
	return r.trace.Timezero()
}

// Metadata returns a snapshot of the trace header.
func (r *Reader) Metadata() (md Metadata, err error) {
	defer func() { r.metrics.observeQuery(OpMetadata, err) }()

	if err := r.checkOpen(OpMetadata); err != nil {
		return Metadata{}, err
	}
	date, err := r.trace.Date()
	if err != nil {
		return Metadata{}, newError(ErrCodeDecoder, OpMetadata, "date", err)
	}
	version, err := r.trace.Version()
	if err != nil {
		return Metadata{}, newError(ErrCodeDecoder, OpMetadata, "version", err)
	}

	return Metadata{
		Date:       date,
		Version:    version,
		StartTime:  r.trace.StartTime(),
		EndTime:    r.trace.EndTime(),
		FileType:   r.trace.FileType().String(),
		Timescale:  r.Timescale(),
		Timezero:   r.trace.Timezero(),
		ScopeCount: r.trace.ScopeCount(),
		VarCount:   r.trace.VarCount(),
		AliasCount: r.trace.AliasCount(),
	}, nil
}

// VariableInfo describes the first variable named name. An unknown name
// yields an empty VariableInfo and no error.
func (r *Reader) VariableInfo(name string) (info VariableInfo, err error) {
	defer func() { r.metrics.observeQuery(OpVariableInfo, err) }()

	if err := r.checkOpen(OpVariableInfo); err != nil {
		return VariableInfo{}, err
	}
	v, err := r.lookup(OpVariableInfo, name)
	if err != nil {
		if IsNotFound(err) {
			return VariableInfo{}, nil
		}
		return VariableInfo{}, err
	}
	return VariableInfo{Type: v.Type.String()}, nil
}

// Enums returns the registered enum tables sorted by name.
func (r *Reader) Enums() []*enum.Table {
	return r.enums.Tables()
}
