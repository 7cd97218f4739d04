package vcd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/roach88/wavequery/internal/wave"
)

const maxLineBytes = 16 << 20

// maxVarWidth bounds a declared $var size.
const maxVarWidth = 1 << 20

var varTypes = map[string]wave.VarType{
	"event":          wave.VarTypeEvent,
	"integer":        wave.VarTypeInteger,
	"parameter":      wave.VarTypeParameter,
	"real":           wave.VarTypeReal,
	"realtime":       wave.VarTypeReal,
	"real_parameter": wave.VarTypeRealParameter,
	"reg":            wave.VarTypeReg,
	"supply0":        wave.VarTypeSupply0,
	"supply1":        wave.VarTypeSupply1,
	"time":           wave.VarTypeTime,
	"tri":            wave.VarTypeTri,
	"triand":         wave.VarTypeTriand,
	"trior":          wave.VarTypeTrior,
	"trireg":         wave.VarTypeTrireg,
	"tri0":           wave.VarTypeTri0,
	"tri1":           wave.VarTypeTri1,
	"wand":           wave.VarTypeWand,
	"wire":           wave.VarTypeWire,
	"wor":            wave.VarTypeWor,
	"port":           wave.VarTypePort,
}

// unknownVarType is used for declarations with an unrecognized keyword.
const unknownVarType wave.VarType = 255

// lexer yields whitespace-separated tokens and tracks line numbers.
type lexer struct {
	sc      *bufio.Scanner
	line    int
	pending []string
}

func newLexer(r io.Reader) *lexer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &lexer{sc: sc}
}

func (l *lexer) next() (string, bool) {
	for len(l.pending) == 0 {
		if !l.sc.Scan() {
			return "", false
		}
		l.line++
		l.pending = strings.Fields(l.sc.Text())
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

// body returns the tokens of a command up to its $end.
func (l *lexer) body(cmd string) ([]string, error) {
	start := l.line
	var toks []string
	for {
		tok, ok := l.next()
		if !ok {
			if err := l.sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("line %d: %s without $end", start, cmd)
		}
		if tok == "$end" {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

type parser struct {
	lx     *lexer
	tr     *Trace
	scopes []string
	ids    map[string]int
	now    uint64
	timed  bool
}

func newParser(r io.Reader) *parser {
	return &parser{
		lx:  newLexer(r),
		tr:  &Trace{},
		ids: make(map[string]int),
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.lx.line, fmt.Sprintf(format, args...))
}

func (p *parser) run() error {
	for {
		tok, ok := p.lx.next()
		if !ok {
			return p.lx.sc.Err()
		}
		if err := p.token(tok); err != nil {
			return err
		}
	}
}

func (p *parser) token(tok string) error {
	switch tok {
	case "$date", "$version", "$timescale", "$timezero", "$comment",
		"$scope", "$upscope", "$var", "$attrbegin", "$attrend", "$enddefinitions":
		toks, err := p.lx.body(tok)
		if err != nil {
			return err
		}
		return p.command(tok, toks)
	case "$dumpvars", "$dumpon", "$dumpoff", "$dumpall", "$end":
		// Value changes inside these blocks are read as ordinary tokens.
		return nil
	}

	switch c := tok[0]; {
	case c == '$':
		_, err := p.lx.body(tok)
		return err
	case c == '#':
		return p.timestamp(tok[1:])
	case c == 'b' || c == 'B' || c == 'r' || c == 'R' || c == 's' || c == 'S':
		id, ok := p.lx.next()
		if !ok {
			return p.errorf("value %q without identifier", tok)
		}
		return p.change(id, tok[1:])
	case strings.IndexByte("01xXzZuUwWlLhH-", c) >= 0:
		if len(tok) < 2 {
			return p.errorf("scalar change %q without identifier", tok)
		}
		return p.change(tok[1:], tok[:1])
	default:
		return p.errorf("unexpected token %q", tok)
	}
}

func (p *parser) command(cmd string, toks []string) error {
	tr := p.tr
	switch cmd {
	case "$date":
		tr.date = strings.Join(toks, " ")
	case "$version":
		tr.version = strings.Join(toks, " ")
	case "$timescale":
		tr.timescale = strings.Join(toks, "")
		tr.hasTimescale = tr.timescale != ""
	case "$timezero":
		if len(toks) != 1 {
			return p.errorf("$timezero wants one value, got %d", len(toks))
		}
		tz, err := strconv.ParseInt(toks[0], 10, 64)
		if err != nil {
			return p.errorf("$timezero: %v", err)
		}
		tr.timezero = tz
	case "$scope":
		if len(toks) < 2 {
			return p.errorf("$scope wants a type and a name")
		}
		p.scopes = append(p.scopes, toks[1])
		tr.scopeCount++
		tr.events = append(tr.events, wave.HierEvent{Kind: wave.HierScopeBegin, Scope: toks[1]})
	case "$upscope":
		if len(p.scopes) == 0 {
			return p.errorf("$upscope outside any scope")
		}
		p.scopes = p.scopes[:len(p.scopes)-1]
		tr.events = append(tr.events, wave.HierEvent{Kind: wave.HierScopeEnd})
	case "$var":
		return p.declare(toks)
	case "$attrbegin":
		tr.events = append(tr.events, wave.HierEvent{Kind: wave.HierAttrBegin, Attr: parseAttr(toks)})
	case "$attrend":
		tr.events = append(tr.events, wave.HierEvent{Kind: wave.HierAttrEnd})
	}
	return nil
}

func (p *parser) declare(toks []string) error {
	if len(toks) < 4 {
		return p.errorf("$var wants type, size, identifier and reference")
	}
	typ, ok := varTypes[toks[0]]
	if !ok {
		typ = unknownVarType
	}
	width, err := strconv.ParseUint(toks[1], 10, 32)
	if err != nil {
		return p.errorf("$var size %q: %v", toks[1], err)
	}
	if width > maxVarWidth {
		return p.errorf("$var size %d exceeds limit %d", width, maxVarWidth)
	}
	id := toks[2]

	ref := toks[3]
	if len(toks) > 4 {
		ref += " " + strings.Join(toks[4:], "")
	}
	name := ref
	if len(p.scopes) > 0 {
		name = strings.Join(p.scopes, ".") + "." + ref
	}

	idx, alias := p.ids[id]
	if alias {
		p.tr.aliasCount++
	} else {
		idx = len(p.tr.signals)
		p.ids[id] = idx
		p.tr.signals = append(p.tr.signals, &signal{
			width: int(width),
			real:  typ == wave.VarTypeReal || typ == wave.VarTypeRealParameter,
		})
	}
	hid, err := safecast.Conv[uint32](idx)
	if err != nil {
		return p.errorf("too many signals: %v", err)
	}

	v := wave.Var{Name: name, Handle: wave.NewHandle(hid), Type: typ, Width: uint32(width)}
	p.tr.vars = append(p.tr.vars, v)
	p.tr.events = append(p.tr.events, wave.HierEvent{Kind: wave.HierVar, Var: v})
	return nil
}

// enumTableSubtype is the misc attribute subtype GTKWave uses for enum tables.
const enumTableSubtype = 0x07

// parseAttr splits "$attrbegin kind subtype name... arg". Missing pieces are
// left zero; the attribute is never rejected.
//
// An enum table's name is "name arity sym... code..." so its token count is
// known from the arity, and a trailing code is never taken for the argument.
func parseAttr(toks []string) wave.Attr {
	var a wave.Attr
	if len(toks) > 0 {
		a.Kind = toks[0]
	}
	if len(toks) > 1 {
		if st, err := strconv.ParseUint(toks[1], 16, 8); err == nil {
			a.Subtype = uint8(st)
		}
	}
	if len(toks) > 2 {
		nameToks := toks[2:]
		if a.Kind == "misc" && a.Subtype == enumTableSubtype && enumTokens(nameToks) == len(nameToks) {
			a.Name = strings.Join(nameToks, " ")
			return a
		}
		if len(nameToks) > 1 {
			if arg, err := strconv.ParseInt(nameToks[len(nameToks)-1], 10, 64); err == nil {
				a.Arg = arg
				nameToks = nameToks[:len(nameToks)-1]
			}
		}
		a.Name = strings.Join(nameToks, " ")
	}
	return a
}

// enumTokens returns how many tokens an enum table encoding with the arity
// in toks[1] spans, or -1 if the arity is unreadable.
func enumTokens(toks []string) int {
	if len(toks) < 2 {
		return -1
	}
	arity, err := strconv.ParseUint(toks[1], 10, 31)
	if err != nil {
		return -1
	}
	return 2 + 2*int(arity)
}

func (p *parser) timestamp(s string) error {
	t, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return p.errorf("timestamp %q: %v", s, err)
	}
	if p.timed && t < p.now {
		return p.errorf("timestamp #%d goes back from #%d", t, p.now)
	}
	if !p.timed {
		p.tr.start = t
		p.timed = true
	}
	p.now = t
	p.tr.end = t
	return nil
}

func (p *parser) change(id, raw string) error {
	idx, ok := p.ids[id]
	if !ok {
		return p.errorf("value change for undeclared identifier %q", id)
	}
	if raw == "" {
		return p.errorf("empty value for identifier %q", id)
	}
	sig := p.tr.signals[idx]
	if !sig.real {
		raw = strings.ToLower(raw)
	}

	n := len(sig.changes)
	if n > 0 && sig.changes[n-1].t == p.now {
		sig.changes[n-1].raw = raw
		return nil
	}
	sig.changes = append(sig.changes, change{t: p.now, raw: raw})
	return nil
}

// extend left-pads a vector value to width digits.
func extend(raw string, width int) string {
	if len(raw) >= width {
		return raw
	}
	fill := "0"
	if c := raw[0]; c != '0' && c != '1' {
		fill = raw[:1]
	}
	return strings.Repeat(fill, width-len(raw)) + raw
}
