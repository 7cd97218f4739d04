package enum

import (
	"fmt"
	"strconv"
	"strings"
)

// minTokens is the smallest token count that can be an enum encoding:
// name, arity, one symbol, one code.
const minTokens = 4

// Table maps 8-bit codes of one enumeration to their symbols.
// A Table is immutable once built.
type Table struct {
	Name  string
	Arity int
	// Symbols holds at most Arity entries. Codes never declared are absent.
	Symbols map[uint8]string
}

// Lookup returns the symbol for code.
func (t *Table) Lookup(code uint8) (string, bool) {
	sym, ok := t.Symbols[code]
	return sym, ok
}

// Status reports which parse path an attribute took.
type Status uint8

const (
	// StatusSkipped means the attribute is not an enum encoding.
	StatusSkipped Status = iota
	// StatusParsed means every symbol got a valid code.
	StatusParsed
	// StatusPartial means a table was produced but something was dropped.
	StatusPartial
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusParsed:
		return "parsed"
	case StatusPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Result is the outcome of parsing one attribute name.
type Result struct {
	Status Status
	// Table is nil when Status is StatusSkipped.
	Table *Table
	// Reasons lists every degradation applied for StatusPartial.
	Reasons []string
}

// Parse builds a Table from one attribute name.
//
// Symbols and codes are paired by position and pairing stops at the shorter
// of the two. An arity that is not a base-10 unsigned integer is treated as
// zero. Codes that are not radix-2 8-bit values are dropped.
func Parse(attrName string) Result {
	tokens := strings.Fields(attrName)
	if len(tokens) < minTokens {
		return Result{Status: StatusSkipped}
	}

	var reasons []string

	arity, err := strconv.ParseUint(tokens[1], 10, 31)
	if err != nil {
		arity = 0
		reasons = append(reasons, fmt.Sprintf("invalid arity %q", tokens[1]))
	}

	rest := tokens[2:]
	nsym := int(arity)
	if nsym > len(rest) {
		reasons = append(reasons, fmt.Sprintf("arity %d but only %d symbol tokens", arity, len(rest)))
		nsym = len(rest)
	}
	symbols := rest[:nsym]
	codes := rest[nsym:]

	if len(codes) < len(symbols) {
		reasons = append(reasons, fmt.Sprintf("%d symbols without a code", len(symbols)-len(codes)))
	}

	table := &Table{
		Name:    tokens[0],
		Arity:   int(arity),
		Symbols: make(map[uint8]string, min(len(symbols), len(codes))),
	}

	for i := 0; i < len(symbols) && i < len(codes); i++ {
		code, err := strconv.ParseUint(codes[i], 2, 8)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("symbol %s: invalid code %q", symbols[i], codes[i]))
			continue
		}
		table.Symbols[uint8(code)] = symbols[i]
	}

	status := StatusParsed
	if len(reasons) > 0 {
		status = StatusPartial
	}
	return Result{Status: status, Table: table, Reasons: reasons}
}
