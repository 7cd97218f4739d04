// Package value decodes raw radix-2 digit strings returned by a trace
// decoder into integers and enum symbols.
//
// Values are decoded per access and never cached. Digits other than 0 and 1
// (x, z, u, ...) make a value undecodable; they are never read as 0.
package value

import (
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"github.com/roach88/wavequery/internal/enum"
)

var (
	// ErrInvalid means the raw string is not a radix-2 digit string, or is
	// too wide to be an enum code.
	ErrInvalid = errors.New("invalid value")

	// ErrOverflow means the value does not fit the requested integer width.
	ErrOverflow = errors.New("value overflow")

	// ErrEnumNotFound means no enum table is registered under the name.
	ErrEnumNotFound = errors.New("enum not found")

	// ErrCodeNotInTable means the decoded code has no symbol in the table.
	ErrCodeNotInTable = errors.New("value not found in enum")
)

// Uint parses raw as an unsigned radix-2 integer.
func Uint(raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 2, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q exceeds 64 bits", ErrOverflow, raw)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	return v, nil
}

// Int32 parses raw and narrows it to int32.
//
// Values that fit in 32 bits are reinterpreted as two's complement, so a
// 32-bit signal of all ones reads as -1. Values needing more than 32 bits
// return ErrOverflow rather than wrapping.
func Int32(raw string) (int32, error) {
	v, err := Uint(raw)
	if err != nil {
		return 0, err
	}
	u, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q exceeds 32 bits", ErrOverflow, raw)
	}
	return int32(u), nil
}

// Code parses raw as an 8-bit enum code.
func Code(raw string) (uint8, error) {
	v, err := Uint(raw)
	if err != nil {
		if errors.Is(err, ErrOverflow) {
			return 0, fmt.Errorf("%w: %q is not an 8-bit code", ErrInvalid, raw)
		}
		return 0, err
	}
	code, err := safecast.Conv[uint8](v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an 8-bit code", ErrInvalid, raw)
	}
	return code, nil
}

// Symbol decodes raw as a code of the enum registered as enumName and
// returns its symbol. The table is checked before the value is parsed.
func Symbol(reg *enum.Registry, enumName, raw string) (string, error) {
	tbl, ok := reg.Get(enumName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEnumNotFound, enumName)
	}
	code, err := Code(raw)
	if err != nil {
		return "", err
	}
	sym, ok := tbl.Lookup(code)
	if !ok {
		return "", fmt.Errorf("%w: %s has no code %0*b", ErrCodeNotInTable, enumName, len(raw), code)
	}
	return sym, nil
}
