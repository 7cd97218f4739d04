package query

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the cause of a query failure.
type ErrorCode string

const (
	// ErrCodeNotFound means the variable is absent, or has no value at or
	// before the requested time.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeEnumNotFound means no enum table has the requested name.
	ErrCodeEnumNotFound ErrorCode = "ENUM_NOT_FOUND"

	// ErrCodeInvalidValue means the raw value is not a radix-2 digit string.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeValueOverflow means the value is wider than the result type.
	ErrCodeValueOverflow ErrorCode = "VALUE_OVERFLOW"

	// ErrCodeCodeNotInTable means the decoded code has no enum symbol.
	ErrCodeCodeNotInTable ErrorCode = "CODE_NOT_IN_TABLE"

	// ErrCodeDecoder wraps an I/O or format error from the trace decoder.
	ErrCodeDecoder ErrorCode = "DECODER_FAILURE"

	// ErrCodeClosed means the Reader was used after Close.
	ErrCodeClosed ErrorCode = "CLOSED"
)

// Kind groups error codes into the classes a caller acts on.
type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindDecode
	KindDecoder
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	case KindDecoder:
		return "decoder"
	case KindUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error is returned by every Reader method.
type Error struct {
	// Code identifies the cause.
	Code ErrorCode

	// Op is the Reader operation that failed, e.g. "value_at".
	Op string

	// Name is the variable or enum name involved, if any.
	Name string

	// Err is the underlying cause, if any.
	Err error
}

// Kind returns the class of e.Code.
func (e *Error) Kind() Kind {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeEnumNotFound:
		return KindNotFound
	case ErrCodeInvalidValue, ErrCodeValueOverflow, ErrCodeCodeNotInTable:
		return KindDecode
	case ErrCodeDecoder:
		return KindDecoder
	default:
		return KindUsage
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Code)
	if e.Name != "" {
		msg += fmt.Sprintf(" (%s)", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, op, name string, err error) *Error {
	return &Error{Code: code, Op: op, Name: name, Err: err}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

func kindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind()
	}
	return 0
}

// IsNotFound reports whether err is an absent variable, enum or value.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsDecodeFailure reports whether err is inconsistent value data.
func IsDecodeFailure(err error) bool {
	return kindOf(err) == KindDecode
}

// IsDecoderFailure reports whether err came from the trace decoder.
func IsDecoderFailure(err error) bool {
	return kindOf(err) == KindDecoder
}
