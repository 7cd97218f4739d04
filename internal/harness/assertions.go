package harness

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/wavequery/internal/query"
)

// AssertionError is returned when a check does not match.
type AssertionError struct {
	Check    int
	Var      string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("checks[%d] %s: expected %s, got %s", e.Check, e.Var, e.Expected, e.Actual)
}

// evaluateCheck runs one check against r. The returned string is the
// rendered answer recorded in the outcome.
func evaluateCheck(r *query.Reader, index int, c Check) (string, error) {
	got, err := runQuery(r, c)
	if err != nil {
		got = "error " + string(query.CodeOf(err))
		if query.CodeOf(err) == "" {
			got = "error " + err.Error()
		}
	}

	expected := expectedAnswer(c)
	if c.ExpectError != "" {
		if err != nil && errorClass(err) == c.ExpectError {
			return got, nil
		}
	} else if err == nil && got == expected {
		return got, nil
	}

	return got, &AssertionError{
		Check:    index,
		Var:      c.Var,
		Expected: expected,
		Actual:   got,
	}
}

func runQuery(r *query.Reader, c Check) (string, error) {
	switch c.Kind() {
	case CheckNext:
		next, err := r.NextChange(c.Var, *c.NextAfter)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(next, 10), nil
	case CheckEnum:
		return r.EnumValueAt(c.Var, c.Enum, *c.At)
	default:
		v, err := r.ValueAt(c.Var, *c.At)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(v), 10), nil
	}
}

func expectedAnswer(c Check) string {
	if c.ExpectError != "" {
		return c.ExpectError + " error"
	}
	switch c.Kind() {
	case CheckNext:
		return strconv.FormatUint(*c.ExpectTime, 10)
	case CheckEnum:
		return c.ExpectSymbol
	default:
		return strconv.FormatInt(int64(*c.Expect), 10)
	}
}

// errorClass maps a query error to its expect_error name.
func errorClass(err error) string {
	var qe *query.Error
	if !errors.As(err, &qe) {
		return ""
	}
	return qe.Kind().String()
}
