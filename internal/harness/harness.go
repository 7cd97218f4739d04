package harness

import (
	"fmt"

	"github.com/roach88/wavequery/internal/query"
)

// Run executes a scenario and returns the result.
//
// The trace is opened with opts and closed before Run returns. A trace that
// cannot be opened is an error; failing checks are not, they are recorded in
// the result.
func Run(scenario *Scenario, opts ...query.Option) (*Result, error) {
	r, err := query.Open(scenario.Trace, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer r.Close()

	result := NewResult(scenario.Name)
	for i, c := range scenario.Checks {
		got, err := evaluateCheck(r, i, c)
		result.Outcomes = append(result.Outcomes, Outcome{
			Check: i,
			Kind:  c.Kind(),
			Var:   c.Var,
			Got:   got,
			Pass:  err == nil,
		})
		if err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}
