package harness

// Outcome is the result of one check.
type Outcome struct {
	Check int    `json:"check"`
	Kind  string `json:"kind"`
	Var   string `json:"var"`
	Got   string `json:"got"`
	Pass  bool   `json:"pass"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	Scenario string `json:"scenario"`

	// Pass is true if every check matched.
	Pass bool `json:"pass"`

	// Outcomes has one entry per check, in scenario order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failed returns the outcomes that did not match.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Pass {
			out = append(out, o)
		}
	}
	return out
}
