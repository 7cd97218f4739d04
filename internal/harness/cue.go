package harness

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// scenarioSchema closes the scenario shape so unknown fields are rejected,
// the same strictness YAML scenarios get from KnownFields.
const scenarioSchema = `
#Check: {
	var:            string & !=""
	at?:            int & >=0
	enum?:          string
	next_after?:    int & >=0
	expect?:        int & >=-2147483648 & <=2147483647
	expect_symbol?: string
	expect_time?:   int & >=0
	expect_error?:  "not_found" | "decode" | "decoder"
}

#Scenario: {
	name:         string & !=""
	description?: string
	trace:        string & !=""
	checks: [#Check, ...#Check]
}
`

func decodeCUE(path string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}

	var scenario Scenario
	if err := unified.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &scenario, nil
}
