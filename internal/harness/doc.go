// Package harness runs regression scenarios against waveform traces.
//
// A scenario names a trace and lists point queries with their expected
// answers. Running it opens the trace through the query façade, evaluates
// every check and records one outcome per check, so a scenario doubles as a
// golden snapshot of what the façade reports for that trace.
//
// # Scenario Format
//
// Scenarios are YAML or CUE files with the following structure:
//
//	name: cpu_smoke
//	description: "Opcode decoding on the CPU dump"
//	trace: ../traces/cpu.vcd
//	checks:
//	  - var: TOP.clk
//	    at: 10
//	    expect: 1
//	  - var: "TOP.cpu.rax_op [1:0]"
//	    at: 10
//	    enum: control::reg_op_e
//	    expect_symbol: READ
//	  - var: TOP.clk
//	    next_after: 10
//	    expect_time: 20
//	  - var: TOP.missing
//	    at: 0
//	    expect_error: not_found
//
// The trace path is resolved relative to the scenario file.
//
// # Check Kinds
//
//   - value: "at" without "enum"; compares the int32 value against "expect"
//   - enum: "at" with "enum"; compares the symbol against "expect_symbol"
//   - next: "next_after"; compares the next change time against "expect_time"
//
// Any check may instead carry "expect_error" (not_found, decode or decoder),
// in which case the query must fail with that class of error.
//
// # Golden Snapshots
//
// RunWithGolden and AssertGolden compare the JSON snapshot of a result
// against testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// WriteGolden and CompareGolden use the same layout outside of tests, which
// is how "wavequery check --update" keeps snapshots in sync.
package harness
