// Package enum rebuilds symbolic enumeration tables from attribute text.
//
// Simulators that support enumerated types record each type as a hierarchy
// attribute whose name is a whitespace-separated encoding:
//
//	<enum_name> <arity> <sym_1> .. <sym_arity> <code_1> .. <code_n>
//
// where each code is a radix-2 digit string of at most eight bits, e.g.
//
//	state 3 IDLE RUN HALT 00 01 10
//
// Parsing is best-effort. Attribute streams mix many annotation kinds, so a
// malformed or unrelated attribute never produces an error. Instead Parse
// reports a Status (Parsed, Skipped or Partial) with the reasons for any
// degradation.
package enum
