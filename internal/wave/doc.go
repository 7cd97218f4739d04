// Package wave defines the boundary between wavequery and a trace decoder.
//
// This package contains type definitions only. A decoder (see internal/vcd)
// implements Trace; everything above it (enum, varindex, value, query)
// consumes these types and never looks inside a Handle.
//
// Key constraints:
//   - Handle is opaque: only decoders construct one, via NewHandle
//   - Time is an unsigned tick count in the trace's own timescale
//   - Raw values are digit strings; decoding them is the caller's job
package wave
