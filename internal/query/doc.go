// Package query is the public surface of wavequery: a Reader over one open
// trace that answers value, enum, next-change and metadata queries by name.
//
// LIFECYCLE:
//
// Open (or New) opens the trace, walks its hierarchy once to build the enum
// registry, and indexes its variables. If any step fails the trace is closed
// and no Reader is returned. After Close every method returns an error with
// ErrCodeClosed.
//
// ERRORS:
//
// Every failure is an *Error. Its Kind separates "you asked for something
// absent" (KindNotFound) from "the data is inconsistent" (KindDecode) and
// from "the decoder failed" (KindDecoder). Nothing is retried: trace files
// are static.
//
// CONCURRENCY:
//
// A Reader is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package query
