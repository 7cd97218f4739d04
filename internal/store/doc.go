// Package store provides SQLite-backed storage for sampled change series.
//
// A run records one traversal of a variable's changes over a time window
// (trace path, variable, optional enum, window bounds and timescale). Its
// samples are the points visited, each with the raw digit string and the
// decoded value or the decode error.
//
// # Ordering
//
//   - Runs are ordered by seq, a logical counter assigned at write time,
//     never by wall-clock timestamps
//   - Samples are ordered by (run_id, seq)
//
// # Database
//
// Every connection runs in WAL mode with foreign keys enforced, so deleting a
// run removes its samples. PRAGMA user_version records the schema layout;
// Open refuses a database stamped with a newer version than it knows.
//
// Run IDs are UUIDv7 strings, so they also sort by creation time.
package store
