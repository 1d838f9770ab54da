// Package trace records a tick-by-tick journal of kernel runs in SQLite.
//
// A Recorder is a kernel.Observer. After every dispatched tick it writes the
// tick number, the dispatched systems and a rendering of every delivered
// message. The journal is diagnostic output for the trace command: nothing
// is ever read back into a queue.
//
// # Layout
//
//   - runs: one row per run, keyed by a UUIDv7 run ID
//   - ticks: one row per (run, tick seq)
//   - messages: one row per delivered message, ordered by position
//
// All reads order by logical tick seq and position, never by wall time.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package trace
