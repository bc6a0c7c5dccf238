// Package store provides SQLite-backed storage for validation run reports.
//
// Each recorded run keeps:
//   - Runs: one summary row per scan (root, rule set, counters)
//   - Verdicts: one row per enumerated file with its outcome
//
// Run ids are UUIDv7, so lexicographic id order is creation order and
// "newest first" is a plain ORDER BY id DESC with no timestamp parsing.
// Writes are idempotent: re-recording a run with the same id is a no-op
// via ON CONFLICT DO NOTHING.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: verdicts cannot outlive their run
package store
