// Package store keeps a SQLite history of sweep runs.
//
// Each run stores its summary counters and run digest; each check performed
// during the run is stored as a result row:
//   - runs: one row per sweep, ordered by a logical seq counter
//   - results: one row per Turtle or ShExJ check, keyed by position in the run
//
// Runs carry no wall-clock time. Listing order comes from seq alone, so two
// databases fed the same sweeps list them identically.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait up to 5s for locks
//   - foreign_keys=on: results cascade with their run
//
// The settings are passed as driver DSN parameters so that every pooled
// connection gets them. Schema upgrades are numbered migrations tracked in
// PRAGMA user_version.
//
// Violation lists are stored as canonical JSON (see internal/canonical).
package store
