// Package store provides SQLite-backed durable storage for museum objects.
//
// One table, museum_objects, is keyed by objectId. Its column order matches
// record.Columns exactly, so the SQL column lists are derived from the schema
// rather than written by hand.
//
// # Write Semantics
//
//   - BulkInsert: one transaction, ON CONFLICT(objectId) DO NOTHING. Existing
//     or repeated keys are counted as skipped, never reported.
//   - Insert: a single statement without conflict handling. A primary-key
//     violation becomes a record CONFLICT error.
//   - Update / Delete: zero affected rows becomes a record NOT_FOUND error.
//
// Every record is validated with record.Record.Validate before it is written.
//
// # Reads
//
// All multi-row reads use ORDER BY objectId ASC so listings and backups are
// deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
