// Package ingest maps CSV uploads onto museum records and writes them to a store.
//
// A payload is decoded as UTF-8, its header row is checked against
// record.Columns, and every data row is mapped and validated before any write
// happens. Bulk mode then loads the batch in one transaction and skips
// objectIds that already exist; strict mode inserts row by row and reports
// each duplicate as a CONFLICT in Result.Conflicts.
package ingest
