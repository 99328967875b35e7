package store

import (
	"context"
	"fmt"

	"github.com/roach88/museum/internal/record"
)

// BulkInsert writes all records in one transaction.
// Uses ON CONFLICT(objectId) DO NOTHING - records whose objectId already
// exists, in the table or earlier in recs, are skipped and left untouched.
//
// A validation failure or any other database error rolls back the whole batch.
func (s *Store) BulkInsert(ctx context.Context, recs []record.Record) (inserted, skipped int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("bulk insert: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, insertSQL+" ON CONFLICT(objectId) DO NOTHING")
	if err != nil {
		return 0, 0, fmt.Errorf("bulk insert: prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return 0, 0, err
		}

		result, err := stmt.ExecContext(ctx, insertArgs(rec)...)
		if err != nil {
			return 0, 0, fmt.Errorf("bulk insert: objectId %d: %w", rec.ObjectID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("bulk insert: rows affected: %w", err)
		}
		if rowsAffected > 0 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("bulk insert: commit: %w", err)
	}

	return inserted, skipped, nil
}

// Insert writes a single record.
// A duplicate objectId returns a CONFLICT *record.Error and leaves the
// existing row unchanged.
func (s *Store) Insert(ctx context.Context, rec record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, insertSQL, insertArgs(rec)...)
	if err != nil {
		if isUniqueViolation(err) {
			return record.NewConflictError(rec.ObjectID, err)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update replaces every non-key field of the row with rec's objectId.
// Returns a NOT_FOUND *record.Error if no such row exists.
func (s *Store) Update(ctx context.Context, rec record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, updateSQL, updateArgs(rec)...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireAffected(result, rec.ObjectID, "update record")
}

// Delete removes the row with the given objectId.
// Returns a NOT_FOUND *record.Error if no such row exists.
func (s *Store) Delete(ctx context.Context, objectID int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM museum_objects WHERE objectId = ?", objectID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireAffected(result, objectID, "delete record")
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffecter, objectID int64, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return record.NewNotFoundError(objectID)
	}
	return nil
}
