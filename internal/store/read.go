package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/museum/internal/record"
)

// Get returns the record with the given objectId.
// Returns a NOT_FOUND *record.Error if no such row exists.
func (s *Store) Get(ctx context.Context, objectID int64) (record.Record, error) {
	var rec record.Record
	err := s.db.QueryRowContext(ctx, selectSQL+" WHERE objectId = ?", objectID).Scan(scanDests(&rec)...)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, record.NewNotFoundError(objectID)
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns every record ordered by objectId.
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) List(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL+" ORDER BY objectId ASC")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	recs := []record.Record{}
	for rows.Next() {
		var rec record.Record
		if err := rows.Scan(scanDests(&rec)...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return recs, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM museum_objects").Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}
