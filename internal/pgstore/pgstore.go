// Package pgstore is the PostgreSQL implementation of the museum object table.
//
// It offers the same operations as package store, on a pgx connection pool.
// Bulk loads run as one pgx.Batch inside a transaction; duplicate objectIds
// are skipped with ON CONFLICT DO NOTHING and counted from the command tags.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roach88/museum/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var (
	quotedColumns = func() []string {
		cols := make([]string, record.ColumnCount())
		for i, f := range record.Columns {
			cols[i] = strconv.Quote(f.Name)
		}
		return cols
	}()

	columnList = strings.Join(quotedColumns, ", ")

	insertSQL = func() string {
		params := make([]string, record.ColumnCount())
		for i := range params {
			params[i] = "$" + strconv.Itoa(i+1)
		}
		return "INSERT INTO museum_objects (" + columnList + ") VALUES (" + strings.Join(params, ", ") + ")"
	}()

	selectSQL = "SELECT " + columnList + " FROM museum_objects"

	updateSQL = func() string {
		var sets []string
		n := 1
		for i, f := range record.Columns {
			if f.Key {
				continue
			}
			sets = append(sets, quotedColumns[i]+" = $"+strconv.Itoa(n))
			n++
		}
		return "UPDATE museum_objects SET " + strings.Join(sets, ", ") + ` WHERE "objectId" = $` + strconv.Itoa(n)
	}()
)

// Store is the PostgreSQL-backed museum object table.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and applies the schema. Safe to call repeatedly
// against the same database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases all pool connections.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// BulkInsert writes all records in one transaction, skipping objectIds that
// already exist in the table or earlier in recs.
func (s *Store) BulkInsert(ctx context.Context, recs []record.Record) (inserted, skipped int, err error) {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return 0, 0, err
		}
	}
	if len(recs) == 0 {
		return 0, 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("bulk insert: begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if committed

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(insertSQL+` ON CONFLICT ("objectId") DO NOTHING`, insertArgs(rec)...)
	}

	br := tx.SendBatch(ctx, batch)
	for _, rec := range recs {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, 0, fmt.Errorf("bulk insert: objectId %d: %w", rec.ObjectID, err)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	if err := br.Close(); err != nil {
		return 0, 0, fmt.Errorf("bulk insert: close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("bulk insert: commit: %w", err)
	}
	return inserted, skipped, nil
}

// Insert writes a single record. A duplicate objectId returns a CONFLICT
// *record.Error.
func (s *Store) Insert(ctx context.Context, rec record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, insertSQL, insertArgs(rec)...); err != nil {
		if isUniqueViolation(err) {
			return record.NewConflictError(rec.ObjectID, err)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update replaces every non-key field of the row with rec's objectId.
func (s *Store) Update(ctx context.Context, rec record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, updateSQL, updateArgs(rec)...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.NewNotFoundError(rec.ObjectID)
	}
	return nil
}

// Delete removes the row with the given objectId.
func (s *Store) Delete(ctx context.Context, objectID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM museum_objects WHERE "objectId" = $1`, objectID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.NewNotFoundError(objectID)
	}
	return nil
}

// Get returns the record with the given objectId.
func (s *Store) Get(ctx context.Context, objectID int64) (record.Record, error) {
	var rec record.Record
	err := s.pool.QueryRow(ctx, selectSQL+` WHERE "objectId" = $1`, objectID).Scan(scanDests(&rec)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return record.Record{}, record.NewNotFoundError(objectID)
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns every record ordered by objectId.
func (s *Store) List(ctx context.Context) ([]record.Record, error) {
	rows, err := s.pool.Query(ctx, selectSQL+` ORDER BY "objectId" ASC`)
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
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM museum_objects").Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func insertArgs(r record.Record) []any {
	args := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		args = append(args, f.Value(r))
	}
	return args
}

func updateArgs(r record.Record) []any {
	args := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		if !f.Key {
			args = append(args, f.Value(r))
		}
	}
	return append(args, r.ObjectID)
}

func scanDests(r *record.Record) []any {
	dests := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		dests = append(dests, f.Dest(r))
	}
	return dests
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
