package store

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/museum/internal/record"
)

var (
	columnList = strings.Join(record.Header(), ", ")

	insertSQL = "INSERT INTO museum_objects (" + columnList + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", record.ColumnCount()), ", ") + ")"

	selectSQL = "SELECT " + columnList + " FROM museum_objects"

	updateSQL = func() string {
		var sets []string
		for _, f := range record.Columns {
			if f.Key {
				continue
			}
			sets = append(sets, f.Name+" = ?")
		}
		return "UPDATE museum_objects SET " + strings.Join(sets, ", ") + " WHERE objectId = ?"
	}()
)

// insertArgs returns r's values in column order.
func insertArgs(r record.Record) []any {
	args := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		args = append(args, f.Value(r))
	}
	return args
}

// updateArgs returns r's non-key values followed by the key.
func updateArgs(r record.Record) []any {
	args := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		if !f.Key {
			args = append(args, f.Value(r))
		}
	}
	return append(args, r.ObjectID)
}

// scanDests returns scan targets for r in column order.
func scanDests(r *record.Record) []any {
	dests := make([]any, 0, record.ColumnCount())
	for _, f := range record.Columns {
		dests = append(dests, f.Dest(r))
	}
	return dests
}

// isUniqueViolation reports whether err is a primary-key or unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
