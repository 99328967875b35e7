package ingest

import (
	"errors"
	"fmt"

	"github.com/roach88/museum/internal/record"
)

// MapRow converts one positional CSV row into a record.
//
// Cells are put in record.CleanText form, then each field's default and
// coercion rules apply. Cells beyond the last schema column are ignored.
//
// Returns a VALIDATION *record.Error if the row is short or a cell fails
// coercion.
func MapRow(values []string) (record.Record, error) {
	if len(values) < record.ColumnCount() {
		return record.Record{}, record.NewValidationError("",
			fmt.Sprintf("row has %d columns, expected %d", len(values), record.ColumnCount()))
	}

	var rec record.Record
	for _, f := range record.Columns {
		if err := f.Set(&rec, record.CleanText(values[f.Index])); err != nil {
			return record.Record{}, withColumn(err, f)
		}
	}
	return rec, nil
}

func withColumn(err error, f record.Field) error {
	var rerr *record.Error
	if !errors.As(err, &rerr) {
		return err
	}
	out := *rerr
	out.Message = fmt.Sprintf("column %d: %s", f.Index+1, rerr.Message)
	return &out
}
