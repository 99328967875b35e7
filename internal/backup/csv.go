package backup

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/roach88/museum/internal/record"
)

// WriteCSV writes the schema header followed by one row per record.
// The output re-ingests to the same records.
func WriteCSV(w io.Writer, recs []record.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(record.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, record.ColumnCount())
	for _, r := range recs {
		for i, f := range record.Columns {
			row[i] = f.Format(r)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write objectId %d: %w", r.ObjectID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
