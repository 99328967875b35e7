package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/roach88/museum/internal/record"
)

// SampleRecord returns a fully populated record with the given objectId.
// Field values are short enough to pass record validation.
func SampleRecord(objectID int64) record.Record {
	r := record.New(objectID)
	r.IsHighlight = objectID%2 == 0
	r.AccessionNumber = fmt.Sprintf("1979.%d", objectID)
	r.AccessionYear = 1979
	r.IsPublicDomain = true
	r.PrimaryImage = fmt.Sprintf("https://img.example/%d.jpg", objectID)
	r.Department = "The American Wing"
	r.ObjectName = "Coin"
	r.Title = fmt.Sprintf("One-dollar Liberty Head Coin %d", objectID)
	r.Culture = "American"
	r.ArtistRole = "Maker"
	r.ArtistDisplayName = "James Barton Longacre"
	r.ArtistDisplayBio = "American, Delaware County, Pennsylvania 1794-1869"
	r.ArtistNationality = "American"
	r.ArtistBeginDate = "1794"
	r.ArtistEndDate = "1869"
	r.ArtistGender = record.GenderMale
	r.ObjectDate = "1853"
	r.ObjectBeginDate = "1853"
	r.ObjectEndDate = "1853"
	r.Medium = "Gold"
	r.Dimensions = "Dimensions unavailable"
	r.CreditLine = "Gift of Heinz L. Stoppelmann, 1979"
	r.Classification = "Metal"
	r.MetadataDate = "2021-04-06T04:41:04.967Z"
	r.Repository = "Metropolitan Museum of Art, New York, NY"
	r.ObjectURL = fmt.Sprintf("https://www.metmuseum.org/art/%d", objectID)
	r.IsTimelineWork = false
	r.GalleryNumber = 774
	r.ConstituentID = 16429
	r.Role = "Maker"
	r.Name = "James Barton Longacre"
	r.Gender = record.GenderFemale
	return r
}

// SampleRecords returns SampleRecord for each id.
func SampleRecords(ids ...int64) []record.Record {
	recs := make([]record.Record, len(ids))
	for i, id := range ids {
		recs[i] = SampleRecord(id)
	}
	return recs
}

// Row renders r as CSV cells in column order.
func Row(r record.Record) []string {
	cells := make([]string, record.ColumnCount())
	for i, f := range record.Columns {
		cells[i] = f.Format(r)
	}
	return cells
}

// BlankRow returns a row with only objectId set and every other cell empty.
func BlankRow(objectID int64) []string {
	cells := make([]string, record.ColumnCount())
	cells[0] = fmt.Sprintf("%d", objectID)
	return cells
}

// CSV encodes the schema header followed by rows.
func CSV(rows ...[]string) []byte {
	return CSVWithHeader(record.Header(), rows...)
}

// CSVWithHeader encodes an arbitrary header followed by rows.
func CSVWithHeader(header []string, rows ...[]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// RecordsCSV encodes recs as a complete upload payload.
func RecordsCSV(recs ...record.Record) []byte {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = Row(r)
	}
	return CSV(rows...)
}
