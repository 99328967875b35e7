package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/museum/internal/hook"
	"github.com/roach88/museum/internal/record"
	"github.com/roach88/museum/internal/store"
	"github.com/roach88/museum/internal/testutil"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestPipeline(t *testing.T, w Writer, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithBatchIDs(testutil.NewFixedBatchGenerator("batch-1"))}, opts...)
	return New(w, opts...)
}

func TestIngest_BulkInsertsAll(t *testing.T) {
	s := newTestStore(t)
	p := newTestPipeline(t, s)
	ctx := context.Background()

	result, err := p.Ingest(ctx, testutil.RecordsCSV(testutil.SampleRecords(1, 2, 3)...), ModeBulk)
	require.NoError(t, err)
	assert.Equal(t, Result{BatchID: "batch-1", Mode: ModeBulk, Rows: 3, Inserted: 3}, result)

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecord(2), got)
}

func TestIngest_BulkRepeatedUploadSkips(t *testing.T) {
	s := newTestStore(t)
	p := newTestPipeline(t, s)
	ctx := context.Background()
	payload := testutil.RecordsCSV(testutil.SampleRecords(1, 2)...)

	_, err := p.Ingest(ctx, payload, ModeBulk)
	require.NoError(t, err)

	result, err := p.Ingest(ctx, payload, ModeBulk)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Conflicts)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_EmptyModeMeansBulk(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	result, err := p.Ingest(context.Background(), testutil.RecordsCSV(testutil.SampleRecord(1)), "")
	require.NoError(t, err)
	assert.Equal(t, ModeBulk, result.Mode)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngest_UnknownMode(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	_, err := p.Ingest(context.Background(), testutil.CSV(), Mode("fast"))
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))
}

func TestIngest_StrictReportsConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, testutil.SampleRecord(2)))

	p := newTestPipeline(t, s)
	result, err := p.Ingest(ctx, testutil.RecordsCSV(testutil.SampleRecords(1, 2, 3)...), ModeStrict)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, int64(2), result.Conflicts[0].ObjectID)
	assert.Equal(t, "objectId", result.Conflicts[0].Field)
	assert.Equal(t, record.ConflictMessage, result.Conflicts[0].Message)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIngest_StrictDuplicateWithinFile(t *testing.T) {
	s := newTestStore(t)
	p := newTestPipeline(t, s)

	result, err := p.Ingest(context.Background(), testutil.RecordsCSV(testutil.SampleRecords(5, 5)...), ModeStrict)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Conflicts, 1)
}

func TestIngest_StrictStopsOnStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	w := &fakeWriter{insertErr: map[int64]error{2: boom}}
	p := newTestPipeline(t, w)

	result, err := p.Ingest(context.Background(), testutil.RecordsCSV(testutil.SampleRecords(1, 2, 3)...), ModeStrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, []int64{1}, w.inserted)
}

func TestIngest_BadRowAbortsWholeFile(t *testing.T) {
	s := newTestStore(t)
	p := newTestPipeline(t, s)
	ctx := context.Background()

	bad := testutil.Row(testutil.SampleRecord(2))
	year, _ := record.Lookup("accessionYear")
	bad[year.Index] = "not-a-year"

	payload := testutil.CSV(testutil.Row(testutil.SampleRecord(1)), bad, testutil.Row(testutil.SampleRecord(3)))

	_, err := p.Ingest(ctx, payload, ModeBulk)
	require.Error(t, err)

	var rerr *record.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, record.ErrCodeValidation, rerr.Code)
	assert.Equal(t, 3, rerr.Line)
	assert.Equal(t, "accessionYear", rerr.Field)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "no rows may be written when any row fails")
}

func TestIngest_ShortRowAbortsWithLine(t *testing.T) {
	s := newTestStore(t)
	p := newTestPipeline(t, s)

	payload := testutil.CSV(testutil.Row(testutil.SampleRecord(1)), []string{"2", "False", "A.2"})

	_, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.Error(t, err)

	var rerr *record.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 3, rerr.Line)
	assert.Contains(t, rerr.Message, "expected 62")
}

func TestIngest_OverlongValueRejected(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	rec := testutil.SampleRecord(1)
	rec.Culture = strings.Repeat("c", 51)

	_, err := p.Ingest(context.Background(), testutil.RecordsCSV(rec), ModeBulk)
	require.Error(t, err)

	var rerr *record.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "culture", rerr.Field)
	assert.Equal(t, 2, rerr.Line)
}

func TestIngest_HeaderOnly(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	result, err := p.Ingest(context.Background(), testutil.CSV(), ModeBulk)
	require.NoError(t, err)
	assert.Zero(t, result.Rows)
	assert.Zero(t, result.Inserted)
}

func TestIngest_EmptyFile(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	_, err := p.Ingest(context.Background(), nil, ModeBulk)
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))
}

func TestIngest_InvalidUTF8(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	payload := append(testutil.CSV(), []byte("1,\xff\xfe\n")...)

	_, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestIngest_StripsBOM(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	payload := append([]byte("\xef\xbb\xbf"), testutil.RecordsCSV(testutil.SampleRecord(1))...)

	result, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngest_MalformedCSV(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	payload := append(testutil.CSV(), []byte("1,\"unterminated\n")...)

	_, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))
}

func TestIngest_HeaderMismatch(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	header := record.Header()
	header[0], header[1] = header[1], header[0]
	payload := testutil.CSVWithHeader(header, testutil.Row(testutil.SampleRecord(1)))

	_, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.Error(t, err)

	var rerr *record.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "objectId", rerr.Field)
	assert.Equal(t, 1, rerr.Line)
}

func TestIngest_HeaderComparedLoosely(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t))

	header := record.Header()
	header[0] = "Object ID"
	header[26] = "ARTIST WIKIDATA URL"
	payload := testutil.CSVWithHeader(header, testutil.Row(testutil.SampleRecord(1)))

	result, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngest_HeaderCheckDisabled(t *testing.T) {
	p := newTestPipeline(t, newTestStore(t), WithHeaderCheck(false))

	header := make([]string, record.ColumnCount())
	for i := range header {
		header[i] = "col"
	}
	payload := testutil.CSVWithHeader(header, testutil.Row(testutil.SampleRecord(1)))

	result, err := p.Ingest(context.Background(), payload, ModeBulk)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngest_NotifiesObserver(t *testing.T) {
	var events []hook.Event
	obs := hook.ObserverFunc(func(_ context.Context, ev hook.Event) { events = append(events, ev) })
	p := newTestPipeline(t, newTestStore(t), WithObserver(obs), WithSource("restore"))

	_, err := p.Ingest(context.Background(), testutil.RecordsCSV(testutil.SampleRecords(1, 2)...), ModeBulk)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, hook.Event{
		Kind:     hook.KindIngested,
		BatchID:  "batch-1",
		Inserted: 2,
		Source:   "restore",
	}, events[0])
}

func TestIngest_NoEventOnFailure(t *testing.T) {
	called := false
	obs := hook.ObserverFunc(func(context.Context, hook.Event) { called = true })
	p := newTestPipeline(t, newTestStore(t), WithObserver(obs))

	_, err := p.Ingest(context.Background(), []byte("not,a,header\n"), ModeBulk)
	require.Error(t, err)
	assert.False(t, called)
}

func TestIngest_DefaultBatchIDIsUUID(t *testing.T) {
	p := New(newTestStore(t))

	result, err := p.Ingest(context.Background(), testutil.CSV(), ModeBulk)
	require.NoError(t, err)
	assert.Len(t, result.BatchID, 36)
}

func TestCheckUploadName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"data.csv", false},
		{"DATA.CSV", false},
		{"export.2024.csv", false},
		{"data.java", true},
		{"data", true},
		{"csv", true},
		{"data.csv.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUploadName(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, record.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBulk, m)

	m, err = ParseMode(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	_, err = ParseMode("lenient")
	assert.True(t, record.IsValidation(err))
}

// fakeWriter records inserts and fails on demand.
type fakeWriter struct {
	inserted  []int64
	insertErr map[int64]error
}

func (f *fakeWriter) BulkInsert(_ context.Context, recs []record.Record) (int, int, error) {
	for _, r := range recs {
		f.inserted = append(f.inserted, r.ObjectID)
	}
	return len(recs), 0, nil
}

func (f *fakeWriter) Insert(_ context.Context, rec record.Record) error {
	if err := f.insertErr[rec.ObjectID]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, rec.ObjectID)
	return nil
}
