package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/museum/internal/record"
	"github.com/roach88/museum/internal/testutil"
)

func TestBulkInsert_InsertsAll(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inserted, skipped, err := s.BulkInsert(ctx, testutil.SampleRecords(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	assert.Equal(t, 0, skipped)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBulkInsert_SkipsExisting(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedStore(t, s, 1)

	changed := testutil.SampleRecord(1)
	changed.Title = "Should Not Overwrite"

	inserted, skipped, err := s.BulkInsert(ctx, []record.Record{changed, testutil.SampleRecord(2)})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, skipped)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecord(1).Title, got.Title, "existing row must be left untouched")
}

func TestBulkInsert_DuplicateWithinBatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := testutil.SampleRecord(7)
	second := testutil.SampleRecord(7)
	second.Title = "Second"

	inserted, skipped, err := s.BulkInsert(ctx, []record.Record{first, second})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, skipped)

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title, "first occurrence wins")
}

func TestBulkInsert_Empty(t *testing.T) {
	s := createTestStore(t)

	inserted, skipped, err := s.BulkInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Zero(t, skipped)
}

func TestBulkInsert_ValidationRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	bad := testutil.SampleRecord(2)
	bad.Title = strings.Repeat("x", 51)

	_, _, err := s.BulkInsert(ctx, []record.Record{testutil.SampleRecord(1), bad})
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "failed batch must not leave partial rows")
}

func TestBulkInsert_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.BulkInsert(ctx, testutil.SampleRecords(1))
	require.Error(t, err)
}

func TestInsert_Success(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := testutil.SampleRecord(42)
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestInsert_Conflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedStore(t, s, 1)

	dup := testutil.SampleRecord(1)
	dup.Title = "Duplicate"

	err := s.Insert(ctx, dup)
	require.Error(t, err)
	assert.True(t, record.IsConflict(err))

	var rerr *record.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "objectId", rerr.Field)
	assert.Equal(t, int64(1), rerr.ObjectID)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecord(1).Title, got.Title)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsert_Invalid(t *testing.T) {
	s := createTestStore(t)

	rec := testutil.SampleRecord(1)
	rec.ObjectID = 0

	err := s.Insert(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))
}

func TestInsert_Defaults(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := record.New(9)
	rec.AccessionNumber = "A.9"
	rec.Department = "Arms and Armor"
	rec.ObjectName = "Helmet"
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AccessionYear)
	assert.Equal(t, int64(-1), got.GalleryNumber)
	assert.Equal(t, int64(-1), got.ConstituentID)
	assert.Equal(t, record.GenderMale, got.ArtistGender)
	assert.Equal(t, record.GenderMale, got.Gender)
	assert.False(t, got.IsHighlight)
	assert.Empty(t, got.Title)
}

func TestUpdate_Success(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedStore(t, s, 1)

	rec := testutil.SampleRecord(1)
	rec.Title = "Renamed"
	rec.Gender = record.GenderOther
	rec.GalleryNumber = 100
	require.NoError(t, s.Update(ctx, rec))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.Update(context.Background(), testutil.SampleRecord(86754301))
	require.Error(t, err)
	assert.True(t, record.IsNotFound(err))
}

func TestUpdate_Invalid(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedStore(t, s, 1)

	rec := testutil.SampleRecord(1)
	rec.Department = strings.Repeat("d", 51)

	err := s.Update(ctx, rec)
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecord(1).Department, got.Department)
}

func TestDelete_Success(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedStore(t, s, 1, 2)

	require.NoError(t, s.Delete(ctx, 1))

	_, err := s.Get(ctx, 1)
	assert.True(t, record.IsNotFound(err))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDelete_NotFound(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, 1)

	err := s.Delete(context.Background(), 86754301)
	require.Error(t, err)
	assert.True(t, record.IsNotFound(err))

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
