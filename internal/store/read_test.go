package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/museum/internal/record"
	"github.com/roach88/museum/internal/testutil"
)

func TestGet_RoundTripsEveryField(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := testutil.SampleRecord(436535)
	rec.IsTimelineWork = true
	rec.ArtistGender = record.GenderOther
	rec.ArtistDisplayBio = "Dutch, Zundert 1853-1890 Auvers-sur-Oise"
	rec.Title = "Wheat Field with Cypresses"
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Get(ctx, 436535)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), 86754301)
	require.Error(t, err)
	assert.True(t, record.IsNotFound(err))
	assert.Contains(t, err.Error(), "no museum object found matching the query")
}

func TestList_Empty(t *testing.T) {
	s := createTestStore(t)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestList_OrderedByObjectID(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, 30, 1, 20, 5)

	recs, err := s.List(context.Background())
	require.NoError(t, err)

	var ids []int64
	for _, r := range recs {
		ids = append(ids, r.ObjectID)
	}
	assert.Equal(t, []int64{1, 5, 20, 30}, ids)
}

func TestCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	seedStore(t, s, 1, 2)

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
