package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/museum/internal/record"
	"github.com/roach88/museum/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStore inserts sample records with the given ids.
func seedStore(t *testing.T, s *Store, ids ...int64) []record.Record {
	t.Helper()
	recs := testutil.SampleRecords(ids...)
	if _, _, err := s.BulkInsert(context.Background(), recs); err != nil {
		t.Fatalf("BulkInsert() failed: %v", err)
	}
	return recs
}
