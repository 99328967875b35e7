package testutil

// FixedBatchGenerator returns the same batch ID every time.
//
// Ingestion results and write events carry the batch ID, so a fixed value
// keeps assertions and golden files byte-identical across runs.
//
// Thread-safety: FixedBatchGenerator is stateless and safe for concurrent use.
type FixedBatchGenerator struct {
	id string
}

// NewFixedBatchGenerator creates a generator that always returns id.
// If id is empty, Generate() returns "test-batch-default".
func NewFixedBatchGenerator(id string) *FixedBatchGenerator {
	if id == "" {
		id = "test-batch-default"
	}
	return &FixedBatchGenerator{id: id}
}

// Generate returns the fixed batch ID.
//
// Implements ingest.BatchIDGenerator.
func (g *FixedBatchGenerator) Generate() string {
	return g.id
}
