package store

import "context"

// MaxBatchOps is the hard cap on operations in a single atomic batch. Callers
// with larger change sets must split them into multiple batches.
const MaxBatchOps = 500

// Document is a schemaless primary-store document. Values are restricted to
// what JSON round-trips: strings, float64, bool, nil, []any, map[string]any.
type Document = map[string]any

// Snapshot pairs a document with its ID, the unit returned by queries.
type Snapshot struct {
	ID   string
	Data Document
}

// Store is the contract over the primary document database. It is the single
// source of truth; derived stores (search index, bundles) are projections and
// never feed back into it.
//
// Implementations must report a missing document as sentinel.ErrNotFound,
// distinct from infrastructure errors, and must make each individual Set,
// Delete, and Batch commit atomic. Stores are interface-driven so domain
// logic stays testable against the in-memory implementation.
type Store interface {
	// Get returns the document at (collection, id).
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes data at (collection, id). With merge, top-level fields in
	// data are merged into any existing document; without, the document is
	// replaced wholesale. Creates the document either way.
	Set(ctx context.Context, collection, id string, data Document, merge bool) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// QueryEquals returns every document in collection whose top-level field
	// equals value, ordered by ID so results are deterministic.
	QueryEquals(ctx context.Context, collection, field, value string) ([]Snapshot, error)

	// List returns every document in collection, ordered by ID.
	List(ctx context.Context, collection string) ([]Snapshot, error)

	// Batch starts an atomic multi-document write of at most MaxBatchOps
	// operations.
	Batch() Batch
}

// Batch accumulates writes and commits them atomically. Adding operations
// after Commit, or exceeding MaxBatchOps, surfaces as a Commit error.
type Batch interface {
	Set(collection, id string, data Document, merge bool)
	Delete(collection, id string)
	Commit(ctx context.Context) error
}
