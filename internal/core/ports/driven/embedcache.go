package driven

import "context"

// EmbeddingCache persists computed prompt embeddings across process
// restarts, keyed by the collection fingerprint. Embedding computation is
// the dominant cost of index construction; the cache makes a rebuild after
// restart a pure read.
//
// This is an optional service - when nil, rebuilds always re-embed.
type EmbeddingCache interface {
	// Get returns the cached embeddings for a fingerprint, in collection
	// order, or ok=false when the fingerprint is not cached.
	Get(ctx context.Context, fingerprint string) (vectors [][]float32, ok bool, err error)

	// Put stores the embeddings for a fingerprint, replacing any previous
	// generation. Stale fingerprints are pruned.
	Put(ctx context.Context, fingerprint string, ids []string, vectors [][]float32) error

	// Close releases resources.
	Close() error
}
