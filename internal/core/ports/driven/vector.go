package driven

import "context"

// VectorIndex answers nearest-neighbour queries over a fixed prompt
// collection snapshot. An index is valid only for the exact snapshot it was
// built from; a changed collection requires a full rebuild, never a patch.
type VectorIndex interface {
	// Search finds the k nearest neighbours to the query vector,
	// ordered by increasing distance (closer = more similar).
	// k larger than the collection returns all entries without error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed entries.
	Len() int
}

// VectorHit is one nearest-neighbour match.
type VectorHit struct {
	// ID is the matched prompt record.
	ID string

	// Distance is the cosine distance to the query (0 = identical direction).
	Distance float64
}
