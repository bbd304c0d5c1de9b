// Package brute provides an exact nearest-neighbour index over cosine
// distance. Prompt collections are small enough that a full scan beats the
// bookkeeping of an approximate structure.
package brute

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vibelab/promptrec/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds the vectors of one collection snapshot. Immutable after
// construction; a changed collection gets a new Index, never a patch.
type Index struct {
	ids     []string
	vectors [][]float32
	dims    int
}

// New builds an index from parallel id and vector slices.
func New(ids []string, vectors [][]float32) (*Index, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("brute: %d ids for %d vectors", len(ids), len(vectors))
	}

	dims := 0
	for i, v := range vectors {
		if dims == 0 {
			dims = len(v)
		}
		if len(v) != dims {
			return nil, fmt.Errorf("brute: vector %d has %d dimensions, want %d", i, len(v), dims)
		}
	}

	return &Index{ids: ids, vectors: vectors, dims: dims}, nil
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Search scans all entries and returns the k nearest to the query vector,
// ordered by increasing cosine distance. Equal distances keep insertion
// order, so repeated searches are deterministic. k beyond the collection
// size returns everything.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(idx.ids) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("brute: query has %d dimensions, index has %d", len(query), idx.dims)
	}

	hits := make([]driven.VectorHit, len(idx.ids))
	for i, v := range idx.vectors {
		hits[i] = driven.VectorHit{
			ID:       idx.ids[i],
			Distance: 1.0 - cosine(query, v),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// cosine computes cosine similarity between two vectors of equal length.
// Zero-norm vectors yield zero similarity.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0
	}
	return dot / den
}
