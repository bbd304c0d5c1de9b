package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vibelab/promptrec/internal/adapters/driven/vector/brute"
	"github.com/vibelab/promptrec/internal/core/domain"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
	"github.com/vibelab/promptrec/internal/logger"
)

// VectorMatch is one nearest-neighbour result resolved to its record.
type VectorMatch struct {
	// Record is the matched prompt.
	Record domain.PromptRecord

	// Distance is the cosine distance to the query (smaller = more similar).
	Distance float64
}

// snapshot binds a built vector index to the exact collection it was built
// from. Callers borrow a snapshot for the duration of one query; the builder
// owns it and replaces it wholesale on fingerprint change.
type snapshot struct {
	fingerprint string
	records     map[string]domain.PromptRecord
	index       driven.VectorIndex
}

// IndexBuilder converts a prompt collection into a queryable similarity
// index. The built index is cached process-wide, keyed by a content
// fingerprint of the collection: an unchanged fingerprint returns the cached
// index without re-embedding, any change triggers a full rebuild. Old
// snapshots stay valid and servable until the new one is swapped in.
type IndexBuilder struct {
	embedder driven.EmbeddingService
	cache    driven.EmbeddingCache // optional, may be nil

	mu      sync.RWMutex
	current *snapshot
	group   singleflight.Group
}

// NewIndexBuilder creates a builder over the given embedding service.
// The cache parameter is optional (can be nil).
func NewIndexBuilder(embedder driven.EmbeddingService, cache driven.EmbeddingCache) *IndexBuilder {
	return &IndexBuilder{
		embedder: embedder,
		cache:    cache,
	}
}

// Fingerprint computes the content identity of a prompt collection:
// record count, the sorted identifier set, and a hash of the concatenated
// body texts. Any addition, removal or body change alters it.
func Fingerprint(prompts []domain.PromptRecord) string {
	ids := make([]string, len(prompts))
	for i := range prompts {
		ids[i] = prompts[i].ID
	}
	sort.Strings(ids)

	h := sha256.New()
	h.Write([]byte(strconv.Itoa(len(prompts))))
	for _, id := range ids {
		h.Write([]byte{0})
		h.Write([]byte(id))
	}
	for i := range prompts {
		h.Write([]byte{0})
		h.Write([]byte(prompts[i].Prompt))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Invalidate drops the cached index. The next Build performs a full rebuild.
// Used when the store reports an out-of-band collection change.
func (b *IndexBuilder) Invalidate() {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()
	logger.Debug("Vector index cache invalidated")
}

// Query embeds the query text once and returns the topK nearest prompts,
// ordered by increasing distance. An empty collection yields an empty
// result; topK beyond the collection size returns all records.
func (b *IndexBuilder) Query(
	ctx context.Context, prompts []domain.PromptRecord, text string, topK int,
) ([]VectorMatch, error) {
	if len(prompts) == 0 || topK <= 0 {
		return []VectorMatch{}, nil
	}

	snap, err := b.build(ctx, prompts)
	if err != nil {
		return nil, err
	}

	embedding, err := b.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrIndexUnavailable, err)
	}

	hits, err := snap.index.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search index: %v", domain.ErrIndexUnavailable, err)
	}

	matches := make([]VectorMatch, 0, len(hits))
	for _, hit := range hits {
		record, ok := snap.records[hit.ID]
		if !ok {
			// Record vanished between fingerprint and lookup; skip.
			continue
		}
		matches = append(matches, VectorMatch{Record: record, Distance: hit.Distance})
	}

	logger.Debug("Vector query: %d matches for topK=%d", len(matches), topK)
	return matches, nil
}

// build returns the cached snapshot when the fingerprint is unchanged, and
// otherwise rebuilds. At most one rebuild per fingerprint runs at a time;
// concurrent callers share its result.
func (b *IndexBuilder) build(ctx context.Context, prompts []domain.PromptRecord) (*snapshot, error) {
	if b.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	fp := Fingerprint(prompts)

	b.mu.RLock()
	current := b.current
	b.mu.RUnlock()
	if current != nil && current.fingerprint == fp {
		return current, nil
	}

	v, err, _ := b.group.Do(fp, func() (any, error) {
		// A concurrent caller may have completed the swap already.
		b.mu.RLock()
		current := b.current
		b.mu.RUnlock()
		if current != nil && current.fingerprint == fp {
			return current, nil
		}
		return b.rebuild(ctx, fp, prompts)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

// rebuild embeds the full collection and atomically swaps the new snapshot
// in. The previous snapshot remains servable until the swap.
func (b *IndexBuilder) rebuild(ctx context.Context, fp string, prompts []domain.PromptRecord) (*snapshot, error) {
	logger.Section("Index Rebuild")
	logger.Debug("Fingerprint: %s, collection size: %d", fp[:12], len(prompts))

	ids := make([]string, len(prompts))
	texts := make([]string, len(prompts))
	for i := range prompts {
		ids[i] = prompts[i].ID
		texts[i] = prompts[i].Prompt
	}

	vectors, cached := b.cachedVectors(ctx, fp, len(prompts))
	if !cached {
		var err error
		vectors, err = b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Collection embedding failed: %v", err)
			return nil, fmt.Errorf("%w: embed collection: %v", domain.ErrIndexUnavailable, err)
		}
		if len(vectors) != len(prompts) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d prompts",
				domain.ErrIndexUnavailable, len(vectors), len(prompts))
		}
	}

	index, err := brute.New(ids, vectors)
	if err != nil {
		return nil, fmt.Errorf("build vector index: %w", err)
	}

	records := make(map[string]domain.PromptRecord, len(prompts))
	for i := range prompts {
		records[prompts[i].ID] = prompts[i]
	}

	snap := &snapshot{
		fingerprint: fp,
		records:     records,
		index:       index,
	}

	b.mu.Lock()
	b.current = snap
	b.mu.Unlock()

	if !cached && b.cache != nil {
		// Cache failures only cost a re-embed on the next restart.
		if err := b.cache.Put(ctx, fp, ids, vectors); err != nil {
			logger.Warn("Persisting embedding cache failed: %v", err)
		}
	}

	logger.Info("Vector index rebuilt: %d entries, %d dimensions", index.Len(), b.embedder.Dimensions())
	return snap, nil
}

// cachedVectors consults the persistent embedding cache for the fingerprint.
func (b *IndexBuilder) cachedVectors(ctx context.Context, fp string, want int) ([][]float32, bool) {
	if b.cache == nil {
		return nil, false
	}
	vectors, ok, err := b.cache.Get(ctx, fp)
	if err != nil {
		logger.Warn("Reading embedding cache failed: %v", err)
		return nil, false
	}
	if !ok || len(vectors) != want {
		return nil, false
	}
	logger.Debug("Embedding cache hit for fingerprint %s", fp[:12])
	return vectors, true
}
