package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vibelab/promptrec/internal/core/domain"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
	"github.com/vibelab/promptrec/internal/logger"
)

// Weights of the two signals in hybrid fusion. Fixed equal weighting:
// the fusion formula is not learned or tuned at runtime.
const (
	keywordWeight = 0.5
	vectorWeight  = 0.5
)

// candidate is an intermediate scored prompt, keyed by its position in the
// collection so that equal scores keep the original order.
type candidate struct {
	position int
	score    float64
}

// Recommender fuses lexical keyword matching with vector similarity into a
// single ranked result, reading the collection from the active prompt store.
type Recommender struct {
	store   driven.PromptStore
	scorer  *KeywordScorer
	builder *IndexBuilder
}

// NewRecommender creates a recommendation engine.
func NewRecommender(store driven.PromptStore, scorer *KeywordScorer, builder *IndexBuilder) *Recommender {
	return &Recommender{
		store:   store,
		scorer:  scorer,
		builder: builder,
	}
}

// Recommend returns the ranked top-k prompts for a query.
//
// An empty or whitespace-only query is an error in every mode. A topK of
// zero or less and an empty collection both yield an empty result without
// error, keeping the operation idempotent under degenerate input.
func (r *Recommender) Recommend(
	ctx context.Context, queryText string, mode domain.Mode, topK int,
) (domain.RankedResult, error) {
	logger.Section("Recommendation")
	logger.Debug("Query: %q, mode: %s, topK: %d", queryText, mode, topK)

	if strings.TrimSpace(queryText) == "" {
		return domain.RankedResult{}, fmt.Errorf("%w: query text is empty", domain.ErrInvalidQuery)
	}
	if topK <= 0 {
		return domain.RankedResult{Items: []domain.ScoredPrompt{}}, nil
	}

	prompts, err := r.store.List(ctx)
	if err != nil {
		return domain.RankedResult{}, fmt.Errorf("list prompts: %w", err)
	}
	if len(prompts) == 0 {
		logger.Debug("Empty collection, returning no results")
		return domain.RankedResult{Items: []domain.ScoredPrompt{}}, nil
	}

	switch mode {
	case domain.ModeKeyword:
		items := r.keywordRank(queryText, prompts, topK)
		return domain.RankedResult{Items: items}, nil

	case domain.ModeVector:
		items, err := r.vectorRank(ctx, queryText, prompts, topK)
		if err != nil {
			return domain.RankedResult{}, err
		}
		return domain.RankedResult{Items: items}, nil

	case domain.ModeHybrid:
		return r.hybridRank(ctx, queryText, prompts, topK)

	default:
		return domain.RankedResult{}, fmt.Errorf("%w: unknown mode %q", domain.ErrValidation, mode)
	}
}

// keywordScores runs the lexical scorer over the whole collection and
// returns positive-scoring candidates in collection order.
func (r *Recommender) keywordScores(queryText string, prompts []domain.PromptRecord) []candidate {
	qc := r.scorer.Extract(queryText)

	var scored []candidate
	for i := range prompts {
		if score := r.scorer.Score(prompts[i], qc); score > 0 {
			scored = append(scored, candidate{position: i, score: float64(score)})
		}
	}
	logger.Debug("Keyword scoring: %d of %d prompts matched", len(scored), len(prompts))
	return scored
}

// keywordRank produces the keyword-mode result: positive scores only,
// descending, ties broken by collection order.
func (r *Recommender) keywordRank(queryText string, prompts []domain.PromptRecord, topK int) []domain.ScoredPrompt {
	scored := r.keywordScores(queryText, prompts)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	items := make([]domain.ScoredPrompt, len(scored))
	for i, c := range scored {
		items[i] = domain.ScoredPrompt{
			Record: prompts[c.position],
			Score:  c.score,
			Method: string(domain.ModeKeyword),
		}
	}
	return items
}

// vectorRank produces the vector-mode result, converting distances into
// similarity scores with a monotone inverse so closer neighbours always
// rank higher.
func (r *Recommender) vectorRank(
	ctx context.Context, queryText string, prompts []domain.PromptRecord, topK int,
) ([]domain.ScoredPrompt, error) {
	matches, err := r.builder.Query(ctx, prompts, queryText, topK)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ScoredPrompt, len(matches))
	for i, m := range matches {
		items[i] = domain.ScoredPrompt{
			Record: m.Record,
			Score:  similarity(m.Distance),
			Method: string(domain.ModeVector),
		}
	}
	return items, nil
}

// hybridRank fuses the keyword and vector signals over the union of their
// candidate sets. When the vector leg is unavailable the result degrades to
// keyword-only scoring and reports the degradation instead of failing.
func (r *Recommender) hybridRank(
	ctx context.Context, queryText string, prompts []domain.PromptRecord, topK int,
) (domain.RankedResult, error) {
	keyword := r.keywordScores(queryText, prompts)

	matches, err := r.builder.Query(ctx, prompts, queryText, topK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexUnavailable) || errors.Is(err, domain.ErrEmbeddingUnavailable) {
			logger.Warn("Hybrid search degraded to keyword-only: %v", err)
			return domain.RankedResult{
				Items:    r.keywordRank(queryText, prompts, topK),
				Degraded: true,
			}, nil
		}
		return domain.RankedResult{}, err
	}

	positions := make(map[string]int, len(prompts))
	for i := range prompts {
		positions[prompts[i].ID] = i
	}

	vector := make([]candidate, 0, len(matches))
	for _, m := range matches {
		vector = append(vector, candidate{
			position: positions[m.Record.ID],
			score:    similarity(m.Distance),
		})
	}

	normKeyword := normalize(keyword)
	normVector := normalize(vector)

	// Union of both candidate sets; absence in one list contributes zero
	// to that half of the fused score.
	fused := make(map[int]float64, len(normKeyword)+len(normVector))
	for _, c := range normKeyword {
		fused[c.position] += keywordWeight * c.score
	}
	for _, c := range normVector {
		fused[c.position] += vectorWeight * c.score
	}

	// Collect in collection order so the stable sort breaks ties
	// deterministically.
	scored := make([]candidate, 0, len(fused))
	for i := range prompts {
		if score, ok := fused[i]; ok {
			scored = append(scored, candidate{position: i, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	items := make([]domain.ScoredPrompt, len(scored))
	for i, c := range scored {
		items[i] = domain.ScoredPrompt{
			Record: prompts[c.position],
			Score:  c.score,
			Method: string(domain.ModeHybrid),
		}
	}

	logger.Debug("Hybrid fusion: %d keyword + %d vector candidates -> %d results",
		len(keyword), len(vector), len(items))
	return domain.RankedResult{Items: items}, nil
}

// similarity converts a distance into a similarity score. Monotonically
// decreasing in distance, so closer neighbours always rank higher.
func similarity(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// normalize rescales candidate scores to [0,1] with min-max normalization
// over the candidate set. A zero-range set is treated as all-zero rather
// than dividing by zero.
func normalize(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	minScore, maxScore := candidates[0].score, candidates[0].score
	for _, c := range candidates[1:] {
		if c.score < minScore {
			minScore = c.score
		}
		if c.score > maxScore {
			maxScore = c.score
		}
	}

	out := make([]candidate, len(candidates))
	span := maxScore - minScore
	for i, c := range candidates {
		normalized := 0.0
		if span > 0 {
			normalized = (c.score - minScore) / span
		}
		out[i] = candidate{position: c.position, score: normalized}
	}
	return out
}
