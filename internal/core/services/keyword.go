package services

import (
	"strings"

	"github.com/vibelab/promptrec/internal/core/domain"
	"github.com/vibelab/promptrec/internal/logger"
)

// categoryMatchWeight is the score contribution of a category match.
// A correct domain match is worth exactly twice a single keyword hit.
const categoryMatchWeight = 2

// VocabularyEntry binds a category to the query tokens that signal it.
type VocabularyEntry struct {
	// Category is the inferred category when a token matches.
	Category string

	// Tokens are lower-case markers looked up in the normalized query.
	Tokens []string
}

// Vocabulary is an ordered category-to-token mapping. Order matters:
// when two categories collect the same number of token hits, the one
// declared first wins, keeping extraction deterministic.
type Vocabulary []VocabularyEntry

// DefaultVocabulary returns the built-in category vocabulary.
// Tokens mix English and Korean because prompt queries do.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{Category: "frontend", Tokens: []string{"ui", "폼", "리액트", "react", "tailwind", "상태", "프론트"}},
		{Category: "backend", Tokens: []string{"api", "로그인", "fastapi", "서버", "rest", "인증"}},
		{Category: "ai-llm", Tokens: []string{"gpt", "llm", "요약", "langchain", "llama", "프롬프트"}},
		{Category: "data", Tokens: []string{"pandas", "시각화", "csv", "plotly", "분석", "데이터"}},
		{Category: "devops", Tokens: []string{"docker", "배포", "ci", "github actions"}},
		{Category: "basics", Tokens: []string{"홀수", "짝수", "기초", "python", "입문"}},
	}
}

// KeywordScorer performs lexical relevance scoring of prompts against a
// query. Scoring is a fixed, non-learned weighting, not tuned at runtime.
type KeywordScorer struct {
	vocab Vocabulary
}

// NewKeywordScorer creates a scorer over the given vocabulary.
// A nil vocabulary falls back to DefaultVocabulary.
func NewKeywordScorer(vocab Vocabulary) *KeywordScorer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &KeywordScorer{vocab: vocab}
}

// Extract derives the per-query context from raw user input: normalized
// text, the full token set as candidate keywords, and at most one inferred
// category. The category with the most vocabulary hits wins; ties keep the
// vocabulary declaration order.
func (s *KeywordScorer) Extract(queryText string) domain.QueryContext {
	normalized := strings.ToLower(strings.TrimSpace(queryText))

	qc := domain.QueryContext{
		Normalized: normalized,
		Keywords:   tokenize(normalized),
	}

	bestHits := 0
	for _, entry := range s.vocab {
		hits := 0
		for _, tok := range entry.Tokens {
			// Containment rather than token equality: Korean queries
			// agglutinate markers onto surrounding words, and multi-word
			// tokens like "github actions" span field boundaries.
			if strings.Contains(normalized, tok) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			qc.Category = entry.Category
		}
	}

	logger.Debug("Extracted context: category=%q, keywords=%v", qc.Category, qc.Keywords)
	return qc
}

// Score computes the lexical relevance of a record for a query context:
// 2 for a category match plus 1 per overlapping keyword.
func (s *KeywordScorer) Score(record domain.PromptRecord, qc domain.QueryContext) int {
	score := 0
	if qc.Category != "" && strings.EqualFold(record.Category, qc.Category) {
		score += categoryMatchWeight
	}
	for _, kw := range qc.Keywords {
		if record.HasKeyword(kw) {
			score++
		}
	}
	return score
}

// tokenize splits normalized text into a deduplicated token set,
// preserving first-seen order.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}
