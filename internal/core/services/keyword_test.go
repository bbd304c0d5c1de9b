package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibelab/promptrec/internal/core/domain"
)

func TestExtractInfersCategory(t *testing.T) {
	scorer := NewKeywordScorer(nil)

	tests := []struct {
		name         string
		query        string
		wantCategory string
	}{
		{"react form", "React 폼 만들기", "frontend"},
		{"fastapi login", "fastapi로 로그인 api 만들기", "backend"},
		{"llm summary", "llama-cpp로 요약 챗봇 만들기", "ai-llm"},
		{"csv charts", "csv 파일 plotly 시각화", "data"},
		{"multi word token", "deploy with github actions", "devops"},
		{"no match", "completely unrelated words", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := scorer.Extract(tt.query)
			assert.Equal(t, tt.wantCategory, qc.Category)
		})
	}
}

func TestExtractMostHitsWins(t *testing.T) {
	scorer := NewKeywordScorer(nil)

	// One frontend token (react) against two backend tokens (fastapi, 로그인).
	qc := scorer.Extract("react 클라이언트에서 fastapi 로그인 호출")
	assert.Equal(t, "backend", qc.Category)
}

func TestExtractTiesKeepDeclarationOrder(t *testing.T) {
	scorer := NewKeywordScorer(Vocabulary{
		{Category: "first", Tokens: []string{"alpha"}},
		{Category: "second", Tokens: []string{"beta"}},
	})

	qc := scorer.Extract("alpha beta")
	assert.Equal(t, "first", qc.Category)
}

func TestExtractNormalizesAndDeduplicatesTokens(t *testing.T) {
	scorer := NewKeywordScorer(nil)

	qc := scorer.Extract("  React react FORM  ")
	assert.Equal(t, "react react form", qc.Normalized)
	assert.Equal(t, []string{"react", "form"}, qc.Keywords)
}

func TestScoreFormula(t *testing.T) {
	scorer := NewKeywordScorer(nil)
	qc := scorer.Extract("React 폼 만들기")

	frontend := domain.PromptRecord{
		ID: "1", Prompt: "React 로그인 폼 만들기",
		Category: "frontend", Keywords: []string{"React", "폼"},
	}
	backend := domain.PromptRecord{
		ID: "2", Prompt: "FastAPI 파일 업로드 구현",
		Category: "backend", Keywords: []string{"FastAPI", "API"},
	}

	// Category match (2) + keyword hits for react and 폼 (2).
	assert.Equal(t, 4, scorer.Score(frontend, qc))
	assert.Equal(t, 0, scorer.Score(backend, qc))
}

func TestScoreNoCategoryContext(t *testing.T) {
	scorer := NewKeywordScorer(nil)
	qc := scorer.Extract("plain unrelated words")

	// A record with an empty category must not match an empty context
	// category.
	rec := domain.PromptRecord{ID: "1", Prompt: "p", Category: "", Keywords: []string{"words"}}
	assert.Equal(t, 1, scorer.Score(rec, qc))
}

func TestScoreKeywordComparisonIsCaseInsensitive(t *testing.T) {
	scorer := NewKeywordScorer(nil)
	qc := scorer.Extract("REACT hooks")

	rec := domain.PromptRecord{ID: "1", Prompt: "p", Category: "data", Keywords: []string{"react", "Hooks"}}
	assert.Equal(t, 2, scorer.Score(rec, qc))
}
