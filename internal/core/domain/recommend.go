package domain

import (
	"fmt"
	"strings"
)

// Mode selects the scoring strategy for a recommendation query.
type Mode string

const (
	// ModeKeyword scores prompts by lexical category and keyword overlap.
	ModeKeyword Mode = "keyword"

	// ModeVector scores prompts by embedding similarity.
	ModeVector Mode = "vector"

	// ModeHybrid fuses keyword and vector scores with equal weighting.
	ModeHybrid Mode = "hybrid"
)

// ParseMode converts a user-supplied mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeKeyword:
		return ModeKeyword, nil
	case ModeVector:
		return ModeVector, nil
	case ModeHybrid:
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want keyword, vector or hybrid)", ErrValidation, s)
	}
}

// QueryContext is the per-query view derived from raw user input.
// It is ephemeral and recomputed on every query.
type QueryContext struct {
	// Normalized is the lower-cased, trimmed query text.
	Normalized string

	// Keywords is the full token set of the query.
	Keywords []string

	// Category is the inferred category, best-effort. Empty when no
	// vocabulary token matched.
	Category string
}

// ScoredPrompt is one entry of a ranked result.
type ScoredPrompt struct {
	// Record is the recommended prompt.
	Record PromptRecord `json:"record"`

	// Score is the relevance score. Comparable only within one result set.
	Score float64 `json:"score"`

	// Method names the signal that produced the score:
	// "keyword", "vector" or "hybrid".
	Method string `json:"method"`
}

// RankedResult is an ordered, deduplicated top-k recommendation list,
// highest score first.
type RankedResult struct {
	// Items holds at most the requested top-k scored prompts.
	Items []ScoredPrompt `json:"items"`

	// Degraded is true when hybrid mode fell back to keyword-only scoring
	// because the vector index was unavailable. A partial recommendation
	// is more useful than none.
	Degraded bool `json:"degraded,omitempty"`
}
