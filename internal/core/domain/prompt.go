package domain

import (
	"fmt"
	"strings"
)

// PromptRecord is a single stored prompt. The JSON field names are the
// persisted storage schema shared by the local file and the remote table;
// changing them breaks existing libraries.
type PromptRecord struct {
	// ID uniquely identifies the record across both backends.
	ID string `json:"id"`

	// Title is a short human-readable label.
	Title string `json:"title"`

	// Prompt is the full prompt body. This text is what gets embedded.
	Prompt string `json:"prompt"`

	// Category groups prompts by domain, e.g. "frontend", "backend".
	Category string `json:"category"`

	// Tool names the target tool the prompt was written for, if any.
	Tool string `json:"tool,omitempty"`

	// Level is the intended difficulty, e.g. "beginner".
	Level string `json:"level,omitempty"`

	// Keywords are matching hints for the lexical scorer.
	Keywords []string `json:"keywords"`
}

// Validate checks the structural invariants required before persisting.
func (p PromptRecord) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: record ID must not be empty", ErrValidation)
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return fmt.Errorf("%w: prompt body must not be empty", ErrValidation)
	}
	return nil
}

// HasKeyword reports whether the record carries the keyword,
// case-insensitively.
func (p PromptRecord) HasKeyword(keyword string) bool {
	for _, k := range p.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}
