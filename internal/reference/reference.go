// Package reference provides token counters used to compare a freshly
// trained BPE model against established encodings.
package reference

import (
	"fmt"

	"github.com/finchlabs/go-bpe-trainer/bpe"
)

// Tokenizer counts tokens in text using a specific tokenization method.
type Tokenizer interface {
	// CountTokens returns the token count for the given text.
	CountTokens(text string) (int, error)

	// Name returns the tokenizer's machine-readable identifier.
	Name() string

	// DisplayName returns the tokenizer's human-readable name.
	DisplayName() string

	// IsExact returns true if this tokenizer produces exact counts.
	IsExact() bool
}

// Result is one tokenizer's count over the compared text.
type Result struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Tokens      int    `json:"tokens"`
	IsExact     bool   `json:"is_exact"`
}

// TrainedTokenizer counts tokens with a model produced by the bpe package.
type TrainedTokenizer struct {
	tok   *bpe.Tokenizer
	label string
}

// NewTrainedTokenizer wraps a trained tokenizer. label names the model in
// output (typically the model file name).
func NewTrainedTokenizer(tok *bpe.Tokenizer, label string) *TrainedTokenizer {
	return &TrainedTokenizer{tok: tok, label: label}
}

// CountTokens counts tokens using the trained model.
func (t *TrainedTokenizer) CountTokens(text string) (int, error) {
	encoded, err := t.tok.Encode([]string{text})
	if err != nil {
		return 0, fmt.Errorf("encoding with trained model: %w", err)
	}
	return len(encoded[0]), nil
}

// Name returns the machine-readable tokenizer identifier.
func (t *TrainedTokenizer) Name() string {
	return "trained_bpe"
}

// DisplayName returns the human-readable tokenizer name.
func (t *TrainedTokenizer) DisplayName() string {
	return fmt.Sprintf("Trained (%s)", t.label)
}

// IsExact returns true; the trained model's counts are exact by definition.
func (t *TrainedTokenizer) IsExact() bool {
	return true
}

// Compare runs text through every tokenizer and collects the counts.
// Tokenizers that error on the text are skipped.
func Compare(text string, tokenizers []Tokenizer) []Result {
	results := make([]Result, 0, len(tokenizers))
	for _, tok := range tokenizers {
		count, err := tok.CountTokens(text)
		if err != nil {
			continue
		}
		results = append(results, Result{
			Name:        tok.Name(),
			DisplayName: tok.DisplayName(),
			Tokens:      count,
			IsExact:     tok.IsExact(),
		})
	}
	return results
}
