package reference

import (
	"fmt"
	"os"

	sentencepiece "github.com/eliben/go-sentencepiece"

	"github.com/finchlabs/go-bpe-trainer/internal/errors"
)

// SentencePieceTokenizer counts tokens with a SentencePiece .model file,
// for comparing against Llama/Mistral-style vocabularies.
type SentencePieceTokenizer struct {
	processor *sentencepiece.Processor
	modelPath string
}

// NewSentencePieceTokenizer creates a tokenizer from a .model vocab file.
func NewSentencePieceTokenizer(modelPath string) (*SentencePieceTokenizer, error) {
	if modelPath == "" {
		return nil, errors.Validation("a SentencePiece .model path is required")
	}

	if _, err := os.Stat(modelPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("vocab file").WithField("path", modelPath)
		}
		return nil, errors.IO("accessing vocab file", err).WithField("path", modelPath)
	}

	processor, err := sentencepiece.NewProcessorFromPath(modelPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading SentencePiece model").WithField("path", modelPath)
	}

	return &SentencePieceTokenizer{
		processor: processor,
		modelPath: modelPath,
	}, nil
}

// CountTokens returns the token count using the SentencePiece model.
func (t *SentencePieceTokenizer) CountTokens(text string) (int, error) {
	return len(t.processor.Encode(text)), nil
}

// Name returns the machine-readable tokenizer identifier.
func (t *SentencePieceTokenizer) Name() string {
	return "sentencepiece"
}

// DisplayName returns the human-readable tokenizer name.
func (t *SentencePieceTokenizer) DisplayName() string {
	return fmt.Sprintf("SentencePiece (%s)", t.modelPath)
}

// IsExact returns true because SentencePiece provides exact token counts.
func (t *SentencePieceTokenizer) IsExact() bool {
	return true
}
