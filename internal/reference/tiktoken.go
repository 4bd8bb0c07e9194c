package reference

import (
	"fmt"
	"strings"

	pkoukkTiktoken "github.com/pkoukk/tiktoken-go"
	embeddedTiktoken "github.com/tiktoken-go/tokenizer"

	"github.com/finchlabs/go-bpe-trainer/internal/errors"
)

// TiktokenTokenizer counts tokens with pkoukk/tiktoken-go. Encoding data is
// fetched on first use, so construction can fail without network access.
type TiktokenTokenizer struct {
	encodingName string
	encoding     *pkoukkTiktoken.Tiktoken
}

// NewTiktokenTokenizer creates a tokenizer for a tiktoken encoding name
// (cl100k_base, o200k_base, ...).
func NewTiktokenTokenizer(encodingName string) (*TiktokenTokenizer, error) {
	encoding, err := pkoukkTiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, errors.Wrap(err, "getting tiktoken encoding").WithField("encoding", encodingName)
	}
	return &TiktokenTokenizer{
		encodingName: encodingName,
		encoding:     encoding,
	}, nil
}

// CountTokens counts tokens using tiktoken.
func (t *TiktokenTokenizer) CountTokens(text string) (int, error) {
	return len(t.encoding.Encode(text, nil, nil)), nil
}

// Name returns the machine-readable tokenizer identifier.
func (t *TiktokenTokenizer) Name() string {
	return fmt.Sprintf("tiktoken_%s", t.encodingName)
}

// DisplayName returns the human-readable tokenizer name.
func (t *TiktokenTokenizer) DisplayName() string {
	return t.encodingName
}

// IsExact returns true for tiktoken tokenizers.
func (t *TiktokenTokenizer) IsExact() bool {
	return true
}

// EmbeddedTokenizer counts tokens with tiktoken-go/tokenizer, which ships
// its vocabularies in the binary and works offline.
type EmbeddedTokenizer struct {
	encodingName string
	codec        embeddedTiktoken.Codec
}

// NewEmbeddedTokenizer creates an embedded-vocabulary tokenizer for a
// tiktoken encoding name.
func NewEmbeddedTokenizer(encodingName string) (*EmbeddedTokenizer, error) {
	var enc embeddedTiktoken.Encoding
	switch strings.ToLower(encodingName) {
	case "cl100k_base":
		enc = embeddedTiktoken.Cl100kBase
	case "o200k_base":
		enc = embeddedTiktoken.O200kBase
	default:
		return nil, errors.Validation("unsupported embedded encoding").WithField("encoding", encodingName)
	}

	codec, err := embeddedTiktoken.Get(enc)
	if err != nil {
		return nil, errors.Wrap(err, "getting embedded encoding").WithField("encoding", encodingName)
	}
	return &EmbeddedTokenizer{encodingName: encodingName, codec: codec}, nil
}

// CountTokens counts tokens using the embedded vocabulary.
func (t *EmbeddedTokenizer) CountTokens(text string) (int, error) {
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("embedded encode: %w", err)
	}
	return len(ids), nil
}

// Name returns the machine-readable tokenizer identifier.
func (t *EmbeddedTokenizer) Name() string {
	return fmt.Sprintf("embedded_%s", t.encodingName)
}

// DisplayName returns the human-readable tokenizer name.
func (t *EmbeddedTokenizer) DisplayName() string {
	return fmt.Sprintf("%s (embedded)", t.encodingName)
}

// IsExact returns true for embedded tiktoken tokenizers.
func (t *EmbeddedTokenizer) IsExact() bool {
	return true
}
