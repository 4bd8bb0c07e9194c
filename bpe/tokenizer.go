// Package bpe implements an incremental Byte-Pair Encoding trainer with
// encoding and decoding over the learned vocabulary.
//
// Training repeatedly replaces the most frequent adjacent symbol pair across
// the corpus with a new symbol. Two structures keep each merge proportional
// to the pair's occurrence count instead of the corpus size: a LinkedSequence
// per input (an arena-backed linked list whose position indices stay valid
// across merges) and a MaxPriorityMap of pair statistics (a max-heap with
// O(log n) removal by pair). Encoding of new text is longest-prefix-match
// over a trie built from the decode table; decoding concatenates decode-table
// entries.
//
// Tokenizers are not safe for concurrent use during Train; a trained
// tokenizer may be shared for Encode and Decode.
package bpe

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Merge is one learned rule: adjacent symbols First and Second collapse into
// Result. The ordered merge list together with the decode table is the
// trained model.
type Merge struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Result int `json:"result"`
}

// Tokenizer learns and applies a BPE vocabulary.
type Tokenizer struct {
	targetVocabSize int
	alphabet        *alphabet
	decode          map[int]string
	merges          []Merge
	trie            *tokenTrie
}

// New creates an untrained tokenizer. targetVocabSize bounds the final
// vocabulary: base characters, the unknown symbol, and merged symbols
// together. A target smaller than the alphabet yields zero merges.
func New(targetVocabSize int) *Tokenizer {
	return &Tokenizer{targetVocabSize: targetVocabSize}
}

// Train learns merge rules from the corpus and returns them in the order
// performed. Any previous training state is discarded.
func (t *Tokenizer) Train(inputs []string) ([]Merge, error) {
	t.alphabet, t.decode = buildAlphabet(inputs)
	t.merges = nil
	t.trie = nil

	targetMerges := t.targetVocabSize - t.alphabet.size()
	if targetMerges < 0 {
		targetMerges = 0
	}
	tr := newTrainer(t.alphabet.toSymbols(inputs), targetMerges, t.alphabet.size(), t.decode)
	merges, err := tr.train()
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	t.merges = merges

	trie, err := newTokenTrie(t.decode, t.alphabet.unknownID)
	if err != nil {
		return nil, fmt.Errorf("building encoder trie: %w", err)
	}
	t.trie = trie

	return t.Merges(), nil
}

// Encode tokenizes each input by longest prefix match against the learned
// vocabulary. A character outside the training alphabet becomes one unknown
// token. Requires a trained (or loaded) tokenizer.
func (t *Tokenizer) Encode(inputs []string) ([][]int, error) {
	if t.trie == nil {
		return nil, ErrNotTrained
	}
	out := make([][]int, len(inputs))
	for i, text := range inputs {
		out[i] = t.encodeOne(text)
	}
	return out, nil
}

func (t *Tokenizer) encodeOne(text string) []int {
	tokens := []int{}
	for cursor := 0; cursor < len(text); {
		token, size, ok := t.trie.longestMatch(text[cursor:])
		if !ok {
			// Not even a single-character match: out-of-alphabet input.
			_, runeSize := utf8.DecodeRuneInString(text[cursor:])
			tokens = append(tokens, t.alphabet.unknownID)
			cursor += runeSize
			continue
		}
		tokens = append(tokens, token)
		cursor += size
	}
	return tokens
}

// Decode maps each token list back to a string by concatenating decode-table
// entries. Token IDs outside the table decode to the unknown placeholder.
func (t *Tokenizer) Decode(tokenLists [][]int) []string {
	out := make([]string, len(tokenLists))
	for i, tokens := range tokenLists {
		var b []byte
		for _, id := range tokens {
			if s, ok := t.decode[id]; ok {
				b = append(b, s...)
			} else {
				b = utf8.AppendRune(b, UnknownPlaceholder)
			}
		}
		out[i] = string(b)
	}
	return out
}

// DecodeTable returns a copy of the symbol-to-string table.
func (t *Tokenizer) DecodeTable() map[int]string {
	table := make(map[int]string, len(t.decode))
	for id, s := range t.decode {
		table[id] = s
	}
	return table
}

// Merges returns a copy of the learned merge rules in training order.
func (t *Tokenizer) Merges() []Merge {
	out := make([]Merge, len(t.merges))
	copy(out, t.merges)
	return out
}

// AlphabetSize returns the number of base symbols including the unknown
// symbol, or zero before training.
func (t *Tokenizer) AlphabetSize() int {
	if t.alphabet == nil {
		return 0
	}
	return t.alphabet.size()
}

// VocabSize returns the current vocabulary size: alphabet plus merges.
func (t *Tokenizer) VocabSize() int { return len(t.decode) }

// Vocabulary returns the decoded form of every symbol in ID order. Useful
// for inspecting what the trainer learned.
func (t *Tokenizer) Vocabulary() []string {
	ids := make([]int, 0, len(t.decode))
	for id := range t.decode {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.decode[id]
	}
	return out
}
