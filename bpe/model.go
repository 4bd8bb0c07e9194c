package bpe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// modelVersion is bumped when the serialized layout changes.
const modelVersion = 1

// Model is the serializable form of a trained tokenizer: the alphabet, the
// decode table, and the ordered merge list.
type Model struct {
	Version         int            `json:"version"`
	TargetVocabSize int            `json:"target_vocab_size"`
	Alphabet        map[string]int `json:"alphabet"`
	UnknownID       int            `json:"unknown_id"`
	DecodeTable     map[int]string `json:"decode_table"`
	Merges          []Merge        `json:"merges"`
}

// Model snapshots the trained state. Returns nil for an untrained tokenizer.
func (t *Tokenizer) Model() *Model {
	if t.alphabet == nil {
		return nil
	}
	chars := make(map[string]int, len(t.alphabet.ids))
	for r, id := range t.alphabet.ids {
		chars[string(r)] = id
	}
	return &Model{
		Version:         modelVersion,
		TargetVocabSize: t.targetVocabSize,
		Alphabet:        chars,
		UnknownID:       t.alphabet.unknownID,
		DecodeTable:     t.DecodeTable(),
		Merges:          t.Merges(),
	}
}

// Save writes the trained model as JSON.
func (t *Tokenizer) Save(w io.Writer) error {
	m := t.Model()
	if m == nil {
		return ErrNotTrained
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// SaveFile writes the trained model to a file, creating or truncating it.
func (t *Tokenizer) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := t.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a JSON model and reconstructs a ready-to-encode tokenizer.
func Load(r io.Reader) (*Tokenizer, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	return FromModel(&m)
}

// LoadFile reads a model file written by SaveFile.
func LoadFile(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// FromModel validates a model snapshot and builds a tokenizer from it.
func FromModel(m *Model) (*Tokenizer, error) {
	if m.Version != modelVersion {
		return nil, fmt.Errorf("unsupported model version %d", m.Version)
	}
	if err := validateModel(m); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	ids := make(map[rune]int, len(m.Alphabet))
	for s, id := range m.Alphabet {
		r, _ := utf8.DecodeRuneInString(s)
		ids[r] = id
	}
	decode := make(map[int]string, len(m.DecodeTable))
	for id, s := range m.DecodeTable {
		decode[id] = s
	}
	merges := make([]Merge, len(m.Merges))
	copy(merges, m.Merges)

	t := &Tokenizer{
		targetVocabSize: m.TargetVocabSize,
		alphabet:        &alphabet{ids: ids, unknownID: m.UnknownID},
		decode:          decode,
		merges:          merges,
	}
	trie, err := newTokenTrie(t.decode, m.UnknownID)
	if err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	t.trie = trie
	return t, nil
}

// validateModel checks the structural invariants a trained tokenizer
// guarantees: single-rune alphabet keys with dense IDs, the unknown symbol
// directly after them, a decode table covering alphabet plus merges, and
// each merge decoding to the concatenation of its parents.
func validateModel(m *Model) error {
	seen := make(map[int]bool, len(m.Alphabet))
	for s, id := range m.Alphabet {
		if utf8.RuneCountInString(s) != 1 {
			return fmt.Errorf("alphabet key %q is not a single character", s)
		}
		if id < 0 || id >= len(m.Alphabet) {
			return fmt.Errorf("alphabet ID %d out of range", id)
		}
		if seen[id] {
			return fmt.Errorf("alphabet ID %d assigned twice", id)
		}
		seen[id] = true
	}
	if m.UnknownID != len(m.Alphabet) {
		return fmt.Errorf("unknown ID %d, want %d", m.UnknownID, len(m.Alphabet))
	}

	if want := len(m.Alphabet) + 1 + len(m.Merges); len(m.DecodeTable) != want {
		return fmt.Errorf("decode table has %d entries, want %d", len(m.DecodeTable), want)
	}
	for s, id := range m.Alphabet {
		if m.DecodeTable[id] != s {
			return fmt.Errorf("character %q decodes to %q", s, m.DecodeTable[id])
		}
	}

	next := m.UnknownID + 1
	for i, merge := range m.Merges {
		if merge.Result != next+i {
			return fmt.Errorf("merge %d targets ID %d, want %d", i, merge.Result, next+i)
		}
		first, ok := m.DecodeTable[merge.First]
		if !ok {
			return fmt.Errorf("merge %d references unknown symbol %d", i, merge.First)
		}
		second, ok := m.DecodeTable[merge.Second]
		if !ok {
			return fmt.Errorf("merge %d references unknown symbol %d", i, merge.Second)
		}
		if m.DecodeTable[merge.Result] != first+second {
			return fmt.Errorf("merge %d decodes to %q, want %q",
				i, m.DecodeTable[merge.Result], first+second)
		}
	}
	return nil
}
