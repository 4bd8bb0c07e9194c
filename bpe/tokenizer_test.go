package bpe

import (
	"errors"
	"testing"
)

// assertRoundTrip trains nothing; it encodes and decodes each input and
// expects the original text back.
func assertRoundTrip(t *testing.T, tok *Tokenizer, inputs []string) {
	t.Helper()
	encoded, err := tok.Encode(inputs)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded := tok.Decode(encoded)
	for i, want := range inputs {
		if decoded[i] != want {
			t.Errorf("round trip of %q = %q", want, decoded[i])
		}
	}
}

// assertDistinctDecodeValues checks that no two symbols decode to the same
// string.
func assertDistinctDecodeValues(t *testing.T, tok *Tokenizer) {
	t.Helper()
	seen := make(map[string]int)
	for id, s := range tok.DecodeTable() {
		if prev, ok := seen[s]; ok {
			t.Errorf("symbols %d and %d both decode to %q", prev, id, s)
		}
		seen[s] = id
	}
}

func TestTrainSingleInput(t *testing.T) {
	tok := New(8)
	merges, err := tok.Train([]string{"aaabdaaabac"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	// Alphabet a, b, d, c plus unknown is 5 symbols; vocab 8 leaves 3 merges.
	if tok.AlphabetSize() != 5 {
		t.Errorf("AlphabetSize() = %d, want 5", tok.AlphabetSize())
	}
	if len(merges) != 3 {
		t.Errorf("got %d merges, want 3", len(merges))
	}
	if tok.VocabSize() != 8 {
		t.Errorf("VocabSize() = %d, want 8", tok.VocabSize())
	}

	assertDistinctDecodeValues(t, tok)
	assertRoundTrip(t, tok, []string{"aaabdaaabac"})
}

func TestTrainMultipleInputs(t *testing.T) {
	corpus := []string{"aaabdaaabac", "abdbdbdaaabb", "ccbdaaadabb", "bbdbdbaacd"}
	tok := New(10)
	if _, err := tok.Train(corpus); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	assertDistinctDecodeValues(t, tok)
	assertRoundTrip(t, tok, corpus)
}

func TestEncodeUnknownCharacters(t *testing.T) {
	tok := New(8)
	if _, err := tok.Train([]string{"aaabdaaabac"}); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	encoded, err := tok.Encode([]string{"aaaex"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded := tok.Decode(encoded)
	if decoded[0] != "aaa□□" {
		t.Errorf("decode(encode(aaaex)) = %q, want aaa□□", decoded[0])
	}
}

func TestTargetVocabSmallerThanAlphabet(t *testing.T) {
	tok := New(3)
	merges, err := tok.Train([]string{"aaabdaaabac"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if len(merges) != 0 {
		t.Errorf("got %d merges, want 0", len(merges))
	}

	// Encoding reduces to the alphabet map with unknown substitution.
	encoded, err := tok.Encode([]string{"abz"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(encoded[0]) != 3 {
		t.Fatalf("encoded = %v, want 3 single-character tokens", encoded[0])
	}
	if decoded := tok.Decode(encoded); decoded[0] != "ab□" {
		t.Errorf("decoded = %q, want ab□", decoded[0])
	}
}

func TestTrainEmptyAndTrivialCorpora(t *testing.T) {
	tests := []struct {
		name     string
		corpus   []string
		alphabet int
	}{
		{"empty corpus", []string{}, 1},
		{"single characters", []string{"a", "b", "c"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(10)
			merges, err := tok.Train(tt.corpus)
			if err != nil {
				t.Fatalf("Train failed: %v", err)
			}
			if len(merges) != 0 {
				t.Errorf("got %d merges, want 0", len(merges))
			}
			if tok.AlphabetSize() != tt.alphabet {
				t.Errorf("AlphabetSize() = %d, want %d", tok.AlphabetSize(), tt.alphabet)
			}
			assertRoundTrip(t, tok, tt.corpus)
		})
	}
}

func TestTrainSelfPairs(t *testing.T) {
	tok := New(6)
	merges, err := tok.Train([]string{"aaaaaa"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if len(merges) == 0 {
		t.Fatal("expected at least one merge")
	}
	assertDistinctDecodeValues(t, tok)
	assertRoundTrip(t, tok, []string{"aaaaaa", "aaa", "a", "aaaaaaaaaa"})
}

func TestMergeTargetsAreSequential(t *testing.T) {
	tok := New(12)
	merges, err := tok.Train([]string{"abdbdbdaaabb", "ccbdaaadabb"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	next := tok.AlphabetSize()
	for i, m := range merges {
		if m.Result != next+i {
			t.Errorf("merge %d result = %d, want %d", i, m.Result, next+i)
		}
	}
}

func TestMergedSymbolsDecodeToParentConcatenation(t *testing.T) {
	tok := New(12)
	merges, err := tok.Train([]string{"aaabdaaabac", "abdbdbdaaabb"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	table := tok.DecodeTable()
	for _, m := range merges {
		if got, want := table[m.Result], table[m.First]+table[m.Second]; got != want {
			t.Errorf("symbol %d decodes to %q, want %q", m.Result, got, want)
		}
	}
}

func TestEncodeBeforeTrain(t *testing.T) {
	tok := New(8)
	if _, err := tok.Encode([]string{"abc"}); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Encode before Train error = %v, want ErrNotTrained", err)
	}
}

func TestEncodePrefersLongestMatch(t *testing.T) {
	// Train a corpus where "aaaa" and "aa" both become symbols; encoding
	// "aaaaaa" must take the longest prefix first.
	tok := New(4)
	if _, err := tok.Train([]string{"aaaaaa"}); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	encoded, err := tok.Encode([]string{"aaaaaa"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// Vocabulary is a, □, aa, aaaa: six a's encode as aaaa + aa.
	if len(encoded[0]) != 2 {
		t.Errorf("encoded = %v, want [aaaa aa] as 2 tokens", encoded[0])
	}
	assertRoundTrip(t, tok, []string{"aaaaaa"})
}

func TestDecodeUnknownID(t *testing.T) {
	tok := New(8)
	if _, err := tok.Train([]string{"ab"}); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	decoded := tok.Decode([][]int{{0, 999}})
	if decoded[0] != "a□" {
		t.Errorf("Decode with out-of-table ID = %q, want a□", decoded[0])
	}
}

func TestVocabulary(t *testing.T) {
	tok := New(4)
	if _, err := tok.Train([]string{"aaaaaa"}); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	got := tok.Vocabulary()
	want := []string{"a", "□", "aa", "aaaa"}
	if len(got) != len(want) {
		t.Fatalf("Vocabulary() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Vocabulary() = %v, want %v", got, want)
		}
	}
}

func TestUnicodeCorpus(t *testing.T) {
	corpus := []string{"héllo wörld", "höllo wérld", "日本語のテキスト"}
	tok := New(24)
	if _, err := tok.Train(corpus); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	assertDistinctDecodeValues(t, tok)
	assertRoundTrip(t, tok, corpus)

	// Out-of-alphabet multibyte characters become single placeholders.
	encoded, err := tok.Encode([]string{"héllo ✓"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if decoded := tok.Decode(encoded); decoded[0] != "héllo □" {
		t.Errorf("decoded = %q, want héllo □", decoded[0])
	}
}

func TestRetrainResetsState(t *testing.T) {
	tok := New(8)
	if _, err := tok.Train([]string{"aaabdaaabac"}); err != nil {
		t.Fatalf("first Train failed: %v", err)
	}
	firstVocab := tok.VocabSize()

	if _, err := tok.Train([]string{"xyxyxy"}); err != nil {
		t.Fatalf("second Train failed: %v", err)
	}
	if tok.VocabSize() > firstVocab+3 {
		t.Errorf("VocabSize() = %d after retrain, old state leaked", tok.VocabSize())
	}
	assertRoundTrip(t, tok, []string{"xyxyxy"})

	// Symbols from the first corpus are gone.
	encoded, err := tok.Encode([]string{"b"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if decoded := tok.Decode(encoded); decoded[0] != "□" {
		t.Errorf("stale alphabet survived retraining: %q", decoded[0])
	}
}
