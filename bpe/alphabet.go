package bpe

// UnknownPlaceholder is the character that the unknown symbol decodes to.
const UnknownPlaceholder = '□'

// alphabet assigns dense symbol IDs to the distinct characters of a training
// corpus, in order of first appearance, followed by one reserved unknown
// symbol. Merged symbols are allocated after it.
type alphabet struct {
	ids       map[rune]int
	unknownID int
}

// buildAlphabet scans the corpus and returns the alphabet together with the
// initial decode table (single characters plus the unknown placeholder).
func buildAlphabet(inputs []string) (*alphabet, map[int]string) {
	ids := make(map[rune]int)
	decode := make(map[int]string)
	for _, text := range inputs {
		for _, r := range text {
			if _, ok := ids[r]; ok {
				continue
			}
			id := len(ids)
			ids[r] = id
			decode[id] = string(r)
		}
	}
	unknownID := len(ids)
	decode[unknownID] = string(UnknownPlaceholder)
	return &alphabet{ids: ids, unknownID: unknownID}, decode
}

// size returns the number of symbol IDs the alphabet occupies, including
// the unknown symbol.
func (a *alphabet) size() int { return len(a.ids) + 1 }

// tokenID maps a character to its symbol ID, or to the unknown symbol for
// characters outside the training alphabet.
func (a *alphabet) tokenID(r rune) int {
	if id, ok := a.ids[r]; ok {
		return id
	}
	return a.unknownID
}

// toSymbols rewrites each input as a sequence of base symbol IDs.
func (a *alphabet) toSymbols(inputs []string) [][]int {
	out := make([][]int, len(inputs))
	for i, text := range inputs {
		seq := make([]int, 0, len(text))
		for _, r := range text {
			seq = append(seq, a.tokenID(r))
		}
		out[i] = seq
	}
	return out
}
