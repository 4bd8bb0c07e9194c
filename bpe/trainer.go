package bpe

import (
	"fmt"
	"sort"
)

// pair is an ordered candidate for merging: two adjacent symbol IDs.
type pair [2]int

// occurrence locates the first symbol of a pair occurrence: which sequence,
// and which stable position inside it.
type occurrence struct {
	seq int
	pos int
}

// pairStats is one priority-map entry: every place a pair currently occurs.
// The heap priority is the occurrence count; the lookup key is the pair.
// Entries inside the map always have at least one occurrence.
type pairStats struct {
	pair      pair
	positions map[occurrence]struct{}
}

// trainer runs the merge loop over the corpus. It owns the linked sequences
// and the pair statistics; the decode table is shared with the caller and
// grown in place as merges are produced.
type trainer struct {
	sequences    []*LinkedSequence
	stats        *MaxPriorityMap[*pairStats, pair]
	decode       map[int]string
	nextToken    int
	targetMerges int
}

func newTrainer(symbols [][]int, targetMerges, nextToken int, decode map[int]string) *trainer {
	sequences := make([]*LinkedSequence, len(symbols))
	for i, seq := range symbols {
		sequences[i] = NewLinkedSequence(seq)
	}
	return &trainer{
		sequences:    sequences,
		decode:       decode,
		nextToken:    nextToken,
		targetMerges: targetMerges,
	}
}

// train performs up to targetMerges merges, most frequent pair first, and
// returns the merge rules in the order performed. Running out of pairs ends
// training early; it is not an error.
func (t *trainer) train() ([]Merge, error) {
	t.seedStats()
	merges := make([]Merge, 0, t.targetMerges)
	for range t.targetMerges {
		if t.stats.Len() == 0 {
			break
		}
		entry, err := t.stats.PopMax()
		if err != nil {
			return nil, err
		}
		target := t.nextToken
		if err := t.applyMerge(entry, target); err != nil {
			return nil, err
		}
		t.decode[target] = t.decode[entry.pair[0]] + t.decode[entry.pair[1]]
		merges = append(merges, Merge{First: entry.pair[0], Second: entry.pair[1], Result: target})
		t.nextToken++
	}
	return merges, nil
}

// seedStats scans every sequence once and records each adjacent pair with
// the position of its first symbol.
func (t *trainer) seedStats() {
	t.stats = NewMaxPriorityMap(
		func(s *pairStats) int { return len(s.positions) },
		func(s *pairStats) pair { return s.pair },
	)
	byPair := make(map[pair]*pairStats)
	for k, seq := range t.sequences {
		values := seq.Values()
		for i := 0; i+1 < len(values); i++ {
			p := pair{values[i], values[i+1]}
			entry, ok := byPair[p]
			if !ok {
				entry = &pairStats{pair: p, positions: make(map[occurrence]struct{})}
				byPair[p] = entry
			}
			entry.positions[occurrence{seq: k, pos: i}] = struct{}{}
		}
	}
	for _, entry := range byPair {
		// Keys are distinct by construction, so Push cannot fail.
		_ = t.stats.Push(entry)
	}
}

// applyMerge rewrites every occurrence of entry.pair to target. It iterates
// a snapshot of the occurrence set, left to right within each sequence:
// merging one occurrence can invalidate an overlapping one (… a b a b … or a
// self-pair run), so each snapshot element is re-checked against the live
// set before it is acted on. Neighbor bookkeeping runs before ReplacePair,
// on indices captured before mutation.
func (t *trainer) applyMerge(entry *pairStats, target int) error {
	snapshot := make([]occurrence, 0, len(entry.positions))
	for occ := range entry.positions {
		snapshot = append(snapshot, occ)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].seq != snapshot[j].seq {
			return snapshot[i].seq < snapshot[j].seq
		}
		return snapshot[i].pos < snapshot[j].pos
	})
	for _, occ := range snapshot {
		if _, ok := entry.positions[occ]; !ok {
			continue
		}
		if err := t.updateLeft(occ, entry, target); err != nil {
			return err
		}
		if err := t.updateRight(occ, entry, target); err != nil {
			return err
		}
		if err := t.sequences[occ.seq].ReplacePair(occ.pos, target); err != nil {
			return err
		}
		delete(entry.positions, occ)
	}
	return nil
}

// updateLeft moves the occurrence of the left-neighbor pair (x, a) at the
// neighbor's position over to (x, target).
func (t *trainer) updateLeft(occ occurrence, entry *pairStats, target int) error {
	seq := t.sequences[occ.seq]
	left, err := seq.Prev(occ.pos)
	if err != nil {
		return err
	}
	if left == NoPosition {
		return nil
	}
	x, err := seq.Get(left)
	if err != nil {
		return err
	}
	at := occurrence{seq: occ.seq, pos: left}
	if err := t.removePosition(entry, pair{x, entry.pair[0]}, at); err != nil {
		return err
	}
	return t.addPosition(pair{x, target}, at)
}

// updateRight moves the occurrence of the right-neighbor pair (b, y) — which
// starts at the collapsing partner slot — over to (target, y), which starts
// at the merge position itself.
func (t *trainer) updateRight(occ occurrence, entry *pairStats, target int) error {
	seq := t.sequences[occ.seq]
	partner, err := seq.Next(occ.pos)
	if err != nil {
		return err
	}
	right, err := seq.SecondNext(occ.pos)
	if err != nil {
		return err
	}
	if right == NoPosition {
		return nil
	}
	y, err := seq.Get(right)
	if err != nil {
		return err
	}
	lost := occurrence{seq: occ.seq, pos: partner}
	if err := t.removePosition(entry, pair{entry.pair[1], y}, lost); err != nil {
		return err
	}
	return t.addPosition(pair{target, y}, occurrence{seq: occ.seq, pos: occ.pos})
}

// removePosition drops one occurrence of q. The entry being merged is not in
// the priority map while its merge runs, so when q is that entry's own pair
// the live set is edited directly; otherwise the owning entry is pulled out
// of the map and reinserted unless it became empty.
func (t *trainer) removePosition(entry *pairStats, q pair, occ occurrence) error {
	if q == entry.pair {
		delete(entry.positions, occ)
		return nil
	}
	stat, err := t.stats.DeleteByKey(q)
	if err != nil {
		return fmt.Errorf("pair %v lost untracked occurrence: %w", q, err)
	}
	delete(stat.positions, occ)
	if len(stat.positions) == 0 {
		return nil
	}
	return t.stats.Push(stat)
}

// addPosition records one new occurrence of q. Priorities derive from the
// occurrence count, so the entry is removed and reinserted rather than
// mutated in place.
func (t *trainer) addPosition(q pair, occ occurrence) error {
	var stat *pairStats
	if t.stats.Contains(q) {
		var err error
		stat, err = t.stats.DeleteByKey(q)
		if err != nil {
			return err
		}
	} else {
		stat = &pairStats{pair: q, positions: make(map[occurrence]struct{})}
	}
	stat.positions[occ] = struct{}{}
	return t.stats.Push(stat)
}
