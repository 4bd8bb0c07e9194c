package bpe

import (
	"errors"
	"testing"
)

func TestLinkedSequenceInitialLayout(t *testing.T) {
	s := NewLinkedSequence([]int{10, 20, 30})

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.LiveLen() != 3 {
		t.Errorf("LiveLen() = %d, want 3", s.LiveLen())
	}

	for i, want := range []int{10, 20, 30} {
		got, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", i, err)
		}
		if got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}

	if prev, _ := s.Prev(0); prev != NoPosition {
		t.Errorf("Prev(0) = %d, want NoPosition", prev)
	}
	if next, _ := s.Next(2); next != NoPosition {
		t.Errorf("Next(2) = %d, want NoPosition", next)
	}
	if second, _ := s.SecondNext(0); second != 2 {
		t.Errorf("SecondNext(0) = %d, want 2", second)
	}
	if second, _ := s.SecondNext(1); second != NoPosition {
		t.Errorf("SecondNext(1) = %d, want NoPosition", second)
	}
}

func TestLinkedSequenceReplacePair(t *testing.T) {
	s := NewLinkedSequence([]int{1, 2, 3, 4})

	if err := s.ReplacePair(1, 99); err != nil {
		t.Fatalf("ReplacePair failed: %v", err)
	}

	// Position 2 is dead; the chain is now 1, 99, 4 at positions 0, 1, 3.
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (original length)", s.Len())
	}
	if s.LiveLen() != 3 {
		t.Errorf("LiveLen() = %d, want 3", s.LiveLen())
	}
	if _, err := s.Get(2); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Get(2) error = %v, want ErrInvalidIndex", err)
	}
	if v, _ := s.Get(1); v != 99 {
		t.Errorf("Get(1) = %d, want 99", v)
	}
	if next, _ := s.Next(1); next != 3 {
		t.Errorf("Next(1) = %d, want 3", next)
	}
	if prev, _ := s.Prev(3); prev != 1 {
		t.Errorf("Prev(3) = %d, want 1", prev)
	}
	if prev, _ := s.Prev(1); prev != 0 {
		t.Errorf("Prev(1) = %d, want 0 (unchanged)", prev)
	}
}

func TestLinkedSequenceReplacePairErrors(t *testing.T) {
	s := NewLinkedSequence([]int{1, 2, 3})

	tests := []struct {
		name string
		call func() error
	}{
		{"tail has no successor", func() error { return s.ReplacePair(2, 9) }},
		{"out of range", func() error { return s.ReplacePair(5, 9) }},
		{"negative", func() error { return s.ReplacePair(-1, 9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("error = %v, want ErrInvalidIndex", err)
			}
		})
	}

	// Kill position 1, then every access to it fails.
	if err := s.ReplacePair(0, 9); err != nil {
		t.Fatalf("ReplacePair failed: %v", err)
	}
	if _, err := s.Get(1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Get on dead index error = %v, want ErrInvalidIndex", err)
	}
	if _, err := s.Prev(1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Prev on dead index error = %v, want ErrInvalidIndex", err)
	}
	if _, err := s.Next(1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Next on dead index error = %v, want ErrInvalidIndex", err)
	}
	if _, err := s.SecondNext(1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("SecondNext on dead index error = %v, want ErrInvalidIndex", err)
	}
}

// walkForward and walkBackward enumerate the live chain in both directions
// through the public API.
func walkForward(t *testing.T, s *LinkedSequence) []int {
	t.Helper()
	var out []int
	head := NoPosition
	for i := 0; i < s.Len(); i++ {
		if _, err := s.Get(i); err == nil {
			head = i
			break
		}
	}
	for i := head; i != NoPosition; {
		v, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) on live walk failed: %v", i, err)
		}
		out = append(out, v)
		i, err = s.Next(i)
		if err != nil {
			t.Fatalf("Next(%d) on live walk failed: %v", i, err)
		}
	}
	return out
}

func walkBackward(t *testing.T, s *LinkedSequence) []int {
	t.Helper()
	var out []int
	tail := NoPosition
	for i := s.Len() - 1; i >= 0; i-- {
		if _, err := s.Get(i); err == nil {
			tail = i
			break
		}
	}
	for i := tail; i != NoPosition; {
		v, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) on reverse walk failed: %v", i, err)
		}
		out = append(out, v)
		i, err = s.Prev(i)
		if err != nil {
			t.Fatalf("Prev(%d) on reverse walk failed: %v", i, err)
		}
	}
	return out
}

func TestLinkedSequenceChainIntegrity(t *testing.T) {
	s := NewLinkedSequence([]int{1, 2, 3, 4, 5, 6})

	// Collapse in scattered order, including a previously merged slot.
	for _, step := range []struct{ pos, value int }{
		{2, 100}, // 1 2 100 5 6
		{0, 101}, // 101 100 5 6
		{2, 102}, // 101 102 6
		{2, 103}, // 101 103
	} {
		if err := s.ReplacePair(step.pos, step.value); err != nil {
			t.Fatalf("ReplacePair(%d, %d) failed: %v", step.pos, step.value, err)
		}
	}

	want := []int{101, 103}
	forward := walkForward(t, s)
	if len(forward) != len(want) {
		t.Fatalf("forward walk = %v, want %v", forward, want)
	}
	for i := range want {
		if forward[i] != want[i] {
			t.Fatalf("forward walk = %v, want %v", forward, want)
		}
	}

	backward := walkBackward(t, s)
	for i := range want {
		if backward[len(backward)-1-i] != forward[i] {
			t.Fatalf("backward walk %v is not the reverse of forward walk %v", backward, forward)
		}
	}

	values := s.Values()
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", values, want)
		}
	}
}

func TestLinkedSequenceEmpty(t *testing.T) {
	s := NewLinkedSequence(nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.Values(); len(got) != 0 {
		t.Errorf("Values() = %v, want empty", got)
	}
	if _, err := s.Get(0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Get(0) error = %v, want ErrInvalidIndex", err)
	}
}
