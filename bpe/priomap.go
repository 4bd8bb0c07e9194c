package bpe

import "fmt"

// MaxPriorityMap is a binary max-heap paired with a reverse index from map
// keys to heap slots, so items can be removed by key in O(log n). Heap order
// follows heapKey; identity follows mapKey. No two items may share a map key.
//
// Ordering among items with equal heap keys is unspecified.
type MaxPriorityMap[T any, K comparable] struct {
	heapKey func(T) int
	mapKey  func(T) K
	heap    []T
	index   map[K]int
}

// NewMaxPriorityMap creates an empty priority map with the given projections.
func NewMaxPriorityMap[T any, K comparable](heapKey func(T) int, mapKey func(T) K) *MaxPriorityMap[T, K] {
	return &MaxPriorityMap[T, K]{
		heapKey: heapKey,
		mapKey:  mapKey,
		index:   make(map[K]int),
	}
}

// Len returns the number of items. It panics if the heap and the reverse
// index disagree, which means a defect in this package.
func (m *MaxPriorityMap[T, K]) Len() int {
	if len(m.heap) != len(m.index) {
		panic(fmt.Sprintf("priority map: heap size %d != index size %d: %v",
			len(m.heap), len(m.index), ErrInvariant))
	}
	return len(m.heap)
}

// PeekMax returns the item with the maximum heap key without removing it.
func (m *MaxPriorityMap[T, K]) PeekMax() (T, error) {
	var zero T
	if len(m.heap) == 0 {
		return zero, ErrEmptyHeap
	}
	return m.heap[0], nil
}

// Push inserts an item. The item's map key must not already be present.
func (m *MaxPriorityMap[T, K]) Push(item T) error {
	k := m.mapKey(item)
	if _, ok := m.index[k]; ok {
		return fmt.Errorf("push %v: %w", k, ErrDuplicateKey)
	}
	m.heap = append(m.heap, item)
	m.index[k] = len(m.heap) - 1
	m.siftUp(len(m.heap) - 1)
	return nil
}

// PopMax removes and returns the item with the maximum heap key.
func (m *MaxPriorityMap[T, K]) PopMax() (T, error) {
	var zero T
	if len(m.heap) == 0 {
		return zero, ErrEmptyHeap
	}
	m.swap(0, len(m.heap)-1)
	item := m.dropLast()
	m.siftDown(0)
	return item, nil
}

// Contains reports whether an item with the given map key is present.
func (m *MaxPriorityMap[T, K]) Contains(k K) bool {
	_, ok := m.index[k]
	return ok
}

// DeleteByKey removes and returns the item with the given map key. The slot
// is refilled from the tail and sifted in both directions; the replacement
// may violate either the parent or the children ordering.
func (m *MaxPriorityMap[T, K]) DeleteByKey(k K) (T, error) {
	var zero T
	i, ok := m.index[k]
	if !ok {
		return zero, fmt.Errorf("delete %v: %w", k, ErrMissingKey)
	}
	m.swap(i, len(m.heap)-1)
	item := m.dropLast()
	if i < len(m.heap) {
		m.siftDown(i)
		m.siftUp(i)
	}
	return item, nil
}

// dropLast removes the tail item from both the heap and the index.
func (m *MaxPriorityMap[T, K]) dropLast() T {
	last := len(m.heap) - 1
	item := m.heap[last]
	var zero T
	m.heap[last] = zero
	m.heap = m.heap[:last]
	delete(m.index, m.mapKey(item))
	return item
}

func (m *MaxPriorityMap[T, K]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if m.heapKey(m.heap[i]) <= m.heapKey(m.heap[parent]) {
			return
		}
		m.swap(i, parent)
		i = parent
	}
}

func (m *MaxPriorityMap[T, K]) siftDown(i int) {
	for {
		largest := i
		if l := 2*i + 1; l < len(m.heap) && m.heapKey(m.heap[l]) > m.heapKey(m.heap[largest]) {
			largest = l
		}
		if r := 2*i + 2; r < len(m.heap) && m.heapKey(m.heap[r]) > m.heapKey(m.heap[largest]) {
			largest = r
		}
		if largest == i {
			return
		}
		m.swap(i, largest)
		i = largest
	}
}

// swap exchanges two heap slots and keeps the reverse index in step. Every
// sift step goes through here so the index invariant holds at all times.
func (m *MaxPriorityMap[T, K]) swap(i, j int) {
	m.index[m.mapKey(m.heap[i])] = j
	m.index[m.mapKey(m.heap[j])] = i
	m.heap[i], m.heap[j] = m.heap[j], m.heap[i]
}
