package delta

import "sync"

// LeafSet accumulates leaves across calls, keeping insertion order and
// dropping a node already present.
type LeafSet struct {
	mu    sync.Mutex
	seen  map[*Delta]struct{}
	order []*Delta
}

func NewLeafSet() *LeafSet {
	return &LeafSet{seen: make(map[*Delta]struct{})}
}

// AddTree adds every leaf of d and returns how many were new.
func (s *LeafSet) AddTree(d *Delta) int {
	added := 0
	for _, l := range Leaves(d) {
		if s.Add(l) {
			added++
		}
	}
	return added
}

// Add inserts a single leaf.
func (s *LeafSet) Add(d *Delta) bool {
	if !d.IsLeaf() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = make(map[*Delta]struct{})
	}
	if _, ok := s.seen[d]; ok {
		return false
	}
	s.seen[d] = struct{}{}
	s.order = append(s.order, d)
	return true
}

func (s *LeafSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Slice returns the leaves in insertion order.
func (s *LeafSet) Slice() []*Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Delta(nil), s.order...)
}
