package world

import "github.com/skyrun/engine/internal/pool"

// ActiveSet is the ordered list of instances a generator currently has in the
// world. Insertion order is spawn order, which for a left-to-right chain is
// also x order.
type ActiveSet struct {
	items []pool.Handle
}

func NewActiveSet(capacity int) *ActiveSet {
	return &ActiveSet{items: make([]pool.Handle, 0, capacity)}
}

// Add appends h as the newest member.
func (s *ActiveSet) Add(h pool.Handle) {
	s.items = append(s.items, h)
}

// Len returns the member count.
func (s *ActiveSet) Len() int { return len(s.items) }

// At returns the i-th oldest member.
func (s *ActiveSet) At(i int) pool.Handle { return s.items[i] }

// Each visits members oldest first.
func (s *ActiveSet) Each(fn func(pool.Handle)) {
	for _, h := range s.items {
		fn(h)
	}
}

// Retire visits members oldest first and removes every member for which fn
// returns true. Survivors keep their relative order. fn is expected to return
// the instance to its pool when it returns true.
func (s *ActiveSet) Retire(fn func(pool.Handle) bool) int {
	kept := s.items[:0]
	for _, h := range s.items {
		if !fn(h) {
			kept = append(kept, h)
		}
	}
	removed := len(s.items) - len(kept)
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = 0
	}
	s.items = kept
	return removed
}
