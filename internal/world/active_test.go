package world

import (
	"reflect"
	"testing"

	"github.com/skyrun/engine/internal/pool"
)

func handles(s *ActiveSet) []pool.Handle {
	var out []pool.Handle
	s.Each(func(h pool.Handle) { out = append(out, h) })
	return out
}

func TestActiveSetRetirePreservesOrder(t *testing.T) {
	s := NewActiveSet(4)
	for h := pool.Handle(1); h <= 6; h++ {
		s.Add(h)
	}

	var visited []pool.Handle
	removed := s.Retire(func(h pool.Handle) bool {
		visited = append(visited, h)
		return h == 1 || h == 2 || h == 4
	})

	if removed != 3 {
		t.Errorf("removed %d, want 3", removed)
	}
	if want := []pool.Handle{1, 2, 3, 4, 5, 6}; !reflect.DeepEqual(visited, want) {
		t.Errorf("visit order = %v, want oldest first %v", visited, want)
	}
	if want := []pool.Handle{3, 5, 6}; !reflect.DeepEqual(handles(s), want) {
		t.Errorf("remaining = %v, want %v", handles(s), want)
	}
	if s.Len() != 3 || s.At(0) != 3 {
		t.Errorf("unexpected Len/At: %d %v", s.Len(), s.At(0))
	}
}

func TestActiveSetRetireNone(t *testing.T) {
	s := NewActiveSet(0)
	if n := s.Retire(func(pool.Handle) bool { return true }); n != 0 {
		t.Errorf("empty set retired %d", n)
	}
	s.Add(7)
	if n := s.Retire(func(pool.Handle) bool { return false }); n != 0 || s.Len() != 1 {
		t.Errorf("nothing should be retired, got %d len %d", n, s.Len())
	}
}

func TestChainStateAdvance(t *testing.T) {
	c := ChainState{RightX: 5}
	if right := c.Advance(7, 2, 1.5); right != 8 {
		t.Errorf("RightX = %v, want 8", right)
	}
	if c.Y != 1.5 || c.Placed != 1 {
		t.Errorf("unexpected chain state %+v", c)
	}
}

func TestReference(t *testing.T) {
	var r Reference
	if r.Sampled() {
		t.Error("fresh reference should not be sampled")
	}
	r.Set(3.5)
	if !r.Sampled() || r.X() != 3.5 {
		t.Errorf("unexpected reference %v %v", r.Sampled(), r.X())
	}
}
