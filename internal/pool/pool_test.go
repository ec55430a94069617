package pool

import (
	"testing"

	"github.com/skyrun/engine/internal/data"
	"go.uber.org/zap"
)

func newTestPool(capacity int, variants ...data.Variant) *Pool {
	if len(variants) == 0 {
		variants = []data.Variant{{Name: "a", Width: 2}, {Name: "b", Width: 3}}
	}
	return New("test", variants, capacity, NewWidthResolver(FallbackWidth), zap.NewNop())
}

// checkConservation verifies that every instance of every variant is either
// active or free, never both, and totals equal capacity plus overflow.
func checkConservation(t *testing.T, p *Pool, capacity int) {
	t.Helper()
	for v := 0; v < p.Variants(); v++ {
		s := p.Stats(v)
		if s.Total != capacity+s.Overflow {
			t.Errorf("variant %d: total %d != capacity %d + overflow %d", v, s.Total, capacity, s.Overflow)
		}
		if s.Active+s.Free != s.Total {
			t.Errorf("variant %d: active %d + free %d != total %d", v, s.Active, s.Free, s.Total)
		}

		seen := make(map[uint32]bool)
		q := p.free[v]
		for _, idx := range q.items[q.head:] {
			if seen[idx] {
				t.Errorf("variant %d: slot %d appears twice in free-list", v, idx)
			}
			seen[idx] = true
			if p.slots[idx].Active {
				t.Errorf("variant %d: slot %d is free and active", v, idx)
			}
		}

		active := 0
		for i := range p.slots {
			if p.slots[i].Variant == v && p.slots[i].Active {
				active++
			}
		}
		if active != s.Active {
			t.Errorf("variant %d: %d active slots, stats say %d", v, active, s.Active)
		}
	}
}

func TestPoolPreallocates(t *testing.T) {
	p := newTestPool(6)
	for v := 0; v < 2; v++ {
		s := p.Stats(v)
		if s.Free != 6 || s.Active != 0 || s.Total != 6 || s.Overflow != 0 {
			t.Errorf("variant %d: unexpected stats %+v", v, s)
		}
	}
	for i := range p.slots {
		if p.slots[i].Active || p.slots[i].Position != ParkPosition {
			t.Errorf("slot %d should start parked and inactive", i)
		}
	}
}

func TestPoolOverflow(t *testing.T) {
	p := newTestPool(6)

	handles := make([]Handle, 0, 7)
	for i := 0; i < 7; i++ {
		h := p.Acquire(0)
		if p.Get(h) == nil {
			t.Fatalf("acquire %d returned an unusable handle", i)
		}
		handles = append(handles, h)
	}

	s := p.Stats(0)
	if s.Total != 7 || s.Overflow != 1 || s.Active != 7 || s.Free != 0 {
		t.Errorf("unexpected stats after overflow: %+v", s)
	}
	if p.Stats(1).Total != 6 {
		t.Errorf("other variant should be untouched")
	}
	checkConservation(t, p, 6)

	for _, h := range handles {
		if !p.Release(h) {
			t.Errorf("release of %v failed", h)
		}
	}
	if s := p.Stats(0); s.Free != 7 || s.Active != 0 {
		t.Errorf("all 7 should be free, got %+v", s)
	}
	checkConservation(t, p, 6)
}

func TestPoolFIFOReuse(t *testing.T) {
	p := newTestPool(0)

	a := p.Acquire(0)
	b := p.Acquire(0)
	p.Release(a)
	p.Release(b)

	// oldest released comes back first
	if got := p.Acquire(0); got.Index() != a.Index() {
		t.Errorf("expected slot %d first, got %d", a.Index(), got.Index())
	}
	if got := p.Acquire(0); got.Index() != b.Index() {
		t.Errorf("expected slot %d second, got %d", b.Index(), got.Index())
	}
	if p.Stats(0).Overflow != 2 {
		t.Errorf("reuse must not allocate, overflow = %d", p.Stats(0).Overflow)
	}
}

func TestPoolDoubleRelease(t *testing.T) {
	p := newTestPool(2)

	h := p.Acquire(1)
	if !p.Release(h) {
		t.Fatal("first release should succeed")
	}
	if p.Release(h) {
		t.Error("second release of the same handle should be a no-op")
	}
	if p.Get(h) != nil {
		t.Error("stale handle should not resolve")
	}

	// the slot was reused: the old handle still must not release the new activation
	again := p.Acquire(1)
	_ = p.Acquire(1)
	if p.Release(h) {
		t.Error("stale handle released a reused slot")
	}
	if p.Get(again) == nil {
		t.Error("fresh handle should still resolve")
	}
	if p.Release(Handle(0)) {
		t.Error("zero handle should never release")
	}
	if p.Release(newHandle(999, 1)) {
		t.Error("unknown slot should never release")
	}
	checkConservation(t, p, 2)
}

func TestPoolReleaseParks(t *testing.T) {
	p := newTestPool(1)
	h := p.Acquire(0)
	inst := p.Get(h)
	inst.Position[0] = 42

	p.Release(h)
	if p.slots[h.Index()].Position != ParkPosition {
		t.Errorf("released instance should be parked, at %v", p.slots[h.Index()].Position)
	}
	if p.slots[h.Index()].Active {
		t.Error("released instance should be inactive")
	}
}

func TestPoolAcquireOutOfRangePanics(t *testing.T) {
	for _, variant := range []int{-1, 2, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Acquire(%d) should panic", variant)
				}
			}()
			newTestPool(1).Acquire(variant)
		}()
	}
}

func TestPoolConservationRandomSequence(t *testing.T) {
	p := newTestPool(3)
	var live []Handle

	// deterministic interleaving of acquires and releases
	for step := 0; step < 200; step++ {
		switch {
		case step%3 == 2 && len(live) > 0:
			h := live[0]
			live = live[1:]
			if !p.Release(h) {
				t.Fatalf("step %d: release failed", step)
			}
		default:
			live = append(live, p.Acquire(step%2))
		}
		checkConservation(t, p, 3)
	}
}

func TestPoolResolvesWidthOnAcquire(t *testing.T) {
	variants := []data.Variant{{Name: "explicit", Width: 2.5}, {Name: "measured", Bounds: 4}, {Name: "unknown"}}
	table := data.NewVariantTable(variants)
	p := New("w", variants, 1, NewWidthResolver(FallbackWidth, table), zap.NewNop())

	want := []float64{2.5, 4, FallbackWidth}
	for v, w := range want {
		if got := p.Get(p.Acquire(v)).Width; got != w {
			t.Errorf("variant %d width = %v, want %v", v, got, w)
		}
	}
}
