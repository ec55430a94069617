package pool

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/skyrun/engine/internal/data"
	"go.uber.org/zap"
)

// ParkPosition is where inactive instances wait, far outside any view.
var ParkPosition = mgl64.Vec3{9999, 9999, 9999}

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. The generation advances on every release, so a handle
// refers to exactly one activation of its slot.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

// Instance is a reusable object created from exactly one variant. It lives
// for the whole process; returning it to the pool is its logical destruction.
type Instance struct {
	Variant  int
	Position mgl64.Vec3
	Width    float64 // resolved at acquire time
	Active   bool

	generation uint32
}

// Stats is a per-variant snapshot of pool occupancy.
type Stats struct {
	Free     int // instances waiting in the free-list
	Active   int // instances handed out and not yet released
	Total    int // capacity + overflow
	Overflow int // instances allocated on demand past the capacity
}

// Pool recycles instances of a fixed set of variants. Each variant has its own
// FIFO free-list. The pool exclusively owns the active flag and free-list
// membership of every instance. Game-loop goroutine only.
type Pool struct {
	name     string
	variants []data.Variant
	widths   *WidthResolver
	log      *zap.Logger

	slots     []Instance // arena; Handle.Index() points here
	free      []queue    // per variant
	totals    []int
	overflows []int
}

// New pre-allocates capacity inactive instances per variant, parked off-screen.
func New(name string, variants []data.Variant, capacity int, widths *WidthResolver, log *zap.Logger) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		name:      name,
		variants:  append([]data.Variant(nil), variants...),
		widths:    widths,
		log:       log,
		slots:     make([]Instance, 0, capacity*len(variants)),
		free:      make([]queue, len(variants)),
		totals:    make([]int, len(variants)),
		overflows: make([]int, len(variants)),
	}
	for v := range p.variants {
		for i := 0; i < capacity; i++ {
			p.free[v].push(p.allocate(v))
		}
	}
	return p
}

func (p *Pool) allocate(variant int) uint32 {
	idx := uint32(len(p.slots))
	p.slots = append(p.slots, Instance{
		Variant:    variant,
		Position:   ParkPosition,
		generation: 1,
	})
	p.totals[variant]++
	return idx
}

// Acquire activates an instance of the given variant: the oldest free one if
// any, otherwise a freshly allocated one. It never fails for a valid variant.
// An out-of-range variant is a programming error and panics.
func (p *Pool) Acquire(variant int) Handle {
	if variant < 0 || variant >= len(p.variants) {
		panic(fmt.Sprintf("pool %s: variant index %d out of range [0,%d)", p.name, variant, len(p.variants)))
	}

	idx, ok := p.free[variant].pop()
	if !ok {
		idx = p.allocate(variant)
		p.overflows[variant]++
		p.log.Debug("pool overflow",
			zap.String("pool", p.name),
			zap.Int("variant", variant),
			zap.Int("total", p.totals[variant]))
	}

	inst := &p.slots[idx]
	inst.Active = true
	inst.Width = p.widths.Resolve(p.variants[variant])
	return newHandle(idx, inst.generation)
}

// Release deactivates the instance, parks it and enqueues it on its variant's
// free-list. Stale handles and already-released instances are ignored and
// report false, so an instance never appears twice in a free-list.
func (p *Pool) Release(h Handle) bool {
	inst := p.lookup(h)
	if inst == nil {
		return false
	}
	inst.Active = false
	inst.generation++
	inst.Position = ParkPosition
	p.free[inst.Variant].push(h.Index())
	return true
}

// Get returns the active instance behind h, or nil if h is stale. The pointer
// is valid until the next Acquire.
func (p *Pool) Get(h Handle) *Instance {
	return p.lookup(h)
}

func (p *Pool) lookup(h Handle) *Instance {
	idx := h.Index()
	if int(idx) >= len(p.slots) {
		return nil
	}
	inst := &p.slots[idx]
	if !inst.Active || inst.generation != h.Generation() {
		return nil
	}
	return inst
}

// Variant returns the template the pool was built with for id.
func (p *Pool) Variant(id int) data.Variant {
	return p.variants[id]
}

// Variants returns the number of variants the pool serves.
func (p *Pool) Variants() int { return len(p.variants) }

// Name returns the label used in logs.
func (p *Pool) Name() string { return p.name }

// Stats reports occupancy for one variant.
func (p *Pool) Stats(variant int) Stats {
	free := p.free[variant].len()
	return Stats{
		Free:     free,
		Active:   p.totals[variant] - free,
		Total:    p.totals[variant],
		Overflow: p.overflows[variant],
	}
}

// Len returns the number of instances ever allocated across all variants.
func (p *Pool) Len() int { return len(p.slots) }

// queue is a FIFO of slot indices backed by a slice.
type queue struct {
	items []uint32
	head  int
}

func (q *queue) push(v uint32) {
	q.items = append(q.items, v)
}

func (q *queue) pop() (uint32, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	v := q.items[q.head]
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 32 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

func (q *queue) len() int {
	return len(q.items) - q.head
}
