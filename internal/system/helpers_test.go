package system

import (
	"math"
	"math/rand"

	"github.com/skyrun/engine/internal/data"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/world"
	"go.uber.org/zap"
)

// scriptedRand replays fixed values, then falls back to a seeded source.
type scriptedRand struct {
	floats   []float64
	ints     []int
	fallback *rand.Rand
}

func newScriptedRand(floats []float64, ints []int) *scriptedRand {
	return &scriptedRand{floats: floats, ints: ints, fallback: rand.New(rand.NewSource(1))}
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return r.fallback.Float64()
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	return r.fallback.Intn(n)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testParams() PlatformParams {
	return PlatformParams{
		Gap:             GapParams{Min: 0.6, Max: 2.2, TightMax: 0.5, LongMax: 3.6},
		Height:          HeightParams{MinY: -1, MaxY: 3, MaxRise: 2, MaxDrop: 3},
		LeadDistance:    12,
		DespawnDistance: 12,
		Prefill:         4,
	}
}

func newPlatformPool(capacity int, variants ...data.Variant) *pool.Pool {
	if variants == nil {
		variants = []data.Variant{{Name: "short", Width: 2}, {Name: "long", Width: 4}, {Name: "odd", Width: 1.3}}
	}
	return pool.New("platforms", variants, capacity, pool.NewWidthResolver(pool.FallbackWidth), zap.NewNop())
}

func newDecorationPool(capacity int, variants ...data.Variant) *pool.Pool {
	if variants == nil {
		variants = []data.Variant{{Name: "lamp"}, {Name: "bush"}}
	}
	return pool.New("decorations", variants, capacity, pool.NewWidthResolver(pool.FallbackWidth), zap.NewNop())
}

func newTestPlatforms(rng Rand, params PlatformParams) (*PlatformSystem, *world.Reference) {
	ref := &world.Reference{}
	return NewPlatformSystem(newPlatformPool(6), ref, rng, params, zap.NewNop()), ref
}
