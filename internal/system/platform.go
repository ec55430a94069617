package system

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/skyrun/engine/internal/config"
	"github.com/skyrun/engine/internal/core/event"
	coresys "github.com/skyrun/engine/internal/core/system"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/world"
	"go.uber.org/zap"
)

// ErrNoVariants is reported by a generator started with an empty variant list.
var ErrNoVariants = errors.New("no variants configured")

// PlatformParams is the resolved tuning of the platform generator.
type PlatformParams struct {
	Gap             GapParams
	Height          HeightParams
	LeadDistance    float64
	DespawnDistance float64
	Prefill         int
	OriginX         float64 // left edge of the anchor platform
	OriginY         float64
}

// PlatformParamsFromConfig resolves generator tuning, including the
// jump-derived long-gap bound.
func PlatformParamsFromConfig(cfg *config.Config) PlatformParams {
	pc := cfg.Platform
	longMax := pc.GapMax * 1.5
	if pc.AutoCalcGapFromJump {
		longMax = cfg.Jump().MaxGap(pc.SafetyFactor)
	}
	return PlatformParams{
		Gap: GapParams{
			Min:      pc.GapMin,
			Max:      pc.GapMax,
			TightMax: pc.TightMax,
			LongMax:  longMax,
		},
		Height: HeightParams{
			MinY:    pc.MinY,
			MaxY:    pc.MaxY,
			MaxRise: pc.MaxRise,
			MaxDrop: pc.MaxDrop,
		},
		LeadDistance:    cfg.LeadDistance(),
		DespawnDistance: pc.DespawnDistance,
		Prefill:         pc.Prefill,
		OriginX:         pc.OriginX,
		OriginY:         pc.OriginY,
	}
}

// PlatformSystem builds the platform chain ahead of the reference point and
// returns platforms that fall behind it to their pool. Each tick it places at
// most one platform. Phase 0 (Generate).
type PlatformSystem struct {
	pool   *pool.Pool
	ref    *world.Reference
	rng    Rand
	params PlatformParams
	log    *zap.Logger

	chain   world.ChainState
	active  *world.ActiveSet
	spawned event.Feed[event.PlatformSpawned]
	enabled bool
	regimes [3]uint64
	retired uint64
}

func NewPlatformSystem(p *pool.Pool, ref *world.Reference, rng Rand, params PlatformParams, log *zap.Logger) *PlatformSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlatformSystem{
		pool:   p,
		ref:    ref,
		rng:    rng,
		params: params,
		log:    log,
		active: world.NewActiveSet(64),
	}
}

func (s *PlatformSystem) Phase() coresys.Phase { return coresys.PhaseGenerate }

// Spawned is the feed every placement is published on. Subscribers run
// synchronously inside the placing tick.
func (s *PlatformSystem) Spawned() *event.Feed[event.PlatformSpawned] { return &s.spawned }

// Start places the anchor platform with its left edge at the origin, then
// prefills the lead window. With no variants the system disables itself and
// returns ErrNoVariants.
func (s *PlatformSystem) Start() error {
	if s.pool.Variants() == 0 {
		s.enabled = false
		s.log.Error("platform generator disabled", zap.Error(ErrNoVariants))
		return ErrNoVariants
	}
	s.enabled = true

	h := s.pool.Acquire(0)
	inst := s.pool.Get(h)
	centerX := s.params.OriginX + inst.Width/2
	inst.Position = mgl64.Vec3{centerX, s.params.OriginY, 0}
	s.chain = world.ChainState{}
	s.active.Add(h)
	s.chain.Advance(centerX, inst.Width, s.params.OriginY)
	s.publish(h, inst)

	for i := 0; i < s.params.Prefill; i++ {
		s.place()
	}

	s.log.Info("platform chain primed",
		zap.Int("platforms", s.active.Len()),
		zap.Float64("right_x", s.chain.RightX),
		zap.Float64("long_gap_max", s.params.Gap.LongUpper()))
	return nil
}

func (s *PlatformSystem) Update(_ time.Duration) {
	if !s.enabled {
		return
	}
	x := s.ref.X()

	if x+s.params.LeadDistance > s.chain.RightX {
		s.place()
	}
	s.retire(x)
}

// place extends the chain by one platform.
func (s *PlatformSystem) place() {
	variant := s.rng.Intn(s.pool.Variants())
	h := s.pool.Acquire(variant)
	inst := s.pool.Get(h)

	gap, regime := RollGap(s.rng, s.params.Gap)
	centerX := NextCenter(s.chain.RightX, gap, inst.Width)
	y := RollHeight(s.rng, s.chain.Y, s.params.Height)

	inst.Position = mgl64.Vec3{centerX, y, 0}
	s.active.Add(h)
	s.chain.Advance(centerX, inst.Width, y)
	s.regimes[regime]++

	s.log.Debug("platform placed",
		zap.Int("variant", variant),
		zap.Stringer("gap_regime", regime),
		zap.Float64("gap", gap),
		zap.Float64("x", centerX),
		zap.Float64("y", y))

	s.publish(h, inst)
}

func (s *PlatformSystem) publish(h pool.Handle, inst *pool.Instance) {
	s.spawned.Send(event.PlatformSpawned{
		Seq:      s.chain.Placed,
		Platform: h,
		Variant:  inst.Variant,
		Position: inst.Position,
		Width:    inst.Width,
	})
}

// retire releases every platform whose right edge is behind
// x - DespawnDistance, oldest first.
func (s *PlatformSystem) retire(x float64) {
	limit := x - s.params.DespawnDistance
	s.retired += uint64(s.active.Retire(func(h pool.Handle) bool {
		inst := s.pool.Get(h)
		if inst == nil {
			return true
		}
		if inst.Position.X()+inst.Width/2 >= limit {
			return false
		}
		s.pool.Release(h)
		return true
	}))
}

// Enabled reports whether the generator started successfully.
func (s *PlatformSystem) Enabled() bool { return s.enabled }

// Chain returns the current chain cursor.
func (s *PlatformSystem) Chain() world.ChainState { return s.chain }

// Active returns the platforms currently in the world, oldest first.
func (s *PlatformSystem) Active() *world.ActiveSet { return s.active }

// Pool returns the platform pool.
func (s *PlatformSystem) Pool() *pool.Pool { return s.pool }

// Params returns the resolved tuning.
func (s *PlatformSystem) Params() PlatformParams { return s.params }

// RegimeCount returns how many placements used the given gap regime.
func (s *PlatformSystem) RegimeCount(r GapRegime) uint64 { return s.regimes[r] }

// Retired returns how many platforms have been returned to the pool.
func (s *PlatformSystem) Retired() uint64 { return s.retired }
