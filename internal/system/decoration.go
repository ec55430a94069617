package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/skyrun/engine/internal/config"
	"github.com/skyrun/engine/internal/core/event"
	coresys "github.com/skyrun/engine/internal/core/system"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/world"
	"go.uber.org/zap"
)

// DecorationParams is the resolved tuning of the decoration generator.
type DecorationParams struct {
	Chance          float64
	MinYOffset      float64
	MaxYOffset      float64
	MinZOffset      float64
	MaxZOffset      float64
	DespawnDistance float64
	RelativeDepth   bool // offset z from the platform instead of from 0
}

func DecorationParamsFromConfig(cfg *config.Config) DecorationParams {
	dc := cfg.Decoration
	return DecorationParams{
		Chance:          dc.Chance,
		MinYOffset:      dc.MinYOffset,
		MaxYOffset:      dc.MaxYOffset,
		MinZOffset:      dc.MinZOffset,
		MaxZOffset:      dc.MaxZOffset,
		DespawnDistance: dc.DespawnDistance,
		RelativeDepth:   dc.DepthMode == config.DepthRelative,
	}
}

// DecorationSystem reacts to platform placements by sometimes putting a
// decoration above the new platform, and retires decorations that fall
// behind the reference point. Phase 1 (Decorate).
type DecorationSystem struct {
	pool   *pool.Pool
	ref    *world.Reference
	rng    Rand
	params DecorationParams
	log    *zap.Logger

	active  *world.ActiveSet
	sub     *event.Subscription[event.PlatformSpawned]
	enabled bool

	attempts uint64
	skipped  uint64
	lastSeq  uint64
	retired  uint64
}

func NewDecorationSystem(p *pool.Pool, ref *world.Reference, rng Rand, params DecorationParams, log *zap.Logger) *DecorationSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &DecorationSystem{
		pool:   p,
		ref:    ref,
		rng:    rng,
		params: params,
		log:    log,
		active: world.NewActiveSet(64),
	}
}

func (s *DecorationSystem) Phase() coresys.Phase { return coresys.PhaseDecorate }

// Start checks the variant list. With no variants the system disables itself
// and returns ErrNoVariants; placements are then ignored.
func (s *DecorationSystem) Start() error {
	if s.pool.Variants() == 0 {
		s.enabled = false
		s.log.Error("decoration generator disabled", zap.Error(ErrNoVariants))
		return ErrNoVariants
	}
	s.enabled = true
	return nil
}

// Attach subscribes to a placement feed, replacing any earlier subscription.
func (s *DecorationSystem) Attach(feed *event.Feed[event.PlatformSpawned]) {
	s.Detach()
	s.sub = feed.Subscribe(s.onPlatformSpawned)
}

// Detach drops the placement subscription. Call it before tearing the system
// down so the feed holds no handler into it.
func (s *DecorationSystem) Detach() {
	s.sub.Unsubscribe()
	s.sub = nil
}

func (s *DecorationSystem) onPlatformSpawned(ev event.PlatformSpawned) {
	if !s.enabled {
		return
	}
	s.attempts++
	if ev.Seq <= s.lastSeq {
		s.log.Warn("placement delivered out of order",
			zap.Uint64("seq", ev.Seq),
			zap.Uint64("last_seq", s.lastSeq))
	}
	s.lastSeq = ev.Seq

	if s.rng.Float64() > s.params.Chance {
		s.skipped++
		return
	}

	variant := s.rng.Intn(s.pool.Variants())
	h := s.pool.Acquire(variant)
	inst := s.pool.Get(h)

	yOff := uniform(s.rng, s.params.MinYOffset, s.params.MaxYOffset)
	z := uniform(s.rng, s.params.MinZOffset, s.params.MaxZOffset)
	if s.params.RelativeDepth {
		z += ev.Position.Z()
	}
	inst.Position = mgl64.Vec3{ev.Position.X(), ev.Position.Y() + yOff, z}
	s.active.Add(h)
}

func (s *DecorationSystem) Update(_ time.Duration) {
	if !s.enabled {
		return
	}
	limit := s.ref.X() - s.params.DespawnDistance
	s.retired += uint64(s.active.Retire(func(h pool.Handle) bool {
		inst := s.pool.Get(h)
		if inst == nil {
			return true
		}
		if inst.Position.X() >= limit {
			return false
		}
		s.pool.Release(h)
		return true
	}))
}

// Enabled reports whether the generator started successfully.
func (s *DecorationSystem) Enabled() bool { return s.enabled }

// Active returns the decorations currently in the world, oldest first.
func (s *DecorationSystem) Active() *world.ActiveSet { return s.active }

// Pool returns the decoration pool.
func (s *DecorationSystem) Pool() *pool.Pool { return s.pool }

// Attempts returns how many placements were handled, spawned or skipped.
func (s *DecorationSystem) Attempts() uint64 { return s.attempts }

// Skipped returns how many placements lost the chance roll.
func (s *DecorationSystem) Skipped() uint64 { return s.skipped }

// Retired returns how many decorations have been returned to the pool.
func (s *DecorationSystem) Retired() uint64 { return s.retired }
