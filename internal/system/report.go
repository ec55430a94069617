package system

import (
	"time"

	coresys "github.com/skyrun/engine/internal/core/system"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/world"
	"go.uber.org/zap"
)

// ReportSystem logs pool occupancy and generator counters every N ticks.
// Phase 2 (Report).
type ReportSystem struct {
	ref         *world.Reference
	platforms   *PlatformSystem
	decorations *DecorationSystem
	every       int
	ticks       int
	log         *zap.Logger
}

func NewReportSystem(ref *world.Reference, platforms *PlatformSystem, decorations *DecorationSystem, every int, log *zap.Logger) *ReportSystem {
	return &ReportSystem{ref: ref, platforms: platforms, decorations: decorations, every: every, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseReport }

func (s *ReportSystem) Update(_ time.Duration) {
	if s.every <= 0 {
		return
	}
	s.ticks++
	if s.ticks < s.every {
		return
	}
	s.ticks = 0

	s.log.Info("generation stats",
		zap.Float64("reference_x", s.ref.X()),
		zap.Float64("chain_right_x", s.platforms.Chain().RightX),
		zap.Uint64("placed", s.platforms.Chain().Placed),
		zap.Int("platforms_active", s.platforms.Active().Len()),
		zap.Int("platform_overflow", TotalOverflow(s.platforms.Pool())),
		zap.Uint64("tight", s.platforms.RegimeCount(GapTight)),
		zap.Uint64("normal", s.platforms.RegimeCount(GapNormal)),
		zap.Uint64("long", s.platforms.RegimeCount(GapLong)),
		zap.Int("decorations_active", s.decorations.Active().Len()),
		zap.Int("decoration_overflow", TotalOverflow(s.decorations.Pool())),
		zap.Uint64("decoration_skipped", s.decorations.Skipped()))
}

// TotalOverflow sums on-demand allocations across every variant of p.
func TotalOverflow(p *pool.Pool) int {
	n := 0
	for v := 0; v < p.Variants(); v++ {
		n += p.Stats(v).Overflow
	}
	return n
}
