package level

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/skyrun/engine/internal/config"
	coresys "github.com/skyrun/engine/internal/core/system"
	"github.com/skyrun/engine/internal/data"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/system"
	"github.com/skyrun/engine/internal/world"
	"go.uber.org/zap"
)

// Level wires the platform and decoration generators to their pools, the
// placement feed and the phase runner. An external driver calls Tick once per
// frame with the current reference position; the level holds no clock.
type Level struct {
	id          uuid.UUID
	ref         *world.Reference
	runner      *coresys.Runner
	platforms   *system.PlatformSystem
	decorations *system.DecorationSystem
	log         *zap.Logger
	seed        int64
}

type options struct {
	platformRand   system.Rand
	decorationRand system.Rand
	geometry       []pool.Geometry
	reportEvery    int
}

// Option customises New.
type Option func(*options)

// WithRand replaces the seeded random sources of both generators.
func WithRand(platforms, decorations system.Rand) Option {
	return func(o *options) {
		o.platformRand = platforms
		o.decorationRand = decorations
	}
}

// WithGeometry appends geometry sources consulted after the static bounds of
// the variant tables.
func WithGeometry(g ...pool.Geometry) Option {
	return func(o *options) { o.geometry = append(o.geometry, g...) }
}

// WithReportEvery registers a stats reporter that logs every n ticks.
func WithReportEvery(n int) Option {
	return func(o *options) { o.reportEvery = n }
}

// New builds a level from configuration and variant tables. The decoration
// generator is subscribed to placements before anything is placed.
func New(cfg *config.Config, platforms, decorations *data.VariantTable, log *zap.Logger, opts ...Option) *Level {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	seed := cfg.Loop.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if o.platformRand == nil {
		o.platformRand = rand.New(rand.NewSource(seed))
	}
	if o.decorationRand == nil {
		o.decorationRand = rand.New(rand.NewSource(seed + 1))
	}

	id := uuid.New()
	log = log.With(zap.String("run_id", id.String()))

	platformWidths := pool.NewWidthResolver(cfg.Platform.FallbackWidth, append([]pool.Geometry{platforms}, o.geometry...)...)
	decorationWidths := pool.NewWidthResolver(cfg.Platform.FallbackWidth, append([]pool.Geometry{decorations}, o.geometry...)...)

	platformPool := pool.New("platforms", platforms.All(), cfg.Platform.PoolPerVariant, platformWidths, log)
	decorationPool := pool.New("decorations", decorations.All(), cfg.Decoration.PoolPerVariant, decorationWidths, log)

	ref := &world.Reference{}
	l := &Level{
		id:   id,
		ref:  ref,
		log:  log,
		seed: seed,
		platforms: system.NewPlatformSystem(platformPool, ref, o.platformRand,
			system.PlatformParamsFromConfig(cfg), log.Named("platforms")),
		decorations: system.NewDecorationSystem(decorationPool, ref, o.decorationRand,
			system.DecorationParamsFromConfig(cfg), log.Named("decorations")),
		runner: coresys.NewRunner(),
	}
	l.decorations.Attach(l.platforms.Spawned())

	l.runner.Register(l.platforms)
	l.runner.Register(l.decorations)
	if o.reportEvery > 0 {
		l.runner.Register(system.NewReportSystem(ref, l.platforms, l.decorations, o.reportEvery, log))
	}
	return l
}

// Start primes both generators. A generator that fails to start disables
// only itself; the returned error lists every failure.
func (l *Level) Start() error {
	var errs []error
	if err := l.decorations.Start(); err != nil {
		errs = append(errs, fmt.Errorf("decorations: %w", err))
	}
	if err := l.platforms.Start(); err != nil {
		errs = append(errs, fmt.Errorf("platforms: %w", err))
	}
	l.log.Info("level started",
		zap.Int64("seed", l.seed),
		zap.Bool("platforms", l.platforms.Enabled()),
		zap.Bool("decorations", l.decorations.Enabled()))
	return errors.Join(errs...)
}

// Tick records the reference position and runs one generation tick.
func (l *Level) Tick(referenceX float64, dt time.Duration) {
	l.ref.Set(referenceX)
	l.runner.Tick(dt)
}

// Close detaches the decoration generator from the placement feed.
func (l *Level) Close() {
	l.decorations.Detach()
}

func (l *Level) ID() uuid.UUID                         { return l.id }
func (l *Level) Seed() int64                           { return l.seed }
func (l *Level) Ticks() uint64                         { return l.runner.Ticks() }
func (l *Level) Reference() *world.Reference           { return l.ref }
func (l *Level) Platforms() *system.PlatformSystem     { return l.platforms }
func (l *Level) Decorations() *system.DecorationSystem { return l.decorations }
