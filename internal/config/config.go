package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/skyrun/engine/internal/physics"
)

type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Loop       LoopConfig       `toml:"loop"`
	Data       DataConfig       `toml:"data"`
	Physics    PhysicsConfig    `toml:"physics"`
	Platform   PlatformConfig   `toml:"platform"`
	Decoration DecorationConfig `toml:"decoration"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoopConfig drives the headless runner; the engine itself has no clock.
type LoopConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	MaxTicks   int           `toml:"max_ticks"`   // 0 = run until signalled
	Seed       int64         `toml:"seed"`        // 0 = seed from the clock
	StatsEvery int           `toml:"stats_every"` // ticks between stat lines, 0 = never
}

type DataConfig struct {
	PlatformVariants   string `toml:"platform_variants"`
	DecorationVariants string `toml:"decoration_variants"`
	ScriptsDir         string `toml:"scripts_dir"` // optional lua geometry scripts
}

// PhysicsConfig carries the locomotion parameters the generator reads.
type PhysicsConfig struct {
	Gravity      float64 `toml:"gravity"`       // signed, e.g. -9.81
	JumpVelocity float64 `toml:"jump_velocity"` // used when > 0
	JumpHeight   float64 `toml:"jump_height"`   // converted to a velocity when jump_velocity is 0
	PlayerSpeedX float64 `toml:"player_speed_x"`
}

type PlatformConfig struct {
	PoolPerVariant      int     `toml:"pool_per_variant"`
	GapMin              float64 `toml:"gap_min"`
	GapMax              float64 `toml:"gap_max"`
	TightMax            float64 `toml:"tight_max"`
	MinY                float64 `toml:"min_y"`
	MaxY                float64 `toml:"max_y"`
	MaxRise             float64 `toml:"max_rise"`
	MaxDrop             float64 `toml:"max_drop"`
	LeadDistance        float64 `toml:"lead_distance"` // <= 0 derives player_speed_x * 3
	DespawnDistance     float64 `toml:"despawn_distance"`
	AutoCalcGapFromJump bool    `toml:"auto_calc_gap_from_jump"`
	SafetyFactor        float64 `toml:"safety_factor"`
	Prefill             int     `toml:"prefill"`  // placements right after the anchor
	OriginX             float64 `toml:"origin_x"` // left edge of the anchor platform
	OriginY             float64 `toml:"origin_y"`
	FallbackWidth       float64 `toml:"fallback_width"`
}

// Depth placement modes for decorations.
const (
	DepthAbsolute = "absolute" // z = U(min_z, max_z)
	DepthRelative = "relative" // z = platform z + U(min_z, max_z)
)

type DecorationConfig struct {
	PoolPerVariant  int     `toml:"pool_per_variant"`
	Chance          float64 `toml:"chance"`
	MinYOffset      float64 `toml:"min_y_offset"`
	MaxYOffset      float64 `toml:"max_y_offset"`
	MinZOffset      float64 `toml:"min_z_offset"`
	MaxZOffset      float64 `toml:"max_z_offset"`
	DespawnDistance float64 `toml:"despawn_distance"`
	DepthMode       string  `toml:"depth_mode"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in tuning.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Loop: LoopConfig{
			TickRate:   16 * time.Millisecond,
			MaxTicks:   0,
			StatsEvery: 120,
		},
		Data: DataConfig{
			PlatformVariants:   "data/yaml/platforms.yaml",
			DecorationVariants: "data/yaml/decorations.yaml",
		},
		Physics: PhysicsConfig{
			Gravity:      physics.DefaultGravity,
			JumpVelocity: 5,
			PlayerSpeedX: 4,
		},
		Platform: PlatformConfig{
			PoolPerVariant:      6,
			GapMin:              0.6,
			GapMax:              2.2,
			TightMax:            0.5,
			MinY:                -1,
			MaxY:                3,
			MaxRise:             2,
			MaxDrop:             3,
			DespawnDistance:     12,
			AutoCalcGapFromJump: true,
			SafetyFactor:        0.9,
			Prefill:             4,
			FallbackWidth:       1,
		},
		Decoration: DecorationConfig{
			PoolPerVariant:  6,
			Chance:          0.7,
			MinYOffset:      0.5,
			MaxYOffset:      2,
			MinZOffset:      -2,
			MaxZOffset:      2,
			DespawnDistance: 20,
			DepthMode:       DepthAbsolute,
		},
	}
}

// Jump resolves the locomotion parameters consumed by the generator.
func (c *Config) Jump() physics.Jump {
	v := c.Physics.JumpVelocity
	if v <= 0 {
		v = physics.JumpVelocityForHeight(c.Physics.JumpHeight, c.Physics.Gravity)
	}
	return physics.Jump{
		Speed:    c.Physics.PlayerSpeedX,
		Velocity: v,
		Gravity:  c.Physics.Gravity,
	}
}

// LeadDistance returns how far ahead of the reference the chain is kept.
func (c *Config) LeadDistance() float64 {
	if c.Platform.LeadDistance > 0 {
		return c.Platform.LeadDistance
	}
	return c.Physics.PlayerSpeedX * 3
}

// Validate reports every inconsistent parameter at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	p := c.Platform
	check(p.PoolPerVariant >= 0, "platform.pool_per_variant must be >= 0, got %d", p.PoolPerVariant)
	check(p.GapMin >= 0, "platform.gap_min must be >= 0, got %v", p.GapMin)
	check(p.GapMin <= p.GapMax, "platform.gap_min %v exceeds gap_max %v", p.GapMin, p.GapMax)
	check(p.TightMax >= 0, "platform.tight_max must be >= 0, got %v", p.TightMax)
	check(p.MinY <= p.MaxY, "platform.min_y %v exceeds max_y %v", p.MinY, p.MaxY)
	check(p.MaxRise >= 0, "platform.max_rise must be >= 0, got %v", p.MaxRise)
	check(p.MaxDrop >= 0, "platform.max_drop must be >= 0, got %v", p.MaxDrop)
	check(p.DespawnDistance >= 0, "platform.despawn_distance must be >= 0, got %v", p.DespawnDistance)
	check(p.SafetyFactor > 0, "platform.safety_factor must be > 0, got %v", p.SafetyFactor)
	check(p.Prefill >= 0, "platform.prefill must be >= 0, got %d", p.Prefill)
	check(p.OriginY >= p.MinY && p.OriginY <= p.MaxY, "platform.origin_y %v outside [min_y, max_y]", p.OriginY)

	check(c.Physics.Gravity != 0, "physics.gravity must be non-zero")
	check(c.Physics.PlayerSpeedX >= 0, "physics.player_speed_x must be >= 0, got %v", c.Physics.PlayerSpeedX)
	if p.AutoCalcGapFromJump {
		check(c.Physics.JumpVelocity > 0 || c.Physics.JumpHeight > 0,
			"physics.jump_velocity or physics.jump_height required when auto_calc_gap_from_jump is set")
	}

	d := c.Decoration
	check(d.PoolPerVariant >= 0, "decoration.pool_per_variant must be >= 0, got %d", d.PoolPerVariant)
	check(d.Chance >= 0 && d.Chance <= 1, "decoration.chance must be in [0,1], got %v", d.Chance)
	check(d.MinYOffset <= d.MaxYOffset, "decoration.min_y_offset %v exceeds max_y_offset %v", d.MinYOffset, d.MaxYOffset)
	check(d.MinZOffset <= d.MaxZOffset, "decoration.min_z_offset %v exceeds max_z_offset %v", d.MinZOffset, d.MaxZOffset)
	check(d.DespawnDistance >= 0, "decoration.despawn_distance must be >= 0, got %v", d.DespawnDistance)
	check(d.DepthMode == DepthAbsolute || d.DepthMode == DepthRelative,
		"decoration.depth_mode must be %q or %q, got %q", DepthAbsolute, DepthRelative, d.DepthMode)

	check(c.Loop.TickRate > 0, "loop.tick_rate must be > 0, got %s", c.Loop.TickRate)
	check(c.Loop.MaxTicks >= 0, "loop.max_ticks must be >= 0, got %d", c.Loop.MaxTicks)

	return errors.Join(errs...)
}
