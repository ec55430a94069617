package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skyrun/engine/internal/config"
	"github.com/skyrun/engine/internal/data"
	"github.com/skyrun/engine/internal/level"
	"github.com/skyrun/engine/internal/pool"
	"github.com/skyrun/engine/internal/scripting"
	"github.com/skyrun/engine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              skyrun  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     endless platform generator (headless) \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	valStr := printer.Sprintf("%v", value)
	if n, ok := value.(int); ok {
		valStr = printer.Sprintf("%d", n)
	}
	dotsLen := 42 - len(label) - len(valStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), valStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/skyrun.toml"
	if p := os.Getenv("SKYRUN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load variant tables
	printSection("data")

	platforms, err := data.LoadVariantTable(cfg.Data.PlatformVariants, "platforms")
	if err != nil {
		return fmt.Errorf("load platform variants: %w", err)
	}
	printStat("platform variants", platforms.Count())

	decorations, err := data.LoadVariantTable(cfg.Data.DecorationVariants, "decorations")
	if err != nil {
		return fmt.Errorf("load decoration variants: %w", err)
	}
	printStat("decoration variants", decorations.Count())

	// 4. Optional geometry scripts
	var opts []level.Option
	if cfg.Data.ScriptsDir != "" {
		lua, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		opts = append(opts, level.WithGeometry(lua))
		printOK("lua geometry scripts loaded")
	}
	fmt.Println()

	// 5. Build and prime the level
	printSection("generation")
	opts = append(opts, level.WithReportEvery(cfg.Loop.StatsEvery))
	lvl := level.New(cfg, platforms, decorations, log, opts...)
	defer lvl.Close()

	if err := lvl.Start(); err != nil {
		if !lvl.Platforms().Enabled() {
			return fmt.Errorf("start level: %w", err)
		}
		log.Error("level started degraded", zap.Error(err))
	}

	jump := cfg.Jump()
	params := lvl.Platforms().Params()
	printStat("run id", lvl.ID().String())
	printStat("seed", lvl.Seed())
	printStat("lead distance", params.LeadDistance)
	printStat("air time (s)", fmt.Sprintf("%.3f", jump.AirTime()))
	printStat("max jump height", fmt.Sprintf("%.3f", jump.MaxHeight()))
	printStat("long gap bound", fmt.Sprintf("%.3f", params.Gap.LongUpper()))
	printStat("platforms primed", lvl.Platforms().Active().Len())
	fmt.Println()

	// 6. Tick loop: the reference point runs right at player_speed_x
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	x := 0.0
	step := cfg.Physics.PlayerSpeedX * cfg.Loop.TickRate.Seconds()
	for {
		select {
		case <-ticker.C:
			x += step
			lvl.Tick(x, cfg.Loop.TickRate)
			if cfg.Loop.MaxTicks > 0 && lvl.Ticks() >= uint64(cfg.Loop.MaxTicks) {
				printSummary(lvl, x)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			printSummary(lvl, x)
			return nil
		}
	}
}

func printSummary(lvl *level.Level, x float64) {
	fmt.Println()
	printSection("summary")
	printStat("ticks", int(lvl.Ticks()))
	printStat("distance", fmt.Sprintf("%.1f", x))
	printStat("platforms placed", int(lvl.Platforms().Chain().Placed))
	printStat("platforms retired", int(lvl.Platforms().Retired()))
	printStat("platform pool size", lvl.Platforms().Pool().Len())
	printStat("platform overflow", system.TotalOverflow(lvl.Platforms().Pool()))
	printStat("decorations retired", int(lvl.Decorations().Retired()))
	printStat("decoration pool size", lvl.Decorations().Pool().Len())
	printStat("decoration overflow", system.TotalOverflow(lvl.Decorations().Pool()))
	printPoolStats(lvl.Platforms().Pool())
	printPoolStats(lvl.Decorations().Pool())
}

func printPoolStats(p *pool.Pool) {
	for v := 0; v < p.Variants(); v++ {
		s := p.Stats(v)
		printStat(fmt.Sprintf("%s/%s", p.Name(), p.Variant(v).Name),
			printer.Sprintf("%d active, %d free", s.Active, s.Free))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var logLevel zapcore.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		logLevel = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(logLevel)

	return zapCfg.Build()
}
