package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/config"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/arena"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
	"github.com/l1jgo/ecscore/internal/data"
	"github.com/l1jgo/ecscore/internal/scripting"
	"github.com/l1jgo/ecscore/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              ecscore  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      entity/component storage demo       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Demo logic ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/ecscore.toml"
	if p := os.Getenv("ECSCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrDefault(cfgPath)
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

	switch cfg.Demo.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	// 3. Create the registry
	printSection("Registry")
	opts, budget, err := registryOptions(cfg.Registry, log)
	if err != nil {
		return fmt.Errorf("registry options: %w", err)
	}
	reg := ecs.NewRegistry(opts...)
	defer reg.Release()
	ecs.SetStatic(reg, component.Bounds{MaxX: 100, MaxY: 100})
	unobserve := system.ObserveLifecycle(reg)
	defer unobserve()
	printStat("page size", reg.PageSize())
	printStat("entity capacity", cfg.Registry.Capacity)
	if budget != nil {
		printStat("arena budget (bytes)", int(budget.Remaining()))
	}
	printOK(fmt.Sprintf("deletion policy %s", reg.DefaultPolicy()))
	fmt.Println()

	// 4. Load data tables and spawn
	printSection("Data")
	prefabs, err := data.LoadPrefabTable(cfg.Demo.Prefabs)
	if err != nil {
		return fmt.Errorf("prefabs: %w", err)
	}
	printStat("prefabs", prefabs.Count())
	spawnList, err := data.LoadSpawnList(cfg.Demo.Spawns)
	if err != nil {
		return fmt.Errorf("spawns: %w", err)
	}
	printStat("spawn entries", len(spawnList))

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	spawned, err := data.Spawn(access.New(reg, data.SpawnTerms()...), prefabs, spawnList, rng)
	if err != nil {
		log.Warn("some spawn entries were skipped", zap.Error(err))
	}
	printStat("entities spawned", len(spawned))
	fmt.Println()

	// 5. Load scripts
	printSection("Scripts")
	engine := scripting.NewEngine(reg, log)
	defer engine.Close()
	engine.SetPrefabs(prefabs)
	if err := engine.Load(cfg.Demo.Script); err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	printStat("bound components", len(engine.Bound()))
	if engine.HasTickHook() {
		printOK("on_tick hook loaded")
	}
	fmt.Println()

	// 6. Create systems and register with runner
	bus := event.NewBus()
	event.Subscribe(bus, func(ev system.Died) {
		log.Info("entity died", zap.Stringer("entity", ev.Entity), zap.String("name", ev.Name))
	})
	runner := coresys.NewRunner()
	scriptSys := system.NewScriptSystem(engine)
	runner.Register(system.NewClockSystem(reg))
	runner.Register(scriptSys)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewMovementSystem(reg))
	runner.Register(system.NewRegenSystem(reg))
	runner.Register(system.NewLifetimeSystem(reg, bus))
	runner.Register(system.NewDeathSystem(reg, bus))
	runner.Register(system.NewCleanupSystem(reg))

	printSection("Schedule")
	for phase := coresys.PhaseInput; phase <= coresys.PhaseCleanup; phase++ {
		for i, batch := range runner.Plan(phase) {
			names := make([]string, len(batch))
			for j, s := range batch {
				names[j] = fmt.Sprintf("%T", s)
			}
			printReady(fmt.Sprintf("%s batch %d: %s", phase, i, strings.Join(names, ", ")))
		}
	}
	fmt.Println()

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Demo.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("tick loop started (tick: %s, ticks: %d)", cfg.Demo.TickRate, cfg.Demo.Ticks))
	fmt.Println()

loop:
	for ticks := 1; cfg.Demo.Ticks <= 0 || ticks <= cfg.Demo.Ticks; ticks++ {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Demo.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		}
		if ticks%20 == 0 {
			st := reg.Stats()
			log.Debug("tick",
				zap.Int("tick", ticks),
				zap.Int("entities", st.Entities),
				zap.Int("components", st.Components))
		}
	}

	// 8. Summary
	st := reg.Stats()
	stats := ecs.GetStatic[component.Stats](reg)
	printSection("Summary")
	printStat("ticks", int(ecs.GetStatic[component.Clock](reg).Tick))
	printStat("entities alive", st.Entities)
	printStat("components", st.Components)
	printStat("pools", st.Pools)
	printStat("spawned", stats.Spawned)
	printStat("destroyed", stats.Destroyed)
	printStat("deaths", stats.Deaths)
	printStat("script errors", scriptSys.Errors())
	if budget != nil {
		printStat("arena bytes in use", int(budget.Used()))
	}
	return nil
}

// registryOptions maps the [registry] section onto registry options. The
// returned budget is nil unless arena_budget is set.
func registryOptions(cfg config.RegistryConfig, log *zap.Logger) ([]ecs.Option, *arena.Budget, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, nil, err
	}
	if cfg.ArenaBudget < 0 {
		return nil, nil, errors.New("negative arena budget")
	}
	opts := []ecs.Option{
		ecs.WithLogger(log),
		ecs.WithPageSize(cfg.PageSize),
		ecs.WithDeletionPolicy(policy),
		ecs.WithCapacity(cfg.Capacity),
	}
	var budget *arena.Budget
	if cfg.ArenaBudget > 0 {
		budget = arena.NewBudget(arena.NewHeap(), uintptr(cfg.ArenaBudget))
		opts = append(opts, ecs.WithArena(budget))
	}
	return opts, budget, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
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
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
