package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/command"
	"github.com/l1jgo/worldcore/internal/config"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/core/clock"
	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/data"
	"github.com/l1jgo/worldcore/internal/gateway"
	"github.com/l1jgo/worldcore/internal/inbound"
	"github.com/l1jgo/worldcore/internal/messaging"
	gonet "github.com/l1jgo/worldcore/internal/net"
	"github.com/l1jgo/worldcore/internal/net/packet"
	"github.com/l1jgo/worldcore/internal/outbound"
	"github.com/l1jgo/worldcore/internal/persist"
	"github.com/l1jgo/worldcore/internal/scripting"
	"github.com/l1jgo/worldcore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              worldcore  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Config and logging
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 2. Player store: PostgreSQL when a DSN is configured, memory otherwise
	printSection("Storage")
	var (
		accounts persist.Accounts
		saves    persist.Saves
	)
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("schema version", int(version))

		accountRepo := persist.NewAccountRepo(db)
		if err := accountRepo.ResetOnline(ctx); err != nil {
			return fmt.Errorf("reset online flags: %w", err)
		}
		accounts = accountRepo
		saves = persist.NewPlayerRepo(db)
	} else {
		mem := persist.NewMemoryStore()
		accounts, saves = mem, mem
		printOK("in-memory player store")
	}
	fmt.Println()

	// 3. Static tables
	printSection("Data")
	tables := data.LoadTables(cfg.Data.Dir, log)
	printStat("items", tables.Items.Count())
	printStat("npcs", tables.Npcs.Count())
	printStat("objects", tables.Objects.Count())
	printStat("shops", tables.Shops.Count())
	printStat("npc spawns", len(tables.Spawns))

	// 4. Map regions. At least one configured region must exist on disk.
	regions := data.NewRegionStore(cfg.Data.RegionsDir)
	chunks := chunk.NewManager(regions, log)
	found := 0
	for _, r := range cfg.World.Regions {
		if !regions.Exists(r[0], r[1]) {
			log.Warn("map region missing", zap.String("path", regions.Path(r[0], r[1])))
			continue
		}
		chunks.RegisterMapRegion(r[0], r[1])
		found++
	}
	if found == 0 {
		return fmt.Errorf("none of the %d configured map regions could be loaded from %s",
			len(cfg.World.Regions), cfg.Data.RegionsDir)
	}
	printStat("map regions", chunks.RegionCount())
	printStat("tiles", chunks.TileCount())
	fmt.Println()

	// 5. Outbound delivery: session frames, optionally mirrored to NATS
	dir := gateway.NewDirectory()
	sinks := outbound.MultiSink{gateway.NewFrameSink(dir, log)}

	var w *world.World
	if cfg.Nats.URL != "" {
		nc, err := messaging.Connect(cfg.Nats.URL, cfg.Server.Name, log)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer nc.Close()
		sinks = append(sinks, messaging.NewIntentSink(nc, cfg.Nats.SubjectPrefix, func() uint64 { return w.Tick() }, log))
		printOK("NATS intent mirror enabled")
	}

	// 6. World
	printSection("World")
	actions := action.NewRegistry(log)
	w, err = world.New(chunks, actions, sinks, world.Options{
		TickLength:       cfg.World.TickRate,
		MaxPlayers:       cfg.World.MaxPlayers,
		MaxNpcs:          cfg.World.MaxNpcs,
		PrivateItemTicks: cfg.World.PrivateItemTicks,
		ViewDistance:     cfg.World.ViewDistance,
		Clock:            clock.Real{},
	}, log)
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	defer w.Close()

	printStat("npcs spawned", w.SpawnNpcs(tables.Spawns, tables.Npcs))
	if cfg.World.FakePlayers > 0 {
		printStat("fake players", w.GenerateFakePlayers(cfg.World.FakePlayers))
	}

	// 7. Content hooks: built-in commands, then scripts
	if err := command.Register(actions, w, tables.Items); err != nil {
		return fmt.Errorf("commands: %w", err)
	}
	if cfg.Scripting.Dir != "" {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, w, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		printStat("script hooks", engine.Hooks())
	}
	fmt.Println()

	// 8. Network
	printSection("Network")
	registry := packet.NewRegistry(log)
	inbound.Register(registry, w, log)

	pktPerSec := 0
	if cfg.RateLimit.Enabled {
		pktPerSec = cfg.RateLimit.PacketsPerSecond
	}
	srv, err := gonet.NewServer(cfg.Network.BindAddress, gonet.SessionConfig{
		InQueueSize:  cfg.Network.InQueueSize,
		OutQueueSize: cfg.Network.OutQueueSize,
		PktPerSec:    pktPerSec,
		WriteTimeout: cfg.Network.WriteTimeout,
	}, cfg.Network.MaxConnsPerIP, log)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Network.BindAddress, err)
	}
	go srv.AcceptLoop()
	printOK(fmt.Sprintf("listening on %s", srv.Addr()))

	spawn := cfg.World.Spawn
	gw := gateway.New(srv, dir, w, registry, accounts, saves, gateway.Options{
		Spawn:      coord.New(spawn[0], spawn[1], spawn[2]),
		MaxPerTick: cfg.Network.MaxPacketsPerTick,
		AutoCreate: cfg.Network.AutoCreateAccounts,
	}, log)

	// 9. Tick pipeline
	autosave := persist.NewAutosaveSystem(w.Players, saves, log, cfg.World.AutosaveTicks)
	runner := coresys.NewRunner()
	runner.Register(gw)
	for _, s := range w.Systems() {
		runner.Register(s)
	}
	runner.Register(gateway.NewOutputSystem(dir))
	runner.Register(autosave)

	printStat("tick systems", runner.Len())

	sched := coresys.NewScheduler(runner, clock.Real{}, cfg.World.TickRate, w.ActivePlayers, log,
		coresys.WithTickTimeLogging(cfg.World.DebugTickTime))

	fmt.Println()
	printReady(fmt.Sprintf("tick length %s", cfg.World.TickRate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sched.Run(ctx)
	log.Info("shutting down", zap.Uint64("ticks", sched.Ticks()))

	srv.Shutdown()
	saved := autosave.SaveAll()
	gw.Shutdown()
	log.Info("players saved", zap.Int("count", saved))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
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
