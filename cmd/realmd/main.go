// realmd is the field RPG world server: one process, one authoritative world,
// one game-loop goroutine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fieldrpg/server/internal/config"
	"github.com/fieldrpg/server/internal/core/event"
	coresys "github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/data"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/persist"
	"github.com/fieldrpg/server/internal/scripting"
	"github.com/fieldrpg/server/internal/system"
	"github.com/fieldrpg/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "config/server.toml", "path to server config")
		mapsPath     = flag.String("maps", "data/yaml/map_list.yaml", "path to map list")
		monstersPath = flag.String("monsters", "data/yaml/monster_list.yaml", "path to monster list")
		scriptsDir   = flag.String("scripts", "scripts", "path to lua scripts")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("name", cfg.Server.Name),
		zap.String("bind", cfg.Network.BindAddress),
		zap.Duration("tick", cfg.Network.TickRate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var profiles *persist.ProfileRepo
	if cfg.Database.DSN != "" {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return err
		}
		profiles = persist.NewProfileRepo(db)
		log.Info("profile store ready")
	} else {
		log.Info("no database configured, profiles are in-memory only")
	}

	maps, err := data.LoadMapTable(*mapsPath)
	if err != nil {
		return err
	}
	monsters, err := data.LoadMonsterTable(*monstersPath)
	if err != nil {
		return err
	}
	log.Info("static data loaded",
		zap.Int("maps", maps.Count()), zap.Int("monster_types", monsters.Count()))

	engine, err := scripting.NewEngine(*scriptsDir, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	bus := event.NewBus()
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     world.NewState(),
		Maps:      maps,
		Monsters:  monsters,
		Scripting: engine,
		Profiles:  profiles,
		Bus:       bus,
	}
	subscribeKillFeed(bus, log)

	registry := net.NewRegistry(log)
	handler.RegisterAll(registry, deps)

	server := net.NewServer(cfg.Network, log)
	store := net.NewSessionStore()

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(deps, server, store, registry))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewMonsterAISystem(deps))
	runner.Register(system.NewMonsterRespawnSystem(deps))
	runner.Register(system.NewReviveSystem(deps))
	runner.Register(system.NewPlayerSyncSystem(deps))
	runner.Register(system.NewMonsterSyncSystem(deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	log.Info("game loop running")
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	}
}

// subscribeKillFeed logs the domain events other systems emit. Also the place
// future consumers (quests, rankings) hook in.
func subscribeKillFeed(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.MonsterKilled) {
		log.Debug("monster killed",
			zap.String("monster", e.ID), zap.String("type", e.Type), zap.String("killer", e.Killer))
	})
	event.Subscribe(bus, func(e event.PlayerDied) {
		log.Debug("player death resolved",
			zap.String("player", e.ID), zap.Bool("pvp", e.PvP), zap.String("killer", e.Killer))
	})
	event.Subscribe(bus, func(e event.PlayerLeveledUp) {
		log.Debug("level up", zap.String("player", e.ID), zap.Int("level", e.Level))
	})
	event.Subscribe(bus, func(e event.PlayerDisconnected) {
		log.Debug("disconnect resolved", zap.String("player", e.ID), zap.String("map", e.MapID))
	})
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
