package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zonecell/internal/config"
	"github.com/udisondev/zonecell/internal/db"
	"github.com/udisondev/zonecell/internal/gateway"
	"github.com/udisondev/zonecell/internal/reward"
	"github.com/udisondev/zonecell/internal/spawn"
	"github.com/udisondev/zonecell/internal/world"
)

const ZoneConfigPath = "config/zoneserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ZoneConfigPath
	if p := os.Getenv("ZONE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadZoneServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading zone config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("zone server starting", "log_level", cfg.LogLevel, "config", cfgPath)

	// Connect to database
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	spawnRepo := db.NewSpawnRepository(database.Pool())
	templateRepo := db.NewTemplateRepository(database.Pool())
	killRepo := db.NewKillRepository(database.Pool())

	writeQueue := db.NewWriteQueue(cfg.WriteQueue.Size, cfg.WriteQueue.Workers, cfg.WriteQueue.JobTimeout)
	rebirths := spawn.NewRebirthScheduler(cfg.RebirthInterval)
	factory := spawn.NewFactory(world.NewIDGenerator())
	hub := gateway.NewHub()

	w := world.NewWorld(world.Deps{
		Notifier: hub,
		Rewarder: reward.NewService(writeQueue, killRepo),
		Rebirths: rebirths,
		Factory:  factory,
	})
	defer w.Dispose()

	populator := spawn.NewPopulator(factory, spawnRepo, templateRepo)
	for _, mc := range cfg.Maps {
		def, err := mc.Definition()
		if err != nil {
			return fmt.Errorf("map config: %w", err)
		}
		m, err := w.Load(def)
		if err != nil {
			return fmt.Errorf("loading map %d: %w", def.ID, err)
		}
		if _, err := populator.Populate(ctx, m); err != nil {
			return fmt.Errorf("populating map %d: %w", def.ID, err)
		}
	}
	if _, ok := w.Map(cfg.Entry.MapID); !ok {
		return fmt.Errorf("entry map %d is not configured", cfg.Entry.MapID)
	}

	handler := gateway.NewPlayerHandler(w, factory, gateway.EntryPoint{
		MapID: cfg.Entry.MapID,
		X:     cfg.Entry.X,
		Y:     cfg.Entry.Y,
		Z:     cfg.Entry.Z,
	})
	server := gateway.NewServer(gateway.Config{
		Address:        cfg.Gateway.Address(),
		Path:           cfg.Gateway.Path,
		OutboxSize:     cfg.Gateway.SendQueueSize,
		WriteTimeout:   cfg.Gateway.WriteTimeout,
		IdleTimeout:    cfg.Gateway.IdleTimeout,
		MaxMessageSize: cfg.Gateway.MaxMessageSize,
	}, hub, handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := writeQueue.Run(gctx); err != nil {
			return fmt.Errorf("write queue: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := rebirths.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("rebirth scheduler: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting gateway", "address", cfg.Gateway.Address())
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("gateway: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
