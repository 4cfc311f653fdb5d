// Package main is the entry point for the propsage player-prop analysis
// service. It wires configuration, the SQLite databases, the cache store and
// the analysis service, then runs the HTTP server alongside the background
// scheduler until a shutdown signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/propsage/internal/config"
	"github.com/aristath/propsage/internal/database"
	"github.com/aristath/propsage/internal/database/repositories"
	"github.com/aristath/propsage/internal/modules/cache"
	"github.com/aristath/propsage/internal/scheduler"
	"github.com/aristath/propsage/internal/server"
	"github.com/aristath/propsage/internal/service"
	"github.com/aristath/propsage/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting propsage")

	// Weekly box scores are the system of record; props are replaceable
	// snapshots. Each gets a pragma profile matched to its workload.
	statsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "stats.db"),
		Profile: database.ProfileArchive,
		Name:    "stats",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stats database")
	}
	defer statsDB.Close()

	propsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "props.db"),
		Profile: database.ProfileStandard,
		Name:    "props",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open props database")
	}
	defer propsDB.Close()

	store, err := cache.NewStore(filepath.Join(cfg.DataDir, "cache"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cache store")
	}

	statsRepo := repositories.NewGameStatRepository(statsDB.Conn(), log)
	propRepo := repositories.NewPropRepository(propsDB.Conn(), log)

	svc := service.New(cfg, statsRepo, propRepo, store, nil, log)

	// Warm the snapshots before serving. A failure here is not fatal: the
	// indexes rebuild on the next ingest or scheduled refresh.
	if err := svc.RefreshIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Initial index refresh failed")
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, scheduler.NewFuncJob("index-refresh", func() error {
		return svc.RefreshIndexes(context.Background())
	})); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	if err := sched.AddJob(cfg.MergeRetrySchedule, scheduler.NewFuncJob("merge-retry", func() error {
		weeks := svc.RetryDeferredMerges(time.Now().UTC())
		if len(weeks) > 0 {
			log.Info().Ints("weeks", weeks).Msg("Weeks awaiting canonical props")
		}
		return nil
	})); err != nil {
		log.Fatal().Err(err).Msg("Failed to register merge retry job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:     log,
		Service: svc,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
