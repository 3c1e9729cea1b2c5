package main

import (
	"context"
	"ctchen222/AI-Arcade/internal/api/service"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/config"
	"ctchen222/AI-Arcade/internal/db"
	"ctchen222/AI-Arcade/internal/logger"
	"ctchen222/AI-Arcade/internal/repository"
	"ctchen222/AI-Arcade/internal/server"
	"ctchen222/AI-Arcade/internal/session"
	"ctchen222/AI-Arcade/internal/stats"
	"ctchen222/AI-Arcade/internal/telemetry"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.LogLevel)

	store, closeStore, err := openStatsStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open stats store", "backend", cfg.Stats.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	defaultDifficulty, err := bot.ParseDifficulty(cfg.Game.DefaultDifficulty)
	if err != nil {
		slog.Error("invalid default difficulty", "error", err)
		os.Exit(1)
	}

	var selectorOpts []bot.Option
	if cfg.Game.Seed != 0 {
		selectorOpts = append(selectorOpts, bot.WithSource(bot.NewSeededSource(cfg.Game.Seed)))
	}
	selector := bot.NewSelector(selectorOpts...)

	sessions := session.NewManager(selector,
		session.WithRecorder(store),
		session.WithReportTimeout(cfg.Stats.ReportTimeout),
	)
	go sessions.Run(ctx, cfg.Game.SweepInterval, cfg.Game.SessionTTL)

	// Create services
	gameService := service.NewGameService(sessions, defaultDifficulty)
	statsService := service.NewStatsService(store)
	authService := service.NewAuthService(cfg.Auth.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("no JWT secret configured, every player is a guest")
	}

	srv := server.NewServer(gameService, statsService, authService, cfg.Game.ThinkDelay)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: otelhttp.NewHandler(srv.Engine(), "arcade"),
	}

	go func() {
		slog.Info("http server started", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

// openStatsStore connects the configured statistics backend. The returned
// func releases it.
func openStatsStore(ctx context.Context, cfg *config.Config) (stats.Store, func(), error) {
	switch cfg.Stats.Backend {
	case config.BackendSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.Stats.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigrateSQLite(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return repository.NewSQLiteStatsRepository(sqlDB), func() { sqlDB.Close() }, nil

	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStatsRepository(rdb), func() { rdb.Close() }, nil

	case config.BackendNone:
		return stats.Noop{}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown stats backend %q", cfg.Stats.Backend)
	}
}
