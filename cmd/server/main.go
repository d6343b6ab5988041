package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/config"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/handler"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/logger"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/memory"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/postgres"
	redisrepo "github.com/z-korp/zconqueror-contracts-sub001/internal/repository/redis"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/sqlite"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev})
	log.Info().
		Str("store", cfg.Store).
		Str("eventLog", cfg.EventLog).
		Str("defaultVariant", cfg.DefaultVariant).
		Msg("Config loaded")

	ctx := context.Background()
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	// Live game state
	var store repository.GameStore
	switch cfg.Store {
	case config.StoreRedis:
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		closers = append(closers, redisClient)
		store = redisClient
	default:
		log.Warn().Msg("Using the in-memory game store, games are lost on restart")
		store = memory.NewStore()
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	d := service.NewDispatcher(store, wsHub)

	// Event log and results archive
	switch cfg.EventLog {
	case config.EventLogPostgres:
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		closers = append(closers, db)
		d.SetEventLog(postgres.NewEventRepo(db))
		d.SetResultRepo(postgres.NewResultRepo(db))
	case config.EventLogSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("SQLite open failed")
		}
		closers = append(closers, db)
		d.SetEventLog(db.Events)
		d.SetResultRepo(db.Results)
	default:
		log.Warn().Msg("Event log disabled, audit and results endpoints will be unavailable")
	}

	// Services
	gameSvc := service.NewGameService(d, nil, conquest.Variant(cfg.DefaultVariant))
	playSvc := service.NewPlayService(d)

	router := handler.NewRouter(handler.RouterConfig{
		Games:          gameSvc,
		Play:           playSvc,
		Hub:            wsHub,
		JWT:            auth.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry),
		AllowedOrigins: cfg.AllowedOrigins,
		DevTokens:      cfg.DevTokens,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
