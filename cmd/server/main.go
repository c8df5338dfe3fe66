package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cointrail/tracker-api/internal/api"
	"github.com/cointrail/tracker-api/internal/infrastructure/db/mongo"
	"github.com/cointrail/tracker-api/internal/infrastructure/db/redis"
	"github.com/cointrail/tracker-api/internal/infrastructure/pricefeed"
	"github.com/cointrail/tracker-api/internal/pkg/config"
	"github.com/cointrail/tracker-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Secrets ---
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		// No configured secret: generate one for this process lifetime.
		// Every previously issued token becomes invalid on restart.
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			log.Fatal().Err(err).Msg("failed to generate signing secret")
		}
		log.Warn().Msg("JWT_SECRET not set, generated ephemeral signing secret")
	}

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongo.NewCredentialRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}
	if err := mongo.NewTransactionRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure transaction indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Price feed ---
	quotes := pricefeed.NewStaticSource(nil)
	prices := redis.NewPriceCache(rdb, quotes, cfg.Price.CacheTTL)
	poller := pricefeed.NewPoller(quotes.Networks(), cfg.Price.Workers, cfg.Price.RefreshInterval, prices, log)
	poller.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, api.Secrets{
		JWT:         jwtSecret,
		PasswordKey: []byte(cfg.PasswordKey),
	}, prices, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("tracker api started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("tracker api stopped")
}
