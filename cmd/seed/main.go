// Command seed provisions the development fixture user (and optionally
// wipes the database first). It reuses the same configuration and
// registration path as the server, so seeded credentials behave exactly
// like registered ones.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/cointrail/tracker-api/internal/core/service"
	"github.com/cointrail/tracker-api/internal/infrastructure/db/mongo"
	"github.com/cointrail/tracker-api/internal/pkg/config"
	"github.com/cointrail/tracker-api/pkg/logger"
)

const (
	seedUsername = "t"
	seedPassword = "t"
)

func main() {
	wipe := flag.Bool("wipe", false, "delete all transactions and users before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	credentials := mongo.NewCredentialRepository(db)
	ledger := mongo.NewTransactionRepository(db)

	if *wipe {
		// Transactions first so a failure never leaves orphaned rows
		// pointing at deleted users.
		if err := ledger.DeleteAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to wipe transactions")
		}
		if err := credentials.DeleteAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to wipe users")
		}
		log.Info().Msg("database wiped")
	}

	hasher := service.NewPasswordHasher([]byte(cfg.PasswordKey))
	tokens := service.NewTokenService([]byte(cfg.JWTSecret))
	identity := service.NewIdentityService(credentials, hasher, tokens, log)

	result, err := identity.Register(ctx, seedUsername, seedPassword, seedPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed user")
	}
	log.Info().Str("user_id", result.UserID).Str("username", seedUsername).Msg("seed user created")
}
