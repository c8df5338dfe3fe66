package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cointrail/tracker-api/internal/api/handler"
	"github.com/cointrail/tracker-api/internal/api/middleware"
	"github.com/cointrail/tracker-api/internal/core/ports"
	"github.com/cointrail/tracker-api/internal/core/service"
	mongorepo "github.com/cointrail/tracker-api/internal/infrastructure/db/mongo"
)

// Secrets carries the two process secrets the core depends on.
type Secrets struct {
	JWT         []byte
	PasswordKey []byte
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redisv9.Client, secrets Secrets, prices ports.PriceSource, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	credentials := mongorepo.NewCredentialRepository(db)
	ledger := mongorepo.NewTransactionRepository(db)
	views := mongorepo.NewViewRepository(db)

	hasher := service.NewPasswordHasher(secrets.PasswordKey)
	tokens := service.NewTokenService(secrets.JWT)
	identity := service.NewIdentityService(credentials, hasher, tokens, log)
	transactions := service.NewTransactionService(ledger, views, prices, nil, log)

	authHandler := handler.NewAuthHandler(identity)
	txHandler := handler.NewTransactionHandler(transactions)
	viewHandler := handler.NewViewHandler(transactions)
	requireToken := middleware.Auth(tokens, identity)

	// --- Public routes ---
	e.GET("/is-server-online", handler.NewHealthHandler().Liveness)
	e.POST("/register", authHandler.Register)
	e.GET("/login", authHandler.Login)

	// --- Token-scoped routes ---
	e.POST("/track-transaction", txHandler.Track, requireToken)
	e.GET("/all-transactions", txHandler.List, requireToken)
	e.GET("/get-transaction", txHandler.Get, requireToken)
	e.DELETE("/transaction", txHandler.Delete, requireToken)
	e.POST("/new-view", viewHandler.Create, requireToken)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
