package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,         default=8080"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`

	// JWTSecret signs bearer tokens. Empty means "generate a random
	// secret at startup", which invalidates all tokens on restart.
	JWTSecret string `env:"JWT_SECRET"`
	// PasswordKey keys the deterministic password digest. Changing it
	// invalidates every stored credential.
	PasswordKey string `env:"PASSWORD_KEY, default=dev-password-key"`

	Mongo MongoConfig
	Redis RedisConfig
	Price PriceConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tracker"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type PriceConfig struct {
	RefreshInterval time.Duration `env:"PRICE_REFRESH_INTERVAL, default=30s"`
	Workers         int           `env:"PRICE_REFRESH_WORKERS,  default=4"`
	CacheTTL        time.Duration `env:"PRICE_CACHE_TTL,        default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
