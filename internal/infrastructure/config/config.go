package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	GymAPIURL  string        `env:"GYM_API_URL, default=http://localhost:5001"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`

	// TokenStore selects the durable token slot backend: redis or sqlite.
	TokenStore string `env:"TOKEN_STORE, default=redis"`
	SQLitePath string `env:"SQLITE_PATH, default=portal.db"`

	Redis RedisConfig
	Mongo MongoConfig
	Audit AuditConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	// URI left empty disables the Mongo audit sink; events go to the log.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=member_portal"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=true"`
	Workers int  `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
