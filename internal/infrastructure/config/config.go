package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
}

type BackendConfig struct {
	BaseURL string `env:"BACKEND_BASE_URL, default=http://localhost:9090/api/v1"`
	// Timeout bounds outbound backend calls; 0 leaves them unbounded and
	// relies on the portal's in-flight gating.
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=0"`
}

type SessionConfig struct {
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vendor_portal"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
