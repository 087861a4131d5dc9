package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// minSecretLength is the HS256 key size in bytes.
const minSecretLength = 32

// Config holds application level configuration loaded from environment variables.
// It is loaded once at startup and read-only afterwards.
type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseDSN string `env:"CONNECTION_STRING" envDefault:"host=localhost user=postgres password=postgres dbname=profileauth port=5432 sslmode=disable"`
	ResetDB     bool   `env:"RESET_DB" envDefault:"false"`

	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass    string `env:"REDIS_PASSWORD"`
	CacheEnabled bool   `env:"CACHE_ENABLED" envDefault:"true"`

	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer   string `env:"JWT_VALID_ISSUER" envDefault:"profileauth"`
	JWTAudience string `env:"JWT_VALID_AUDIENCE" envDefault:"profileauth-clients"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"10"`
	EnforceBans bool   `env:"ENFORCE_BANS" envDefault:"false"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from an optional .env file and the environment.
// It fails when the signing secret is missing or too short.
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}
