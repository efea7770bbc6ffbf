package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration. The server secret and the
// operator credentials are read once at startup and passed by reference
// into the components that need them; nothing here is mutated after Load.
type Config struct {
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr          string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr           string        `env:"ADMIN_ADDR" envDefault:":9091"`
	ServerSecret        string        `env:"SERVER_SECRET,required"`
	OperatorCredentials string        `env:"OPERATOR_CREDENTIALS" envDefault:""` // "user:pass,user:pass"
	PostgresURL         string        `env:"POSTGRES_URL,required"`
	RedisAddr           string        `env:"REDIS_ADDR"` // empty disables the user resolution cache
	UserCacheTTL        time.Duration `env:"USER_CACHE_TTL" envDefault:"10m"`
	MaxBodySize         int64         `env:"MAX_BODY_SIZE_BYTES" envDefault:"1048576"` // 1MB
	SubmitRateLimit     float64       `env:"SUBMIT_RATE_LIMIT" envDefault:"50"`
	SubmitRateBurst     int           `env:"SUBMIT_RATE_BURST" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// OperatorCreds parses the OPERATOR_CREDENTIALS pairs into a
// username-to-password map.
func (c *Config) OperatorCreds() (map[string]string, error) {
	creds := make(map[string]string)
	if c.OperatorCredentials == "" {
		return creds, nil
	}
	for _, pair := range strings.Split(c.OperatorCredentials, ",") {
		username, password, ok := strings.Cut(pair, ":")
		if !ok || username == "" || password == "" {
			return nil, fmt.Errorf("malformed operator credential pair %q", pair)
		}
		creds[username] = password
	}
	return creds, nil
}
