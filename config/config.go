package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string        `env:"ADDR" envDefault:":3002"`
	DSN            string        `env:"DSN,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"access_token"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	Env            string        `env:"APP_ENV" envDefault:"development"`
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads the optional .env file, then parses the process environment.
// Real environment variables win over the .env overlay.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
