package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. join.me endpoint URLs default
// to the public API and are overridable for local stubs and tests.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	JoinMeClientID     string   `env:"JOINME_CLIENT_ID"`
	JoinMeClientSecret string   `env:"JOINME_CLIENT_SECRET"`
	JoinMeRedirectURL  string   `env:"JOINME_REDIRECT_URL"`
	JoinMeScopes       []string `env:"JOINME_SCOPES" envSeparator:"," envDefault:"user_info"`
	JoinMeAuthorizeURL string   `env:"JOINME_AUTHORIZE_URL"`
	JoinMeTokenURL     string   `env:"JOINME_TOKEN_URL"`
	JoinMeProfileURL   string   `env:"JOINME_PROFILE_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
