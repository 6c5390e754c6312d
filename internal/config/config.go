package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config se resuelve una sola vez al arrancar; no hay reconfiguración en caliente.
type Config struct {
	Port     string `env:"PORT" default:"8080"`
	APIURL   string `env:"API_URL"`
	APIKey   string `env:"API_KEY"`
	HomePath string `env:"HOME_PATH" default:"/"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	ConfirmTimeout       time.Duration `env:"CONFIRM_TIMEOUT" default:"15s"`
	SuccessRedirectDelay time.Duration `env:"SUCCESS_REDIRECT_DELAY" default:"3s"`

	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	// DotEnvLoaded indica si se encontró un .env; se registra una vez que el logger existe.
	DotEnvLoaded bool
}

// Rutas que el servidor ya registra; HOME_PATH no puede reutilizarlas.
var reservedPaths = []string{"/confirm", "/health", "/metrics"}

// Load lee un .env opcional y después el entorno del proceso.
func Load() (*Config, error) {
	dotEnvErr := godotenv.Load()

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg.DotEnvLoaded = dotEnvErr == nil

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.APIURL == "" {
		return errors.New("API_URL is required")
	}
	if cfg.APIKey == "" {
		return errors.New("API_KEY is required")
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute URL, got %q", cfg.APIURL)
	}

	if cfg.ConfirmTimeout <= 0 {
		return errors.New("CONFIRM_TIMEOUT must be positive")
	}
	if cfg.SuccessRedirectDelay < 0 {
		return errors.New("SUCCESS_REDIRECT_DELAY cannot be negative")
	}
	if !strings.HasPrefix(cfg.HomePath, "/") {
		return fmt.Errorf("HOME_PATH must start with '/', got %q", cfg.HomePath)
	}
	for _, p := range reservedPaths {
		if cfg.HomePath == p {
			return fmt.Errorf("HOME_PATH %q is reserved by the server", cfg.HomePath)
		}
	}
	if cfg.BreakerMaxFailures == 0 {
		return errors.New("BREAKER_MAX_FAILURES must be at least 1")
	}

	return nil
}
