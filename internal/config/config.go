// internal/config/config.go
//
// Environment-driven settings for the guess server.
// An optional .env file is loaded first (godotenv), then the process
// environment is parsed into Config (caarlos0/env) and validated.
// Every failure wraps game.ErrConfiguration.

// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
)

// Config holds every environment-driven setting.
type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"` // json | console
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	WordLength  int    `env:"WORD_LENGTH" envDefault:"5"`
	MaxAttempts int    `env:"MAX_ATTEMPTS" envDefault:"6"`
	WordsFile   string `env:"WORDS_FILE"` // empty: embedded list
	DailySalt   string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	HistoryDB string `env:"HISTORY_DB"` // empty: history disabled
}

// Load reads an optional .env file, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %v", game.ErrConfiguration, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.WordLength <= 0 {
		return fmt.Errorf("%w: WORD_LENGTH must be positive, got %d", game.ErrConfiguration, c.WordLength)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: MAX_ATTEMPTS must be positive, got %d", game.ErrConfiguration, c.MaxAttempts)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive, got %s", game.ErrConfiguration, c.RequestTimeout)
	}
	return nil
}
