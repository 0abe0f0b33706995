// Package config assembles the service configuration.
//
// Sources, later ones winning for non-zero fields:
//  1. an optional .env file (loaded into the process environment)
//  2. environment variables, with defaults from envDefault tags
//  3. command-line flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

type Config struct {
	App    App
	Server Server `envPrefix:"SERVER_"`
	DB     DB     `envPrefix:"DB_"`
}

type App struct {
	// Env is reported by the health endpoint ("development", "production").
	Env string `env:"APP_ENV" envDefault:"development"`

	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string `env:"JWT_SECRET" json:"-"`

	// TokenDuration is the lifetime of an issued token.
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type Server struct {
	Address         string        `env:"ADDRESS" envDefault:":3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DB struct {
	// Type selects the dialect: mysql, postgres or sqlite.
	Type string `env:"TYPE" envDefault:"mysql"`

	// DSN is passed to the driver of the selected dialect. For sqlite it is
	// a file path or ":memory:".
	DSN string `env:"DSN" json:"-"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"5"`
}

// Load reads .env (if present), the environment and the given command-line
// arguments, merges them and validates the result.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	envCfg := new(Config)
	if err := env.Parse(envCfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	cfg, err := parseFlags(args)
	if err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if err := mergo.Merge(cfg, envCfg); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.App.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if cfg.App.TokenDuration <= 0 {
		return ErrInvalidTokenDuration
	}

	switch cfg.DB.Type {
	case DBTypeMySQL, DBTypePostgres, DBTypeSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDBType, cfg.DB.Type)
	}
	if cfg.DB.DSN == "" {
		return ErrMissingDSN
	}

	return nil
}
