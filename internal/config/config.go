// Package config assembles application configuration from defaults,
// command-line flags, a .env file and environment variables, and validates
// the result once at startup.
package config

import (
	"errors"
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultSessionMaxAge is the session cookie lifetime.
const DefaultSessionMaxAge = 30 * 24 * time.Hour

// Config holds every runtime setting of the service. It is built once by New
// and injected into the components that need it; nothing reads the
// environment ad hoc after startup.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase        string        `env:"BASE_URL" validate:"url"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"omitempty,filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`

	// SessionSecret signs session cookies. The process refuses to start
	// without it: every deployed instance must share the same value or all
	// sessions are invalidated.
	SessionSecret     string        `env:"SESSION_SECRET" validate:"required"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" validate:"required"`
	SessionMaxAge     time.Duration `env:"SESSION_MAX_AGE"`

	// AppEnv switches the Secure attribute of the session cookie on in
	// production.
	AppEnv string `env:"APP_ENV" validate:"oneof=development production"`
}

// ErrValidation wraps the validator failure so callers can tell a config
// problem from an environment parsing one.
var ErrValidation = errors.New("invalid configuration")

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return errors.Join(ErrValidation, err)
	}

	return nil
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line flag parsing; used by tests,
// where the test binary owns the flag set.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds the configuration: defaults, then flags, then .env, then
// environment variables, and finally validation. A missing session secret is
// a validation failure, so the caller aborts startup.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{
		RunAddr:             ":8080",
		ShortURLBase:        "http://localhost:8080",
		LogLevel:            "info",
		DBFileName:          "",
		DatabaseDSN:         "",
		DBConnectionTimeout: 10 * time.Second,
		MigrationsDir:       "migrations",
		SessionCookieName:   "shortie_session",
		SessionMaxAge:       DefaultSessionMaxAge,
		AppEnv:              "development",
	}
	if !options.disableFlagsParsing {
		flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
		flag.StringVar(&cfg.ShortURLBase, "b", cfg.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "logger level")
		flag.StringVar(&cfg.DBFileName, "f", cfg.DBFileName, "JSON file name with database")
		flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "A string with the database connection details")
		flag.Parse()
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		cfg.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.ShortURLBase != "" {
		cfg.ShortURLBase = valuesFromEnv.ShortURLBase
	}

	if valuesFromEnv.LogLevel != "" {
		cfg.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.DBFileName != "" {
		cfg.DBFileName = valuesFromEnv.DBFileName
	}

	if valuesFromEnv.DatabaseDSN != "" {
		cfg.DatabaseDSN = valuesFromEnv.DatabaseDSN
	}

	if valuesFromEnv.DBConnectionTimeout != 0 {
		cfg.DBConnectionTimeout = valuesFromEnv.DBConnectionTimeout
	}

	if valuesFromEnv.MigrationsDir != "" {
		cfg.MigrationsDir = valuesFromEnv.MigrationsDir
	}

	if valuesFromEnv.SessionSecret != "" {
		cfg.SessionSecret = valuesFromEnv.SessionSecret
	}

	if valuesFromEnv.SessionCookieName != "" {
		cfg.SessionCookieName = valuesFromEnv.SessionCookieName
	}

	if valuesFromEnv.SessionMaxAge != 0 {
		cfg.SessionMaxAge = valuesFromEnv.SessionMaxAge
	}

	if valuesFromEnv.AppEnv != "" {
		cfg.AppEnv = valuesFromEnv.AppEnv
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
