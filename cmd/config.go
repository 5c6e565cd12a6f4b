package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/etnz/fiscal/fx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	EnvFXURL        = "FISCAL_FX_URL"
	EnvFXCache      = "FISCAL_FX_CACHE"
	EnvLogLevel     = "FISCAL_LOG_LEVEL"
	EnvPort         = "FISCAL_PORT"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config is the environment configuration of fisc.
type Config struct {
	FXURL        string
	FXCache      bool
	LogLevel     zerolog.Level
	Port         int
	GeminiAPIKey string
}

// LoadConfig reads the configuration from the environment, after loading
// envFile if it exists. Variables already set take precedence over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		FXURL:        getenv(EnvFXURL, fx.DefaultURL),
		FXCache:      true,
		LogLevel:     zerolog.WarnLevel,
		Port:         8080,
		GeminiAPIKey: os.Getenv(EnvGeminiAPIKey),
	}
	var err error
	if v := os.Getenv(EnvFXCache); v != "" {
		if cfg.FXCache, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvFXCache, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}
	if v := os.Getenv(EnvPort); v != "" {
		if cfg.Port, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Converter returns the currency converter configured by c.
func (c Config) Converter(log zerolog.Logger) fx.Converter {
	opts := []fx.Option{fx.WithLogger(log)}
	if c.FXCache {
		opts = append(opts, fx.WithClient(fx.Daily(log)))
	}
	return fx.NewFrankfurter(c.FXURL, opts...)
}
