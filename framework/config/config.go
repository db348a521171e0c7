package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-locator/framework/validation"
)

// Config is the host application's typed configuration.
type Config struct {
	App AppConfig
	Log LogConfig

	// raw keeps the environment values Load read, for Validate.
	raw map[string]string
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

// rules vets the raw environment; parsing in Load falls back to defaults, so
// a typo would otherwise go unnoticed.
var rules = validation.Rules{
	"APP_NAME":   "required|max:64",
	"APP_ENV":    "required|in:local,production,testing",
	"APP_DEBUG":  "required|boolean",
	"APP_PORT":   "required|integer|between:1,65535",
	"LOG_LEVEL":  "required|in:debug,info,warn,error",
	"LOG_FORMAT": "required|in:json,console",
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	raw := map[string]string{
		"APP_NAME":   env("APP_NAME", "GoLocator"),
		"APP_ENV":    env("APP_ENV", "local"),
		"APP_DEBUG":  env("APP_DEBUG", "true"),
		"APP_PORT":   env("APP_PORT", "8000"),
		"LOG_LEVEL":  env("LOG_LEVEL", "info"),
		"LOG_FORMAT": env("LOG_FORMAT", "console"),
	}

	return &Config{
		App: AppConfig{
			Name:  raw["APP_NAME"],
			Env:   raw["APP_ENV"],
			Debug: envBool("APP_DEBUG", true),
			Port:  raw["APP_PORT"],
		},
		Log: LogConfig{
			Level:  raw["LOG_LEVEL"],
			Format: raw["LOG_FORMAT"],
		},
		raw: raw,
	}
}

// Validate checks the values Load read. A Config built by hand is checked
// against its typed fields instead.
func (c *Config) Validate() error {
	data := c.raw
	if data == nil {
		data = map[string]string{
			"APP_NAME":   c.App.Name,
			"APP_ENV":    c.App.Env,
			"APP_DEBUG":  strconv.FormatBool(c.App.Debug),
			"APP_PORT":   c.App.Port,
			"LOG_LEVEL":  c.Log.Level,
			"LOG_FORMAT": c.Log.Format,
		}
	}
	if err := validation.Make(data, rules).Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
