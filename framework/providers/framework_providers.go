package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/inspect"
	"github.com/km-arc/go-locator/framework/logging"
	"github.com/km-arc/go-locator/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads and validates the application configuration
// from .env and binds it into the container.
//
// Bound names:
//   - "config"  → *config.Config  (value)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	cfg := config.Load(p.EnvFiles...)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return c.Register("config", cfg, container.AsValue())
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider registers the zap logger, built once from "config".
// Boot hands the same logger to the container for registry events.
//
// Bound names:
//   - "logger"  → *zap.Logger  (singleton)
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(c *container.Container) error {
	return c.Register("logger", container.Singleton(newLogger), container.WithDependencies("config"))
}

func (p *LogServiceProvider) Boot(c *container.Container) error {
	log, err := container.Resolve[*zap.Logger](c, "logger")
	if err != nil {
		return err
	}
	c.UseLogger(log.Named("container"))
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Every Get builds a fresh,
// empty router.
//
// Bound names:
//   - "router"  → *routing.Router  (new)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	return c.Register("router", routing.New, container.WithDependencies("logger"))
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider is deferred: nothing is registered until "http" or
// "inspector" is first looked up.
//
// Bound names:
//   - "inspector"  → *inspect.Inspector  (value)
//   - "http"       → *routing.Router with /services mounted  (custom: Mount)
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(c *container.Container) error {
	insp := inspect.New(c)
	if err := c.Register("inspector", insp, container.AsValue()); err != nil {
		return err
	}
	return c.Register("http", insp,
		container.WithMethod("Mount"),
		container.WithDependencies("router", "config"),
	)
}

func (p *InspectServiceProvider) IsDeferred() bool { return true }

func (p *InspectServiceProvider) Provides() []string {
	return []string{"inspector", "http"}
}
