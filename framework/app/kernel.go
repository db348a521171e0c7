package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/providers"
	"github.com/km-arc/go-locator/framework/routing"
)

// shutdownTimeout bounds graceful shutdown once the Run context is done.
const shutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Register(name, service, ...) and app.Get(name) directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	routerOnce sync.Once
	router     *routing.Router
	routerErr  error
}

// New creates the application and registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LogServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// RegisterProvider adds a ServiceProvider to the application.
func (a *Application) RegisterProvider(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the shared *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Router returns the router Run serves. "http" builds a new router on every
// Get, so the first one is kept for the application's lifetime.
func (a *Application) Router() (*routing.Router, error) {
	a.routerOnce.Do(func() {
		a.router, a.routerErr = container.Resolve[*routing.Router](a.Container, "http")
	})
	return a.router, a.routerErr
}

// Run boots the application (if needed) and serves on APP_PORT until ctx is
// done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	addr := ":" + a.Config().App.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the router on ln until ctx is done, then shuts down
// gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.Boot(); err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	cfg := a.Config()
	log := a.Logger()
	srv := &http.Server{Handler: router}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	log.Info("application started",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", ln.Addr().String()),
	)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("application stopping", zap.String("app", cfg.App.Name))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	_ = log.Sync()
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
