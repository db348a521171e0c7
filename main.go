package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-locator/framework/app"
	"github.com/km-arc/go-locator/framework/container"
	gohttp "github.com/km-arc/go-locator/framework/http"
	"github.com/km-arc/go-locator/framework/routing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New() // loads .env automatically
	if err != nil {
		return err
	}

	if err := application.RegisterProvider(&GreetingServiceProvider{}); err != nil {
		return err
	}
	if err := application.Boot(); err != nil {
		return err
	}

	r, err := application.Router()
	if err != nil {
		return err
	}

	// GET /hello/{name} builds a fresh Greeter per request.
	r.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		g, err := container.Resolve[*Greeter](application.Container, "greeter")
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Success(map[string]any{"message": g.Greet(routing.Param(req, "name"))})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// ── Demo services ─────────────────────────────────────────────────────────────

// GreetingServiceProvider registers a greeting built from a plain value and
// the shared logger.
type GreetingServiceProvider struct {
	container.BaseProvider
}

func (p *GreetingServiceProvider) Register(c *container.Container) error {
	if err := c.Register("greeting.salutation", "Hello", container.AsValue()); err != nil {
		return err
	}
	return c.Define("greeter").
		Needs("greeting.salutation", "logger").
		Register(NewGreeter)
}

// Greeter says hello.
type Greeter struct {
	salutation string
	log        *zap.Logger
}

func NewGreeter(salutation string, log *zap.Logger) *Greeter {
	return &Greeter{salutation: salutation, log: log}
}

func (g *Greeter) Greet(name string) string {
	g.log.Debug("greeting", zap.String("name", name))
	return g.salutation + ", " + name + "!"
}
