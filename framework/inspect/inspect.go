// Package inspect serves read-only views of a container's registry, plus
// service removal when the application runs in debug mode. Responses are
// JSON unless the request accepts YAML.
//
//	GET    /services          every ServiceInfo, in registration order
//	GET    /services/{id}     one ServiceInfo
//	DELETE /services/{id}     debug only; {"name": ..., "position": n}
package inspect

import (
	"errors"
	"net/http"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	gohttp "github.com/km-arc/go-locator/framework/http"
	"github.com/km-arc/go-locator/framework/routing"
)

// Prefix is where Mount attaches the service routes.
const Prefix = "/services"

// Inspector exposes one container over HTTP. It is registered with the
// custom strategy: Mount is its factory method.
type Inspector struct {
	c *container.Container
}

// New returns an Inspector over c.
func New(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Mount attaches the service routes to r and returns it. DELETE is only
// routed when cfg.App.Debug is set.
func (i *Inspector) Mount(r *routing.Router, cfg *config.Config) *routing.Router {
	var ctl routing.ResourceController = reader{c: i.c}
	if cfg != nil && cfg.App.Debug {
		ctl = writer{reader{c: i.c}}
	}
	r.Resource(Prefix, ctl)
	return r
}

type reader struct {
	c *container.Container
}

func (h reader) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Negotiate(r, h.c.Services())
}

func (h reader) Show(w http.ResponseWriter, r *http.Request) {
	info, err := h.c.Describe(routing.Param(r, "id"))
	if err != nil {
		fail(gohttp.NewResponse(w), err)
		return
	}
	gohttp.NewResponse(w).Negotiate(r, info)
}

type writer struct {
	reader
}

func (h writer) Destroy(w http.ResponseWriter, r *http.Request) {
	name := routing.Param(r, "id")
	res := gohttp.NewResponse(w)

	pos, found := h.c.Destroy(name)
	if !found {
		res.NotFound("service " + name + " is not registered")
		return
	}
	res.Success(map[string]any{"name": name, "position": pos})
}

// fail maps container errors onto HTTP statuses.
func fail(res *gohttp.Response, err error) {
	switch {
	case errors.Is(err, container.ErrInvalidKey):
		res.BadRequest(err.Error())
	case errors.Is(err, container.ErrServiceNotFound):
		res.NotFound(err.Error())
	default:
		res.ServerError(err.Error())
	}
}
