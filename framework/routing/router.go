package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-locator/framework/logging"
)

// Router wraps chi.Router with short registration helpers.
type Router struct {
	mux chi.Router
}

// New creates a Router with RequestID, RealIP, request logging through log
// and Recoverer. A nil log disables request logging.
func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(log))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc) { r.mux.Get(pattern, h) }

// ── Resource routes ──────────────────────────────────────────────────────────

// ResourceController serves the read side of a resource:
//
//	GET    /services         → c.Index
//	GET    /services/{id}    → c.Show
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
}

// ResourceDestroyer is implemented by controllers that also serve
//
//	DELETE /services/{id}    → c.Destroy
type ResourceDestroyer interface {
	Destroy(w http.ResponseWriter, r *http.Request)
}

// Resource registers the routes c implements under pattern.
func (r *Router) Resource(pattern string, c ResourceController) {
	r.mux.Get(pattern, c.Index)
	r.mux.Get(pattern+"/{id}", c.Show)
	if d, ok := c.(ResourceDestroyer); ok {
		r.mux.Delete(pattern+"/{id}", d.Destroy)
	}
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
