package container

import (
	"errors"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a named service registry and resolver.
//
// It supports:
//   - Register (constructor, instance provider, custom factory method, plain value)
//   - Get / Resolve (generic)
//   - Destroy / Flush
//   - Has / Names / Describe / Services (inspection)
//
// Instances are not cached: every Get constructs a fresh graph, except where
// the service itself memoizes (see Singleton).
type Container struct {
	mu sync.RWMutex

	// name → descriptor
	services map[string]*descriptor

	// registration order, used for Destroy positions and listings
	order []string

	// called with a name that is not registered; reports whether it
	// registered the name (used by deferred providers)
	missing func(name string) (bool, error)

	log *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registry events. Defaults to a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		services: make(map[string]*descriptor),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseLogger swaps the registry logger once one can be built, typically from
// a provider's Boot. A nil l restores the no-op logger.
func (c *Container) UseLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.mu.Lock()
	c.log = l
	c.mu.Unlock()
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores service under name. The construction strategy is decided
// here and never changes; string dependencies must already be registered.
//
//	c.Register("Foo", NewFoo)
//	c.Register("Bar", NewBar, container.WithDependencies("Foo"))
//	c.Register("pool", poolFactory, container.WithMethod("Open"), container.WithDependencies("config", 8))
//	c.Register("config", cfg, container.AsValue())
//
// Register is all-or-nothing: on error the entry for name is not added. Looking
// up name or its dependencies may load deferred providers.
func (c *Container) Register(name string, service any, opts ...RegisterOption) error {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	if name == "" {
		return newServiceError(name, "register", errors.Join(ErrDuplicateName, ErrInvalidKey))
	}

	// A name owned by a deferred provider is taken too: lookup loads it.
	if _, found, err := c.lookup(name); err != nil {
		return newServiceError(name, "register", err)
	} else if found {
		return newServiceError(name, "register", ErrDuplicateName)
	}

	strategy, err := detectStrategy(service, &o)
	if err != nil {
		return newServiceError(name, "register", err)
	}

	// Deferred providers may register dependencies on lookup, so resolve them
	// before taking the write lock.
	deps := make([]any, 0, len(o.deps))
	for _, dep := range o.deps {
		depName, ok := dep.(string)
		if !ok {
			deps = append(deps, dep)
			continue
		}
		ref, found, err := c.lookup(depName)
		if err != nil {
			return newServiceError(name, "register", err)
		}
		if !found {
			return newServiceError(name, "register",
				detailf(ErrUnresolvedDependency, "cannot find the dependency %q", depName))
		}
		deps = append(deps, ref)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[name]; exists {
		return newServiceError(name, "register", ErrDuplicateName)
	}
	c.services[name] = &descriptor{
		name:     name,
		service:  service,
		strategy: strategy,
		method:   o.method,
		deps:     deps,
	}
	c.order = append(c.order, name)

	c.log.Debug("service registered",
		zap.String("service", name),
		zap.Stringer("strategy", strategy),
		zap.Int("dependencies", len(deps)),
	)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Container) MustRegister(name string, service any, opts ...RegisterOption) {
	if err := c.Register(name, service, opts...); err != nil {
		panic(err)
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get constructs the named service with its dependencies injected.
func (c *Container) Get(name string) (any, error) {
	if name == "" {
		return nil, newServiceError(name, "get", ErrInvalidKey)
	}
	d, ok, err := c.lookup(name)
	if err != nil {
		return nil, newServiceError(name, "get", err)
	}
	if !ok {
		return nil, newServiceError(name, "get", ErrServiceNotFound)
	}
	return newResolution().instantiate(d)
}

// MustGet is like Get but panics on error.
func (c *Container) MustGet(name string) any {
	inst, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return inst
}

// lookup finds a descriptor, giving the missing hook one chance to register it.
func (c *Container) lookup(name string) (*descriptor, bool, error) {
	c.mu.RLock()
	d, ok := c.services[name]
	missing := c.missing
	c.mu.RUnlock()
	if ok || missing == nil {
		return d, ok, nil
	}
	loaded, err := missing(name)
	if err != nil || !loaded {
		return nil, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok = c.services[name]
	return d, ok, nil
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Destroy removes the named service and reports the position it held in
// registration order. found is false (and pos -1) if the name is unknown or
// empty. Services that already depend on it keep their reference and still
// resolve.
func (c *Container) Destroy(name string) (pos int, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.services[name]; !ok {
		return -1, false
	}
	pos = c.position(name)
	delete(c.services, name)
	c.order = append(c.order[:pos], c.order[pos+1:]...)

	c.log.Debug("service destroyed", zap.String("service", name), zap.Int("position", pos))
	return pos, true
}

// Flush removes every service.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[string]*descriptor)
	c.order = nil
	c.log.Debug("container flushed")
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether name is registered.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// Names returns the registered names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Describe returns the descriptor view of name.
func (c *Container) Describe(name string) (ServiceInfo, error) {
	if name == "" {
		return ServiceInfo{}, newServiceError(name, "describe", ErrInvalidKey)
	}
	if _, _, err := c.lookup(name); err != nil {
		return ServiceInfo{}, newServiceError(name, "describe", err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.services[name]
	if !ok {
		return ServiceInfo{}, newServiceError(name, "describe", ErrServiceNotFound)
	}
	return d.info(c.position(name)), nil
}

// Services describes every registered service in registration order.
func (c *Container) Services() []ServiceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ServiceInfo, 0, len(c.order))
	for i, name := range c.order {
		out = append(out, c.services[name].info(i))
	}
	return out
}

// position is the index of name in c.order (must hold mu).
func (c *Container) position(name string) int {
	for i, n := range c.order {
		if n == name {
			return i
		}
	}
	return -1
}

// onMissing installs the lookup miss hook.
func (c *Container) onMissing(fn func(name string) (bool, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing = fn
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	inst, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, newServiceError(name, "resolve",
			detailf(ErrTypeMismatch, "want %s, resolved %T", reflect.TypeOf((*T)(nil)).Elem(), inst))
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, name string) T {
	typed, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return typed
}
