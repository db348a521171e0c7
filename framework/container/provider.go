package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registration of related services.
//
// Register() is called first for every eager provider; Boot() runs after all
// of them have registered, so it is safe to Get other services there.
//
//	type StorageProvider struct{ container.BaseProvider }
//
//	func (p *StorageProvider) Register(c *container.Container) error {
//	    return c.Register("store", NewStore, container.WithDependencies("config"))
//	}
type ServiceProvider interface {
	// Register adds services to the container.
	// Do not Get other services here; use Boot() for that.
	Register(c *Container) error

	// Boot is called after all providers are registered.
	Boot(c *Container) error

	// Provides lists the names a deferred provider registers.
	// Return nil if the provider is always eager.
	Provides() []string

	// IsDeferred returns true if the provider should only be registered when
	// one of its Provides() names is first looked up.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot(), Provides() and
// IsDeferred(). Embed it and implement Register().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one
// container, loading deferred providers on demand.
type ProviderRegistry struct {
	app        *Container
	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // name → provider
	loaded     []ServiceProvider          // deferred, loaded before Boot()
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.onMissing(r.loadDeferred)
	return r
}

// Register adds a provider and calls its Register() method unless it is
// deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, name := range provider.Provides() {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		return nil
	}
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register %T: %w", provider, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	// Late providers boot immediately.
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// loadDeferred is the container miss hook: it registers the deferred
// provider owning name and boots it, now if the registry is booted, otherwise
// with the others in Boot(). If Register fails, the names it did register are
// removed and the provider stays deferred, so the next lookup retries.
func (r *ProviderRegistry) loadDeferred(name string) (bool, error) {
	r.mu.Lock()
	provider, ok := r.deferred[name]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	provides := provider.Provides()
	for _, n := range provides {
		delete(r.deferred, n)
	}
	r.mu.Unlock()

	var absent []string
	for _, n := range provides {
		if !r.app.Has(n) {
			absent = append(absent, n)
		}
	}

	if err := provider.Register(r.app); err != nil {
		for _, n := range absent {
			r.app.Destroy(n)
		}
		r.mu.Lock()
		for _, n := range provides {
			r.deferred[n] = provider
		}
		r.mu.Unlock()
		return false, fmt.Errorf("container: register deferred %T: %w", provider, err)
	}

	// Re-read booted: Boot() may have run while Register did.
	r.mu.Lock()
	booted := r.booted
	if !booted {
		r.loaded = append(r.loaded, provider)
	}
	r.mu.Unlock()

	if booted {
		if err := provider.Boot(r.app); err != nil {
			return false, fmt.Errorf("container: boot deferred %T: %w", provider, err)
		}
	}
	return true, nil
}

// Boot calls Boot() on all eager providers, then on deferred providers
// already loaded, stopping at the first error. Must be called after all
// providers have been registered; later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append(append([]ServiceProvider(nil), r.eager...), r.loaded...)
	r.loaded = nil
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
