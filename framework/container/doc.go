// Package container provides a named service locator with recursive
// dependency injection and a Service Provider system.
//
// # Overview
//
// A Container stores service descriptors under unique names. Get walks the
// requested service's dependencies depth-first, builds each of them in
// declaration order, and then constructs the service with the results bound
// as positional arguments.
//
// How a service is constructed is decided once, at registration:
//
//	new        the service is a function, called with the dependencies
//	singleton  the service implements InstanceProvider; Instance is called
//	custom     WithMethod("Name"): the method Name of the service is called
//	value      AsValue(): the service is returned untouched
//
// The container never caches instances. Memoization belongs to the service,
// typically through Singleton.
//
// # Registering
//
//	c := container.New()
//
//	// Constructor: func(deps...) T or func(deps...) (T, error)
//	c.Register("Foo", NewFoo)
//	c.Register("Bar", NewBar, container.WithDependencies("Foo"))
//
//	// Literal arguments are passed through as-is
//	c.Register("pool", NewPool, container.WithDependencies("config", 16))
//
//	// Self-memoizing provider
//	c.Register("db", container.Singleton(OpenDB), container.WithDependencies("config"))
//
//	// Factory method
//	c.Register("conn", pool, container.WithMethod("Acquire"))
//
//	// Plain value
//	c.Register("config", cfg, container.AsValue())
//
//	// Fluent form
//	c.Define("Baz").Needs("Foo", "Bar").Register(NewBaz)
//
// Dependency names are resolved when the dependent is registered, so
// dependencies must be registered first.
//
// # Resolving
//
//	raw, err := c.Get("Bar")
//	bar, err := container.Resolve[*Bar](c, "Bar")
//
// # Removing
//
//	pos, found := c.Destroy("Bar")
//
// # Errors
//
// Every error is a *ServiceError wrapping one of the Err* sentinels, so
// errors.Is(err, container.ErrServiceNotFound) and friends work.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.Register("mailer", NewMailer, container.WithDependencies("config"))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(c *container.Container) error {
//	    return c.Register("heavy", container.Singleton(heavySetup))
//	}
//
// Register is only called the first time "heavy" is looked up.
package container
