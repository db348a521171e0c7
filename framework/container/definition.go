package container

// ── Register options ──────────────────────────────────────────────────────────

// RegisterOption tunes a single Register call.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	deps   []any
	method string
	value  bool
}

// WithDependencies declares the constructor arguments, in order. Strings name
// other services; anything else is passed through as a literal.
//
//	c.Register("mailer", NewMailer, container.WithDependencies("config", "logger", 3))
func WithDependencies(deps ...any) RegisterOption {
	return func(o *registerOptions) { o.deps = append(o.deps, deps...) }
}

// WithMethod makes the named method of the service act as its factory.
//
//	c.Register("conn", pool, container.WithMethod("Acquire"), container.WithDependencies("config"))
func WithMethod(name string) RegisterOption {
	return func(o *registerOptions) { o.method = name }
}

// AsValue registers the service as a plain value: Get returns it untouched
// and its dependencies are never built.
//
//	c.Register("clock", time.Now, container.AsValue())
func AsValue() RegisterOption {
	return func(o *registerOptions) { o.value = true }
}

// ── Definition ────────────────────────────────────────────────────────────────

// Definition is the fluent form of Register.
//
//	err := c.Define("Bar").Needs("Foo").Register(NewBar)
//	err := c.Define("conn").Needs("config").Method("Acquire").Register(pool)
//	err := c.Define("config").Value().Register(cfg)
type Definition struct {
	container *Container
	name      string
	opts      []RegisterOption
}

// Define starts a definition for name.
func (c *Container) Define(name string) *Definition {
	return &Definition{container: c, name: name}
}

// Needs appends dependencies; see WithDependencies.
func (d *Definition) Needs(deps ...any) *Definition {
	d.opts = append(d.opts, WithDependencies(deps...))
	return d
}

// Method names the factory method; see WithMethod.
func (d *Definition) Method(name string) *Definition {
	d.opts = append(d.opts, WithMethod(name))
	return d
}

// Value marks the service as a plain value; see AsValue.
func (d *Definition) Value() *Definition {
	d.opts = append(d.opts, AsValue())
	return d
}

// Register stores service with the accumulated options.
func (d *Definition) Register(service any) error {
	return d.container.Register(d.name, service, d.opts...)
}
