package container_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/km-arc/go-locator/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalled bool
	bootCalled     bool
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalled = true
	return app.Register("eager-svc", "eager", container.AsValue())
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

// deferredProvider is lazy: only registered when "deferred-svc" is first looked up.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalled    bool
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	return app.Register("deferred-svc", container.Singleton(func() string { return "deferred-value" }))
}

func (p *deferredProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc"} }

// multiProvider registers services that depend on each other.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if err := app.Register("alpha", func() string { return "α" }); err != nil {
		return err
	}
	return app.Register("beta", func(a string) string { return a + "β" }, container.WithDependencies("alpha"))
}

type failingProvider struct {
	container.BaseProvider
}

func (p *failingProvider) Register(app *container.Container) error {
	return app.Register("", "nameless", container.AsValue())
}

type bootFailProvider struct {
	container.BaseProvider
	err error
}

func (p *bootFailProvider) Register(app *container.Container) error { return nil }
func (p *bootFailProvider) Boot(app *container.Container) error     { return p.err }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !p.registerCalled {
		t.Error("Register() should be called immediately for eager providers")
	}
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	_ = reg.Register(p)

	if p.bootCalled {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}

	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if !p.bootCalled {
		t.Error("Boot() should be called after registry.Boot()")
	}
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	got := container.MustResolve[string](c, "eager-svc")
	if got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&eagerProvider{})

	_ = reg.Boot()
	if err := reg.Boot(); err != nil { // second call should be no-op
		t.Errorf("second Boot: %v", err)
	}

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	_ = reg.Register(p)
	// A second real registration would fail with ErrDuplicateName.
	if err := reg.Register(p); err != nil {
		t.Errorf("second Register of same provider: %v", err)
	}
	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1", len(reg.Providers()))
	}
}

func TestRegistry_RegisterError_Propagates(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	err := reg.Register(&failingProvider{})
	if !errors.Is(err, container.ErrInvalidKey) {
		t.Errorf("Register: got %v, want ErrInvalidKey", err)
	}
	if len(reg.Providers()) != 0 {
		t.Error("failed provider should not be listed")
	}
}

func TestRegistry_BootError_Propagates(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	boom := errors.New("boom")
	_ = reg.Register(&bootFailProvider{err: boom})

	if err := reg.Boot(); !errors.Is(err, boom) {
		t.Errorf("Boot: got %v, want boom", err)
	}
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	if p.registerCalls != 0 {
		t.Error("deferred provider Register() should not be called until Get()")
	}
	if c.Has("deferred-svc") {
		t.Error("deferred-svc should not be registered yet")
	}
}

func TestRegistry_DeferredProvider_RegisteredOnFirstGet(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	got := container.MustResolve[string](c, "deferred-svc")
	if got != "deferred-value" {
		t.Errorf("deferred-svc: got %q, want 'deferred-value'", got)
	}
	_ = container.MustResolve[string](c, "deferred-svc")

	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
	if !p.bootCalled {
		t.Error("deferred provider loaded after Boot() should be booted")
	}
}

func TestRegistry_DeferredProvider_LoadedAsDependency(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&deferredProvider{})

	err := c.Register("upper", func(s string) int { return len(s) }, container.WithDependencies("deferred-svc"))
	if err != nil {
		t.Fatalf("Register with deferred dependency: %v", err)
	}
	if got := container.MustResolve[int](c, "upper"); got != len("deferred-value") {
		t.Errorf("upper: got %d", got)
	}
}

func TestRegistry_UnknownName_StillNotFound(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&deferredProvider{})

	if _, err := c.Get("nobody-provides-this"); !errors.Is(err, container.ErrServiceNotFound) {
		t.Errorf("got %v, want ErrServiceNotFound", err)
	}
}

func TestRegistry_DeferredProvider_LoadedBeforeBoot_IsBooted(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	_ = reg.Register(p)

	_ = container.MustResolve[string](c, "deferred-svc")
	if p.bootCalled {
		t.Error("deferred provider loaded before Boot() should not boot yet")
	}

	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if !p.bootCalled {
		t.Error("deferred provider loaded before Boot() should be booted by Boot()")
	}
	if len(reg.Providers()) != 0 {
		t.Errorf("Providers(): got %d, want 0 (eager only)", len(reg.Providers()))
	}
}

// flakyProvider registers "flaky-a", then fails before "flaky-b" until
// fail is cleared.
type flakyProvider struct {
	container.BaseProvider
	fail          bool
	registerCalls int
}

func (p *flakyProvider) Register(app *container.Container) error {
	p.registerCalls++
	if err := app.Register("flaky-a", "a", container.AsValue()); err != nil {
		return err
	}
	if p.fail {
		return errors.New("boom")
	}
	return app.Register("flaky-b", "b", container.AsValue())
}

func (p *flakyProvider) IsDeferred() bool   { return true }
func (p *flakyProvider) Provides() []string { return []string{"flaky-a", "flaky-b"} }

func TestRegistry_DeferredProvider_FailedLoadIsRolledBackAndRetried(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	p := &flakyProvider{fail: true}
	_ = reg.Register(p)

	for i := 0; i < 2; i++ {
		_, err := c.Get("flaky-b")
		if err == nil || !strings.Contains(err.Error(), "boom") {
			t.Fatalf("Get #%d: got %v, want the provider's error", i+1, err)
		}
		if c.Has("flaky-a") {
			t.Fatalf("Get #%d: flaky-a should be rolled back", i+1)
		}
	}

	p.fail = false
	if got := container.MustResolve[string](c, "flaky-b"); got != "b" {
		t.Errorf("flaky-b: got %q, want 'b'", got)
	}
	if !c.Has("flaky-a") {
		t.Error("flaky-a should be registered after a successful load")
	}
	if p.registerCalls != 3 {
		t.Errorf("Register() calls: got %d, want 3", p.registerCalls)
	}
}

func TestRegistry_DeferredName_IsTakenForDirectRegister(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	p := &deferredProvider{}
	_ = reg.Register(p)

	err := c.Register("deferred-svc", "mine", container.AsValue())
	if !errors.Is(err, container.ErrDuplicateName) {
		t.Fatalf("Register over a deferred name: got %v, want ErrDuplicateName", err)
	}
	if got := container.MustResolve[string](c, "deferred-svc"); got != "deferred-value" {
		t.Errorf("deferred-svc: got %q, want the provider's value", got)
	}
	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&multiProvider{})
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	if got := container.MustResolve[string](c, "alpha"); got != "α" {
		t.Errorf("alpha: got %q, want 'α'", got)
	}
	if got := container.MustResolve[string](c, "beta"); got != "αβ" {
		t.Errorf("beta: got %q, want 'αβ'", got)
	}
	if got := container.MustResolve[string](c, "eager-svc"); got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsEagerOnes(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&eagerProvider{})
	_ = reg.Register(&deferredProvider{}) // deferred, so not in Providers()

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1 (eager only)", len(reg.Providers()))
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	c := container.New()

	if err := p.Boot(c); err != nil {
		t.Errorf("BaseProvider.Boot() should return nil, got %v", err)
	}
	if p.IsDeferred() {
		t.Error("BaseProvider.IsDeferred() should be false")
	}
	if len(p.Provides()) != 0 {
		t.Error("BaseProvider.Provides() should return empty slice")
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Boot() // boot before registering

	p := &eagerProvider{}
	_ = reg.Register(p) // register after boot

	if !p.bootCalled {
		t.Error("provider registered after Boot() should be booted immediately")
	}
}
