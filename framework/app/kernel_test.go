package app_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/framework/app"
	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/routing"
)

func newApp(t *testing.T) *app.Application {
	t.Helper()
	t.Setenv("APP_NAME", "kernel-test")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_DEBUG", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	a, err := app.New("testdata/empty.env")
	require.NoError(t, err)
	return a
}

type clockProvider struct {
	container.BaseProvider
	booted bool
}

func (p *clockProvider) Register(c *container.Container) error {
	return c.Register("clock", func() time.Time { return time.Unix(0, 0).UTC() })
}

func (p *clockProvider) Boot(c *container.Container) error {
	p.booted = true
	return nil
}

func TestNew_RegistersFrameworkServices(t *testing.T) {
	a := newApp(t)

	for _, name := range []string{"config", "logger", "router"} {
		assert.True(t, a.Has(name), name)
	}
	assert.Equal(t, "kernel-test", a.Config().App.Name)
	assert.NotNil(t, a.Logger())
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	_, err := app.New("testdata/empty.env")
	assert.Error(t, err)
}

func TestEnvironmentHelpers(t *testing.T) {
	a := newApp(t)

	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsDebug())
	assert.NotEmpty(t, a.Version())
}

func TestRegisterProvider_AndBoot(t *testing.T) {
	a := newApp(t)
	p := &clockProvider{}

	require.NoError(t, a.RegisterProvider(p))
	require.NoError(t, a.Boot())
	assert.True(t, p.booted)

	got, err := container.Resolve[time.Time](a.Container, "clock")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Unix())
}

func TestEmbeddedContainer(t *testing.T) {
	a := newApp(t)

	require.NoError(t, a.Register("answer", 42, container.AsValue()))
	v, err := a.Get("answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	pos, found := a.Destroy("answer")
	assert.True(t, found)
	assert.Equal(t, 3, pos) // after config, logger, router
}

func TestRouter_IsStable(t *testing.T) {
	a := newApp(t)

	r1, err := a.Router()
	require.NoError(t, err)
	r2, err := a.Router()
	require.NoError(t, err)
	assert.Same(t, r1, r2)

	fresh := container.MustResolve[*routing.Router](a.Container, "http")
	assert.NotSame(t, r1, fresh)
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	a := newApp(t)

	r, err := a.Router()
	require.NoError(t, err)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	resp, err = http.Get(base + "/services/config")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
