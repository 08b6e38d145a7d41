package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func wiredConfig(t *testing.T) Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := validConfig()
	cfg.Projects.Root = t.TempDir()
	cfg.Projects.ComposeFilename = "docker-compose.yml"
	cfg.Auth.PasswordHash = string(hash)
	cfg.Auth.SessionMaxAge = time.Hour
	// Nothing listens on port 1, so the engine is unreachable.
	cfg.Docker.Host = "tcp://127.0.0.1:1"
	cfg.Docker.MinAPIVersion = "1.41"
	cfg.Registry.URL = "http://127.0.0.1:1"
	cfg.Registry.Timeout = time.Second
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

func TestNew_ToleratesUnreachableEngine(t *testing.T) {
	a, err := New(context.Background(), wiredConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNew_RejectsBadRegistryURL(t *testing.T) {
	cfg := wiredConfig(t)
	cfg.Registry.URL = "ftp://registry"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, server, ln, time.Second, zerolog.Nop())
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a := &App{log: zerolog.Nop(), handler: http.NotFoundHandler()}
	a.cfg.Server.Addr = ln.Addr().String()

	err = a.Serve(context.Background())
	assert.Error(t, err)
}
