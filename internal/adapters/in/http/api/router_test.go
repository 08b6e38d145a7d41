package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/stevedore/internal/adapters/in/http/auth"
	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/boundaries/in/mocks"
	"github.com/bnema/stevedore/internal/domain"
)

type testEnv struct {
	projects   *mocks.MockProjectService
	containers *mocks.MockContainerService
	registry   *mocks.MockRegistryService
	authSvc    *mocks.MockAuthService
	metrics    *telemetry.Metrics
	router     http.Handler
	cookie     *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		projects:   &mocks.MockProjectService{},
		containers: &mocks.MockContainerService{},
		registry:   &mocks.MockRegistryService{},
		authSvc:    &mocks.MockAuthService{},
	}

	sessions, err := auth.NewSessions(auth.SessionConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		MaxAge: time.Hour,
	})
	require.NoError(t, err)

	env.metrics, err = telemetry.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	env.router = NewRouter(RouterConfig{
		API:      NewHandler(env.projects, env.containers, env.registry),
		Auth:     auth.NewHandler(env.authSvc, sessions, nil, nil),
		Sessions: sessions,
		Metrics:  env.metrics,
		Log:      zerolog.Nop(),
	})

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), "admin"))
	env.cookie = rec.Result().Cookies()[0]

	t.Cleanup(func() {
		env.projects.AssertExpectations(t)
		env.containers.AssertExpectations(t)
		env.registry.AssertExpectations(t)
	})
	return env
}

// do sends an authenticated request.
func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.AddCookie(e.cookie)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndMetricsArePublic(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stevedore_http_requests_total")
}

func TestRouter_Readyz(t *testing.T) {
	env := newTestEnv(t)
	env.containers.On("Ready", mock.Anything).Return(nil).Once()
	env.containers.On("Ready", mock.Anything).Return(domain.EngineFailure("ping", errors.New("dial unix"))).Once()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial unix")
}

func TestRouter_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/api/projects", "/api/containers", "/api/registry/catalog"} {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	}
}

func TestRouter_AuthRoutesArePublic(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false,"username":""}`, rec.Body.String())
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = env.do(http.MethodPatch, "/api/projects", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_InternalErrorsDoNotLeak(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("ListProjects", mock.Anything).Return(nil, errors.New("open /srv/secret: permission denied"))

	rec := env.do(http.MethodGet, "/api/projects", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
