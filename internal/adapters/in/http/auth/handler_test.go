package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/stevedore/internal/adapters/out/ratelimit"
	"github.com/bnema/stevedore/internal/boundaries/in/mocks"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions(SessionConfig{Secret: testSecret, MaxAge: time.Hour})
	require.NoError(t, err)
	return s
}

func newTestRouter(t *testing.T, authSvc *mocks.MockAuthService, limiter out.RateLimiter) (http.Handler, *Sessions) {
	t.Helper()
	sessions := newTestSessions(t)
	h := NewHandler(authSvc, sessions, limiter, nil)
	r := chi.NewRouter()
	r.Route("/api/auth", h.Routes)
	return r, sessions
}

func postLogin(handler http.Handler, body, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewSessions_ShortSecret(t *testing.T) {
	_, err := NewSessions(SessionConfig{Secret: "short"})
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "secret").
		Return(domain.Identity{Authenticated: true, Username: "admin"}, nil)

	router, sessions := newTestRouter(t, authSvc, nil)
	rec := postLogin(router, `{"username":"admin","password":"secret"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"username":"admin"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "stevedore_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, domain.Identity{Authenticated: true, Username: "admin"}, sessions.Identity(req))
	authSvc.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "wrong").Return(domain.Anonymous, domain.ErrInvalidCredentials)

	router, _ := newTestRouter(t, authSvc, nil)
	rec := postLogin(router, `{"username":"admin","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid username or password"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_FailureEndsExistingSession(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "secret").
		Return(domain.Identity{Authenticated: true, Username: "admin"}, nil)
	authSvc.On("Login", mock.Anything, "admin", "wrong").Return(domain.Anonymous, domain.ErrInvalidCredentials)

	router, sessions := newTestRouter(t, authSvc, nil)
	rec := postLogin(router, `{"username":"admin","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := rec.Result().Cookies()
	require.Len(t, loggedIn, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.AddCookie(loggedIn[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "stevedore_session", cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(cleared[0])
	assert.Equal(t, domain.Anonymous, sessions.Identity(me))
	authSvc.AssertExpectations(t)
}

func TestLogin_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t, &mocks.MockAuthService{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"username":`},
		{"missing password", `{"username":"admin"}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(router, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "wrong").Return(domain.Anonymous, domain.ErrInvalidCredentials)

	limiter := ratelimit.NewMemoryStore(0.001, 2, zerolog.Nop())
	router, _ := newTestRouter(t, authSvc, limiter)

	for i := 0; i < 2; i++ {
		rec := postLogin(router, `{"username":"admin","password":"wrong"}`, "10.0.0.1:1234")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := postLogin(router, `{"username":"admin","password":"wrong"}`, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many login attempts"}`, rec.Body.String())

	// Another client keeps its own budget.
	rec = postLogin(router, `{"username":"admin","password":"wrong"}`, "10.0.0.2:1234")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	authSvc.AssertNumberOfCalls(t, "Login", 3)
}

func TestLogout(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "secret").
		Return(domain.Identity{Authenticated: true, Username: "admin"}, nil)
	authSvc.On("Logout", mock.Anything, "admin").Return()

	router, _ := newTestRouter(t, authSvc, nil)
	login := postLogin(router, `{"username":"admin","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(login.Result().Cookies()[0])
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	authSvc.AssertCalled(t, "Logout", mock.Anything, "admin")
}

func TestLogout_WithoutSession(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	router, _ := newTestRouter(t, authSvc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	authSvc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	router, _ := newTestRouter(t, &mocks.MockAuthService{}, nil)

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"username":""}`, rec.Body.String())
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "stevedore_session", Value: "forged"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"username":""}`, rec.Body.String())
	})
}

func TestSessions_CookieFromOtherSecretRejected(t *testing.T) {
	authSvc := &mocks.MockAuthService{}
	authSvc.On("Login", mock.Anything, "admin", "secret").
		Return(domain.Identity{Authenticated: true, Username: "admin"}, nil)
	router, _ := newTestRouter(t, authSvc, nil)
	login := postLogin(router, `{"username":"admin","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, login.Code)

	other, err := NewSessions(SessionConfig{Secret: strings.Repeat("z", 32)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(login.Result().Cookies()[0])
	assert.Equal(t, domain.Anonymous, other.Identity(req))
}
