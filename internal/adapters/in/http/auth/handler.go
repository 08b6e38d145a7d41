// Package auth implements the HTTP adapter for console authentication.
package auth

import (
	"errors"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/adapters/in/http/middleware"
	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Handler serves /api/auth/*.
type Handler struct {
	authSvc  in.AuthService
	sessions *Sessions
	limiter  out.RateLimiter
	trusted  []netip.Prefix
}

// NewHandler creates an auth handler. A nil limiter disables login throttling.
func NewHandler(authSvc in.AuthService, sessions *Sessions, limiter out.RateLimiter, trusted []netip.Prefix) *Handler {
	return &Handler{
		authSvc:  authSvc,
		sessions: sessions,
		limiter:  limiter,
		trusted:  trusted,
	}
}

// Routes mounts the auth endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := logging.CtxWithFields(r.Context(), map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "http",
		logging.FieldHandler: "auth",
		logging.FieldAction:  "login",
	})
	log := logging.FromCtx(ctx)

	clientIP := middleware.GetClientIP(r, h.trusted)
	if h.limiter != nil && !h.limiter.Allow(ctx, "login:"+clientIP) {
		log.Warn().Str(logging.FieldClientIP, clientIP).Msg("login rate limit exceeded")
		httputil.WriteDomainError(w, domain.ErrTooManyAttempts)
		return
	}

	var req dto.LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteDomainError(w, domain.NewValidationError("credentials", "username and password are required"))
		return
	}

	identity, err := h.authSvc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) && h.sessions.Identity(r).Authenticated {
			if clearErr := h.sessions.Clear(w, r); clearErr != nil {
				log.Warn().Err(clearErr).Msg("failed to clear session after failed login")
			}
		}
		httputil.WriteDomainError(w, err)
		return
	}

	if err := h.sessions.Save(w, r, identity.Username); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Info().Str(logging.FieldUsername, identity.Username).Msg("login succeeded")
	httputil.WriteJSON(w, http.StatusOK, dto.NewIdentityResponse(identity))
}

// logout is idempotent: it succeeds without a session.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Identity(r)

	if err := h.sessions.Clear(w, r); err != nil {
		logging.FromCtx(r.Context()).Warn().Err(err).Msg("failed to clear session")
	}
	if identity.Authenticated {
		h.authSvc.Logout(r.Context(), identity.Username)
	}

	httputil.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Success: true})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, dto.NewIdentityResponse(h.sessions.Identity(r)))
}
