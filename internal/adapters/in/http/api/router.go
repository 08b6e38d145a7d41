package api

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/auth"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/adapters/in/http/middleware"
	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/logging"
)

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	API      *Handler
	Auth     *auth.Handler
	Sessions middleware.IdentityResolver

	// Metrics is optional; nil disables both collection and the endpoint.
	Metrics     *telemetry.Metrics
	MetricsPath string

	AllowedCIDRs   []netip.Prefix
	TrustedProxies []netip.Prefix
	Log            zerolog.Logger
}

// NewRouter builds the full HTTP handler: health probes, metrics,
// /api/auth and the session-protected API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestLogger(cfg.Log, cfg.TrustedProxies),
		middleware.PanicRecovery(cfg.Log),
		middleware.SecurityHeaders,
		middleware.AllowCIDRs(cfg.AllowedCIDRs, cfg.TrustedProxies, cfg.Log),
		middleware.Metrics(cfg.Metrics),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
	})
	r.Get("/readyz", cfg.API.ready)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", cfg.Auth.Routes)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(cfg.Sessions))
			cfg.API.Routes(r)
		})
	})

	return r
}

// ready reports 503 while the container engine is unreachable.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "ready", nil)
	if err := h.containers.Ready(ctx); err != nil {
		logging.FromCtx(ctx).Warn().Err(err).Msg("engine not ready")
		httputil.WriteJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "unavailable",
			Error:  "container engine unreachable",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
