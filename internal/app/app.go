package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/bnema/stevedore/internal/adapters/in/http/api"
	httpauth "github.com/bnema/stevedore/internal/adapters/in/http/auth"
	"github.com/bnema/stevedore/internal/adapters/in/http/middleware"
	"github.com/bnema/stevedore/internal/adapters/out/docker"
	"github.com/bnema/stevedore/internal/adapters/out/eventbus"
	"github.com/bnema/stevedore/internal/adapters/out/filesystem"
	"github.com/bnema/stevedore/internal/adapters/out/ratelimit"
	"github.com/bnema/stevedore/internal/adapters/out/registryclient"
	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
	"github.com/bnema/stevedore/internal/usecase/auth"
	"github.com/bnema/stevedore/internal/usecase/container"
	"github.com/bnema/stevedore/internal/usecase/projects"
	"github.com/bnema/stevedore/internal/usecase/registry"
)

const eventBufferSize = 256

// App is a fully wired stevedore server.
type App struct {
	cfg     Config
	log     zerolog.Logger
	handler http.Handler
	bus     *eventbus.InMemory
	closers []io.Closer
}

// Run loads the configuration and serves until ctx is canceled or the
// process receives SIGINT or SIGTERM.
func Run(ctx context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}, os.Stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str(logging.FieldLayer, "app").Msg("failed to initialize")
		return err
	}
	defer application.Close()

	return application.Serve(ctx)
}

// New wires every adapter and use case from cfg.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg
	log := a.log

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		m, err := telemetry.NewMetrics(nil)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		metrics = m
	}

	a.bus = eventbus.NewInMemory(eventBufferSize, log)
	if metrics != nil {
		a.bus.SetMetrics(metrics)
	}
	if err := a.bus.Subscribe(eventbus.NewAuditLogger(log)); err != nil {
		return err
	}
	if metrics != nil {
		if err := a.bus.Subscribe(eventbus.NewOperationCounter(metrics)); err != nil {
			return err
		}
	}
	if err := a.bus.Start(); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}

	store, err := filesystem.NewComposeStore(afero.NewOsFs(), cfg.Projects.Root, cfg.Projects.ComposeFilename, log)
	if err != nil {
		return err
	}

	runtime, err := docker.NewRuntime(cfg.Docker.Host)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, runtime)

	// An unreachable engine is tolerated at startup; /readyz reports it.
	if err := runtime.CheckAPIVersion(ctx, cfg.Docker.MinAPIVersion); err != nil {
		if !errors.Is(err, domain.ErrEngine) {
			return err
		}
		log.Warn().Err(err).Str(logging.FieldLayer, "app").Msg("container engine unreachable at startup")
	}

	registryOpts := []registryclient.ClientOption{registryclient.WithTimeout(cfg.Registry.Timeout)}
	if cfg.Registry.Username != "" {
		registryOpts = append(registryOpts, registryclient.WithBasicAuth(cfg.Registry.Username, cfg.Registry.Password))
	}
	registryClient, err := registryclient.NewClient(cfg.Registry.URL, registryOpts...)
	if err != nil {
		return err
	}

	limiter, err := ratelimit.NewStore(ctx, ratelimit.Config{
		Backend:   cfg.RateLimit.Backend,
		RPS:       cfg.RateLimit.LoginRPS,
		Burst:     cfg.RateLimit.LoginBurst,
		RedisAddr: cfg.RateLimit.RedisAddr,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	if closer, ok := limiter.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}

	authSvc, err := auth.NewService(auth.Config{
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
	}, a.bus)
	if err != nil {
		return err
	}

	sessions, err := httpauth.NewSessions(httpauth.SessionConfig{
		Secret:     cfg.Auth.SessionSecret,
		CookieName: cfg.Auth.CookieName,
		MaxAge:     cfg.Auth.SessionMaxAge,
		Secure:     cfg.Auth.CookieSecure,
	})
	if err != nil {
		return err
	}

	allowed, err := middleware.ParsePrefixes(cfg.Server.AllowedCIDRs)
	if err != nil {
		return err
	}
	trusted, err := middleware.ParsePrefixes(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	a.handler = api.NewRouter(api.RouterConfig{
		API: api.NewHandler(
			projects.NewService(store, runtime, a.bus),
			container.NewService(runtime, a.bus),
			registry.NewService(registryClient, cfg.Registry.Concurrency),
		),
		Auth:           httpauth.NewHandler(authSvc, sessions, limiter, trusted),
		Sessions:       sessions,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		AllowedCIDRs:   allowed,
		TrustedProxies: trusted,
		Log:            log,
	})

	return nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close stops the event bus and releases engine and backend clients.
func (a *App) Close() {
	if a.bus != nil {
		if err := a.bus.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("failed to stop event bus")
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close resource")
		}
	}
	a.closers = nil
}
