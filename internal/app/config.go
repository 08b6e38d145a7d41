// Package app provides the application initialization and wiring.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	httpauth "github.com/bnema/stevedore/internal/adapters/in/http/auth"
	"github.com/bnema/stevedore/internal/adapters/in/http/middleware"
)

// EnvPrefix prefixes every environment override, e.g. STEVEDORE_SERVER_ADDR.
const EnvPrefix = "STEVEDORE"

// Config holds the application configuration.
type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		AllowedCIDRs    []string      `mapstructure:"allowed_cidrs"`
		TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	} `mapstructure:"server"`

	Projects struct {
		Root            string `mapstructure:"root"`
		ComposeFilename string `mapstructure:"compose_filename"`
	} `mapstructure:"projects"`

	Docker struct {
		Host          string `mapstructure:"host"` // empty: DOCKER_HOST or the default socket
		MinAPIVersion string `mapstructure:"min_api_version"`
	} `mapstructure:"docker"`

	Registry struct {
		URL         string        `mapstructure:"url"`
		Username    string        `mapstructure:"username"`
		Password    string        `mapstructure:"password"`
		Timeout     time.Duration `mapstructure:"timeout"`
		Concurrency int           `mapstructure:"concurrency"`
	} `mapstructure:"registry"`

	Auth struct {
		Username      string        `mapstructure:"username"`
		PasswordHash  string        `mapstructure:"password_hash"` // bcrypt
		SessionSecret string        `mapstructure:"session_secret"`
		SessionMaxAge time.Duration `mapstructure:"session_max_age"`
		CookieSecure  bool          `mapstructure:"cookie_secure"`
		CookieName    string        `mapstructure:"cookie_name"`
	} `mapstructure:"auth"`

	RateLimit struct {
		Backend    string  `mapstructure:"backend"` // memory or redis
		LoginRPS   float64 `mapstructure:"login_rps"`
		LoginBurst int     `mapstructure:"login_burst"`
		RedisAddr  string  `mapstructure:"redis_addr"`
	} `mapstructure:"ratelimit"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"metrics"`

	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_cidrs", []string{})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("projects.root", "./projects")
	v.SetDefault("projects.compose_filename", "docker-compose.yml")
	v.SetDefault("docker.host", "")
	v.SetDefault("docker.min_api_version", "1.41")
	v.SetDefault("registry.url", "http://localhost:5000")
	v.SetDefault("registry.username", "")
	v.SetDefault("registry.password", "")
	v.SetDefault("registry.timeout", "10s")
	v.SetDefault("registry.concurrency", 8)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.session_max_age", "24h")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.cookie_name", "stevedore_session")
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.login_rps", 0.2)
	v.SetDefault("ratelimit.login_burst", 5)
	v.SetDefault("ratelimit.redis_addr", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)
}

// LoadConfig reads defaults, the optional config file, a .env file in the
// working directory and STEVEDORE_* environment variables, in increasing
// order of precedence.
func LoadConfig(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate reports every configuration problem that prevents serving.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Projects.Root == "" {
		errs = append(errs, errors.New("projects.root is required"))
	}
	if c.Auth.Username == "" {
		errs = append(errs, errors.New("auth.username is required"))
	}
	if c.Auth.PasswordHash == "" {
		errs = append(errs, errors.New("auth.password_hash is required (generate one with `stevedore hash-password`)"))
	}
	if len(c.Auth.SessionSecret) < httpauth.MinSecretLength {
		errs = append(errs, fmt.Errorf("auth.session_secret must be at least %d bytes", httpauth.MinSecretLength))
	}
	if c.Registry.Concurrency < 1 {
		errs = append(errs, errors.New("registry.concurrency must be at least 1"))
	}
	if c.RateLimit.LoginRPS <= 0 {
		errs = append(errs, errors.New("ratelimit.login_rps must be positive"))
	}
	if c.RateLimit.LoginBurst < 1 {
		errs = append(errs, errors.New("ratelimit.login_burst must be at least 1"))
	}
	if c.RateLimit.Backend == "redis" && c.RateLimit.RedisAddr == "" {
		errs = append(errs, errors.New("ratelimit.redis_addr is required for the redis backend"))
	}
	if _, err := middleware.ParsePrefixes(c.Server.AllowedCIDRs); err != nil {
		errs = append(errs, fmt.Errorf("server.allowed_cidrs: %w", err))
	}
	if _, err := middleware.ParsePrefixes(c.Server.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("server.trusted_proxies: %w", err))
	}

	return errors.Join(errs...)
}
