package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/2beens/liftbook/pkg"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	BaseURL string `toml:"base_url"`
	// mobile app deep link scheme, e.g. "liftbook"
	AppScheme string `toml:"app_scheme"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	AutoMigrate    bool   `toml:"auto_migrate"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	AccessTokenTTL         Duration `toml:"access_token_ttl"`
	RefreshTokenTTL        Duration `toml:"refresh_token_ttl"`
	AuthRateLimitPerMin    int      `toml:"auth_rate_limit_per_min"`
	RequireAuthForWorkouts bool     `toml:"require_auth_for_workouts"`
	// reverse proxies allowed to set X-Real-Ip / X-Forwarded-For
	TrustedProxies       []string       `toml:"trusted_proxies"`
	TrustedProxyPrefixes []netip.Prefix `toml:"-"`

	// set from the environment, never from the file
	Environment string  `toml:"-"`
	Secrets     Secrets `toml:"-"`
}

// Secrets are read from the environment only.
type Secrets struct {
	DatabaseURL        string
	JWTSecret          string
	RedisPassword      string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	AppleClientID      string
	AppleTeamID        string
	AppleKeyID         string
	ApplePrivateKey    string
	SentryDSN          string
}

// Duration lets TOML carry values like "15m" or "2160h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

// Load reads the TOML file, picks the section for env, applies defaults
// and fills the secrets from the environment.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.Secrets = SecretsFromEnv()

	if cfg.TrustedProxyPrefixes, err = pkg.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.AccessTokenTTL.Duration == 0 {
		c.AccessTokenTTL.Duration = 30 * time.Minute
	}
	if c.RefreshTokenTTL.Duration == 0 {
		c.RefreshTokenTTL.Duration = 90 * 24 * time.Hour
	}
	if c.AuthRateLimitPerMin == 0 {
		c.AuthRateLimitPerMin = 30
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "9090"
	}
}

func SecretsFromEnv() Secrets {
	return Secrets{
		DatabaseURL:        os.Getenv("LIFTBOOK_DATABASE_URL"),
		JWTSecret:          os.Getenv("LIFTBOOK_JWT_SECRET"),
		RedisPassword:      os.Getenv("LIFTBOOK_REDIS_PASS"),
		GoogleClientID:     os.Getenv("LIFTBOOK_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("LIFTBOOK_GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("LIFTBOOK_GOOGLE_REDIRECT_URI"),
		AppleClientID:      os.Getenv("LIFTBOOK_APPLE_CLIENT_ID"),
		AppleTeamID:        os.Getenv("LIFTBOOK_APPLE_TEAM_ID"),
		AppleKeyID:         os.Getenv("LIFTBOOK_APPLE_KEY_ID"),
		// PEM blocks in env files usually come with escaped newlines
		ApplePrivateKey: strings.ReplaceAll(os.Getenv("LIFTBOOK_APPLE_PRIVATE_KEY"), `\n`, "\n"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
	}
}

// MissingSecrets lists the secrets the API cannot run without.
func (s Secrets) MissingSecrets() []string {
	var missing []string
	if s.JWTSecret == "" {
		missing = append(missing, "LIFTBOOK_JWT_SECRET")
	}
	if s.GoogleClientID == "" {
		missing = append(missing, "LIFTBOOK_GOOGLE_CLIENT_ID")
	}
	if s.GoogleClientSecret == "" {
		missing = append(missing, "LIFTBOOK_GOOGLE_CLIENT_SECRET")
	}
	if s.AppleClientID == "" {
		missing = append(missing, "LIFTBOOK_APPLE_CLIENT_ID")
	}
	return missing
}

var ErrMissingSecrets = errors.New("missing required secrets")

func (s Secrets) Validate() error {
	if missing := s.MissingSecrets(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingSecrets, missing)
	}
	return nil
}
