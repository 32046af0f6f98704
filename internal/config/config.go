package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override the file.
const EnvPrefix = "POSADMIN__"

// Config is the top-level configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Session SessionConfig `koanf:"session"`
	Log     LogConfig     `koanf:"log"`
	Stub    StubConfig    `koanf:"stub"`
}

// APIConfig holds the backend connection settings used by the transport layer.
type APIConfig struct {
	BaseURL         string          `koanf:"base_url"`
	Timeout         string          `koanf:"timeout"`
	MaxRetries      int             `koanf:"max_retries"`
	RetryDelay      string          `koanf:"retry_delay"`
	UserAgent       string          `koanf:"user_agent"`
	BulkConcurrency int             `koanf:"bulk_concurrency"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig holds client-side rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// SessionConfig selects where the bearer token is persisted between runs.
type SessionConfig struct {
	Driver   string         `koanf:"driver"`
	Profile  string         `koanf:"profile"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`

	// Writer receives console output. Nil means stderr so that command
	// output on stdout stays machine-readable.
	Writer io.Writer `koanf:"-"`
}

// StubConfig holds settings of the in-memory stub backend.
type StubConfig struct {
	Host string         `koanf:"host"`
	Port int            `koanf:"port"`
	Mode string         `koanf:"mode"`
	CORS CORSConfig     `koanf:"cors"`
	Auth StubAuthConfig `koanf:"auth"`
}

// CORSConfig holds CORS middleware settings of the stub backend.
type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

// StubAuthConfig enables bearer authentication on the stub backend.
type StubAuthConfig struct {
	Enabled     bool       `koanf:"enabled"`
	JWTSecret   string     `koanf:"jwt_secret"`
	TokenExpiry string     `koanf:"token_expiry"`
	Users       []StubUser `koanf:"users"`
}

// StubUser is a login accepted by the stub backend. PasswordHash is a bcrypt hash.
type StubUser struct {
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"`
}

// Default returns the configuration used for keys absent from the file and
// the environment.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8080/",
			Timeout:         "30s",
			MaxRetries:      2,
			RetryDelay:      "1s",
			UserAgent:       "posadmin",
			BulkConcurrency: 4,
		},
		Session: SessionConfig{
			Driver:  "sqlite",
			Profile: "default",
			SQLite:  SQLiteConfig{Path: "data/session.db"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Stub: StubConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Mode: gin.ReleaseMode,
			Auth: StubAuthConfig{TokenExpiry: "8h"},
		},
	}
}

// Load reads configuration from an optional YAML file and overlays
// environment variables. Environment variables use the prefix "POSADMIN__"
// and double-underscore as the hierarchy separator. Single underscores are
// preserved as part of the key name. For example, POSADMIN__API__BASE_URL
// overrides api.base_url and POSADMIN__SESSION__SQLITE__PATH overrides
// session.sqlite.path. An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, EnvPrefix)
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return err
	}
	if err := c.Session.validate(); err != nil {
		return err
	}
	if err := c.Stub.validate(); err != nil {
		return err
	}

	// Validate log.level.
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	// Validate log.format.
	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (a *APIConfig) validate() error {
	baseURL := strings.TrimSpace(a.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", a.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", a.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: host is required", a.BaseURL)
	}
	a.BaseURL = baseURL

	a.Timeout = strings.TrimSpace(a.Timeout)
	if err := positiveDuration("api.timeout", a.Timeout); err != nil {
		return err
	}

	// retry_delay may be zero, never negative.
	a.RetryDelay = strings.TrimSpace(a.RetryDelay)
	if a.RetryDelay != "" {
		d, err := time.ParseDuration(a.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid api.retry_delay %q: %w", a.RetryDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid api.retry_delay %q: must not be negative", a.RetryDelay)
		}
	}

	if a.MaxRetries < 0 {
		return fmt.Errorf("invalid api.max_retries %d: must not be negative", a.MaxRetries)
	}
	if a.BulkConcurrency < 1 {
		return fmt.Errorf("invalid api.bulk_concurrency %d: must be positive", a.BulkConcurrency)
	}

	// Validate api.rate_limit (when enabled, rps and burst must be positive).
	if a.RateLimit.Enabled {
		if a.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid api.rate_limit.rps %v: must be positive when rate limiting is enabled", a.RateLimit.RPS)
		}
		if a.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid api.rate_limit.burst %d: must be positive when rate limiting is enabled", a.RateLimit.Burst)
		}
	}
	return nil
}

func (s *SessionConfig) validate() error {
	s.Profile = strings.TrimSpace(s.Profile)
	if s.Profile == "" {
		return fmt.Errorf("session.profile is required")
	}

	switch s.Driver {
	case "memory":
		// ok
	case "sqlite":
		sqlitePath := strings.TrimSpace(s.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("session.sqlite.path is required when driver is sqlite")
		}
		s.SQLite.Path = sqlitePath
	case "postgres":
		host := strings.TrimSpace(s.Postgres.Host)
		if host == "" {
			return fmt.Errorf("session.postgres.host is required when driver is postgres")
		}
		if s.Postgres.Port < 1 || s.Postgres.Port > 65535 {
			return fmt.Errorf("invalid session.postgres.port %d: must be between 1 and 65535", s.Postgres.Port)
		}
		user := strings.TrimSpace(s.Postgres.User)
		if user == "" {
			return fmt.Errorf("session.postgres.user is required when driver is postgres")
		}
		dbName := strings.TrimSpace(s.Postgres.DBName)
		if dbName == "" {
			return fmt.Errorf("session.postgres.dbname is required when driver is postgres")
		}
		sslMode := strings.TrimSpace(s.Postgres.SSLMode)
		switch sslMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
			// ok
		default:
			return fmt.Errorf("invalid session.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", s.Postgres.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		s.Postgres.Host = host
		s.Postgres.User = user
		s.Postgres.DBName = dbName
		s.Postgres.SSLMode = sslMode
	default:
		return fmt.Errorf("invalid session.driver %q: must be one of %q, %q, %q", s.Driver, "memory", "sqlite", "postgres")
	}

	// Validate session.pool.conn_max_lifetime (optional; must be positive if set).
	s.Pool.ConnMaxLifetime = strings.TrimSpace(s.Pool.ConnMaxLifetime)
	if lm := s.Pool.ConnMaxLifetime; lm != "" {
		if err := positiveDuration("session.pool.conn_max_lifetime", lm); err != nil {
			return err
		}
	}
	return nil
}

func (s *StubConfig) validate() error {
	mode := strings.TrimSpace(s.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		s.Mode = mode
	default:
		return fmt.Errorf("invalid stub.mode %q: must be one of %q, %q, %q", s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid stub.port %d: must be between 1 and 65535", s.Port)
	}

	host := strings.TrimSpace(s.Host)
	if host == "" {
		return fmt.Errorf("stub.host is required")
	}
	s.Host = host

	if !s.Auth.Enabled {
		return nil
	}

	secret := strings.TrimSpace(s.Auth.JWTSecret)
	if secret == "" {
		return fmt.Errorf("stub.auth.jwt_secret is required when auth is enabled")
	}
	if len(secret) < 32 {
		return fmt.Errorf("invalid stub.auth.jwt_secret: must be at least 32 characters")
	}
	if s.Mode == gin.ReleaseMode && CountSecretClasses(secret) < 3 {
		return fmt.Errorf("stub.auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	s.Auth.JWTSecret = secret

	s.Auth.TokenExpiry = strings.TrimSpace(s.Auth.TokenExpiry)
	if s.Auth.TokenExpiry == "" {
		return fmt.Errorf("stub.auth.token_expiry is required when auth is enabled")
	}
	if err := positiveDuration("stub.auth.token_expiry", s.Auth.TokenExpiry); err != nil {
		return err
	}

	if len(s.Auth.Users) == 0 {
		return fmt.Errorf("stub.auth.users is required when auth is enabled")
	}
	seen := make(map[string]struct{}, len(s.Auth.Users))
	for idx, u := range s.Auth.Users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return fmt.Errorf("stub.auth.users[%d].username cannot be empty", idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("stub.auth.users[%d].username %q is duplicated", idx, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(u.PasswordHash) == "" {
			return fmt.Errorf("stub.auth.users[%d].password_hash cannot be empty", idx)
		}
		s.Auth.Users[idx].Username = name
	}
	return nil
}

func positiveDuration(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", key, value)
	}
	return nil
}

// TimeoutDuration returns api.timeout. Call only on a validated config.
func (a APIConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(a.Timeout)
	return d
}

// RetryDelayDuration returns api.retry_delay, zero when unset.
func (a APIConfig) RetryDelayDuration() time.Duration {
	if a.RetryDelay == "" {
		return 0
	}
	d, _ := time.ParseDuration(a.RetryDelay)
	return d
}

// TokenExpiryDuration returns stub.auth.token_expiry. Call only on a validated config.
func (a StubAuthConfig) TokenExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(a.TokenExpiry)
	return d
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	hasLower := false
	hasUpper := false
	hasDigit := false
	hasSymbol := false

	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	classes := 0
	if hasLower {
		classes++
	}
	if hasUpper {
		classes++
	}
	if hasDigit {
		classes++
	}
	if hasSymbol {
		classes++
	}

	return classes
}
