package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testYAML = `api:
  base_url: "https://pos.example.com/"
  timeout: "15s"
  max_retries: 3
  retry_delay: "250ms"
  bulk_concurrency: 8
  rate_limit:
    enabled: true
    rps: 5
    burst: 10
session:
  driver: "postgres"
  profile: "store-12"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "admin"
    password: "secret"
    dbname: "posadmin"
    sslmode: "require"
  pool:
    max_idle_conns: 1
    max_open_conns: 2
    conn_max_lifetime: "30m"
log:
  level: "debug"
  format: "json"
stub:
  host: "0.0.0.0"
  port: 9000
  mode: "debug"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_FullYAML(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "https://pos.example.com/" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if got := cfg.API.TimeoutDuration().String(); got != "15s" {
		t.Errorf("API.TimeoutDuration() = %s, want 15s", got)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("API.MaxRetries = %d, want 3", cfg.API.MaxRetries)
	}
	if got := cfg.API.RetryDelayDuration().String(); got != "250ms" {
		t.Errorf("API.RetryDelayDuration() = %s, want 250ms", got)
	}
	if cfg.API.BulkConcurrency != 8 {
		t.Errorf("API.BulkConcurrency = %d, want 8", cfg.API.BulkConcurrency)
	}
	if !cfg.API.RateLimit.Enabled || cfg.API.RateLimit.RPS != 5 || cfg.API.RateLimit.Burst != 10 {
		t.Errorf("API.RateLimit = %+v", cfg.API.RateLimit)
	}
	// Keys absent from the file keep their defaults.
	if cfg.API.UserAgent != "posadmin" {
		t.Errorf("API.UserAgent = %q, want default %q", cfg.API.UserAgent, "posadmin")
	}

	if cfg.Session.Driver != "postgres" || cfg.Session.Profile != "store-12" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Session.Postgres.Port != 5433 || cfg.Session.Postgres.SSLMode != "require" {
		t.Errorf("Session.Postgres = %+v", cfg.Session.Postgres)
	}
	if cfg.Session.Pool.ConnMaxLifetime != "30m" {
		t.Errorf("Session.Pool.ConnMaxLifetime = %q, want %q", cfg.Session.Pool.ConnMaxLifetime, "30m")
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	if cfg.Stub.Host != "0.0.0.0" || cfg.Stub.Port != 9000 || cfg.Stub.Mode != "debug" {
		t.Errorf("Stub = %+v", cfg.Stub)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	t.Setenv("POSADMIN__API__BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("POSADMIN__API__MAX_RETRIES", "0")
	t.Setenv("POSADMIN__SESSION__DRIVER", "memory")
	t.Setenv("POSADMIN__LOG__LEVEL", "error")
	// Fields with underscores keep them.
	t.Setenv("POSADMIN__SESSION__POOL__MAX_OPEN_CONNS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("API.BaseURL = %q (env override)", cfg.API.BaseURL)
	}
	if cfg.API.MaxRetries != 0 {
		t.Errorf("API.MaxRetries = %d, want 0 (env override)", cfg.API.MaxRetries)
	}
	if cfg.Session.Driver != "memory" {
		t.Errorf("Session.Driver = %q, want memory (env override)", cfg.Session.Driver)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error (env override)", cfg.Log.Level)
	}
	if cfg.Session.Pool.MaxOpenConns != 7 {
		t.Errorf("Session.Pool.MaxOpenConns = %d, want 7 (env override)", cfg.Session.Pool.MaxOpenConns)
	}
	if cfg.Stub.Port != 9000 {
		t.Errorf("Stub.Port = %d, want 9000 (unchanged)", cfg.Stub.Port)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	want := Default()
	if cfg.API.BaseURL != want.API.BaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, want.API.BaseURL)
	}
	if cfg.API.MaxRetries != 2 {
		t.Errorf("API.MaxRetries = %d, want 2", cfg.API.MaxRetries)
	}
	if cfg.Session.Driver != "sqlite" {
		t.Errorf("Session.Driver = %q, want sqlite", cfg.Session.Driver)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error on project config: %v", err)
	}
	if cfg.Stub.Port != 8080 {
		t.Errorf("Stub.Port = %d, want 8080", cfg.Stub.Port)
	}
	if cfg.Session.Driver != "sqlite" {
		t.Errorf("Session.Driver = %q, want sqlite", cfg.Session.Driver)
	}
	if len(cfg.Stub.CORS.AllowOrigins) != 1 {
		t.Errorf("Stub.CORS.AllowOrigins = %v", cfg.Stub.CORS.AllowOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"base url scheme", "api:\n  base_url: \"ftp://x\"\n", "api.base_url"},
		{"base url missing host", "api:\n  base_url: \"http://\"\n", "api.base_url"},
		{"base url blank", "api:\n  base_url: \"  \"\n", "api.base_url"},
		{"timeout zero", "api:\n  timeout: \"0s\"\n", "api.timeout"},
		{"timeout garbage", "api:\n  timeout: \"soon\"\n", "api.timeout"},
		{"retry delay negative", "api:\n  retry_delay: \"-1s\"\n", "api.retry_delay"},
		{"max retries negative", "api:\n  max_retries: -1\n", "api.max_retries"},
		{"bulk concurrency zero", "api:\n  bulk_concurrency: 0\n", "api.bulk_concurrency"},
		{"rate limit rps", "api:\n  rate_limit:\n    enabled: true\n    rps: 0\n    burst: 1\n", "api.rate_limit.rps"},
		{"rate limit burst", "api:\n  rate_limit:\n    enabled: true\n    rps: 1\n    burst: 0\n", "api.rate_limit.burst"},
		{"session driver", "session:\n  driver: \"mysql\"\n", "session.driver"},
		{"session profile", "session:\n  profile: \" \"\n", "session.profile"},
		{"sqlite path", "session:\n  driver: \"sqlite\"\n  sqlite:\n    path: \"\"\n", "session.sqlite.path"},
		{"postgres host", "session:\n  driver: \"postgres\"\n  postgres:\n    port: 5432\n    user: u\n    dbname: d\n    sslmode: disable\n", "session.postgres.host"},
		{"postgres port", "session:\n  driver: \"postgres\"\n  postgres:\n    host: h\n    port: 0\n    user: u\n    dbname: d\n    sslmode: disable\n", "session.postgres.port"},
		{"postgres sslmode", "session:\n  driver: \"postgres\"\n  postgres:\n    host: h\n    port: 5432\n    user: u\n    dbname: d\n    sslmode: maybe\n", "session.postgres.sslmode"},
		{"pool lifetime", "session:\n  pool:\n    conn_max_lifetime: \"-5m\"\n", "session.pool.conn_max_lifetime"},
		{"log level", "log:\n  level: \"verbose\"\n", "log.level"},
		{"log format", "log:\n  format: \"xml\"\n", "log.format"},
		{"stub mode", "stub:\n  mode: \"prod\"\n", "stub.mode"},
		{"stub port", "stub:\n  port: 70000\n", "stub.port"},
		{"stub host", "stub:\n  host: \"\"\n", "stub.host"},
		{"stub auth secret missing", "stub:\n  auth:\n    enabled: true\n", "stub.auth.jwt_secret"},
		{"stub auth secret short", "stub:\n  auth:\n    enabled: true\n    jwt_secret: \"short\"\n", "stub.auth.jwt_secret"},
		{"stub auth secret weak in release", "stub:\n  auth:\n    enabled: true\n    jwt_secret: \"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\"\n", "character classes"},
		{"stub auth users missing", "stub:\n  auth:\n    enabled: true\n    jwt_secret: \"Abcdefghijklmnopqrstuvwxyz0123456789\"\n", "stub.auth.users"},
		{"stub auth user hash", "stub:\n  auth:\n    enabled: true\n    jwt_secret: \"Abcdefghijklmnopqrstuvwxyz0123456789\"\n    users:\n      - username: admin\n", "password_hash"},
		{"stub auth duplicate user", "stub:\n  auth:\n    enabled: true\n    jwt_secret: \"Abcdefghijklmnopqrstuvwxyz0123456789\"\n    users:\n      - username: admin\n        password_hash: x\n      - username: admin\n        password_hash: y\n", "duplicated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Normalizes(t *testing.T) {
	path := writeTestConfig(t, `api:
  base_url: "  http://localhost:8080  "
  retry_delay: "  "
log:
  level: "WARN"
  format: " JSON "
stub:
  auth:
    enabled: true
    jwt_secret: "  Abcdefghijklmnopqrstuvwxyz0123456789  "
    token_expiry: " 1h "
    users:
      - username: " admin "
        password_hash: "$2a$10$abc"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("API.BaseURL = %q, want trimmed", cfg.API.BaseURL)
	}
	if cfg.API.RetryDelayDuration() != 0 {
		t.Errorf("API.RetryDelayDuration() = %v, want 0 for blank", cfg.API.RetryDelayDuration())
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want normalized", cfg.Log)
	}
	if cfg.Stub.Auth.JWTSecret != "Abcdefghijklmnopqrstuvwxyz0123456789" {
		t.Errorf("Stub.Auth.JWTSecret = %q, want trimmed", cfg.Stub.Auth.JWTSecret)
	}
	if cfg.Stub.Auth.TokenExpiryDuration().String() != "1h0m0s" {
		t.Errorf("Stub.Auth.TokenExpiryDuration() = %v", cfg.Stub.Auth.TokenExpiryDuration())
	}
	if cfg.Stub.Auth.Users[0].Username != "admin" {
		t.Errorf("Stub.Auth.Users[0].Username = %q, want trimmed", cfg.Stub.Auth.Users[0].Username)
	}
}

func TestCountSecretClasses(t *testing.T) {
	tests := []struct {
		secret string
		want   int
	}{
		{"", 0},
		{"abc", 1},
		{"abcDEF", 2},
		{"abcDEF123", 3},
		{"abcDEF123!@#", 4},
		{"中文", 1},
	}
	for _, tt := range tests {
		if got := CountSecretClasses(tt.secret); got != tt.want {
			t.Errorf("CountSecretClasses(%q) = %d, want %d", tt.secret, got, tt.want)
		}
	}
}
