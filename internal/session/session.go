// Package session holds the bearer token shared by every API call of a
// process and persists it between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store persists the token of one profile.
type Store interface {
	// Load returns the stored token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Session is the process-wide authentication context. The zero value is not
// usable; create one with New.
type Session struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger
	token  string
	loaded bool
}

// New returns a Session backed by store. A nil store keeps the token in memory only.
func New(store Store, logger *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, logger: logger}
}

// Token returns the current bearer token, loading it from the store on first
// use. A store failure is logged and treated as signed out.
func (s *Session) Token(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.token
}

// SetToken replaces the token and persists it.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the token from memory and from the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

// Invalidate clears the session if it still holds token, the credential a
// request was rejected with. It reports whether this call cleared it, so of
// many concurrent rejections of the same token exactly one returns true.
func (s *Session) Invalidate(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	if token == "" || s.token != token {
		return false
	}
	s.token = ""
	if err := s.store.Delete(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete rejected session token", slog.Any("error", err))
	}
	s.logger.WarnContext(ctx, "session token rejected by server, signed out")
	return true
}

func (s *Session) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	token, err := s.store.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load session token", slog.Any("error", err))
		return
	}
	s.token = token
	s.loaded = true
}

// Claims is the unverified content of a JWT bearer token.
type Claims struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issuedAt,omitzero"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Expired   bool      `json:"expired"`
}

// ErrNoToken is returned by Claims when the session is signed out.
var ErrNoToken = errors.New("not signed in")

// Claims decodes the current token without verifying its signature. Tokens
// that are not JWTs yield an error.
func (s *Session) Claims(ctx context.Context) (*Claims, error) {
	token := s.Token(ctx)
	if token == "" {
		return nil, ErrNoToken
	}
	return ParseClaims(token, time.Now())
}

// ParseClaims decodes token without verifying its signature and reports
// whether it is expired at now.
func ParseClaims(token string, now time.Time) (*Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	c := &Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
		c.Expired = !now.Before(c.ExpiresAt)
	}
	return c, nil
}

// MemoryStore keeps the token for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
