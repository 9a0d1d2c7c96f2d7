package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xy-planning-network/artmatch"
)

// A Stub is a Provider keeping users and sessions in memory.
//
// It is meant for environments where artmatch.Environment.CanUseServiceStub is true.
type Stub struct {
	mu      sync.RWMutex
	access  map[string]stubGrant
	refresh map[string]string
	users   map[string]stubUser
	ttl     time.Duration
	now     func() time.Time
}

type stubUser struct {
	password string
	user     artmatch.User
}

type stubGrant struct {
	email  string
	expiry time.Time
}

// NewStub constructs a *Stub issuing access tokens that live for ttl.
// A ttl of 0 defaults to one hour.
func NewStub(ttl time.Duration) *Stub {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Stub{
		access:  make(map[string]stubGrant),
		refresh: make(map[string]string),
		users:   make(map[string]stubUser),
		ttl:     ttl,
		now:     time.Now,
	}
}

// AddUser registers a user who can sign in with email and password.
// An empty u.ID is filled in.
func (s *Stub) AddUser(email, password string, u artmatch.User) artmatch.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	u.Email = email
	if u.Aud == "" {
		u.Aud = "authenticated"
	}

	s.mu.Lock()
	s.users[strings.ToLower(email)] = stubUser{password: password, user: u}
	s.mu.Unlock()
	return u
}

// Expire makes every access token issued so far expired.
func (s *Stub) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tok, g := range s.access {
		g.expiry = s.now().Add(-time.Second)
		s.access[tok] = g
	}
}

// GetUser implements Provider.
func (s *Stub) GetUser(_ context.Context, accessToken string) (*artmatch.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.access[accessToken]
	if !ok || !s.now().Before(g.expiry) {
		return nil, nil
	}

	su, ok := s.users[g.email]
	if !ok {
		return nil, nil
	}

	u := su.user
	return &u, nil
}

// SignInWithPassword implements Provider.
func (s *Stub) SignInWithPassword(_ context.Context, email, password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	su, ok := s.users[email]
	if !ok || su.password != password {
		return nil, fmt.Errorf("%w: invalid login credentials", ErrBadCredentials)
	}

	return s.issue(email), nil
}

// RefreshSession implements Provider.
// Each refresh token can be used once.
func (s *Stub) RefreshSession(_ context.Context, refreshToken string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.refresh[refreshToken]
	if !ok {
		return nil, fmt.Errorf("%w: refresh token not found", ErrNotValid)
	}

	delete(s.refresh, refreshToken)
	if _, ok := s.users[email]; !ok {
		return nil, fmt.Errorf("%w: user not found", ErrNotValid)
	}

	return s.issue(email), nil
}

// SignOut implements Provider.
func (s *Stub) SignOut(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.access[accessToken]
	if !ok {
		return nil
	}

	delete(s.access, accessToken)
	for tok, email := range s.refresh {
		if email == g.email {
			delete(s.refresh, tok)
		}
	}

	return nil
}

// issue must be called with s.mu held.
func (s *Stub) issue(email string) *Session {
	now := s.now()
	access, refresh := uuid.NewString(), uuid.NewString()
	s.access[access] = stubGrant{email: email, expiry: now.Add(s.ttl)}
	s.refresh[refresh] = email

	u := s.users[email].user
	return &Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.ttl / time.Second),
		ExpiresAt:    now.Add(s.ttl).Unix(),
		RefreshToken: refresh,
		User:         &u,
	}
}

var (
	_ Provider = (*Stub)(nil)
	_ Provider = (*Supabase)(nil)
	_ Provider = (*JWTVerifier)(nil)
)
