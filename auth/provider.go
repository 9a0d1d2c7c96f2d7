package auth

import (
	"context"
	"time"

	"github.com/xy-planning-network/artmatch"
	"golang.org/x/oauth2"
)

// A Provider is the hosted authentication service.
type Provider interface {
	// GetUser returns the user accessToken belongs to.
	// A missing or rejected token yields a nil user and a nil error.
	// Any other failure yields an error.
	GetUser(ctx context.Context, accessToken string) (*artmatch.User, error)

	// SignInWithPassword exchanges credentials for a Session.
	// Wrong credentials yield ErrBadCredentials.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// RefreshSession exchanges a refresh token for a new Session.
	// A refresh token the provider no longer honors yields ErrNotValid.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)

	// SignOut revokes the session accessToken belongs to.
	SignOut(ctx context.Context, accessToken string) error
}

// A Session is what the provider hands out on sign in:
// tokens and the user they were issued to.
type Session struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	ExpiresAt    int64          `json:"expires_at"`
	RefreshToken string         `json:"refresh_token"`
	User         *artmatch.User `json:"user"`
}

// Expiry returns when the access token expires.
// The zero time means it never does.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt == 0 {
		return time.Time{}
	}

	return time.Unix(s.ExpiresAt, 0)
}

// Token converts the Session into an *oauth2.Token.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
	}
}

// stamp fills in ExpiresAt from ExpiresIn when the provider only sent the latter.
func (s *Session) stamp(now time.Time) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}

	if s.TokenType == "" {
		s.TokenType = "bearer"
	}
}

// An Event names an authentication transition.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

func (e Event) String() string { return string(e) }

// A Listener is called on every authentication transition.
// On EventSignedOut the Session is nil.
type Listener func(Event, *Session)
