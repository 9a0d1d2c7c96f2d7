package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
	"golang.org/x/oauth2"
)

// SessionKeyPrefix prefixes the storage key a Client keeps its provider session under.
const SessionKeyPrefix = "artmatch-session:"

// A Service hands out Clients sharing one Provider, Storage, and Notifier.
type Service struct {
	logger   logger.Logger
	notifier *Notifier
	provider Provider
	store    storage.Storage
}

// NewService constructs a *Service.
func NewService(p Provider, store storage.Storage, n *Notifier, l logger.Logger) *Service {
	if n == nil {
		n = NewNotifier()
	}

	if l == nil {
		l = logger.Noop{}
	}

	return &Service{logger: l, notifier: n, provider: p, store: store}
}

// Client returns the Client for the application session sid.
func (s *Service) Client(sid string) *Client {
	return &Client{sid: sid, svc: s}
}

// Notifier returns the Notifier Clients publish to.
func (s *Service) Notifier() *Notifier { return s.notifier }

// A Client is the authentication client of a single application session.
type Client struct {
	sid string
	svc *Service
}

// SID returns the application session the Client is scoped to.
func (c *Client) SID() string { return c.sid }

// Session returns the stored provider session, or nil if there is none.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	b, err := c.svc.store.Get(ctx, c.key())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: could not load session: %s", ErrUnexpected, err)
	}

	sess := new(Session)
	if err := json.Unmarshal(b, sess); err != nil {
		// NOTE: a corrupt session is no session
		c.svc.logger.Warn("discarding unreadable session", &logger.LogContext{
			Data:  map[string]any{"sid": c.sid},
			Error: err,
		})

		return nil, c.svc.store.Delete(ctx, c.key())
	}

	return sess, nil
}

// GetUser asks the provider who the stored session belongs to,
// refreshing an expired access token first.
//
// GetUser returns a nil user and a nil error when no one is signed in.
func (c *Client) GetUser(ctx context.Context) (*artmatch.User, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}

	if sess == nil {
		return nil, nil
	}

	tok, err := oauth2.ReuseTokenSource(sess.Token(), &refresher{ctx: ctx, c: c, sess: sess}).Token()
	if errors.Is(err, ErrNotValid) {
		return nil, c.clear(ctx)
	}

	if err != nil {
		return nil, err
	}

	return c.svc.provider.GetUser(ctx, tok.AccessToken)
}

// OnAuthStateChange registers fn for this application session's events.
// Call Unsubscribe on the returned Subscription to stop them.
func (c *Client) OnAuthStateChange(fn Listener) (*Subscription, error) {
	return c.svc.notifier.Subscribe(c.sid, fn)
}

// SignInWithPassword signs in with the provider and stores the resulting session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.svc.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := c.save(ctx, sess); err != nil {
		return nil, err
	}

	c.svc.notifier.Publish(c.sid, EventSignedIn, sess)
	return sess, nil
}

// SignOut revokes the stored session with the provider and forgets it.
//
// The session is forgotten even when the provider could not be reached;
// that error is still returned.
func (c *Client) SignOut(ctx context.Context) error {
	sess, err := c.Session(ctx)
	if err != nil {
		return err
	}

	if sess == nil {
		return nil
	}

	revokeErr := c.svc.provider.SignOut(ctx, sess.AccessToken)
	if err := c.clear(ctx); err != nil {
		return err
	}

	return revokeErr
}

// Forget drops the stored session without revoking it with the provider,
// for application sessions that will not be seen again.
func (c *Client) Forget(ctx context.Context) error { return c.clear(ctx) }

func (c *Client) clear(ctx context.Context) error {
	if err := c.svc.store.Delete(ctx, c.key()); err != nil {
		return fmt.Errorf("%w: could not delete session: %s", ErrUnexpected, err)
	}

	c.svc.notifier.Publish(c.sid, EventSignedOut, nil)
	return nil
}

func (c *Client) key() string { return SessionKeyPrefix + c.sid }

func (c *Client) save(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: could not encode session: %s", ErrUnexpected, err)
	}

	if err := c.svc.store.Set(ctx, c.key(), b); err != nil {
		return fmt.Errorf("%w: could not save session: %s", ErrUnexpected, err)
	}

	return nil
}

// refresher is the oauth2.TokenSource a Client falls back to
// once its access token expires.
type refresher struct {
	ctx  context.Context
	c    *Client
	sess *Session
}

func (r *refresher) Token() (*oauth2.Token, error) {
	if r.sess.RefreshToken == "" {
		return nil, fmt.Errorf("%w: session has no refresh token", ErrNotValid)
	}

	sess, err := r.c.svc.provider.RefreshSession(r.ctx, r.sess.RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := r.c.save(r.ctx, sess); err != nil {
		return nil, err
	}

	r.c.svc.notifier.Publish(r.c.sid, EventTokenRefreshed, sess)
	return sess.Token(), nil
}
