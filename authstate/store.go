package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
)

// defaultErrMsg stands in for an error without a message.
const defaultErrMsg = "auth error"

// A Store caches the authentication State of one application session.
// A Store is safe for concurrent use.
type Store struct {
	client  *auth.Client
	logger  logger.Logger
	storage storage.Storage

	mu      sync.RWMutex
	err     string
	loading bool
	sub     *auth.Subscription
	user    *artmatch.User
}

// NewStore constructs a *Store for the application session c is scoped to,
// rehydrating the user last persisted in s.
//
// A persisted value that cannot be read is discarded.
func NewStore(ctx context.Context, c *auth.Client, s storage.Storage, l logger.Logger) (*Store, error) {
	if l == nil {
		l = logger.Noop{}
	}

	st := &Store{client: c, logger: l, storage: s}
	u, err := load(ctx, s, c.SID())
	switch {
	case errors.Is(err, artmatch.ErrNotValid):
		l.Warn("discarding unreadable auth state", &logger.LogContext{
			Data:  map[string]any{"sid": c.SID()},
			Error: err,
		})

		if err := s.Delete(ctx, key(c.SID())); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	st.user = u
	return st, nil
}

// Initialize fetches the current user once and caches it,
// then subscribes to the application session's authentication events,
// caching the user each one carries.
// A sign out caches no user.
//
// If the fetch fails, Initialize records why in State.Error,
// keeps whichever user was cached before,
// and does not subscribe.
// IsLoading is true only while Initialize runs.
//
// Calling Initialize again replaces the previous subscription.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	u, err := s.client.GetUser(ctx)
	if err != nil {
		s.fail(err)
		return
	}

	s.setUser(ctx, u)

	sub, err := s.client.OnAuthStateChange(s.onAuthStateChange)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	prev := s.sub
	s.sub = sub
	s.mu.Unlock()

	prev.Unsubscribe()
}

// IsAuthenticated asserts whether a user is cached.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user != nil
}

// State returns a snapshot of the Store.
// The snapshot shares nothing with the Store, so callers may change it freely.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{IsLoading: s.loading, Error: s.err}
	if s.user != nil {
		u := s.user.Clone()
		st.User = &u
	}

	return st
}

// Close stops listening for authentication events.
// The persisted user is kept.
func (s *Store) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	sub.Unsubscribe()
}

func (s *Store) fail(err error) {
	msg := err.Error()
	if msg == "" {
		msg = defaultErrMsg
	}

	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()

	s.logger.Error("could not initialize auth state", &logger.LogContext{
		Data:  map[string]any{"sid": s.client.SID()},
		Error: err,
	})
}

func (s *Store) onAuthStateChange(e auth.Event, sess *auth.Session) {
	var u *artmatch.User
	if sess != nil {
		u = sess.User
	}

	s.logger.Debug("auth state changed", &logger.LogContext{
		Data: map[string]any{"sid": s.client.SID(), "event": e.String()},
	})

	s.setUser(context.Background(), u)
}

// setUser caches and persists u.
// Failing to persist is logged; the cache is still updated.
func (s *Store) setUser(ctx context.Context, u *artmatch.User) {
	if u != nil {
		c := u.Clone()
		u = &c
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	if err := save(ctx, s.storage, s.client.SID(), u); err != nil {
		s.logger.Warn("could not persist auth state", &logger.LogContext{
			Data:  map[string]any{"sid": s.client.SID()},
			Error: err,
		})
	}
}
