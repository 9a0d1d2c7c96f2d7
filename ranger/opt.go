package ranger

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
	"gorm.io/gorm"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require components built by default
// and thus an OptFollowup can be returned
// in order to be called once those are available.
//
// WithProvider is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithServer is an example of the second.
// The *http.Server only serves the Router once the closure it returns is called.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the artmatch app.
// Cancelling it stops Guide.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.ctx = ctx
		return nil, nil
	}
}

// WithDB exposes the provided *gorm.DB to the artmatch app.
//
// WithDB assumes a connection has already been established.
func WithDB(db *gorm.DB) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.db = db
		return nil, nil
	}
}

// WithEnv sets the Environment of the artmatch app,
// in place of reading it from the ENVIRONMENT environment variable.
func WithEnv(env artmatch.Environment) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if err := env.Valid(); err != nil {
			return nil, err
		}

		rng.env = env
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the artmatch app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		return nil, nil
	}
}

// WithProvider sets the authentication provider the artmatch app asks who is signed in.
func WithProvider(p auth.Provider) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.provider = p
		return nil, nil
	}
}

// WithRevision selects the route table,
// in place of reading it from the ROUTER_REVISION environment variable.
func WithRevision(rev artmatch.Revision) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if err := rev.Valid(); err != nil {
			return nil, err
		}

		rng.rev = rev
		return nil, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the artmatch app.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.sessions = store
		return nil, nil
	}
}

// WithServer constructs a followup option that, when called,
// has the *http.Server serve the artmatch app's Router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.srv = s
		return func() error {
			s.Handler = rng.Router
			return nil
		}, nil
	}
}

// WithStorage sets the durable storage provider sessions and auth state are kept in.
func WithStorage(s storage.Storage) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.storage = s
		return nil, nil
	}
}
