package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/logger"
)

// ErrNoSessionID is returned by a UserLookup when InjectSession did not run.
var ErrNoSessionID = errors.New("no application session id")

// A UserLookup asks who is signed in to the application session of the request.
// No one being signed in is a nil user and a nil error.
type UserLookup func(r *http.Request) (*artmatch.User, error)

// ProviderLookup is the UserLookup asking svc's Provider about the application session
// InjectSession put in the request context.
func ProviderLookup(svc *auth.Service) UserLookup {
	return func(r *http.Request) (*artmatch.User, error) {
		sid, ok := r.Context().Value(artmatch.SessionIDKey).(string)
		if !ok || sid == "" {
			return nil, ErrNoSessionID
		}

		return svc.Client(sid).GetUser(r.Context())
	}
}

// A Destination is what a Guard knows about the route being navigated to.
type Destination struct {
	Name         string
	RequiresAuth bool
}

// A Guard decides, before a route is served, whether the visitor belongs there.
//
// A Guard asks Users on every navigation; it keeps no record of earlier answers.
type Guard struct {
	// Login names the route to sign in at.
	Login string

	// Landing names the route signed in users are sent to instead of Login.
	Landing string

	// Users looks up who is signed in.
	Users UserLookup

	// URL resolves a route name into its path.
	URL func(name string) (string, error)

	Logger    logger.Logger
	Responder *resp.Responder
}

// Decide returns the name of the route to redirect to, or "" to proceed to to.
//
// Routes requiring authentication send visitors who are not signed in to Login.
// Login sends signed in users to Landing.
func (g Guard) Decide(to Destination, user *artmatch.User) string {
	if to.RequiresAuth && user == nil {
		return g.Login
	}

	if to.Name == g.Login && user != nil {
		return g.Landing
	}

	return ""
}

// Apply returns the Adapter guarding navigations to to.
//
// When the visitor may proceed, the signed in user, if any,
// is stored in the request context under artmatch.CurrentUserKey.
//
// When they may not, Apply takes one of two actions
// depending on the "Accept" HTTP header of the request.
//   - By default, Apply redirects with 307,
//     appending the URL originally requested as a "next" query param
//     when sending a GET request to Login.
//   - If "application/json" appears in the "Accept" header, though,
//     Apply writes 401 in place of redirecting to Login,
//     and 400 in place of redirecting to Landing.
//
// A failed lookup is not retried: the navigation fails with 500.
func (g Guard) Apply(to Destination) Adapter {
	if g.Users == nil || g.URL == nil || g.Responder == nil {
		return NoopAdapter
	}

	l := g.Logger
	if l == nil {
		l = logger.Noop{}
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Users(r)
			if err != nil {
				err = fmt.Errorf("%w: navigating to %s: %s", artmatch.ErrUnexpected, to.Name, err)
				g.Responder.Err(w, r, err)
				return
			}

			redirect := g.Decide(to, user)
			if redirect == "" {
				ctx := r.Context()
				if user != nil {
					w.Header().Add("Cache-Control", "no-store")
					ctx = context.WithValue(ctx, artmatch.CurrentUserKey, user)
				}

				handler.ServeHTTP(w, r.Clone(ctx))
				return
			}

			if acceptsJson(r.Header) {
				if redirect == g.Login {
					w.WriteHeader(http.StatusUnauthorized)
				} else {
					w.WriteHeader(http.StatusBadRequest)
				}

				return
			}

			target, err := g.URL(redirect)
			if err != nil {
				g.Responder.Err(w, r, fmt.Errorf("%w: resolving %s: %s", artmatch.ErrNotExist, redirect, err))
				return
			}

			opts := []resp.Fn{resp.Url(target), resp.Code(http.StatusTemporaryRedirect)}
			if redirect == g.Login && r.Method == http.MethodGet {
				opts = append(opts, resp.Param("next", r.URL.RequestURI()))
			}

			l.Debug("guard redirecting", &logger.LogContext{
				Data:    map[string]any{"from": to.Name, "to": redirect},
				Request: r,
			})

			if err := g.Responder.Redirect(w, r, opts...); err != nil {
				g.Responder.Err(w, r, err)
			}
		})
	}
}
