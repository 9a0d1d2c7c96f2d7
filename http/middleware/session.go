package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under artmatch.SessionKey,
// and the application session ID under artmatch.SessionIDKey.
//
// A session cookie that cannot be read is replaced with a new session.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := store.GetSession(r)
			sid, err := s.ID(w, r)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), artmatch.SessionKey, s)
			ctx = context.WithValue(ctx, artmatch.SessionIDKey, sid)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
