package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/authstate"
	"github.com/xy-planning-network/artmatch/http/req"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
)

// ErrNoSession is returned when a request reaches a view without an application session.
var ErrNoSession = errors.New("no application session")

// A URLer resolves route names into paths.
type URLer interface {
	URL(name string, pairs ...string) (string, error)
}

// A Handler serves the views of an artmatch app.
type Handler struct {
	*resp.Responder

	auth     *auth.Service
	logger   logger.Logger
	parser   *req.Parser
	revision artmatch.Revision
	stores   *authstate.Manager
	urls     URLer
}

// New constructs a *Handler.
func New(
	responder *resp.Responder,
	svc *auth.Service,
	stores *authstate.Manager,
	urls URLer,
	rev artmatch.Revision,
	l logger.Logger,
) *Handler {
	if l == nil {
		l = logger.Noop{}
	}

	return &Handler{
		Responder: responder,
		auth:      svc,
		logger:    l,
		parser:    req.NewParser(),
		revision:  rev,
		stores:    stores,
		urls:      urls,
	}
}

// sid retrieves the application session ID middleware.InjectSession stored in the request.
func (h *Handler) sid(r *http.Request) (string, error) {
	sid, ok := r.Context().Value(artmatch.SessionIDKey).(string)
	if !ok || sid == "" {
		return "", ErrNoSession
	}

	return sid, nil
}

// session retrieves the session middleware.InjectSession stored in the request.
func (h *Handler) session(r *http.Request) (session.Session, error) {
	s, err := h.Session(r.Context())
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %s", ErrNoSession, err)
	}

	return s, nil
}

// redirect calls Redirect, falling back to Err when the redirect cannot be formed.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	if err := h.Redirect(w, r, opts...); err != nil {
		h.Err(w, r, err)
	}
}

// url resolves the route name, falling back to the root URL when it cannot.
func (h *Handler) url(name string) string {
	u, err := h.urls.URL(name)
	if err != nil {
		h.logger.Error(err.Error(), &logger.LogContext{Error: err})
		return "/"
	}

	return u
}

var _ router.Views = (*Handler)(nil)
