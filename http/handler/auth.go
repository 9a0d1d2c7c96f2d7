package handler

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/http/req"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
)

// loginQuery is what the login view reads from its query params.
type loginQuery struct {
	Next string `schema:"next" validate:"omitempty,localpath"`
}

// signInForm is the form posted to sign in.
type signInForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"`
	Next     string `schema:"next" validate:"omitempty,localpath"`
}

// Login describes the login view,
// passing along where to go after signing in and any flashes waiting in the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"view": router.Login}

	var q loginQuery
	if err := h.parser.ParseQueryParams(r.URL.Query(), &q); err == nil && q.Next != "" {
		data["next"] = q.Next
	}

	if s, err := h.session(r); err == nil {
		data["flashes"] = s.Flashes(w, r)
	}

	if err := h.Json(w, r, resp.Data(data)); err != nil {
		h.Err(w, r, err)
	}
}

// SignIn signs the visitor in with the "email" and "password" form values.
//
// The application session ID is replaced before signing in.
// On success, SignIn redirects to the "next" form value when it is a local path,
// or else to the landing route.
// On failure, SignIn redirects back to the login view with a flash.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	back := []resp.Fn{resp.Url(h.url(router.Login)), resp.Code(http.StatusSeeOther)}

	var form signInForm
	err := h.parser.ParseForm(r, &form)

	// A "next" leading off this host is dropped rather than rejecting the form.
	var invalid req.ValidationErrors
	if errors.As(err, &invalid) && invalid.Has("next") {
		form.Next = ""
		if rest := invalid.Without("next"); len(rest) > 0 {
			err = rest
		} else {
			err = nil
		}
	}

	if req.IsLocalPath(form.Next) {
		back = append(back, resp.Param("next", form.Next))
	}

	if err != nil {
		h.logger.Debug("sign in form rejected", &logger.LogContext{Error: err, Request: r})
		h.redirect(w, r, append(back, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}))...)
		return
	}

	s, err := h.session(r)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	old, err := h.sid(r)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	sid, err := s.Rotate(w, r)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	h.forget(r, old)

	if _, err := h.auth.Client(sid).SignInWithPassword(r.Context(), form.Email, form.Password); err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.redirect(w, r, append(back, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadCredsMsg}))...)
			return
		}

		h.redirect(w, r, append(back, resp.GenericErr(err))...)
		return
	}

	dest := form.Next
	if !req.IsLocalPath(dest) {
		dest = h.url(router.Landing(h.revision))
	}

	h.redirect(w, r, resp.Url(dest), resp.Code(http.StatusSeeOther))
}

// forget drops what was kept for the application session sid replaced.
// Its provider session is not revoked:
// the provider signs out every session of a user at once.
func (h *Handler) forget(r *http.Request, sid string) {
	if err := h.stores.Forget(r.Context(), sid); err != nil {
		h.logger.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
	}

	if err := h.auth.Client(sid).Forget(r.Context()); err != nil {
		h.logger.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
	}
}

// SignOut signs the visitor out and redirects to where anonymous visitors enter.
//
// A provider failing to sign the session out is logged;
// the session is forgotten regardless.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	sid, err := h.sid(r)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := h.auth.Client(sid).SignOut(r.Context()); err != nil {
		h.logger.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
	}

	opts := []resp.Fn{resp.Url(h.url(router.Entry(h.revision))), resp.Code(http.StatusSeeOther)}
	if _, err := h.session(r); err == nil {
		opts = append(opts, resp.Flash(session.Flash{Class: session.FlashInfo, Msg: session.SignedOutMsg}))
	}

	h.redirect(w, r, opts...)
}

// AuthState describes the auth state store of the application session.
//
//	{
//		"data": {
//			"user": {},
//			"isLoading": false,
//			"error": "",
//			"isAuthenticated": true
//		}
//	}
func (h *Handler) AuthState(w http.ResponseWriter, r *http.Request) {
	sid, err := h.sid(r)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	st, err := h.stores.Get(r.Context(), sid)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	state := st.State()
	data := map[string]any{
		"user":            state.User,
		"isLoading":       state.IsLoading,
		"error":           state.Error,
		"isAuthenticated": state.IsAuthenticated(),
	}

	w.Header().Set("Cache-Control", "no-store")
	if err := h.Json(w, r, resp.Data(data)); err != nil {
		h.Err(w, r, err)
	}
}
