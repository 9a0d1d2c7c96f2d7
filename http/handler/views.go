package handler

import (
	"net/http"

	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
)

// Explore describes the public explore view,
// including the signed in user if there is one.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	opts := []resp.Fn{resp.Data(map[string]any{"view": router.Explore})}
	if u, err := h.CurrentUser(r.Context()); err == nil {
		opts = append(opts, resp.User(u))
	}

	if err := h.Json(w, r, opts...); err != nil {
		h.Err(w, r, err)
	}
}

// NotFound describes a view that does not exist.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := h.Json(w, r, resp.Code(http.StatusNotFound), resp.Data(map[string]any{"view": "not-found"})); err != nil {
		h.Err(w, r, err)
	}
}

// Profile describes the signed in user's profile view.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if err := h.Json(w, r, resp.CurrentUser(), resp.Data(map[string]any{"view": router.Profile})); err != nil {
		h.Err(w, r, err)
	}
}

// Root redirects to where anonymous visitors enter.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, resp.Url(h.url(router.Entry(h.revision))))
}
