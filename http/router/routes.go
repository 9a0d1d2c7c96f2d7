package router

import (
	"net/http"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/http/middleware"
)

// Names of the routes the navigation guard watches over.
const (
	Login   = "login"
	Profile = "profile"
	Explore = "explore"
)

// Views are the handlers an artmatch route table points at.
type Views interface {
	AuthState(w http.ResponseWriter, r *http.Request)
	Explore(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	Root(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	SignOut(w http.ResponseWriter, r *http.Request)
}

// Landing names the route signed in users visiting Login are sent to.
func Landing(rev artmatch.Revision) string {
	if rev.HasExplore() {
		return Explore
	}

	return Profile
}

// Entry names the route anonymous visitors to the root URL are sent to.
func Entry(rev artmatch.Revision) string {
	if rev.HasExplore() {
		return Explore
	}

	return Login
}

// Table lists the page routes of the revision.
//
// Sign in requests are rate limited by limiter;
// a nil limiter applies no limit.
func Table(rev artmatch.Revision, v Views, limiter *middleware.Visitors) []Route {
	routes := []Route{
		{Path: "/", Method: http.MethodGet, Handler: v.Root},
		{Path: "/login", Name: Login, Method: http.MethodGet, Handler: v.Login},
		{
			Path:        "/login",
			Method:      http.MethodPost,
			Handler:     v.SignIn,
			Middlewares: []middleware.Adapter{middleware.RateLimit(limiter)},
		},
		{Path: "/logout", Method: http.MethodPost, Handler: v.SignOut},
		{Path: "/profile", Name: Profile, Method: http.MethodGet, Handler: v.Profile, RequiresAuth: true},
	}

	if rev.HasExplore() {
		routes = append(routes, Route{Path: "/explore", Name: Explore, Method: http.MethodGet, Handler: v.Explore})
	}

	return routes
}

// API lists the routes served under the "/api" prefix.
func API(v Views) []Route {
	return []Route{
		{Path: "/auth/state", Method: http.MethodGet, Handler: v.AuthState},
	}
}
