package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/http/middleware"
)

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// A named Route can be looked up with [Router.URL]
// and is a destination the navigation guard watches over.
// RequiresAuth marks a Route only signed in users may navigate to.
type Route struct {
	Path         string
	Name         string
	Method       string
	Handler      http.HandlerFunc
	RequiresAuth bool
	Middlewares  []middleware.Adapter
}

// Router routes requests for resources to their location in an artmatch app.
type Router struct {
	Env           artmatch.Environment
	everyReqStack []middleware.Adapter
	guard         *middleware.Guard
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
func New(env artmatch.Environment, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	return &Router{logReq: logReq, Env: env, r: mux.NewRouter()}
}

// Guard sets the navigation guard every named or protected [Route] registered afterwards passes through.
// A Guard without a URL resolves route names with [Router.URL].
func (r *Router) Guard(g middleware.Guard) {
	if g.URL == nil {
		g.URL = func(name string) (string, error) { return r.URL(name) }
	}

	r.guard = &g
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		middleware.ReportPanic(r.Env)(handler),
		r.logReq,
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
//
// The middlewares apply in this order:
//   - those set with OnEveryRequest
//   - middlewares
//   - the navigation guard, if the Route is named or requires authentication
//   - those assigned to the Route
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(middlewares)+len(route.Middlewares)+1)
		mws = append(mws, r.everyReqStack...)
		mws = append(mws, middlewares...)
		if r.guard != nil && (route.Name != "" || route.RequiresAuth) {
			mws = append(mws, r.guard.Apply(middleware.Destination{Name: route.Name, RequiresAuth: route.RequiresAuth}))
		}

		mws = append(mws, route.Middlewares...)

		handler := middleware.Chain(middleware.ReportPanic(r.Env)(route.Handler), mws...)
		mr := r.r.Handle(route.Path, handler).Methods(route.Method)
		if route.Name != "" {
			mr.Name(route.Name)
		}
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api") handles requests to endpoints like /api/auth/state
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		guard:         r.guard,
		logReq:        r.logReq,
		everyReqStack: r.everyReqStack,
	}
}

// URL resolves the name of a [Route] into its path,
// filling in any path variables with pairs.
//
// URL returns artmatch.ErrNotExist if no Route has that name.
func (r *Router) URL(name string, pairs ...string) (string, error) {
	mr := r.r.Get(name)
	if mr == nil {
		return "", fmt.Errorf("%w: no route named %q", artmatch.ErrNotExist, name)
	}

	u, err := mr.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("%w: route %q: %s", artmatch.ErrNotValid, name, err)
	}

	return u.String(), nil
}
