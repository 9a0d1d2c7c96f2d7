/*
Package router defines the route table of an artmatch app and the [Router] serving it.

A [Router] is a thin wrapper around [mux.Router].
It leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

Named routes are the destinations of navigation.
Once a [middleware.Guard] is set with [Router.Guard],
every named Route, and every Route flagged RequiresAuth,
asks the authentication provider who is signed in before its handler runs.

Which routes exist depends on the [artmatch.Revision]:

	r := router.New(env, middleware.LogRequest(log))
	r.Guard(middleware.Guard{
		Login:     router.Login,
		Landing:   router.Landing(rev),
		Users:     middleware.ProviderLookup(authSvc),
		Responder: responder,
	})
	r.HandleRoutes(router.Table(rev, views, middleware.NewVisitors(1, 5)))
	r.Subrouter("/api").HandleRoutes(router.API(views), middleware.CORS(baseURL))
*/
package router
