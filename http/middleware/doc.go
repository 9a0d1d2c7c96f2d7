/*
The middleware package defines what a middleware is in artmatch and a set of basic middlewares.

The available middlewares are:
- CORS
- ForceHTTPS
- Guard
- InjectIPAddress
- InjectSession
- LogRequest
- RateLimit
- RequestID

A [Guard] is the navigation guard:
before a named route is served, it asks the authentication provider who is signed in
and sends the visitor elsewhere when the route is not for them.

The router package assembles the default middleware chain:

	adpts := []middleware.Adapter{
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(middleware.IPResolver{Proxies: 1}),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
	}

*/
package middleware
