package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS lets pages served from origin call the API with the visitor's session cookie.
// Preflight requests are answered without reaching the wrapped handler.
//
// If origin is empty, NoopAdapter returns and this middleware does nothing.
func CORS(origin string) Adapter {
	if origin == "" {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowCredentials(),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type"}),
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead}),
		handlers.MaxAge(600),
	)
}
