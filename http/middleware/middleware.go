package middleware

import (
	"net/http"
	"strings"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	//NOTE: Loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// NoopAdapter is a pass-through Adapter,
// often returned by constructors when they are not correctly called.
func NoopAdapter(h http.Handler) http.Handler { return h }

// acceptsJson asserts whether the request asks for a JSON response.
func acceptsJson(header http.Header) bool {
	for _, v := range header.Values("Accept") {
		for _, mt := range strings.Split(v, ",") {
			mt, _, _ = strings.Cut(mt, ";")
			if strings.TrimSpace(mt) == "application/json" {
				return true
			}
		}
	}

	return false
}
