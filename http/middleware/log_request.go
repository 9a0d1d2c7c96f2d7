package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/logger"
)

// LogRequest logs the request's method, requested URL, originating IP address
// and the response's status and size
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, h, func(_ io.Writer, p handlers.LogFormatterParams) {
			u := p.URL
			u.RawQuery = logger.Mask(u.Query(), "password").Encode()

			ip, _ := p.Request.Context().Value(artmatch.IpAddrKey).(string)
			data := map[string]any{
				"duration_ms": time.Since(p.TimeStamp).Milliseconds(),
				"ip":          ip,
				"size":        p.Size,
				"status":      p.StatusCode,
			}

			if id, ok := p.Request.Context().Value(artmatch.RequestIDKey).(string); ok {
				data["request_id"] = id
			}

			ls.Info(p.Request.Method+" "+u.RequestURI(), &logger.LogContext{Data: data})
		})
	}
}
