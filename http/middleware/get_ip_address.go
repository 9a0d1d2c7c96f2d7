package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/artmatch"
)

// An IPResolver finds the address of the client that sent a request.
//
// Proxies counts the reverse proxies in front of the app,
// each of which appends the address it received the request from to X-Forwarded-For.
// Entries left of those are whatever the client chose to send and are never trusted.
// With no proxies, or a header shorter than Proxies, the connection's remote address is used.
type IPResolver struct {
	Proxies int
}

// Resolve returns the client address of r.
func (res IPResolver) Resolve(r *http.Request) string {
	if res.Proxies > 0 {
		hops := forwardedFor(r.Header)
		if i := len(hops) - res.Proxies; i >= 0 {
			if ip := net.ParseIP(hops[i]); ip != nil {
				return ip.String()
			}
		}
	}

	return remoteIP(r)
}

// InjectIPAddress resolves the client address of the *http.Request
// and promotes it to *http.Request.Context under artmatch.IpAddrKey.
func InjectIPAddress(res IPResolver) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), artmatch.IpAddrKey, res.Resolve(r))
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPAddress returns the client address InjectIPAddress stashed,
// or the connection's remote address if it did not run.
func IPAddress(r *http.Request) string {
	if ip, ok := r.Context().Value(artmatch.IpAddrKey).(string); ok && ip != "" {
		return ip
	}

	return remoteIP(r)
}

// forwardedFor lists every X-Forwarded-For entry, across repeated headers, left to right.
func forwardedFor(hm http.Header) []string {
	var hops []string
	for _, v := range hm.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}

	return hops
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
