package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch/http/middleware"
)

func TestVisitorFetch(t *testing.T) {
	t.Run("Serial", func(t *testing.T) {
		// Arrange
		vs := middleware.NewVisitors(5, 20)

		// Act
		v1 := vs.Fetch("127.0.0.1")
		time.Sleep(1 * time.Millisecond)
		v2 := vs.Fetch("127.0.0.1")

		// Assert
		require.Equal(t, v1.Limiter, v2.Limiter)
		require.True(t, v1.LastSeen.Before(v2.LastSeen))
		require.Equal(t, 1, vs.Len())
	})

	t.Run("Concurrent", func(t *testing.T) {
		// Arrange
		var wg sync.WaitGroup
		vs := middleware.NewVisitors(5, 20)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				// Act
				vs.Fetch("127.0.0.1")
			}()
		}

		wg.Wait()

		// Assert
		require.Equal(t, 1, vs.Len())
	})
}

func TestRateLimit(t *testing.T) {
	post := func(h http.Handler, remote, forwarded string) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "https://example.com/login", nil)
		r.RemoteAddr = remote
		if forwarded != "" {
			r.Header.Set("X-Forwarded-For", forwarded)
		}

		h.ServeHTTP(w, r)
		return w.Code
	}

	t.Run("By-Remote-Address", func(t *testing.T) {
		// Arrange
		h := middleware.RateLimit(middleware.NewVisitors(0.001, 2))(teapotHandler())

		// Act
		codes := []int{
			post(h, "203.0.113.7:50001", ""),
			post(h, "203.0.113.7:50002", "1.1.1.1"),
			post(h, "203.0.113.7:50003", "8.8.8.8"),
		}

		// Assert
		require.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, codes)
		require.Equal(t, http.StatusTeapot, post(h, "198.51.100.4:50001", ""))
	})

	t.Run("By-Injected-Address", func(t *testing.T) {
		// Arrange
		h := middleware.Chain(
			teapotHandler(),
			middleware.InjectIPAddress(middleware.IPResolver{Proxies: 1}),
			middleware.RateLimit(middleware.NewVisitors(0.001, 1)),
		)

		// Act
		first := post(h, "10.0.0.2:50001", "1.1.1.1, 198.51.100.4")
		spoofed := post(h, "10.0.0.2:50002", "8.8.8.8, 198.51.100.4")
		other := post(h, "10.0.0.2:50003", "192.0.2.9")

		// Assert
		require.Equal(t, http.StatusTeapot, first)
		require.Equal(t, http.StatusTooManyRequests, spoofed)
		require.Equal(t, http.StatusTeapot, other)
	})
}
