package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/http/middleware"
	"github.com/xy-planning-network/artmatch/http/session"
)

func TestInjectSession(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	actual := middleware.InjectSession(nil)

	// Assert
	actual(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(artmatch.SessionKey).(session.Session)
		require.False(t, ok)
	})).ServeHTTP(w, r)

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	var sid string

	// Act
	middleware.InjectSession(session.NewStub(""))(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(artmatch.SessionKey).(session.Session)
		require.True(t, ok)

		sid, ok = rx.Context().Value(artmatch.SessionIDKey).(string)
		require.True(t, ok)
	})).ServeHTTP(w, r)

	// Assert
	require.NotEmpty(t, sid)

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	middleware.InjectSession(session.NewStub("known"))(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		sid = rx.Context().Value(artmatch.SessionIDKey).(string)
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "known", sid)
}
