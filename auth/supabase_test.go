package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
)

const testAnonKey = "anon-key"

// fakeAuthAPI serves the subset of the hosted auth REST API Supabase calls.
func fakeAuthAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, testAnonKey, r.Header.Get("apikey"))
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Write([]byte(`{"id":"user-1","email":"ada@example.com","user_metadata":{"full_name":"Ada"},"factors":[]}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code":500,"msg":"database unavailable"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"msg":"invalid JWT"}`))
		}
	})

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, testAnonKey, r.Header.Get("apikey"))

		var body map[string]string
		require.Nil(t, json.NewDecoder(r.Body).Decode(&body))

		ok := false
		switch r.URL.Query().Get("grant_type") {
		case "password":
			ok = body["email"] == "ada@example.com" && body["password"] == "hunter2"
		case "refresh_token":
			ok = body["refresh_token"] == "refresh"
		}

		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}

		w.Write([]byte(`{"access_token":"good","token_type":"bearer","expires_in":3600,"refresh_token":"refresh","user":{"id":"user-1","email":"ada@example.com"}}`))
	})

	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestNewSupabase(t *testing.T) {
	_, err := auth.NewSupabase("https://example.supabase.co", "")
	require.ErrorIs(t, err, artmatch.ErrBadConfig)

	_, err = auth.NewSupabase("not a url", testAnonKey)
	require.ErrorIs(t, err, artmatch.ErrBadConfig)

	_, err = auth.NewSupabase("https://example.supabase.co/", testAnonKey)
	require.Nil(t, err)
}

func TestSupabaseGetUser(t *testing.T) {
	// Arrange
	srv := fakeAuthAPI(t)
	s, err := auth.NewSupabase(srv.URL, testAnonKey, auth.WithHTTPClient(srv.Client()))
	require.Nil(t, err)

	ctx := context.Background()

	// Act
	u, err := s.GetUser(ctx, "good")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "user-1", u.ID)
	require.Equal(t, "Ada", u.DisplayName())
	require.Contains(t, u.Extra, "factors")

	// Act
	u, err = s.GetUser(ctx, "stale")

	// Assert
	require.Nil(t, err)
	require.Nil(t, u)

	// Act
	u, err = s.GetUser(ctx, "")

	// Assert
	require.Nil(t, err)
	require.Nil(t, u)

	// Act
	u, err = s.GetUser(ctx, "broken")

	// Assert
	require.ErrorIs(t, err, auth.ErrUnexpected)
	require.ErrorContains(t, err, "database unavailable")
	require.Nil(t, u)
}

func TestSupabaseGetUserUnreachable(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := auth.NewSupabase(url, testAnonKey)
	require.Nil(t, err)

	// Act
	u, err := s.GetUser(context.Background(), "good")

	// Assert
	require.ErrorIs(t, err, auth.ErrUnexpected)
	require.Nil(t, u)
}

func TestSupabaseSignInWithPassword(t *testing.T) {
	// Arrange
	srv := fakeAuthAPI(t)
	s, err := auth.NewSupabase(srv.URL, testAnonKey, auth.WithHTTPClient(srv.Client()))
	require.Nil(t, err)

	// Act
	sess, err := s.SignInWithPassword(context.Background(), "ada@example.com", "nope")

	// Assert
	require.ErrorIs(t, err, auth.ErrBadCredentials)
	require.ErrorContains(t, err, "Invalid login credentials")
	require.Nil(t, sess)

	// Act
	sess, err = s.SignInWithPassword(context.Background(), "ada@example.com", "hunter2")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "good", sess.AccessToken)
	require.Equal(t, "refresh", sess.RefreshToken)
	require.NotZero(t, sess.ExpiresAt)
	require.Equal(t, "user-1", sess.User.ID)
	require.True(t, sess.Token().Valid())
}

func TestSupabaseRefreshSession(t *testing.T) {
	// Arrange
	srv := fakeAuthAPI(t)
	s, err := auth.NewSupabase(srv.URL, testAnonKey, auth.WithHTTPClient(srv.Client()))
	require.Nil(t, err)

	// Act
	_, err = s.RefreshSession(context.Background(), "revoked")

	// Assert
	require.ErrorIs(t, err, auth.ErrNotValid)

	// Act
	sess, err := s.RefreshSession(context.Background(), "refresh")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "good", sess.AccessToken)
}

func TestSupabaseSignOut(t *testing.T) {
	// Arrange
	srv := fakeAuthAPI(t)
	s, err := auth.NewSupabase(srv.URL, testAnonKey, auth.WithHTTPClient(srv.Client()))
	require.Nil(t, err)

	// Act + Assert
	require.Nil(t, s.SignOut(context.Background(), ""))
	require.Nil(t, s.SignOut(context.Background(), "good"))
	require.ErrorIs(t, s.SignOut(context.Background(), "broken"), auth.ErrUnexpected)
}
