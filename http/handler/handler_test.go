package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/authstate"
	"github.com/xy-planning-network/artmatch/http/handler"
	"github.com/xy-planning-network/artmatch/http/middleware"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
)

const (
	email    = "ada@example.com"
	password = "hunter22"
)

type app struct {
	router  *router.Router
	storage *storage.Memory
	stores  *authstate.Manager
	stub    *auth.Stub
	user    artmatch.User
}

// newApp serves the revision for a single browser, whose session lives in memory.
func newApp(t *testing.T, rev artmatch.Revision) *app {
	t.Helper()

	stub := auth.NewStub(0)
	u := stub.AddUser(email, password, artmatch.User{ID: "user-1", UserMetadata: artmatch.UserMetadata{FullName: "Ada Lovelace"}})

	store := storage.NewMemory()
	svc := auth.NewService(stub, store, nil, logger.Noop{})
	stores := authstate.NewManager(svc, store, logger.Noop{})
	responder := resp.NewResponder(resp.WithLogger(logger.Noop{}), resp.WithRootUrl("https://example.com"))

	r := router.New(artmatch.Testing, nil)
	r.OnEveryRequest(middleware.InjectSession(session.NewStub("")))
	r.Guard(middleware.Guard{
		Login:     router.Login,
		Landing:   router.Landing(rev),
		Users:     middleware.ProviderLookup(svc),
		Logger:    logger.Noop{},
		Responder: responder,
	})

	h := handler.New(responder, svc, stores, r, rev, logger.Noop{})
	r.HandleRoutes(router.Table(rev, h, nil))
	r.Subrouter("/api").HandleRoutes(router.API(h))
	r.HandleNotFound(h.NotFound)

	t.Cleanup(func() { stores.Close() })
	return &app{router: r, storage: store, stores: stores, stub: stub, user: u}
}

func (a *app) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.com"+path, nil))
	return w
}

func (a *app) post(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "https://example.com"+path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.router.ServeHTTP(w, r)
	return w
}

func (a *app) signIn(t *testing.T) {
	t.Helper()

	w := a.post("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, w.Code)
}

type body struct {
	Data        map[string]any `json:"data"`
	CurrentUser *artmatch.User `json:"currentUser"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) body {
	t.Helper()

	var b body
	require.Nil(t, json.NewDecoder(w.Body).Decode(&b))
	return b
}

func TestLogin(t *testing.T) {
	// Arrange
	a := newApp(t, artmatch.RevisionExplore)

	// Act
	w := a.get("/login?next=%2Fprofile")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	b := decode(t, w)
	require.Equal(t, "login", b.Data["view"])
	require.Equal(t, "/profile", b.Data["next"])
	require.Empty(t, b.Data["flashes"])
	require.Nil(t, b.CurrentUser)

	// Act
	w = a.get("/login?next=%2F%2Fevil.example.com")

	// Assert
	require.NotContains(t, decode(t, w).Data, "next")
}

func TestSignIn(t *testing.T) {
	for _, rev := range []artmatch.Revision{artmatch.RevisionProfile, artmatch.RevisionExplore} {
		t.Run(rev.String(), func(t *testing.T) {
			// Arrange
			a := newApp(t, rev)

			// Act
			w := a.post("/login", url.Values{"email": {email}, "password": {password}})

			// Assert
			require.Equal(t, http.StatusSeeOther, w.Code)
			require.Equal(t, "/"+router.Landing(rev), w.Header().Get("Location"))

			// Act
			w = a.get("/login")

			// Assert
			require.Equal(t, http.StatusTemporaryRedirect, w.Code)
			require.Equal(t, "/"+router.Landing(rev), w.Header().Get("Location"))
		})
	}

	t.Run("Next", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)

		// Act
		w := a.post("/login", url.Values{"email": {email}, "password": {password}, "next": {"/profile"}})

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/profile", w.Header().Get("Location"))
	})

	t.Run("Next-Elsewhere", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)

		// Act
		w := a.post("/login", url.Values{"email": {email}, "password": {password}, "next": {"//evil.example.com"}})

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/explore", w.Header().Get("Location"))
	})

	t.Run("Bad-Credentials", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)

		// Act
		w := a.post("/login", url.Values{"email": {email}, "password": {"wrong"}, "next": {"/profile"}})

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login?next=%2Fprofile", w.Header().Get("Location"))

		// Act
		w = a.get("/login")

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		flashes, ok := decode(t, w).Data["flashes"].([]any)
		require.True(t, ok)
		require.Len(t, flashes, 1)
		require.Equal(t, map[string]any{"class": session.FlashError, "msg": session.BadCredsMsg}, flashes[0])

		// Act
		w = a.get("/profile")

		// Assert
		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	})

	t.Run("Missing-Input", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)

		// Act
		w := a.post("/login", url.Values{"email": {email}})

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))

		flashes := decode(t, a.get("/login")).Data["flashes"].([]any)
		require.Equal(t, map[string]any{"class": session.FlashError, "msg": session.BadInputMsg}, flashes[0])
	})

	t.Run("Releases-Previous-Store", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)
		require.Equal(t, http.StatusOK, a.get("/api/auth/state").Code)
		require.Equal(t, 1, a.stores.Len())

		// Act
		a.signIn(t)

		// Assert
		require.Equal(t, 0, a.stores.Len())
	})

	t.Run("Forgets-Previous-Session", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)
		a.signIn(t)
		require.Equal(t, http.StatusOK, a.get("/api/auth/state").Code)
		require.Equal(t, 2, a.storage.Len())

		// Act
		a.signIn(t)

		// Assert
		require.Equal(t, 1, a.storage.Len())
		require.Equal(t, 0, a.stores.Len())
		require.Equal(t, http.StatusOK, a.get("/profile").Code)
	})

	t.Run("Next-Elsewhere-Bad-Input", func(t *testing.T) {
		// Arrange
		a := newApp(t, artmatch.RevisionExplore)

		// Act
		w := a.post("/login", url.Values{"email": {email}, "next": {"https://evil.example.com"}})

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestProfile(t *testing.T) {
	// Arrange
	a := newApp(t, artmatch.RevisionProfile)

	// Act
	w := a.get("/profile")

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/login?next=%2Fprofile", w.Header().Get("Location"))

	// Arrange
	a.signIn(t)

	// Act
	w = a.get("/profile")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	b := decode(t, w)
	require.Equal(t, "profile", b.Data["view"])
	require.NotNil(t, b.CurrentUser)
	require.Equal(t, a.user.ID, b.CurrentUser.ID)
	require.Equal(t, "Ada Lovelace", b.CurrentUser.DisplayName())
}

func TestExplore(t *testing.T) {
	// Arrange
	a := newApp(t, artmatch.RevisionExplore)

	// Act
	w := a.get("/explore")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	b := decode(t, w)
	require.Equal(t, "explore", b.Data["view"])
	require.Nil(t, b.CurrentUser)

	// Arrange
	a.signIn(t)

	// Act
	w = a.get("/explore")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	b = decode(t, w)
	require.NotNil(t, b.CurrentUser)
	require.Equal(t, a.user.ID, b.CurrentUser.ID)
}

func TestSignOut(t *testing.T) {
	for _, rev := range []artmatch.Revision{artmatch.RevisionProfile, artmatch.RevisionExplore} {
		t.Run(rev.String(), func(t *testing.T) {
			// Arrange
			a := newApp(t, rev)
			a.signIn(t)
			require.Equal(t, http.StatusOK, a.get("/profile").Code)

			// Act
			w := a.post("/logout", nil)

			// Assert
			require.Equal(t, http.StatusSeeOther, w.Code)
			require.Equal(t, "/"+router.Entry(rev), w.Header().Get("Location"))
			require.Equal(t, http.StatusTemporaryRedirect, a.get("/profile").Code)
		})
	}
}

func TestRoot(t *testing.T) {
	for _, rev := range []artmatch.Revision{artmatch.RevisionProfile, artmatch.RevisionExplore} {
		t.Run(rev.String(), func(t *testing.T) {
			// Arrange
			a := newApp(t, rev)

			// Act
			w := a.get("/")

			// Assert
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, "/"+router.Entry(rev), w.Header().Get("Location"))
		})
	}
}

func TestAuthState(t *testing.T) {
	// Arrange
	a := newApp(t, artmatch.RevisionExplore)

	// Act
	w := a.get("/api/auth/state")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.Equal(t, map[string]any{
		"user":            nil,
		"isLoading":       false,
		"error":           "",
		"isAuthenticated": false,
	}, decode(t, w).Data)

	// Arrange
	a.signIn(t)

	// Act
	w = a.get("/api/auth/state")

	// Assert
	data := decode(t, w).Data
	require.Equal(t, true, data["isAuthenticated"])
	require.Equal(t, a.user.ID, data["user"].(map[string]any)["id"])

	// Act
	a.post("/logout", nil)
	w = a.get("/api/auth/state")

	// Assert
	data = decode(t, w).Data
	require.Equal(t, false, data["isAuthenticated"])
	require.Nil(t, data["user"])
}

func TestNotFound(t *testing.T) {
	// Arrange
	a := newApp(t, artmatch.RevisionProfile)

	// Act
	w := a.get("/explore")

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "not-found", decode(t, w).Data["view"])
}
