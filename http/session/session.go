package session

import (
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/sessions"
)

// keys used internal to specific implementations of different interfaces.
const (
	sessionKey   = "artmatch-session-gorilla"
	idSessionKey = sessionKey + "-id"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The IDSessionable wraps methods for identifying the application session
// a web session belongs to.
type IDSessionable interface {
	ID(w http.ResponseWriter, r *http.Request) (string, error)
	Rotate(w http.ResponseWriter, r *http.Request) (string, error)
}

// The ArtmatchSessionable composes session's major interfaces.
type ArtmatchSessionable interface {
	FlashSessionable
	IDSessionable
	Sessionable
}

// A Session lightly wraps a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession constructs a new Session from a *gorilla.Session.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0)
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}
	if len(fs) > 0 {
		// NOTE: Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// ID returns the application session ID,
// assigning and saving a new one if the session has none yet.
func (s Session) ID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.s.Values[idSessionKey].(string); ok && id != "" {
		return id, nil
	}

	return s.Rotate(w, r)
}

// Rotate replaces the application session ID with a new one.
// Call it whenever the privilege of the visitor changes, like signing in.
func (s Session) Rotate(w http.ResponseWriter, r *http.Request) (string, error) {
	id := uuid.NewString()
	s.s.Values[idSessionKey] = id
	if err := s.Save(w, r); err != nil {
		return "", err
	}

	return id, nil
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

var _ ArtmatchSessionable = Session{}
