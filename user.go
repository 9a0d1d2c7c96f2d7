package artmatch

import (
	"encoding/json"
	"fmt"
	"time"
)

// userFields lists the JSON keys User maps onto struct fields.
// Any other key is carried through in User.Extra.
var userFields = []string{
	"id", "aud", "role", "email", "phone",
	"created_at", "updated_at", "last_sign_in_at",
	"app_metadata", "user_metadata",
}

// userMetadataFields lists the JSON keys UserMetadata maps onto struct fields.
var userMetadataFields = []string{"avatar_url", "full_name"}

// A User is the person the authentication provider knows as signed in.
//
// The provider owns the record; an artmatch app only ever holds a copy of it,
// which may be stale.
// ID is the only required field.
// Keys the provider sends that User does not name are kept in Extra
// and written back out when the User is marshaled.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata UserMetadata   `json:"user_metadata"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UserMetadata is the profile information a User edits themselves.
type UserMetadata struct {
	AvatarURL string `json:"avatar_url,omitempty"`
	FullName  string `json:"full_name,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// DisplayName returns the name to greet the User by.
func (u User) DisplayName() string {
	if u.UserMetadata.FullName != "" {
		return u.UserMetadata.FullName
	}

	return u.Email
}

// Clone returns a copy of u sharing no maps or pointers with it.
func (u User) Clone() User {
	c := u
	c.CreatedAt = cloneTime(u.CreatedAt)
	c.UpdatedAt = cloneTime(u.UpdatedAt)
	c.LastSignInAt = cloneTime(u.LastSignInAt)
	c.AppMetadata, _ = cloneJSON(u.AppMetadata).(map[string]any)
	c.UserMetadata.Extra = cloneRaw(u.UserMetadata.Extra)
	c.Extra = cloneRaw(u.Extra)

	return c
}

// GetEmail returns the User's email.
func (u User) GetEmail() string { return u.Email }

// GetID returns the provider's identifier for the User.
func (u User) GetID() string { return u.ID }

// MarshalJSON implements [encoding/json.Marshaler],
// merging Extra back into the encoded object.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	b, err := json.Marshal(alias(u))
	if err != nil {
		return nil, err
	}

	return mergeExtra(b, u.Extra)
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
//
// UnmarshalJSON returns ErrMissingData when the object has no "id".
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	if a.ID == "" {
		return fmt.Errorf("%w: user has no id", ErrMissingData)
	}

	extra, err := splitExtra(b, userFields)
	if err != nil {
		return err
	}

	a.Extra = extra
	*u = User(a)
	return nil
}

// MarshalJSON implements [encoding/json.Marshaler],
// merging Extra back into the encoded object.
func (m UserMetadata) MarshalJSON() ([]byte, error) {
	type alias UserMetadata
	b, err := json.Marshal(alias(m))
	if err != nil {
		return nil, err
	}

	return mergeExtra(b, m.Extra)
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
func (m *UserMetadata) UnmarshalJSON(b []byte) error {
	type alias UserMetadata
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	extra, err := splitExtra(b, userMetadataFields)
	if err != nil {
		return err
	}

	a.Extra = extra
	*m = UserMetadata(a)
	return nil
}

// mergeExtra adds the keys in extra to the JSON object b
// that b does not already have.
func mergeExtra(b []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return b, nil
	}

	m := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	for k, v := range extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}

	return json.Marshal(m)
}

// splitExtra returns the keys of the JSON object b not listed in known,
// or nil if there are none.
func splitExtra(b []byte, known []string) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	for _, k := range known {
		delete(raw, k)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return raw, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	c := *t
	return &c
}

// cloneJSON deep copies the shapes encoding/json decodes into an any.
func cloneJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		if v == nil {
			return v
		}

		c := make(map[string]any, len(v))
		for k, val := range v {
			c[k] = cloneJSON(val)
		}

		return c

	case []any:
		if v == nil {
			return v
		}

		c := make([]any, len(v))
		for i, val := range v {
			c[i] = cloneJSON(val)
		}

		return c

	default:
		return v
	}
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}

	c := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		c[k] = append(json.RawMessage(nil), v...)
	}

	return c
}
