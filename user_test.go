package artmatch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
)

func TestUserUnmarshalJSON(t *testing.T) {
	// Arrange
	raw := `{
		"id": "8d0b7a0e-6a4c-4b41-9a43-0c7f1a5e2d11",
		"aud": "authenticated",
		"role": "authenticated",
		"email": "husserl@example.com",
		"app_metadata": {"provider": "email"},
		"user_metadata": {"avatar_url": "https://example.com/a.png", "full_name": "Edmund Husserl", "theme": "dark"},
		"identities": [{"provider": "email"}],
		"is_anonymous": false
	}`

	// Act
	var u artmatch.User
	err := json.Unmarshal([]byte(raw), &u)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "8d0b7a0e-6a4c-4b41-9a43-0c7f1a5e2d11", u.ID)
	require.Equal(t, "husserl@example.com", u.Email)
	require.Equal(t, "Edmund Husserl", u.UserMetadata.FullName)
	require.Equal(t, "https://example.com/a.png", u.UserMetadata.AvatarURL)
	require.Equal(t, map[string]any{"provider": "email"}, u.AppMetadata)
	require.Len(t, u.Extra, 2)
	require.JSONEq(t, `[{"provider": "email"}]`, string(u.Extra["identities"]))
	require.JSONEq(t, `"dark"`, string(u.UserMetadata.Extra["theme"]))
	require.Equal(t, "Edmund Husserl", u.DisplayName())
}

func TestUserUnmarshalJSONRequiresID(t *testing.T) {
	// Arrange
	var u artmatch.User

	// Act
	err := json.Unmarshal([]byte(`{"email": "husserl@example.com"}`), &u)

	// Assert
	require.ErrorIs(t, err, artmatch.ErrMissingData)
}

func TestUserMarshalJSONKeepsExtra(t *testing.T) {
	// Arrange
	raw := `{"id":"1","email":"a@example.com","user_metadata":{"full_name":"A","theme":"dark"},"is_anonymous":false}`

	var u artmatch.User
	require.Nil(t, json.Unmarshal([]byte(raw), &u))

	// Act
	b, err := json.Marshal(u)

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, raw, string(b))
}

func TestUserDisplayName(t *testing.T) {
	// Arrange
	u := artmatch.User{ID: "1", Email: "a@example.com"}

	// Act + Assert
	require.Equal(t, "a@example.com", u.DisplayName())
}

func TestUserClone(t *testing.T) {
	// Arrange
	var u artmatch.User
	require.Nil(t, json.Unmarshal([]byte(`{
		"id": "user-1",
		"created_at": "2024-03-01T12:00:00Z",
		"app_metadata": {"provider": "email", "providers": ["email"], "plan": {"tier": "free"}},
		"user_metadata": {"full_name": "Ada Lovelace", "pronouns": "she/her"},
		"factors": [{"id": "f-1"}]
	}`), &u))

	// Act
	c := u.Clone()
	c.AppMetadata["provider"] = "github"
	c.AppMetadata["providers"].([]any)[0] = "github"
	c.AppMetadata["plan"].(map[string]any)["tier"] = "pro"
	c.UserMetadata.Extra["pronouns"][1] = 'X'
	c.Extra["factors"] = json.RawMessage(`[]`)
	*c.CreatedAt = c.CreatedAt.AddDate(1, 0, 0)

	// Assert
	require.Equal(t, "email", u.AppMetadata["provider"])
	require.Equal(t, []any{"email"}, u.AppMetadata["providers"])
	require.Equal(t, map[string]any{"tier": "free"}, u.AppMetadata["plan"])
	require.JSONEq(t, `"she/her"`, string(u.UserMetadata.Extra["pronouns"]))
	require.JSONEq(t, `[{"id": "f-1"}]`, string(u.Extra["factors"]))
	require.Equal(t, 2024, u.CreatedAt.Year())

	// Act
	var zero artmatch.User
	c = zero.Clone()

	// Assert
	require.Equal(t, zero, c)
}
