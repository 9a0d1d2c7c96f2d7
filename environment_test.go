package artmatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
)

func TestEnvVarOrEnv(t *testing.T) {
	for _, tc := range []struct {
		name string
		val  string
		want artmatch.Environment
	}{
		{"Unset", "", artmatch.Development},
		{"Lowercase", "production", artmatch.Production},
		{"Invalid", "moon", artmatch.Development},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tc.val)
			require.Equal(t, tc.want, artmatch.EnvVarOrEnv("ENVIRONMENT", artmatch.Development))
		})
	}
}

func TestEnvVarOrRevision(t *testing.T) {
	for _, tc := range []struct {
		name string
		val  string
		want artmatch.Revision
	}{
		{"Unset", "", artmatch.RevisionExplore},
		{"Profile", "PROFILE", artmatch.RevisionProfile},
		{"Explore", "explore", artmatch.RevisionExplore},
		{"Invalid", "swipe", artmatch.RevisionExplore},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ROUTER_REVISION", tc.val)
			require.Equal(t, tc.want, artmatch.EnvVarOrRevision("ROUTER_REVISION", artmatch.RevisionExplore))
		})
	}
}

func TestEnvVarOrDuration(t *testing.T) {
	// Arrange
	t.Setenv("STORAGE_TTL", "90m")

	// Act + Assert
	require.Equal(t, 90*time.Minute, artmatch.EnvVarOrDuration("STORAGE_TTL", time.Hour))

	// Arrange
	t.Setenv("STORAGE_TTL", "soon")

	// Act + Assert
	require.Equal(t, time.Hour, artmatch.EnvVarOrDuration("STORAGE_TTL", time.Hour))
}

func TestEnvVarOrURL(t *testing.T) {
	// Arrange
	t.Setenv("BASE_URL", "")

	// Act
	u := artmatch.EnvVarOrURL("BASE_URL", "http://localhost:3000/ignored")

	// Assert
	require.Equal(t, "http://localhost:3000/", u.String())

	// Arrange
	t.Setenv("BASE_URL", "https://artmatch.example.com")

	// Act
	u = artmatch.EnvVarOrURL("BASE_URL", "http://localhost:3000")

	// Assert
	require.Equal(t, "https://artmatch.example.com", u.String())
}

func TestRevision(t *testing.T) {
	require.Nil(t, artmatch.RevisionProfile.Valid())
	require.Nil(t, artmatch.RevisionExplore.Valid())
	require.ErrorIs(t, artmatch.Revision("").Valid(), artmatch.ErrNotValid)
	require.True(t, artmatch.RevisionExplore.HasExplore())
	require.False(t, artmatch.RevisionProfile.HasExplore())
}
