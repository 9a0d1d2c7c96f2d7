package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/postgres"
)

func TestNewCxnConfig(t *testing.T) {
	// Arrange
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_NAME", "artmatch")
	t.Setenv("DATABASE_USER", "artmatch")
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("DATABASE_PORT", "")
	t.Setenv("DATABASE_SSLMODE", "")

	// Act
	cfg := postgres.NewCxnConfig(artmatch.Testing)

	// Assert
	require.True(t, cfg.IsTestDB)
	require.Equal(t, 1, cfg.MaxIdleCxns)
	require.Equal(
		t,
		"host=db port=5432 dbname=artmatch user=artmatch password=secret sslmode=prefer",
		postgres.BuildCxnStr(cfg),
	)

	// Arrange
	t.Setenv("DATABASE_URL", "postgres://artmatch@db/artmatch")

	// Act
	cfg = postgres.NewCxnConfig(artmatch.Production)

	// Assert
	require.False(t, cfg.IsTestDB)
	require.Equal(t, "postgres://artmatch@db/artmatch", postgres.BuildCxnStr(cfg))
}

func TestBuildCxnStrDefaultsSSLMode(t *testing.T) {
	// Arrange
	cfg := &postgres.CxnConfig{Host: "h", Port: "1", Name: "n", User: "u", Password: "p"}

	// Act + Assert
	require.Equal(t, "host=h port=1 dbname=n user=u password=p sslmode=prefer", postgres.BuildCxnStr(cfg))
}
