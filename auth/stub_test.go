package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
)

func TestStub(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := auth.NewStub(0)
	u := s.AddUser("Ada@example.com", "hunter2", artmatch.User{UserMetadata: artmatch.UserMetadata{FullName: "Ada"}})

	// Act
	_, err := s.SignInWithPassword(ctx, "ada@example.com", "wrong")

	// Assert
	require.ErrorIs(t, err, auth.ErrBadCredentials)

	// Act
	sess, err := s.SignInWithPassword(ctx, "ada@example.com", "hunter2")

	// Assert
	require.Nil(t, err)
	require.Equal(t, u.ID, sess.User.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), sess.Expiry(), 5*time.Second)

	// Act
	got, err := s.GetUser(ctx, sess.AccessToken)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "Ada", got.DisplayName())

	// Act
	next, err := s.RefreshSession(ctx, sess.RefreshToken)

	// Assert
	require.Nil(t, err)
	require.NotEqual(t, sess.AccessToken, next.AccessToken)

	_, err = s.RefreshSession(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, auth.ErrNotValid)

	// Act
	s.Expire()
	got, err = s.GetUser(ctx, next.AccessToken)

	// Assert
	require.Nil(t, err)
	require.Nil(t, got)

	// Act
	require.Nil(t, s.SignOut(ctx, next.AccessToken))
	_, err = s.RefreshSession(ctx, next.RefreshToken)

	// Assert
	require.ErrorIs(t, err, auth.ErrNotValid)

	got, err = s.GetUser(ctx, "")
	require.Nil(t, err)
	require.Nil(t, got)
}
