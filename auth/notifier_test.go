package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch/auth"
)

func TestNotifier(t *testing.T) {
	// Arrange
	n := auth.NewNotifier()

	var a, b []auth.Event
	subA, err := n.Subscribe("one", func(e auth.Event, _ *auth.Session) { a = append(a, e) })
	require.Nil(t, err)

	subB, err := n.Subscribe("one", func(e auth.Event, _ *auth.Session) { b = append(b, e) })
	require.Nil(t, err)

	_, err = n.Subscribe("two", func(auth.Event, *auth.Session) { t.Fatal("wrong session notified") })
	require.Nil(t, err)

	// Act
	n.Publish("one", auth.EventSignedIn, &auth.Session{})

	// Assert
	require.Equal(t, []auth.Event{auth.EventSignedIn}, a)
	require.Equal(t, []auth.Event{auth.EventSignedIn}, b)
	require.Equal(t, 2, n.Listeners("one"))

	// Act
	subA.Unsubscribe()
	subA.Unsubscribe()
	n.Publish("one", auth.EventSignedOut, nil)

	// Assert
	require.Equal(t, []auth.Event{auth.EventSignedIn}, a)
	require.Equal(t, []auth.Event{auth.EventSignedIn, auth.EventSignedOut}, b)
	require.Equal(t, 1, n.Listeners("one"))

	// Act
	subB.Unsubscribe()
	n.Publish("one", auth.EventSignedIn, nil)

	// Assert
	require.Len(t, b, 2)
	require.Zero(t, n.Listeners("one"))
}

func TestNotifierNilSession(t *testing.T) {
	// Arrange
	n := auth.NewNotifier()

	var got *auth.Session = &auth.Session{}
	_, err := n.Subscribe("sid", func(_ auth.Event, s *auth.Session) { got = s })
	require.Nil(t, err)

	// Act
	n.Publish("sid", auth.EventSignedOut, nil)

	// Assert
	require.Nil(t, got)
}

func TestNotifierNilListener(t *testing.T) {
	// Act
	sub, err := auth.NewNotifier().Subscribe("sid", nil)

	// Assert
	require.ErrorIs(t, err, auth.ErrNotValid)
	require.Nil(t, sub)
	require.NotPanics(t, sub.Unsubscribe)
}
