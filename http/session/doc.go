/*
Package session manages the cookie-identified web session every visitor gets.

A web session carries one thing artmatch cares about: the application session ID,
a random identifier assigned on the first visit.
Everything else about a visitor - who they are signed in as, the provider's tokens -
is kept server-side under that ID.

Sessions are stored in signed and encrypted cookies by default,
or in Redis using [WithRedis].
*/
package session
