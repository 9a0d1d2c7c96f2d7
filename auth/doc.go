/*
Package auth talks to the hosted authentication provider.

A [Provider] is the provider's surface: who does this access token belong to,
sign in with a password, refresh a session, sign out.
[Supabase] implements it over the provider's REST API,
[JWTVerifier] answers "who is this?" locally from a signed access token,
and [Stub] keeps users in memory for development and tests.

A [Client] is what the rest of an artmatch app uses.
It is scoped to one application session:
it keeps that session's tokens in durable storage,
refreshes an expired access token before asking the provider for the user,
and announces every sign in, sign out, and refresh to the listeners
registered with [Client.OnAuthStateChange].
*/
package auth
