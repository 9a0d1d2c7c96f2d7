/*
Package authstate caches who is signed in to each application session.

A [Store] holds the [State] of one application session.
[Store.Initialize] asks the authentication provider for the current user once,
then keeps the cached user current by listening for sign ins, sign outs, and token refreshes.
The cached user is written to durable storage on every change
and read back when a Store is constructed,
so a returning visitor is recognized before the provider answers.

A [Manager] hands out Stores by application session ID.
Pass it to whatever needs the authentication state
rather than reaching for a package-level Store.
*/
package authstate
