/*
Package handler holds the views of an artmatch app.

Every view responds with a small JSON document naming the view,
so a client renders pages however it likes.
Signing in and out respond with redirects, as a browser form post expects.
*/
package handler
