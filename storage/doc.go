/*
Package storage persists small values across application sessions.

A [Storage] is a durable key-value store, the server-side stand-in for a browser's local storage.
Package authstate keeps the cached user of each session in one,
and package auth keeps each session's provider tokens in one.

[New] picks a driver by name:

	memory    values live as long as the process
	redis     values live in Redis
	postgres  values live in a PostgreSQL table through GORM

Every driver expires values once they outlive Config.TTL.
*/
package storage
