/*
Package ranger initializes and manages an artmatch app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type,
constructed with [New].
Every component not passed in through a [RangerOption] is built from its default.

[*Ranger.Guide] begins an artmatch app's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000),
assuming a reverse proxy terminates TLS in front of it.

Stop that web server with [*Ranger.Shutdown],
cancel the context passed in with [WithContext],
or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures an artmatch app through environment variables.
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - BASE_URL: the base URL the application runs on; default: http://localhost:3000
  - CONTACT_US_EMAIL: the email address end users can reach out to when something goes wrong
  - DATABASE_HOST, DATABASE_NAME, DATABASE_PASSWORD, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_USER, DATABASE_URL:
    connecting to Postgres when STORAGE_DRIVER is postgres
  - ENVIRONMENT: the environment the application is running in; default: DEVELOPMENT; cf. [artmatch.Environment]
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the application should listen on; default: :3000
  - REDIS_URL, REDIS_PASSWORD: connecting to Redis when STORAGE_DRIVER is redis
  - ROUTER_REVISION: which route table to serve, profile or explore; default: explore
  - SENTRY_DSN: reports errors and panics to Sentry when set
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies; cf. [encoding/hex]
  - SESSION_NAME: the name of the session cookie; default: artmatch
  - SESSION_REDIS_URL, SESSION_REDIS_PASSWORD: keeping sessions in Redis instead of cookies
  - SIGN_IN_BURST, SIGN_IN_PERIOD: how many sign in attempts one client address may burst, and how often it earns another; default: 5, 2s
  - STORAGE_DRIVER: where auth sessions and state persist, memory, redis or postgres; default: memory
  - STORAGE_TTL: how long persisted values live after they were last set; default: 168h, the session lifetime
  - STUB_USER_EMAIL, STUB_USER_PASSWORD: a user the stubbed auth provider knows
  - SUPABASE_URL: the Supabase project URL; required outside DEMO, DEVELOPMENT and TESTING
  - SUPABASE_ANON_KEY: the Supabase project's anon key
  - SUPABASE_JWT_SECRET: verifies access tokens locally when set
  - TRUSTED_PROXIES: how many reverse proxies append to X-Forwarded-For in front of the app; default: 0 in DEMO, DEVELOPMENT and TESTING, 1 otherwise
*/
package ranger
