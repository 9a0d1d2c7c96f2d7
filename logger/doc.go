/*
Package logger provides logging functionality to an artmatch app by defining the required behavior in [Logger]
and providing an implementation of it with [ColorLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[ColorLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*ColorLogger.Warn], [*ColorLogger.Error], and [*ColorLogger.Fatal] produce messages.

Log messages emitted by [ColorLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [INFO] authstate/store.go:88 'auth state changed' log_context: {"data":{"event":"SIGNED_IN"}}

The log context is a JSON-encoded [LogContext].
It carries data inessential to the message proper
that gives a fuller picture of the application state at the time of logging.

# SentryLogger

When a Sentry DSN is configured, [NewSentryLogger] wraps a [ColorLogger]
and ships the error in the [LogContext] of every warning, error, or fatal message to Sentry.
*/
package logger
