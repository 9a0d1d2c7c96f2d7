package logger

import "log"

// An OptFn is a functional option configuring a ColorLogger when constructing a new one.
type OptFn func(*ColorLogger)

// WithEnv sets the environment ColorLogger is operating in.
func WithEnv(env string) OptFn {
	return func(l *ColorLogger) {
		l.env = env
	}
}

// WithLevel sets the log level ColorLogger uses.
// LogLevelUnk leaves the default in place.
func WithLevel(level LogLevel) OptFn {
	return func(l *ColorLogger) {
		if level == LogLevelUnk {
			return
		}

		l.ll = level
	}
}

// WithLogger sets the log.Logger ColorLogger uses.
func WithLogger(log *log.Logger) OptFn {
	return func(l *ColorLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) OptFn {
	return func(l *ColorLogger) {
		l.skip = skip
	}
}
