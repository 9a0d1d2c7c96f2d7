package logger_test

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/artmatch/logger"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		val  string
		want logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"info", logger.LogLevelUnk},
		{"", logger.LogLevelUnk},
	} {
		t.Run(tc.val, func(t *testing.T) {
			require.Equal(t, tc.want, logger.NewLogLevel(tc.val))
		})
	}
}

func TestColorLoggerLevels(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(logger.LogLevelWarn))

	// Act
	l.Debug("debug", nil)
	l.Info("info", nil)
	l.Warn("warn", nil)
	l.Error("error", nil)

	// Assert
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "[WARN] "))
	require.Contains(t, lines[0], "logger/logger_test.go:")
	require.True(t, strings.HasSuffix(lines[0], "'warn'"))
	require.True(t, strings.HasPrefix(lines[1], "[ERROR]"))
}

func TestColorLoggerLogContext(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(b, "", 0)))

	// Act
	l.Info("signed in", &logger.LogContext{Data: map[string]any{"event": "SIGNED_IN"}})

	// Assert
	require.Contains(t, b.String(), `'signed in' log_context: {"data":{"event":"SIGNED_IN"}}`)
}

func TestWithLevelIgnoresUnknown(t *testing.T) {
	// Arrange + Act
	l := logger.New(logger.WithLevel(logger.LogLevelUnk))

	// Assert
	require.Equal(t, logger.LogLevelInfo, l.LogLevel())
}

func TestLogContextMarshalText(t *testing.T) {
	// Arrange
	lc := logger.LogContext{}

	// Act
	b, err := lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, "{}", string(b))

	// Arrange
	lc = logger.LogContext{Error: errors.New("test"), User: testUser{}}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{"error":"test","user":{"id":"u-1","email":"test@example.com"}}`, string(b))

	// Arrange
	form := url.Values{}
	form.Set("email", "husserl@example.com")
	form.Set("password", "hunter2")

	r := httptest.NewRequest(http.MethodPost, "https://example.com/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Nil(t, r.ParseForm())

	lc = logger.LogContext{Request: r}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{
		"request": {
			"method": "POST",
			"url": "https://example.com/login",
			"form": {"email": ["husserl@example.com"], "password": ["xxxxxx"]}
		}
	}`, string(b))
	require.Equal(t, "hunter2", r.Form.Get("password"))
}

type testUser struct{}

func (u testUser) GetID() string    { return "u-1" }
func (u testUser) GetEmail() string { return "test@example.com" }
