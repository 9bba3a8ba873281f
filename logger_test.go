package jwtfilter

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	// Create a zap logger that we can observe
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Debug("debug message", "key", "value")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	entries := recorded.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "error message", entries[2].Message)
	assert.Equal(t, "value", entries[0].ContextMap()["key"])
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Debug("debug message", "key", "value")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", "dangling")

	logOutput := buf.String()
	assert.Contains(t, logOutput, `"message":"debug message"`)
	assert.Contains(t, logOutput, `"key":"value"`)
	assert.Contains(t, logOutput, "info message")
	assert.Contains(t, logOutput, "warn message")
	assert.Contains(t, logOutput, "error message")
	assert.Contains(t, logOutput, `"!BADKEY":"dangling"`)
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.Out = &buf
	logrusLogger.Level = logrus.InfoLevel
	logrusLogger.Formatter = &logrus.JSONFormatter{}

	logger := NewLogrusLogger(logrusLogger)

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message", "Debug messages should not be logged at Info level")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, `"key":"value"`)
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func Test_fields(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1, "2": "b", badKey: "c"}, fields([]any{"a", 1, 2, "b", "c"}))
	assert.Empty(t, fields(nil))
}

func Test_Filter_LogsWithoutToken(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)

	filter, err := New(
		WithValidator(newTestValidator(t)),
		WithLogger(NewZapLogger(zap.New(core))),
	)
	require.NoError(t, err)

	token := signToken(t, otherKey, "alice", testNow.Add(time.Hour))
	request := httptest.NewRequest(http.MethodGet, "/orders", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	filter.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), request)

	rejected := recorded.FilterMessage("token rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.DebugLevel, rejected[0].Level)
	assert.Equal(t, "invalid_signature", rejected[0].ContextMap()["outcome"])

	assert.Zero(t, recorded.FilterLevelExact(zapcore.ErrorLevel).Len(), "failures must not be logged at error level")
	for _, entry := range recorded.All() {
		for _, value := range entry.ContextMap() {
			assert.NotContains(t, toString(value), token)
		}
	}
}

func Test_Filter_AcceptsSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	filter, err := New(WithValidator(newTestValidator(t)), WithLogger(logger))
	require.NoError(t, err)

	filter.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), "no bearer token on request")
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
