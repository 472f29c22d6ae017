package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		level       string
		debugLogged bool
		infoLogged  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &logger.Capture{}
			l, err := logger.Setup(logger.LoggerConfig{Level: tt.level, Output: buf})
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tt.debugLogged, strings.Contains(buf.String(), "debug message"))
			assert.Equal(t, tt.infoLogged, strings.Contains(buf.String(), "info message"))
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	l, buf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), l.With("trace_id", "abc"))
	logger.FromContext(ctx).Info("hello")

	logger.AssertLogContains(t, buf, `"trace_id":"abc"`)
}

func TestFromContextOrDefault_RequestID(t *testing.T) {
	t.Parallel()

	l, buf := logger.GetTestLogger(t)

	ctx := logger.WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", logger.RequestIDFromContext(ctx))

	logger.FromContextOrDefault(ctx, l).Info("hello")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := logger.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logger.ParseLevel("fatal")
	assert.Error(t, err)
}
