package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNop_Discards(t *testing.T) {
	logger := NewNop()
	assert.NotNil(t, logger)
	logger.Error("dropped", "err", "boom")
}

func TestNew_Level(t *testing.T) {
	logger := New(slog.LevelWarn)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestReplaceErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replaceAttr}))
	logger.Info("failed", "error", "boom")
	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}
