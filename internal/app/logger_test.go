package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	logger.Warn("careful", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"careful"`)

	buf.Reset()
	logger = newLogger("bogus", "text", &buf)
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
