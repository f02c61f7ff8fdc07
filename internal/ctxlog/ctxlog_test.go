package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the embedded logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
		FromContext(ctx).Info("hello", "k", 1)
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("discard", func(t *testing.T) {
		ctx := Discard(context.Background())
		assert.NotSame(t, slog.Default(), FromContext(ctx))
		assert.False(t, FromContext(ctx).Enabled(ctx, slog.LevelError))
	})

	t.Run("with adds attributes", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		ctx, logger := With(ctx, "run_id", "abc")

		assert.Same(t, logger, FromContext(ctx))
		logger.Info("started")
		assert.Contains(t, buf.String(), "run_id=abc")
	})
}
