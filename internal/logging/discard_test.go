package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.False(t, logger.Enabled(context.Background(), slog.LevelError))

	derived := logger.With(slog.String("key", "value")).WithGroup("group")
	require.False(t, derived.Enabled(context.Background(), slog.LevelError))
	derived.Error("dropped")
}

func TestOrDiscard(t *testing.T) {
	require.NotNil(t, OrDiscard(nil))

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	require.Same(t, logger, OrDiscard(logger))
}
