// Package logging holds the slog helpers shared by every package of the module
package logging

import (
	"context"

	"golang.org/x/exp/slog"
)

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// OrDiscard returns logger, or a discarding logger when logger is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
