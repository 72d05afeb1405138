package main

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// zerologHandler forwards slog records emitted by the internal packages to
// the process zerolog logger, so the binary has a single output stream.
type zerologHandler struct {
	log   zerolog.Logger
	attrs []slog.Attr
}

func newZerologHandler(log zerolog.Logger) *zerologHandler {
	return &zerologHandler{log: log}
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return zerologLevel(level) >= h.log.GetLevel()
}

func (h *zerologHandler) Handle(_ context.Context, rec slog.Record) error {
	ev := h.log.WithLevel(zerologLevel(rec.Level))
	for _, a := range h.attrs {
		ev = ev.Interface(a.Key, a.Value.Any())
	}
	rec.Attrs(func(a slog.Attr) bool {
		ev = ev.Interface(a.Key, a.Value.Any())
		return true
	})
	ev.Msg(rec.Message)
	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &zerologHandler{log: h.log, attrs: merged}
}

func (h *zerologHandler) WithGroup(string) slog.Handler {
	// Groups are flattened; the simulator's log volume does not warrant them.
	return h
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
