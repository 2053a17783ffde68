package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler duplicates every record to a set of sinks, so the
// stdout stream and the system_logs table see the same records. A
// failing sink never starves the others; Handle delivers to all of
// them and reports the joined failures.
type MultiHandler struct {
	sinks []slog.Handler
}

func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &MultiHandler{sinks: sinks}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &MultiHandler{sinks: sinks}
}
