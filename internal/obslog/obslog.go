// Package obslog holds the compositor's single ambient *slog.Logger
// behind an atomic pointer, shared by the root package and every
// subpackage so that one SetLogger call reconfigures logging
// compositor-wide. The root package re-exports SetLogger/Logger as the
// public entry point; subpackages import obslog directly to avoid an
// import cycle back through the root package.
package obslog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// Set installs l as the active logger, or restores the silent default
// if l is nil. Safe for concurrent use.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Get returns the currently active logger.
func Get() *slog.Logger {
	return loggerPtr.Load()
}
