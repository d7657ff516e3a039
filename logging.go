package wroc

import (
	"log/slog"

	"github.com/gogpu/wroc/internal/obslog"
)

// SetLogger configures the logger used by wroc and its subpackages
// (eventloop, wire, protocol, surface, gpucore, output, backend, seat).
// By default wroc produces no log output; call SetLogger to enable it.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
func SetLogger(l *slog.Logger) {
	obslog.Set(l)
}

// Logger returns the logger currently configured for wroc. Subpackages
// call obslog.Get directly (to avoid importing the root package), so a
// single SetLogger call reconfigures the whole compositor.
func Logger() *slog.Logger {
	return obslog.Get()
}
