package wroc

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// BackendKind selects which presentation backend the server uses.
type BackendKind string

const (
	// BackendAuto picks the nested-Wayland backend when WAYLAND_DISPLAY
	// is set, and the direct DRM/KMS backend otherwise.
	BackendAuto BackendKind = "auto"
	// BackendWayland forces the nested-Wayland backend.
	BackendWayland BackendKind = "wayland"
	// BackendDirect forces the direct DRM/KMS backend.
	BackendDirect BackendKind = "drm"
)

// Config configures a Server. Zero value is not valid; use DefaultConfig
// and override individual fields.
type Config struct {
	// SocketName is the Wayland socket name advertised under
	// RuntimeDir. Empty means auto-assign the first free "wayland-N".
	SocketName string

	// RuntimeDir is $XDG_RUNTIME_DIR. The socket is created at
	// RuntimeDir/SocketName.
	RuntimeDir string

	// Backend selects the presentation backend.
	Backend BackendKind

	// EnableValidation requests the Vulkan validation layer on gpucore
	// initialization. Maps to spec.md §4.1's `features` flag set.
	EnableValidation bool

	// MaxImages bounds the number of in-flight images per output
	// swapchain (spec.md §3's Output.max_images). Default 2.
	MaxImages int

	// LogLevel is the minimum level for the handler cmd/wroc installs via
	// SetLogger. Server does not read it: without a SetLogger call
	// nothing is logged at any level.
	LogLevel slog.Level
}

// DefaultConfig returns a Config populated from environment variables
// (XDG_RUNTIME_DIR, WROC_BACKEND, WROC_LOG_LEVEL, WROC_VALIDATION), with
// fallbacks matching spec.md §6's External Interfaces section.
func DefaultConfig() Config {
	cfg := Config{
		RuntimeDir:       os.Getenv("XDG_RUNTIME_DIR"),
		Backend:          BackendAuto,
		EnableValidation: false,
		MaxImages:        2,
		LogLevel:         slog.LevelInfo,
	}

	if b := os.Getenv("WROC_BACKEND"); b != "" {
		cfg.Backend = BackendKind(b)
	}

	if lvl := os.Getenv("WROC_LOG_LEVEL"); lvl != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(lvl)); err == nil {
			cfg.LogLevel = l
		}
	}

	if v := os.Getenv("WROC_VALIDATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableValidation = b
		}
	}

	return cfg
}

// Validate reports whether the config is usable, filling in cheap
// defaults (MaxImages) rather than failing for them.
func (c *Config) Validate() error {
	if c.RuntimeDir == "" {
		return fmt.Errorf("wroc: XDG_RUNTIME_DIR is not set and RuntimeDir is empty")
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 2
	}
	switch c.Backend {
	case BackendAuto, BackendWayland, BackendDirect:
	default:
		return fmt.Errorf("wroc: unknown backend %q", c.Backend)
	}
	return nil
}
