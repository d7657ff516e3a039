package wroc

import (
	"log/slog"
	"testing"
)

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WROC_BACKEND", "drm")
	t.Setenv("WROC_LOG_LEVEL", "debug")
	t.Setenv("WROC_VALIDATION", "true")

	cfg := DefaultConfig()
	if cfg.RuntimeDir != "/run/user/1000" {
		t.Errorf("RuntimeDir = %q, want /run/user/1000", cfg.RuntimeDir)
	}
	if cfg.Backend != BackendDirect {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendDirect)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want Debug", cfg.LogLevel)
	}
	if !cfg.EnableValidation {
		t.Errorf("EnableValidation = false, want true")
	}
}

func TestDefaultConfigFallsBackWithoutEnv(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("WROC_BACKEND", "")
	t.Setenv("WROC_LOG_LEVEL", "")
	t.Setenv("WROC_VALIDATION", "")

	cfg := DefaultConfig()
	if cfg.Backend != BackendAuto {
		t.Errorf("Backend = %q, want auto", cfg.Backend)
	}
	if cfg.MaxImages != 2 {
		t.Errorf("MaxImages = %d, want 2", cfg.MaxImages)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want Info", cfg.LogLevel)
	}
}

func TestConfigValidateRequiresRuntimeDir(t *testing.T) {
	cfg := Config{Backend: BackendAuto}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate() to reject an empty RuntimeDir")
	}
}

func TestConfigValidateFillsDefaultMaxImages(t *testing.T) {
	cfg := Config{RuntimeDir: "/run/user/1000", Backend: BackendAuto, MaxImages: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.MaxImages != 2 {
		t.Errorf("MaxImages = %d, want 2 (default filled in)", cfg.MaxImages)
	}
}

func TestConfigValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Config{RuntimeDir: "/run/user/1000", Backend: BackendKind("bogus")}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate() to reject an unknown backend")
	}
}
