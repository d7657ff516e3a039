// Command wroc runs the compositor core as a standalone Wayland server.
//
// It wires [wroc.DefaultConfig] to a handful of flags/env-var overrides,
// starts a [wroc.Server], and runs it until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/wroc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wroc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := wroc.DefaultConfig()

	socketName := flag.String("socket", cfg.SocketName, "Wayland socket name (empty: auto-assign wayland-N)")
	backend := flag.String("backend", string(cfg.Backend), "presentation backend: auto, wayland, or drm")
	validation := flag.Bool("validation", cfg.EnableValidation, "enable GPU validation layer")
	maxImages := flag.Int("max-images", cfg.MaxImages, "swapchain images in flight per output")
	logLevel := flag.String("log-level", cfg.LogLevel.String(), "log level: debug, info, warn, or error")
	flag.Parse()

	cfg.SocketName = *socketName
	cfg.Backend = wroc.BackendKind(*backend)
	cfg.EnableValidation = *validation
	cfg.MaxImages = *maxImages

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("bad -log-level %q: %w", *logLevel, err)
	}
	cfg.LogLevel = lvl

	wroc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	srv, err := wroc.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return srv.Run(ctx)
}
