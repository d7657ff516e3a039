// Package wroc implements the server-side core of a Wayland compositor:
// wire protocol dispatch, the double-buffered surface commit pipeline, a
// descriptor-indexed GPU context, output swapchain pacing, and pluggable
// presentation backends (a nested-Wayland backend and a direct DRM/KMS
// backend).
//
// # Quick start
//
//	cfg := wroc.DefaultConfig()
//	srv, err := wroc.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Package layout
//
// wroc ties together several subpackages, each independently testable:
//
//	eventloop/  epoll-based single-threaded event loop
//	wire/       Wayland wire protocol codec and socket transport
//	protocol/   per-interface request dispatch tables
//	surface/    commit/flush/apply state machine, buffers, positioner
//	gpucore/    descriptor allocator, timeline semaphores, queues, images
//	output/     swapchain acquire/present and frame pacing
//	backend/    nested-Wayland and direct DRM/KMS presentation backends
//	seat/       keymap distribution, focus arbitration, input fan-out
//
// # Thread model
//
// All compositor state lives on the event-loop goroutine. Subpackages are
// not safe for concurrent mutation from outside that goroutine. The event
// loop has no cross-goroutine task queue; another goroutine can only wake
// it by writing to an fd registered with it, which is how Server.Run
// forwards context cancellation.
//
// # Logging
//
// By default wroc produces no log output. Call [SetLogger] to attach a
// [log/slog.Logger].
package wroc
