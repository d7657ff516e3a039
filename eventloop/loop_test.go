package eventloop_test

import (
	"testing"

	"github.com/gogpu/wroc/eventloop"
	"golang.org/x/sys/unix"
)

func TestAddFDDispatchesOnReadiness(t *testing.T) {
	loop, err := eventloop.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r, w, err := pipe(t)
	if err != nil {
		t.Fatalf("pipe() error = %v", err)
	}
	defer unix.Close(r)
	defer unix.Close(w)

	fired := make(chan uint32, 1)
	if err := loop.AddFD(r, unix.EPOLLIN, func(events uint32) {
		fired <- events
		loop.Stop()
	}); err != nil {
		t.Fatalf("AddFD() error = %v", err)
	}

	loop.AddPostStep(func() {})

	unix.Write(w, []byte("x"))

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	select {
	case events := <-fired:
		if events&unix.EPOLLIN == 0 {
			t.Errorf("expected EPOLLIN in events, got %#x", events)
		}
	default:
		t.Fatal("callback never fired")
	}
}

func TestRemoveFDIsIdempotent(t *testing.T) {
	loop, err := eventloop.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := loop.RemoveFD(999); err != nil {
		t.Errorf("RemoveFD on unregistered fd: %v", err)
	}
}

func TestStopTerminatesRun(t *testing.T) {
	loop, err := eventloop.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	loop.AddPostStep(func() {
		loop.Stop()
	})

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func pipe(t *testing.T) (r, w int, err error) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}
