// Package eventloop implements the compositor's single-threaded,
// epoll-based event loop: file descriptor readiness dispatch plus a list
// of post-steps that run after every dispatched batch.
//
// The design is grounded directly on the reference compositor's
// event_loop.cpp/.hpp: a stable per-fd registration node, post-steps run
// once before the first wait and again after each wake's dispatch, EINTR
// retried transparently, and EBADF (raised by closing the epoll fd from
// Stop) used as the clean-shutdown signal rather than a separate flag
// checked every iteration.
package eventloop

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Callback is invoked when a registered fd becomes ready. events is the
// raw epoll event mask (EPOLLIN, EPOLLOUT, EPOLLHUP, ...).
type Callback func(events uint32)

// PostStep runs after the loop's initial setup and after every dispatched
// batch of fd readiness callbacks. Used primarily to flush buffered
// Wayland client writes once per iteration rather than after every
// individual message.
type PostStep func()

type source struct {
	fd       int
	events   uint32
	callback Callback
}

// Loop is a single-threaded epoll-based event loop. Not safe for
// concurrent use from multiple goroutines — all registration and Run
// calls must happen from the loop's owning goroutine, matching the
// compositor's single-threaded scheduling model (SPEC_FULL.md §5).
type Loop struct {
	epfd      int
	sources   map[int]*source
	postSteps []PostStep
}

// New creates an event loop backed by epoll_create1.
func New() (*Loop, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("eventloop: epoll_create1: %w", err)
	}
	return &Loop{
		epfd:    fd,
		sources: make(map[int]*source),
	}, nil
}

// AddFD registers fd for the given epoll event mask. cb is invoked from
// Run whenever fd becomes ready. Registering an already-registered fd
// replaces its callback and event mask.
func (l *Loop) AddFD(fd int, events uint32, cb Callback) error {
	src, exists := l.sources[fd]
	if exists {
		src.events = events
		src.callback = cb
		return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
			Events: events,
			Fd:     int32(fd),
		})
	}

	src = &source{fd: fd, events: events, callback: cb}
	l.sources[fd] = src

	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: events,
		Fd:     int32(fd),
	}); err != nil {
		delete(l.sources, fd)
		return fmt.Errorf("eventloop: epoll_ctl add fd=%d: %w", fd, err)
	}
	return nil
}

// RemoveFD unregisters fd. It is not an error to remove an fd that was
// never added.
func (l *Loop) RemoveFD(fd int) error {
	if _, ok := l.sources[fd]; !ok {
		return nil
	}
	delete(l.sources, fd)
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("eventloop: epoll_ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// AddPostStep registers a function to run after the loop's initial setup
// and after every dispatched batch of readiness callbacks.
func (l *Loop) AddPostStep(step PostStep) {
	l.postSteps = append(l.postSteps, step)
}

func (l *Loop) runPostSteps() {
	for _, step := range l.postSteps {
		step()
	}
}

const maxEventsPerWait = 64

// Run blocks, dispatching fd readiness callbacks until Stop is called
// (from within a callback or post-step — this is single-threaded) or an
// unrecoverable epoll_wait error occurs. Returns nil on clean shutdown.
func (l *Loop) Run() error {
	l.runPostSteps()

	events := make([]unix.EpollEvent, maxEventsPerWait)

	for {
		n, err := unix.EpollWait(l.epfd, events, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EBADF) {
				// Stop() closed the epoll fd; this is the
				// intended shutdown path.
				return nil
			}
			return fmt.Errorf("eventloop: epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if src, ok := l.sources[fd]; ok {
				src.callback(events[i].Events)
			}
		}

		l.runPostSteps()
	}
}

// Stop causes the next (or in-progress) epoll_wait to return EBADF by
// closing the epoll fd, which Run treats as a clean shutdown signal. Safe
// to call from within a callback or post-step running on the loop's own
// goroutine; not safe to call concurrently from another goroutine without
// external synchronization.
func (l *Loop) Stop() error {
	if l.epfd < 0 {
		return nil
	}
	fd := l.epfd
	l.epfd = -1
	return unix.Close(fd)
}
