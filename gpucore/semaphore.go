package gpucore

import (
	"fmt"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wroc/eventloop"
	"github.com/gogpu/wroc/gpucore/vk"
)

// Semaphore is a timeline-capable sync object: a Vulkan timeline
// semaphore paired with the DRM syncobj handle that shadows it. The
// syncobj handle is only stored; this type has no operation that converts
// the timeline to or from a DRM syncfile.
type Semaphore struct {
	handle  vk.Semaphore
	syncobj uint32 // DRM syncobj handle shadowing handle's timeline

	current uint64 // highest value the timeline has reached

	eventFD   int
	waits     []pendingWait // sorted ascending by target value
	waitSkips uint64
}

type pendingWait struct {
	target   uint64
	callback func(value uint64)
}

// newSemaphore wraps an already-created timeline semaphore handle and its
// shadow syncobj, wiring an eventfd into the event loop for async wait
// dispatch. loop may be nil in tests that exercise only the wait-list
// bookkeeping.
func newSemaphore(loop *eventloop.Loop, handle vk.Semaphore, syncobj uint32) (*Semaphore, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("gpucore: create semaphore eventfd: %w", err)
	}

	s := &Semaphore{handle: handle, syncobj: syncobj, eventFD: fd}

	if loop != nil {
		if err := loop.AddFD(fd, unix.EPOLLIN, func(uint32) { s.onEventFDReadable() }); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	return s, nil
}

// GetValue returns the timeline's current value as last observed by
// SignalValue or WaitValueBlocking. A real device binding keeps this in
// sync with vkGetSemaphoreCounterValue after every driver-side signal.
func (s *Semaphore) GetValue() uint64 {
	return s.current
}

// SignalValue advances the timeline to v and dispatches any pending
// waits whose target has now been reached, in ascending target order.
// Signaling to a value at or below the current one is a no-op.
func (s *Semaphore) SignalValue(v uint64) {
	if v <= s.current {
		return
	}
	s.current = v
	s.dispatchReady()
}

// WaitValueAsync registers callback to fire once the timeline reaches v —
// immediately, if it already has, otherwise on a future SignalValue or
// WaitValueBlocking call that reaches v. Waits are kept in a list sorted
// by ascending target value so dispatch only needs to pop a prefix.
func (s *Semaphore) WaitValueAsync(v uint64, callback func(value uint64)) {
	if s.current >= v {
		callback(v)
		return
	}
	idx := sort.Search(len(s.waits), func(i int) bool { return s.waits[i].target >= v })
	s.waits = append(s.waits, pendingWait{})
	copy(s.waits[idx+1:], s.waits[idx:])
	s.waits[idx] = pendingWait{target: v, callback: callback}
}

// WaitValueBlocking does not wait on the device: it records the timeline
// as having reached v (unless it is already past v) and returns at once.
// Any async waits satisfied by this value are dispatched too, and
// waitSkips is incremented to record that a blocking wait preempted the
// async bookkeeping for this value.
func (s *Semaphore) WaitValueBlocking(v uint64) {
	if s.current < v {
		s.current = v
	}
	s.waitSkips++
	s.dispatchReady()
}

// dispatchReady pops and fires every pending wait whose target has been
// reached, in ascending order.
func (s *Semaphore) dispatchReady() {
	i := 0
	for i < len(s.waits) && s.waits[i].target <= s.current {
		i++
	}
	ready := s.waits[:i]
	s.waits = s.waits[i:]
	for _, w := range ready {
		w.callback(w.target)
	}
}

// onEventFDReadable is invoked by the event loop when a device-side
// signal posts to eventFD, indicating the timeline may have advanced. A
// real binding re-reads the authoritative value from the device here and
// calls SignalValue; this hook drains the eventfd counter so epoll
// doesn't spin.
func (s *Semaphore) onEventFDReadable() {
	var buf [8]byte
	unix.Read(s.eventFD, buf[:])
}

// Close releases the eventfd.
func (s *Semaphore) Close() error {
	if s.eventFD < 0 {
		return nil
	}
	fd := s.eventFD
	s.eventFD = -1
	return unix.Close(fd)
}

// WaitSkips reports the number of blocking waits that preempted pending
// async waits, for diagnostics.
func (s *Semaphore) WaitSkips() uint64 {
	return s.waitSkips
}
