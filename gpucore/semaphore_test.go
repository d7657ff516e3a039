package gpucore

import "testing"

func TestSemaphoreWaitValueAsyncFiresImmediatelyIfAlreadyReached(t *testing.T) {
	s, err := newSemaphore(nil, 0, 0)
	if err != nil {
		t.Fatalf("newSemaphore: %v", err)
	}
	defer s.Close()

	s.SignalValue(5)

	fired := false
	s.WaitValueAsync(3, func(uint64) { fired = true })
	if !fired {
		t.Errorf("WaitValueAsync should fire immediately when current >= target")
	}
}

func TestSemaphoreWaitValueAsyncFiresInAscendingOrderOnSignal(t *testing.T) {
	s, err := newSemaphore(nil, 0, 0)
	if err != nil {
		t.Fatalf("newSemaphore: %v", err)
	}
	defer s.Close()

	var order []uint64
	s.WaitValueAsync(10, func(v uint64) { order = append(order, v) })
	s.WaitValueAsync(3, func(v uint64) { order = append(order, v) })
	s.WaitValueAsync(7, func(v uint64) { order = append(order, v) })

	s.SignalValue(7)
	if want := []uint64{3, 7}; !equalUint64Slices(order, want) {
		t.Errorf("after SignalValue(7), dispatched = %v, want %v", order, want)
	}

	s.SignalValue(10)
	if want := []uint64{3, 7, 10}; !equalUint64Slices(order, want) {
		t.Errorf("after SignalValue(10), dispatched = %v, want %v", order, want)
	}
}

func TestSemaphoreSignalValueIgnoresRegression(t *testing.T) {
	s, err := newSemaphore(nil, 0, 0)
	if err != nil {
		t.Fatalf("newSemaphore: %v", err)
	}
	defer s.Close()

	s.SignalValue(10)
	s.SignalValue(4)

	if got := s.GetValue(); got != 10 {
		t.Errorf("GetValue() = %d, want 10 (regression ignored)", got)
	}
}

func TestSemaphoreWaitValueBlockingRecordsSkipAndDispatches(t *testing.T) {
	s, err := newSemaphore(nil, 0, 0)
	if err != nil {
		t.Fatalf("newSemaphore: %v", err)
	}
	defer s.Close()

	fired := false
	s.WaitValueAsync(5, func(uint64) { fired = true })

	s.WaitValueBlocking(5)

	if !fired {
		t.Errorf("WaitValueBlocking should dispatch async waits it reaches")
	}
	if got := s.WaitSkips(); got != 1 {
		t.Errorf("WaitSkips() = %d, want 1", got)
	}
}

func equalUint64Slices(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
