package wroc

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestNewSelfPipeWakesUpOnWrite(t *testing.T) {
	r, w, err := newSelfPipe()
	if err != nil {
		t.Fatalf("newSelfPipe() error = %v", err)
	}
	defer unix.Close(r)
	defer unix.Close(w)

	var one [1]byte
	if _, err := unix.Write(w, one[:]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var buf [1]byte
	n, err := unix.Read(r, buf[:])
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Read() returned %d bytes, want 1", n)
	}
}

func TestNewSelfPipeReadEndIsNonBlocking(t *testing.T) {
	r, w, err := newSelfPipe()
	if err != nil {
		t.Fatalf("newSelfPipe() error = %v", err)
	}
	defer unix.Close(r)
	defer unix.Close(w)

	var buf [1]byte
	_, err = unix.Read(r, buf[:])
	if err != unix.EAGAIN {
		t.Errorf("Read() on an empty non-blocking pipe = %v, want EAGAIN", err)
	}
}

func TestMonotonicMillisIsNonDecreasing(t *testing.T) {
	a := monotonicMillis()
	b := monotonicMillis()
	if b < a {
		t.Errorf("monotonicMillis() went backwards: %d then %d", a, b)
	}
}
