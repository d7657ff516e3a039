package seat

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const keymapFDName = "wroc-keymap"

// WriteKeymapFD creates a memfd containing text (an XKB_V1 keymap
// string), sized exactly to len(text), and seals it against write,
// shrink, and grow (spec §6: "Sealed with F_SEAL_WRITE | F_SEAL_SHRINK |
// F_SEAL_GROW"). Grounded on the original keymap-distribution sequence:
// memfd_create, ftruncate, mmap+copy, munmap, then fcntl(F_ADD_SEALS).
func WriteKeymapFD(text string) (fd int, size uint32, err error) {
	fd, err = unix.MemfdCreate(keymapFDName, unix.MFD_ALLOW_SEALING)
	if err != nil {
		return -1, 0, fmt.Errorf("seat: memfd_create: %w", err)
	}

	n := len(text)
	if err := unix.Ftruncate(fd, int64(n)); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("seat: ftruncate: %w", err)
	}

	data, err := unix.Mmap(fd, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("seat: mmap: %w", err)
	}
	copy(data, text)
	if err := unix.Munmap(data); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("seat: munmap: %w", err)
	}

	const seals = unix.F_SEAL_WRITE | unix.F_SEAL_SHRINK | unix.F_SEAL_GROW
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, seals); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("seat: fcntl F_ADD_SEALS: %w", err)
	}

	return fd, uint32(n), nil
}

// DupKeymapFD returns a fresh fd referencing the same memfd, handed to
// each newly bound wl_keyboard per spec §4.6 ("a fresh reference to the
// memfd").
func DupKeymapFD(fd int) (int, error) {
	dup, err := unix.Dup(fd)
	if err != nil {
		return -1, fmt.Errorf("seat: dup keymap fd: %w", err)
	}
	return dup, nil
}
