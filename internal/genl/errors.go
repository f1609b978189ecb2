package genl

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Sentinel errno wrappers callers can match with errors.Is. These mirror
// the three kernel error codes spec.md §7 calls out by name; everything
// else from the wire is surfaced unwrapped.
var (
	ErrBusy    = unix.EBUSY
	ErrNoEntry = unix.ENOENT
	ErrAgain   = unix.EAGAIN
)

// errnoOf unwraps a netlink ack error down to the underlying errno, so
// callers can use errors.Is(err, genl.ErrBusy) regardless of how many
// layers of fmt.Errorf %w wrapping sit on top of it.
func errnoOf(err error) (unix.Errno, bool) {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}
