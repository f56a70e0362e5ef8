package swapchain

import "github.com/cockroachdb/errors"

// OSHandle is a file descriptor exported from the graphics domain. It has exactly one owner: a
// successful import transfers it to the compute runtime, anything else must close it.
type OSHandle struct {
	fd       int
	consumed bool
}

func newOSHandle(fd int) *OSHandle {
	return &OSHandle{fd: fd}
}

func (h *OSHandle) FD() int {
	return h.fd
}

// Owned reports whether the holder still owns the descriptor
func (h *OSHandle) Owned() bool {
	return !h.consumed
}

// Close closes the descriptor if it is still owned
func (h *OSHandle) Close() error {
	if h.consumed {
		return nil
	}
	h.consumed = true
	return errors.Wrapf(closeHandle(h.fd), "close exported handle %d", h.fd)
}

// transfer marks ownership as handed to an importer
func (h *OSHandle) transfer() {
	h.consumed = true
}
