//go:build linux

package sim

import (
	"encoding/binary"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// semaphoreTimeout bounds a wait on a simulated semaphore. A real GPU would hang instead.
const semaphoreTimeout = 5 * time.Second

// newSharedMemory creates an anonymous shared memory file of size bytes and maps it
func newSharedMemory(name string, size int) (int, []byte, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return -1, nil, errors.Wrap(err, "memfd_create")
	}

	err = unix.Ftruncate(fd, int64(size))
	if err != nil {
		_ = unix.Close(fd)
		return -1, nil, errors.Wrapf(err, "ftruncate to %d bytes", size)
	}

	mapping, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return -1, nil, errors.Wrap(err, "mmap")
	}

	return fd, mapping, nil
}

// mapSharedMemory maps size bytes of an existing shared memory descriptor
func mapSharedMemory(fd int, size int) ([]byte, error) {
	var stat unix.Stat_t
	err := unix.Fstat(fd, &stat)
	if err != nil {
		return nil, errors.Wrapf(err, "fstat handle %d", fd)
	}
	if stat.Size < int64(size) {
		return nil, errors.Newf("handle %d is %d bytes, cannot import %d", fd, stat.Size, size)
	}

	mapping, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	return mapping, errors.Wrapf(err, "mmap handle %d", fd)
}

func newEventFD() (int, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	return fd, errors.Wrap(err, "eventfd")
}

func signalEventFD(fd int) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(fd, buf[:])
	return errors.Wrapf(err, "signal eventfd %d", fd)
}

// waitEventFD consumes one signal, blocking up to semaphoreTimeout for it to arrive
func waitEventFD(fd int) error {
	deadline := time.Now().Add(semaphoreTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errors.Newf("eventfd %d was not signaled within %s", fd, semaphoreTimeout)
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, err := unix.Poll(fds, int(remaining/time.Millisecond)+1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "poll eventfd %d", fd)
		}

		var buf [8]byte
		_, err = unix.Read(fd, buf[:])
		if errors.Is(err, unix.EAGAIN) {
			continue
		}
		return errors.Wrapf(err, "wait eventfd %d", fd)
	}
}
