//go:build !unix

package swapchain

import "github.com/cockroachdb/errors"

// Only POSIX file descriptors are exported. Win32 handle export is not implemented.
const handleExportSupported = false

func closeHandle(fd int) error {
	return errors.Newf("cannot close handle %d on this platform", fd)
}
