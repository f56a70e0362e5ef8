//go:build unix

package swapchain

import "golang.org/x/sys/unix"

const handleExportSupported = true

func closeHandle(fd int) error {
	return unix.Close(fd)
}
