package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// ExportHandle exports device memory as an OS handle. The driver's export entry point is probed on each
// call, and its absence is reported as ErrExportUnsupported.
func ExportHandle(dc *DeviceContext, memory ports.GraphicsMemory) (*OSHandle, error) {
	if !handleExportSupported {
		return nil, newError(ErrExportUnsupported, nil, "file descriptor export is not available on this platform")
	}

	exporter, ok := dc.device.MemoryExporter()
	if !ok {
		return nil, newError(ErrExportUnsupported, nil, "driver does not expose a memory export function")
	}

	fd, err := exporter.ExportMemory(memory)
	if err != nil {
		return nil, newError(ErrExportFailed, err, "export %d bytes of device memory", memory.Size())
	}

	dc.logger.Debug("Bridge::ExportHandle", slog.Int("fd", fd), slog.Int("size", memory.Size()))
	return newOSHandle(fd), nil
}

// ImportInfo describes the frame an exported handle backs
type ImportInfo struct {
	// ByteSize is the size the importer expects the frame to occupy. It must equal the tightly packed
	// size of Width x Height in Format.
	ByteSize int
	// AllocationSize is the size of the exported allocation, which alignment may make larger than
	// ByteSize. Zero means ByteSize.
	AllocationSize int
	Width          int
	Height         int
	Format         PixelFormat
	Dedicated      bool
}

// ImportHandle imports an exported handle into the compute runtime. On success the runtime owns the
// handle. On any failure the handle is closed so it cannot leak.
func ImportHandle(compute ports.ComputeContext, handle *OSHandle, info ImportInfo) (ports.ExternalMemory, error) {
	if !handle.Owned() {
		return nil, errors.Newf("handle %d has already been imported or closed", handle.FD())
	}

	expected := memutils.ImageByteSize(info.Width, info.Height, info.Format.BytesPerPixel())
	if info.ByteSize != expected {
		return nil, errors.CombineErrors(
			newError(ErrSizeMismatch, nil, "import of %d bytes for a %dx%d %s frame of %d bytes", info.ByteSize, info.Width, info.Height, info.Format, expected),
			handle.Close())
	}

	allocationSize := info.AllocationSize
	if allocationSize == 0 {
		allocationSize = info.ByteSize
	}
	if allocationSize < info.ByteSize {
		return nil, errors.CombineErrors(
			newError(ErrSizeMismatch, nil, "allocation of %d bytes cannot hold a frame of %d bytes", allocationSize, info.ByteSize),
			handle.Close())
	}

	memory, err := compute.ImportMemory(ports.MemoryImport{
		FD:        handle.FD(),
		Size:      allocationSize,
		Dedicated: info.Dedicated,
	})
	if err != nil {
		return nil, errors.CombineErrors(
			newError(ErrImportFailed, err, "import handle %d", handle.FD()),
			handle.Close())
	}
	handle.transfer()

	return memory, nil
}

// MapArray maps imported memory to a compute array with the frame's extent and format. The array the
// runtime reports must match exactly.
func MapArray(memory ports.ExternalMemory, width, height int, format PixelFormat) (ports.MappedArray, error) {
	desc := format.ArrayDescriptor(width, height)

	array, err := memory.MapArray(desc)
	if err != nil {
		return nil, newError(ErrImportFailed, err, "map external memory to a %dx%d array", width, height)
	}

	reported, err := array.Descriptor()
	if err != nil {
		_ = array.Destroy()
		return nil, newError(ErrImportFailed, err, "query mapped array descriptor")
	}
	if reported != desc {
		_ = array.Destroy()
		return nil, newError(ErrSizeMismatch, nil, "mapped array is %dx%d with %d channels, expected %dx%d with %d",
			reported.Width, reported.Height, reported.NumChannels, desc.Width, desc.Height, desc.NumChannels)
	}

	return array, nil
}

// sharedSemaphore is a graphics semaphore exported into the compute runtime
type sharedSemaphore struct {
	graphics ports.GraphicsSemaphore
	compute  ports.ComputeSemaphore
}

func newSharedSemaphore(dc *DeviceContext) (_ *sharedSemaphore, err error) {
	if !handleExportSupported {
		return nil, newError(ErrExportUnsupported, nil, "file descriptor export is not available on this platform")
	}

	exporter, ok := dc.device.SemaphoreExporter()
	if !ok {
		return nil, newError(ErrExportUnsupported, nil, "driver does not expose a semaphore export function")
	}

	graphics, err := dc.device.CreateSemaphore(true)
	if err != nil {
		return nil, newError(ErrAllocationFailed, err, "create exportable semaphore")
	}
	defer func() {
		if err != nil {
			graphics.Destroy()
		}
	}()

	fd, err := exporter.ExportSemaphore(graphics)
	if err != nil {
		return nil, newError(ErrExportFailed, err, "export semaphore")
	}
	handle := newOSHandle(fd)

	compute, err := dc.compute.ImportSemaphore(handle.FD())
	if err != nil {
		return nil, errors.CombineErrors(
			newError(ErrImportFailed, err, "import semaphore handle %d", handle.FD()),
			handle.Close())
	}
	handle.transfer()

	return &sharedSemaphore{graphics: graphics, compute: compute}, nil
}

// destroy releases the importer's side before the exporter's
func (s *sharedSemaphore) destroy() error {
	err := s.compute.Destroy()
	s.graphics.Destroy()
	return err
}
