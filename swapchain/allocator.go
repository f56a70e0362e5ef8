package swapchain

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// frameImageUsage lets a frame image be rendered into and copied in either direction
const frameImageUsage = core1_0.ImageUsageTransferSrc | core1_0.ImageUsageTransferDst | core1_0.ImageUsageColorAttachment

// AllocateImage creates an export-capable 2D image and queries its memory requirements. The requirements
// are only known once the image exists, since size and alignment depend on format and tiling.
func AllocateImage(dc *DeviceContext, width, height int, format PixelFormat) (ports.GraphicsImage, core1_0.MemoryRequirements, error) {
	dc.logger.Debug("Allocator::AllocateImage", slog.Int("width", width), slog.Int("height", height))

	image, err := dc.device.CreateImage(ports.ImageInfo{
		Width:      width,
		Height:     height,
		Format:     format.GraphicsFormat(),
		Usage:      frameImageUsage,
		Exportable: true,
	})
	if err != nil {
		return nil, core1_0.MemoryRequirements{}, newError(ErrAllocationFailed, err, "create %dx%d %s image", width, height, format)
	}

	requirements := image.MemoryRequirements()
	err = memutils.CheckPow2(requirements.Alignment, "image memory alignment")
	if err != nil {
		image.Destroy()
		return nil, core1_0.MemoryRequirements{}, newError(ErrAllocationFailed, err, "query image memory requirements")
	}
	if requirements.Size < memutils.ImageByteSize(width, height, format.BytesPerPixel()) {
		image.Destroy()
		return nil, core1_0.MemoryRequirements{}, newError(ErrSizeMismatch, nil, "image requires %d bytes, smaller than its %dx%d extent", requirements.Size, width, height)
	}

	return image, requirements, nil
}

// AllocateMemory allocates a single exportable allocation for image, dedicated to it unless dedicated is
// false, and binds it at offset 0
func AllocateMemory(dc *DeviceContext, image ports.GraphicsImage, requirements core1_0.MemoryRequirements, typeIndex int, dedicated bool) (ports.GraphicsMemory, error) {
	dc.logger.Debug("Allocator::AllocateMemory",
		slog.Int("size", requirements.Size),
		slog.Int("memoryTypeIndex", typeIndex),
		slog.Bool("dedicated", dedicated))

	allocation := ports.MemoryAllocation{
		Size:            requirements.Size,
		MemoryTypeIndex: typeIndex,
		Exportable:      true,
	}
	if dedicated {
		allocation.DedicatedImage = image
	}

	memory, err := dc.device.AllocateMemory(allocation)
	if err != nil {
		return nil, newError(ErrAllocationFailed, err, "allocate %d bytes from memory type %d", requirements.Size, typeIndex)
	}

	err = image.BindMemory(memory, 0)
	if err != nil {
		dc.logger.Debug("    Allocator::AllocateMemory FAILED")
		memory.Free()
		return nil, newError(ErrAllocationFailed, err, "bind image memory")
	}

	return memory, nil
}

// CreateView creates a 2D color view over the whole of image
func CreateView(dc *DeviceContext, image ports.GraphicsImage) (ports.GraphicsImageView, error) {
	view, err := image.CreateView()
	if err != nil {
		return nil, newError(ErrAllocationFailed, err, "create image view")
	}
	return view, nil
}
