// Package ports declares the narrow interfaces the frame ring needs from each GPU domain and from
// the pipeline collaborators around it. Adapters in the vulkan, cuda and sim packages implement them.
package ports

import (
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -source=graphics.go -destination=../mocks/graphics.go -package=mocks

// QueueFamily describes one queue family exposed by a physical device
type QueueFamily struct {
	Index      int
	QueueCount int
	Flags      core1_0.QueueFlags
}

// SupportsGraphics reports whether the family can accept graphics work
func (f QueueFamily) SupportsGraphics() bool {
	return f.Flags&core1_0.QueueGraphics != 0
}

// ImageInfo describes a 2D color image that will back one frame
type ImageInfo struct {
	Width  int
	Height int
	Format core1_0.Format
	Usage  core1_0.ImageUsageFlags
	// Exportable requests an image whose memory can be exported as an OS handle
	Exportable bool
}

// MemoryAllocation describes a single device memory allocation
type MemoryAllocation struct {
	Size            int
	MemoryTypeIndex int
	// Exportable chains an export request (opaque FD handle type) onto the allocation
	Exportable bool
	// DedicatedImage, when non-nil, marks the allocation as dedicated to that image
	DedicatedImage GraphicsImage
}

// UploadInfo describes a host-to-image copy submitted on the device queue
type UploadInfo struct {
	Image  GraphicsImage
	Width  int
	Height int
	Pixels []byte
	// Wait is waited on before the image is written. It may be nil.
	Wait GraphicsSemaphore
	// Signal is signaled when the write has completed. It may be nil.
	Signal GraphicsSemaphore
}

// GraphicsDriver is the entry point to the graphics API
type GraphicsDriver interface {
	CreateInstance() (GraphicsInstance, error)
}

// GraphicsInstance is a live instance of the graphics API
type GraphicsInstance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	Destroy()
}

// PhysicalDevice is one GPU visible to a GraphicsInstance
type PhysicalDevice interface {
	Name() string
	QueueFamilies() []QueueFamily
	MemoryTypes() []core1_0.MemoryType
	// DeviceUUID returns the device's UUID if the driver can report one
	DeviceUUID() (uuid.UUID, bool)
	CreateDevice(queueFamily int) (GraphicsDevice, error)
}

// GraphicsDevice is a logical device with a single queue from the selected family
type GraphicsDevice interface {
	QueueFamily() int
	CreateImage(info ImageInfo) (GraphicsImage, error)
	AllocateMemory(info MemoryAllocation) (GraphicsMemory, error)
	CreateSemaphore(exportable bool) (GraphicsSemaphore, error)

	// MemoryExporter probes for the driver's memory export entry point. The second return value is false
	// when the driver does not expose one.
	MemoryExporter() (MemoryExporter, bool)
	// SemaphoreExporter probes for the driver's semaphore export entry point. The second return value is
	// false when the driver does not expose one.
	SemaphoreExporter() (SemaphoreExporter, bool)

	UploadImage(info UploadInfo) error
	WaitIdle() error
	Destroy()
}

// GraphicsImage is an image created by a GraphicsDevice
type GraphicsImage interface {
	MemoryRequirements() core1_0.MemoryRequirements
	BindMemory(memory GraphicsMemory, offset int) error
	CreateView() (GraphicsImageView, error)
	Destroy()
}

type GraphicsImageView interface {
	Destroy()
}

type GraphicsMemory interface {
	Size() int
	Free()
}

type GraphicsSemaphore interface {
	Destroy()
}

// MemoryExporter exports device memory as a file descriptor. Ownership of the returned descriptor passes
// to the caller.
type MemoryExporter interface {
	ExportMemory(memory GraphicsMemory) (int, error)
}

// SemaphoreExporter exports a semaphore created with exportable set as a file descriptor. Ownership of
// the returned descriptor passes to the caller.
type SemaphoreExporter interface {
	ExportSemaphore(semaphore GraphicsSemaphore) (int, error)
}
