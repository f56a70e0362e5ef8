package ports

import "github.com/google/uuid"

//go:generate mockgen -source=compute.go -destination=../mocks/compute.go -package=mocks

// ArrayFormat is the per-channel element format of a compute array
type ArrayFormat uint32

const (
	ArrayFormatUnsignedInt8 ArrayFormat = 0x01
)

// ArrayDescriptor describes the extent and layout of a compute array
type ArrayDescriptor struct {
	Width       int
	Height      int
	Format      ArrayFormat
	NumChannels int
}

// MemoryImport describes an OS handle to be imported into the compute domain. On success the compute
// context owns FD; on failure ownership stays with the caller.
type MemoryImport struct {
	FD        int
	Size      int
	Dedicated bool
}

// ComputeDriver is the entry point to the compute runtime
type ComputeDriver interface {
	DeviceCount() (int, error)
	CreateContext(deviceIndex int) (ComputeContext, error)
}

// ComputeContext is a compute-runtime context bound to one device
type ComputeContext interface {
	DeviceIndex() int
	// DeviceUUID returns the device's UUID if the runtime can report one
	DeviceUUID() (uuid.UUID, bool)

	ImportMemory(info MemoryImport) (ExternalMemory, error)
	// ImportSemaphore imports a semaphore file descriptor. On success the context owns fd.
	ImportSemaphore(fd int) (ComputeSemaphore, error)

	WaitSemaphore(semaphore ComputeSemaphore) error
	SignalSemaphore(semaphore ComputeSemaphore) error

	// CopyArrayToHost copies height rows of rowBytes each from the array into dst, which must be at
	// least rowBytes*height long
	CopyArrayToHost(array MappedArray, dst []byte, rowBytes, height int) error
	Synchronize() error
	Destroy() error
}

// ExternalMemory is device memory imported from another API
type ExternalMemory interface {
	Size() int
	MapArray(desc ArrayDescriptor) (MappedArray, error)
	Destroy() error
}

// MappedArray is the compute-addressable view of an ExternalMemory
type MappedArray interface {
	Descriptor() (ArrayDescriptor, error)
	// Handle is the runtime's native array handle, for passing to kernels or encoders
	Handle() uintptr
	Destroy() error
}

type ComputeSemaphore interface {
	Destroy() error
}
