package cuda

import "unsafe"

const (
	externalMemoryHandleTypeOpaqueFD    = 1
	externalSemaphoreHandleTypeOpaqueFD = 1

	externalMemoryDedicated = 0x1

	arrayFormatUnsignedInt8 = 0x01

	memoryTypeHost  = 0x01
	memoryTypeArray = 0x03
)

// externalMemoryHandleDesc mirrors CUDA_EXTERNAL_MEMORY_HANDLE_DESC. The handle union is 16 bytes wide;
// only the fd member is used.
type externalMemoryHandleDesc struct {
	handleType uint32
	_          uint32
	fd         int32
	_          [12]byte
	size       uint64
	flags      uint32
	reserved   [16]uint32
	_          uint32
}

// array3DDescriptor mirrors CUDA_ARRAY3D_DESCRIPTOR
type array3DDescriptor struct {
	width       uint64
	height      uint64
	depth       uint64
	format      uint32
	numChannels uint32
	flags       uint32
	_           uint32
}

// externalMemoryMipmappedArrayDesc mirrors CUDA_EXTERNAL_MEMORY_MIPMAPPED_ARRAY_DESC
type externalMemoryMipmappedArrayDesc struct {
	offset    uint64
	arrayDesc array3DDescriptor
	numLevels uint32
	reserved  [16]uint32
}

// externalSemaphoreHandleDesc mirrors CUDA_EXTERNAL_SEMAPHORE_HANDLE_DESC
type externalSemaphoreHandleDesc struct {
	handleType uint32
	_          uint32
	fd         int32
	_          [12]byte
	flags      uint32
	reserved   [16]uint32
	_          uint32
}

// externalSemaphoreParams covers both CUDA_EXTERNAL_SEMAPHORE_SIGNAL_PARAMS and
// CUDA_EXTERNAL_SEMAPHORE_WAIT_PARAMS, which share a layout. Opaque fd semaphores take no parameters.
type externalSemaphoreParams struct {
	params   [72]byte
	flags    uint32
	reserved [16]uint32
	_        uint32
}

// memcpy2D mirrors CUDA_MEMCPY2D
type memcpy2D struct {
	srcXInBytes   uint64
	srcY          uint64
	srcMemoryType uint32
	_             uint32
	srcHost       unsafe.Pointer
	srcDevice     uint64
	srcArray      uintptr
	srcPitch      uint64

	dstXInBytes   uint64
	dstY          uint64
	dstMemoryType uint32
	_             uint32
	dstHost       unsafe.Pointer
	dstDevice     uint64
	dstArray      uintptr
	dstPitch      uint64

	widthInBytes uint64
	height       uint64
}
