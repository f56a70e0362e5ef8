package cuda

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// Flags for the single mapped array level: it may be bound to surfaces and written as a color target
const (
	array3DSurfaceLoadStore  = 0x02
	array3DColorAttachment   = 0x20
	mappedArrayCreationFlags = array3DSurfaceLoadStore | array3DColorAttachment
)

type computeContext struct {
	logger      *slog.Logger
	lib         *library
	deviceIndex int
	handle      uintptr
	deviceUUID  uuid.UUID
	hasUUID     bool

	// live maps each imported object's handle to its kind, so Destroy can report leaks
	liveLock  sync.Mutex
	live      *swiss.Map[uintptr, string]
	destroyed bool
}

var _ ports.ComputeContext = (*computeContext)(nil)

// do runs fn with the context current on a locked OS thread
func (c *computeContext) do(fn func() Result) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	result := c.lib.cuCtxPushCurrent(c.handle)
	if result != Success {
		return errors.Wrap(result, "cuCtxPushCurrent")
	}

	err := fn().ToError()

	var popped uintptr
	c.lib.cuCtxPopCurrent(unsafe.Pointer(&popped))
	return err
}

func (c *computeContext) track(handle uintptr, kind string) {
	c.liveLock.Lock()
	defer c.liveLock.Unlock()
	c.live.Put(handle, kind)
}

func (c *computeContext) untrack(handle uintptr) {
	c.liveLock.Lock()
	defer c.liveLock.Unlock()
	c.live.Delete(handle)
}

// Live reports how many imported objects are still held
func (c *computeContext) Live() int {
	c.liveLock.Lock()
	defer c.liveLock.Unlock()
	return c.live.Count()
}

func (c *computeContext) DeviceIndex() int {
	return c.deviceIndex
}

func (c *computeContext) DeviceUUID() (uuid.UUID, bool) {
	return c.deviceUUID, c.hasUUID
}

// ImportMemory imports an opaque fd. The driver takes the descriptor only when the import succeeds.
func (c *computeContext) ImportMemory(info ports.MemoryImport) (ports.ExternalMemory, error) {
	c.logger.Debug("ComputeContext::ImportMemory", slog.Int("fd", info.FD), slog.Int("size", info.Size))

	desc := externalMemoryHandleDesc{
		handleType: externalMemoryHandleTypeOpaqueFD,
		fd:         int32(info.FD),
		size:       uint64(info.Size),
	}
	if info.Dedicated {
		desc.flags = externalMemoryDedicated
	}

	var handle uintptr
	err := c.do(func() Result {
		return c.lib.cuImportExternalMemory(unsafe.Pointer(&handle), unsafe.Pointer(&desc))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cuImportExternalMemory fd %d", info.FD)
	}

	c.track(handle, "externalMemory")
	return &externalMemory{context: c, handle: handle, size: info.Size}, nil
}

func (c *computeContext) ImportSemaphore(fd int) (ports.ComputeSemaphore, error) {
	desc := externalSemaphoreHandleDesc{
		handleType: externalSemaphoreHandleTypeOpaqueFD,
		fd:         int32(fd),
	}

	var handle uintptr
	err := c.do(func() Result {
		return c.lib.cuImportExternalSemaphore(unsafe.Pointer(&handle), unsafe.Pointer(&desc))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cuImportExternalSemaphore fd %d", fd)
	}

	c.track(handle, "externalSemaphore")
	return &externalSemaphore{context: c, handle: handle}, nil
}

func (c *computeContext) semaphoreHandle(semaphore ports.ComputeSemaphore) (uintptr, error) {
	sem, ok := semaphore.(*externalSemaphore)
	if !ok {
		return 0, errors.Newf("semaphore %T was not imported by this context", semaphore)
	}
	return sem.handle, nil
}

// WaitSemaphore enqueues a wait on the null stream, so later work on the context is ordered after it
func (c *computeContext) WaitSemaphore(semaphore ports.ComputeSemaphore) error {
	handle, err := c.semaphoreHandle(semaphore)
	if err != nil {
		return err
	}

	var params externalSemaphoreParams
	return errors.Wrap(c.do(func() Result {
		return c.lib.cuWaitExternalSemaphoresAsync(unsafe.Pointer(&handle), unsafe.Pointer(&params), 1, 0)
	}), "cuWaitExternalSemaphoresAsync")
}

func (c *computeContext) SignalSemaphore(semaphore ports.ComputeSemaphore) error {
	handle, err := c.semaphoreHandle(semaphore)
	if err != nil {
		return err
	}

	var params externalSemaphoreParams
	return errors.Wrap(c.do(func() Result {
		return c.lib.cuSignalExternalSemaphoresAsync(unsafe.Pointer(&handle), unsafe.Pointer(&params), 1, 0)
	}), "cuSignalExternalSemaphoresAsync")
}

func (c *computeContext) CopyArrayToHost(array ports.MappedArray, dst []byte, rowBytes, height int) error {
	mapped, ok := array.(*mappedArray)
	if !ok {
		return errors.Newf("array %T was not mapped by this context", array)
	}
	if rowBytes <= 0 || height <= 0 || len(dst) < rowBytes*height {
		return errors.Newf("destination of %d bytes cannot hold %d rows of %d bytes", len(dst), height, rowBytes)
	}

	copyInfo := memcpy2D{
		srcMemoryType: memoryTypeArray,
		srcArray:      mapped.array,
		dstMemoryType: memoryTypeHost,
		dstHost:       unsafe.Pointer(&dst[0]),
		dstPitch:      uint64(rowBytes),
		widthInBytes:  uint64(rowBytes),
		height:        uint64(height),
	}

	err := c.do(func() Result {
		return c.lib.cuMemcpy2D(unsafe.Pointer(&copyInfo))
	})
	runtime.KeepAlive(dst)
	return errors.Wrap(err, "cuMemcpy2D")
}

func (c *computeContext) Synchronize() error {
	return errors.Wrap(c.do(c.lib.cuCtxSynchronize), "cuCtxSynchronize")
}

func (c *computeContext) Destroy() error {
	c.liveLock.Lock()
	if c.destroyed {
		c.liveLock.Unlock()
		return errors.New("cuda context destroyed twice")
	}
	c.destroyed = true
	if count := c.live.Count(); count > 0 {
		c.logger.Warn("cuda context destroyed with live imports", slog.Int("count", count))
	}
	c.liveLock.Unlock()

	result := c.lib.cuCtxDestroy(c.handle)
	if result != Success {
		return errors.Wrap(result, "cuCtxDestroy")
	}
	return nil
}

type externalMemory struct {
	context *computeContext
	handle  uintptr
	size    int
}

func (m *externalMemory) Size() int {
	return m.size
}

// MapArray maps the whole allocation as a one-level mipmapped array and returns that level
func (m *externalMemory) MapArray(desc ports.ArrayDescriptor) (ports.MappedArray, error) {
	arrayDesc := externalMemoryMipmappedArrayDesc{
		arrayDesc: array3DDescriptor{
			width:       uint64(desc.Width),
			height:      uint64(desc.Height),
			format:      uint32(desc.Format),
			numChannels: uint32(desc.NumChannels),
			flags:       mappedArrayCreationFlags,
		},
		numLevels: 1,
	}

	var mipmap, array uintptr
	err := m.context.do(func() Result {
		result := m.context.lib.cuExternalMemoryGetMappedMipmappedArray(unsafe.Pointer(&mipmap), m.handle, unsafe.Pointer(&arrayDesc))
		if result != Success {
			return result
		}

		result = m.context.lib.cuMipmappedArrayGetLevel(unsafe.Pointer(&array), mipmap, 0)
		if result != Success {
			m.context.lib.cuMipmappedArrayDestroy(mipmap)
		}
		return result
	})
	if err != nil {
		return nil, errors.Wrap(err, "map external memory as array")
	}

	m.context.track(mipmap, "mappedArray")
	return &mappedArray{context: m.context, mipmap: mipmap, array: array}, nil
}

func (m *externalMemory) Destroy() error {
	err := m.context.do(func() Result {
		return m.context.lib.cuDestroyExternalMemory(m.handle)
	})
	if err != nil {
		return errors.Wrap(err, "cuDestroyExternalMemory")
	}
	m.context.untrack(m.handle)
	return nil
}

type mappedArray struct {
	context *computeContext
	mipmap  uintptr
	array   uintptr
}

func (a *mappedArray) Descriptor() (ports.ArrayDescriptor, error) {
	var desc array3DDescriptor
	err := a.context.do(func() Result {
		return a.context.lib.cuArray3DGetDescriptor(unsafe.Pointer(&desc), a.array)
	})
	if err != nil {
		return ports.ArrayDescriptor{}, errors.Wrap(err, "cuArray3DGetDescriptor")
	}

	return ports.ArrayDescriptor{
		Width:       int(desc.width),
		Height:      int(desc.height),
		Format:      ports.ArrayFormat(desc.format),
		NumChannels: int(desc.numChannels),
	}, nil
}

func (a *mappedArray) Handle() uintptr {
	return a.array
}

func (a *mappedArray) Destroy() error {
	err := a.context.do(func() Result {
		return a.context.lib.cuMipmappedArrayDestroy(a.mipmap)
	})
	if err != nil {
		return errors.Wrap(err, "cuMipmappedArrayDestroy")
	}
	a.context.untrack(a.mipmap)
	return nil
}

type externalSemaphore struct {
	context *computeContext
	handle  uintptr
}

func (s *externalSemaphore) Destroy() error {
	err := s.context.do(func() Result {
		return s.context.lib.cuDestroyExternalSemaphore(s.handle)
	})
	if err != nil {
		return errors.Wrap(err, "cuDestroyExternalSemaphore")
	}
	s.context.untrack(s.handle)
	return nil
}
