package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// Frame is one image shared between the graphics and compute domains, together with the semaphores
// that hand it from one to the other. All of its objects are created and destroyed together.
type Frame struct {
	index           int
	width           int
	height          int
	format          PixelFormat
	byteSize        int
	allocationSize  int
	memoryTypeIndex int
	dedicated       bool

	image  ports.GraphicsImage
	view   ports.GraphicsImageView
	memory ports.GraphicsMemory

	external ports.ExternalMemory
	array    ports.MappedArray

	// imageReady is signaled by the producer's submission and waited on by the consumer
	imageReady *sharedSemaphore
	// frameDone is signaled by the consumer and waited on by the producer's next submission
	frameDone *sharedSemaphore
}

func newFrame(dc *DeviceContext, index int, config Config, options CreateOptions) (_ *Frame, err error) {
	logger := dc.logger.With(slog.Int("frame", index))
	logger.Debug("Frame::New")

	f := &Frame{
		index:     index,
		width:     config.Width,
		height:    config.Height,
		format:    config.Format,
		byteSize:  config.ByteSize(),
		dedicated: options.Flags&CreateDisableDedicatedAllocation == 0,
	}

	var requirements core1_0.MemoryRequirements
	f.image, requirements, err = AllocateImage(dc, f.width, f.height, f.format)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.image.Destroy()
		}
	}()
	f.allocationSize = requirements.Size

	f.memoryTypeIndex, err = ResolveMemoryType(dc.physicalDevice.MemoryTypes(), requirements.MemoryTypeBits, options.requiredMemoryFlags())
	if err != nil {
		return nil, err
	}

	f.memory, err = AllocateMemory(dc, f.image, requirements, f.memoryTypeIndex, f.dedicated)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.memory.Free()
		}
	}()

	f.view, err = CreateView(dc, f.image)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.view.Destroy()
		}
	}()

	handle, err := ExportHandle(dc, f.memory)
	if err != nil {
		return nil, err
	}

	f.external, err = ImportHandle(dc.compute, handle, ImportInfo{
		ByteSize:       f.byteSize,
		AllocationSize: f.allocationSize,
		Width:          f.width,
		Height:         f.height,
		Format:         f.format,
		Dedicated:      f.dedicated,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = f.external.Destroy()
		}
	}()

	f.array, err = MapArray(f.external, f.width, f.height, f.format)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = f.array.Destroy()
		}
	}()

	f.imageReady, err = newSharedSemaphore(dc)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = f.imageReady.destroy()
		}
	}()

	f.frameDone, err = newSharedSemaphore(dc)
	if err != nil {
		return nil, err
	}

	logger.Debug("Frame::New complete",
		slog.Int("allocationSize", f.allocationSize),
		slog.Int("memoryTypeIndex", f.memoryTypeIndex))
	return f, nil
}

// destroy releases the compute side, which imported from the graphics side, before the graphics side
func (f *Frame) destroy() error {
	var err error

	err = errors.CombineErrors(err, f.frameDone.destroy())
	err = errors.CombineErrors(err, f.imageReady.destroy())
	err = errors.CombineErrors(err, f.array.Destroy())
	err = errors.CombineErrors(err, f.external.Destroy())

	f.view.Destroy()
	f.memory.Free()
	f.image.Destroy()

	return errors.Wrapf(err, "destroy frame %d", f.index)
}

func (f *Frame) Index() int {
	return f.index
}

func (f *Frame) Width() int {
	return f.width
}

func (f *Frame) Height() int {
	return f.height
}

func (f *Frame) Format() PixelFormat {
	return f.format
}

// ByteSize is the tightly packed size of the frame, identical in both domains
func (f *Frame) ByteSize() int {
	return f.byteSize
}

// AllocationSize is the size of the device memory backing the frame
func (f *Frame) AllocationSize() int {
	return f.allocationSize
}

func (f *Frame) MemoryTypeIndex() int {
	return f.memoryTypeIndex
}

func (f *Frame) Image() ports.GraphicsImage {
	return f.image
}

func (f *Frame) View() ports.GraphicsImageView {
	return f.view
}

func (f *Frame) Memory() ports.GraphicsMemory {
	return f.memory
}

func (f *Frame) External() ports.ExternalMemory {
	return f.external
}

// Array is the compute-addressable view of the frame. Encoders and kernels read from it.
func (f *Frame) Array() ports.MappedArray {
	return f.array
}

func (f *Frame) printParameters(json *jwriter.ObjectState, state FrameState) {
	json.Name("Index").Int(f.index)
	json.Name("State").String(state.String())
	json.Name("Width").Int(f.width)
	json.Name("Height").Int(f.height)
	json.Name("ByteSize").Int(f.byteSize)
	json.Name("AllocationSize").Int(f.allocationSize)
	json.Name("MemoryTypeIndex").Int(f.memoryTypeIndex)
	json.Name("Dedicated").Bool(f.dedicated)
}
