package vulkan

import (
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
)

// uploadTimeout bounds the wait for a staging copy to retire. The copy itself is tiny, but it may wait on
// a semaphore the compute side has yet to signal.
const uploadTimeout = 10 * time.Second

// uploader owns the host-visible staging buffer and the single command buffer used to copy frames into
// device images. The staging buffer grows to the largest frame seen.
type uploader struct {
	device *device

	commandPool   core1_0.CommandPool
	commandBuffer core1_0.CommandBuffer
	fence         core1_0.Fence

	buffer     core1_0.Buffer
	memory     *deviceMemory
	mapped     unsafe.Pointer
	bufferSize int
}

func newUploader(d *device) (_ *uploader, err error) {
	u := &uploader{device: d}
	defer func() {
		if err != nil {
			u.destroy()
		}
	}()

	u.commandPool, _, err = d.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: d.queueFamily,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create upload command pool")
	}

	commandBuffers, _, err := d.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        u.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "allocate upload command buffer")
	}
	u.commandBuffer = commandBuffers[0]

	u.fence, _, err = d.device.CreateFence(nil, core1_0.FenceCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "create upload fence")
	}

	return u, nil
}

// reserve makes sure the staging buffer holds at least size bytes
func (u *uploader) reserve(size int) (err error) {
	if u.buffer != nil && u.bufferSize >= size {
		return nil
	}
	u.releaseBuffer()

	d := u.device
	u.buffer, _, err = d.device.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       core1_0.BufferUsageTransferSrc,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return errors.Wrap(err, "create staging buffer")
	}
	defer func() {
		if err != nil {
			u.releaseBuffer()
		}
	}()

	requirements := u.buffer.MemoryRequirements()
	typeIndex, err := swapchain.ResolveMemoryType(
		d.physicalDevice.memoryProperties.MemoryTypes,
		requirements.MemoryTypeBits,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if err != nil {
		return err
	}

	memory, err := d.AllocateMemory(ports.MemoryAllocation{
		Size:            requirements.Size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		return errors.Wrap(err, "allocate staging memory")
	}
	u.memory = memory.(*deviceMemory)

	_, err = u.buffer.BindBufferMemory(u.memory.memory, 0)
	if err != nil {
		return errors.Wrap(err, "bind staging memory")
	}

	u.mapped, _, err = u.memory.memory.Map(0, size, 0)
	if err != nil {
		return errors.Wrap(err, "map staging memory")
	}

	u.bufferSize = size
	return nil
}

func (u *uploader) releaseBuffer() {
	if u.mapped != nil {
		u.memory.memory.Unmap()
		u.mapped = nil
	}
	if u.buffer != nil {
		u.buffer.Destroy(nil)
		u.buffer = nil
	}
	if u.memory != nil {
		u.memory.Free()
		u.memory = nil
	}
	u.bufferSize = 0
}

func (u *uploader) record(target *image, width, height int) error {
	_, err := u.commandBuffer.Reset(0)
	if err != nil {
		return err
	}

	_, err = u.commandBuffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return err
	}

	family := u.device.queueFamily

	// The previous contents are overwritten in full, so the old layout can be discarded
	err = u.commandBuffer.CmdPipelineBarrier(core1_0.PipelineStageTopOfPipe, core1_0.PipelineStageTransfer, 0, nil, nil,
		[]core1_0.ImageMemoryBarrier{
			{
				DstAccessMask:       core1_0.AccessTransferWrite,
				OldLayout:           core1_0.ImageLayoutUndefined,
				NewLayout:           core1_0.ImageLayoutTransferDstOptimal,
				SrcQueueFamilyIndex: family,
				DstQueueFamilyIndex: family,
				Image:               target.image,
				SubresourceRange:    colorSubresourceRange,
			},
		})
	if err != nil {
		return err
	}

	err = u.commandBuffer.CmdCopyBufferToImage(u.buffer, target.image, core1_0.ImageLayoutTransferDstOptimal,
		[]core1_0.BufferImageCopy{
			{
				BufferOffset: 0,
				ImageSubresource: core1_0.ImageSubresourceLayers{
					AspectMask:     core1_0.ImageAspectColor,
					MipLevel:       0,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
				ImageExtent: core1_0.Extent3D{Width: width, Height: height, Depth: 1},
			},
		})
	if err != nil {
		return err
	}

	// The compute side reads the image through its own mapping, which expects the general layout
	err = u.commandBuffer.CmdPipelineBarrier(core1_0.PipelineStageTransfer, core1_0.PipelineStageBottomOfPipe, 0, nil, nil,
		[]core1_0.ImageMemoryBarrier{
			{
				SrcAccessMask:       core1_0.AccessTransferWrite,
				OldLayout:           core1_0.ImageLayoutTransferDstOptimal,
				NewLayout:           core1_0.ImageLayoutGeneral,
				SrcQueueFamilyIndex: family,
				DstQueueFamilyIndex: family,
				Image:               target.image,
				SubresourceRange:    colorSubresourceRange,
			},
		})
	if err != nil {
		return err
	}

	_, err = u.commandBuffer.End()
	return err
}

func (u *uploader) destroy() {
	u.releaseBuffer()
	if u.fence != nil {
		u.fence.Destroy(nil)
	}
	if u.commandBuffer != nil {
		u.device.device.FreeCommandBuffers([]core1_0.CommandBuffer{u.commandBuffer})
	}
	if u.commandPool != nil {
		u.commandPool.Destroy(nil)
	}
}

// UploadImage copies a tightly packed frame into info.Image and blocks until the copy retires. The copy
// waits on info.Wait and signals info.Signal, so the queue carries the hand-off to the compute side.
func (d *device) UploadImage(info ports.UploadInfo) error {
	target, ok := info.Image.(*image)
	if !ok {
		return errors.Newf("image %T does not belong to this device", info.Image)
	}

	size := len(info.Pixels)
	if size == 0 || size != info.Width*info.Height*4 {
		return errors.Newf("%d bytes of pixels do not fill a %dx%d frame", size, info.Width, info.Height)
	}

	d.uploadLock.Lock()
	defer d.uploadLock.Unlock()

	if d.uploader == nil {
		uploader, err := newUploader(d)
		if err != nil {
			return err
		}
		d.uploader = uploader
	}
	u := d.uploader

	err := u.reserve(size)
	if err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(u.mapped), size), info.Pixels)

	err = u.record(target, info.Width, info.Height)
	if err != nil {
		return errors.Wrap(err, "record upload")
	}

	submit := core1_0.SubmitInfo{
		CommandBuffers: []core1_0.CommandBuffer{u.commandBuffer},
	}
	if info.Wait != nil {
		wait, ok := info.Wait.(*semaphore)
		if !ok {
			return errors.Newf("semaphore %T does not belong to this device", info.Wait)
		}
		submit.WaitSemaphores = []core1_0.Semaphore{wait.semaphore}
		submit.WaitDstStageMask = []core1_0.PipelineStageFlags{core1_0.PipelineStageTransfer}
	}
	if info.Signal != nil {
		signal, ok := info.Signal.(*semaphore)
		if !ok {
			return errors.Newf("semaphore %T does not belong to this device", info.Signal)
		}
		submit.SignalSemaphores = []core1_0.Semaphore{signal.semaphore}
	}

	_, err = d.queue.Submit(u.fence, []core1_0.SubmitInfo{submit})
	if err != nil {
		return errors.Wrap(err, "submit upload")
	}

	res, err := d.device.WaitForFences(true, uploadTimeout, []core1_0.Fence{u.fence})
	if err != nil {
		return errors.Wrap(err, "wait for upload")
	}
	if res == core1_0.VKTimeout {
		return errors.Newf("upload did not retire within %s", uploadTimeout)
	}
	_, err = d.device.ResetFences([]core1_0.Fence{u.fence})
	if err != nil {
		return errors.Wrap(err, "reset upload fence")
	}

	d.logger.Debug("Device::UploadImage", slog.Int("bytes", size))
	return nil
}
