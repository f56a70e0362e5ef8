package vulkan

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/extensions/v2/khr_dedicated_allocation"
	"github.com/vkngwrapper/extensions/v2/khr_external_memory"
	"github.com/vkngwrapper/extensions/v2/khr_external_memory_capabilities"
	"github.com/vkngwrapper/extensions/v2/khr_external_semaphore"
	"github.com/vkngwrapper/extensions/v2/khr_external_semaphore_capabilities"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

type device struct {
	logger         *slog.Logger
	physicalDevice *physicalDevice
	device         core1_0.Device
	queue          core1_0.Queue
	queueFamily    int

	extensions *ExtensionData
	exports    *exportFunctions
	usage      *heapUsage

	uploadLock sync.Mutex
	uploader   *uploader
}

var _ ports.GraphicsDevice = (*device)(nil)

func newDevice(p *physicalDevice, vkDevice core1_0.Device, queueFamily int) (*device, error) {
	extensions := NewExtensionData(vkDevice)

	exports, err := loadExportFunctions(vkDevice, extensions)
	if err != nil {
		// Export is probed separately, so a missing entry point only disables it
		p.logger.Warn("could not resolve fd export entry points", slog.Any("error", err))
		exports = nil
	}

	return &device{
		logger:         p.logger,
		physicalDevice: p,
		device:         vkDevice,
		queue:          vkDevice.GetQueue(queueFamily, 0),
		queueFamily:    queueFamily,
		extensions:     extensions,
		exports:        exports,
		usage:          newHeapUsage(p.properties, p.memoryProperties),
	}, nil
}

func (d *device) QueueFamily() int {
	return d.queueFamily
}

// CreateImage creates a single-sample optimally tiled 2D image. An exportable image is only chained
// with external memory info when the device supports it; otherwise the export probe reports the gap.
func (d *device) CreateImage(info ports.ImageInfo) (ports.GraphicsImage, error) {
	d.logger.Debug("Device::CreateImage",
		slog.Int("width", info.Width),
		slog.Int("height", info.Height),
		slog.Bool("exportable", info.Exportable))

	createInfo := core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Format:    info.Format,
		Extent: core1_0.Extent3D{
			Width:  info.Width,
			Height: info.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       core1_0.Samples1,
		Tiling:        core1_0.ImageTilingOptimal,
		Usage:         info.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		InitialLayout: core1_0.ImageLayoutUndefined,
	}

	if info.Exportable && d.extensions.ExternalMemory {
		createInfo.Next = khr_external_memory.ExternalMemoryImageCreateInfo{
			HandleTypes: khr_external_memory_capabilities.ExternalMemoryHandleTypeOpaqueFD,
		}
	}

	vkImage, _, err := d.device.CreateImage(nil, createInfo)
	if err != nil {
		return nil, err
	}

	img := &image{
		device: d,
		image:  vkImage,
		format: info.Format,
	}

	err = img.queryRequirements()
	if err != nil {
		vkImage.Destroy(nil)
		return nil, err
	}

	return img, nil
}

// AllocateMemory makes one vkAllocateMemory call, chaining export and dedicated allocation info onto it
// when they were requested and the device supports them
func (d *device) AllocateMemory(info ports.MemoryAllocation) (_ ports.GraphicsMemory, err error) {
	d.logger.Debug("Device::AllocateMemory",
		slog.Int("size", info.Size),
		slog.Int("memoryTypeIndex", info.MemoryTypeIndex))

	if info.MemoryTypeIndex < 0 || info.MemoryTypeIndex >= len(d.physicalDevice.memoryProperties.MemoryTypes) {
		return nil, errors.Newf("memory type index %d out of range", info.MemoryTypeIndex)
	}

	allocInfo := core1_0.MemoryAllocateInfo{
		AllocationSize:  info.Size,
		MemoryTypeIndex: info.MemoryTypeIndex,
	}

	if info.DedicatedImage != nil && d.extensions.DedicatedAllocations {
		dedicatedImage, ok := info.DedicatedImage.(*image)
		if !ok {
			return nil, errors.Newf("dedicated image %T does not belong to this device", info.DedicatedImage)
		}
		dedicatedAllocInfo := khr_dedicated_allocation.MemoryDedicatedAllocateInfo{
			Image: dedicatedImage.image,
		}
		dedicatedAllocInfo.Next = allocInfo.Next
		allocInfo.Next = dedicatedAllocInfo
	}

	if info.Exportable && d.extensions.ExternalMemory {
		exportMemoryAllocInfo := khr_external_memory.ExportMemoryAllocateInfo{
			HandleTypes: khr_external_memory_capabilities.ExternalMemoryHandleTypeOpaqueFD,
		}
		exportMemoryAllocInfo.Next = allocInfo.Next
		allocInfo.Next = exportMemoryAllocInfo
	}

	_, err = d.usage.addAllocation(info.MemoryTypeIndex, info.Size)
	if err != nil {
		return nil, err
	}
	defer func() {
		// If we failed out, roll back the usage
		if err != nil {
			d.usage.removeAllocation(info.MemoryTypeIndex, info.Size)
		}
	}()

	vkMemory, _, err := d.device.AllocateMemory(nil, allocInfo)
	if err != nil {
		return nil, err
	}

	return &deviceMemory{
		device:          d,
		memory:          vkMemory,
		size:            info.Size,
		memoryTypeIndex: info.MemoryTypeIndex,
	}, nil
}

func (d *device) CreateSemaphore(exportable bool) (ports.GraphicsSemaphore, error) {
	createInfo := core1_0.SemaphoreCreateInfo{}
	if exportable && d.extensions.ExternalSemaphore {
		createInfo.Next = khr_external_semaphore.ExportSemaphoreCreateInfo{
			HandleTypes: khr_external_semaphore_capabilities.ExternalSemaphoreHandleTypeOpaqueFD,
		}
	}

	vkSemaphore, _, err := d.device.CreateSemaphore(nil, createInfo)
	if err != nil {
		return nil, err
	}
	return &semaphore{semaphore: vkSemaphore}, nil
}

func (d *device) MemoryExporter() (ports.MemoryExporter, bool) {
	if !d.exports.canExportMemory() {
		return nil, false
	}
	return memoryExporter{device: d}, true
}

func (d *device) SemaphoreExporter() (ports.SemaphoreExporter, bool) {
	if !d.exports.canExportSemaphore() {
		return nil, false
	}
	return semaphoreExporter{device: d}, true
}

func (d *device) WaitIdle() error {
	_, err := d.device.WaitIdle()
	return err
}

// HeapStatistics reports the device memory this device currently holds, per heap
func (d *device) HeapStatistics() []memutils.DetailedStatistics {
	return d.usage.statistics()
}

func (d *device) Destroy() {
	d.uploadLock.Lock()
	if d.uploader != nil {
		d.uploader.destroy()
		d.uploader = nil
	}
	d.uploadLock.Unlock()

	if outstanding := d.usage.outstanding(); outstanding > 0 {
		d.logger.Warn("device destroyed with live allocations", slog.Int("count", outstanding))
	}
	d.device.Destroy(nil)
}

type memoryExporter struct {
	device *device
}

func (e memoryExporter) ExportMemory(memory ports.GraphicsMemory) (int, error) {
	vkMemory, ok := memory.(*deviceMemory)
	if !ok {
		return -1, errors.Newf("memory %T does not belong to this device", memory)
	}
	return e.device.exports.exportMemory(vkMemory.memory)
}

type semaphoreExporter struct {
	device *device
}

func (e semaphoreExporter) ExportSemaphore(sem ports.GraphicsSemaphore) (int, error) {
	vkSemaphore, ok := sem.(*semaphore)
	if !ok {
		return -1, errors.Newf("semaphore %T does not belong to this device", sem)
	}
	return e.device.exports.exportSemaphore(vkSemaphore.semaphore)
}

type image struct {
	device       *device
	image        core1_0.Image
	format       core1_0.Format
	requirements core1_0.MemoryRequirements
}

func (i *image) queryRequirements() error {
	getRequirements := i.device.extensions.GetMemoryRequirements
	if getRequirements == nil {
		i.requirements = *i.image.MemoryRequirements()
		return nil
	}

	memReqs := core1_1.MemoryRequirements2{}
	err := getRequirements.ImageMemoryRequirements2(
		core1_1.ImageMemoryRequirementsInfo2{
			Image: i.image,
		},
		&memReqs)
	if err != nil {
		return err
	}

	i.requirements = memReqs.MemoryRequirements
	return nil
}

func (i *image) MemoryRequirements() core1_0.MemoryRequirements {
	return i.requirements
}

func (i *image) BindMemory(memory ports.GraphicsMemory, offset int) error {
	vkMemory, ok := memory.(*deviceMemory)
	if !ok {
		return errors.Newf("memory %T does not belong to this device", memory)
	}
	_, err := i.image.BindImageMemory(vkMemory.memory, offset)
	return err
}

func (i *image) CreateView() (ports.GraphicsImageView, error) {
	view, _, err := i.device.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    i.image,
		ViewType: core1_0.ImageViewType2D,
		Format:   i.format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorSubresourceRange,
	})
	if err != nil {
		return nil, err
	}
	return &imageView{view: view}, nil
}

func (i *image) Destroy() {
	i.image.Destroy(nil)
}

var colorSubresourceRange = core1_0.ImageSubresourceRange{
	AspectMask:     core1_0.ImageAspectColor,
	BaseMipLevel:   0,
	LevelCount:     1,
	BaseArrayLayer: 0,
	LayerCount:     1,
}

type imageView struct {
	view core1_0.ImageView
}

func (v *imageView) Destroy() {
	v.view.Destroy(nil)
}

type deviceMemory struct {
	device          *device
	memory          core1_0.DeviceMemory
	size            int
	memoryTypeIndex int
}

func (m *deviceMemory) Size() int {
	return m.size
}

func (m *deviceMemory) Free() {
	m.memory.Free(nil)
	m.device.usage.removeAllocation(m.memoryTypeIndex, m.size)
}

type semaphore struct {
	semaphore core1_0.Semaphore
}

func (s *semaphore) Destroy() {
	s.semaphore.Destroy(nil)
}
