//go:build linux

// Package sim simulates the graphics and compute domains on the host. Image memory is memfd-backed
// shared memory, exported with dup and imported with mmap, and semaphores are eventfds, so handle
// ownership and cross-domain data flow behave as they would between real drivers.
package sim

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/sys/unix"
)

var deviceNamespace = uuid.MustParse("6f1c6e58-3a8e-4b0f-9d59-4a4f6b1e2c11")

// DeviceUUID is the UUID both simulated domains report for device index
func DeviceUUID(index int) uuid.UUID {
	return uuid.NewSHA1(deviceNamespace, []byte(fmt.Sprintf("sim-gpu-%d", index)))
}

// DeviceOptions describes one simulated physical device
type DeviceOptions struct {
	Name string
	// QueueFamilies defaults to a single graphics, compute and transfer family
	QueueFamilies []ports.QueueFamily
	// MemoryTypes defaults to a host-visible type at index 0 and a device-local type at index 1
	MemoryTypes []core1_0.MemoryType
	// MemoryTypeBits is reported in every image's memory requirements. Zero allows every type.
	MemoryTypeBits uint32
	// Alignment is reported in every image's memory requirements. It defaults to 4096.
	Alignment int
	// NoUUID makes the device report no UUID
	NoUUID bool
	// NoMemoryExport and NoSemaphoreExport remove the export entry points
	NoMemoryExport    bool
	NoSemaphoreExport bool
}

// GraphicsOptions configures a simulated graphics driver
type GraphicsOptions struct {
	// Devices defaults to a single device with default options
	Devices []DeviceOptions
	Faults  Faults
}

// Graphics is a simulated graphics driver
type Graphics struct {
	options  GraphicsOptions
	faults   *faultCounter
	registry *registry
}

var _ ports.GraphicsDriver = (*Graphics)(nil)

func NewGraphics(options GraphicsOptions) *Graphics {
	if len(options.Devices) == 0 {
		options.Devices = []DeviceOptions{{}}
	}
	return &Graphics{
		options:  options,
		faults:   newFaultCounter(options.Faults),
		registry: newRegistry(),
	}
}

// Live returns the number of simulated graphics objects not yet destroyed
func (g *Graphics) Live() int {
	return g.registry.count()
}

// LiveByKind breaks Live down by object kind
func (g *Graphics) LiveByKind() map[string]int {
	return g.registry.byKind()
}

func (g *Graphics) CreateInstance() (ports.GraphicsInstance, error) {
	if err := g.faults.check(OpCreateInstance); err != nil {
		return nil, err
	}

	instance := &instance{driver: g, id: g.registry.add("instance")}
	for i, options := range g.options.Devices {
		instance.devices = append(instance.devices, newPhysicalDevice(g, i, options))
	}
	return instance, nil
}

type instance struct {
	driver  *Graphics
	id      uint64
	devices []ports.PhysicalDevice
}

func (i *instance) PhysicalDevices() ([]ports.PhysicalDevice, error) {
	return i.devices, nil
}

func (i *instance) Destroy() {
	i.driver.registry.remove(i.id)
}

type physicalDevice struct {
	driver  *Graphics
	index   int
	options DeviceOptions
}

func newPhysicalDevice(driver *Graphics, index int, options DeviceOptions) *physicalDevice {
	if options.Name == "" {
		options.Name = fmt.Sprintf("Simulated GPU %d", index)
	}
	if options.QueueFamilies == nil {
		options.QueueFamilies = []ports.QueueFamily{
			{Index: 0, QueueCount: 1, Flags: core1_0.QueueGraphics | core1_0.QueueCompute | core1_0.QueueTransfer},
		}
	}
	if options.MemoryTypes == nil {
		options.MemoryTypes = []core1_0.MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 1},
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
		}
	}
	if options.MemoryTypeBits == 0 {
		options.MemoryTypeBits = uint32(1)<<len(options.MemoryTypes) - 1
	}
	if options.Alignment == 0 {
		options.Alignment = 4096
	}

	return &physicalDevice{driver: driver, index: index, options: options}
}

func (p *physicalDevice) Name() string {
	return p.options.Name
}

func (p *physicalDevice) QueueFamilies() []ports.QueueFamily {
	return p.options.QueueFamilies
}

func (p *physicalDevice) MemoryTypes() []core1_0.MemoryType {
	return p.options.MemoryTypes
}

func (p *physicalDevice) DeviceUUID() (uuid.UUID, bool) {
	if p.options.NoUUID {
		return uuid.Nil, false
	}
	return DeviceUUID(p.index), true
}

func (p *physicalDevice) CreateDevice(queueFamily int) (ports.GraphicsDevice, error) {
	if err := p.driver.faults.check(OpCreateDevice); err != nil {
		return nil, err
	}
	if queueFamily < 0 || queueFamily >= len(p.options.QueueFamilies) {
		return nil, errors.Newf("queue family %d does not exist", queueFamily)
	}

	return &device{
		driver:      p.driver,
		physical:    p,
		queueFamily: queueFamily,
		id:          p.driver.registry.add("device"),
	}, nil
}

type device struct {
	driver      *Graphics
	physical    *physicalDevice
	queueFamily int
	id          uint64
}

func (d *device) QueueFamily() int {
	return d.queueFamily
}

func (d *device) CreateImage(info ports.ImageInfo) (ports.GraphicsImage, error) {
	if err := d.driver.faults.check(OpCreateImage); err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, core1_0.VKErrorInitializationFailed.ToError()
	}
	if info.Format != core1_0.FormatR8G8B8A8UnsignedNormalized {
		return nil, core1_0.VKErrorFormatNotSupported.ToError()
	}

	size := memutils.AlignUp(info.Width*info.Height*4, uint(d.physical.options.Alignment))
	return &image{
		device: d,
		info:   info,
		requirements: core1_0.MemoryRequirements{
			Size:           size,
			Alignment:      d.physical.options.Alignment,
			MemoryTypeBits: d.physical.options.MemoryTypeBits,
		},
		id: d.driver.registry.add("image"),
	}, nil
}

func (d *device) AllocateMemory(info ports.MemoryAllocation) (ports.GraphicsMemory, error) {
	if err := d.driver.faults.check(OpAllocateMemory); err != nil {
		return nil, err
	}
	if info.MemoryTypeIndex < 0 || info.MemoryTypeIndex >= len(d.physical.options.MemoryTypes) {
		return nil, core1_0.VKErrorOutOfDeviceMemory.ToError()
	}

	fd, mapping, err := newSharedMemory("vkmedia-sim", info.Size)
	if err != nil {
		return nil, errors.CombineErrors(core1_0.VKErrorOutOfDeviceMemory.ToError(), err)
	}

	return &memory{
		device:     d,
		fd:         fd,
		mapping:    mapping,
		size:       info.Size,
		typeIndex:  info.MemoryTypeIndex,
		exportable: info.Exportable,
		id:         d.driver.registry.add("memory"),
	}, nil
}

func (d *device) CreateSemaphore(exportable bool) (ports.GraphicsSemaphore, error) {
	if err := d.driver.faults.check(OpCreateSemaphore); err != nil {
		return nil, err
	}

	fd, err := newEventFD()
	if err != nil {
		return nil, err
	}
	return &semaphore{
		device:     d,
		fd:         fd,
		exportable: exportable,
		id:         d.driver.registry.add("semaphore"),
	}, nil
}

func (d *device) MemoryExporter() (ports.MemoryExporter, bool) {
	if d.physical.options.NoMemoryExport {
		return nil, false
	}
	return exporter{device: d}, true
}

func (d *device) SemaphoreExporter() (ports.SemaphoreExporter, bool) {
	if d.physical.options.NoSemaphoreExport {
		return nil, false
	}
	return exporter{device: d}, true
}

func (d *device) UploadImage(info ports.UploadInfo) error {
	if err := d.driver.faults.check(OpUploadImage); err != nil {
		return err
	}

	img, ok := info.Image.(*image)
	if !ok || img.memory == nil {
		return errors.New("upload target is not a bound simulated image")
	}
	rowBytes := info.Width * 4
	if len(info.Pixels) < rowBytes*info.Height {
		return errors.Newf("upload of %d bytes is short of %d", len(info.Pixels), rowBytes*info.Height)
	}

	if info.Wait != nil {
		if err := waitEventFD(info.Wait.(*semaphore).fd); err != nil {
			return err
		}
	}

	// Images are linear and tightly packed
	copy(img.memory.mapping[img.offset:img.offset+rowBytes*info.Height], info.Pixels)

	if info.Signal != nil {
		return signalEventFD(info.Signal.(*semaphore).fd)
	}
	return nil
}

func (d *device) WaitIdle() error {
	return nil
}

func (d *device) Destroy() {
	d.driver.registry.remove(d.id)
}

type image struct {
	device       *device
	info         ports.ImageInfo
	requirements core1_0.MemoryRequirements
	memory       *memory
	offset       int
	id           uint64
}

func (i *image) MemoryRequirements() core1_0.MemoryRequirements {
	return i.requirements
}

func (i *image) BindMemory(mem ports.GraphicsMemory, offset int) error {
	if err := i.device.driver.faults.check(OpBindMemory); err != nil {
		return err
	}

	m, ok := mem.(*memory)
	if !ok {
		return errors.New("memory was not allocated by the simulated driver")
	}
	if i.memory != nil {
		return errors.New("image already has memory bound")
	}
	if m.size-offset < i.requirements.Size {
		return core1_0.VKErrorOutOfDeviceMemory.ToError()
	}
	if i.requirements.MemoryTypeBits&(1<<m.typeIndex) == 0 {
		return errors.Newf("memory type %d is not allowed for this image", m.typeIndex)
	}

	i.memory = m
	i.offset = offset
	return nil
}

func (i *image) CreateView() (ports.GraphicsImageView, error) {
	if err := i.device.driver.faults.check(OpCreateView); err != nil {
		return nil, err
	}
	return &imageView{device: i.device, id: i.device.driver.registry.add("imageView")}, nil
}

func (i *image) Destroy() {
	i.device.driver.registry.remove(i.id)
}

type imageView struct {
	device *device
	id     uint64
}

func (v *imageView) Destroy() {
	v.device.driver.registry.remove(v.id)
}

type memory struct {
	device     *device
	fd         int
	mapping    []byte
	size       int
	typeIndex  int
	exportable bool
	id         uint64
}

func (m *memory) Size() int {
	return m.size
}

func (m *memory) Free() {
	if !m.device.driver.registry.remove(m.id) {
		return
	}
	_ = unix.Munmap(m.mapping)
	_ = unix.Close(m.fd)
}

type semaphore struct {
	device     *device
	fd         int
	exportable bool
	id         uint64
}

func (s *semaphore) Destroy() {
	if !s.device.driver.registry.remove(s.id) {
		return
	}
	_ = unix.Close(s.fd)
}

type exporter struct {
	device *device
}

func (e exporter) ExportMemory(mem ports.GraphicsMemory) (int, error) {
	if err := e.device.driver.faults.check(OpExportMemory); err != nil {
		return -1, err
	}

	m, ok := mem.(*memory)
	if !ok || !m.exportable {
		return -1, core1_0.VKErrorFeatureNotPresent.ToError()
	}
	fd, err := unix.Dup(m.fd)
	return fd, errors.Wrap(err, "dup memory handle")
}

func (e exporter) ExportSemaphore(sem ports.GraphicsSemaphore) (int, error) {
	if err := e.device.driver.faults.check(OpExportSemaphore); err != nil {
		return -1, err
	}

	s, ok := sem.(*semaphore)
	if !ok || !s.exportable {
		return -1, core1_0.VKErrorFeatureNotPresent.ToError()
	}
	fd, err := unix.Dup(s.fd)
	return fd, errors.Wrap(err, "dup semaphore handle")
}
