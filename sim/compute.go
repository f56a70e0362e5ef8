//go:build linux

package sim

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/sys/unix"
)

// ComputeOptions configures a simulated compute runtime
type ComputeOptions struct {
	// DeviceCount defaults to 1
	DeviceCount int
	// UUIDs overrides the UUID reported for a device index
	UUIDs map[int]uuid.UUID
	// NoUUID makes every context report no UUID
	NoUUID bool
	Faults Faults
	// ReportDescriptor, if set, rewrites the descriptor a mapped array reports
	ReportDescriptor func(ports.ArrayDescriptor) ports.ArrayDescriptor
}

// Compute is a simulated compute runtime. Imported memory is mapped into the process, so arrays read
// exactly the bytes the graphics side wrote.
type Compute struct {
	options  ComputeOptions
	faults   *faultCounter
	registry *registry
}

var _ ports.ComputeDriver = (*Compute)(nil)

func NewCompute(options ComputeOptions) *Compute {
	if options.DeviceCount == 0 {
		options.DeviceCount = 1
	}
	return &Compute{
		options:  options,
		faults:   newFaultCounter(options.Faults),
		registry: newRegistry(),
	}
}

// Live returns the number of simulated compute objects not yet destroyed
func (c *Compute) Live() int {
	return c.registry.count()
}

func (c *Compute) LiveByKind() map[string]int {
	return c.registry.byKind()
}

func (c *Compute) DeviceCount() (int, error) {
	return c.options.DeviceCount, nil
}

func (c *Compute) CreateContext(deviceIndex int) (ports.ComputeContext, error) {
	if err := c.faults.check(OpCreateContext); err != nil {
		return nil, err
	}
	if deviceIndex < 0 || deviceIndex >= c.options.DeviceCount {
		return nil, errors.Newf("invalid device ordinal %d", deviceIndex)
	}

	return &computeContext{
		driver:      c,
		deviceIndex: deviceIndex,
		id:          c.registry.add("context"),
	}, nil
}

type computeContext struct {
	driver      *Compute
	deviceIndex int
	id          uint64
}

func (c *computeContext) DeviceIndex() int {
	return c.deviceIndex
}

func (c *computeContext) DeviceUUID() (uuid.UUID, bool) {
	if c.driver.options.NoUUID {
		return uuid.Nil, false
	}
	if id, ok := c.driver.options.UUIDs[c.deviceIndex]; ok {
		return id, true
	}
	return DeviceUUID(c.deviceIndex), true
}

func (c *computeContext) ImportMemory(info ports.MemoryImport) (ports.ExternalMemory, error) {
	if err := c.driver.faults.check(OpImportMemory); err != nil {
		return nil, err
	}

	mapping, err := mapSharedMemory(info.FD, info.Size)
	if err != nil {
		return nil, err
	}

	return &externalMemory{
		context: c,
		fd:      info.FD,
		mapping: mapping,
		id:      c.driver.registry.add("externalMemory"),
	}, nil
}

func (c *computeContext) ImportSemaphore(fd int) (ports.ComputeSemaphore, error) {
	if err := c.driver.faults.check(OpImportSemaphore); err != nil {
		return nil, err
	}

	return &computeSemaphore{
		context: c,
		fd:      fd,
		id:      c.driver.registry.add("externalSemaphore"),
	}, nil
}

func (c *computeContext) WaitSemaphore(semaphore ports.ComputeSemaphore) error {
	s, ok := semaphore.(*computeSemaphore)
	if !ok {
		return errors.New("semaphore was not imported by the simulated runtime")
	}
	return waitEventFD(s.fd)
}

func (c *computeContext) SignalSemaphore(semaphore ports.ComputeSemaphore) error {
	s, ok := semaphore.(*computeSemaphore)
	if !ok {
		return errors.New("semaphore was not imported by the simulated runtime")
	}
	return signalEventFD(s.fd)
}

func (c *computeContext) CopyArrayToHost(array ports.MappedArray, dst []byte, rowBytes, height int) error {
	a, ok := array.(*mappedArray)
	if !ok {
		return errors.New("array was not mapped by the simulated runtime")
	}
	if len(dst) < rowBytes*height {
		return errors.Newf("destination of %d bytes is short of %d", len(dst), rowBytes*height)
	}
	if rowBytes > a.desc.Width*a.desc.NumChannels || height > a.desc.Height {
		return errors.Newf("copy of %d rows of %d bytes exceeds the array", height, rowBytes)
	}

	pitch := a.desc.Width * a.desc.NumChannels
	for row := 0; row < height; row++ {
		copy(dst[row*rowBytes:(row+1)*rowBytes], a.memory.mapping[row*pitch:row*pitch+rowBytes])
	}
	return nil
}

func (c *computeContext) Synchronize() error {
	return nil
}

func (c *computeContext) Destroy() error {
	if !c.driver.registry.remove(c.id) {
		return errors.New("context destroyed twice")
	}
	return nil
}

type externalMemory struct {
	context *computeContext
	fd      int
	mapping []byte
	id      uint64
}

func (m *externalMemory) Size() int {
	return len(m.mapping)
}

func (m *externalMemory) MapArray(desc ports.ArrayDescriptor) (ports.MappedArray, error) {
	if err := m.context.driver.faults.check(OpMapArray); err != nil {
		return nil, err
	}
	if desc.Width*desc.Height*desc.NumChannels > len(m.mapping) {
		return nil, errors.Newf("%dx%d array does not fit in %d bytes", desc.Width, desc.Height, len(m.mapping))
	}

	reported := desc
	if m.context.driver.options.ReportDescriptor != nil {
		reported = m.context.driver.options.ReportDescriptor(desc)
	}

	return &mappedArray{
		memory:   m,
		desc:     desc,
		reported: reported,
		id:       m.context.driver.registry.add("mappedArray"),
	}, nil
}

func (m *externalMemory) Destroy() error {
	if !m.context.driver.registry.remove(m.id) {
		return errors.New("external memory destroyed twice")
	}
	return errors.CombineErrors(unix.Munmap(m.mapping), unix.Close(m.fd))
}

type mappedArray struct {
	memory   *externalMemory
	desc     ports.ArrayDescriptor
	reported ports.ArrayDescriptor
	id       uint64
}

func (a *mappedArray) Descriptor() (ports.ArrayDescriptor, error) {
	return a.reported, nil
}

func (a *mappedArray) Handle() uintptr {
	return uintptr(a.id)
}

func (a *mappedArray) Destroy() error {
	if !a.memory.context.driver.registry.remove(a.id) {
		return errors.New("array destroyed twice")
	}
	return nil
}

type computeSemaphore struct {
	context *computeContext
	fd      int
	id      uint64
}

func (s *computeSemaphore) Destroy() error {
	if !s.context.driver.registry.remove(s.id) {
		return errors.New("semaphore destroyed twice")
	}
	return unix.Close(s.fd)
}
