package swapchain

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/internal/logging"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// DeviceContext owns the graphics instance, the selected physical device, its logical device and queue,
// and a compute context bound to the same GPU. It is created once per stream and destroyed last.
type DeviceContext struct {
	logger *slog.Logger
	flags  CreateFlags

	mutex     sync.Mutex
	destroyed bool
	// rings counts the Swapchains created on this context that have not been destroyed yet
	rings int

	deviceIndex    int
	instance       ports.GraphicsInstance
	physicalDevice ports.PhysicalDevice
	queueFamily    int
	device         ports.GraphicsDevice
	compute        ports.ComputeContext
}

// NewDeviceContext creates every object of a DeviceContext or none of them.
//
// graphics - The graphics API the frames are rendered with
//
// compute - The compute runtime the frames are consumed from
//
// deviceIndex - Index of the GPU in both the graphics API's and the compute runtime's device lists
//
// options - Optional parameters: it is valid to leave all the fields blank
func NewDeviceContext(logger *slog.Logger, graphics ports.GraphicsDriver, compute ports.ComputeDriver, deviceIndex int, options CreateOptions) (_ *DeviceContext, err error) {
	logger = logging.OrDiscard(logger)
	logger.Debug("DeviceContext::New", slog.Int("deviceIndex", deviceIndex))

	if deviceIndex < 0 {
		return nil, newError(ErrInvalidDeviceIndex, nil, "device index %d", deviceIndex)
	}

	c := &DeviceContext{
		logger:      logger,
		flags:       options.Flags,
		deviceIndex: deviceIndex,
		queueFamily: -1,
	}

	c.instance, err = graphics.CreateInstance()
	if err != nil {
		return nil, newError(ErrGraphicsInitFailed, err, "create graphics instance")
	}
	defer func() {
		if err != nil {
			c.instance.Destroy()
		}
	}()

	physicalDevices, err := c.instance.PhysicalDevices()
	if err != nil {
		return nil, newError(ErrGraphicsInitFailed, err, "enumerate physical devices")
	}
	if deviceIndex >= len(physicalDevices) {
		return nil, newError(ErrInvalidDeviceIndex, nil, "device index %d, %d graphics devices present", deviceIndex, len(physicalDevices))
	}
	c.physicalDevice = physicalDevices[deviceIndex]

	for _, family := range c.physicalDevice.QueueFamilies() {
		if family.SupportsGraphics() {
			c.queueFamily = family.Index
			break
		}
	}
	if c.queueFamily < 0 {
		return nil, newError(ErrNoGraphicsQueue, nil, "device %d (%s)", deviceIndex, c.physicalDevice.Name())
	}

	c.device, err = c.physicalDevice.CreateDevice(c.queueFamily)
	if err != nil {
		return nil, newError(ErrGraphicsInitFailed, err, "create logical device on %s", c.physicalDevice.Name())
	}
	defer func() {
		if err != nil {
			c.device.Destroy()
		}
	}()

	c.compute, err = createComputeContext(compute, deviceIndex)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = c.compute.Destroy()
		}
	}()

	if options.Flags&CreateSkipDeviceUUIDCheck == 0 {
		graphicsUUID, graphicsOk := c.physicalDevice.DeviceUUID()
		computeUUID, computeOk := c.compute.DeviceUUID()
		if graphicsOk && computeOk && graphicsUUID != computeUUID {
			return nil, newError(ErrComputeInitFailed, nil, "device %d is %s for graphics but %s for compute", deviceIndex, graphicsUUID, computeUUID)
		}
		logger.Debug("DeviceContext::New matched device",
			slog.String("name", c.physicalDevice.Name()),
			slog.String("uuid", graphicsUUID.String()),
			slog.Bool("verified", graphicsOk && computeOk))
	}

	logger.Info("device context created",
		slog.Int("deviceIndex", deviceIndex),
		slog.String("device", c.physicalDevice.Name()),
		slog.Int("queueFamily", c.queueFamily))

	return c, nil
}

func createComputeContext(compute ports.ComputeDriver, deviceIndex int) (ports.ComputeContext, error) {
	count, err := compute.DeviceCount()
	if err != nil {
		return nil, newError(ErrComputeInitFailed, err, "count compute devices")
	}
	if deviceIndex >= count {
		return nil, newError(ErrComputeInitFailed, nil, "device index %d, %d compute devices present", deviceIndex, count)
	}

	ctx, err := compute.CreateContext(deviceIndex)
	if err != nil {
		return nil, newError(ErrComputeInitFailed, err, "create compute context on device %d", deviceIndex)
	}
	return ctx, nil
}

// Destroy releases the compute context, then the logical device, then the instance. Calling it on an
// already-destroyed context does nothing. It fails with ErrContextInUse, and destroys nothing, while a
// Swapchain created on the context is still alive.
func (c *DeviceContext) Destroy() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.destroyed {
		return nil
	}
	if c.rings > 0 {
		return errors.Wrapf(ErrContextInUse, "%d swapchains not destroyed", c.rings)
	}
	c.destroyed = true
	c.logger.Debug("DeviceContext::Destroy")

	var err error
	if waitErr := c.device.WaitIdle(); waitErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(waitErr, "wait for graphics device idle"))
	}
	if computeErr := c.compute.Destroy(); computeErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(computeErr, "destroy compute context"))
	}
	c.device.Destroy()
	c.instance.Destroy()

	return err
}

func (c *DeviceContext) DeviceIndex() int {
	return c.deviceIndex
}

func (c *DeviceContext) Instance() ports.GraphicsInstance {
	return c.instance
}

func (c *DeviceContext) PhysicalDevice() ports.PhysicalDevice {
	return c.physicalDevice
}

// QueueFamily is the index of the graphics queue family the logical device was created with
func (c *DeviceContext) QueueFamily() int {
	return c.queueFamily
}

func (c *DeviceContext) Device() ports.GraphicsDevice {
	return c.device
}

func (c *DeviceContext) Compute() ports.ComputeContext {
	return c.compute
}

func (c *DeviceContext) Logger() *slog.Logger {
	return c.logger
}

func (c *DeviceContext) registerRing() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.destroyed {
		return errors.New("device context has been destroyed")
	}
	c.rings++
	return nil
}

func (c *DeviceContext) unregisterRing() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.rings--
}

func (c *DeviceContext) isDestroyed() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.destroyed
}
