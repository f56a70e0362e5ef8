package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

type physicalDevice struct {
	logger         *slog.Logger
	instance       *instance
	physicalDevice core1_0.PhysicalDevice

	properties       *core1_0.PhysicalDeviceProperties
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties
	deviceUUID       uuid.UUID
	hasUUID          bool
}

var _ ports.PhysicalDevice = (*physicalDevice)(nil)

func newPhysicalDevice(i *instance, vkDevice core1_0.PhysicalDevice) (*physicalDevice, error) {
	properties, err := vkDevice.Properties()
	if err != nil {
		return nil, errors.Wrap(err, "query physical device properties")
	}

	device := &physicalDevice{
		logger:           i.logger,
		instance:         i,
		physicalDevice:   vkDevice,
		properties:       properties,
		memoryProperties: vkDevice.MemoryProperties(),
	}

	// The UUID is what lets the compute side find the same GPU, so a device that can't report one is
	// still usable but can't be cross-checked
	properties2 := physicalDeviceProperties2(i.instance, vkDevice)
	if properties2 != nil {
		idProperties := &core1_1.PhysicalDeviceIDProperties{}
		err = properties2.Properties2(&core1_1.PhysicalDeviceProperties2{
			NextOutData: common.NextOutData{Next: idProperties},
		})
		if err != nil {
			i.logger.Warn("could not query physical device ID properties",
				slog.String("device", properties.DriverName),
				slog.Any("error", err))
		} else {
			device.deviceUUID = idProperties.DeviceUUID
			device.hasUUID = true
		}
	}

	return device, nil
}

func (p *physicalDevice) Name() string {
	return p.properties.DriverName
}

func (p *physicalDevice) QueueFamilies() []ports.QueueFamily {
	properties := p.physicalDevice.QueueFamilyProperties()

	families := make([]ports.QueueFamily, 0, len(properties))
	for index, family := range properties {
		families = append(families, ports.QueueFamily{
			Index:      index,
			QueueCount: family.QueueCount,
			Flags:      family.QueueFlags,
		})
	}
	return families
}

func (p *physicalDevice) MemoryTypes() []core1_0.MemoryType {
	return p.memoryProperties.MemoryTypes
}

func (p *physicalDevice) DeviceUUID() (uuid.UUID, bool) {
	return p.deviceUUID, p.hasUUID
}

// CreateDevice creates a logical device with one queue from queueFamily, enabling whichever of the
// external memory and semaphore extensions the device offers
func (p *physicalDevice) CreateDevice(queueFamily int) (_ ports.GraphicsDevice, err error) {
	p.logger.Debug("PhysicalDevice::CreateDevice", slog.Int("queueFamily", queueFamily))

	available, _, err := p.physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	extensionNames := deviceExtensionNames(available)

	vkDevice, _, err := p.physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: queueFamily,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create logical device on %s", p.Name())
	}
	defer func() {
		if err != nil {
			vkDevice.Destroy(nil)
		}
	}()

	d, err := newDevice(p, vkDevice, queueFamily)
	if err != nil {
		return nil, err
	}

	p.logger.Info("vulkan device created",
		slog.String("device", p.Name()),
		slog.Int("queueFamily", queueFamily),
		slog.Any("extensions", extensionNames),
		slog.Bool("exportMemory", d.extensions.ExternalMemoryFD),
		slog.Bool("exportSemaphore", d.extensions.ExternalSemaphoreFD))
	return d, nil
}
