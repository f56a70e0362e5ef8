// Package vulkan implements the graphics domain over vkngwrapper. Frame images are created with
// external-memory export enabled, and the fd export entry points are resolved from the device at
// runtime, so a driver without them is reported through the export probes rather than failing device
// creation.
package vulkan

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v2/khr_external_memory_capabilities"
	"github.com/vkngwrapper/extensions/v2/khr_external_semaphore_capabilities"
	"github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2"
	"github.com/vkngwrapper/extensions/v2/khr_portability_enumeration"
	"github.com/vkngwrapper/vkmedia/internal/logging"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// DriverOptions contains optional settings for the Vulkan driver
type DriverOptions struct {
	// ApplicationName is reported to the driver. It defaults to "vkmedia".
	ApplicationName string
	// Validation enables VK_EXT_debug_utils and routes validation messages to the logger when the
	// loader offers it
	Validation bool
}

// Driver creates Vulkan instances through the system loader
type Driver struct {
	logger  *slog.Logger
	options DriverOptions
}

var _ ports.GraphicsDriver = (*Driver)(nil)

func NewDriver(logger *slog.Logger, options DriverOptions) *Driver {
	logger = logging.OrDiscard(logger)
	if options.ApplicationName == "" {
		options.ApplicationName = "vkmedia"
	}
	return &Driver{logger: logger, options: options}
}

// CreateInstance creates a Vulkan 1.1 instance, enabling portability enumeration and the external
// memory capability extensions when the loader offers them
func (d *Driver) CreateInstance() (_ ports.GraphicsInstance, err error) {
	d.logger.Debug("Driver::CreateInstance", slog.Bool("validation", d.options.Validation))

	loader, err := core.CreateSystemLoader()
	if err != nil {
		return nil, errors.Wrap(err, "load the system vulkan loader")
	}

	available, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}

	var extensionNames []string
	var flags core1_0.InstanceCreateFlags
	enableIfPresent := func(name string) bool {
		_, ok := available[name]
		if ok {
			extensionNames = append(extensionNames, name)
		}
		return ok
	}

	if enableIfPresent(khr_portability_enumeration.ExtensionName) {
		flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}
	enableIfPresent(khr_get_physical_device_properties2.ExtensionName)
	enableIfPresent(khr_external_memory_capabilities.ExtensionName)
	enableIfPresent(khr_external_semaphore_capabilities.ExtensionName)

	createInfo := core1_0.InstanceCreateInfo{
		ApplicationName:    d.options.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "vkmedia",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_1,
		Flags:              flags,
	}

	debugEnabled := d.options.Validation && enableIfPresent(ext_debug_utils.ExtensionName)
	if debugEnabled {
		// Chaining the messenger info reports problems in instance creation itself
		createInfo.NextOptions = common.NextOptions{Next: debugMessengerCreateInfo(d.logger)}
		if _, ok := loaderLayers(loader)[validationLayerName]; ok {
			createInfo.EnabledLayerNames = []string{validationLayerName}
		}
	}
	createInfo.EnabledExtensionNames = extensionNames

	vkInstance, _, err := loader.CreateInstance(nil, createInfo)
	if err != nil {
		return nil, errors.Wrap(err, "create vulkan instance")
	}
	defer func() {
		if err != nil {
			vkInstance.Destroy(nil)
		}
	}()

	i := &instance{
		logger:   d.logger,
		instance: vkInstance,
	}

	if debugEnabled {
		i.messenger, err = createDebugMessenger(vkInstance, d.logger)
		if err != nil {
			return nil, err
		}
	}

	d.logger.Info("vulkan instance created",
		slog.String("extensions", strings.Join(extensionNames, ",")),
		slog.String("platform", runtime.GOOS))
	return i, nil
}

type instance struct {
	logger    *slog.Logger
	instance  core1_0.Instance
	messenger ext_debug_utils.DebugUtilsMessenger
}

func (i *instance) PhysicalDevices() ([]ports.PhysicalDevice, error) {
	vkDevices, _, err := i.instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	devices := make([]ports.PhysicalDevice, 0, len(vkDevices))
	for _, vkDevice := range vkDevices {
		device, err := newPhysicalDevice(i, vkDevice)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *instance) Destroy() {
	if i.messenger != nil {
		i.messenger.Destroy(nil)
	}
	i.instance.Destroy(nil)
}
