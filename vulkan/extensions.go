package vulkan

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/extensions/v2/khr_dedicated_allocation"
	"github.com/vkngwrapper/extensions/v2/khr_external_memory"
	"github.com/vkngwrapper/extensions/v2/khr_external_semaphore"
	"github.com/vkngwrapper/extensions/v2/khr_get_memory_requirements2"
	khr_get_memory_requirements2_shim "github.com/vkngwrapper/extensions/v2/khr_get_memory_requirements2/shim"
	"github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2"
	khr_get_physical_device_properties2_shim "github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2/shim"
	"github.com/vkngwrapper/extensions/v2/khr_portability_subset"
)

// The fd flavors of the external memory and semaphore extensions carry no structures of their own, only
// the vkGet*FdKHR entry points, so they have no extension package
const (
	externalMemoryFDExtensionName    = "VK_KHR_external_memory_fd"
	externalSemaphoreFDExtensionName = "VK_KHR_external_semaphore_fd"
)

// ExtensionData records which of the extensions the frame ring depends on are active on a device,
// whether through core 1.1 promotion or as device extensions
type ExtensionData struct {
	DedicatedAllocations  bool
	ExternalMemory        bool
	ExternalSemaphore     bool
	ExternalMemoryFD      bool
	ExternalSemaphoreFD   bool
	GetMemoryRequirements khr_get_memory_requirements2_shim.Shim
}

func NewExtensionData(device core1_0.Device) *ExtensionData {
	data := &ExtensionData{}

	device11 := core1_1.PromoteDevice(device)
	if device11 != nil {
		// Core 1.1 active - khr_get_memory_requirements2, khr_dedicated_allocation, khr_external_memory and
		// khr_external_semaphore are all promoted
		data.DedicatedAllocations = true
		data.ExternalMemory = true
		data.ExternalSemaphore = true
		data.GetMemoryRequirements = device11
	}

	// khr_get_memory_requirements2 if core 1.1 is not active
	if data.GetMemoryRequirements == nil && device.IsDeviceExtensionActive(khr_get_memory_requirements2.ExtensionName) {
		extension := khr_get_memory_requirements2.CreateExtensionFromDevice(device)
		data.GetMemoryRequirements = khr_get_memory_requirements2_shim.NewShim(extension, device)
	}

	// khr_dedicated_allocation needs khr_get_memory_requirements2 to report whether it is wanted
	if data.GetMemoryRequirements != nil && !data.DedicatedAllocations &&
		device.IsDeviceExtensionActive(khr_dedicated_allocation.ExtensionName) {
		data.DedicatedAllocations = true
	}

	if !data.ExternalMemory && device.IsDeviceExtensionActive(khr_external_memory.ExtensionName) {
		data.ExternalMemory = true
	}

	if !data.ExternalSemaphore && device.IsDeviceExtensionActive(khr_external_semaphore.ExtensionName) {
		data.ExternalSemaphore = true
	}

	// The fd extensions are never promoted
	data.ExternalMemoryFD = data.ExternalMemory && device.IsDeviceExtensionActive(externalMemoryFDExtensionName)
	data.ExternalSemaphoreFD = data.ExternalSemaphore && device.IsDeviceExtensionActive(externalSemaphoreFDExtensionName)

	return data
}

// deviceExtensionNames picks the device extensions to enable out of those a physical device offers
func deviceExtensionNames(available map[string]*core1_0.ExtensionProperties) []string {
	wanted := []string{
		khr_portability_subset.ExtensionName,
		khr_get_memory_requirements2.ExtensionName,
		khr_dedicated_allocation.ExtensionName,
		khr_external_memory.ExtensionName,
		externalMemoryFDExtensionName,
		khr_external_semaphore.ExtensionName,
		externalSemaphoreFDExtensionName,
	}

	var names []string
	for _, name := range wanted {
		if _, ok := available[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// physicalDeviceProperties2 returns a way to query extended physical device properties, or nil if
// neither core 1.1 nor khr_get_physical_device_properties2 is active on the instance
func physicalDeviceProperties2(instance core1_0.Instance, physicalDevice core1_0.PhysicalDevice) khr_get_physical_device_properties2_shim.Shim {
	physicalDevice11 := core1_1.PromoteInstanceScopedPhysicalDevice(physicalDevice)
	if physicalDevice11 != nil {
		return physicalDevice11
	}

	if instance.IsInstanceExtensionActive(khr_get_physical_device_properties2.ExtensionName) {
		extension := khr_get_physical_device_properties2.CreateExtensionFromInstance(instance)
		return khr_get_physical_device_properties2_shim.NewShim(extension, physicalDevice)
	}

	return nil
}
