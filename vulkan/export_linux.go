//go:build linux

package vulkan

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

const (
	structureTypeMemoryGetFDInfo    = 1000074002
	structureTypeSemaphoreGetFDInfo = 1000079001

	handleTypeOpaqueFD = 0x00000001
)

// memoryGetFDInfo mirrors VkMemoryGetFdInfoKHR
type memoryGetFDInfo struct {
	sType      uint32
	_          uint32
	next       uintptr
	memory     uintptr
	handleType uint32
	_          uint32
}

// semaphoreGetFDInfo mirrors VkSemaphoreGetFdInfoKHR
type semaphoreGetFDInfo struct {
	sType      uint32
	_          uint32
	next       uintptr
	semaphore  uintptr
	handleType uint32
	_          uint32
}

var (
	loaderOnce          sync.Once
	loaderErr           error
	vkGetDeviceProcAddr func(device uintptr, name string) uintptr
)

func loaderLibraryPaths() []string {
	names := []string{"libvulkan.so.1", "libvulkan.so"}
	searchPaths := []string{
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/usr/lib64",
		"/usr/lib",
	}
	if vulkanSDK := os.Getenv("VULKAN_SDK"); vulkanSDK != "" {
		searchPaths = append([]string{filepath.Join(vulkanSDK, "lib")}, searchPaths...)
	}

	var paths []string
	for _, name := range names {
		// The bare name lets the dynamic linker search LD_LIBRARY_PATH first
		paths = append(paths, name)
		for _, dir := range searchPaths {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// openLoader resolves vkGetDeviceProcAddr from the system loader. The loader is already mapped into the
// process by core.CreateSystemLoader, so this only takes another reference to it.
func openLoader() error {
	loaderOnce.Do(func() {
		for _, path := range loaderLibraryPaths() {
			lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err != nil {
				continue
			}
			purego.RegisterLibFunc(&vkGetDeviceProcAddr, lib, "vkGetDeviceProcAddr")
			return
		}
		loaderErr = errors.Newf("vulkan loader not found (tried %v)", loaderLibraryPaths())
	})
	return loaderErr
}

// exportFunctions holds the device-level fd export entry points. Either may be nil when the device does
// not expose it.
type exportFunctions struct {
	deviceHandle   uintptr
	getMemoryFD    func(device uintptr, info unsafe.Pointer, fd unsafe.Pointer) int32
	getSemaphoreFD func(device uintptr, info unsafe.Pointer, fd unsafe.Pointer) int32
}

func loadExportFunctions(device core1_0.Device, extensions *ExtensionData) (*exportFunctions, error) {
	if !extensions.ExternalMemoryFD && !extensions.ExternalSemaphoreFD {
		return &exportFunctions{}, nil
	}

	err := openLoader()
	if err != nil {
		return nil, err
	}

	functions := &exportFunctions{
		deviceHandle: uintptr(unsafe.Pointer(device.Handle())),
	}

	if extensions.ExternalMemoryFD {
		ptr := vkGetDeviceProcAddr(functions.deviceHandle, "vkGetMemoryFdKHR")
		if ptr != 0 {
			purego.RegisterFunc(&functions.getMemoryFD, ptr)
		}
	}

	if extensions.ExternalSemaphoreFD {
		ptr := vkGetDeviceProcAddr(functions.deviceHandle, "vkGetSemaphoreFdKHR")
		if ptr != 0 {
			purego.RegisterFunc(&functions.getSemaphoreFD, ptr)
		}
	}

	return functions, nil
}

func (f *exportFunctions) canExportMemory() bool {
	return f != nil && f.getMemoryFD != nil
}

func (f *exportFunctions) canExportSemaphore() bool {
	return f != nil && f.getSemaphoreFD != nil
}

func (f *exportFunctions) exportMemory(memory core1_0.DeviceMemory) (int, error) {
	info := memoryGetFDInfo{
		sType:      structureTypeMemoryGetFDInfo,
		memory:     uintptr(unsafe.Pointer(memory.Handle())),
		handleType: handleTypeOpaqueFD,
	}

	var fd int32 = -1
	result := common.VkResult(f.getMemoryFD(f.deviceHandle, unsafe.Pointer(&info), unsafe.Pointer(&fd)))
	runtime.KeepAlive(&info)
	if result != core1_0.VKSuccess {
		return -1, result.ToError()
	}
	return int(fd), nil
}

func (f *exportFunctions) exportSemaphore(semaphore core1_0.Semaphore) (int, error) {
	info := semaphoreGetFDInfo{
		sType:      structureTypeSemaphoreGetFDInfo,
		semaphore:  uintptr(unsafe.Pointer(semaphore.Handle())),
		handleType: handleTypeOpaqueFD,
	}

	var fd int32 = -1
	result := common.VkResult(f.getSemaphoreFD(f.deviceHandle, unsafe.Pointer(&info), unsafe.Pointer(&fd)))
	runtime.KeepAlive(&info)
	if result != core1_0.VKSuccess {
		return -1, result.ToError()
	}
	return int(fd), nil
}
