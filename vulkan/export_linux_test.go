//go:build linux

package vulkan

import (
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestGetFDInfoLayout(t *testing.T) {
	require.Equal(t, uintptr(32), unsafe.Sizeof(memoryGetFDInfo{}))
	require.Equal(t, uintptr(16), unsafe.Offsetof(memoryGetFDInfo{}.memory))
	require.Equal(t, uintptr(24), unsafe.Offsetof(memoryGetFDInfo{}.handleType))

	require.Equal(t, uintptr(32), unsafe.Sizeof(semaphoreGetFDInfo{}))
	require.Equal(t, uintptr(16), unsafe.Offsetof(semaphoreGetFDInfo{}.semaphore))
	require.Equal(t, uintptr(24), unsafe.Offsetof(semaphoreGetFDInfo{}.handleType))
}

func TestLoaderLibraryPaths(t *testing.T) {
	t.Setenv("VULKAN_SDK", "/opt/vulkan")

	paths := loaderLibraryPaths()
	require.Equal(t, "libvulkan.so.1", paths[0])
	require.Equal(t, filepath.Join("/opt/vulkan", "lib", "libvulkan.so.1"), paths[1])
	require.Contains(t, paths, "libvulkan.so")
}

func TestExportFunctionsProbeNil(t *testing.T) {
	var functions *exportFunctions
	require.False(t, functions.canExportMemory())
	require.False(t, functions.canExportSemaphore())

	require.False(t, (&exportFunctions{}).canExportMemory())
}
