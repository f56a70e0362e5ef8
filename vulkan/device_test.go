package vulkan

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
)

// createTestDevice opens the first physical device with a graphics queue, or skips the test when the
// machine has no usable Vulkan driver
func createTestDevice(t *testing.T) (ports.GraphicsInstance, ports.PhysicalDevice, ports.GraphicsDevice) {
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	driver := NewDriver(logger, DriverOptions{ApplicationName: t.Name(), Validation: true})

	instance, err := driver.CreateInstance()
	if err != nil {
		t.Skipf("no vulkan driver: %v", err)
	}

	physicalDevices, err := instance.PhysicalDevices()
	require.NoError(t, err)
	if len(physicalDevices) == 0 {
		instance.Destroy()
		t.Skip("no vulkan physical devices")
	}
	physicalDevice := physicalDevices[0]

	family := -1
	for _, queueFamily := range physicalDevice.QueueFamilies() {
		if queueFamily.SupportsGraphics() {
			family = queueFamily.Index
			break
		}
	}
	if family < 0 {
		instance.Destroy()
		t.Skip("first physical device has no graphics queue")
	}

	device, err := physicalDevice.CreateDevice(family)
	require.NoError(t, err)
	require.Equal(t, family, device.QueueFamily())

	return instance, physicalDevice, device
}

func TestDeviceFrameResources(t *testing.T) {
	instance, physicalDevice, device := createTestDevice(t)
	defer instance.Destroy()
	defer device.Destroy()

	img, err := device.CreateImage(ports.ImageInfo{
		Width:      64,
		Height:     64,
		Format:     core1_0.FormatR8G8B8A8UnsignedNormalized,
		Usage:      core1_0.ImageUsageTransferDst | core1_0.ImageUsageTransferSrc,
		Exportable: true,
	})
	require.NoError(t, err)
	defer img.Destroy()

	requirements := img.MemoryRequirements()
	require.GreaterOrEqual(t, requirements.Size, 64*64*4)

	typeIndex, err := swapchain.ResolveMemoryType(physicalDevice.MemoryTypes(), requirements.MemoryTypeBits, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)

	memory, err := device.AllocateMemory(ports.MemoryAllocation{
		Size:            requirements.Size,
		MemoryTypeIndex: typeIndex,
		Exportable:      true,
		DedicatedImage:  img,
	})
	require.NoError(t, err)
	defer memory.Free()

	require.NoError(t, img.BindMemory(memory, 0))

	view, err := img.CreateView()
	require.NoError(t, err)
	defer view.Destroy()

	signal, err := device.CreateSemaphore(true)
	require.NoError(t, err)
	defer signal.Destroy()

	pixels := make([]byte, 64*64*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	require.NoError(t, device.UploadImage(ports.UploadInfo{
		Image:  img,
		Width:  64,
		Height: 64,
		Pixels: pixels,
		Signal: signal,
	}))
	require.Error(t, device.UploadImage(ports.UploadInfo{Image: img, Width: 64, Height: 64, Pixels: pixels[:100]}))

	exporter, ok := device.MemoryExporter()
	if ok {
		fd, err := exporter.ExportMemory(memory)
		require.NoError(t, err)
		require.GreaterOrEqual(t, fd, 0)
		require.NoError(t, os.NewFile(uintptr(fd), "exported").Close())
	}

	require.NoError(t, device.WaitIdle())
}
