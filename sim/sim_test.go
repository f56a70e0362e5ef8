//go:build linux

package sim

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/ports"
)

func createDevice(t *testing.T, graphics *Graphics) (ports.GraphicsInstance, ports.GraphicsDevice) {
	instance, err := graphics.CreateInstance()
	require.NoError(t, err)

	physicalDevices, err := instance.PhysicalDevices()
	require.NoError(t, err)
	require.Len(t, physicalDevices, 1)

	device, err := physicalDevices[0].CreateDevice(0)
	require.NoError(t, err)
	return instance, device
}

func TestSharedMemoryRoundTrip(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{})
	compute := NewCompute(ComputeOptions{})

	instance, device := createDevice(t, graphics)

	image, err := device.CreateImage(ports.ImageInfo{
		Width:      4,
		Height:     2,
		Format:     core1_0.FormatR8G8B8A8UnsignedNormalized,
		Exportable: true,
	})
	require.NoError(t, err)
	requirements := image.MemoryRequirements()
	require.Equal(t, 4096, requirements.Size)
	require.Equal(t, uint32(0b11), requirements.MemoryTypeBits)

	memory, err := device.AllocateMemory(ports.MemoryAllocation{
		Size:            requirements.Size,
		MemoryTypeIndex: 1,
		Exportable:      true,
		DedicatedImage:  image,
	})
	require.NoError(t, err)
	require.NoError(t, image.BindMemory(memory, 0))

	exporter, ok := device.MemoryExporter()
	require.True(t, ok)
	fd, err := exporter.ExportMemory(memory)
	require.NoError(t, err)

	context, err := compute.CreateContext(0)
	require.NoError(t, err)

	external, err := context.ImportMemory(ports.MemoryImport{FD: fd, Size: requirements.Size})
	require.NoError(t, err)
	array, err := external.MapArray(ports.ArrayDescriptor{Width: 4, Height: 2, Format: ports.ArrayFormatUnsignedInt8, NumChannels: 4})
	require.NoError(t, err)

	pixels := make([]byte, 32)
	for i := range pixels {
		pixels[i] = byte(i + 1)
	}
	require.NoError(t, device.UploadImage(ports.UploadInfo{Image: image, Width: 4, Height: 2, Pixels: pixels}))

	read := make([]byte, 32)
	require.NoError(t, context.CopyArrayToHost(array, read, 16, 2))
	require.Equal(t, pixels, read)

	require.NoError(t, array.Destroy())
	require.NoError(t, external.Destroy())
	require.NoError(t, context.Destroy())
	memory.Free()
	image.Destroy()
	device.Destroy()
	instance.Destroy()

	require.Zero(t, graphics.Live())
	require.Zero(t, compute.Live())
}

func TestSemaphoreSignalCrossesDomains(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{})
	compute := NewCompute(ComputeOptions{})

	instance, device := createDevice(t, graphics)
	defer instance.Destroy()
	defer device.Destroy()

	semaphore, err := device.CreateSemaphore(true)
	require.NoError(t, err)
	defer semaphore.Destroy()

	exporter, ok := device.SemaphoreExporter()
	require.True(t, ok)
	fd, err := exporter.ExportSemaphore(semaphore)
	require.NoError(t, err)

	context, err := compute.CreateContext(0)
	require.NoError(t, err)
	defer context.Destroy()

	imported, err := context.ImportSemaphore(fd)
	require.NoError(t, err)
	defer imported.Destroy()

	// The graphics side signals through the image upload, the compute side consumes it
	image, err := device.CreateImage(ports.ImageInfo{Width: 1, Height: 1, Format: core1_0.FormatR8G8B8A8UnsignedNormalized})
	require.NoError(t, err)
	defer image.Destroy()
	memory, err := device.AllocateMemory(ports.MemoryAllocation{Size: image.MemoryRequirements().Size, MemoryTypeIndex: 0})
	require.NoError(t, err)
	defer memory.Free()
	require.NoError(t, image.BindMemory(memory, 0))

	require.NoError(t, device.UploadImage(ports.UploadInfo{
		Image:  image,
		Width:  1,
		Height: 1,
		Pixels: []byte{1, 2, 3, 4},
		Signal: semaphore,
	}))
	require.NoError(t, context.WaitSemaphore(imported))

	require.NoError(t, context.SignalSemaphore(imported))
	require.NoError(t, device.UploadImage(ports.UploadInfo{
		Image:  image,
		Width:  1,
		Height: 1,
		Pixels: []byte{1, 2, 3, 4},
		Wait:   semaphore,
	}))
}

func TestExportRequiresExportableObjects(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{})
	instance, device := createDevice(t, graphics)
	defer instance.Destroy()
	defer device.Destroy()

	memory, err := device.AllocateMemory(ports.MemoryAllocation{Size: 4096, MemoryTypeIndex: 1})
	require.NoError(t, err)
	defer memory.Free()

	exporter, ok := device.MemoryExporter()
	require.True(t, ok)
	fd, err := exporter.ExportMemory(memory)
	require.Error(t, err)
	require.Equal(t, -1, fd)
}

func TestMissingExportEntryPoints(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{
		Devices: []DeviceOptions{{NoMemoryExport: true, NoSemaphoreExport: true}},
	})
	instance, device := createDevice(t, graphics)
	defer instance.Destroy()
	defer device.Destroy()

	_, ok := device.MemoryExporter()
	require.False(t, ok)
	_, ok = device.SemaphoreExporter()
	require.False(t, ok)
}

func TestImportRejectsShortHandle(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{})
	compute := NewCompute(ComputeOptions{})
	instance, device := createDevice(t, graphics)
	defer instance.Destroy()
	defer device.Destroy()

	memory, err := device.AllocateMemory(ports.MemoryAllocation{Size: 4096, MemoryTypeIndex: 1, Exportable: true})
	require.NoError(t, err)
	defer memory.Free()

	exporter, _ := device.MemoryExporter()
	fd, err := exporter.ExportMemory(memory)
	require.NoError(t, err)

	context, err := compute.CreateContext(0)
	require.NoError(t, err)
	defer context.Destroy()

	_, err = context.ImportMemory(ports.MemoryImport{FD: fd, Size: 8192})
	require.Error(t, err)
	require.Zero(t, compute.LiveByKind()["externalMemory"])

	// A failed import leaves the descriptor with the caller
	external, err := context.ImportMemory(ports.MemoryImport{FD: fd, Size: 4096})
	require.NoError(t, err)
	require.NoError(t, external.Destroy())
}

func TestFaultsFailAfterCount(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{Faults: Faults{OpCreateImage: 2}})
	instance, device := createDevice(t, graphics)
	defer instance.Destroy()
	defer device.Destroy()

	info := ports.ImageInfo{Width: 8, Height: 8, Format: core1_0.FormatR8G8B8A8UnsignedNormalized}
	for i := 0; i < 2; i++ {
		image, err := device.CreateImage(info)
		require.NoError(t, err)
		image.Destroy()
	}

	_, err := device.CreateImage(info)
	require.True(t, errors.Is(err, ErrInjected))
	require.Equal(t, map[string]int{"instance": 1, "device": 1}, graphics.LiveByKind())
}

func TestDeviceUUIDsMatchAcrossDomains(t *testing.T) {
	graphics := NewGraphics(GraphicsOptions{Devices: []DeviceOptions{{}, {}}})
	compute := NewCompute(ComputeOptions{DeviceCount: 2})

	instance, err := graphics.CreateInstance()
	require.NoError(t, err)
	defer instance.Destroy()
	physicalDevices, err := instance.PhysicalDevices()
	require.NoError(t, err)

	for i, physicalDevice := range physicalDevices {
		context, err := compute.CreateContext(i)
		require.NoError(t, err)

		graphicsUUID, ok := physicalDevice.DeviceUUID()
		require.True(t, ok)
		computeUUID, ok := context.DeviceUUID()
		require.True(t, ok)
		require.Equal(t, graphicsUUID, computeUUID)
		require.NoError(t, context.Destroy())
	}
	require.NotEqual(t, DeviceUUID(0), DeviceUUID(1))
}
