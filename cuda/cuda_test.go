package cuda

import (
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/vkmedia/ports"
)

var layoutTestCases = map[string]struct {
	Size     uintptr
	Expected uintptr
}{
	"TestExternalMemoryHandleDesc":         {Size: unsafe.Sizeof(externalMemoryHandleDesc{}), Expected: 104},
	"TestArray3DDescriptor":                {Size: unsafe.Sizeof(array3DDescriptor{}), Expected: 40},
	"TestExternalMemoryMipmappedArrayDesc": {Size: unsafe.Sizeof(externalMemoryMipmappedArrayDesc{}), Expected: 120},
	"TestExternalSemaphoreHandleDesc":      {Size: unsafe.Sizeof(externalSemaphoreHandleDesc{}), Expected: 96},
	"TestExternalSemaphoreParams":          {Size: unsafe.Sizeof(externalSemaphoreParams{}), Expected: 144},
	"TestMemcpy2D":                         {Size: unsafe.Sizeof(memcpy2D{}), Expected: 128},
}

func TestStructLayouts(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("driver structures are laid out for 64-bit targets")
	}

	for testName, testCase := range layoutTestCases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, testCase.Expected, testCase.Size)
		})
	}

	require.Equal(t, uintptr(8), unsafe.Offsetof(externalMemoryHandleDesc{}.fd))
	require.Equal(t, uintptr(24), unsafe.Offsetof(externalMemoryHandleDesc{}.size))
	require.Equal(t, uintptr(32), unsafe.Offsetof(externalMemoryHandleDesc{}.flags))
	require.Equal(t, uintptr(48), unsafe.Offsetof(externalMemoryMipmappedArrayDesc{}.numLevels))
	require.Equal(t, uintptr(24), unsafe.Offsetof(externalSemaphoreHandleDesc{}.flags))
	require.Equal(t, uintptr(72), unsafe.Offsetof(memcpy2D{}.dstMemoryType))
	require.Equal(t, uintptr(112), unsafe.Offsetof(memcpy2D{}.widthInBytes))
}

func TestArrayFormatMatchesPorts(t *testing.T) {
	require.Equal(t, uint32(ports.ArrayFormatUnsignedInt8), uint32(arrayFormatUnsignedInt8))
}

func TestResultError(t *testing.T) {
	require.NoError(t, Success.ToError())
	require.Equal(t, "CUDA_ERROR_OUT_OF_MEMORY", ErrorOutOfMemory.Error())
	require.Equal(t, "CUresult(12345)", Result(12345).String())

	err := errors.Wrap(ErrorNotSupported.ToError(), "import")
	require.True(t, errors.Is(err, ErrorNotSupported))
	require.False(t, errors.Is(err, ErrorOutOfMemory))
}

func TestGoString(t *testing.T) {
	name := []byte("CUDA_ERROR_LAUNCH_FAILED\x00trailing")
	require.Equal(t, "CUDA_ERROR_LAUNCH_FAILED", goString(&name[0]))
}

func TestDriverContext(t *testing.T) {
	driver, err := NewDriver(nil)
	if err != nil {
		t.Skipf("no cuda driver: %v", err)
	}

	count, err := driver.DeviceCount()
	require.NoError(t, err)
	if count == 0 {
		t.Skip("no cuda devices")
	}

	name, err := driver.DeviceName(0)
	require.NoError(t, err)
	require.NotEmpty(t, name)

	ctx, err := driver.CreateContext(0)
	require.NoError(t, err)
	require.Equal(t, 0, ctx.DeviceIndex())
	require.NoError(t, ctx.Synchronize())

	// A descriptor the driver can't make sense of is refused, and stays with the caller
	_, err = ctx.ImportMemory(ports.MemoryImport{FD: -1, Size: 4096})
	require.Error(t, err)

	require.NoError(t, ctx.Destroy())
	require.Error(t, ctx.Destroy())

	_, err = driver.CreateContext(count)
	require.Error(t, err)
}
