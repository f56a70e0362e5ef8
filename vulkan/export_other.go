//go:build !linux

package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// exportFunctions is empty off linux: opaque fd handles are the only export type the frame ring
// understands
type exportFunctions struct{}

func loadExportFunctions(_ core1_0.Device, _ *ExtensionData) (*exportFunctions, error) {
	return &exportFunctions{}, nil
}

func (f *exportFunctions) canExportMemory() bool    { return false }
func (f *exportFunctions) canExportSemaphore() bool { return false }

func (f *exportFunctions) exportMemory(_ core1_0.DeviceMemory) (int, error) {
	return -1, errors.New("opaque fd export is only available on linux")
}

func (f *exportFunctions) exportSemaphore(_ core1_0.Semaphore) (int, error) {
	return -1, errors.New("opaque fd export is only available on linux")
}
