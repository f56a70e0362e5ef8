package swapchain

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ResolveMemoryType returns the lowest memory type index whose bit is set in memoryTypeBits and whose
// property flags include every flag in requiredFlags.
//
// The device's memory types are passed in rather than cached, since they are queried live from the
// physical device for each allocation.
func ResolveMemoryType(memoryTypes []core1_0.MemoryType, memoryTypeBits uint32, requiredFlags core1_0.MemoryPropertyFlags) (int, error) {
	for memTypeIndex := 0; memTypeIndex < len(memoryTypes) && memTypeIndex < 32; memTypeIndex++ {
		memTypeBit := uint32(1) << memTypeIndex

		if memTypeBit&memoryTypeBits == 0 {
			// This memory type is banned by the bitmask
			continue
		}

		flags := memoryTypes[memTypeIndex].PropertyFlags
		if requiredFlags&flags != requiredFlags {
			// This memory type is missing required flags
			continue
		}

		return memTypeIndex, nil
	}

	return -1, newError(ErrNoCompatibleMemoryType, core1_0.VKErrorFeatureNotPresent.ToError(),
		"type bits %#b, required flags %s", memoryTypeBits, requiredFlags)
}
