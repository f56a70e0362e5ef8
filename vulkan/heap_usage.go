package vulkan

import (
	"fmt"
	"sync/atomic"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/memutils"
)

// heapUsage tracks the device memory a device has allocated, per heap. Frame images and staging buffers
// each get their own allocation, so the counts are real vkAllocateMemory calls.
type heapUsage struct {
	allocationCount [common.MaxMemoryHeaps]int32
	allocationBytes [common.MaxMemoryHeaps]int64

	memoryCount        uint32
	maxAllocationCount int
	memoryProperties   *core1_0.PhysicalDeviceMemoryProperties
}

func newHeapUsage(properties *core1_0.PhysicalDeviceProperties, memoryProperties *core1_0.PhysicalDeviceMemoryProperties) *heapUsage {
	return &heapUsage{
		maxAllocationCount: properties.Limits.MaxMemoryAllocationCount,
		memoryProperties:   memoryProperties,
	}
}

func (u *heapUsage) heapIndex(memoryTypeIndex int) int {
	return u.memoryProperties.MemoryTypes[memoryTypeIndex].HeapIndex
}

// addAllocation records an allocation about to be made. It fails with VK_ERROR_TOO_MANY_OBJECTS when
// the device's allocation count limit would be exceeded, in which case nothing is recorded.
func (u *heapUsage) addAllocation(memoryTypeIndex int, size int) (common.VkResult, error) {
	newCount := atomic.AddUint32(&u.memoryCount, 1)
	if u.maxAllocationCount > 0 && int(newCount) > u.maxAllocationCount {
		// Decrement
		atomic.AddUint32(&u.memoryCount, ^uint32(0))
		return core1_0.VKErrorTooManyObjects, core1_0.VKErrorTooManyObjects.ToError()
	}

	heapIndex := u.heapIndex(memoryTypeIndex)
	atomic.AddInt64(&u.allocationBytes[heapIndex], int64(size))
	atomic.AddInt32(&u.allocationCount[heapIndex], 1)
	return core1_0.VKSuccess, nil
}

func (u *heapUsage) removeAllocation(memoryTypeIndex int, size int) {
	heapIndex := u.heapIndex(memoryTypeIndex)

	newBytes := atomic.AddInt64(&u.allocationBytes[heapIndex], int64(-size))
	if newBytes < 0 {
		panic(fmt.Sprintf("allocation bytes for heapIndex %d went negative", heapIndex))
	}

	newCount := atomic.AddInt32(&u.allocationCount[heapIndex], -1)
	if newCount < 0 {
		panic(fmt.Sprintf("allocation count for heapIndex %d went negative", heapIndex))
	}

	// Decrement
	atomic.AddUint32(&u.memoryCount, ^uint32(0))
}

// statistics reports current usage for each heap
func (u *heapUsage) statistics() []memutils.DetailedStatistics {
	stats := make([]memutils.DetailedStatistics, len(u.memoryProperties.MemoryHeaps))
	for heapIndex := range stats {
		stats[heapIndex].Clear()
		stats[heapIndex].MemoryCount = int(atomic.LoadInt32(&u.allocationCount[heapIndex]))
		stats[heapIndex].MemoryBytes = int(atomic.LoadInt64(&u.allocationBytes[heapIndex]))
	}
	return stats
}

func (u *heapUsage) outstanding() int {
	return int(atomic.LoadUint32(&u.memoryCount))
}
