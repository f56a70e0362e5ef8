package memutils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics counts the GPU objects held by a frame ring. Device memory is counted on the graphics
// side and imports on the compute side, so a healthy ring has equal MemoryCount and ImportCount.
type Statistics struct {
	FrameCount     int
	MemoryCount    int
	MemoryBytes    int
	ImportCount    int
	ImportBytes    int
	SemaphoreCount int
}

func (s *Statistics) Clear() {
	s.FrameCount = 0
	s.MemoryCount = 0
	s.MemoryBytes = 0
	s.ImportCount = 0
	s.ImportBytes = 0
	s.SemaphoreCount = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.FrameCount += other.FrameCount
	s.MemoryCount += other.MemoryCount
	s.MemoryBytes += other.MemoryBytes
	s.ImportCount += other.ImportCount
	s.ImportBytes += other.ImportBytes
	s.SemaphoreCount += other.SemaphoreCount
}

func (s *Statistics) PrintJSON(json *jwriter.ObjectState) {
	json.Name("FrameCount").Int(s.FrameCount)
	json.Name("MemoryCount").Int(s.MemoryCount)
	json.Name("MemoryBytes").Int(s.MemoryBytes)
	json.Name("ImportCount").Int(s.ImportCount)
	json.Name("ImportBytes").Int(s.ImportBytes)
	json.Name("SemaphoreCount").Int(s.SemaphoreCount)
}

// DetailedStatistics adds allocation size bounds to Statistics
type DetailedStatistics struct {
	Statistics
	AllocationSizeMin int
	AllocationSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
}

// AddAllocation records one device memory allocation of the given size
func (s *DetailedStatistics) AddAllocation(size int) {
	s.MemoryCount++
	s.MemoryBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

// AddImport records one compute-side import of the given size
func (s *DetailedStatistics) AddImport(size int) {
	s.ImportCount++
	s.ImportBytes += size
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

func (s *DetailedStatistics) PrintJSON(json *jwriter.ObjectState) {
	s.Statistics.PrintJSON(json)
	if s.MemoryCount > 0 {
		json.Name("AllocationSizeMin").Int(s.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	}
}
