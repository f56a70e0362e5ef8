package swapchain

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/vkmedia/memutils"
)

// heapReporter is implemented by graphics devices that track their allocations per memory heap
type heapReporter interface {
	HeapStatistics() []memutils.DetailedStatistics
}

// Statistics totals the GPU objects held by the ring
func (s *Swapchain) Statistics() memutils.DetailedStatistics {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.calculateStatistics()
}

func (s *Swapchain) calculateStatistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()

	for _, frame := range s.frames {
		stats.FrameCount++
		stats.AddAllocation(frame.allocationSize)
		stats.AddImport(frame.external.Size())
		stats.SemaphoreCount += 2
	}

	return stats
}

// BuildStatsString returns a JSON document describing the ring. When detailed is set it lists every
// frame with its hand-off state.
func (s *Swapchain) BuildStatsString(detailed bool) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	writer := jwriter.NewWriter()
	json := writer.Object()

	general := json.Name("General").Object()
	general.Name("DeviceIndex").Int(s.context.deviceIndex)
	general.Name("DeviceName").String(s.context.physicalDevice.Name())
	general.Name("QueueFamily").Int(s.context.queueFamily)
	general.Name("Width").Int(s.config.Width)
	general.Name("Height").Int(s.config.Height)
	general.Name("Format").String(s.config.Format.String())
	general.Name("Active").Bool(s.active)
	general.Name("ProducerCursor").Int(s.imageCursor)
	general.Name("ConsumerCursor").Int(s.frameCursor)
	general.End()

	stats := s.calculateStatistics()
	total := json.Name("Total").Object()
	stats.PrintJSON(&total)
	total.End()

	if detailed {
		frames := json.Name("Frames").Array()
		for i, frame := range s.frames {
			obj := frames.Object()
			frame.printParameters(&obj, s.states[i])
			obj.Name("Releases").Int(s.releases[i])
			obj.End()
		}
		frames.End()

		if reporter, ok := s.context.device.(heapReporter); ok {
			heaps := json.Name("Heaps").Array()
			for i, heapStats := range reporter.HeapStatistics() {
				obj := heaps.Object()
				obj.Name("HeapIndex").Int(i)
				heapStats.PrintJSON(&obj)
				obj.End()
			}
			heaps.End()
		}
	}

	json.End()
	return string(writer.Bytes())
}
