//go:build linux

package swapchain

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/sim"
)

func openFDs(t require.TestingT) int {
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	return len(entries)
}

type testRing struct {
	graphics  *sim.Graphics
	compute   *sim.Compute
	context   *DeviceContext
	swapchain *Swapchain
}

func createTestContext(t *testing.T, graphicsOptions sim.GraphicsOptions, computeOptions sim.ComputeOptions) *testRing {
	ring := &testRing{
		graphics: sim.NewGraphics(graphicsOptions),
		compute:  sim.NewCompute(computeOptions),
	}

	dc, err := NewDeviceContext(nil, ring.graphics, ring.compute, 0, CreateOptions{})
	require.NoError(t, err)
	ring.context = dc
	return ring
}

func createTestRing(t *testing.T, count, width, height int, options CreateOptions) *testRing {
	ring := createTestContext(t, sim.GraphicsOptions{}, sim.ComputeOptions{})

	s, err := New(nil, ring.context, Config{
		Width:      width,
		Height:     height,
		Format:     FormatRGBA8,
		FrameCount: count,
	}, options)
	require.NoError(t, err)
	ring.swapchain = s
	return ring
}

func (r *testRing) destroy(t *testing.T) {
	if r.swapchain != nil {
		require.NoError(t, r.swapchain.Destroy())
	}
	require.NoError(t, r.context.Destroy())
	require.Zero(t, r.graphics.Live(), "live graphics objects: %v", r.graphics.LiveByKind())
	require.Zero(t, r.compute.Live(), "live compute objects: %v", r.compute.LiveByKind())
}

func fillPattern(pixels []byte, sequence int) {
	for i := range pixels {
		pixels[i] = byte(sequence*31 + i)
	}
}

func TestCreateDestroyReleasesEverything(t *testing.T) {
	openFDs(t)
	baseline := openFDs(t)

	for _, count := range []int{1, 2, 3, 8} {
		ring := createTestRing(t, count, 64, 64, CreateOptions{})
		require.Equal(t, count, ring.swapchain.Count())
		require.Len(t, ring.swapchain.Frames(), count)

		// Each frame holds its graphics memory, the compute import and two semaphores per side
		require.Equal(t, map[string]int{
			"instance":  1,
			"device":    1,
			"image":     count,
			"imageView": count,
			"memory":    count,
			"semaphore": 2 * count,
		}, ring.graphics.LiveByKind())
		require.Equal(t, map[string]int{
			"context":           1,
			"externalMemory":    count,
			"mappedArray":       count,
			"externalSemaphore": 2 * count,
		}, ring.compute.LiveByKind())

		for i, frame := range ring.swapchain.Frames() {
			require.Equal(t, i, frame.Index())
			require.Equal(t, 64*64*4, frame.ByteSize())
			require.GreaterOrEqual(t, frame.AllocationSize(), frame.ByteSize())
			require.Equal(t, 1, frame.MemoryTypeIndex())
			require.Equal(t, FrameFree, ring.swapchain.State(i))
		}

		ring.destroy(t)

		// A destroyed ring can be destroyed again
		require.NoError(t, ring.swapchain.Destroy())
		require.Equal(t, baseline, openFDs(t))
	}
}

var createFailureTestCases = map[string]struct {
	GraphicsOptions sim.GraphicsOptions
	ComputeOptions  sim.ComputeOptions

	ExpectedError    error
	ExpectedCategory error
}{
	"TestImageCreationFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpCreateImage: 2}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestAllocationFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpAllocateMemory: 1}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestBindFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpBindMemory: 2}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestViewFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpCreateView: 1}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestExportFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpExportMemory: 2}},
		ExpectedError:    ErrExportFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestImportFails": {
		ComputeOptions:   sim.ComputeOptions{Faults: sim.Faults{sim.OpImportMemory: 1}},
		ExpectedError:    ErrImportFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestMapArrayFails": {
		ComputeOptions:   sim.ComputeOptions{Faults: sim.Faults{sim.OpMapArray: 2}},
		ExpectedError:    ErrImportFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestSemaphoreCreationFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpCreateSemaphore: 5}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestSemaphoreExportFails": {
		GraphicsOptions:  sim.GraphicsOptions{Faults: sim.Faults{sim.OpExportSemaphore: 3}},
		ExpectedError:    ErrExportFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestSemaphoreImportFails": {
		ComputeOptions:   sim.ComputeOptions{Faults: sim.Faults{sim.OpImportSemaphore: 4}},
		ExpectedError:    ErrImportFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestMemoryExportMissing": {
		GraphicsOptions:  sim.GraphicsOptions{Devices: []sim.DeviceOptions{{NoMemoryExport: true}}},
		ExpectedError:    ErrExportUnsupported,
		ExpectedCategory: ErrDriverCapabilityMissing,
	},
	"TestSemaphoreExportMissing": {
		GraphicsOptions:  sim.GraphicsOptions{Devices: []sim.DeviceOptions{{NoSemaphoreExport: true}}},
		ExpectedError:    ErrExportUnsupported,
		ExpectedCategory: ErrDriverCapabilityMissing,
	},
	"TestNoDeviceLocalMemory": {
		GraphicsOptions:  sim.GraphicsOptions{Devices: []sim.DeviceOptions{{MemoryTypeBits: 0b01}}},
		ExpectedError:    ErrNoCompatibleMemoryType,
		ExpectedCategory: ErrConfiguration,
	},
	"TestAlignmentNotPowerOfTwo": {
		GraphicsOptions:  sim.GraphicsOptions{Devices: []sim.DeviceOptions{{Alignment: 96}}},
		ExpectedError:    ErrAllocationFailed,
		ExpectedCategory: ErrResourceExhaustion,
	},
	"TestArrayDescriptorMismatch": {
		ComputeOptions: sim.ComputeOptions{ReportDescriptor: func(desc ports.ArrayDescriptor) ports.ArrayDescriptor {
			desc.Height--
			return desc
		}},
		ExpectedError:    ErrSizeMismatch,
		ExpectedCategory: ErrConfiguration,
	},
}

func TestCreateIsAllOrNothing(t *testing.T) {
	openFDs(t)

	for testName, testCase := range createFailureTestCases {
		t.Run(testName, func(t *testing.T) {
			ring := createTestContext(t, testCase.GraphicsOptions, testCase.ComputeOptions)
			graphicsBaseline := ring.graphics.Live()
			computeBaseline := ring.compute.Live()
			fdBaseline := openFDs(t)

			s, err := New(nil, ring.context, Config{Width: 64, Height: 64, Format: FormatRGBA8, FrameCount: 3}, CreateOptions{})
			require.Nil(t, s)
			require.True(t, errors.Is(err, testCase.ExpectedError), "expected %v, got %+v", testCase.ExpectedError, err)
			require.Equal(t, testCase.ExpectedCategory, Category(err))

			require.Equal(t, graphicsBaseline, ring.graphics.Live(), "live graphics objects: %v", ring.graphics.LiveByKind())
			require.Equal(t, computeBaseline, ring.compute.Live(), "live compute objects: %v", ring.compute.LiveByKind())
			require.Equal(t, fdBaseline, openFDs(t))

			ring.destroy(t)
		})
	}
}

var configTestCases = map[string]struct {
	Config        Config
	ExpectedError error
}{
	"TestZeroFrames": {
		Config:        Config{Width: 64, Height: 64, Format: FormatRGBA8, FrameCount: 0},
		ExpectedError: ErrConfiguration,
	},
	"TestTooManyFrames": {
		Config:        Config{Width: 64, Height: 64, Format: FormatRGBA8, FrameCount: maxFrameCount + 1},
		ExpectedError: ErrConfiguration,
	},
	"TestZeroWidth": {
		Config:        Config{Width: 0, Height: 64, Format: FormatRGBA8, FrameCount: 2},
		ExpectedError: ErrInvalidExtent,
	},
	"TestUnknownFormat": {
		Config:        Config{Width: 64, Height: 64, FrameCount: 2},
		ExpectedError: ErrUnsupportedFormat,
	},
	"TestOtherDevice": {
		Config:        Config{Width: 64, Height: 64, Format: FormatRGBA8, FrameCount: 2, DeviceIndex: 1},
		ExpectedError: ErrInvalidDeviceIndex,
	},
}

func TestCreateRejectsConfiguration(t *testing.T) {
	for testName, testCase := range configTestCases {
		t.Run(testName, func(t *testing.T) {
			ring := createTestContext(t, sim.GraphicsOptions{}, sim.ComputeOptions{})
			defer ring.destroy(t)

			_, err := New(nil, ring.context, testCase.Config, CreateOptions{})
			require.True(t, errors.Is(err, testCase.ExpectedError), "expected %v, got %+v", testCase.ExpectedError, err)
			require.Equal(t, ErrConfiguration, Category(err))
			require.Equal(t, 2, ring.graphics.Live())
		})
	}
}

func TestContextCannotBeDestroyedUnderLiveSwapchain(t *testing.T) {
	ring := createTestRing(t, 2, 16, 16, CreateOptions{})
	liveGraphics := ring.graphics.LiveByKind()
	liveCompute := ring.compute.LiveByKind()

	err := ring.context.Destroy()
	require.True(t, errors.Is(err, ErrContextInUse))
	require.False(t, ring.context.isDestroyed())

	// Nothing was torn down by the refused Destroy
	require.Equal(t, liveGraphics, ring.graphics.LiveByKind())
	require.Equal(t, liveCompute, ring.compute.LiveByKind())

	// A second ring on the same context must be destroyed too
	second, err := New(nil, ring.context, Config{Width: 8, Height: 8, Format: FormatRGBA8, FrameCount: 1}, CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, ring.swapchain.Destroy())
	require.True(t, errors.Is(ring.context.Destroy(), ErrContextInUse))
	require.NoError(t, second.Destroy())

	ring.destroy(t)

	_, err = New(nil, ring.context, Config{Width: 8, Height: 8, Format: FormatRGBA8, FrameCount: 1}, CreateOptions{})
	require.Error(t, err)
}

func TestFailedCreateDoesNotPinContext(t *testing.T) {
	ring := createTestContext(t, sim.GraphicsOptions{Faults: sim.Faults{sim.OpExportMemory: 1}}, sim.ComputeOptions{})

	_, err := New(nil, ring.context, Config{Width: 8, Height: 8, Format: FormatRGBA8, FrameCount: 2}, CreateOptions{})
	require.Error(t, err)

	ring.destroy(t)
}

func TestAcquireWrapsAround(t *testing.T) {
	ring := createTestRing(t, 3, 16, 16, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		acquisition, err := s.AcquireImage(ctx)
		require.NoError(t, err)
		require.Equal(t, i, acquisition.Index)
		require.Equal(t, i, acquisition.Sequence)
		require.Nil(t, acquisition.Wait)
		require.NotNil(t, acquisition.Signal)
	}

	// Every frame is held by the producer, so the next acquisition blocks
	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	_, err := s.AcquireImage(timeout)
	cancel()
	require.True(t, errors.Is(err, ErrSynchronizationTimeout))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.PresentImage(i))
	}

	for sequence := 0; sequence < 10; sequence++ {
		frame, err := s.AcquireFrame(ctx)
		require.NoError(t, err)
		require.Equal(t, sequence%3, frame.Index)
		require.Equal(t, sequence, frame.Sequence)
		require.NotNil(t, frame.Wait)
		require.NotNil(t, frame.Signal)
		require.NoError(t, s.ReleaseFrame(frame.Index))

		image, err := s.AcquireImage(ctx)
		require.NoError(t, err)
		require.Equal(t, sequence%3, image.Index)
		require.Equal(t, sequence+3, image.Sequence)
		// The frame has been read once, so the write must wait for the read to finish
		require.Same(t, image.Frame, frame.Frame)
		require.NotNil(t, image.Wait)
		require.NoError(t, s.PresentImage(image.Index))

		require.NoError(t, s.Validate())
	}
}

func TestProducerWaitsForConsumerHeldFrame(t *testing.T) {
	ring := createTestRing(t, 1, 8, 8, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain
	ctx := context.Background()

	image, err := s.AcquireImage(ctx)
	require.NoError(t, err)
	require.NoError(t, s.PresentImage(image.Index))

	frame, err := s.AcquireFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, frame.Index)

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	_, err = s.AcquireImage(timeout)
	cancel()
	require.True(t, errors.Is(err, ErrSynchronizationTimeout))
	require.Equal(t, FrameAcquiredByConsumer, s.State(0))

	require.NoError(t, s.ReleaseFrame(frame.Index))
	image, err = s.AcquireImage(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, image.Index)
	require.Equal(t, 1, image.Sequence)
	require.NotNil(t, image.Wait)
}

func TestTransitionsFollowHandOff(t *testing.T) {
	type transition struct {
		from FrameState
		to   FrameState
	}
	observed := map[int][]transition{}

	ring := createTestRing(t, 2, 8, 8, CreateOptions{
		OnTransition: func(index int, from, to FrameState) {
			observed[index] = append(observed[index], transition{from, to})
		},
	})
	defer ring.destroy(t)
	s := ring.swapchain
	ctx := context.Background()

	for cycle := 0; cycle < 4; cycle++ {
		image, err := s.AcquireImage(ctx)
		require.NoError(t, err)
		require.Equal(t, FrameAcquiredByProducer, s.State(image.Index))
		require.NoError(t, s.PresentImage(image.Index))
		require.Equal(t, FrameSignaledByProducer, s.State(image.Index))

		frame, err := s.AcquireFrame(ctx)
		require.NoError(t, err)
		require.Equal(t, image.Index, frame.Index)
		require.Equal(t, FrameAcquiredByConsumer, s.State(frame.Index))
		require.NoError(t, s.ReleaseFrame(frame.Index))
		require.Equal(t, FrameSignaledByConsumer, s.State(frame.Index))
	}

	cycle := []transition{
		{FrameFree, FrameAcquiredByProducer},
		{FrameAcquiredByProducer, FrameSignaledByProducer},
		{FrameSignaledByProducer, FrameAcquiredByConsumer},
		{FrameAcquiredByConsumer, FrameSignaledByConsumer},
	}
	var expected []transition
	expected = append(expected, cycle...)
	expected = append(expected, transition{FrameSignaledByConsumer, FrameFree})
	expected = append(expected, cycle...)

	require.Equal(t, expected, observed[0])
	require.Equal(t, expected, observed[1])

	require.Panics(t, func() {
		s.transition(0, FrameAcquiredByConsumer)
	})
}

func TestOutOfOrderHandOffIsRejected(t *testing.T) {
	ring := createTestRing(t, 2, 8, 8, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain

	require.True(t, errors.Is(s.PresentImage(0), ErrInvalidFrameState))
	require.True(t, errors.Is(s.ReleaseFrame(0), ErrInvalidFrameState))
	require.True(t, errors.Is(s.PresentImage(2), ErrInvalidFrameState))
	require.True(t, errors.Is(s.ReleaseFrame(-1), ErrInvalidFrameState))

	require.Equal(t, FrameUnknown, s.State(-1))
	require.Equal(t, FrameUnknown, s.State(2))
	require.Equal(t, "Unknown", s.State(2).String())
	require.Nil(t, s.Frame(2))

	image, err := s.AcquireImage(context.Background())
	require.NoError(t, err)
	require.True(t, errors.Is(s.ReleaseFrame(image.Index), ErrInvalidFrameState))
	require.NoError(t, s.PresentImage(image.Index))
	require.True(t, errors.Is(s.PresentImage(image.Index), ErrInvalidFrameState))
}

func TestAcquireTimeout(t *testing.T) {
	ring := createTestRing(t, 2, 8, 8, CreateOptions{AcquireTimeout: 20 * time.Millisecond})
	defer ring.destroy(t)

	start := time.Now()
	_, err := ring.swapchain.AcquireFrame(context.Background())
	require.True(t, errors.Is(err, ErrSynchronizationTimeout))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.True(t, IsRetryable(err))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	// Cancellation is not a timeout
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ring.swapchain.AcquireFrame(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, errors.Is(err, ErrSynchronizationTimeout))
}

func TestDeactivateWakesBlockedAcquisitions(t *testing.T) {
	ring := createTestRing(t, 2, 8, 8, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.AcquireFrame(context.Background())
		errs <- err
	}()

	s.Deactivate()
	wg.Wait()
	close(errs)

	require.True(t, errors.Is(<-errs, ErrRingInactive))
	require.False(t, s.Active())

	_, err := s.AcquireImage(context.Background())
	require.True(t, errors.Is(err, ErrRingInactive))
}

func TestRoundTrip(t *testing.T) {
	const frames = 12

	// Transitions run under the ring's lock, so this tracker sees them in order
	states := make([]FrameState, 2)
	var violations []string
	ring := createTestRing(t, 2, 64, 64, CreateOptions{
		AcquireTimeout: 5 * time.Second,
		OnTransition: func(index int, from, to FrameState) {
			if to == FrameAcquiredByProducer && states[index] == FrameAcquiredByConsumer {
				violations = append(violations, fmt.Sprintf("frame %d handed to the producer while the consumer held it", index))
			}
			if states[index] != from {
				violations = append(violations, fmt.Sprintf("frame %d moved from %s but was %s", index, from, states[index]))
			}
			states[index] = to
		},
	})
	defer ring.destroy(t)
	s := ring.swapchain
	ctx := context.Background()

	var wg sync.WaitGroup
	var producerErr, consumerErr error
	received := make([][]byte, 0, frames)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pixels := make([]byte, 64*64*4)
		for i := 0; i < frames; i++ {
			image, err := s.AcquireImage(ctx)
			if err != nil {
				producerErr = err
				return
			}
			fillPattern(pixels, image.Sequence)
			if err = s.UploadFrame(image, pixels); err != nil {
				producerErr = err
				return
			}
			if err = s.PresentImage(image.Index); err != nil {
				producerErr = err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < frames; i++ {
			frame, err := s.AcquireFrame(ctx)
			if err != nil {
				consumerErr = err
				return
			}
			pixels := make([]byte, frame.Frame.ByteSize())
			if err = s.DownloadFrame(frame, pixels); err != nil {
				consumerErr = err
				return
			}
			received = append(received, pixels)
			if err = s.ReleaseFrame(frame.Index); err != nil {
				consumerErr = err
				return
			}
		}
	}()
	wg.Wait()

	require.NoError(t, producerErr)
	require.NoError(t, consumerErr)
	require.Len(t, received, frames)
	require.Empty(t, violations)

	expected := make([]byte, 64*64*4)
	for sequence, pixels := range received {
		fillPattern(expected, sequence)
		require.Equal(t, expected, pixels, "frame %d", sequence)
	}
	require.NoError(t, s.Validate())
}

func TestUploadRejectsWrongSize(t *testing.T) {
	ring := createTestRing(t, 1, 8, 8, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain

	image, err := s.AcquireImage(context.Background())
	require.NoError(t, err)

	err = s.UploadFrame(image, make([]byte, 8*8*3))
	require.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestBuildStatsString(t *testing.T) {
	ring := createTestRing(t, 2, 64, 64, CreateOptions{})
	defer ring.destroy(t)
	s := ring.swapchain

	_, err := s.AcquireImage(context.Background())
	require.NoError(t, err)

	stats := s.Statistics()
	require.Equal(t, 2, stats.FrameCount)
	require.Equal(t, 2, stats.MemoryCount)
	require.Equal(t, 2, stats.ImportCount)
	require.Equal(t, 4, stats.SemaphoreCount)
	require.Equal(t, stats.MemoryBytes, stats.ImportBytes)

	var doc struct {
		General struct {
			DeviceName     string
			Width          int
			ProducerCursor int
			Active         bool
		}
		Total struct {
			FrameCount  int
			MemoryBytes int
		}
		Frames []struct {
			Index int
			State string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(s.BuildStatsString(true)), &doc))
	require.Equal(t, "Simulated GPU 0", doc.General.DeviceName)
	require.Equal(t, 64, doc.General.Width)
	require.Equal(t, 1, doc.General.ProducerCursor)
	require.True(t, doc.General.Active)
	require.Equal(t, 2, doc.Total.FrameCount)
	require.Equal(t, stats.MemoryBytes, doc.Total.MemoryBytes)
	require.Len(t, doc.Frames, 2)
	require.Equal(t, "AcquiredByProducer", doc.Frames[0].State)
	require.Equal(t, "Free", doc.Frames[1].State)

	require.NoError(t, json.Unmarshal([]byte(s.BuildStatsString(false)), &doc))
}
