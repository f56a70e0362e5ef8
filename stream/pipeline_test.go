//go:build linux

package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/vkmedia/mocks"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/sim"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"go.uber.org/mock/gomock"
)

type testStream struct {
	graphics  *sim.Graphics
	compute   *sim.Compute
	swapchain *swapchain.Swapchain

	renderer *mocks.MockRenderer
	encoder  *mocks.MockEncoder
	sink     *mocks.MockSink

	samplesLock sync.Mutex
	samples     []ports.Sample
}

func createTestStream(t *testing.T, frameCount int, graphicsOptions sim.GraphicsOptions) *testStream {
	ctrl := gomock.NewController(t)

	s := &testStream{
		graphics: sim.NewGraphics(graphicsOptions),
		compute:  sim.NewCompute(sim.ComputeOptions{}),
		renderer: mocks.NewMockRenderer(ctrl),
		encoder:  mocks.NewMockEncoder(ctrl),
		sink:     mocks.NewMockSink(ctrl),
	}

	dc, err := swapchain.NewDeviceContext(nil, s.graphics, s.compute, 0, swapchain.CreateOptions{})
	require.NoError(t, err)

	s.swapchain, err = swapchain.New(nil, dc, swapchain.Config{
		Width:      16,
		Height:     8,
		Format:     swapchain.FormatRGBA8,
		FrameCount: frameCount,
	}, swapchain.CreateOptions{AcquireTimeout: 5 * time.Second})
	require.NoError(t, err)

	return s
}

// expectPattern renders each frame as its sequence number and encodes a frame as its first pixel
func (s *testStream) expectPattern() {
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, target ports.RenderTarget) error {
			for i := range target.Pixels {
				target.Pixels[i] = byte(target.Sequence)
			}
			return nil
		}).AnyTimes()

	s.encoder.EXPECT().Encode(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input ports.EncodeInput) ([]byte, error) {
			return []byte{input.Pixels[0], input.Pixels[len(input.Pixels)-1]}, nil
		}).AnyTimes()
}

func (s *testStream) expectSamples() {
	s.sink.EXPECT().WriteSample(gomock.Any()).DoAndReturn(func(sample ports.Sample) error {
		s.samplesLock.Lock()
		defer s.samplesLock.Unlock()
		s.samples = append(s.samples, sample)
		return nil
	}).AnyTimes()
}

func (s *testStream) expectClose(tail []byte) {
	s.encoder.EXPECT().Flush().Return(tail, nil)
	s.sink.EXPECT().Close().Return(nil)
	s.encoder.EXPECT().Close().Return(nil)
}

func (s *testStream) pipeline(t *testing.T, fps, maxFrames int) *Pipeline {
	p, err := New(nil, Config{
		Swapchain: s.swapchain,
		Renderer:  s.renderer,
		Encoder:   s.encoder,
		Sink:      s.sink,
		FPS:       fps,
		MaxFrames: maxFrames,
	})
	require.NoError(t, err)
	return p
}

func (s *testStream) requireReleased(t *testing.T) {
	require.Zero(t, s.graphics.Live(), "live graphics objects: %v", s.graphics.LiveByKind())
	require.Zero(t, s.compute.Live(), "live compute objects: %v", s.compute.LiveByKind())
}

func TestPipelineStreamsFramesInOrder(t *testing.T) {
	for _, frameCount := range []int{1, 2, 3} {
		s := createTestStream(t, frameCount, sim.GraphicsOptions{})
		s.expectPattern()
		s.expectSamples()
		s.expectClose([]byte{0xff})

		p := s.pipeline(t, 25, 12)
		require.NoError(t, p.Start(context.Background()))
		require.NoError(t, p.Wait())
		require.NoError(t, p.Close())

		require.Len(t, s.samples, 13)
		for n := 0; n < 12; n++ {
			require.Equal(t, []byte{byte(n), byte(n)}, s.samples[n].Data, "frame %d with %d frames", n, frameCount)
			require.Equal(t, time.Duration(n)*40*time.Millisecond, s.samples[n].Timestamp)
			require.Equal(t, 40*time.Millisecond, s.samples[n].Duration)
		}
		require.Equal(t, []byte{0xff}, s.samples[12].Data)
		require.Equal(t, 480*time.Millisecond, s.samples[12].Timestamp)

		require.Equal(t, Statistics{Produced: 12, Consumed: 12, EncodedBytes: 25}, p.Statistics())
		s.requireReleased(t)
	}
}

func TestPipelineStop(t *testing.T) {
	s := createTestStream(t, 3, sim.GraphicsOptions{})
	s.expectPattern()
	s.expectSamples()
	s.expectClose(nil)

	p := s.pipeline(t, 30, 0)
	require.NoError(t, p.Start(context.Background()))

	require.Eventually(t, func() bool {
		return p.Statistics().Consumed >= 5
	}, 5*time.Second, time.Millisecond)

	p.Stop()
	require.NoError(t, p.Wait())
	require.False(t, s.swapchain.Active())
	require.NoError(t, s.swapchain.Validate())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	s.requireReleased(t)
}

func TestPipelineContextCancel(t *testing.T) {
	s := createTestStream(t, 2, sim.GraphicsOptions{})
	s.expectPattern()
	s.expectSamples()
	s.expectClose(nil)

	ctx, cancel := context.WithCancel(context.Background())
	p := s.pipeline(t, 30, 0)
	require.NoError(t, p.Start(ctx))

	require.Eventually(t, func() bool {
		return p.Statistics().Consumed >= 2
	}, 5*time.Second, time.Millisecond)
	cancel()

	require.NoError(t, p.Wait())
	require.NoError(t, p.Close())
	s.requireReleased(t)
}

func TestPipelineFailures(t *testing.T) {
	failure := errors.New("collaborator failed")

	testCases := map[string]struct {
		Setup    func(s *testStream)
		Graphics sim.GraphicsOptions
	}{
		"EncoderFails": {
			Setup: func(s *testStream) {
				s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				gomock.InOrder(
					s.encoder.EXPECT().Encode(gomock.Any(), gomock.Any()).Return([]byte{1}, nil).Times(3),
					s.encoder.EXPECT().Encode(gomock.Any(), gomock.Any()).Return(nil, failure),
				)
				s.expectSamples()
			},
		},
		"RendererFails": {
			Setup: func(s *testStream) {
				gomock.InOrder(
					s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil).Times(2),
					s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(failure),
				)
				s.encoder.EXPECT().Encode(gomock.Any(), gomock.Any()).Return([]byte{1}, nil).AnyTimes()
				s.expectSamples()
			},
		},
		"SinkFails": {
			Setup: func(s *testStream) {
				s.expectPattern()
				s.sink.EXPECT().WriteSample(gomock.Any()).Return(failure)
			},
		},
		"UploadFails": {
			Graphics: sim.GraphicsOptions{Faults: sim.Faults{sim.OpUploadImage: 4}},
			Setup: func(s *testStream) {
				s.expectPattern()
				s.expectSamples()
			},
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			s := createTestStream(t, 3, testCase.Graphics)
			testCase.Setup(s)
			s.expectClose(nil)

			p := s.pipeline(t, 30, 100)
			require.NoError(t, p.Start(context.Background()))

			err := p.Wait()
			require.Error(t, err)
			if testName == "UploadFails" {
				require.True(t, errors.Is(err, sim.ErrInjected))
			} else {
				require.True(t, errors.Is(err, failure))
			}

			// Whatever failed, the ring is left consistent for teardown
			require.NoError(t, s.swapchain.Validate())
			require.NoError(t, p.Close())
			s.requireReleased(t)
		})
	}
}

func TestPipelineLifecycleMisuse(t *testing.T) {
	s := createTestStream(t, 2, sim.GraphicsOptions{})
	s.expectPattern()
	s.expectSamples()
	s.expectClose(nil)

	_, err := New(nil, Config{Swapchain: s.swapchain, Renderer: s.renderer, Encoder: s.encoder, Sink: s.sink})
	require.Error(t, err)
	_, err = New(nil, Config{Swapchain: s.swapchain, FPS: 30})
	require.Error(t, err)

	p := s.pipeline(t, 30, 4)
	require.Error(t, p.Wait())
	require.NotEqual(t, p.SessionID(), s.pipeline(t, 30, 4).SessionID())

	require.NoError(t, p.Start(context.Background()))
	require.Error(t, p.Start(context.Background()))
	require.NoError(t, p.Wait())

	require.NoError(t, p.Close())
	require.Error(t, p.Start(context.Background()))
	s.requireReleased(t)
}
