// Package swapchain implements a ring of frames shared between a graphics API and a compute runtime.
//
// Each frame is a graphics image whose memory is exported as an OS handle and imported into the compute
// runtime as an array, so the producer renders into the same GPU memory the consumer encodes from.
// The producer walks the ring with AcquireImage and PresentImage, the consumer with AcquireFrame and
// ReleaseFrame, and each acquisition hands back the semaphore pair its GPU submission must honor.
package swapchain

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/memutils"
	"golang.org/x/exp/slog"
)

// Swapchain is a fixed-size ring of Frames with independent producer and consumer cursors
type Swapchain struct {
	logger  *slog.Logger
	context *DeviceContext
	config  Config
	options CreateOptions
	frames  []*Frame

	mutex     sync.Mutex
	changed   chan struct{}
	active    bool
	destroyed bool

	states []FrameState
	// releases counts completed consumer hand-backs per frame. A frame's frame-done semaphore has been
	// signaled exactly when this is nonzero.
	releases []int

	imageCursor int
	frameCursor int
}

// New creates config.FrameCount frames on dc. Either every frame is created or, on the first failure,
// every frame created so far is destroyed and the error is returned.
//
// dc - The device context the frames are allocated on. It must outlive the Swapchain.
//
// config - The ring's extent, format and size
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, dc *DeviceContext, config Config, options CreateOptions) (_ *Swapchain, err error) {
	if logger == nil {
		logger = dc.logger
	}
	logger.Debug("Swapchain::New",
		slog.Int("width", config.Width),
		slog.Int("height", config.Height),
		slog.Int("count", config.FrameCount),
		slog.String("flags", options.Flags.String()))

	err = config.Validate()
	if err != nil {
		return nil, err
	}
	if config.DeviceIndex != dc.DeviceIndex() {
		return nil, newError(ErrInvalidDeviceIndex, nil, "ring requested device %d on a context for device %d", config.DeviceIndex, dc.DeviceIndex())
	}
	err = dc.registerRing()
	if err != nil {
		return nil, err
	}

	s := &Swapchain{
		logger:   logger,
		context:  dc,
		config:   config,
		options:  options,
		frames:   make([]*Frame, 0, config.FrameCount),
		changed:  make(chan struct{}),
		active:   true,
		states:   make([]FrameState, config.FrameCount),
		releases: make([]int, config.FrameCount),
	}

	defer func() {
		if err != nil {
			s.destroyFrames()
			dc.unregisterRing()
		}
	}()

	for i := 0; i < config.FrameCount; i++ {
		frame, err := newFrame(dc, i, config, options)
		if err != nil {
			logger.Debug("    Swapchain::New FAILED", slog.Int("frame", i))
			return nil, errors.Wrapf(err, "create frame %d of %d", i, config.FrameCount)
		}
		s.frames = append(s.frames, frame)
	}

	logger.Info("swapchain created",
		slog.Int("frames", config.FrameCount),
		slog.Int("width", config.Width),
		slog.Int("height", config.Height),
		slog.String("format", config.Format.String()))

	memutils.DebugValidate(s)
	return s, nil
}

// Deactivate stops the ring from handing out frames. Every blocked and future acquisition returns
// ErrRingInactive, which ends producer and consumer loops. Frames already held may still be presented
// or released.
func (s *Swapchain) Deactivate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.active {
		return
	}
	s.logger.Debug("Swapchain::Deactivate")
	s.active = false
	s.broadcast()
}

// Active reports whether the ring is still handing out frames
func (s *Swapchain) Active() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.active
}

// Destroy deactivates the ring, waits for both domains to go idle, and destroys every frame. The
// producer and consumer loops must have returned before Destroy is called, and the DeviceContext cannot be
// destroyed until it has been. Calling it again does nothing.
func (s *Swapchain) Destroy() error {
	s.Deactivate()

	s.mutex.Lock()
	if s.destroyed {
		s.mutex.Unlock()
		return nil
	}
	s.destroyed = true
	s.mutex.Unlock()

	s.logger.Debug("Swapchain::Destroy", slog.Int("frames", len(s.frames)))

	if s.context.isDestroyed() {
		return errors.New("device context was destroyed before the swapchain")
	}
	defer s.context.unregisterRing()

	var err error
	if waitErr := s.context.device.WaitIdle(); waitErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(waitErr, "wait for graphics device idle"))
	}
	if syncErr := s.context.compute.Synchronize(); syncErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(syncErr, "synchronize compute context"))
	}

	return errors.CombineErrors(err, s.destroyFrames())
}

func (s *Swapchain) destroyFrames() error {
	var err error
	for i := len(s.frames) - 1; i >= 0; i-- {
		err = errors.CombineErrors(err, s.frames[i].destroy())
	}
	s.frames = nil
	return err
}

// Count is the number of frames in the ring
func (s *Swapchain) Count() int {
	return s.config.FrameCount
}

func (s *Swapchain) Config() Config {
	return s.config
}

func (s *Swapchain) DeviceContext() *DeviceContext {
	return s.context
}

// Frames returns the ring's frames in index order
func (s *Swapchain) Frames() []*Frame {
	frames := make([]*Frame, len(s.frames))
	copy(frames, s.frames)
	return frames
}

func (s *Swapchain) Frame(index int) *Frame {
	if index < 0 || index >= len(s.frames) {
		return nil
	}
	return s.frames[index]
}

// State returns the hand-off state of the frame at index, or FrameUnknown if index is outside the ring
func (s *Swapchain) State(index int) FrameState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.states) {
		return FrameUnknown
	}
	return s.states[index]
}

// Validate checks the ring's bookkeeping invariants
func (s *Swapchain) Validate() error {
	count := len(s.states)
	if s.frameCursor > s.imageCursor {
		return errors.Newf("consumer cursor %d is ahead of producer cursor %d", s.frameCursor, s.imageCursor)
	}
	if s.imageCursor-s.frameCursor > count {
		return errors.Newf("producer cursor %d is more than %d frames ahead of consumer cursor %d", s.imageCursor, count, s.frameCursor)
	}

	for i, state := range s.states {
		if state < FrameFree || state > FrameSignaledByConsumer {
			return errors.Newf("frame %d has unknown state %d", i, state)
		}
		if state == FrameSignaledByConsumer && s.releases[i] == 0 {
			return errors.Newf("frame %d is signaled by the consumer but was never released", i)
		}
	}

	return nil
}

// broadcast wakes every blocked acquisition. The caller must hold the mutex.
func (s *Swapchain) broadcast() {
	close(s.changed)
	s.changed = make(chan struct{})
}
