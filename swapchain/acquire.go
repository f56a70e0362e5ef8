package swapchain

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// ImageAcquisition is a frame handed to the producer
type ImageAcquisition struct {
	Index int
	// Sequence is the producer cursor value this acquisition was made at
	Sequence int
	Frame    *Frame
	// Wait must be waited on by the submission that writes the image. It is nil on the frame's first
	// cycle, when no consumer has read it yet.
	Wait ports.GraphicsSemaphore
	// Signal must be signaled by the submission once the image is written
	Signal ports.GraphicsSemaphore
}

// FrameAcquisition is a frame handed to the consumer
type FrameAcquisition struct {
	Index    int
	Sequence int
	Frame    *Frame
	// Wait must be waited on before the frame's array is read
	Wait ports.ComputeSemaphore
	// Signal must be signaled once the array is no longer being read
	Signal ports.ComputeSemaphore
}

var legalTransitions = map[FrameState][]FrameState{
	FrameFree:               {FrameAcquiredByProducer},
	FrameAcquiredByProducer: {FrameSignaledByProducer},
	FrameSignaledByProducer: {FrameAcquiredByConsumer},
	FrameAcquiredByConsumer: {FrameSignaledByConsumer},
	FrameSignaledByConsumer: {FrameFree},
}

// AcquireImage advances the producer cursor to the next frame. It blocks while that frame is still held
// by the consumer, until ctx is done, the ring's AcquireTimeout passes or the ring is deactivated.
func (s *Swapchain) AcquireImage(ctx context.Context) (ImageAcquisition, error) {
	s.logger.Debug("Swapchain::AcquireImage")

	ctx, cancel := s.acquireContext(ctx)
	defer cancel()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	index := s.imageCursor % len(s.states)
	err := s.waitFor(ctx, index, FrameFree, FrameSignaledByConsumer)
	if err != nil {
		return ImageAcquisition{}, errors.Wrapf(err, "acquire image %d", index)
	}

	if s.states[index] == FrameSignaledByConsumer {
		s.transition(index, FrameFree)
	}
	s.transition(index, FrameAcquiredByProducer)

	frame := s.frames[index]
	acquisition := ImageAcquisition{
		Index:    index,
		Sequence: s.imageCursor,
		Frame:    frame,
		Signal:   frame.imageReady.graphics,
	}
	if s.releases[index] > 0 {
		acquisition.Wait = frame.frameDone.graphics
	}
	s.imageCursor++

	memutils.DebugValidate(s)
	return acquisition, nil
}

// PresentImage hands a frame written by the producer over to the consumer
func (s *Swapchain) PresentImage(index int) error {
	s.logger.Debug("Swapchain::PresentImage", slog.Int("index", index))
	return s.advance(index, FrameAcquiredByProducer, FrameSignaledByProducer)
}

// AcquireFrame advances the consumer cursor to the next frame. It blocks until the producer has presented
// that frame, until ctx is done, the ring's AcquireTimeout passes or the ring is deactivated.
func (s *Swapchain) AcquireFrame(ctx context.Context) (FrameAcquisition, error) {
	s.logger.Debug("Swapchain::AcquireFrame")

	ctx, cancel := s.acquireContext(ctx)
	defer cancel()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	index := s.frameCursor % len(s.states)
	err := s.waitFor(ctx, index, FrameSignaledByProducer)
	if err != nil {
		return FrameAcquisition{}, errors.Wrapf(err, "acquire frame %d", index)
	}

	s.transition(index, FrameAcquiredByConsumer)

	frame := s.frames[index]
	acquisition := FrameAcquisition{
		Index:    index,
		Sequence: s.frameCursor,
		Frame:    frame,
		Wait:     frame.imageReady.compute,
		Signal:   frame.frameDone.compute,
	}
	s.frameCursor++

	memutils.DebugValidate(s)
	return acquisition, nil
}

// ReleaseFrame hands a frame read by the consumer back to the producer
func (s *Swapchain) ReleaseFrame(index int) error {
	s.logger.Debug("Swapchain::ReleaseFrame", slog.Int("index", index))
	return s.advance(index, FrameAcquiredByConsumer, FrameSignaledByConsumer)
}

func (s *Swapchain) advance(index int, from, to FrameState) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.destroyed {
		return errors.Wrap(ErrRingInactive, "ring has been destroyed")
	}
	if index < 0 || index >= len(s.states) {
		return errors.Wrapf(ErrInvalidFrameState, "frame index %d out of range [0, %d)", index, len(s.states))
	}
	if s.states[index] != from {
		return errors.Wrapf(ErrInvalidFrameState, "frame %d is %s, expected %s", index, s.states[index], from)
	}

	s.transition(index, to)
	if to == FrameSignaledByConsumer {
		s.releases[index]++
	}
	s.broadcast()

	memutils.DebugValidate(s)
	return nil
}

// waitFor blocks until the frame at index is in one of states. The caller must hold the mutex, which is
// released while blocked.
func (s *Swapchain) waitFor(ctx context.Context, index int, states ...FrameState) error {
	for {
		if !s.active {
			return ErrRingInactive
		}
		for _, state := range states {
			if s.states[index] == state {
				return nil
			}
		}

		changed := s.changed
		s.mutex.Unlock()

		var err error
		select {
		case <-changed:
		case <-ctx.Done():
			err = ctx.Err()
		}

		s.mutex.Lock()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return errors.Mark(errors.Wrapf(err, "frame %d still %s", index, s.states[index]), ErrSynchronizationTimeout)
			}
			return err
		}
	}
}

func (s *Swapchain) acquireContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.options.AcquireTimeout > 0 {
		return context.WithTimeout(ctx, s.options.AcquireTimeout)
	}
	return ctx, func() {}
}

// transition moves a frame to a new state. The caller must hold the mutex.
func (s *Swapchain) transition(index int, to FrameState) {
	from := s.states[index]

	legal := false
	for _, next := range legalTransitions[from] {
		if next == to {
			legal = true
			break
		}
	}
	if !legal {
		panic(errors.AssertionFailedf("illegal frame %d transition %s -> %s", index, from, to))
	}

	s.states[index] = to
	if s.options.OnTransition != nil {
		s.options.OnTransition(index, from, to)
	}
}
