// Package stream drives a frame ring with a producer loop that renders into the graphics side and a
// consumer loop that encodes from the compute side.
package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/vkmedia/internal/logging"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
)

// Config wires a pipeline's collaborators. The pipeline takes ownership of all of them: Close tears down
// the encoder, the sink, the ring and the ring's device context.
type Config struct {
	Swapchain *swapchain.Swapchain
	Renderer  ports.Renderer
	Encoder   ports.Encoder
	Sink      ports.Sink

	// FPS sets the presentation timestamp of frame n to n/FPS
	FPS int
	// MaxFrames ends both loops once that many frames have been streamed. Zero streams until Stop.
	MaxFrames int
	// Paced holds the producer to FPS instead of rendering as fast as the ring allows
	Paced bool
}

func (c Config) validate() error {
	if c.Swapchain == nil || c.Renderer == nil || c.Encoder == nil || c.Sink == nil {
		return errors.New("a pipeline needs a swapchain, renderer, encoder and sink")
	}
	if c.FPS <= 0 {
		return errors.Newf("fps must be positive, got %d", c.FPS)
	}
	if c.MaxFrames < 0 {
		return errors.Newf("max frames must not be negative, got %d", c.MaxFrames)
	}
	return nil
}

// Statistics counts the work a pipeline has done
type Statistics struct {
	Produced     int
	Consumed     int
	EncodedBytes int
}

// Pipeline runs the producer and consumer loops over one ring
type Pipeline struct {
	logger    *slog.Logger
	sessionID uuid.UUID
	config    Config

	mutex   sync.Mutex
	cancel  context.CancelFunc
	loops   sync.WaitGroup
	done    chan struct{}
	started bool
	closed  bool
	err     error

	produced     atomic.Int64
	consumed     atomic.Int64
	encodedBytes atomic.Int64
}

func New(logger *slog.Logger, config Config) (*Pipeline, error) {
	err := config.validate()
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	logger = logging.OrDiscard(logger)

	return &Pipeline{
		logger:    logger.With(slog.String("session", sessionID.String())),
		sessionID: sessionID,
		config:    config,
		done:      make(chan struct{}),
	}, nil
}

func (p *Pipeline) SessionID() uuid.UUID {
	return p.sessionID
}

func (p *Pipeline) Swapchain() *swapchain.Swapchain {
	return p.config.Swapchain
}

func (p *Pipeline) Statistics() Statistics {
	return Statistics{
		Produced:     int(p.produced.Load()),
		Consumed:     int(p.consumed.Load()),
		EncodedBytes: int(p.encodedBytes.Load()),
	}
}

// Start launches the producer and consumer loops. They run until MaxFrames frames have been streamed,
// ctx is done, Stop is called or either loop fails.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return errors.New("pipeline has been closed")
	}
	if p.started {
		return errors.New("pipeline has already been started")
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)

	p.logger.Info("starting stream",
		slog.Int("frames", p.config.Swapchain.Count()),
		slog.Int("fps", p.config.FPS),
		slog.Int("maxFrames", p.config.MaxFrames))

	p.loops.Add(2)
	go p.run(ctx, "producer", p.produce)
	go p.run(ctx, "consumer", p.consume)
	go func() {
		p.loops.Wait()
		close(p.done)
	}()

	return nil
}

func (p *Pipeline) run(ctx context.Context, name string, loop func(context.Context) error) {
	defer p.loops.Done()

	err := loop(ctx)
	if err == nil || (ctx.Err() != nil && errors.Is(err, context.Canceled)) {
		p.logger.Debug("loop finished", slog.String("loop", name))
		return
	}

	p.logger.Error("loop failed", slog.String("loop", name), slog.Any("error", err))
	p.fail(errors.Wrapf(err, "%s loop", name))
}

// fail records the first loop error and stops the other loop
func (p *Pipeline) fail(err error) {
	p.mutex.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mutex.Unlock()

	p.halt()
}

func (p *Pipeline) halt() {
	p.mutex.Lock()
	cancel := p.cancel
	p.mutex.Unlock()

	if cancel != nil {
		cancel()
	}
	p.config.Swapchain.Deactivate()
}

// Stop ends both loops and waits for them to return. Frames in flight are abandoned in whatever state
// they were in; the ring stays valid for Destroy.
func (p *Pipeline) Stop() {
	p.halt()

	p.mutex.Lock()
	started := p.started
	p.mutex.Unlock()

	if started {
		<-p.done
	}
}

// Wait blocks until both loops have returned and reports the first loop failure
func (p *Pipeline) Wait() error {
	p.mutex.Lock()
	started := p.started
	p.mutex.Unlock()

	if !started {
		return errors.New("pipeline has not been started")
	}

	<-p.done

	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.err
}

// Close stops the loops, drains the encoder into the sink, and tears down the sink, the encoder, the ring
// and the device context, in that order. Calling it again does nothing.
func (p *Pipeline) Close() error {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil
	}
	p.closed = true
	p.mutex.Unlock()

	p.Stop()

	stats := p.Statistics()
	p.logger.Info("closing stream",
		slog.Int("produced", stats.Produced),
		slog.Int("consumed", stats.Consumed),
		slog.Int("encodedBytes", stats.EncodedBytes))

	var err error
	tail, flushErr := p.config.Encoder.Flush()
	if flushErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(flushErr, "flush encoder"))
	} else if len(tail) > 0 {
		err = errors.CombineErrors(err, p.writeSample(tail, stats.Consumed))
	}

	if closeErr := p.config.Sink.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(closeErr, "close sink"))
	}
	if closeErr := p.config.Encoder.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(closeErr, "close encoder"))
	}

	deviceContext := p.config.Swapchain.DeviceContext()
	if destroyErr := p.config.Swapchain.Destroy(); destroyErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(destroyErr, "destroy ring"))
	}
	if destroyErr := deviceContext.Destroy(); destroyErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(destroyErr, "destroy device context"))
	}

	return err
}

func (p *Pipeline) frameDuration() time.Duration {
	return time.Second / time.Duration(p.config.FPS)
}

func (p *Pipeline) timestamp(n int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(p.config.FPS)
}

func (p *Pipeline) more(n int) bool {
	return p.config.MaxFrames == 0 || n < p.config.MaxFrames
}

// stopped reports whether err means the loop was asked to end rather than that it failed
func stopped(ctx context.Context, err error) bool {
	return errors.Is(err, swapchain.ErrRingInactive) || ctx.Err() != nil
}

func (p *Pipeline) produce(ctx context.Context) error {
	ring := p.config.Swapchain
	config := ring.Config()
	pixels := make([]byte, config.ByteSize())

	var ticker *time.Ticker
	if p.config.Paced {
		ticker = time.NewTicker(p.frameDuration())
		defer ticker.Stop()
	}

	for n := 0; p.more(n); n++ {
		if ticker != nil && n > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		acquisition, err := ring.AcquireImage(ctx)
		if err != nil {
			if stopped(ctx, err) {
				return nil
			}
			return err
		}

		err = p.config.Renderer.Render(ctx, ports.RenderTarget{
			Index:    acquisition.Index,
			Sequence: acquisition.Sequence,
			Width:    config.Width,
			Height:   config.Height,
			Pixels:   pixels,
		})
		if err != nil {
			return errors.Wrapf(err, "render frame %d", acquisition.Sequence)
		}

		err = ring.UploadFrame(acquisition, pixels)
		if err != nil {
			return err
		}

		err = ring.PresentImage(acquisition.Index)
		if err != nil {
			return err
		}
		p.produced.Add(1)
	}

	return nil
}

func (p *Pipeline) consume(ctx context.Context) error {
	ring := p.config.Swapchain
	config := ring.Config()
	pixels := make([]byte, config.ByteSize())

	for n := 0; p.more(n); n++ {
		acquisition, err := ring.AcquireFrame(ctx)
		if err != nil {
			if stopped(ctx, err) {
				return nil
			}
			return err
		}

		data, err := p.encode(ctx, acquisition, pixels)
		if err != nil {
			return err
		}
		p.consumed.Add(1)

		if len(data) > 0 {
			err = p.writeSample(data, acquisition.Sequence)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// encode reads and encodes one frame, then hands it back to the producer whether or not encoding worked
func (p *Pipeline) encode(ctx context.Context, acquisition swapchain.FrameAcquisition, pixels []byte) ([]byte, error) {
	ring := p.config.Swapchain
	frame := acquisition.Frame

	err := ring.BeginRead(acquisition)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = ring.ReadPixels(acquisition, pixels)
	if err == nil {
		data, err = p.config.Encoder.Encode(ctx, ports.EncodeInput{
			Array:     frame.Array(),
			Width:     frame.Width(),
			Height:    frame.Height(),
			Timestamp: p.timestamp(acquisition.Sequence),
			Pixels:    pixels,
		})
		if err != nil {
			err = errors.Wrapf(err, "encode frame %d", acquisition.Sequence)
		}
	}

	err = errors.CombineErrors(err, ring.EndRead(acquisition))
	err = errors.CombineErrors(err, ring.ReleaseFrame(acquisition.Index))
	return data, err
}

func (p *Pipeline) writeSample(data []byte, n int) error {
	err := p.config.Sink.WriteSample(ports.Sample{
		Data:      data,
		Timestamp: p.timestamp(n),
		Duration:  p.frameDuration(),
	})
	if err != nil {
		return errors.Wrapf(err, "write sample %d", n)
	}
	p.encodedBytes.Add(int64(len(data)))
	return nil
}
