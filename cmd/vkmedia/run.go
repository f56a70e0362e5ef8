package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"github.com/vkngwrapper/vkmedia/config"
	"github.com/vkngwrapper/vkmedia/encode"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/render"
	"github.com/vkngwrapper/vkmedia/sink"
	"github.com/vkngwrapper/vkmedia/stream"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "stream a test pattern through the frame ring into an output file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "vulkan (Vulkan and CUDA drivers) or sim (host simulation)"},
			&cli.IntFlag{Name: "device", Usage: "device index shared by both domains"},
			&cli.IntFlag{Name: "width", Usage: "frame width in pixels"},
			&cli.IntFlag{Name: "height", Usage: "frame height in pixels"},
			&cli.IntFlag{Name: "frame-count", Usage: "number of frames in the ring"},
			&cli.IntFlag{Name: "fps", Usage: "frame rate of the output"},
			&cli.IntFlag{Name: "frames", Usage: "frames to stream, 0 streams until interrupted"},
			&cli.StringFlag{Name: "encoder", Usage: "h264 or raw"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, .mp4 for a muxed h264 stream"},
			&cli.DurationFlag{Name: "acquire-timeout", Usage: "longest time either loop waits for a frame"},
			&cli.BoolFlag{Name: "paced", Usage: "render at the output frame rate instead of as fast as possible"},
			&cli.BoolFlag{Name: "validation", Usage: "enable the Vulkan validation layer"},
			&cli.BoolFlag{Name: "stats", Usage: "print ring statistics as JSON when the stream ends"},
		},
		Action: run,
	}
}

// applyRunFlags overrides configuration values with every flag given on the command line
func applyRunFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("device") {
		cfg.DeviceIndex = c.Int("device")
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("frame-count") {
		cfg.FrameCount = c.Int("frame-count")
	}
	if c.IsSet("fps") {
		cfg.FPS = c.Int("fps")
	}
	if c.IsSet("frames") {
		cfg.Frames = c.Int("frames")
	}
	if c.IsSet("encoder") {
		cfg.Encoder = c.String("encoder")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("acquire-timeout") {
		cfg.AcquireTimeout = c.Duration("acquire-timeout")
	}
	if c.IsSet("paced") {
		cfg.Paced = c.Bool("paced")
	}
	if c.IsSet("validation") {
		cfg.ValidationLayers = c.Bool("validation")
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyRunFlags(c, &cfg)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger, err := newLogger(c.App.ErrWriter, cfg)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(logger, cfg)
	if err != nil {
		return err
	}
	ring := pipeline.Swapchain()

	err = pipeline.Start(c.Context)
	if err != nil {
		return errors.CombineErrors(err, pipeline.Close())
	}

	streamErr := pipeline.Wait()
	if streamErr != nil {
		logger.Error("stream failed",
			slog.Any("error", streamErr),
			slog.Any("category", swapchain.Category(streamErr)),
			slog.Bool("retryable", swapchain.IsRetryable(streamErr)))
	}

	var statsJSON string
	if c.Bool("stats") {
		statsJSON = ring.BuildStatsString(true)
	}

	closeErr := pipeline.Close()
	stats := pipeline.Statistics()
	logger.Info("stream finished",
		slog.String("output", cfg.Output),
		slog.Int("frames", stats.Consumed),
		slog.Int("bytes", stats.EncodedBytes))

	if statsJSON != "" {
		fmt.Fprintln(c.App.Writer, statsJSON)
	}
	return errors.CombineErrors(streamErr, closeErr)
}

// buildPipeline creates everything a stream needs. Whatever was created before a failure is torn down
// again before returning.
func buildPipeline(logger *slog.Logger, cfg config.Config) (_ *stream.Pipeline, err error) {
	drivers, err := openBackend(logger, cfg)
	if err != nil {
		return nil, err
	}

	dc, err := swapchain.NewDeviceContext(logger, drivers.graphics, drivers.compute, cfg.DeviceIndex, cfg.CreateOptions())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			dc.Destroy()
		}
	}()

	ringConfig, err := cfg.SwapchainConfig()
	if err != nil {
		return nil, err
	}
	ring, err := swapchain.New(logger, dc, ringConfig, cfg.CreateOptions())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			ring.Destroy()
		}
	}()

	encodeOptions := cfg.EncodeOptions()
	encodeOptions.Compute = dc.Compute()
	encoder, err := encode.New(logger, cfg.Encoder, encodeOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			encoder.Close()
		}
	}()

	var output ports.Sink
	output, err = sink.New(cfg.Output, sink.MP4Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		return nil, err
	}

	pipeline, err := stream.New(logger, stream.Config{
		Swapchain: ring,
		Renderer:  render.NewPattern(render.PatternOptions{}),
		Encoder:   encoder,
		Sink:      output,
		FPS:       cfg.FPS,
		MaxFrames: cfg.Frames,
		Paced:     cfg.Paced,
	})
	if err != nil {
		output.Close()
		return nil, err
	}
	return pipeline, nil
}
