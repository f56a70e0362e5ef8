// Package config loads the settings for a streaming run.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/encode"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

const (
	BackendSim    = "sim"
	BackendVulkan = "vulkan"

	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ErrInvalid marks every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration for a run
type Config struct {
	// Device
	Backend          string `yaml:"backend"`
	DeviceIndex      int    `yaml:"device_index"`
	ValidationLayers bool   `yaml:"validation_layers"`

	// Ring
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Format         string        `yaml:"format"`
	FrameCount     int           `yaml:"frame_count"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	SkipUUIDCheck  bool          `yaml:"skip_uuid_check"`

	// Stream
	FPS    int  `yaml:"fps"`
	Frames int  `yaml:"frames"`
	Paced  bool `yaml:"paced"`

	// Encoding
	Encoder    string `yaml:"encoder"`
	CRF        int    `yaml:"crf"`
	Preset     string `yaml:"preset"`
	FFmpegPath string `yaml:"ffmpeg_path"`
	Output     string `yaml:"output"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns a Config with default values
func Defaults() Config {
	return Config{
		Backend:     BackendVulkan,
		DeviceIndex: 0,

		Width:          1280,
		Height:         720,
		Format:         swapchain.FormatRGBA8.String(),
		FrameCount:     3,
		AcquireTimeout: 2 * time.Second,

		FPS:    30,
		Frames: 300,

		Encoder: encode.NameH264,
		CRF:     23,
		Preset:  "ultrafast",
		Output:  "out.mp4",

		LogLevel:  "info",
		LogFormat: LogFormatAuto,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	err = Parse(data, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over cfg. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalid)
}

// Validate checks every setting a run depends on
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendVulkan:
	default:
		return invalid("backend must be %q or %q, got %q", BackendSim, BackendVulkan, c.Backend)
	}
	if c.DeviceIndex < 0 {
		return invalid("device_index must not be negative, got %d", c.DeviceIndex)
	}

	_, err := c.SwapchainConfig()
	if err != nil {
		return errors.Mark(err, ErrInvalid)
	}
	if c.AcquireTimeout < 0 {
		return invalid("acquire_timeout must not be negative, got %s", c.AcquireTimeout)
	}

	if c.FPS <= 0 {
		return invalid("fps must be positive, got %d", c.FPS)
	}
	if c.Frames < 0 {
		return invalid("frames must not be negative, got %d", c.Frames)
	}

	switch strings.ToLower(c.Encoder) {
	case encode.NameRaw:
		if strings.EqualFold(filepath.Ext(c.Output), ".mp4") {
			return invalid("raw frames cannot be muxed into %s, use the h264 encoder", c.Output)
		}
	case encode.NameH264:
		if c.Width%2 != 0 || c.Height%2 != 0 {
			return invalid("h264 needs an even width and height, got %dx%d", c.Width, c.Height)
		}
		if c.CRF < 0 || c.CRF > 51 {
			return invalid("crf must be within [0, 51], got %d", c.CRF)
		}
	default:
		return invalid("encoder must be %q or %q, got %q", encode.NameRaw, encode.NameH264, c.Encoder)
	}
	if c.Output == "" {
		return invalid("output must be set")
	}

	_, err = c.Level()
	if err != nil {
		return errors.Mark(err, ErrInvalid)
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		return invalid("log_format must be %q, %q or %q, got %q", LogFormatAuto, LogFormatText, LogFormatJSON, c.LogFormat)
	}

	return nil
}

// SwapchainConfig is the ring configuration these settings describe
func (c Config) SwapchainConfig() (swapchain.Config, error) {
	format, err := swapchain.ParsePixelFormat(c.Format)
	if err != nil {
		return swapchain.Config{}, err
	}

	config := swapchain.Config{
		Width:       c.Width,
		Height:      c.Height,
		Format:      format,
		FrameCount:  c.FrameCount,
		DeviceIndex: c.DeviceIndex,
	}
	return config, config.Validate()
}

func (c Config) CreateOptions() swapchain.CreateOptions {
	options := swapchain.CreateOptions{AcquireTimeout: c.AcquireTimeout}
	if c.SkipUUIDCheck {
		options.Flags |= swapchain.CreateSkipDeviceUUIDCheck
	}
	return options
}

func (c Config) EncodeOptions() encode.Options {
	crf := c.CRF
	return encode.Options{
		Width:  c.Width,
		Height: c.Height,
		FPS:    c.FPS,
		H264: encode.H264Options{
			FFmpegPath: c.FFmpegPath,
			FPS:        c.FPS,
			CRF:        &crf,
			Preset:     c.Preset,
		},
	}
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}
