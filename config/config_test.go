package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/vkmedia/swapchain"
	"golang.org/x/exp/slog"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	ring, err := cfg.SwapchainConfig()
	require.NoError(t, err)
	require.Equal(t, swapchain.Config{Width: 1280, Height: 720, Format: swapchain.FormatRGBA8, FrameCount: 3}, ring)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vkmedia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: sim
device_index: 1
width: 640
height: 480
frame_count: 4
acquire_timeout: 250ms
skip_uuid_check: true
encoder: raw
output: frames.rgba
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, BackendSim, cfg.Backend)
	require.Equal(t, 1, cfg.DeviceIndex)
	require.Equal(t, 640, cfg.Width)
	require.Equal(t, 480, cfg.Height)
	require.Equal(t, 4, cfg.FrameCount)
	require.Equal(t, 250*time.Millisecond, cfg.AcquireTimeout)
	require.Equal(t, "raw", cfg.Encoder)
	require.Equal(t, "frames.rgba", cfg.Output)

	// Keys absent from the file keep their defaults
	require.Equal(t, 30, cfg.FPS)
	require.Equal(t, 300, cfg.Frames)

	options := cfg.CreateOptions()
	require.Equal(t, 250*time.Millisecond, options.AcquireTimeout)
	require.Equal(t, swapchain.CreateSkipDeviceUUIDCheck, options.Flags)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	encodeOptions := cfg.EncodeOptions()
	require.Equal(t, 640, encodeOptions.Width)
	require.Equal(t, 30, encodeOptions.H264.FPS)
	require.NotNil(t, encodeOptions.H264.CRF)
	require.Equal(t, 23, *encodeOptions.H264.CRF)
}

func TestLosslessCRFIsKept(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Parse([]byte("crf: 0\n"), &cfg))
	require.NoError(t, cfg.Validate())

	options := cfg.EncodeOptions()
	require.NotNil(t, options.H264.CRF)
	require.Zero(t, *options.H264.CRF)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("widht: 640\n"), 0o644))
	_, err = Load(unknown)
	require.Error(t, err)

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("width: [640\n"), 0o644))
	_, err = Load(malformed)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	cfg, err := Load(empty)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestValidate(t *testing.T) {
	testCases := map[string]struct {
		Modify   func(cfg *Config)
		Category error
	}{
		"UnknownBackend":    {Modify: func(cfg *Config) { cfg.Backend = "metal" }},
		"NegativeDevice":    {Modify: func(cfg *Config) { cfg.DeviceIndex = -1 }},
		"ZeroWidth":         {Modify: func(cfg *Config) { cfg.Width = 0 }, Category: swapchain.ErrConfiguration},
		"UnknownFormat":     {Modify: func(cfg *Config) { cfg.Format = "NV12" }, Category: swapchain.ErrConfiguration},
		"ZeroFrames":        {Modify: func(cfg *Config) { cfg.FrameCount = 0 }, Category: swapchain.ErrConfiguration},
		"TooManyFrames":     {Modify: func(cfg *Config) { cfg.FrameCount = 65 }, Category: swapchain.ErrConfiguration},
		"NegativeTimeout":   {Modify: func(cfg *Config) { cfg.AcquireTimeout = -time.Second }},
		"ZeroFPS":           {Modify: func(cfg *Config) { cfg.FPS = 0 }},
		"NegativeFrames":    {Modify: func(cfg *Config) { cfg.Frames = -1 }},
		"UnknownEncoder":    {Modify: func(cfg *Config) { cfg.Encoder = "vp9" }},
		"OddH264Extent":     {Modify: func(cfg *Config) { cfg.Width = 641 }},
		"CRFOutOfRange":     {Modify: func(cfg *Config) { cfg.CRF = 52 }},
		"NoOutput":          {Modify: func(cfg *Config) { cfg.Output = "" }},
		"UnknownLogLevel":   {Modify: func(cfg *Config) { cfg.LogLevel = "chatty" }},
		"UnknownLogFormat":  {Modify: func(cfg *Config) { cfg.LogFormat = "xml" }},
		"RawIntoMP4":        {Modify: func(cfg *Config) { cfg.Encoder = "raw" }},
		"OddRawExtentValid": {Modify: func(cfg *Config) { cfg.Encoder = "raw"; cfg.Output = "out.rgba"; cfg.Width = 641 }},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			cfg := Defaults()
			testCase.Modify(&cfg)

			err := cfg.Validate()
			if testName == "OddRawExtentValid" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalid))
			if testCase.Category != nil {
				require.Equal(t, testCase.Category, swapchain.Category(err))
			}
		})
	}
}
