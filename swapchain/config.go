package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/vkmedia/memutils"
	"github.com/vkngwrapper/vkmedia/ports"
)

// PixelFormat is the frame layout shared by both domains
type PixelFormat int

const (
	// FormatRGBA8 is interleaved 8-bit RGBA, tightly packed
	FormatRGBA8 PixelFormat = iota + 1
)

// maxFrameCount bounds the ring size
const maxFrameCount = 64

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "Unknown"
	}
}

// BytesPerPixel is the size of one pixel in both domains
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// GraphicsFormat is the image format used on the graphics side
func (f PixelFormat) GraphicsFormat() core1_0.Format {
	switch f {
	case FormatRGBA8:
		return core1_0.FormatR8G8B8A8UnsignedNormalized
	default:
		return core1_0.FormatUndefined
	}
}

// ArrayDescriptor is the compute-side array layout matching an extent in this format
func (f PixelFormat) ArrayDescriptor(width, height int) ports.ArrayDescriptor {
	return ports.ArrayDescriptor{
		Width:       width,
		Height:      height,
		Format:      ports.ArrayFormatUnsignedInt8,
		NumChannels: f.BytesPerPixel(),
	}
}

// ParsePixelFormat maps a configuration string to a PixelFormat
func ParsePixelFormat(name string) (PixelFormat, error) {
	switch name {
	case "RGBA8", "rgba8", "rgba", "":
		return FormatRGBA8, nil
	}
	return 0, newError(ErrUnsupportedFormat, nil, "pixel format %q", name)
}

// Config is the creation configuration of a frame ring
type Config struct {
	Width       int
	Height      int
	Format      PixelFormat
	FrameCount  int
	DeviceIndex int
}

// ByteSize is the size of one tightly packed frame
func (c Config) ByteSize() int {
	return memutils.ImageByteSize(c.Width, c.Height, c.Format.BytesPerPixel())
}

// Validate checks the configuration before any GPU object is created
func (c Config) Validate() error {
	if c.Format != FormatRGBA8 {
		return newError(ErrUnsupportedFormat, nil, "pixel format %s", c.Format)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return newError(ErrInvalidExtent, nil, "extent %dx%d", c.Width, c.Height)
	}
	if err := memutils.CheckRange(c.FrameCount, 1, maxFrameCount, "frame count"); err != nil {
		return errors.Mark(err, ErrConfiguration)
	}
	if c.DeviceIndex < 0 {
		return newError(ErrInvalidDeviceIndex, nil, "device index %d", c.DeviceIndex)
	}
	return nil
}
