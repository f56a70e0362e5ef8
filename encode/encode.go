// Package encode turns frames read from the compute side of a ring into an output bitstream.
package encode

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

const (
	NameRaw  = "raw"
	NameH264 = "h264"
)

// ErrUnknownEncoder is returned from New for a name it does not recognise
var ErrUnknownEncoder = errors.New("unknown encoder")

// Options configures an encoder created by New
type Options struct {
	Width  int
	Height int
	FPS    int
	// Compute is used by the raw encoder when a frame arrives without host pixels
	Compute ports.ComputeContext
	H264    H264Options
}

// New creates the encoder registered under name
func New(logger *slog.Logger, name string, options Options) (ports.Encoder, error) {
	switch strings.ToLower(name) {
	case NameRaw:
		return NewRaw(options.Compute), nil
	case NameH264:
		h264Options := options.H264
		if h264Options.FPS == 0 {
			h264Options.FPS = options.FPS
		}
		return NewH264(logger, options.Width, options.Height, h264Options)
	default:
		return nil, errors.Wrapf(ErrUnknownEncoder, "%q", name)
	}
}

// Raw passes RGBA frames through untouched
type Raw struct {
	compute ports.ComputeContext
}

var _ ports.Encoder = (*Raw)(nil)

// NewRaw creates a raw encoder. compute may be nil when every frame carries its pixels.
func NewRaw(compute ports.ComputeContext) *Raw {
	return &Raw{compute: compute}
}

func (r *Raw) Encode(ctx context.Context, input ports.EncodeInput) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := input.Width * input.Height * 4
	if size <= 0 {
		return nil, errors.Newf("cannot encode a %dx%d frame", input.Width, input.Height)
	}

	out := make([]byte, size)
	if len(input.Pixels) > 0 {
		if len(input.Pixels) < size {
			return nil, errors.Newf("%d bytes of pixels for a %dx%d frame", len(input.Pixels), input.Width, input.Height)
		}
		copy(out, input.Pixels)
		return out, nil
	}

	if r.compute == nil || input.Array == nil {
		return nil, errors.New("frame has no pixels and no array to read them from")
	}
	err := r.compute.CopyArrayToHost(input.Array, out, input.Width*4, input.Height)
	if err != nil {
		return nil, errors.Wrap(err, "read frame array")
	}
	return out, nil
}

func (r *Raw) Flush() ([]byte, error) {
	return nil, nil
}

func (r *Raw) Close() error {
	return nil
}
