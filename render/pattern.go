// Package render draws frames on the host for the producer loop to upload.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fogleman/gg"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/image/font/basicfont"
)

// DefaultPalette is cycled through one colour per frame
var DefaultPalette = []color.RGBA{
	{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
	{R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	{R: 0x29, G: 0x80, B: 0xb9, A: 0xff},
	{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
}

const barWidth = 4

type PatternOptions struct {
	// Palette defaults to DefaultPalette
	Palette []color.RGBA
	// NoLabel leaves out the frame counter
	NoLabel bool
}

// Pattern is a test pattern: a solid background that changes colour every frame, a vertical bar that
// moves across the frame, and the frame counter in the middle
type Pattern struct {
	palette []color.RGBA
	label   bool

	mutex  sync.Mutex
	canvas *gg.Context
}

var _ ports.Renderer = (*Pattern)(nil)

func NewPattern(options PatternOptions) *Pattern {
	palette := options.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Pattern{palette: palette, label: !options.NoLabel}
}

// Background is the colour a frame at sequence is cleared to
func (p *Pattern) Background(sequence int) color.RGBA {
	return p.palette[sequence%len(p.palette)]
}

// BarOffset is the x coordinate of the bar's left edge in a frame of the given width
func BarOffset(sequence, width int) int {
	return (sequence * barWidth) % width
}

func (p *Pattern) Render(ctx context.Context, target ports.RenderTarget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if target.Width <= 0 || target.Height <= 0 {
		return errors.Newf("cannot render a %dx%d frame", target.Width, target.Height)
	}
	if len(target.Pixels) != target.Width*target.Height*4 {
		return errors.Newf("%d byte buffer cannot hold a %dx%d frame", len(target.Pixels), target.Width, target.Height)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	dc := p.canvasFor(target.Width, target.Height)
	background := p.Background(target.Sequence)

	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(inverse(background))
	dc.DrawRectangle(float64(BarOffset(target.Sequence, target.Width)), 0, barWidth, float64(target.Height))
	dc.Fill()

	if p.label {
		dc.SetFontFace(basicfont.Face7x13)
		dc.DrawStringAnchored(fmt.Sprintf("%06d", target.Sequence), float64(target.Width)/2, float64(target.Height)/2, 0.5, 0.5)
	}

	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return errors.Newf("canvas image is %T, not RGBA", dc.Image())
	}
	copy(target.Pixels, rgba.Pix)
	return nil
}

func (p *Pattern) canvasFor(width, height int) *gg.Context {
	if p.canvas == nil || p.canvas.Width() != width || p.canvas.Height() != height {
		p.canvas = gg.NewContext(width, height)
	}
	return p.canvas
}

func inverse(c color.RGBA) color.RGBA {
	return color.RGBA{R: 0xff - c.R, G: 0xff - c.G, B: 0xff - c.B, A: 0xff}
}
