package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=pipeline.go -destination=../mocks/pipeline.go -package=mocks

// RenderTarget is the pixel buffer of one acquired frame
type RenderTarget struct {
	Index    int
	Sequence int
	Width    int
	Height   int
	// Pixels is a tightly packed RGBA buffer of Width*Height*4 bytes
	Pixels []byte
}

// Renderer fills the pixels of an acquired frame
type Renderer interface {
	Render(ctx context.Context, target RenderTarget) error
}

// EncodeInput is one frame handed to an Encoder
type EncodeInput struct {
	Array     MappedArray
	Width     int
	Height    int
	Timestamp time.Duration
	// Pixels holds the frame contents read back through Array, for encoders that work on host memory
	Pixels []byte
}

// Encoder turns frames into a compressed bitstream
type Encoder interface {
	// Encode returns whatever encoded output became available for this frame. It may be empty.
	Encode(ctx context.Context, input EncodeInput) ([]byte, error)
	// Flush returns any output still buffered at end of stream
	Flush() ([]byte, error)
	Close() error
}

// Sample is one unit of encoder output
type Sample struct {
	Data      []byte
	Timestamp time.Duration
	Duration  time.Duration
}

// Sink receives encoder output
type Sink interface {
	WriteSample(sample Sample) error
	Close() error
}
