package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/internal/logging"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// ErrFFmpegNotFound is returned when no ffmpeg executable can be located
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

var commonFFmpegPaths = []string{
	"/usr/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/opt/homebrew/bin/ffmpeg",
	"/snap/bin/ffmpeg",
}

// FindFFmpeg locates ffmpeg. It checks explicit, then FFMPEG_PATH, then PATH, then common install locations.
func FindFFmpeg(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(ErrFFmpegNotFound, "%s", explicit)
		}
		return explicit, nil
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", errors.Wrapf(ErrFFmpegNotFound, "FFMPEG_PATH %s", envPath)
		}
		return envPath, nil
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	for _, path := range commonFFmpegPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrFFmpegNotFound
}

const defaultCRF = 23

type H264Options struct {
	FFmpegPath string
	FPS        int
	// CRF is the libx264 constant rate factor, 0 (lossless) to 51. Nil selects 23.
	CRF *int
	// Preset defaults to ultrafast
	Preset string
}

func (o H264Options) crf() int {
	if o.CRF == nil {
		return defaultCRF
	}
	return *o.CRF
}

// H264 encodes through an ffmpeg child process running libx264 with zero latency tuning. The process
// writes an Annex B stream with access unit delimiters to stdout, which is cut into complete access units
// as frames are encoded.
type H264 struct {
	logger *slog.Logger
	width  int
	height int

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr lockedBuffer

	mutex    sync.Mutex
	pending  []byte
	readDone chan struct{}
	readErr  error
	flushed  bool
	closed   bool
}

var _ ports.Encoder = (*H264)(nil)

func NewH264(logger *slog.Logger, width, height int, options H264Options) (*H264, error) {
	logger = logging.OrDiscard(logger)
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, errors.Newf("h264 frames must have a positive even extent, got %dx%d", width, height)
	}
	if options.FPS <= 0 {
		return nil, errors.Newf("fps must be positive, got %d", options.FPS)
	}
	if crf := options.crf(); crf < 0 || crf > 51 {
		return nil, errors.Newf("crf must be within [0, 51], got %d", crf)
	}

	path, err := FindFFmpeg(options.FFmpegPath)
	if err != nil {
		return nil, err
	}

	e := &H264{
		logger:   logger,
		width:    width,
		height:   height,
		cmd:      exec.Command(path, ffmpegArgs(width, height, options)...),
		readDone: make(chan struct{}),
	}
	e.cmd.Stderr = &e.stderr

	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdin")
	}
	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdout")
	}

	err = e.cmd.Start()
	if err != nil {
		return nil, errors.Wrapf(err, "start %s", path)
	}
	logger.Debug("H264::Start", slog.String("ffmpeg", path), slog.Int("pid", e.cmd.Process.Pid))

	go e.read(stdout)
	return e, nil
}

// ffmpegArgs reads RGBA frames from stdin and writes Annex B H.264 with access unit delimiters to stdout
func ffmpegArgs(width, height int, options H264Options) []string {
	preset := options.Preset
	if preset == "" {
		preset = "ultrafast"
	}

	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%d", options.FPS),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", preset,
		"-tune", "zerolatency",
		"-crf", fmt.Sprintf("%d", options.crf()),
		"-g", fmt.Sprintf("%d", options.FPS),
		"-pix_fmt", "yuv420p",
		"-bsf:v", "h264_metadata=aud=insert",
		"-f", "h264",
		"pipe:1",
	}
}

func (e *H264) read(stdout io.Reader) {
	defer close(e.readDone)

	buffer := make([]byte, 64*1024)
	for {
		n, err := stdout.Read(buffer)
		if n > 0 {
			e.mutex.Lock()
			e.pending = append(e.pending, buffer[:n]...)
			e.mutex.Unlock()
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			e.mutex.Lock()
			e.readErr = err
			e.mutex.Unlock()
			return
		}
	}
}

// take removes every complete access unit from the pending output
func (e *H264) take() []byte {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	_, rest := SplitAccessUnits(e.pending)
	complete := len(e.pending) - len(rest)
	if complete == 0 {
		return nil
	}

	out := make([]byte, complete)
	copy(out, e.pending[:complete])
	e.pending = append(e.pending[:0], rest...)
	return out
}

func (e *H264) Encode(ctx context.Context, input ports.EncodeInput) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Width != e.width || input.Height != e.height {
		return nil, errors.Newf("%dx%d frame sent to a %dx%d encoder", input.Width, input.Height, e.width, e.height)
	}
	size := e.width * e.height * 4
	if len(input.Pixels) < size {
		return nil, errors.Newf("%d bytes of pixels for a %dx%d frame", len(input.Pixels), e.width, e.height)
	}

	e.mutex.Lock()
	flushed := e.flushed || e.closed
	e.mutex.Unlock()
	if flushed {
		return nil, errors.New("encoder has been flushed")
	}

	_, err := e.stdin.Write(input.Pixels[:size])
	if err != nil {
		return nil, errors.Wrapf(err, "write frame to ffmpeg: %s", e.stderr.String())
	}

	return e.take(), nil
}

// Flush ends the input, waits for ffmpeg to exit, and returns everything it wrote that has not been
// returned yet
func (e *H264) Flush() ([]byte, error) {
	e.mutex.Lock()
	if e.flushed || e.closed {
		e.mutex.Unlock()
		return nil, nil
	}
	e.flushed = true
	e.mutex.Unlock()

	err := e.stdin.Close()
	if err != nil {
		return nil, errors.Wrap(err, "close ffmpeg stdin")
	}
	<-e.readDone

	err = e.cmd.Wait()
	if err != nil {
		return nil, errors.Wrapf(err, "ffmpeg: %s", e.stderr.String())
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.readErr != nil {
		return nil, errors.Wrap(e.readErr, "read ffmpeg output")
	}

	out := e.pending
	e.pending = nil
	return out, nil
}

// Close stops ffmpeg. An encoder that was not flushed has its process killed and its output discarded.
func (e *H264) Close() error {
	e.mutex.Lock()
	if e.closed {
		e.mutex.Unlock()
		return nil
	}
	e.closed = true
	flushed := e.flushed
	e.mutex.Unlock()

	if flushed {
		return nil
	}

	e.logger.Debug("H264::Close killing unflushed encoder", slog.Int("pid", e.cmd.Process.Pid))
	e.stdin.Close()
	err := e.cmd.Process.Kill()
	<-e.readDone
	e.cmd.Wait()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return errors.Wrap(err, "kill ffmpeg")
}

// lockedBuffer collects ffmpeg's stderr, which is written from the exec package's copying goroutine
type lockedBuffer struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}
