// Package sink writes encoder output to its destination.
package sink

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/ports"
)

// File appends every sample to a file, byte for byte. Raw RGBA frames and Annex B H.264 both play back
// from such a file with the right demuxer options.
type File struct {
	mutex  sync.Mutex
	file   *os.File
	writer *bufio.Writer
	closed bool
}

var _ ports.Sink = (*File)(nil)

func NewFile(path string) (*File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return &File{file: file, writer: bufio.NewWriter(file)}, nil
}

func (f *File) WriteSample(sample ports.Sample) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return errors.New("sink has been closed")
	}
	_, err := f.writer.Write(sample.Data)
	return errors.Wrapf(err, "write to %s", f.file.Name())
}

func (f *File) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	err := f.writer.Flush()
	return errors.CombineErrors(err, f.file.Close())
}

// New picks a sink for path: MP4 for a .mp4 file, a plain file otherwise
func New(path string, options MP4Options) (ports.Sink, error) {
	if strings.EqualFold(filepath.Ext(path), ".mp4") {
		return NewMP4(path, options)
	}
	return NewFile(path)
}
