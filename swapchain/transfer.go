package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/ports"
)

// UploadFrame writes pixels into an acquired image on the graphics queue. The submission waits on and
// signals the acquisition's semaphores, so the consumer can read the frame once it is presented.
func (s *Swapchain) UploadFrame(acquisition ImageAcquisition, pixels []byte) error {
	frame := acquisition.Frame
	if len(pixels) != frame.byteSize {
		return newError(ErrSizeMismatch, nil, "upload of %d bytes into frame %d of %d bytes", len(pixels), frame.index, frame.byteSize)
	}

	err := s.context.device.UploadImage(ports.UploadInfo{
		Image:  frame.image,
		Width:  frame.width,
		Height: frame.height,
		Pixels: pixels,
		Wait:   acquisition.Wait,
		Signal: acquisition.Signal,
	})
	return errors.Wrapf(err, "upload frame %d", frame.index)
}

// BeginRead waits on the acquisition's wait semaphore in the compute runtime. Reads of the frame's
// array are ordered after the producer's write once it returns.
func (s *Swapchain) BeginRead(acquisition FrameAcquisition) error {
	return errors.Wrapf(s.context.compute.WaitSemaphore(acquisition.Wait), "wait for frame %d", acquisition.Index)
}

// ReadPixels copies an acquired frame into dst through its mapped array
func (s *Swapchain) ReadPixels(acquisition FrameAcquisition, dst []byte) error {
	frame := acquisition.Frame
	if len(dst) < frame.byteSize {
		return newError(ErrSizeMismatch, nil, "read of frame %d into %d bytes, frame is %d bytes", frame.index, len(dst), frame.byteSize)
	}

	rowBytes := frame.width * frame.format.BytesPerPixel()
	err := s.context.compute.CopyArrayToHost(frame.array, dst[:frame.byteSize], rowBytes, frame.height)
	return errors.Wrapf(err, "read frame %d", frame.index)
}

// EndRead signals the acquisition's signal semaphore, allowing the producer's next write to the frame
func (s *Swapchain) EndRead(acquisition FrameAcquisition) error {
	return errors.Wrapf(s.context.compute.SignalSemaphore(acquisition.Signal), "signal frame %d", acquisition.Index)
}

// DownloadFrame reads an acquired frame into dst, honoring both of the acquisition's semaphores
func (s *Swapchain) DownloadFrame(acquisition FrameAcquisition, dst []byte) error {
	err := s.BeginRead(acquisition)
	if err != nil {
		return err
	}

	readErr := s.ReadPixels(acquisition, dst)
	return errors.CombineErrors(readErr, s.EndRead(acquisition))
}
