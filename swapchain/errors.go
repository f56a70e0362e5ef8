package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Error categories. Every error returned from this package that is not a plain argument error carries
// exactly one of these marks, retrievable with Category.
var (
	// ErrConfiguration marks fatal errors caused by the requested configuration. They are never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrResourceExhaustion marks allocation, export and import failures caused by OS or driver limits.
	// The caller may retry with a smaller frame count.
	ErrResourceExhaustion = errors.New("resource exhaustion")
	// ErrSynchronizationTimeout marks an acquisition that blocked past its deadline. The caller may
	// retry or cancel.
	ErrSynchronizationTimeout = errors.New("synchronization timeout")
	// ErrDriverCapabilityMissing marks a driver that lacks a required entry point. It is not retryable.
	ErrDriverCapabilityMissing = errors.New("driver capability missing")
)

var (
	ErrGraphicsInitFailed     = errors.New("graphics initialization failed")
	ErrInvalidDeviceIndex     = errors.New("invalid device index")
	ErrUnsupportedFormat      = errors.New("unsupported pixel format")
	ErrInvalidExtent          = errors.New("invalid extent")
	ErrSizeMismatch           = errors.New("size mismatch between graphics and compute domains")
	ErrNoGraphicsQueue        = errors.New("no graphics queue family")
	ErrComputeInitFailed      = errors.New("compute context initialization failed")
	ErrNoCompatibleMemoryType = errors.New("no compatible memory type")
	ErrAllocationFailed       = errors.New("allocation failed")
	ErrExportFailed           = errors.New("export failed")
	ErrImportFailed           = errors.New("import failed")
	ErrExportUnsupported      = errors.New("export unsupported")

	// ErrRingInactive is returned from acquisitions on a ring that has been deactivated or destroyed
	ErrRingInactive = errors.New("ring is inactive")
	// ErrContextInUse is returned from DeviceContext.Destroy while a Swapchain still holds objects on it
	ErrContextInUse = errors.New("device context is in use")
	// ErrInvalidFrameState is returned when a frame is presented or released by a domain that does not hold it
	ErrInvalidFrameState = errors.New("invalid frame state")
)

var categories = map[error]error{
	ErrGraphicsInitFailed:     ErrDriverCapabilityMissing,
	ErrInvalidDeviceIndex:     ErrConfiguration,
	ErrUnsupportedFormat:      ErrConfiguration,
	ErrInvalidExtent:          ErrConfiguration,
	ErrSizeMismatch:           ErrConfiguration,
	ErrNoGraphicsQueue:        ErrConfiguration,
	ErrComputeInitFailed:      ErrConfiguration,
	ErrNoCompatibleMemoryType: ErrConfiguration,
	ErrAllocationFailed:       ErrResourceExhaustion,
	ErrExportFailed:           ErrResourceExhaustion,
	ErrImportFailed:           ErrResourceExhaustion,
	ErrExportUnsupported:      ErrDriverCapabilityMissing,
}

var categoryList = []error{
	ErrConfiguration,
	ErrResourceExhaustion,
	ErrSynchronizationTimeout,
	ErrDriverCapabilityMissing,
}

// newError builds an error that matches kind, kind's category and, when present, cause under errors.Is
func newError(kind error, cause error, format string, args ...interface{}) error {
	var err error
	if cause != nil {
		err = errors.Wrapf(cause, format, args...)
		err = errors.Wrap(err, kind.Error())
		err = errors.Mark(err, kind)
	} else {
		err = errors.Wrapf(kind, format, args...)
	}

	if category := categorize(kind, cause); category != nil {
		err = errors.Mark(err, category)
	}
	return err
}

// outOfMemoryErrors are driver causes that mean the system ran short, whatever step failed
var outOfMemoryErrors = []error{
	core1_0.VKErrorOutOfHostMemory.ToError(),
	core1_0.VKErrorOutOfDeviceMemory.ToError(),
}

func categorize(kind error, cause error) error {
	if cause != nil {
		for _, outOfMemory := range outOfMemoryErrors {
			if errors.Is(cause, outOfMemory) {
				return ErrResourceExhaustion
			}
		}
	}
	return categories[kind]
}

// Category returns the category sentinel an error belongs to, or nil if it carries none
func Category(err error) error {
	for _, category := range categoryList {
		if errors.Is(err, category) {
			return category
		}
	}
	return nil
}

// IsRetryable reports whether the failure may succeed on a later attempt
func IsRetryable(err error) bool {
	category := Category(err)
	return category == ErrResourceExhaustion || category == ErrSynchronizationTimeout
}
