package cuda

import (
	"runtime"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/vkngwrapper/vkmedia/internal/logging"
	"github.com/vkngwrapper/vkmedia/ports"
	"golang.org/x/exp/slog"
)

// Driver creates compute contexts through the CUDA driver API
type Driver struct {
	logger *slog.Logger
	lib    *library
}

var _ ports.ComputeDriver = (*Driver)(nil)

// NewDriver loads and initializes the CUDA driver. It fails when libcuda is not installed or cuInit
// reports no usable device.
func NewDriver(logger *slog.Logger) (*Driver, error) {
	logger = logging.OrDiscard(logger)

	lib, err := openLibrary()
	if err != nil {
		return nil, err
	}

	return &Driver{logger: logger, lib: lib}, nil
}

func (d *Driver) DeviceCount() (int, error) {
	var count int32
	result := d.lib.cuDeviceGetCount(unsafe.Pointer(&count))
	if result != Success {
		return 0, errors.Wrap(result, "cuDeviceGetCount")
	}
	return int(count), nil
}

// DeviceName reports the name of the device at deviceIndex
func (d *Driver) DeviceName(deviceIndex int) (string, error) {
	device, err := d.device(deviceIndex)
	if err != nil {
		return "", err
	}

	name := make([]byte, 256)
	result := d.lib.cuDeviceGetName(unsafe.Pointer(&name[0]), int32(len(name)), device)
	if result != Success {
		return "", errors.Wrap(result, "cuDeviceGetName")
	}
	return goString(&name[0]), nil
}

func (d *Driver) device(deviceIndex int) (int32, error) {
	var device int32
	result := d.lib.cuDeviceGet(unsafe.Pointer(&device), int32(deviceIndex))
	if result != Success {
		return 0, errors.Wrapf(result, "cuDeviceGet(%d)", deviceIndex)
	}
	return device, nil
}

// CreateContext creates a context on the device at deviceIndex. The context is left floating rather than
// current on the creating thread; every operation pushes it for its own duration.
func (d *Driver) CreateContext(deviceIndex int) (ports.ComputeContext, error) {
	d.logger.Debug("Driver::CreateContext", slog.Int("deviceIndex", deviceIndex))

	device, err := d.device(deviceIndex)
	if err != nil {
		return nil, err
	}

	c := &computeContext{
		logger:      d.logger,
		lib:         d.lib,
		deviceIndex: deviceIndex,
		live:        swiss.NewMap[uintptr, string](8),
	}

	var deviceUUID uuid.UUID
	result := d.lib.cuDeviceGetUuid(unsafe.Pointer(&deviceUUID[0]), device)
	if result == Success {
		c.deviceUUID = deviceUUID
		c.hasUUID = true
	} else {
		d.logger.Warn("could not query cuda device uuid", slog.Int("deviceIndex", deviceIndex), slog.String("result", result.String()))
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	result = d.lib.cuCtxCreate(unsafe.Pointer(&c.handle), 0, device)
	if result != Success {
		return nil, errors.Wrapf(result, "cuCtxCreate on device %d", deviceIndex)
	}

	var popped uintptr
	result = d.lib.cuCtxPopCurrent(unsafe.Pointer(&popped))
	if result != Success {
		d.lib.cuCtxDestroy(c.handle)
		return nil, errors.Wrap(result, "cuCtxPopCurrent")
	}

	return c, nil
}
