// Package cuda implements the compute domain over the CUDA driver API. libcuda is loaded at runtime, so
// the package builds without cgo or the CUDA toolkit and reports a missing driver as an error from
// NewDriver.
package cuda

import (
	"fmt"
)

// Result is a CUresult. Every value other than Success is an error.
type Result int32

const (
	Success              Result = 0
	ErrorInvalidValue    Result = 1
	ErrorOutOfMemory     Result = 2
	ErrorNotInitialized  Result = 3
	ErrorDeinitialized   Result = 4
	ErrorNoDevice        Result = 100
	ErrorInvalidDevice   Result = 101
	ErrorInvalidContext  Result = 201
	ErrorInvalidHandle   Result = 400
	ErrorNotSupported    Result = 801
	ErrorOperatingSystem Result = 304
	ErrorUnknown         Result = 999
	ErrorExternalDevice  Result = 911
)

var resultNames = map[Result]string{
	Success:              "CUDA_SUCCESS",
	ErrorInvalidValue:    "CUDA_ERROR_INVALID_VALUE",
	ErrorOutOfMemory:     "CUDA_ERROR_OUT_OF_MEMORY",
	ErrorNotInitialized:  "CUDA_ERROR_NOT_INITIALIZED",
	ErrorDeinitialized:   "CUDA_ERROR_DEINITIALIZED",
	ErrorNoDevice:        "CUDA_ERROR_NO_DEVICE",
	ErrorInvalidDevice:   "CUDA_ERROR_INVALID_DEVICE",
	ErrorInvalidContext:  "CUDA_ERROR_INVALID_CONTEXT",
	ErrorInvalidHandle:   "CUDA_ERROR_INVALID_HANDLE",
	ErrorNotSupported:    "CUDA_ERROR_NOT_SUPPORTED",
	ErrorOperatingSystem: "CUDA_ERROR_OPERATING_SYSTEM",
	ErrorUnknown:         "CUDA_ERROR_UNKNOWN",
	ErrorExternalDevice:  "CUDA_ERROR_EXTERNAL_DEVICE",
}

// errorName asks the driver for the name of a result it knows and we don't. It is replaced once the
// library is loaded.
var errorName = func(Result) (string, bool) { return "", false }

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	if name, ok := errorName(r); ok {
		return name
	}
	return fmt.Sprintf("CUresult(%d)", int32(r))
}

func (r Result) Error() string {
	return r.String()
}

// ToError returns nil for Success and the Result itself otherwise
func (r Result) ToError() error {
	if r == Success {
		return nil
	}
	return r
}
