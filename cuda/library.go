package cuda

import "unsafe"

// library holds the driver entry points the compute adapter uses. Handles are passed as uintptr and
// out-parameters as unsafe.Pointer.
type library struct {
	cuInit           func(flags uint32) Result
	cuDeviceGetCount func(count unsafe.Pointer) Result
	cuDeviceGet      func(device unsafe.Pointer, ordinal int32) Result
	cuDeviceGetName  func(name unsafe.Pointer, length int32, device int32) Result
	cuDeviceGetUuid  func(uuid unsafe.Pointer, device int32) Result
	cuGetErrorName   func(result Result, name unsafe.Pointer) Result

	cuCtxCreate      func(ctx unsafe.Pointer, flags uint32, device int32) Result
	cuCtxDestroy     func(ctx uintptr) Result
	cuCtxPushCurrent func(ctx uintptr) Result
	cuCtxPopCurrent  func(ctx unsafe.Pointer) Result
	cuCtxSynchronize func() Result

	cuImportExternalMemory                  func(extMem unsafe.Pointer, desc unsafe.Pointer) Result
	cuExternalMemoryGetMappedMipmappedArray func(mipmap unsafe.Pointer, extMem uintptr, desc unsafe.Pointer) Result
	cuMipmappedArrayGetLevel                func(array unsafe.Pointer, mipmap uintptr, level uint32) Result
	cuMipmappedArrayDestroy                 func(mipmap uintptr) Result
	cuArray3DGetDescriptor                  func(desc unsafe.Pointer, array uintptr) Result
	cuDestroyExternalMemory                 func(extMem uintptr) Result

	cuImportExternalSemaphore       func(extSem unsafe.Pointer, desc unsafe.Pointer) Result
	cuDestroyExternalSemaphore      func(extSem uintptr) Result
	cuSignalExternalSemaphoresAsync func(extSems unsafe.Pointer, params unsafe.Pointer, count uint32, stream uintptr) Result
	cuWaitExternalSemaphoresAsync   func(extSems unsafe.Pointer, params unsafe.Pointer, count uint32, stream uintptr) Result

	cuMemcpy2D func(copy unsafe.Pointer) Result
}

// symbols maps each entry point to its exported name. The _v2 names are the ones the current ABI exports
// under the unversioned API names.
func (l *library) symbols() map[string]any {
	return map[string]any{
		"cuInit":           &l.cuInit,
		"cuDeviceGetCount": &l.cuDeviceGetCount,
		"cuDeviceGet":      &l.cuDeviceGet,
		"cuDeviceGetName":  &l.cuDeviceGetName,
		"cuDeviceGetUuid":  &l.cuDeviceGetUuid,
		"cuGetErrorName":   &l.cuGetErrorName,

		"cuCtxCreate_v2":      &l.cuCtxCreate,
		"cuCtxDestroy_v2":     &l.cuCtxDestroy,
		"cuCtxPushCurrent_v2": &l.cuCtxPushCurrent,
		"cuCtxPopCurrent_v2":  &l.cuCtxPopCurrent,
		"cuCtxSynchronize":    &l.cuCtxSynchronize,

		"cuImportExternalMemory":                  &l.cuImportExternalMemory,
		"cuExternalMemoryGetMappedMipmappedArray": &l.cuExternalMemoryGetMappedMipmappedArray,
		"cuMipmappedArrayGetLevel":                &l.cuMipmappedArrayGetLevel,
		"cuMipmappedArrayDestroy":                 &l.cuMipmappedArrayDestroy,
		"cuArray3DGetDescriptor_v2":               &l.cuArray3DGetDescriptor,
		"cuDestroyExternalMemory":                 &l.cuDestroyExternalMemory,

		"cuImportExternalSemaphore":       &l.cuImportExternalSemaphore,
		"cuDestroyExternalSemaphore":      &l.cuDestroyExternalSemaphore,
		"cuSignalExternalSemaphoresAsync": &l.cuSignalExternalSemaphoresAsync,
		"cuWaitExternalSemaphoresAsync":   &l.cuWaitExternalSemaphoresAsync,

		"cuMemcpy2D_v2": &l.cuMemcpy2D,
	}
}

// name resolves a result through cuGetErrorName
func (l *library) name(result Result) (string, bool) {
	var name *byte
	if l.cuGetErrorName(result, unsafe.Pointer(&name)) != Success || name == nil {
		return "", false
	}
	return goString(name), true
}

// goString copies a NUL-terminated C string owned by the driver
func goString(p *byte) string {
	var length int
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), length)) != 0 {
		length++
	}
	return string(unsafe.Slice(p, length))
}
