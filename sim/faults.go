//go:build linux

package sim

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Operation names a simulated driver call that can be made to fail
type Operation string

const (
	OpCreateInstance  Operation = "CreateInstance"
	OpCreateDevice    Operation = "CreateDevice"
	OpCreateImage     Operation = "CreateImage"
	OpAllocateMemory  Operation = "AllocateMemory"
	OpBindMemory      Operation = "BindMemory"
	OpCreateView      Operation = "CreateView"
	OpCreateSemaphore Operation = "CreateSemaphore"
	OpExportMemory    Operation = "ExportMemory"
	OpExportSemaphore Operation = "ExportSemaphore"
	OpUploadImage     Operation = "UploadImage"

	OpCreateContext   Operation = "CreateContext"
	OpImportMemory    Operation = "ImportMemory"
	OpMapArray        Operation = "MapArray"
	OpImportSemaphore Operation = "ImportSemaphore"
)

// ErrInjected is the cause of every failure produced by a Faults table
var ErrInjected = errors.New("injected failure")

// Faults fails an operation once it has succeeded a given number of times. An operation absent from
// the table never fails.
type Faults map[Operation]int

type faultCounter struct {
	mutex  sync.Mutex
	after  Faults
	counts map[Operation]int
}

func newFaultCounter(after Faults) *faultCounter {
	return &faultCounter{after: after, counts: make(map[Operation]int)}
}

func (f *faultCounter) check(op Operation) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	limit, ok := f.after[op]
	if !ok {
		return nil
	}

	count := f.counts[op]
	f.counts[op] = count + 1
	if count >= limit {
		return errors.Wrapf(ErrInjected, "%s call %d", op, count+1)
	}
	return nil
}
