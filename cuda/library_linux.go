//go:build linux

package cuda

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
)

var libraryNames = []string{"libcuda.so.1", "libcuda.so"}

var (
	loadOnce   sync.Once
	loaded     *library
	loadFailed error
)

// openLibrary loads libcuda once per process and initializes the driver
func openLibrary() (*library, error) {
	loadOnce.Do(func() {
		var handle uintptr
		var err error
		for _, name := range libraryNames {
			handle, err = purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err == nil {
				break
			}
		}
		if err != nil {
			loadFailed = errors.Wrapf(err, "load cuda driver (tried %v)", libraryNames)
			return
		}

		lib := &library{}
		for symbol, fn := range lib.symbols() {
			address, err := purego.Dlsym(handle, symbol)
			if err != nil {
				loadFailed = errors.Wrapf(err, "resolve %s", symbol)
				return
			}
			purego.RegisterFunc(fn, address)
		}

		errorName = lib.name

		result := lib.cuInit(0)
		if result != Success {
			loadFailed = errors.Wrap(result, "cuInit")
			return
		}
		loaded = lib
	})
	return loaded, loadFailed
}
