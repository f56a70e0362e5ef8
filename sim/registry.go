//go:build linux

package sim

import (
	"sync"

	"github.com/dolthub/swiss"
)

// registry tracks every simulated object that has not been destroyed yet
type registry struct {
	mutex  sync.Mutex
	nextID uint64
	live   *swiss.Map[uint64, string]
}

func newRegistry() *registry {
	return &registry{live: swiss.NewMap[uint64, string](16)}
}

func (r *registry) add(kind string) uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	r.live.Put(r.nextID, kind)
	return r.nextID
}

// remove reports false if id was already removed
func (r *registry) remove(id uint64) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.live.Delete(id)
}

func (r *registry) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.live.Count()
}

func (r *registry) byKind() map[string]int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	kinds := make(map[string]int)
	r.live.Iter(func(_ uint64, kind string) bool {
		kinds[kind]++
		return false
	})
	return kinds
}
