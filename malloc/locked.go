package malloc

import "sync"

import "github.com/twosigma/frost/api"

// LockedMallocer serialize access to an underlying Mallocer with a
// mutex. Allocators in this package apply no locking of their own,
// the heap mark and the free list are plain shared state, so wrap
// them with this when allocation calls can come from more than one
// goroutine.
type LockedMallocer struct {
	mu sync.Mutex
	m  api.Mallocer
}

var _ api.Mallocer = &LockedMallocer{}

// NewLockedMallocer wrap `m` with a mutex.
func NewLockedMallocer(m api.Mallocer) *LockedMallocer {
	if m == nil {
		panicerr("malloc: nil mallocer")
	}
	return &LockedMallocer{m: m}
}

// Alloc implement api.Mallocer{} interface.
func (lm *LockedMallocer) Alloc(n int64) []byte {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Alloc(n)
}

// Calloc implement api.Mallocer{} interface.
func (lm *LockedMallocer) Calloc(count, size int64) []byte {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Calloc(count, size)
}

// Realloc implement api.Mallocer{} interface.
func (lm *LockedMallocer) Realloc(ptr []byte, n int64) []byte {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Realloc(ptr, n)
}

// Free implement api.Mallocer{} interface.
func (lm *LockedMallocer) Free(ptr []byte) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.m.Free(ptr)
}

// Info implement api.Mallocer{} interface.
func (lm *LockedMallocer) Info() (capacity, heap, alloc, overhead int64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Info()
}

// Utilization implement api.Mallocer{} interface.
func (lm *LockedMallocer) Utilization() float64 {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Utilization()
}

// Stats implement api.Mallocer{} interface.
func (lm *LockedMallocer) Stats() map[string]interface{} {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Stats()
}

// Release implement api.Mallocer{} interface.
func (lm *LockedMallocer) Release() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.m.Release()
}
