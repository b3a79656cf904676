package malloc

import hm "github.com/dustin/go-humanize"

import "github.com/twosigma/frost/lib"

// Arena bump allocator. An arena obtains its capacity from the heap
// region exactly once, at creation, and then hands out that capacity
// front to back by moving a position cursor. There is no per-object
// free, memory comes back only in bulk via Pop and Clear. Designed
// for allocations that share one lifetime, a request, an iteration,
// the whole program.
type Arena struct {
	heap     *Heap
	base     int64 // offset of the reservation within the region
	pos      int64 // 0 <= pos <= capacity
	capacity int64
	pushes   lib.AverageInt64
}

// NewArena reserve `capacity` bytes from `heap`. Returns nil when the
// region cannot supply that many bytes, callers must check before
// using the arena.
func NewArena(heap *Heap, capacity int64) *Arena {
	if heap == nil || capacity <= 0 {
		return nil
	}
	base, ok := heap.Sbrk(capacity)
	if !ok {
		return nil
	}
	debugf("malloc: heap %q arena of %v at %v\n",
		heap.name, hm.Bytes(uint64(capacity)), base)
	return &Arena{heap: heap, base: base, capacity: capacity}
}

// Push allocate `size` bytes on the arena, aligned to Alignment.
// Returns nil when the arena cannot fit the request.
func (arena *Arena) Push(size int64) []byte {
	return arena.PushAlign(size, Alignment)
}

// PushAlign allocate `size` bytes with the first byte aligned to
// `align` within the heap region, `align` must be a power of 2. On
// failure, bad alignment, uninitialized arena, overflow or
// exhaustion, returns nil and the position cursor stays untouched, a
// failed push never commits partially.
func (arena *Arena) PushAlign(size, align int64) []byte {
	if arena == nil || arena.heap == nil {
		return nil
	} else if size <= 0 || size > arena.capacity {
		return nil
	} else if ispowerof2(align) == false {
		return nil
	}
	off := alignup(arena.base+arena.pos, align)
	if off < 0 || off+size > arena.base+arena.capacity {
		return nil
	}
	arena.pos = off + size - arena.base
	arena.pushes.Add(size)
	block := arena.heap.Bytes(off, size)
	scribble(block)
	return block
}

// PushZero like Push, and additionally every returned byte reads back
// as zero. The fill is explicit because arena bytes may carry earlier
// allocations, and debug builds scribble fresh blocks.
func (arena *Arena) PushZero(size int64) []byte {
	block := arena.Push(size)
	for i := range block {
		block[i] = 0
	}
	return block
}

// Pop give back the most recently pushed `size` bytes, stack
// discipline is the caller's responsibility. Popping more than has
// been pushed saturates at zero, the position never wraps.
func (arena *Arena) Pop(size int64) {
	if arena == nil || arena.heap == nil || size <= 0 {
		return
	}
	if size > arena.pos {
		arena.pos = 0
		return
	}
	arena.pos -= size
}

// Clear discard every live allocation in the arena at once, the
// reservation stays with the arena for reuse.
func (arena *Arena) Clear() {
	if arena == nil || arena.heap == nil {
		return
	}
	arena.pos = 0
}

// Release the arena. A no-op, the heap mark cannot retreat while
// other reservations may have been carved after this one, so the bytes
// stay with the region until the region itself becomes garbage. Use
// Clear for bulk deallocation.
func (arena *Arena) Release() {
}

// Info return memory accounting for this arena, its reserved
// capacity and the current bump position.
func (arena *Arena) Info() (capacity, pos int64) {
	return arena.capacity, arena.pos
}

// Stats map of accounting and push size statistics.
func (arena *Arena) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"base":     arena.base,
		"capacity": arena.capacity,
		"pos":      arena.pos,
	}
	for k, v := range arena.pushes.Stats() {
		stats["pushes."+k] = v
	}
	return stats
}

// Logstatistics one line summary of this arena's accounting under
// `prefix`, via the package logger.
func (arena *Arena) Logstatistics(prefix string) {
	capacity, pos := arena.Info()
	fmsg := "%v arena capacity:%v pos:%v pushes:%v\n"
	infof(fmsg, prefix,
		hm.Bytes(uint64(capacity)), hm.Bytes(uint64(pos)),
		arena.pushes.Samples())
}
