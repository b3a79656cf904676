package malloc

import "unsafe"

import hm "github.com/dustin/go-humanize"
import s "github.com/bnclabs/gosettings"

// Heap is a fixed size contiguous region of memory with a monotonic
// mark separating used bytes from unused bytes, the software analog
// of a bare-metal heap growing between two linker symbols. Arenas and
// general allocators carve all of their memory from one Heap via
// Sbrk, the sole growth primitive. The mark never retreats, a Heap
// gives memory back to the Go runtime only when the Heap itself
// becomes garbage.
type Heap struct {
	name  string
	block []byte
	mark  int64
}

// NewHeap create a heap region, taking "capacity" from setts. The
// capacity is fixed for the lifetime of the region, there is no way
// to grow or shrink it. Settings misuse panics, this is a
// construction time error and not an allocation failure.
func NewHeap(name string, setts s.Settings) *Heap {
	capacity := setts.Int64("capacity")
	if capacity <= 0 {
		panicerr("heap %q: invalid capacity %v", name, capacity)
	} else if capacity > Maxheapsize {
		panicerr("heap %q: capacity %v exceeds %v", name, capacity, Maxheapsize)
	}
	heap := &Heap{name: name, block: make([]byte, capacity)}
	infof("malloc: heap %q region of %v\n", name, hm.Bytes(uint64(capacity)))
	return heap
}

// Sbrk reserve `n` fresh bytes from the region and return the offset
// of the first of them. On success the mark advances by exactly `n`.
// Returns false, leaving the mark untouched, when `n` is not positive
// or fewer than `n` bytes remain. The comparison is phrased against
// the remaining byte count so the mark arithmetic cannot wrap.
func (heap *Heap) Sbrk(n int64) (off int64, ok bool) {
	if n <= 0 {
		return 0, false
	} else if n > int64(len(heap.block))-heap.mark {
		return 0, false
	}
	off, heap.mark = heap.mark, heap.mark+n
	return off, true
}

// Name of this heap region.
func (heap *Heap) Name() string {
	return heap.name
}

// Capacity total size of the region in bytes.
func (heap *Heap) Capacity() int64 {
	return int64(len(heap.block))
}

// Mark current position of the heap cursor, bytes below the mark have
// been reserved by Sbrk.
func (heap *Heap) Mark() int64 {
	return heap.mark
}

// Remaining bytes that can still be reserved with Sbrk.
func (heap *Heap) Remaining() int64 {
	return int64(len(heap.block)) - heap.mark
}

// Bytes window of `n` bytes into the region starting at offset `off`.
// The window is capped, appending to it will not spill into
// neighbouring blocks.
func (heap *Heap) Bytes(off, n int64) []byte {
	return heap.block[off : off+n : off+n]
}

// offsetof locate `ptr`, a block handed out by one of the allocators
// over this heap, within the region. Returns -1 if `ptr` does not
// point into the region.
func (heap *Heap) offsetof(ptr []byte) int64 {
	if len(ptr) == 0 || len(heap.block) == 0 {
		return -1
	}
	base := uintptr(unsafe.Pointer(&heap.block[0]))
	p := uintptr(unsafe.Pointer(&ptr[0]))
	if p < base || p >= base+uintptr(len(heap.block)) {
		return -1
	}
	return int64(p - base)
}
