package malloc

import "math"
import "unsafe"

import hm "github.com/dustin/go-humanize"

import "github.com/twosigma/frost/lib"

// Bump trivial general allocator that answers every request straight
// off the heap mark and treats Free as a no-op. No headers, no free
// list, nothing is ever reused. Fits workloads that allocate up front
// and run to completion, for everything else use Flist. Pairs with
// the "bump" value of the "allocator" setting.
type Bump struct {
	heap *Heap

	// accounting
	claimed   int64
	allocated int64
	nallocs   int64
	sizes     lib.AverageInt64
}

// NewBump create a bump allocator over `heap`.
func NewBump(heap *Heap) *Bump {
	if heap == nil {
		panicerr("bump: nil heap region")
	}
	return &Bump{heap: heap}
}

// Alloc a block of `n` bytes off the heap mark, aligned to Alignment.
// Returns nil when `n` is not positive or the region is exhausted.
func (bp *Bump) Alloc(n int64) []byte {
	if bp.heap == nil {
		return nil
	} else if n <= 0 || n > Maxheapsize {
		return nil
	}
	pad := alignpad(bp.heap.mark, Alignment)
	raw, ok := bp.heap.Sbrk(n + pad)
	if !ok {
		return nil
	}
	bp.claimed += n + pad
	bp.allocated += n
	bp.nallocs++
	bp.sizes.Add(n)
	block := bp.heap.Bytes(raw+pad, n)
	scribble(block)
	return block
}

// Calloc a block of count*size zeroed bytes, the multiplication is
// checked for overflow.
func (bp *Bump) Calloc(count, size int64) []byte {
	if count <= 0 || size <= 0 {
		return nil
	} else if count > math.MaxInt64/size {
		return nil
	}
	block := bp.Alloc(count * size)
	for i := range block {
		block[i] = 0
	}
	return block
}

// Realloc move `ptr` to a fresh block of `n` bytes, copying
// min(len(ptr), n) bytes. The old block is not reclaimed, bump
// memory only comes back when the region is dropped.
func (bp *Bump) Realloc(ptr []byte, n int64) []byte {
	if n <= 0 {
		return nil
	} else if len(ptr) == 0 {
		return bp.Alloc(n)
	}
	block := bp.Alloc(n)
	if block == nil {
		return nil
	}
	copy(block, ptr)
	return block
}

// Free is a no-op, bump blocks live until the region is dropped.
func (bp *Bump) Free(ptr []byte) {
}

// Release the allocator. Claimed bytes stay with the heap region.
func (bp *Bump) Release() {
	bp.heap = nil
}

// Info of memory accounting for this allocator.
func (bp *Bump) Info() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*bp))
	if bp.heap == nil {
		return 0, bp.claimed, bp.allocated, self
	}
	return bp.heap.Capacity(), bp.claimed, bp.allocated, self
}

// Utilization ratio between allocated bytes and claimed bytes, in
// percentage.
func (bp *Bump) Utilization() float64 {
	if bp.claimed == 0 {
		return 0
	}
	return (float64(bp.allocated) / float64(bp.claimed)) * 100
}

// Stats map of accounting and allocation size statistics.
func (bp *Bump) Stats() map[string]interface{} {
	capacity, heap, alloc, overhead := bp.Info()
	stats := map[string]interface{}{
		"capacity":    capacity,
		"heap":        heap,
		"alloc":       alloc,
		"overhead":    overhead,
		"utilization": bp.Utilization(),
		"n.allocs":    bp.nallocs,
	}
	for k, v := range bp.sizes.Stats() {
		stats["sizes."+k] = v
	}
	return stats
}

// Logstatistics one line summary of this allocator's accounting
// under `prefix`, via the package logger.
func (bp *Bump) Logstatistics(prefix string) {
	capacity, heap, alloc, _ := bp.Info()
	fmsg := "%v bump capacity:%v heap:%v alloc:%v\n"
	infof(fmsg, prefix,
		hm.Bytes(uint64(capacity)), hm.Bytes(uint64(heap)),
		hm.Bytes(uint64(alloc)))
}
