package malloc

import "encoding/binary"
import "math"
import "unsafe"

import hm "github.com/dustin/go-humanize"

import "github.com/twosigma/frost/lib"

// Block header, a single aligned word recording the full block size,
// header included, written immediately before every body handed to
// the application. Free recovers block boundaries from it without the
// caller supplying a size.
const headersize = Alignment

// Free-list node, 8 bytes living at the header offset of every free
// block:
//
//	next uint32  region offset of the next free block, freenil ends
//	size uint32  total bytes in this block, header included
//
// The node exactly fills the aligned header footprint, so any block
// big enough to be allocated is big enough to hold its free node.
// Offsets instead of pointers keep the list memory safe, nothing in
// the region is ever reinterpreted as a Go pointer.
const nodesize = int64(8)

// freenil terminates the free list, offset 0 is a valid block
// address and cannot serve as the sentinel.
const freenil = uint32(0xFFFFFFFF)

// Flist first-fit free-list allocator for blocks of independent
// lifetime, layered over the same heap region as the arenas. Freed
// blocks are pushed LIFO onto a single list and reused by the first
// fit in list order, favouring allocation speed over fragmentation
// quality. Adjacent free blocks are not coalesced.
type Flist struct {
	heap *Heap
	head uint32 // offset of the first free node, freenil when empty

	// accounting
	claimed   int64 // bytes reserved from the region via Sbrk
	allocated int64 // bytes currently out with the application
	nallocs   int64
	nfrees    int64
	sizes     lib.AverageInt64
}

// NewFlist create a first-fit allocator over `heap`. Multiple
// allocators and arenas can share one region, their reservations
// never overlap.
func NewFlist(heap *Heap) *Flist {
	if heap == nil {
		panicerr("flist: nil heap region")
	}
	return &Flist{heap: heap, head: freenil}
}

//---- operations

// Alloc a block of `n` bytes. The free list is walked for the first
// block whose size fits, otherwise fresh bytes are reserved from the
// region. Returns nil when `n` is not positive or nothing can
// satisfy the request, with no allocator state mutated.
func (fl *Flist) Alloc(n int64) []byte {
	if fl.heap == nil {
		return nil
	} else if n <= 0 || n > Maxheapsize-headersize {
		return nil
	}
	blocksize := alignup(n, Alignment) + headersize

	// first fit, in list order.
	prev, cur := freenil, fl.head
	for cur != freenil {
		next, size := fl.readnode(cur)
		if int64(size) >= blocksize {
			size -= uint32(blocksize)
			// carve from the end of the block so the node header
			// stays valid at its original offset.
			body := int64(cur) + int64(size) + headersize
			if size == 0 {
				fl.unlink(prev, next)
			} else {
				fl.writenode(cur, next, size)
			}
			return fl.commit(body, n, blocksize)
		}
		prev, cur = cur, next
	}

	// no free block fits, grow from the region, padding the mark to
	// the next aligned offset.
	pad := alignpad(fl.heap.mark, Alignment)
	raw, ok := fl.heap.Sbrk(blocksize + pad)
	if !ok {
		return nil
	}
	fl.claimed += blocksize + pad
	return fl.commit(alignup(raw, Alignment)+headersize, n, blocksize)
}

// Free give back a block obtained from Alloc, Calloc or Realloc. The
// block's header supplies its size, a free node is written over the
// header and pushed to the front of the list, O(1) and no coalescing
// with neighbours. Freeing nil, or a block that is not from this
// heap, is ignored.
func (fl *Flist) Free(ptr []byte) {
	if fl.heap == nil || len(ptr) == 0 {
		return
	}
	body := fl.heap.offsetof(ptr)
	if body < headersize || body > fl.heap.mark {
		debugf("malloc: heap %q free of foreign block\n", fl.heap.name)
		return
	}
	off := uint32(body - headersize)
	size := binary.LittleEndian.Uint32(fl.heap.block[off:])
	fl.writenode(off, fl.head, size)
	fl.head = off
	fl.allocated -= int64(size)
	fl.nfrees++
}

// Calloc a block of count*size bytes with every byte zeroed. The
// multiplication is checked, overflow returns nil before any state
// changes.
func (fl *Flist) Calloc(count, size int64) []byte {
	if count <= 0 || size <= 0 {
		return nil
	} else if count > math.MaxInt64/size {
		return nil
	}
	block := fl.Alloc(count * size)
	for i := range block {
		block[i] = 0
	}
	return block
}

// Realloc move `ptr` to a freshly allocated block of `n` bytes,
// copying min(len(ptr), n) bytes, and free the old block. There is no
// in-place resize. A nil `ptr` behaves like Alloc, `n <= 0` fails
// without freeing `ptr`.
func (fl *Flist) Realloc(ptr []byte, n int64) []byte {
	if n <= 0 {
		return nil
	} else if len(ptr) == 0 {
		return fl.Alloc(n)
	}
	block := fl.Alloc(n)
	if block == nil {
		return nil
	}
	copy(block, ptr)
	fl.Free(ptr)
	return block
}

// Release the allocator. Claimed bytes stay with the heap region,
// only the free list and accounting are dropped.
func (fl *Flist) Release() {
	if fl.heap == nil {
		return
	}
	if live := fl.nallocs - fl.nfrees; live > 0 {
		warnf("malloc: heap %q flist released with %v live blocks\n",
			fl.heap.name, live)
	}
	fl.heap, fl.head = nil, freenil
}

//---- statistics and maintenance

// Info of memory accounting for this allocator. `heap` is what has
// been reserved from the region, `alloc` what is out with the
// application, block headers included, `overhead` the in-memory cost
// of book-keeping.
func (fl *Flist) Info() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*fl))
	if fl.heap == nil {
		return 0, fl.claimed, fl.allocated, self
	}
	return fl.heap.Capacity(), fl.claimed, fl.allocated, self
}

// Utilization ratio between allocated bytes and claimed bytes, in
// percentage.
func (fl *Flist) Utilization() float64 {
	if fl.claimed == 0 {
		return 0
	}
	return (float64(fl.allocated) / float64(fl.claimed)) * 100
}

// Freeblocks walk the free list and return the recorded block sizes
// in list order, the same order Alloc searches them.
func (fl *Flist) Freeblocks() []int64 {
	if fl.heap == nil {
		return nil
	}
	sizes := make([]int64, 0, 8)
	for cur := fl.head; cur != freenil; {
		next, size := fl.readnode(cur)
		sizes = append(sizes, int64(size))
		cur = next
	}
	return sizes
}

// Stats map of accounting, allocation size statistics and a
// histogram of free block sizes.
func (fl *Flist) Stats() map[string]interface{} {
	capacity, heap, alloc, overhead := fl.Info()
	stats := map[string]interface{}{
		"capacity":    capacity,
		"heap":        heap,
		"alloc":       alloc,
		"overhead":    overhead,
		"utilization": fl.Utilization(),
		"n.allocs":    fl.nallocs,
		"n.frees":     fl.nfrees,
	}
	for k, v := range fl.sizes.Stats() {
		stats["sizes."+k] = v
	}
	freeblocks, freebytes := fl.Freeblocks(), int64(0)
	htg := lib.NewhistorgramInt64(Alignment, 4096, 64)
	for _, size := range freeblocks {
		freebytes += size
		htg.Add(size)
	}
	stats["n.freeblocks"] = int64(len(freeblocks))
	stats["freebytes"] = freebytes
	stats["freeblocks"] = htg.Fullstats()
	return stats
}

// Logstatistics one line summary of this allocator's accounting
// under `prefix`, via the package logger.
func (fl *Flist) Logstatistics(prefix string) {
	capacity, heap, alloc, _ := fl.Info()
	fmsg := "%v flist capacity:%v heap:%v alloc:%v utilz:%.2f%%\n"
	infof(fmsg, prefix,
		hm.Bytes(uint64(capacity)), hm.Bytes(uint64(heap)),
		hm.Bytes(uint64(alloc)), fl.Utilization())
}

//---- local functions

// commit the allocation, write the header word and hand out a capped
// window over the body.
func (fl *Flist) commit(body, n, blocksize int64) []byte {
	binary.LittleEndian.PutUint32(
		fl.heap.block[body-headersize:], uint32(blocksize))
	fl.allocated += blocksize
	fl.nallocs++
	fl.sizes.Add(n)
	block := fl.heap.block[body : body+n : body+blocksize-headersize]
	scribble(block)
	return block
}

func (fl *Flist) readnode(off uint32) (next, size uint32) {
	buf := fl.heap.block[off : int64(off)+nodesize]
	return binary.LittleEndian.Uint32(buf), binary.LittleEndian.Uint32(buf[4:])
}

func (fl *Flist) writenode(off, next, size uint32) {
	buf := fl.heap.block[off : int64(off)+nodesize]
	binary.LittleEndian.PutUint32(buf, next)
	binary.LittleEndian.PutUint32(buf[4:], size)
}

// unlink the node after `prev` by pointing it at `next`, `prev` is
// freenil when the node is at the head.
func (fl *Flist) unlink(prev, next uint32) {
	if prev == freenil {
		fl.head = next
		return
	}
	_, psize := fl.readnode(prev)
	fl.writenode(prev, next, psize)
}
