// Package api define types and interfaces common to all allocators
// implemented by this module.
package api

// Mallocer interface for general purpose memory management, blocks
// obtained via Alloc live until they are given back with Free. All
// allocation calls signal exhaustion, invalid argument and arithmetic
// overflow by returning nil, callers are expected to treat nil as a
// routine condition.
type Mallocer interface {
	// Alloc a block of `n` bytes. Returned block is always 8-byte
	// aligned within its heap region.
	Alloc(n int64) []byte

	// Calloc a block of count*size bytes, zero initialized. The
	// multiplication is checked for overflow.
	Calloc(count, size int64) []byte

	// Realloc move `ptr` to a freshly allocated block of `n` bytes,
	// copying min(len(ptr), n) bytes. A nil `ptr` behaves like Alloc.
	Realloc(ptr []byte, n int64) []byte

	// Free a block obtained from Alloc, Calloc or Realloc.
	Free(ptr []byte)

	// Info of memory accounting for this allocator, where heap is
	// claimed from the region and alloc is handed to application,
	// block headers included.
	Info() (capacity, heap, alloc, overhead int64)

	// Utilization ratio between alloc and heap, in percentage.
	Utilization() float64

	// Stats map of accounting and size statistics.
	Stats() map[string]interface{}

	// Release this allocator and all its resources.
	Release()
}
