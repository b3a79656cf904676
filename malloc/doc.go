// Package malloc supplies bare-metal style memory management over a
// fixed size heap region, with a limited scope:
//
//   - Types and Functions exported by this package are not thread
//     safe, wrap allocators with LockedMallocer when allocation calls
//     can come from more than one goroutine.
//   - A Heap is one flat region of bytes with a monotonic mark, the
//     mark only moves forward for the lifetime of the region. Bytes
//     reserved from the region are never returned to it.
//   - Arena supplies bump-pointer allocation with bulk deallocation,
//     for objects that share a single lifetime.
//   - Flist supplies first-fit free-list allocation with individual
//     Free, for objects of independent lifetime.
//   - Blocks handed out by this package are always 8-byte aligned
//     within the region.
//
// Exhaustion is a normal, caller handled condition. Every allocation
// call that cannot be satisfied returns nil without mutating any
// allocator state, the package never panics and never logs on the
// allocation path.
package malloc

// TODO: coalesce adjacent free blocks in Flist when fragmentation
// shows up in Stats() under real workloads.
