package malloc

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Alignment unit for heap offsets handed out by the allocators.
// Blocks returned by Arena.Push and Flist.Alloc are aligned to this
// width, structures laid out in allocated blocks can rely on it.
const Alignment = int64(8)

// Maxheapsize maximum capacity of a single heap region. Free-list
// nodes encode region offsets as uint32, which bounds the region.
const Maxheapsize = int64(1<<32) - Alignment

// Minheapsize default capacity of a heap region when free system
// memory cannot be measured.
const Minheapsize = int64(64 * 1024 * 1024)

// Defaultsettings for heap regions and their allocators.
//
// "capacity" (int64, default: quarter of free RAM)
//		Size of the heap region in bytes, fixed for its lifetime.
//
// "allocator" (string, default: "flist")
//		General allocator algorithm, can be "flist" or "bump".
func Defaultsettings() s.Settings {
	capacity := Minheapsize
	if _, _, free := getsysmem(); int64(free/4) > capacity {
		capacity = int64(free / 4)
	}
	if capacity > Maxheapsize {
		capacity = Maxheapsize
	}
	return s.Settings{
		"capacity":  capacity,
		"allocator": "flist",
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return 0, 0, 0
	}
	return mem.Total, mem.Used, mem.Free
}
