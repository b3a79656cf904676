package malloc

import "testing"

import s "github.com/bnclabs/gosettings"

func TestNewheap(t *testing.T) {
	heap := NewHeap("test", s.Settings{"capacity": int64(4096)})
	if x := heap.Name(); x != "test" {
		t.Errorf("expected %q, got %q", "test", x)
	} else if y := heap.Capacity(); y != 4096 {
		t.Errorf("expected %v, got %v", 4096, y)
	} else if y = heap.Mark(); y != 0 {
		t.Errorf("expected %v, got %v", 0, y)
	} else if y = heap.Remaining(); y != 4096 {
		t.Errorf("expected %v, got %v", 4096, y)
	}

	// panic cases
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		NewHeap("test", s.Settings{"capacity": int64(0)})
	}()
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		NewHeap("test", s.Settings{"capacity": Maxheapsize + 1})
	}()
}

func TestSbrk(t *testing.T) {
	heap := NewHeap("test", s.Settings{"capacity": int64(1024)})

	// successive reservations are strictly increasing and disjoint.
	sizes := []int64{1, 7, 8, 64, 100}
	last, lastn := int64(-1), int64(0)
	for _, n := range sizes {
		off, ok := heap.Sbrk(n)
		if ok == false {
			t.Fatalf("unexpected failure for %v", n)
		} else if last >= 0 && off < last+lastn {
			t.Errorf("offset %v overlaps %v+%v", off, last, lastn)
		}
		last, lastn = off, n
	}
	if x := heap.Mark(); x != 180 {
		t.Errorf("expected %v, got %v", 180, x)
	}

	// invalid increments leave the mark untouched.
	if _, ok := heap.Sbrk(0); ok {
		t.Errorf("expected failure for zero increment")
	} else if _, ok = heap.Sbrk(-10); ok {
		t.Errorf("expected failure for negative increment")
	} else if x := heap.Mark(); x != 180 {
		t.Errorf("expected %v, got %v", 180, x)
	}

	// requests beyond the boundary fail, exact fit succeeds.
	if _, ok := heap.Sbrk(1024 - 180 + 1); ok {
		t.Errorf("expected failure beyond boundary")
	}
	if off, ok := heap.Sbrk(1024 - 180); ok == false || off != 180 {
		t.Errorf("expected offset %v, got %v,%v", 180, off, ok)
	}
	if _, ok := heap.Sbrk(1); ok {
		t.Errorf("expected failure on exhausted heap")
	} else if x := heap.Remaining(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
}

func TestHeapBytes(t *testing.T) {
	heap := NewHeap("test", s.Settings{"capacity": int64(1024)})
	if _, ok := heap.Sbrk(64); ok == false {
		t.Fatalf("unexpected failure")
	}
	block := heap.Bytes(8, 16)
	if x := len(block); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if y := cap(block); y != 16 {
		t.Errorf("expected %v, got %v", 16, y)
	} else if z := heap.offsetof(block); z != 8 {
		t.Errorf("expected %v, got %v", 8, z)
	}
	foreign := make([]byte, 10)
	if x := heap.offsetof(foreign); x != -1 {
		t.Errorf("expected %v, got %v", -1, x)
	}
	if x := heap.offsetof(nil); x != -1 {
		t.Errorf("expected %v, got %v", -1, x)
	}
}

func BenchmarkSbrk(b *testing.B) {
	heap := NewHeap("bench", s.Settings{"capacity": int64(1024 * 1024 * 1024)})
	for i := 0; i < b.N; i++ {
		if _, ok := heap.Sbrk(64); ok == false {
			heap.mark = 0
		}
	}
}
