package malloc

import s "github.com/bnclabs/gosettings"

import "github.com/twosigma/frost/api"

// compile time check that both algorithms satisfy the interface.
var _ api.Mallocer = &Flist{}
var _ api.Mallocer = &Bump{}

// NewMallocer create a general allocator over `heap`, picking the
// algorithm from the "allocator" setting, "flist" or "bump". An
// unknown algorithm name panics.
func NewMallocer(heap *Heap, setts s.Settings) api.Mallocer {
	switch algo := setts.String("allocator"); algo {
	case "flist":
		return NewFlist(heap)
	case "bump":
		return NewBump(heap)
	default:
		panicerr("malloc: unknown allocator %q", algo)
	}
	return nil
}
