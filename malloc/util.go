package malloc

import "fmt"

// alignup round `off` upward to the next multiple of `align`,
// `align` must be a power of 2.
func alignup(off, align int64) int64 {
	return (off + align - 1) &^ (align - 1)
}

// alignpad padding needed to bring `off` to the next aligned offset.
func alignpad(off, align int64) int64 {
	return alignup(off, align) - off
}

func ispowerof2(align int64) bool {
	return align > 0 && (align&(align-1)) == 0
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
