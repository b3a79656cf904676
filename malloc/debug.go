//go:build debug
// +build debug

package malloc

// scribble fill freshly allocated blocks with 0xff so that callers
// relying on uninitialized memory fail loudly. PushZero and Calloc
// zero their blocks after this runs.
func scribble(block []byte) {
	for i := range block {
		block[i] = 0xff
	}
}
