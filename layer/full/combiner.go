package full

import "github.com/neurlang/quiver/layer"

// Full packs consecutive hashtron outputs into features
type Full struct {
	layer.Bits
	bits    byte
	maxbits byte
}

// Feature returns maxbits outputs starting at output n*bits. The last windows
// of a layer whose size is not a multiple of bits read as zero.
func (f *Full) Feature(n int) uint32 {
	return f.Pack(n*int(f.bits), int(f.maxbits))
}
