package parity

import "github.com/neurlang/quiver/layer"

// Parity reduces a whole layer to one bit
type Parity struct {
	layer.Bits
}

// Feature returns the parity of all bits, regardless of n.
func (f *Parity) Feature(n int) uint32 {
	return f.Count(0, len(f.Bits)) & 1
}
