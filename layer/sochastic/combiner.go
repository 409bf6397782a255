package sochastic

import "github.com/neurlang/quiver/hash"
import "github.com/neurlang/quiver/layer"

// Sochastic feeds every feature from inputs picked by hashing the seed
type Sochastic struct {
	layer.Bits
	maxbits byte
	seed    uint32
}

// pick is the input read by bit pos of feature n
func (f *Sochastic) pick(n, pos int) int {
	return int(hash.Hash(f.seed^uint32(n), uint32(pos), uint32(len(f.Bits))))
}

// Feature returns maxbits picked inputs, the first pick most significant.
func (f *Sochastic) Feature(n int) (o uint32) {
	for pos := 0; pos < int(f.maxbits); pos++ {
		o <<= 1
		if f.Bits[f.pick(n, pos)] {
			o |= 1
		}
	}
	return
}
