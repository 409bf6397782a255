// Package full implements a fully connected layer and combiner
package full

import "fmt"
import "github.com/neurlang/quiver/layer"

type FullLayer struct {
	size    int
	bits    byte
	maxbits byte
}

// MustNew creates a new full layer with size and bits
func MustNew(size int, bits, maxbits byte) *FullLayer {
	o, err := New(size, bits, maxbits)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with size and bits. Feature n packs maxbits
// input bits starting at bit n*bits.
func New(size int, bits, maxbits byte) (o *FullLayer, err error) {
	if size <= 0 || bits == 0 || maxbits == 0 {
		return nil, fmt.Errorf("New Full: size %d, bits %d and maxbits %d must be positive", size, bits, maxbits)
	}
	if maxbits > 32 || int(maxbits) > size {
		return nil, fmt.Errorf("New Full: maxbits %d does not fit size %d", maxbits, size)
	}
	o = new(FullLayer)
	o.size = size
	o.bits = bits
	o.maxbits = maxbits
	return
}

// Lay turns full layer into a combiner
func (i *FullLayer) Lay() layer.Combiner {
	o := new(Full)
	o.Bits = make(layer.Bits, i.size)
	o.bits = i.bits
	o.maxbits = i.maxbits
	return o
}

// Inputs is the size of the layer
func (i *FullLayer) Inputs() int {
	return i.size
}

// Shape is a vector of all complete windows
func (i *FullLayer) Shape() layer.Shape {
	return layer.Vector((i.size-int(i.maxbits))/int(i.bits) + 1)
}

// Scale is maxbits set bits
func (i *FullLayer) Scale() uint32 {
	return uint32(uint64(1)<<i.maxbits - 1)
}
