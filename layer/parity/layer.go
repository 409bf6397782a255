// Package parity implements a parity layer and combiner
package parity

import "fmt"
import "github.com/neurlang/quiver/layer"

type ParityLayer struct {
	size int
}

// MustNew creates a new parity layer over size bits
func MustNew(size int) *ParityLayer {
	o, err := New(size)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new parity layer over size bits
func New(size int) (o *ParityLayer, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("New Parity: size %d must be positive", size)
	}
	o = new(ParityLayer)
	o.size = size
	return
}

// Lay turns parity layer into a combiner
func (i *ParityLayer) Lay() layer.Combiner {
	o := new(Parity)
	o.Bits = make(layer.Bits, i.size)
	return o
}

// Inputs is the size of the layer
func (i *ParityLayer) Inputs() int {
	return i.size
}

// Shape is a single value
func (i *ParityLayer) Shape() layer.Shape {
	return layer.Vector(1)
}

// Scale is one bit
func (i *ParityLayer) Scale() uint32 {
	return 1
}
