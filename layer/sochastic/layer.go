// Package sochastic implements a sochastic connected layer and combiner
package sochastic

import "fmt"
import "github.com/neurlang/quiver/layer"

type SochasticLayer struct {
	size    int
	outputs int
	maxbits byte
	seed    uint32
}

// MustNew creates a new sochastic layer with size inputs, outputs features of maxbits each
func MustNew(size, outputs int, maxbits byte, seed uint32) *SochasticLayer {
	o, err := New(size, outputs, maxbits, seed)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new sochastic layer with size inputs, outputs features of maxbits each.
// Every feature samples maxbits inputs picked by hashing the seed.
func New(size, outputs int, maxbits byte, seed uint32) (o *SochasticLayer, err error) {
	if size <= 0 || outputs <= 0 || maxbits == 0 || maxbits > 32 {
		return nil, fmt.Errorf("New Sochastic: size %d, outputs %d, maxbits %d out of range", size, outputs, maxbits)
	}
	o = new(SochasticLayer)
	o.size = size
	o.outputs = outputs
	o.maxbits = maxbits
	o.seed = seed
	return
}

// Lay turns sochastic layer into a combiner
func (i *SochasticLayer) Lay() layer.Combiner {
	o := new(Sochastic)
	o.Bits = make(layer.Bits, i.size)
	o.maxbits = i.maxbits
	o.seed = i.seed
	return o
}

// Inputs is the size of the layer
func (i *SochasticLayer) Inputs() int {
	return i.size
}

// Shape is a vector of the configured outputs
func (i *SochasticLayer) Shape() layer.Shape {
	return layer.Vector(i.outputs)
}

// Scale is maxbits set bits
func (i *SochasticLayer) Scale() uint32 {
	return uint32(uint64(1)<<i.maxbits - 1)
}
