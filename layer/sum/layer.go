// Package sum implements a sum layer and combiner
package sum

import "fmt"
import "github.com/neurlang/quiver/layer"
import "sync/atomic"

type SumLayer struct {
	size  uint
	inner uint
	dim   uint
}

type Sum struct {
	vec   []atomic.Bool
	inner uint
	dim   uint
}

// MustNew creates a new sum layer over dims, summing along axis dim
func MustNew(dims []uint, dim uint) *SumLayer {
	o, err := New(dims, dim)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new sum layer over dims, summing along axis dim
func New(dims []uint, dim uint) (o *SumLayer, err error) {
	if int(dim) >= len(dims) {
		return nil, fmt.Errorf("New Sum: axis %d out of %d dimensions", dim, len(dims))
	}
	var size = uint(1)
	var inner = uint(1)
	for i, d := range dims {
		if d == 0 {
			return nil, fmt.Errorf("New Sum: dimension %d is zero", i)
		}
		if uint(i) < dim {
			inner *= d
		}
		size *= d
	}

	o = new(SumLayer)
	o.size = size
	o.inner = inner
	o.dim = dims[dim]
	return
}

// Lay turns sum layer into a combiner
func (i *SumLayer) Lay() layer.Combiner {
	o := new(Sum)
	o.vec = make([]atomic.Bool, i.size)
	o.inner = i.inner
	o.dim = i.dim
	return o
}

// Inputs is the product of all dimensions
func (i *SumLayer) Inputs() int {
	return int(i.size)
}

// Shape is a vector of all positions along the remaining axes
func (i *SumLayer) Shape() layer.Shape {
	return layer.Vector(int(i.size / i.dim))
}

// Scale is the length of the summed axis
func (i *SumLayer) Scale() uint32 {
	return uint32(i.dim)
}
