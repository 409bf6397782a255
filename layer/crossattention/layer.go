// Package crossattention implements a cross attention connected layer and combiner
package crossattention

import "fmt"
import "github.com/neurlang/quiver/layer"

// CrossAttentionLayer splits its inputs into heads of dim bits each
type CrossAttentionLayer struct {
	dim   int
	heads int
}

// MustNew creates a new cross attention layer of heads heads, dim bits each
func MustNew(dim, heads int) *CrossAttentionLayer {
	o, err := New(dim, heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new cross attention layer of heads heads, dim bits each.
// Within a head, even positions attend to odd ones and odd positions to even ones.
func New(dim, heads int) (o *CrossAttentionLayer, err error) {
	if dim < 2 || heads <= 0 {
		return nil, fmt.Errorf("New CrossAttention: dim %d must be at least 2 and heads %d positive", dim, heads)
	}
	o = new(CrossAttentionLayer)
	o.dim = dim
	o.heads = heads
	return
}

// Lay turns cross attention layer into a combiner
func (i *CrossAttentionLayer) Lay() layer.Combiner {
	o := new(CrossAttention)
	o.Bits = make(layer.Bits, i.Inputs())
	o.dim = i.dim
	return o
}

// Inputs is every head laid end to end
func (i *CrossAttentionLayer) Inputs() int {
	return i.dim * i.heads
}

// Shape is one feature per input
func (i *CrossAttentionLayer) Shape() layer.Shape {
	return layer.Vector(i.Inputs())
}

// Scale is the number of positions of the other parity in a head
func (i *CrossAttentionLayer) Scale() uint32 {
	return uint32((i.dim + 1) / 2)
}
