// Package conv2d implements a 2D bit-convolution layer and combiner
package conv2d

import "fmt"
import "github.com/neurlang/quiver/layer"

type Conv2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

// MustNew creates a new Conv2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) *Conv2DLayer {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer with size, subsize and repeat
func New(width, height, subwidth, subheight, repeat int) (o *Conv2DLayer, err error) {
	if subwidth <= 0 || subheight <= 0 || repeat <= 0 {
		return nil, fmt.Errorf("New Conv2D: Subwidth %d, Subheight %d and Repeat %d must be positive", subwidth, subheight, repeat)
	}
	if width < subwidth {
		return nil, fmt.Errorf("New Conv2D: Width %d is lower than Subwidth %d", width, subwidth)
	}
	if height < subheight {
		return nil, fmt.Errorf("New Conv2D: Height %d is lower than Subheight %d", height, subheight)
	}
	o = new(Conv2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	o.repeat = repeat
	return
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay() layer.Combiner {
	var o Conv2D
	o.Bits = make(layer.Bits, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	o.repeat = i.repeat
	return &o
}

// Inputs is the full image, repeat times
func (i *Conv2DLayer) Inputs() int {
	return i.width * i.height * i.repeat
}

// Shape is the grid of valid window positions, repeat times
func (i *Conv2DLayer) Shape() layer.Shape {
	return layer.Shape{Height: i.height - i.subheight + 1, Width: i.width - i.subwidth + 1, Maps: i.repeat}
}

// Scale is a window full of set bits
func (i *Conv2DLayer) Scale() uint32 {
	return uint32(i.subwidth * i.subheight)
}
