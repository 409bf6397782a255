// Package majpool2d implements a 2D majority pooling layer and combiner
package majpool2d

import "fmt"
import "github.com/neurlang/quiver/layer"

type MajPool2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

// New creates a new MajPool2D layer with size, subsize and repeat
func New(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer, err error) {
	if width <= 0 || height <= 0 || subwidth <= 0 || subheight <= 0 || repeat <= 0 {
		return nil, fmt.Errorf("New MajPool2D: dimensions must be positive, got %dx%d sub %dx%d repeat %d",
			width, height, subwidth, subheight, repeat)
	}
	if subwidth*subheight > 32 {
		return nil, fmt.Errorf("New MajPool2D: submatrix %dx%d does not fit a feature", subwidth, subheight)
	}
	o = new(MajPool2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	o.repeat = repeat
	return
}

// MustNew creates a new MajPool2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) *MajPool2DLayer {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Lay turns MajPool2D layer into a combiner
func (i *MajPool2DLayer) Lay() layer.Combiner {
	var o MajPool2D
	o.Bits = make(layer.Bits, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	o.repeat = i.repeat
	return &o
}

// Inputs is one bit per submatrix cell of every output cell
func (i *MajPool2DLayer) Inputs() int {
	return i.width * i.height * i.subwidth * i.subheight * i.repeat
}

// Shape is the pooled grid, repeat times
func (i *MajPool2DLayer) Shape() layer.Shape {
	return layer.Shape{Height: i.height, Width: i.width, Maps: i.repeat}
}

// Scale is the all ones submatrix
func (i *MajPool2DLayer) Scale() uint32 {
	return 1<<uint(i.subwidth*i.subheight) - 1
}
