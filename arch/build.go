package arch

import (
	"fmt"

	"github.com/neurlang/quiver/layer"
	"github.com/neurlang/quiver/layer/conv2d"
	"github.com/neurlang/quiver/layer/crossattention"
	"github.com/neurlang/quiver/layer/full"
	"github.com/neurlang/quiver/layer/majpool2d"
	"github.com/neurlang/quiver/layer/parity"
	"github.com/neurlang/quiver/layer/sochastic"
	"github.com/neurlang/quiver/layer/sum"
	"github.com/neurlang/quiver/net/feedforward"
)

// Build creates the network with freshly initialised hashtrons. Load weights into it afterwards.
func (a *Architecture) Build() (*feedforward.FeedforwardNetwork, error) {
	net := new(feedforward.FeedforwardNetwork)
	for _, l := range a.Layers {
		if l.Type == TypeHashtron {
			if err := addHashtrons(net, l); err != nil {
				return nil, err
			}
			continue
		}
		c, err := combiner(l)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %v", l.Name, err)
		}
		if err := net.NewCombiner(l.Name, c); err != nil {
			return nil, err
		}
	}
	return net, nil
}

func addHashtrons(net *feedforward.FeedforwardNetwork, l *Layer) error {
	if l.Bits < 0 || l.Bits > 16 {
		return fmt.Errorf("layer %q: bits %d out of range 0..16", l.Name, l.Bits)
	}
	if l.Premodulo < 0 || l.Premodulo > 1<<32-1 {
		return fmt.Errorf("layer %q: premodulo %d out of range", l.Name, l.Premodulo)
	}
	shape, err := shapeOf(l.Shape)
	if err != nil {
		return fmt.Errorf("layer %q: %v", l.Name, err)
	}
	return net.NewLayer(l.Name, l.Size, byte(l.Bits), uint32(l.Premodulo), shape)
}

func shapeOf(dims []int) (layer.Shape, error) {
	switch len(dims) {
	case 0:
		return layer.Shape{}, nil
	case 1:
		return layer.Vector(dims[0]), nil
	case 2:
		return layer.Shape{Height: dims[0], Width: dims[1], Maps: 1}, nil
	case 3:
		return layer.Shape{Height: dims[0], Width: dims[1], Maps: dims[2]}, nil
	}
	return layer.Shape{}, fmt.Errorf("shape %v has more than three dimensions", dims)
}

func byteOf(name string, v int) (byte, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s %d out of range", name, v)
	}
	return byte(v), nil
}

func combiner(l *Layer) (layer.Layer, error) {
	repeat := l.Repeat
	if repeat == 0 {
		repeat = 1
	}
	switch l.Type {
	case TypeMajPool2D:
		return majpool2d.New(l.Width, l.Height, l.Subwidth, l.Subheight, repeat)
	case TypeConv2D:
		return conv2d.New(l.Width, l.Height, l.Subwidth, l.Subheight, repeat)
	case TypeFull:
		bits, err := byteOf("bits", l.Bits)
		if err != nil {
			return nil, err
		}
		maxbits, err := byteOf("maxbits", l.Maxbits)
		if err != nil {
			return nil, err
		}
		return full.New(l.Size, bits, maxbits)
	case TypeSum:
		if l.Axis < 0 {
			return nil, fmt.Errorf("axis %d is negative", l.Axis)
		}
		dims := make([]uint, len(l.Dims))
		for i, d := range l.Dims {
			if d <= 0 {
				return nil, fmt.Errorf("dims %v has a non positive dimension", l.Dims)
			}
			dims[i] = uint(d)
		}
		return sum.New(dims, uint(l.Axis))
	case TypeParity:
		return parity.New(l.Size)
	case TypeSochastic:
		maxbits, err := byteOf("maxbits", l.Maxbits)
		if err != nil {
			return nil, err
		}
		return sochastic.New(l.Size, l.Outputs, maxbits, uint32(l.Seed))
	case TypeCrossAttention:
		heads := l.Heads
		if heads == 0 {
			heads = 1
		}
		return crossattention.New(l.Dim, heads)
	}
	return nil, fmt.Errorf("unknown type %q", l.Type)
}
