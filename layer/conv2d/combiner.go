package conv2d

import "github.com/neurlang/quiver/layer"

// Conv2D counts set bits under a sliding window, separately for every map
type Conv2D struct {
	layer.Bits
	width, height, subwidth, subheight, repeat int
}

// Feature returns the number of set bits in the n-th window. Windows are
// numbered row by row within a map, maps one after another.
func (f *Conv2D) Feature(n int) (o uint32) {
	outw := f.width - f.subwidth + 1
	block := outw * (f.height - f.subheight + 1)
	m := n / block
	if m >= f.repeat {
		return 0
	}
	y, x := (n%block)/outw, (n%block)%outw
	base := m*f.width*f.height + y*f.width + x
	for row := 0; row < f.subheight; row++ {
		o += f.Count(base+row*f.width, f.subwidth)
	}
	return
}
