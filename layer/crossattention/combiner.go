package crossattention

import "github.com/neurlang/quiver/layer"

// CrossAttention scores every position against the opposite parity of its head
type CrossAttention struct {
	layer.Bits
	dim int
}

// Feature counts the set positions of the other parity in the head of n,
// provided n itself is set. An unset position scores zero.
func (f *CrossAttention) Feature(n int) (o uint32) {
	if n < 0 || n >= len(f.Bits) || !f.Bits[n] {
		return 0
	}
	head := (n / f.dim) * f.dim
	for x := ((n - head) & 1) ^ 1; x < f.dim; x += 2 {
		if f.Bits[head+x] {
			o++
		}
	}
	return
}
