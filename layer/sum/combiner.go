package sum

// Put inserts a boolean at position n.
func (f *Sum) Put(n int, v bool) {
	f.vec[n].Store(v)
}

// Feature returns the n-th feature from the combiner, the count of set bits
// along the summed axis. Next layer reads its inputs using this method for hashtron n in the next layer.
func (f *Sum) Feature(n int) (o uint32) {
	lo := uint(n) % f.inner
	hi := uint(n) / f.inner
	start := hi*f.inner*f.dim + lo
	for j := uint(0); j < f.dim; j++ {
		pos := start + j*f.inner
		if pos >= uint(len(f.vec)) {
			return
		}
		if f.vec[pos].Load() {
			o++
		}
	}
	return
}
