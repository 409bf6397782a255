// Package layer defines the combiner and layer interfaces
package layer

// Combiner combines input booleans, stores them internally, and combines them to form output features.
type Combiner interface {

	// Put inserts a boolean at position n.
	Put(n int, v bool)

	// Feature returns the n-th feature from the combiner. Next layer reads
	// its inputs using this method for hashtron n in the next layer.
	Feature(n int) (o uint32)
}

// Features reads all features of combiner c laid out by layer l
func Features(l Layer, c Combiner) []uint32 {
	var out = make([]uint32, l.Shape().Len())
	for i := range out {
		out[i] = c.Feature(i)
	}
	return out
}

// Bits holds the hashtron outputs put into a combiner. Hashtrons of one layer
// write distinct positions, so Put needs no locking.
type Bits []bool

// Put stores v at position n
func (b Bits) Put(n int, v bool) {
	b[n] = v
}

// Pack returns count bits starting at from, the first one most significant.
// A window reaching past the end packs to zero.
func (b Bits) Pack(from, count int) (o uint32) {
	if from < 0 || from+count > len(b) {
		return 0
	}
	for _, v := range b[from : from+count] {
		o <<= 1
		if v {
			o |= 1
		}
	}
	return
}

// Count returns how many of the count bits starting at from are set
func (b Bits) Count(from, count int) (o uint32) {
	if from < 0 || from+count > len(b) {
		return 0
	}
	for _, v := range b[from : from+count] {
		if v {
			o++
		}
	}
	return
}
