package majpool2d

import "github.com/neurlang/quiver/layer"

// MajPool2D holds one submatrix of hashtron outputs per pooled cell
type MajPool2D struct {
	layer.Bits
	width, height, subwidth, subheight, repeat int
}

func (s *MajPool2D) submatrix() int {
	return s.subwidth * s.subheight
}

// Majority reports whether most bits of the m-th submatrix are set.
func (s *MajPool2D) Majority(m int) bool {
	sub := s.submatrix()
	return 2*int(s.Count(m*sub, sub)) > sub
}

// Feature returns the packed bits of the m-th submatrix, its first bit least significant.
func (s *MajPool2D) Feature(m int) (o uint32) {
	sub := s.submatrix()
	if (m+1)*sub > len(s.Bits) {
		return 0
	}
	for n, v := range s.Bits[m*sub : (m+1)*sub] {
		if v {
			o |= 1 << n
		}
	}
	return
}
