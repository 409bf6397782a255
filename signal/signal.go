// Package signal loads input samples stored as NumPy arrays and turns them into network inputs.
//
// A sample is either an image (height×width) or a timeseries (length×channels). Leading
// unit dimensions are dropped, so a batch of one [1, length, channels] reads as length×channels.
package signal

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrShape is returned for arrays that cannot be read as one or two dimensional samples.
var ErrShape = errors.New("sample must be one or two dimensional")

// Input scaling modes, see Quantize
const (
	ScaleNone   = "none"
	ScaleMinMax = "minmax"
)

// Sample is one input, stored row after row.
type Sample struct {
	Height int
	Width  int
	Values []float64

	bytes []byte
}

// Len returns the number of values in the sample
func (s *Sample) Len() int {
	return s.Height * s.Width
}

// At returns the value at row y, column x.
func (s *Sample) At(y, x int) float64 {
	return s.Values[y*s.Width+x]
}

// Channel returns column x, the x-th channel of a timeseries.
func (s *Sample) Channel(x int) []float64 {
	out := make([]float64, s.Height)
	for y := range out {
		out[y] = s.At(y, x)
	}
	return out
}

// Range returns the smallest and the largest value.
func (s *Sample) Range() (lo, hi float64) {
	if len(s.Values) == 0 {
		return 0, 0
	}
	lo, hi = s.Values[0], s.Values[0]
	for _, v := range s.Values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return
}

// Quantize maps the values onto bytes used as network features. ScaleNone clamps
// every value into 0..255, ScaleMinMax stretches the sample range onto 0..255.
func (s *Sample) Quantize(scale string) error {
	out := make([]byte, len(s.Values))
	switch scale {
	case "", ScaleNone:
		for i, v := range s.Values {
			out[i] = clamp(v)
		}
	case ScaleMinMax:
		lo, hi := s.Range()
		for i, v := range s.Values {
			if hi > lo {
				out[i] = clamp((v - lo) / (hi - lo) * 255)
			}
		}
	default:
		return errors.Errorf("unknown scale %q", scale)
	}
	s.bytes = out
	return nil
}

func clamp(v float64) byte {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(math.Round(v))
}

// Bytes returns the quantized values, nil before Quantize.
func (s *Sample) Bytes() []byte {
	return s.bytes
}

// Cells reports how many distinct features the sample offers
func (s *Sample) Cells() int {
	if s.Width == 1 {
		if s.Height < 4 {
			return 1
		}
		return s.Height - 3
	}
	h, w := s.Height-1, s.Width-1
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	return h * w
}

func (s *Sample) byteAt(i int) uint32 {
	if i >= len(s.bytes) {
		return 0
	}
	return uint32(s.bytes[i])
}

// Feature packs the 2×2 neighbourhood of cell n, four consecutive values for 1-D samples.
// Cells wrap around, so any n is valid. Quantize must be called first.
func (s *Sample) Feature(n int) uint32 {
	n %= s.Cells()
	if s.Width == 1 {
		return s.byteAt(n) | s.byteAt(n+1)<<8 | s.byteAt(n+2)<<16 | s.byteAt(n+3)<<24
	}
	w := s.Width - 1
	if w < 1 {
		w = 1
	}
	i := (n/w)*s.Width + n%w
	return s.byteAt(i) | s.byteAt(i+1)<<8 | s.byteAt(i+s.Width)<<16 | s.byteAt(i+1+s.Width)<<24
}

// Stem strips the file extension: "3_7.npy" becomes "3_7".
func Stem(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
