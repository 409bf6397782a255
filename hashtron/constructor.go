package hashtron

import "errors"
import "math/rand"

// ErrTooManyBits is returned when a hashtron would produce more output bits than Forward can hold.
var ErrTooManyBits = errors.New("hashtron: at most 16 output bits are supported")

// New creates a hashtron from program. A nil program yields a random single command program.
func New(program [][2]uint32, bits byte) (h *Hashtron, err error) {
	if bits > 16 {
		return nil, ErrTooManyBits
	}
	h = new(Hashtron)
	if bits == 0 {
		bits = 1
	}
	if program == nil {
		h.program = [][2]uint32{{rand.Uint32() >> 1, 2}}
	} else {
		h.program = program
	}
	h.bits = bits
	return
}
