package hashtron

import "github.com/neurlang/quiver/hash"

// Forward evaluates the hashtron on command. Output bit j is the low bit of
// the program applied to command with j placed in the upper half word.
func (h Hashtron) Forward(command uint32, negate bool) (out uint16) {
	if h.Len() == 0 {
		return
	}
	for j := byte(0); j < h.Bits(); j++ {
		var input = hash.Chain(command|(uint32(j)<<16), h.program)
		input &= 1
		if negate {
			input ^= 1
		}
		if input != 0 {
			out |= 1 << j
		}
	}
	return
}
