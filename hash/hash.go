// Package hash implements the fast modular hash evaluated by every hashtron
package hash

// Hash mixes n with the salt s and reduces the result into the range [0, max).
// A zero max yields zero.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mix input with salt using subtraction
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mix input with salt using addition
	m += s

	// multiply shift reduction by Daniel Lemire instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Chain hashes n through the (salt, max) program the way a hashtron does:
// the first step reduces into its max, every later step shrinks the range by its own max.
func Chain(n uint32, program [][2]uint32) uint32 {
	if len(program) == 0 {
		return n
	}
	var maxx = program[0][1]
	n = Hash(n, program[0][0], maxx)
	for _, step := range program[1:] {
		maxx -= step[1]
		n = Hash(n, step[0], maxx)
	}
	return n
}
