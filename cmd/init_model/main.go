package main

import "flag"
import "math/rand"
import "time"

import "github.com/schollz/progressbar/v3"

import "github.com/neurlang/quiver/arch"
import "github.com/neurlang/quiver/hashtron"
import "github.com/neurlang/quiver/log"
import "github.com/neurlang/quiver/net/feedforward"

func main() {
	src := flag.String("arch", "", "model architecture .hcl file")
	dst := flag.String("dst", "", "weights destination .json.lzw file")
	steps := flag.Int("steps", 1, "program length of every hashtron")
	seed := flag.Int64("seed", 0, "random seed, 0 seeds from the clock")
	flag.Parse()

	log.Default()

	if *src == "" || *dst == "" {
		log.Fatalf("both -arch and -dst are required")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	net, err := initialize(*src, *steps, *seed)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := net.WriteCompressedWeightsToFile(*dst); err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("wrote %d hashtrons to %s, fingerprint %s", net.Len(), *dst, net.Fingerprint())
}

// initialize builds the network described by the architecture at path and gives
// every hashtron a random program of the given length.
func initialize(path string, steps int, seed int64) (*feedforward.FeedforwardNetwork, error) {
	a, err := arch.Load(path)
	if err != nil {
		return nil, err
	}
	net, err := a.Build()
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	bar := progressbar.Default(int64(net.Len()), "initialising")
	for i := 0; i < net.Len(); i++ {
		h := net.GetHashtron(i)
		fresh, err := hashtron.New(program(rng, steps), h.Bits())
		if err != nil {
			return nil, err
		}
		*h = *fresh
		_ = bar.Add(1)
	}
	return net, nil
}

// program returns steps random salts. The maxes shrink from 2*steps down to a final
// range of 2.
func program(rng *rand.Rand, steps int) [][2]uint32 {
	if steps < 1 {
		steps = 1
	}
	p := make([][2]uint32, steps)
	for i := range p {
		p[i] = [2]uint32{rng.Uint32() >> 1, 2}
	}
	p[0][1] = uint32(2 * steps)
	return p
}
