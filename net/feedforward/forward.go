package feedforward

import "context"
import "errors"

import "github.com/neurlang/quiver/hash"
import "github.com/neurlang/quiver/layer"
import "github.com/neurlang/quiver/parallel"

// ErrLayerNotFound is returned when a layer name is not part of the network
var ErrLayerNotFound = errors.New("layer not found")

// ErrEmptyNetwork is returned when inferring on a network without layers
var ErrEmptyNetwork = errors.New("network has no layers")

// forward evaluates every hashtron of layer l on its input feature and returns the raw outputs.
func (f FeedforwardNetwork) forward(in FeedforwardNetworkInput, l int) Values {
	e := &f.layers[l]
	out := make(Values, len(e.hashtrons))
	parallel.ForEach(len(e.hashtrons), f.Parallelism(), func(i int) {
		var feat = in.Feature(i)
		if e.premodulo != 0 {
			feat = hash.Hash(feat, uint32(i), e.premodulo)
		}
		out[i] = uint32(e.hashtrons[i].Forward(feat, false))
	})
	return out
}

// Forward solves the intermediate value (net output after hashtron layer l and its
// combiner, if any) based on that layer's input in.
func (f FeedforwardNetwork) Forward(in FeedforwardNetworkInput, l int) FeedforwardNetworkInput {
	values := f.forward(in, l)
	if l+1 < len(f.layers) && f.layers[l+1].isCombiner() {
		combiner := f.layers[l+1].combiner.Lay()
		for i, v := range values {
			combiner.Put(i, v&1 != 0)
		}
		return combiner
	}
	return values
}

// Infer infers the network output based on input
func (f FeedforwardNetwork) Infer(in FeedforwardNetworkInput) (uint32, error) {
	if len(f.layers) == 0 {
		return 0, ErrEmptyNetwork
	}
	out := in
	for l := range f.layers {
		if f.layers[l].isCombiner() {
			continue
		}
		out = f.Forward(out, l)
	}
	return f.pack(out), nil
}

func (f FeedforwardNetwork) pack(out FeedforwardNetworkInput) (val uint32) {
	last := &f.layers[len(f.layers)-1]
	if !last.isCombiner() && len(last.hashtrons) == 1 {
		return out.Feature(0)
	}
	for j := 0; j < int(f.OutputBits()); j++ {
		val |= (out.Feature(j) & 1) << uint(j)
	}
	return
}

// Activation is the output of one layer, normalised into [0, 1] and laid out by Shape
type Activation struct {
	Layer  string      `json:"layer"`
	Class  string      `json:"class_name"`
	Shape  layer.Shape `json:"shape"`
	Values []float64   `json:"values"`
}

// At returns the value at row y, column x of map m
func (a Activation) At(y, x, m int) float64 {
	return a.Values[a.Shape.Index(y, x, m)]
}

// Map returns the values of map m, row after row
func (a Activation) Map(m int) []float64 {
	n := a.Shape.Height * a.Shape.Width
	return a.Values[m*n : (m+1)*n]
}

func normalise(raw []uint32, scale uint32) []float64 {
	out := make([]float64, len(raw))
	if scale == 0 {
		return out
	}
	for i, v := range raw {
		if v > scale {
			v = scale
		}
		out[i] = float64(v) / float64(scale)
	}
	return out
}

// Trace pushes in through the network up to and including the layer called name,
// returning that layer's output.
func (f FeedforwardNetwork) Trace(ctx context.Context, in FeedforwardNetworkInput, name string) (Activation, error) {
	target := f.Index(name)
	if target < 0 {
		return Activation{}, ErrLayerNotFound
	}
	var found Activation
	err := f.walk(ctx, in, func(l int, a Activation) bool {
		if l == target {
			found = a
			return false
		}
		return true
	})
	return found, err
}

// Activations returns the output of every layer for input in.
func (f FeedforwardNetwork) Activations(ctx context.Context, in FeedforwardNetworkInput) (o []Activation, err error) {
	err = f.walk(ctx, in, func(l int, a Activation) bool {
		o = append(o, a)
		return true
	})
	return
}

// walk evaluates layers in order, handing each activation to yield until it returns false.
func (f FeedforwardNetwork) walk(ctx context.Context, in FeedforwardNetworkInput, yield func(l int, a Activation) bool) error {
	if len(f.layers) == 0 {
		return ErrEmptyNetwork
	}
	out := in
	for l := 0; l < len(f.layers); l++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := &f.layers[l]
		if e.isCombiner() {
			continue
		}
		values := f.forward(out, l)
		act := Activation{
			Layer:  e.name,
			Class:  "Hashtron",
			Shape:  e.shape,
			Values: normalise(values, uint32(1)<<e.bits-1),
		}
		if !yield(l, act) {
			return nil
		}
		out = values
		if l+1 < len(f.layers) && f.layers[l+1].isCombiner() {
			next := &f.layers[l+1]
			combiner := next.combiner.Lay()
			for i, v := range values {
				combiner.Put(i, v&1 != 0)
			}
			act := Activation{
				Layer:  next.name,
				Class:  ClassOf(next.combiner),
				Shape:  next.shape,
				Values: normalise(layer.Features(next.combiner, combiner), next.combiner.Scale()),
			}
			if !yield(l+1, act) {
				return nil
			}
			out = combiner
		}
	}
	return nil
}
