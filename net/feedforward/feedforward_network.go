// Package feedforward implements a feedforward network type
package feedforward

import "fmt"
import "reflect"
import "strings"

import "github.com/neurlang/quiver/hash"
import "github.com/neurlang/quiver/hashtron"
import "github.com/neurlang/quiver/layer"

// FeedforwardNetworkInput is one individual input to the feedforward network
type FeedforwardNetworkInput interface {
	Feature(n int) uint32
}

// SingleValue is a single value returned by the final layer
type SingleValue uint32

// Feature extracts the feature from SingleValue
func (v SingleValue) Feature(n int) uint32 {
	return uint32(v)
}

// Values are the outputs of a hashtron layer which is not followed by a combiner
type Values []uint32

// Feature extracts n-th output, wrapping around
func (v Values) Feature(n int) uint32 {
	if len(v) == 0 {
		return 0
	}
	return v[n%len(v)]
}

// Hashtron layer or combiner layer
type entry struct {
	name      string
	hashtrons []hashtron.Hashtron
	bits      byte
	premodulo uint32
	shape     layer.Shape
	combiner  layer.Layer
}

func (e *entry) isCombiner() bool {
	return e.combiner != nil
}

// FeedforwardNetwork is the feedforward network. Hashtron layers are optionally
// followed by a combiner which turns their bits into the features of the next layer.
type FeedforwardNetwork struct {
	layers  []entry
	index   map[string]int
	workers int
}

// SetParallelism bounds how many hashtrons of a layer are evaluated at once.
// Zero or less restores hash.Parallelism().
func (f *FeedforwardNetwork) SetParallelism(workers int) {
	f.workers = max(workers, 0)
}

// Parallelism reports the bound set with SetParallelism.
func (f FeedforwardNetwork) Parallelism() int {
	if f.workers > 0 {
		return f.workers
	}
	return hash.Parallelism()
}

// Len returns the number of hashtrons inside the network.
func (f FeedforwardNetwork) Len() (o int) {
	for i := range f.layers {
		o += len(f.layers[i].hashtrons)
	}
	return
}

// LenLayers returns the number of layers. Each Layer and Combiner counts as a layer here.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetHashtron gets n-th hashtron pointer in the network.
func (f FeedforwardNetwork) GetHashtron(n int) *hashtron.Hashtron {
	for i := range f.layers {
		if n < len(f.layers[i].hashtrons) {
			return &f.layers[i].hashtrons[n]
		}
		n -= len(f.layers[i].hashtrons)
	}
	return nil
}

// Index returns the position of the layer called name, or -1.
func (f FeedforwardNetwork) Index(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}

func (f *FeedforwardNetwork) add(e entry) error {
	if e.name == "" {
		return fmt.Errorf("layer %d: empty name", len(f.layers))
	}
	if strings.ContainsAny(e.name, "/\\") || strings.HasPrefix(e.name, ".") {
		return fmt.Errorf("layer %q: name must not contain path separators or start with a dot", e.name)
	}
	if _, ok := f.index[e.name]; ok {
		return fmt.Errorf("layer %q: duplicate name", e.name)
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	f.index[e.name] = len(f.layers)
	f.layers = append(f.layers, e)
	return nil
}

// NewLayer adds a hashtron layer to the end of network with n hashtrons, each producing bits bits,
// and input feature pre-modulo. Shape lays the outputs out for display, the zero Shape means a vector.
func (f *FeedforwardNetwork) NewLayer(name string, n int, bits byte, premodulo uint32, shape layer.Shape) error {
	if n <= 0 {
		return fmt.Errorf("layer %q: needs at least one hashtron", name)
	}
	if bits == 0 {
		bits = 1
	}
	if shape == (layer.Shape{}) {
		shape = layer.Vector(n)
	}
	if shape.Len() != n {
		return fmt.Errorf("layer %q: shape %s does not hold %d hashtrons", name, shape, n)
	}
	var l = make([]hashtron.Hashtron, n)
	for i := range l {
		h, err := hashtron.New(nil, bits)
		if err != nil {
			return fmt.Errorf("layer %q: %v", name, err)
		}
		l[i] = *h
	}
	if len(f.layers) > 0 {
		prev := &f.layers[len(f.layers)-1]
		if prev.isCombiner() && prev.combiner.Shape().Len() != n {
			return fmt.Errorf("layer %q: %d hashtrons but combiner %q produces %d features",
				name, n, prev.name, prev.combiner.Shape().Len())
		}
	}
	return f.add(entry{name: name, hashtrons: l, bits: bits, premodulo: premodulo, shape: shape})
}

// NewCombiner adds a combiner layer to the end of network
func (f *FeedforwardNetwork) NewCombiner(name string, l layer.Layer) error {
	if len(f.layers) == 0 || f.layers[len(f.layers)-1].isCombiner() {
		return fmt.Errorf("combiner %q: must follow a hashtron layer", name)
	}
	prev := &f.layers[len(f.layers)-1]
	if l.Inputs() != len(prev.hashtrons) {
		return fmt.Errorf("combiner %q: expects %d inputs but layer %q has %d hashtrons",
			name, l.Inputs(), prev.name, len(prev.hashtrons))
	}
	if !l.Shape().Valid() {
		return fmt.Errorf("combiner %q: invalid output shape %s", name, l.Shape())
	}
	return f.add(entry{name: name, combiner: l, shape: l.Shape()})
}

// Info describes one layer of the network
type Info struct {
	Name      string      `json:"name"`
	Class     string      `json:"class_name"`
	Hashtrons int         `json:"hashtrons,omitempty"`
	Bits      byte        `json:"bits,omitempty"`
	Premodulo uint32      `json:"premodulo,omitempty"`
	Shape     layer.Shape `json:"output_shape"`
	Inbound   string      `json:"inbound,omitempty"`
}

// ClassOf names the combiner type, for instance MajPool2D.
func ClassOf(l layer.Layer) string {
	t := reflect.TypeOf(l)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.TrimSuffix(t.Name(), "Layer")
}

// Layers describes the layers in order
func (f FeedforwardNetwork) Layers() (o []Info) {
	for i := range f.layers {
		e := &f.layers[i]
		info := Info{Name: e.name, Shape: e.shape}
		if i > 0 {
			info.Inbound = f.layers[i-1].name
		}
		if e.isCombiner() {
			info.Class = ClassOf(e.combiner)
		} else {
			info.Class = "Hashtron"
			info.Hashtrons = len(e.hashtrons)
			info.Bits = e.bits
			info.Premodulo = e.premodulo
		}
		o = append(o, info)
	}
	return
}

// OutputBits reports the number of bits in the value returned by Infer
func (f FeedforwardNetwork) OutputBits() byte {
	if len(f.layers) == 0 {
		return 0
	}
	last := &f.layers[len(f.layers)-1]
	var n int
	if last.isCombiner() {
		n = last.shape.Len()
	} else if len(last.hashtrons) == 1 {
		n = int(last.bits)
	} else {
		n = len(last.hashtrons)
	}
	if n > 16 {
		n = 16
	}
	return byte(n)
}

// GetClasses reports the number of classes the network can distinguish
func (f FeedforwardNetwork) GetClasses() uint32 {
	return 1 << f.OutputBits()
}
