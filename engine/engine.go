// Package engine answers the dashboard questions about one model: what it looks like,
// which inputs there are, what each layer outputs for an input and what the model predicts.
package engine

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/neurlang/quiver/arch"
	"github.com/neurlang/quiver/cache"
	"github.com/neurlang/quiver/hash"
	"github.com/neurlang/quiver/log"
	"github.com/neurlang/quiver/net/feedforward"
	"github.com/neurlang/quiver/render"
	"github.com/neurlang/quiver/signal"
)

var (
	// ErrInputNotFound is returned when the input folder has no such sample.
	ErrInputNotFound = errors.New("input not found")
	// ErrInvalidName is returned for input or layer names which are not plain file names.
	ErrInvalidName = errors.New("invalid name")
	// ErrLayerNotFound is returned when the model has no such layer.
	ErrLayerNotFound = errors.New("layer not found")
	// ErrInvalidInput is returned for samples which do not fit the model input.
	ErrInvalidInput = errors.New("input does not fit the model")
)

// Options configure an Engine.
type Options struct {
	// Classes name the model outputs, overriding the architecture classes.
	Classes []string
	// Top is the number of predictions returned.
	Top         int
	TempFolder  string
	InputFolder string
	Render      render.Options
	// Workers bounds concurrent rendering and hashtron evaluation, 0 means hash.Parallelism().
	Workers int
}

// Engine serves one model.
type Engine struct {
	arch    *arch.Architecture
	net     *feedforward.FeedforwardNetwork
	classes []string
	opts    Options
	cache   *cache.Cache
}

// New creates the engine for a built network, preparing the temp folder.
func New(a *arch.Architecture, net *feedforward.FeedforwardNetwork, opts Options) (*Engine, error) {
	if opts.Top <= 0 {
		opts.Top = 5
	}
	if opts.Workers <= 0 {
		opts.Workers = hash.Parallelism()
	}
	if opts.Render == (render.Options{}) {
		opts.Render = render.DefaultOptions
	}
	if opts.InputFolder == "" {
		opts.InputFolder = "."
	}
	net.SetParallelism(opts.Workers)
	c, err := cache.New(opts.TempFolder, net.Fingerprint(), opts.Workers)
	if err != nil {
		return nil, err
	}
	e := &Engine{arch: a, net: net, opts: opts, cache: c}
	e.classes = e.classNames()
	return e, nil
}

// Load reads the architecture and the weights and creates the engine. Without a
// weights file the network keeps its random initialisation.
func Load(architecture, weights string, opts Options) (*Engine, error) {
	a, err := arch.Load(architecture)
	if err != nil {
		return nil, err
	}
	net, err := a.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "building model %q", a.Name)
	}
	if weights == "" {
		log.Warningf("no weights given, model %q is randomly initialised", a.Name)
	} else if err := net.ReadCompressedWeightsFromFile(weights); err != nil {
		return nil, errors.Wrapf(err, "loading weights %s", weights)
	}
	log.Infof("loaded model %q: %d layers, %d hashtrons", a.Name, net.LenLayers(), net.Len())
	return New(a, net, opts)
}

// classNames resolves the class labels: configured names first, then the
// architecture names, then decimal indices for every network output value.
func (e *Engine) classNames() []string {
	if len(e.opts.Classes) > 0 {
		return e.opts.Classes
	}
	if names := e.arch.ClassNames(); len(names) > 0 {
		return names
	}
	n := int(e.net.GetClasses())
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// Classes returns the class labels in output order.
func (e *Engine) Classes() []string {
	return e.classes
}

// Cache returns the cache of rendered layer outputs.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// InputFolder returns the directory samples are read from.
func (e *Engine) InputFolder() string {
	return e.opts.InputFolder
}

// Description is the model document with the runtime details.
type Description struct {
	arch.Document
	Fingerprint string   `json:"fingerprint"`
	Top         int      `json:"top"`
	CPU         hash.CPU `json:"cpu"`
}

// Model describes the model for the dashboard.
func (e *Engine) Model() Description {
	doc := e.arch.Describe(e.net)
	doc.Config.Classes = e.classes
	return Description{
		Document:    doc,
		Fingerprint: e.net.Fingerprint(),
		Top:         e.opts.Top,
		CPU:         hash.Features(),
	}
}

// samplePath maps an input name to its .npy file: "3_7.png", "3_7.npy" and "3_7"
// all name the sample 3_7.npy.
func (e *Engine) samplePath(input string) (stem, path string, err error) {
	if !cache.ValidName(input) {
		return "", "", errors.Wrapf(ErrInvalidName, "input %q", input)
	}
	stem = signal.Stem(input)
	path = filepath.Join(e.opts.InputFolder, stem+".npy")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.Wrapf(ErrInputNotFound, "input %q", input)
		}
		return "", "", err
	}
	return stem, path, nil
}

// sample loads an input and checks it against the model input.
func (e *Engine) sample(input string) (string, *signal.Sample, error) {
	stem, path, err := e.samplePath(input)
	if err != nil {
		return "", nil, err
	}
	s, err := signal.Load(path)
	if err != nil {
		return "", nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	height, width := e.arch.Input.Shape[0], 1
	if len(e.arch.Input.Shape) > 1 {
		width = e.arch.Input.Shape[1]
	}
	if s.Height != height || s.Width != width {
		return "", nil, errors.Wrapf(ErrInvalidInput, "input %q is %dx%d, model %q expects %v",
			input, s.Height, s.Width, e.arch.Name, e.arch.Input.Shape)
	}
	if err := s.Quantize(e.arch.Input.Scale); err != nil {
		return "", nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	return stem, s, nil
}
