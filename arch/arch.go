// Package arch reads model architectures written in HCL and turns them into feedforward networks.
//
// An architecture names the model, declares its input and classes and lists the layers in order:
//
//	model "digits" {
//	  classes = ["zero", "one"]
//	  input {
//	    shape = [28, 28]
//	  }
//	  layer "hash1" {
//	    type      = "hashtron"
//	    size      = 27 * 27
//	    premodulo = pow(2, 16)
//	    shape     = [27, 27]
//	  }
//	  layer "conv1" {
//	    type      = "conv2d"
//	    width     = 27
//	    height    = 27
//	    subwidth  = 3
//	    subheight = 3
//	  }
//	}
package arch

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// InputLayer is the name under which the model input is described and traced.
const InputLayer = "input"

// Input scaling modes
const (
	ScaleNone   = "none"
	ScaleMinMax = "minmax"
)

// Layer types
const (
	TypeHashtron       = "hashtron"
	TypeMajPool2D      = "majpool2d"
	TypeConv2D         = "conv2d"
	TypeFull           = "full"
	TypeSum            = "sum"
	TypeParity         = "parity"
	TypeSochastic      = "sochastic"
	TypeCrossAttention = "crossattention"
)

type file struct {
	Model *Architecture `hcl:"model,block"`
}

// Architecture is a decoded model definition.
type Architecture struct {
	Name    string   `hcl:"name,label" json:"name"`
	Classes []string `hcl:"classes,optional" json:"classes,omitempty"`
	Input   *Input   `hcl:"input,block" json:"input"`
	Layers  []*Layer `hcl:"layer,block" json:"layers"`
}

// Input describes the samples fed to the network.
type Input struct {
	Shape []int  `hcl:"shape" json:"shape"`
	Scale string `hcl:"scale,optional" json:"scale,omitempty"`
}

// Layer is one layer block. Which attributes matter depends on Type.
type Layer struct {
	Name string `hcl:"name,label" json:"-"`
	Type string `hcl:"type" json:"type"`

	// hashtron
	Size      int   `hcl:"size,optional" json:"size,omitempty"`
	Bits      int   `hcl:"bits,optional" json:"bits,omitempty"`
	Premodulo int64 `hcl:"premodulo,optional" json:"premodulo,omitempty"`
	Shape     []int `hcl:"shape,optional" json:"shape,omitempty"`

	// majpool2d, conv2d
	Width     int `hcl:"width,optional" json:"width,omitempty"`
	Height    int `hcl:"height,optional" json:"height,omitempty"`
	Subwidth  int `hcl:"subwidth,optional" json:"subwidth,omitempty"`
	Subheight int `hcl:"subheight,optional" json:"subheight,omitempty"`
	Repeat    int `hcl:"repeat,optional" json:"repeat,omitempty"`

	// full, sochastic
	Maxbits int   `hcl:"maxbits,optional" json:"maxbits,omitempty"`
	Outputs int   `hcl:"outputs,optional" json:"outputs,omitempty"`
	Seed    int64 `hcl:"seed,optional" json:"seed,omitempty"`

	// sum
	Dims []int `hcl:"dims,optional" json:"dims,omitempty"`
	Axis int   `hcl:"axis,optional" json:"axis,omitempty"`

	// crossattention
	Dim   int `hcl:"dim,optional" json:"dim,omitempty"`
	Heads int `hcl:"heads,optional" json:"heads,omitempty"`
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"max": stdlib.MaxFunc,
			"min": stdlib.MinFunc,
			"pow": stdlib.PowFunc,
		},
	}
}

// Load reads and validates the architecture file at path.
func Load(path string) (*Architecture, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading architecture")
	}
	return Parse(path, src)
}

// Parse decodes and validates an architecture. The filename selects the syntax:
// native HCL, or JSON for names ending in .json.
func Parse(filename string, src []byte) (*Architecture, error) {
	var f file
	if err := hclsimple.Decode(filename, src, evalContext(), &f); err != nil {
		return nil, errors.Wrapf(err, "architecture %s", filename)
	}
	if f.Model == nil {
		return nil, fmt.Errorf("architecture %s: missing model block", filename)
	}
	if err := f.Model.Validate(); err != nil {
		return nil, errors.Wrapf(err, "architecture %s", filename)
	}
	return f.Model, nil
}

// Validate checks the architecture without building it.
func (a *Architecture) Validate() error {
	if a.Input == nil {
		return fmt.Errorf("model %q: missing input block", a.Name)
	}
	if n := len(a.Input.Shape); n < 1 || n > 2 {
		return fmt.Errorf("model %q: input shape must have one or two dimensions, got %d", a.Name, n)
	}
	for _, d := range a.Input.Shape {
		if d <= 0 {
			return fmt.Errorf("model %q: input shape %v has a non positive dimension", a.Name, a.Input.Shape)
		}
	}
	switch a.Input.Scale {
	case "":
		a.Input.Scale = ScaleNone
	case ScaleNone, ScaleMinMax:
	default:
		return fmt.Errorf("model %q: unknown input scale %q", a.Name, a.Input.Scale)
	}
	if len(a.Layers) == 0 {
		return fmt.Errorf("model %q: no layers", a.Name)
	}
	if a.Layers[0].Type != TypeHashtron {
		return fmt.Errorf("model %q: first layer %q must be a hashtron layer", a.Name, a.Layers[0].Name)
	}
	for _, l := range a.Layers {
		if l.Name == InputLayer {
			return fmt.Errorf("model %q: layer name %q is reserved", a.Name, InputLayer)
		}
		if strings.Contains(l.Name, "_") {
			return fmt.Errorf("model %q: layer name %q contains an underscore", a.Name, l.Name)
		}
		switch l.Type {
		case TypeHashtron, TypeMajPool2D, TypeConv2D, TypeFull, TypeSum, TypeParity, TypeSochastic, TypeCrossAttention:
		default:
			return fmt.Errorf("layer %q: unknown type %q", l.Name, l.Type)
		}
	}
	return nil
}

// InputConfig reports the input as (length, channels): a one dimensional input has one channel.
func (a *Architecture) InputConfig() (length, channels int) {
	length = a.Input.Shape[0]
	channels = 1
	if len(a.Input.Shape) > 1 {
		channels = a.Input.Shape[1]
	}
	return
}

// ClassNames returns the class labels, or nil when the model does not name them.
func (a *Architecture) ClassNames() []string {
	return a.Classes
}
