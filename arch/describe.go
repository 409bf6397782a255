package arch

import (
	"github.com/neurlang/quiver/net/feedforward"
)

// Document is the model description consumed by the dashboard. It follows the
// layout of a Keras functional model so existing dashboards can draw the graph.
type Document struct {
	ClassName string      `json:"class_name"`
	Backend   string      `json:"backend"`
	Config    ModelConfig `json:"config"`
}

// ModelConfig lists the layers and the model ends
type ModelConfig struct {
	Name         string           `json:"name"`
	Classes      []string         `json:"classes,omitempty"`
	Layers       []LayerConfig    `json:"layers"`
	InputLayers  [][3]interface{} `json:"input_layers"`
	OutputLayers [][3]interface{} `json:"output_layers"`
}

// LayerConfig describes one layer and the layer it reads from
type LayerConfig struct {
	Name         string                 `json:"name"`
	ClassName    string                 `json:"class_name"`
	Config       map[string]interface{} `json:"config"`
	InboundNodes [][][4]interface{}     `json:"inbound_nodes"`
}

func node(name string) [][][4]interface{} {
	return [][][4]interface{}{{{name, 0, 0, map[string]interface{}{}}}}
}

func end(name string) [][3]interface{} {
	return [][3]interface{}{{name, 0, 0}}
}

// Describe documents the architecture together with the layer shapes of the built network.
func (a *Architecture) Describe(net *feedforward.FeedforwardNetwork) Document {
	inputShape := []interface{}{nil}
	for _, d := range a.Input.Shape {
		inputShape = append(inputShape, d)
	}
	length, channels := a.InputConfig()
	layers := []LayerConfig{{
		Name:      InputLayer,
		ClassName: "InputLayer",
		Config: map[string]interface{}{
			"name":              InputLayer,
			"batch_input_shape": inputShape,
			"scale":             a.Input.Scale,
			"length":            length,
			"channels":          channels,
		},
		InboundNodes: [][][4]interface{}{},
	}}

	defs := make(map[string]*Layer, len(a.Layers))
	for _, l := range a.Layers {
		defs[l.Name] = l
	}
	last := InputLayer
	for _, info := range net.Layers() {
		cfg := map[string]interface{}{
			"name":         info.Name,
			"output_shape": []interface{}{nil, info.Shape.Height, info.Shape.Width, info.Shape.Maps},
		}
		if info.Hashtrons > 0 {
			cfg["hashtrons"] = info.Hashtrons
			cfg["bits"] = info.Bits
			if info.Premodulo != 0 {
				cfg["premodulo"] = info.Premodulo
			}
		}
		if def, ok := defs[info.Name]; ok {
			for k, v := range def.attributes() {
				if _, set := cfg[k]; !set {
					cfg[k] = v
				}
			}
		}
		layers = append(layers, LayerConfig{
			Name:         info.Name,
			ClassName:    info.Class,
			Config:       cfg,
			InboundNodes: node(last),
		})
		last = info.Name
	}
	return Document{
		ClassName: "Model",
		Backend:   "hashtron",
		Config: ModelConfig{
			Name:         a.Name,
			Classes:      a.Classes,
			Layers:       layers,
			InputLayers:  end(InputLayer),
			OutputLayers: end(last),
		},
	}
}

// attributes returns the non zero attributes set on the layer block
func (l *Layer) attributes() map[string]interface{} {
	o := map[string]interface{}{"type": l.Type}
	ints := map[string]int{
		"size": l.Size, "width": l.Width, "height": l.Height, "subwidth": l.Subwidth,
		"subheight": l.Subheight, "repeat": l.Repeat, "maxbits": l.Maxbits, "outputs": l.Outputs,
		"dim": l.Dim, "heads": l.Heads,
	}
	for k, v := range ints {
		if v != 0 {
			o[k] = v
		}
	}
	if l.Type != TypeHashtron && l.Bits != 0 {
		o["bits"] = l.Bits
	}
	if l.Seed != 0 {
		o["seed"] = l.Seed
	}
	if len(l.Dims) > 0 {
		o["dims"] = l.Dims
		o["axis"] = l.Axis
	}
	if len(l.Shape) > 0 {
		o["shape"] = l.Shape
	}
	return o
}
