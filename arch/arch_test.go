package arch

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDigits(t *testing.T) {
	a, err := Load("testdata/digits.hcl")
	require.NoError(t, err)
	assert.Equal(t, "digits", a.Name)
	assert.Len(t, a.Classes, 10)
	assert.Equal(t, ScaleNone, a.Input.Scale)
	assert.Equal(t, int64(1<<16), a.Layers[0].Premodulo)
	assert.Equal(t, 5, a.Layers[6].Size)

	length, channels := a.InputConfig()
	assert.Equal(t, 28, length)
	assert.Equal(t, 28, channels)

	net, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, 8, net.LenLayers())
	assert.Equal(t, 729+625+25+5, net.Len())
	assert.Equal(t, byte(5), net.OutputBits())
}

func TestLoadSignal(t *testing.T) {
	a, err := Load("testdata/signal.hcl")
	require.NoError(t, err)
	assert.Equal(t, ScaleMinMax, a.Input.Scale)

	net, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, byte(2), net.OutputBits())

	length, channels := a.InputConfig()
	assert.Equal(t, 64, length)
	assert.Equal(t, 3, channels)
}

func TestDescribe(t *testing.T) {
	a, err := Load("testdata/digits.hcl")
	require.NoError(t, err)
	net, err := a.Build()
	require.NoError(t, err)

	doc := a.Describe(net)
	assert.Equal(t, "Model", doc.ClassName)
	require.Len(t, doc.Config.Layers, 9)
	assert.Equal(t, "InputLayer", doc.Config.Layers[0].ClassName)
	assert.Equal(t, "Conv2D", doc.Config.Layers[2].ClassName)
	assert.Equal(t, "hash1", doc.Config.Layers[2].InboundNodes[0][0][0])
	assert.Equal(t, "digits", doc.Config.OutputLayers[0][0])
	assert.Equal(t, 3, doc.Config.Layers[2].Config["subwidth"])

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &back))
	cfg := back["config"].(map[string]interface{})
	assert.Equal(t, "digits", cfg["name"])
	assert.Len(t, cfg["layers"], 9)
}

func TestParseJSON(t *testing.T) {
	src := `{"model": {"digits": {
		"input": {"shape": [4]},
		"layer": {"h": {"type": "hashtron", "size": 3}}
	}}}`
	a, err := Parse("model.json", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "digits", a.Name)
	require.Len(t, a.Layers, 1)
	assert.Equal(t, 3, a.Layers[0].Size)
}

const header = `model "m" {
  input {
    shape = [2]
  }
`

func hashtronBlock(name string, size int) string {
	return fmt.Sprintf(`  layer %q {
    type = "hashtron"
    size = %d
  }
`, name, size)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":   `model "m" {`,
		"no model": ``,
		"no input": `model "m" {
  layer "h" {
    type = "hashtron"
  }
}`,
		"bad input": `model "m" {
  input {
    shape = [1, 2, 3]
  }
` + hashtronBlock("h", 1) + `}`,
		"zero input": `model "m" {
  input {
    shape = [0]
  }
` + hashtronBlock("h", 1) + `}`,
		"bad scale": `model "m" {
  input {
    shape = [2]
    scale = "log"
  }
` + hashtronBlock("h", 1) + `}`,
		"no layers": header + `}`,
		"combiner first": header + `  layer "p" {
    type = "parity"
    size = 1
  }
}`,
		"unknown type": header + hashtronBlock("h", 1) + `  layer "x" {
    type = "lstm"
  }
}`,
		"reserved name": header + hashtronBlock("input", 1) + `}`,
		"underscore":    header + hashtronBlock("hash_1", 1) + `}`,
		"fraction": header + `  layer "h" {
    type = "hashtron"
    size = 1.5
  }
}`,
	}
	for name, src := range cases {
		_, err := Parse("model.hcl", []byte(src))
		assert.Error(t, err, name)
	}

	_, err := Parse("model.hcl", []byte(header+hashtronBlock("h", 1)+`}`))
	assert.NoError(t, err)
}

func TestBuildRejects(t *testing.T) {
	cases := map[string]string{
		"size mismatch": header + hashtronBlock("h", 4) + `  layer "p" {
    type      = "majpool2d"
    width     = 2
    height    = 2
    subwidth  = 2
    subheight = 2
  }
}`,
		"bits": header + `  layer "h" {
    type = "hashtron"
    size = 1
    bits = 17
  }
}`,
		"shape": header + `  layer "h" {
    type  = "hashtron"
    size  = 4
    shape = [2, 3]
  }
}`,
		"sum axis": header + hashtronBlock("h", 4) + `  layer "s" {
    type = "sum"
    dims = [2, 2]
    axis = 2
  }
}`,
		"duplicate": header + hashtronBlock("h", 1) + hashtronBlock("h", 1) + `}`,
	}
	for name, src := range cases {
		a, err := Parse("model.hcl", []byte(src))
		require.NoError(t, err, name)
		_, err = a.Build()
		assert.Error(t, err, name)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("testdata/missing.hcl")
	assert.Error(t, err)
}

func TestBuildCrossAttention(t *testing.T) {
	src := header + hashtronBlock("h", 8) + `  layer "attn" {
    type  = "crossattention"
    dim   = 4
    heads = 2
  }
` + hashtronBlock("out", 8) + `}`
	a, err := Parse("model.hcl", []byte(src))
	require.NoError(t, err)
	net, err := a.Build()
	require.NoError(t, err)
	layers := net.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, "CrossAttention", layers[1].Class)
	assert.Equal(t, 8, layers[1].Shape.Len())

	doc := a.Describe(net)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"heads":2`)

	bad := header + hashtronBlock("h", 8) + `  layer "attn" {
    type = "crossattention"
    dim  = 1
  }
}`
	a, err = Parse("model.hcl", []byte(bad))
	require.NoError(t, err)
	_, err = a.Build()
	assert.Error(t, err)
}
