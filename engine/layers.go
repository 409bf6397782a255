package engine

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/neurlang/quiver/arch"
	"github.com/neurlang/quiver/cache"
	"github.com/neurlang/quiver/net/feedforward"
)

// LayerOutputs renders the output of layer for input, one image per map, and
// returns the file names in the temp folder. The input layer renders the sample itself.
func (e *Engine) LayerOutputs(ctx context.Context, layer, input string) ([]string, error) {
	if !cache.ValidName(layer) {
		return nil, errors.Wrapf(ErrInvalidName, "layer %q", layer)
	}
	if layer != arch.InputLayer && e.net.Index(layer) < 0 {
		return nil, errors.Wrapf(ErrLayerNotFound, "layer %q", layer)
	}
	stem, s, err := e.sample(input)
	if err != nil {
		return nil, err
	}
	return e.cache.Do(ctx, stem, layer, func(ctx context.Context) (int, cache.Draw, error) {
		if layer == arch.InputLayer {
			return 1, func(w io.Writer, m int) error {
				return e.opts.Render.Sample(w, s)
			}, nil
		}
		act, err := e.net.Trace(ctx, s, layer)
		if err != nil {
			if err == feedforward.ErrLayerNotFound {
				return 0, nil, errors.Wrapf(ErrLayerNotFound, "layer %q", layer)
			}
			return 0, nil, err
		}
		return act.Shape.Maps, func(w io.Writer, m int) error {
			return e.opts.Render.Activation(w, act, m)
		}, nil
	})
}
