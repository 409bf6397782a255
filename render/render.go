// Package render draws layer activations and input samples as PNG images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"

	"github.com/neurlang/quiver/net/feedforward"
	"github.com/neurlang/quiver/signal"
)

// MaxChannels is the widest sample still drawn as a timeseries, one line per channel.
const MaxChannels = 8

// Options are the image sizes. Charts are Width×Height pixels, heatmaps
// are scaled up Scale times.
type Options struct {
	Width  int `mapstructure:"width" validate:"min=64"`
	Height int `mapstructure:"height" validate:"min=64"`
	Scale  int `mapstructure:"scale" validate:"min=1,max=64"`
}

// DefaultOptions suit the dashboard layout
var DefaultOptions = Options{Width: 512, Height: 256, Scale: 8}

var palette = []drawing.Color{chart.ColorBlue, chart.ColorRed, chart.ColorGreen, chart.ColorAlternateGray}

// IsHeatmap reports whether a grid of height×width values is drawn as an image
func IsHeatmap(height, width int) bool {
	return (height > 1 && width > 1) || height*width < 2
}

// Activation draws map m of act, as a heatmap for two dimensional outputs and a chart otherwise.
func (o Options) Activation(w io.Writer, act feedforward.Activation, m int) error {
	if m < 0 || m >= act.Shape.Maps {
		return errors.Errorf("layer %s has no map %d", act.Layer, m)
	}
	if IsHeatmap(act.Shape.Height, act.Shape.Width) {
		return o.Heatmap(w, act, m)
	}
	return o.Series(w, act, m)
}

// Heatmap draws map m of act as a grayscale image, white for 1.
func (o Options) Heatmap(w io.Writer, act feedforward.Activation, m int) error {
	s := act.Shape
	img := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.SetGray(x, y, gray(act.At(y, x, m), 0, 1))
		}
	}
	return o.encode(w, img)
}

// Series draws map m of act as a line chart over the cell index.
func (o Options) Series(w io.Writer, act feedforward.Activation, m int) error {
	ys := act.Map(m)
	graph := o.chart(0, 1, chart.ContinuousSeries{
		Name:    fmt.Sprintf("%s/%d", act.Layer, m),
		XValues: index(len(ys)),
		YValues: ys,
		Style:   stroke(0),
	})
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering chart")
}

// Sample draws an input preview: an image for wide samples, a chart per channel for timeseries.
func (o Options) Sample(w io.Writer, s *signal.Sample) error {
	lo, hi := s.Range()
	if s.Width > MaxChannels || s.Height < 2 {
		img := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				img.SetGray(x, y, gray(s.At(y, x), lo, hi))
			}
		}
		return o.encode(w, img)
	}
	if hi <= lo {
		hi = lo + 1
	}
	var series []chart.Series
	for c := 0; c < s.Width; c++ {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("channel %d", c),
			XValues: index(s.Height),
			YValues: s.Channel(c),
			Style:   stroke(c),
		})
	}
	graph := o.chart(lo, hi, series...)
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering chart")
}

func (o Options) chart(lo, hi float64, series ...chart.Series) chart.Chart {
	return chart.Chart{
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 12, Left: 12, Right: 12, Bottom: 12}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series:     series,
	}
}

func stroke(i int) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: palette[i%len(palette)],
	}
}

func index(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func gray(v, lo, hi float64) color.Gray {
	if hi <= lo {
		return color.Gray{}
	}
	v = (v - lo) / (hi - lo)
	switch {
	case v <= 0:
		return color.Gray{}
	case v >= 1:
		return color.Gray{Y: 255}
	}
	return color.Gray{Y: uint8(v*255 + 0.5)}
}

// encode scales img up by the configured factor and writes it as PNG.
func (o Options) encode(w io.Writer, img *image.Gray) error {
	scale := o.Scale
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return errors.Wrap(png.Encode(w, dst), "encoding png")
}
