package layer

import "fmt"

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Lay creates a combiner
	Lay() Combiner

	// Inputs reports how many bits the combiner expects, one per hashtron in the preceding layer.
	Inputs() int

	// Shape reports the geometry of the features produced by the combiner.
	Shape() Shape

	// Scale reports the biggest value a feature can take. Used to normalise features into [0, 1].
	Scale() uint32
}

// Shape is the geometry of a layer output: Maps planes of Height rows and Width columns.
type Shape struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	Maps   int `json:"maps"`
}

// Len returns the number of values in the shape
func (s Shape) Len() int {
	return s.Height * s.Width * s.Maps
}

// Valid reports whether all dimensions are positive
func (s Shape) Valid() bool {
	return s.Height > 0 && s.Width > 0 && s.Maps > 0
}

// Index returns the flat position of the value at row y, column x of map m.
// Maps are stored one after another.
func (s Shape) Index(y, x, m int) int {
	return m*s.Height*s.Width + y*s.Width + x
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Maps)
}

// Vector is the shape of a one dimensional output of n values
func Vector(n int) Shape {
	return Shape{Height: 1, Width: n, Maps: 1}
}
