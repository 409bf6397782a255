package signal

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Load reads the sample stored in the .npy file at path.
func Load(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "sample %s", path)
	}
	return s, nil
}

// Read decodes a NumPy array into a sample.
func Read(r io.Reader) (*Sample, error) {
	rd, err := npyio.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading npy header")
	}
	descr := rd.Header.Descr
	values, err := readValues(rd, descr.Type)
	if err != nil {
		return nil, err
	}
	shape := squeeze(descr.Shape)
	if len(shape) > 2 && descr.Fortran {
		return nil, errors.Wrapf(ErrShape, "fortran ordered shape %v", descr.Shape)
	}
	for len(shape) > 2 {
		// first element along the leading axis
		shape = shape[1:]
	}
	s := &Sample{Height: 1, Width: 1}
	switch len(shape) {
	case 0:
	case 1:
		s.Height = shape[0]
	case 2:
		s.Height, s.Width = shape[0], shape[1]
	}
	if s.Len() == 0 {
		return nil, errors.Wrapf(ErrShape, "empty shape %v", descr.Shape)
	}
	if len(values) < s.Len() {
		return nil, errors.Errorf("npy: %d values for shape %v", len(values), descr.Shape)
	}
	values = values[:s.Len()]
	if descr.Fortran && s.Width > 1 {
		values = transpose(values, s.Width, s.Height)
	}
	s.Values = values
	return s, nil
}

func squeeze(shape []int) []int {
	for len(shape) > 1 && shape[0] == 1 {
		shape = shape[1:]
	}
	return shape
}

// transpose turns a rows×cols matrix stored row after row into its cols×rows transpose.
func transpose(v []float64, rows, cols int) []float64 {
	out := make([]float64, len(v))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = v[r*cols+c]
		}
	}
	return out
}

func readValues(rd *npyio.Reader, dtype string) ([]float64, error) {
	switch strings.TrimLeft(dtype, "<>|=") {
	case "f8":
		var v []float64
		err := rd.Read(&v)
		return v, err
	case "f4":
		var v []float32
		err := rd.Read(&v)
		return widen(v), err
	case "u1":
		var v []uint8
		err := rd.Read(&v)
		return widen(v), err
	case "i1":
		var v []int8
		err := rd.Read(&v)
		return widen(v), err
	case "u2":
		var v []uint16
		err := rd.Read(&v)
		return widen(v), err
	case "i2":
		var v []int16
		err := rd.Read(&v)
		return widen(v), err
	case "u4":
		var v []uint32
		err := rd.Read(&v)
		return widen(v), err
	case "i4":
		var v []int32
		err := rd.Read(&v)
		return widen(v), err
	case "u8":
		var v []uint64
		err := rd.Read(&v)
		return widen(v), err
	case "i8":
		var v []int64
		err := rd.Read(&v)
		return widen(v), err
	case "b1":
		var v []bool
		if err := rd.Read(&v); err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, b := range v {
			if b {
				out[i] = 1
			}
		}
		return out, nil
	}
	return nil, errors.Errorf("npy: unsupported dtype %q", dtype)
}

type number interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32
}

func widen[T number](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// Write encodes values as a float64 NumPy array of the given shape. Leading unit
// dimensions are dropped; what remains must be a vector or a matrix.
func Write(w io.Writer, values []float64, shape []int) error {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != len(values) || n == 0 {
		return errors.Errorf("npy: shape %v does not hold %d values", shape, len(values))
	}
	switch dims := squeeze(shape); len(dims) {
	case 1:
		return npyio.Write(w, values)
	case 2:
		return npyio.Write(w, mat.NewDense(dims[0], dims[1], values))
	default:
		return errors.Errorf("npy: cannot write %d dimensional shape %v", len(dims), shape)
	}
}

// Save writes values with the given shape to the .npy file at path.
func Save(path string, values []float64, shape []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, values, shape); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}
