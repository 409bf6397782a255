// Package mnist reads the MNIST handwritten digit files in their gzipped idx format.
package mnist

import "bufio"
import "compress/gzip"
import "crypto/sha256"
import "encoding/binary"
import "encoding/hex"
import "fmt"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"

// ImgSize is the width and height of one digit
const ImgSize = 28

const inferSetImg = "t10k-images-idx3-ubyte.gz"
const inferSetVal = "t10k-labels-idx1-ubyte.gz"
const trainSetImg = "train-images-idx3-ubyte.gz"
const trainSetVal = "train-labels-idx1-ubyte.gz"

// Digests are the sha256 sums of the published files
var Digests = map[string]string{
	inferSetImg: "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6",
	inferSetVal: "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6",
	trainSetImg: "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609",
	trainSetVal: "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c",
}

const imagesMagic = 0x00000803
const labelsMagic = 0x00000801

// ErrChecksum is returned when a file does not match its published digest
var ErrChecksum = errors.New("mnist: checksum mismatch")

// Image is one digit, row after row
type Image [ImgSize * ImgSize]byte

// Set is a list of digits with their labels
type Set struct {
	Images []Image
	Labels []byte
}

// Len returns the number of digits
func (s *Set) Len() int {
	return len(s.Images)
}

// Load reads the test set, or the train set, from dir. With verify the files
// are checked against Digests first.
func Load(dir string, train, verify bool) (*Set, error) {
	img, val := inferSetImg, inferSetVal
	if train {
		img, val = trainSetImg, trainSetVal
	}
	var set Set
	err := readFile(filepath.Join(dir, img), verify, func(r io.Reader) (err error) {
		set.Images, err = ReadImages(r)
		return
	})
	if err != nil {
		return nil, err
	}
	err = readFile(filepath.Join(dir, val), verify, func(r io.Reader) (err error) {
		set.Labels, err = ReadLabels(r)
		return
	})
	if err != nil {
		return nil, err
	}
	if len(set.Images) != len(set.Labels) {
		return nil, fmt.Errorf("mnist: %d images but %d labels", len(set.Images), len(set.Labels))
	}
	return &set, nil
}

// Verify compares the sha256 of the file at path with the published digest for its name.
func Verify(path string) error {
	want, ok := Digests[filepath.Base(path)]
	if !ok {
		return fmt.Errorf("mnist: no digest known for %s", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return errors.Wrapf(err, "hashing %s", path)
	}
	if hex.EncodeToString(h.Sum(nil)) != want {
		return errors.Wrapf(ErrChecksum, "%s", path)
	}
	return nil
}

func readFile(path string, verify bool, read func(r io.Reader) error) error {
	if verify {
		if err := Verify(path); err != nil {
			return err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return errors.Wrapf(err, "gzip %s", path)
	}
	defer gz.Close()
	return errors.Wrapf(read(gz), "reading %s", path)
}

// ReadImages parses an uncompressed idx3 image file of 28x28 digits.
func ReadImages(r io.Reader) ([]Image, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "idx header")
	}
	if header[0] != imagesMagic {
		return nil, fmt.Errorf("idx: magic %#x is not an image file", header[0])
	}
	if header[2] != ImgSize || header[3] != ImgSize {
		return nil, fmt.Errorf("idx: images are %dx%d, want %dx%d", header[2], header[3], ImgSize, ImgSize)
	}
	set := make([]Image, header[1])
	for i := range set {
		if _, err := io.ReadFull(r, set[i][:]); err != nil {
			return nil, errors.Wrapf(err, "image %d", i)
		}
	}
	return set, nil
}

// ReadLabels parses an uncompressed idx1 label file.
func ReadLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "idx header")
	}
	if header[0] != labelsMagic {
		return nil, fmt.Errorf("idx: magic %#x is not a label file", header[0])
	}
	labels := make([]byte, header[1])
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	return labels, nil
}

// Values returns the image as floats, the form samples are stored in
func (i *Image) Values() []float64 {
	out := make([]float64, len(i))
	for j, v := range i {
		out[j] = float64(v)
	}
	return out
}
