package feedforward

import "compress/lzw"
import "crypto/sha256"
import "encoding/hex"
import "encoding/json"
import "fmt"
import "io"
import "os"

import "github.com/pkg/errors"

import "github.com/neurlang/quiver/hashtron"

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer, as a lzw compressed json list of hashtrons
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(f.hashtrons()); err != nil {
		lw.Close()
		return errors.Wrap(err, "writing weights")
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return errors.Wrapf(f.ReadCompressedWeights(file), "weights %s", name)
}

// ReadCompressedWeights reads model weights from a reader. The weights must match the
// network: same number of hashtrons and same output bits.
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var trons []hashtron.Hashtron
	if err := json.NewDecoder(lr).Decode(&trons); err != nil {
		return errors.Wrap(err, "decoding weights")
	}
	if len(trons) != f.Len() {
		return fmt.Errorf("weights hold %d hashtrons, network has %d", len(trons), f.Len())
	}
	for i := range trons {
		if want := f.GetHashtron(i).Bits(); trons[i].Bits() != want {
			return fmt.Errorf("hashtron %d has %d bits, network expects %d", i, trons[i].Bits(), want)
		}
		if trons[i].Len() == 0 {
			return fmt.Errorf("hashtron %d has an empty program", i)
		}
	}
	for i := range trons {
		*f.GetHashtron(i) = trons[i]
	}
	return nil
}

func (f FeedforwardNetwork) hashtrons() []hashtron.Hashtron {
	var o = make([]hashtron.Hashtron, 0, f.Len())
	for i := range f.layers {
		o = append(o, f.layers[i].hashtrons...)
	}
	return o
}

// Randomize replaces every hashtron with a random one, keeping the output bits
func (f *FeedforwardNetwork) Randomize() {
	for i := range f.layers {
		v := f.layers[i].hashtrons
		for j := range v {
			h, _ := hashtron.New(nil, v[j].Bits())
			v[j] = *h
		}
	}
}

// Fingerprint hashes the layer layout together with all weights. Two networks with the
// same fingerprint produce the same outputs.
func (f FeedforwardNetwork) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, info := range f.Layers() {
		_ = enc.Encode(info)
	}
	_ = enc.Encode(f.hashtrons())
	return hex.EncodeToString(h.Sum(nil))
}
