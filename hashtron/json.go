package hashtron

import "encoding/json"
import "io"

import "github.com/pkg/errors"

type serialized struct {
	Bits    byte        `json:"bits"`
	Program [][2]uint32 `json:"program"`
}

// MarshalJSON serializes the hashtron as {"bits":n,"program":[[s,max],...]}
func (h Hashtron) MarshalJSON() ([]byte, error) {
	return json.Marshal(serialized{Bits: h.bits, Program: h.program})
}

// UnmarshalJSON loads the hashtron serialized by MarshalJSON
func (h *Hashtron) UnmarshalJSON(data []byte) error {
	var s serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "hashtron")
	}
	if s.Bits > 16 {
		return ErrTooManyBits
	}
	if len(s.Program) > 0 && s.Program[0][1] == 0 {
		return errors.New("hashtron: first command has zero max")
	}
	h.program = s.Program
	h.SetBits(s.Bits)
	return nil
}

// WriteJson writes the hashtron to w
func (h Hashtron) WriteJson(w io.Writer) error {
	return json.NewEncoder(w).Encode(h)
}

// ReadJson reads one hashtron from r
func (h *Hashtron) ReadJson(r io.Reader) error {
	return json.NewDecoder(r).Decode(h)
}
