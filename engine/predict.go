package engine

import (
	"context"
	"encoding/json"
	"math"
	"math/bits"
	"sort"
)

// Prediction is one class with its probability, encoded as [index, name, probability].
type Prediction struct {
	Index       int
	Name        string
	Probability float64
}

// MarshalJSON encodes the prediction as a three element array
func (p Prediction) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{p.Index, p.Name, p.Probability})
}

// Predict returns the top classes for input, most likely first, wrapped in a
// batch of one: [[[index, name, probability], ...]].
//
// The network outputs a class value bit by bit. A class scores 2^-d where d
// counts the output bits disagreeing with its index; scores are normalised to sum 1.
func (e *Engine) Predict(ctx context.Context, input string) ([][]Prediction, error) {
	_, s, err := e.sample(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := e.net.Infer(s)
	if err != nil {
		return nil, err
	}
	return [][]Prediction{Rank(out, e.net.GetClasses()-1, e.classes, e.opts.Top)}, nil
}

// Rank scores the classes against the network output value out, comparing the
// bits in mask, and returns the top most likely.
func Rank(out, mask uint32, classes []string, top int) []Prediction {
	preds := make([]Prediction, len(classes))
	var total float64
	for i, name := range classes {
		d := bits.OnesCount32((out ^ uint32(i)) & mask)
		p := math.Ldexp(1, -d)
		preds[i] = Prediction{Index: i, Name: name, Probability: p}
		total += p
	}
	for i := range preds {
		preds[i].Probability /= total
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	if top > 0 && top < len(preds) {
		preds = preds[:top]
	}
	return preds
}
