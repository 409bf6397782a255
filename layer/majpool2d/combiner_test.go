package majpool2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/quiver/layer"
)

func TestEvery(t *testing.T) {
	l := MustNew(3, 2, 2, 2, 1)
	assert.Equal(t, 24, l.Inputs())
	assert.Equal(t, layer.Shape{Height: 2, Width: 3, Maps: 1}, l.Shape())
	assert.Equal(t, uint32(15), l.Scale())

	// every input bit shows up in exactly one feature
	for q := 0; q < l.Inputs(); q++ {
		c := l.Lay()
		c.Put(q, true)
		var hits int
		for j, f := range layer.Features(l, c) {
			if f != 0 {
				hits++
				assert.Equal(t, q/4, j)
				assert.Equal(t, uint32(1)<<uint(q%4), f)
			}
		}
		assert.Equal(t, 1, hits, "bit %d", q)
	}
}

func TestMajority(t *testing.T) {
	l := MustNew(1, 1, 3, 1, 1)
	c := l.Lay().(*MajPool2D)
	c.Put(0, true)
	assert.False(t, c.Majority(0))
	c.Put(2, true)
	assert.True(t, c.Majority(0))
	assert.Equal(t, uint32(5), c.Feature(0))
}

func TestNewRejects(t *testing.T) {
	_, err := New(0, 1, 1, 1, 1)
	require.Error(t, err)
	_, err = New(1, 1, 8, 8, 1)
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(1, 1, 1, 1, 0) })
}
