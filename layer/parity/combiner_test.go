package parity

import "testing"

import "github.com/stretchr/testify/assert"

func TestParity(t *testing.T) {
	l := MustNew(4)
	c := l.Lay()
	assert.Equal(t, uint32(0), c.Feature(0))
	c.Put(1, true)
	assert.Equal(t, uint32(1), c.Feature(0))
	c.Put(3, true)
	assert.Equal(t, uint32(0), c.Feature(0))
	assert.Equal(t, 1, l.Shape().Len())

	_, err := New(0)
	assert.Error(t, err)
}
