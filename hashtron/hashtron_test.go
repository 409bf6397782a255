package hashtron

import "bytes"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func FuzzHashtronSerialize(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8}, byte(1))
	f.Fuzz(func(t *testing.T, buffer []byte, bits byte) {
		bits %= 17
		var program [][2]uint32
		for i := 0; i+8 <= len(buffer); i += 8 {
			s := uint32(buffer[i]) | uint32(buffer[i+1])<<8 | uint32(buffer[i+2])<<16 | uint32(buffer[i+3])<<24
			m := uint32(buffer[i+4]) | uint32(buffer[i+5])<<8 | uint32(buffer[i+6])<<16 | uint32(buffer[i+7])<<24
			program = append(program, [2]uint32{s, m | 1})
		}
		if len(program) == 0 {
			return
		}
		tron, err := New(program, bits)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tron.WriteJson(&buf))

		var back Hashtron
		require.NoError(t, back.ReadJson(&buf))
		assert.Equal(t, tron.Program(), back.Program())
		assert.Equal(t, tron.Bits(), back.Bits())
	})
}

func TestNew(t *testing.T) {
	h, err := New(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(1), h.Bits())
	assert.Equal(t, 1, h.Len())

	_, err = New(nil, 17)
	assert.Equal(t, ErrTooManyBits, err)
}

func TestForward(t *testing.T) {
	h, err := New([][2]uint32{{12345, 1000}, {99, 10}}, 4)
	require.NoError(t, err)

	for cmd := uint32(0); cmd < 256; cmd++ {
		out := h.Forward(cmd, false)
		assert.Less(t, out, uint16(16))
		assert.Equal(t, out^0xF, h.Forward(cmd, true))
	}

	var empty Hashtron
	assert.Equal(t, uint16(0), empty.Forward(7, false))
}

func TestReadJsonRejectsGarbage(t *testing.T) {
	var h Hashtron
	assert.Error(t, h.ReadJson(bytes.NewBufferString(`{"bits":1,"program":"x"}`)))
	assert.Error(t, h.ReadJson(bytes.NewBufferString(`{"bits":40,"program":[[1,2]]}`)))
	assert.Error(t, h.ReadJson(bytes.NewBufferString(`{"bits":1,"program":[[1,0]]}`)))
}

func TestPush(t *testing.T) {
	h, err := New([][2]uint32{{1, 2}}, 1)
	require.NoError(t, err)
	h.Push([2]uint32{5, 6})
	s, max := h.Get(0)
	assert.Equal(t, uint32(5), s)
	assert.Equal(t, uint32(6), max)
	assert.Equal(t, 2, h.Len())
}

func TestReadJsonZeroMaxLaterCommand(t *testing.T) {
	var h Hashtron
	require.NoError(t, h.ReadJson(bytes.NewBufferString(`{"bits":2,"program":[[1,4],[2,0]]}`)))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, byte(2), h.Bits())

	require.NoError(t, h.ReadJson(bytes.NewBufferString(`{"bits":1,"program":[]}`)))
	assert.Equal(t, 0, h.Len())
}
