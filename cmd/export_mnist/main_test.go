package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/quiver/signal"
)

func gz(t *testing.T, path string, header []uint32, body []byte) {
	var raw bytes.Buffer
	require.NoError(t, binary.Write(&raw, binary.BigEndian, header))
	raw.Write(body)
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExport(t *testing.T) {
	src := t.TempDir()
	img := make([]byte, 3*28*28)
	img[28*28+5] = 200
	gz(t, filepath.Join(src, "t10k-images-idx3-ubyte.gz"), []uint32{0x803, 3, 28, 28}, img)
	gz(t, filepath.Join(src, "t10k-labels-idx1-ubyte.gz"), []uint32{0x801, 3}, []byte{7, 2, 1})

	dst := filepath.Join(t.TempDir(), "samples")
	n, err := export(src, dst, 2, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(dst, "0_7.npy"))
	assert.NoFileExists(t, filepath.Join(dst, "2_1.npy"))

	s, err := signal.Load(filepath.Join(dst, "1_2.npy"))
	require.NoError(t, err)
	assert.Equal(t, 28, s.Height)
	assert.Equal(t, 28, s.Width)
	assert.Equal(t, 200.0, s.Values[5])

	n, err = export(src, dst, 100, false, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestExportMissing(t *testing.T) {
	_, err := export(t.TempDir(), t.TempDir(), 1, false, false)
	assert.Error(t, err)
}
