package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idxImages(n int) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, [4]uint32{imagesMagic, uint32(n), ImgSize, ImgSize})
	for i := 0; i < n; i++ {
		img := make([]byte, ImgSize*ImgSize)
		img[i] = 255
		buf.Write(img)
	}
	return buf.Bytes()
}

func idxLabels(labels ...byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, [2]uint32{labelsMagic, uint32(len(labels))})
	buf.Write(labels)
	return buf.Bytes()
}

func writeGzip(t *testing.T, path string, data []byte) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestReadImages(t *testing.T) {
	set, err := ReadImages(bytes.NewReader(idxImages(3)))
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, byte(255), set[2][2])
	assert.Equal(t, 255.0, set[1].Values()[1])
}

func TestReadImagesRejects(t *testing.T) {
	_, err := ReadImages(bytes.NewReader(idxLabels(1, 2)))
	assert.Error(t, err)

	truncated := idxImages(2)
	_, err = ReadImages(bytes.NewReader(truncated[:len(truncated)-10]))
	assert.Error(t, err)
}

func TestReadLabels(t *testing.T) {
	labels, err := ReadLabels(bytes.NewReader(idxLabels(7, 2, 1)))
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 2, 1}, labels)

	_, err = ReadLabels(bytes.NewReader(idxImages(1)))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeGzip(t, filepath.Join(dir, inferSetImg), idxImages(2))
	writeGzip(t, filepath.Join(dir, inferSetVal), idxLabels(4, 9))

	set, err := Load(dir, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []byte{4, 9}, set.Labels)

	_, err = Load(dir, false, true)
	assert.Equal(t, ErrChecksum, errors.Cause(err))

	_, err = Load(dir, true, false)
	assert.Error(t, err)
}

func TestLoadCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeGzip(t, filepath.Join(dir, inferSetImg), idxImages(2))
	writeGzip(t, filepath.Join(dir, inferSetVal), idxLabels(4))
	_, err := Load(dir, false, false)
	assert.Error(t, err)
}

func TestVerifyUnknownName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.gz")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.Error(t, Verify(path))
}
