package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(calls *int32, maps int) Fill {
	return func(ctx context.Context) (int, Draw, error) {
		atomic.AddInt32(calls, 1)
		return maps, func(w io.Writer, m int) error {
			_, err := fmt.Fprintf(w, "map %d", m)
			return err
		}, nil
	}
}

func TestDoWritesAndCaches(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "abc", 2)
	require.NoError(t, err)

	var calls int32
	files, err := c.Do(context.Background(), "0_7", "conv1", counting(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"0_7_conv1_0.png", "0_7_conv1_1.png", "0_7_conv1_2.png"}, files)

	data, err := os.ReadFile(filepath.Join(dir, "0_7_conv1_2.png"))
	require.NoError(t, err)
	assert.Equal(t, "map 2", string(data))
	assert.FileExists(t, filepath.Join(dir, "0_7_conv1.json"))

	again, err := c.Do(context.Background(), "0_7", "conv1", counting(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, files, again)
	assert.Equal(t, int32(1), calls)

	got, ok := c.Get("0_7", "conv1")
	assert.True(t, ok)
	assert.Equal(t, files, got)
}

func TestFingerprintMismatch(t *testing.T) {
	dir := t.TempDir()
	old, err := New(dir, "old", 1)
	require.NoError(t, err)
	var calls int32
	_, err = old.Do(context.Background(), "x", "hash1", counting(&calls, 1))
	require.NoError(t, err)

	fresh, err := New(dir, "new", 1)
	require.NoError(t, err)
	_, ok := fresh.Get("x", "hash1")
	assert.False(t, ok)
	_, err = fresh.Do(context.Background(), "x", "hash1", counting(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestMissingFileInvalidates(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "fp", 1)
	require.NoError(t, err)
	var calls int32
	_, err = c.Do(context.Background(), "x", "l", counting(&calls, 2))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, FileName("x", "l", 1))))
	_, ok := c.Get("x", "l")
	assert.False(t, ok)
}

func TestCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "fp", 1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x_l.json"), []byte("{"), 0o644))
	_, ok := c.Get("x", "l")
	assert.False(t, ok)
}

func TestConcurrentFillsShared(t *testing.T) {
	c, err := New(t.TempDir(), "fp", 4)
	require.NoError(t, err)
	var calls int32
	release := make(chan struct{})
	fill := func(ctx context.Context) (int, Draw, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 1, func(w io.Writer, m int) error { return nil }, nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			files, err := c.Do(context.Background(), "in", "layer", fill)
			assert.NoError(t, err)
			assert.Len(t, files, 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls)
}

func TestFillError(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "fp", 1)
	require.NoError(t, err)
	boom := errors.New("boom")
	_, err = c.Do(context.Background(), "x", "l", func(ctx context.Context) (int, Draw, error) {
		return 0, nil, boom
	})
	assert.Equal(t, boom, errors.Cause(err))

	_, err = c.Do(context.Background(), "x", "l", func(ctx context.Context) (int, Draw, error) {
		return 2, func(w io.Writer, m int) error {
			if m == 1 {
				return boom
			}
			return nil
		}, nil
	})
	assert.Equal(t, boom, errors.Cause(err))
	_, ok := c.Get("x", "l")
	assert.False(t, ok)
}

func TestCancelledCaller(t *testing.T) {
	c, err := New(t.TempDir(), "fp", 1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	release := make(chan struct{})
	defer close(release)
	_, err = c.Do(ctx, "x", "l", func(ctx context.Context) (int, Draw, error) {
		<-release
		return 0, nil, errors.New("released")
	})
	assert.Equal(t, context.Canceled, err)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "fp", 1)
	require.NoError(t, err)
	p, err := c.Path("a_b_0.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_b_0.png"), p)

	for _, bad := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		_, err := c.Path(bad)
		assert.Equal(t, ErrInvalidName, errors.Cause(err), bad)
	}

	_, err = c.Do(context.Background(), "..", "l", nil)
	assert.Equal(t, ErrInvalidName, errors.Cause(err))
}

func TestLayerUnderscoreRejected(t *testing.T) {
	c, err := New(t.TempDir(), "fp", 1)
	require.NoError(t, err)
	var calls int32
	_, err = c.Do(context.Background(), "3_7", "x", counting(&calls, 1))
	require.NoError(t, err)

	// input 3 with layer 7_x would name its files 3_7_x_0.png as well
	_, err = c.Do(context.Background(), "3", "7_x", counting(&calls, 1))
	assert.Equal(t, ErrInvalidName, errors.Cause(err))
	assert.Equal(t, int32(1), calls)
}
