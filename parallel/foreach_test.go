package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEach(t *testing.T) {
	var seen [100]int32
	var running, peak int32
	ForEach(len(seen), 4, func(i int) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		atomic.AddInt32(&seen[i], 1)
		atomic.AddInt32(&running, -1)
	})
	for i := range seen {
		assert.Equal(t, int32(1), seen[i], "index %d", i)
	}
	assert.LessOrEqual(t, peak, int32(4))

	ForEach(0, 4, func(int) { t.Fatal("no iterations expected") })
}

func TestForEachErr(t *testing.T) {
	var count int32
	err := ForEachErr(context.Background(), 10, 0, func(ctx context.Context, i int) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(10), count)

	boom := errors.New("boom")
	err = ForEachErr(context.Background(), 50, 2, func(ctx context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.Equal(t, boom, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ForEachErr(ctx, 5, 1, func(ctx context.Context, i int) error { return nil })
	assert.Equal(t, context.Canceled, err)
}

func TestForEachSerialLimit(t *testing.T) {
	var running, peak int32
	ForEach(20, 0, func(i int) {
		cur := atomic.AddInt32(&running, 1)
		if cur > atomic.LoadInt32(&peak) {
			atomic.StoreInt32(&peak, cur)
		}
		atomic.AddInt32(&running, -1)
	})
	assert.Equal(t, int32(1), peak)
	ForEach(-3, 2, func(int) { t.Fatal("no iterations expected") })
}
