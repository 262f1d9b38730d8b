package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	type key struct {
		size     int
		channels int
	}
	c := New[key, float64]()

	var calls int
	fn := func() (float64, error) {
		calls++
		return 42, nil
	}
	v, err := c.Get(key{1024, 64}, fn)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	v, err = c.Get(key{1024, 64}, fn)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err = c.Get(key{8, 1}, func() (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Len())
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, *int]()
	var calls atomic.Int32
	var wg sync.WaitGroup
	got := make([]*int, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = c.Get(7, func() (*int, error) {
				calls.Add(1)
				v := 7
				return &v, nil
			})
		}(i)
	}
	wg.Wait()
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	for _, p := range got {
		assert.Same(t, got[0], p)
	}
	assert.Equal(t, 1, c.Len())
}
