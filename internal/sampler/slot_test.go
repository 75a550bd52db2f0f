package sampler

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResult(t *testing.T, w, h int) *Result {
	t.Helper()
	r, err := NewResult(image.NewNRGBA(image.Rect(0, 0, w, h)))
	require.NoError(t, err)
	return r
}

func TestNewResult(t *testing.T) {
	r := newTestResult(t, 30, 20)

	assert.NotEqual(t, [16]byte{}, [16]byte(r.ID))
	assert.Equal(t, 30, r.Width)
	assert.Equal(t, 20, r.Height)

	img, err := png.Decode(bytes.NewReader(r.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), img.Bounds())

	other := newTestResult(t, 30, 20)
	assert.NotEqual(t, r.ID, other.ID)
}

func TestSlot_StoreLoad(t *testing.T) {
	s := NewSlot()

	assert.Nil(t, s.Load())
	_, _, ok := s.Dimensions()
	assert.False(t, ok)

	first := newTestResult(t, 10, 10)
	s.Store(first)
	assert.Same(t, first, s.Load())

	second := newTestResult(t, 60, 40)
	s.Store(second)
	assert.Same(t, second, s.Load())

	w, h, ok := s.Dimensions()
	assert.True(t, ok)
	assert.Equal(t, 60, w)
	assert.Equal(t, 40, h)
}

func TestSlot_Subscribe(t *testing.T) {
	s := NewSlot()
	ch, cancel := s.Subscribe()

	r := newTestResult(t, 5, 5)
	s.Store(r)

	select {
	case got := <-ch:
		assert.Same(t, r, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}

	cancel()
	s.Store(newTestResult(t, 6, 6))
	select {
	case <-ch:
		t.Fatal("cancelled subscriber was notified")
	default:
	}
}

func TestSlot_SlowSubscriberSeesNewest(t *testing.T) {
	s := NewSlot()
	ch, cancel := s.Subscribe()
	defer cancel()

	var last *Result
	for i := 1; i <= 5; i++ {
		last = newTestResult(t, i, i)
		s.Store(last)
	}

	select {
	case got := <-ch:
		assert.Same(t, last, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestSlot_ConcurrentStoreLoad(t *testing.T) {
	s := NewSlot()
	results := make([]*Result, 8)
	for i := range results {
		results[i] = newTestResult(t, i+1, i+1)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(r *Result) {
			defer wg.Done()
			s.Store(r)
		}(results[i])
		go func() {
			defer wg.Done()
			if r := s.Load(); r != nil {
				assert.Equal(t, r.Width, r.Height)
			}
		}()
	}
	wg.Wait()

	assert.NotNil(t, s.Load())
}
