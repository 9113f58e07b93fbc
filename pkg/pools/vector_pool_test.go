package pools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsZeroedVector(t *testing.T) {
	p := NewVectorPool()

	v := p.Get(8)
	require.Len(t, v, 8)
	for i := range v {
		v[i] = float64(i + 1)
	}
	p.Put(v)

	// A recycled vector must come back clean.
	w := p.Get(8)
	require.Len(t, w, 8)
	for i, x := range w {
		assert.Zero(t, x, "index %d", i)
	}
}

func TestGetSmallerThanPooled(t *testing.T) {
	p := NewVectorPool()
	p.Put(make([]float64, 100))

	v := p.Get(10)
	assert.Len(t, v, 10)
}

func TestGetLargerThanPooled(t *testing.T) {
	p := NewVectorPool()
	p.Put(make([]float64, 4))

	v := p.Get(16)
	assert.Len(t, v, 16)
}

func TestPutNilIsSafe(t *testing.T) {
	p := NewVectorPool()
	p.Put(nil)
	assert.Len(t, p.Get(3), 3)
}

func TestDefaultPool(t *testing.T) {
	v := Get(5)
	require.Len(t, v, 5)
	Put(v)
}
