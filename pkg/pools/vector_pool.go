// Package pools recycles the scratch vectors the solver churns through:
// one cost and one direction vector per Frank-Wolfe iteration, across every
// concurrent compute request. Pooling keeps steady-state request handling
// allocation-free in the hot loop.
package pools

import (
	"sync"
)

// maxPooledLen caps the slices kept for reuse. Vectors for very large
// networks are rare enough that holding them would just pin memory.
const maxPooledLen = 1 << 20

// VectorPool is a sync.Pool of float64 slices. Get returns a zeroed slice
// of exactly the requested length.
type VectorPool struct {
	pool sync.Pool
}

// NewVectorPool creates an empty vector pool.
func NewVectorPool() *VectorPool {
	return &VectorPool{}
}

// Get returns a zeroed []float64 of length n.
func (p *VectorPool) Get(n int) []float64 {
	if v, ok := p.pool.Get().(*[]float64); ok && cap(*v) >= n {
		s := (*v)[:n]
		for i := range s {
			s[i] = 0
		}
		return s
	}
	return make([]float64, n)
}

// Put returns a slice to the pool. The caller must not use it afterwards.
func (p *VectorPool) Put(v []float64) {
	if v == nil || cap(v) > maxPooledLen {
		return
	}
	p.pool.Put(&v)
}

var defaultPool = NewVectorPool()

// Get returns a zeroed vector from the process-wide pool.
func Get(n int) []float64 { return defaultPool.Get(n) }

// Put returns a vector to the process-wide pool.
func Put(v []float64) { defaultPool.Put(v) }
