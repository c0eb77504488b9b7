// Package pool provides a generic sync.Pool-backed object pool which keeps
// count of the objects it had to allocate.
package pool

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"
)

// ReuseMemory disables pooling when false (each Get allocates), which is
// useful when hunting use-after-put bugs.
var ReuseMemory = true

type Pool[T any] struct {
	pool      sync.Pool
	resetFunc func(*T)
	allocated atomic.Uint64
}

// NewPool returns a pool allocating new items with allocFunc.
//
// resetFunc is called on every item returned to the pool; freeFunc (if not
// nil) becomes the finalizer of every allocated item.
func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	p := &Pool[T]{
		resetFunc: resetFunc,
	}
	p.pool.New = func() any {
		p.allocated.Inc()
		v := allocFunc()
		if freeFunc != nil {
			runtime.SetFinalizer(v, freeFunc)
		}
		return v
	}
	return p
}

func (p *Pool[T]) Get() *T {
	if !ReuseMemory {
		return p.pool.New().(*T)
	}
	return p.pool.Get().(*T)
}

// Put resets the items and returns them to the pool; nil items are skipped.
func (p *Pool[T]) Put(items ...*T) {
	for _, item := range items {
		if item == nil {
			continue
		}
		if p.resetFunc != nil {
			p.resetFunc(item)
		}
		if ReuseMemory {
			p.pool.Put(item)
		}
	}
}

// Allocated returns how many items the pool allocated so far.
func (p *Pool[T]) Allocated() uint64 {
	return p.allocated.Load()
}
