package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	value int
}

func TestPool(t *testing.T) {
	var resets int
	p := NewPool(
		func() *item { return &item{value: 1} },
		func(i *item) { resets++; i.value = 0 },
		nil,
	)

	i := p.Get()
	require.Equal(t, 1, i.value)
	require.Equal(t, uint64(1), p.Allocated())

	p.Put(i, nil)
	require.Equal(t, 1, resets)
	require.Zero(t, i.value)
}

func TestPoolNoReuse(t *testing.T) {
	ReuseMemory = false
	defer func() { ReuseMemory = true }()

	p := NewPool(func() *item { return &item{} }, nil, nil)
	a := p.Get()
	p.Put(a)
	b := p.Get()
	require.NotSame(t, a, b)
	require.Equal(t, uint64(2), p.Allocated())
}
