// mama.go implements the MESA Adaptive Moving Average (MAMA) indicator.

package indicator

import (
	"sync"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
)

// MAMA smooths a series over a ring of the last n samples. Until the ring
// is full the raw sample is passed through and Valid reports false.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker  sync.Mutex
	ring    []float64
	ordered []float64
	next    int
	count   int
	last    T
}

var _ MovingAverage[int64] = (*MAMA[int64])(nil)

func NewMAMADefault[T Number](n int) *MAMA[T] {
	return NewMAMA[T](n, 0.5, 0.05)
}

func NewMAMA[T Number](
	n int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	if n < 1 {
		n = 1
	}
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		ring:      make([]float64, n),
		ordered:   make([]float64, n),
	}
}

func (m *MAMA[T]) Update(v T) T {
	m.locker.Lock()
	defer m.locker.Unlock()

	m.ring[m.next] = float64(v)
	m.next = (m.next + 1) % len(m.ring)
	m.count++
	if m.count < len(m.ring) {
		m.last = v
		return v
	}

	// oldest first
	n := copy(m.ordered, m.ring[m.next:])
	copy(m.ordered[n:], m.ring[:m.next])

	result := indicators.MAMA(m.ordered, m.FastLimit, m.SlowLimit)
	m.last = T(result[len(result)-1])
	return m.last
}

// Value returns the last computed average.
func (m *MAMA[T]) Value() (T, bool) {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.last, m.count >= len(m.ring)
}

func (m *MAMA[T]) InitPeriod() int64 {
	return int64(len(m.ring))
}

func (m *MAMA[T]) Valid() bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.count >= len(m.ring)
}
