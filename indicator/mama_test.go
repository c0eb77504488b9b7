package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMAMA(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		m := NewMAMADefault[int64](50)
		for range 100 {
			require.Equal(t, int64(100), m.Update(100))
		}
		v, ok := m.Value()
		require.True(t, ok)
		require.Equal(t, int64(100), v)
	})

	t.Run("warmup", func(t *testing.T) {
		m := NewMAMADefault[float64](50)
		for i := range 49 {
			require.Equal(t, float64(i), m.Update(float64(i)))
			require.False(t, m.Valid())
		}
		m.Update(49)
		require.True(t, m.Valid())
		require.Equal(t, int64(50), m.InitPeriod())
	})

	t.Run("ramp", func(t *testing.T) {
		m := NewMAMA[int64](50, 0.3, 0.05)
		for i := int64(0); i <= 100; i++ {
			v := m.Update(i)
			require.True(t, i/2 <= v && v <= i, "%d: %d", i, v)
		}
	})
}
