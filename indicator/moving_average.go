// Package indicator provides smoothing indicators for noisy per-call costs.
package indicator

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type MovingAverage[T Number] interface {
	Update(v T) T
	Value() (T, bool)
	InitPeriod() int64
	Valid() bool
}
