package metrics

import "github.com/san-kum/oledwalk/internal/walk"

// Metric accumulates a single number over the steps of a walk.
type Metric interface {
	Name() string
	Observe(s walk.Step)
	Value() float64
	Reset()
}
