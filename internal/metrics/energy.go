package metrics

import "github.com/san-kum/oledwalk/internal/walk"

// Energy tracks the walker's energy after each step. Value is the mean.
type Energy struct {
	name    string
	history []float64
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy", history: make([]float64, 0, 64)}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s walk.Step) {
	e.history = append(e.history, s.Energy)
	e.total += s.Energy
}

func (e *Energy) Value() float64 {
	if len(e.history) == 0 {
		return 0
	}
	return e.total / float64(len(e.history))
}

// History returns the per-step energy trace.
func (e *Energy) History() []float64 { return e.history }

func (e *Energy) Reset() {
	e.history = e.history[:0]
	e.total = 0
}
