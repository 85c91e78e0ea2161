package metrics

import "github.com/san-kum/oledwalk/internal/walk"

// Rests counts recovery pauses.
type Rests struct {
	name  string
	count int
}

func NewRests() *Rests {
	return &Rests{name: "rests"}
}

func (r *Rests) Name() string { return r.name }

func (r *Rests) Observe(s walk.Step) {
	if s.Rested {
		r.count++
	}
}

func (r *Rests) Value() float64 { return float64(r.count) }

func (r *Rests) Reset() { r.count = 0 }
