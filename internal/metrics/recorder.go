package metrics

import (
	"time"

	"github.com/san-kum/oledwalk/internal/walk"
)

// Recorder feeds every step to a set of metrics and keeps the totals the
// end-of-run summary needs.
type Recorder struct {
	metrics []Metric
	energy  *Energy
	steps   int
	paused  time.Duration
	last    walk.Step
}

// NewRecorder builds a recorder with the default metrics plus any extras.
func NewRecorder(extra ...Metric) *Recorder {
	r := &Recorder{energy: NewEnergy()}
	r.metrics = append([]Metric{NewDistance(), NewDisplacement(), NewRests(), r.energy}, extra...)
	return r
}

func (r *Recorder) OnStep(s walk.Step) {
	r.steps++
	r.paused += s.Pause
	r.last = s
	for _, m := range r.metrics {
		m.Observe(s)
	}
}

func (r *Recorder) Reset() {
	r.steps = 0
	r.paused = 0
	r.last = walk.Step{}
	for _, m := range r.metrics {
		m.Reset()
	}
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	Steps   int
	Target  int
	Paused  time.Duration
	FinalX  float64
	FinalY  float64
	Values  map[string]float64
	Energy  []float64
	Aborted bool
}

func (r *Recorder) Summary(target int) Summary {
	values := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		values[m.Name()] = m.Value()
	}
	energy := make([]float64, len(r.energy.History()))
	copy(energy, r.energy.History())
	return Summary{
		Steps:  r.steps,
		Target: target,
		Paused: r.paused,
		FinalX: r.last.X,
		FinalY: r.last.Y,
		Values: values,
		Energy: energy,
	}
}
