package metrics

import (
	"math"

	"github.com/san-kum/oledwalk/internal/walk"
)

// Distance is the total ground covered, in meters.
type Distance struct {
	name  string
	total float64
}

func NewDistance() *Distance {
	return &Distance{name: "distance_m"}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(s walk.Step) {
	d.total += s.Distance
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() { d.total = 0 }

// Displacement is the straight-line distance from the origin, in pixels,
// after the last observed step.
type Displacement struct {
	name string
	x, y float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement_px"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(s walk.Step) {
	d.x, d.y = s.X, s.Y
}

func (d *Displacement) Value() float64 { return math.Hypot(d.x, d.y) }

func (d *Displacement) Reset() {
	d.x, d.y = 0, 0
}
