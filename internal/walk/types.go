package walk

import (
	"image"
	"math"
	"time"
)

// Direction is a compass heading on the pixel grid; y grows downward.
type Direction struct {
	Name   string
	DX, DY int
}

var Directions = [8]Direction{
	{"N", 0, -1},
	{"NE", 1, -1},
	{"E", 1, 0},
	{"SE", 1, 1},
	{"S", 0, 1},
	{"SW", -1, 1},
	{"W", -1, 0},
	{"NW", -1, -1},
}

// Diagonal reports whether both axes move.
func (d Direction) Diagonal() bool { return d.DX != 0 && d.DY != 0 }

// Delta is the pixel displacement for a walk of distance meters. Diagonals
// are scaled by 1/sqrt(2) so every heading covers the same ground.
func (d Direction) Delta(distance, pixelsPerMeter float64) (dx, dy float64) {
	norm := 1.0
	if d.Diagonal() {
		norm = 1 / math.Sqrt2
	}
	px := distance * pixelsPerMeter * norm
	return float64(d.DX) * px, float64(d.DY) * px
}

// State is the walker. Position is in world pixels.
type State struct {
	X, Y   float64
	Steps  int
	Energy float64
}

// Step describes one completed move.
type Step struct {
	Index     int
	Direction Direction
	Distance  float64
	DX, DY    float64
	X, Y      float64
	Pause     time.Duration
	Energy    float64
	Rested    bool
}

// Renderer receives each composed frame.
type Renderer interface {
	Show(frame image.Image) error
}

// Observer is notified after every step.
type Observer interface {
	OnStep(s Step)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s Step)

func (f ObserverFunc) OnStep(s Step) { f(s) }
