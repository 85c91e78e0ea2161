// Package walk advances a random walker one discrete step at a time.
//
// The walker stays at the center of the screen; each step draws the
// traversed segment into the world canvas and re-renders the window around
// the new position, so the world appears to scroll beneath it. Step never
// sleeps: it returns the pause the caller should wait before the next one.
package walk

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/world"
)

const (
	energyCost     = 100.0 // meters per unit of energy
	restThreshold  = 0.2
	restRecovery   = 0.5
	minRestSeconds = 0.5
	maxRestSeconds = 1.5
	minPauseJitter = 0.5
	maxPauseJitter = 1.5
	startingEnergy = 1.0
	maxEnergy      = 1.0
)

type Engine struct {
	cfg        config.WalkConfig
	markerHalf int
	canvas     *world.Canvas
	renderer   Renderer
	rng        *rand.Rand
	state      State
	last       Step
	observers  []Observer
}

func New(cfg config.Config, canvas *world.Canvas, r Renderer, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Walk.Seed))
	}
	return &Engine{
		cfg:        cfg.Walk,
		markerHalf: cfg.World.MarkerHalf,
		canvas:     canvas,
		renderer:   r,
		rng:        rng,
		state:      State{Energy: startingEnergy},
		observers:  make([]Observer, 0),
	}
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) State() State { return e.state }

// LastStep returns the most recent completed step, or the zero Step before
// the first one.
func (e *Engine) LastStep() Step { return e.last }

// Start marks the origin in the world and pushes the first frame.
func (e *Engine) Start() error {
	e.canvas.StampMarker(e.state.X, e.state.Y, e.markerHalf)
	return e.Render()
}

// Reset returns the walker to the origin with a blank trail.
func (e *Engine) Reset() error {
	e.canvas.Reset()
	e.state = State{Energy: startingEnergy}
	e.last = Step{}
	return e.Start()
}

// Step moves the walker once and returns how long to wait before the next
// step. The only error is a render failure.
func (e *Engine) Step() (time.Duration, error) {
	dir := Directions[e.rng.Intn(len(Directions))]
	distance := e.cfg.MinDistance + e.rng.Float64()*(e.cfg.MaxDistance-e.cfg.MinDistance)

	s := e.move(dir, distance)
	if err := e.Render(); err != nil {
		return 0, fmt.Errorf("walk: step %d: %w", s.Index, err)
	}

	s.Pause, s.Rested = e.pace(distance)
	s.Energy = e.state.Energy
	e.state.Steps++
	e.last = s

	for _, o := range e.observers {
		o.OnStep(s)
	}
	return s.Pause, nil
}

// move draws the segment and marker for one step and updates the position.
func (e *Engine) move(dir Direction, distance float64) Step {
	dx, dy := dir.Delta(distance, e.cfg.PixelsPerMeter)
	x0, y0 := e.state.X, e.state.Y
	x1, y1 := x0+dx, y0+dy

	e.canvas.DrawSegment(x0, y0, x1, y1)
	e.state.X, e.state.Y = x1, y1
	e.canvas.StampMarker(x1, y1, e.markerHalf)

	return Step{
		Index:     e.state.Steps + 1,
		Direction: dir,
		Distance:  distance,
		DX:        dx,
		DY:        dy,
		X:         x1,
		Y:         y1,
	}
}

// pace derives the pause after walking distance meters and applies the
// energy rule. A rest is taken every time energy falls below the threshold.
func (e *Engine) pace(distance float64) (time.Duration, bool) {
	travel := distance / e.cfg.Speed
	base := travel * e.uniform(minPauseJitter, maxPauseJitter)
	base = min(e.cfg.MaxPause, max(e.cfg.MinPause, base))

	e.state.Energy = max(0, e.state.Energy-distance/energyCost)
	rested := false
	if e.state.Energy < restThreshold {
		base += e.uniform(minRestSeconds, maxRestSeconds)
		e.state.Energy = min(maxEnergy, e.state.Energy+restRecovery)
		rested = true
	}
	return time.Duration(base * float64(time.Second)), rested
}

func (e *Engine) uniform(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

// Frame composes the current screen: the world window around the walker
// with the fixed marker stamped at its center.
func (e *Engine) Frame() *image.Gray {
	frame := e.canvas.View(e.state.X, e.state.Y)
	world.MarkCenter(frame, e.markerHalf)
	return frame
}

func (e *Engine) Render() error {
	if e.renderer == nil {
		return nil
	}
	return e.renderer.Show(e.Frame())
}
