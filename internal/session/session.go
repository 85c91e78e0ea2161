// Package session sequences a full run: initialize the display, ask for the
// cycle count, confirm, walk, and clean up.
//
// Cleanup (clear, present, release the bus) runs on every exit path,
// including interrupts and bus failures.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/oledwalk/internal/bus"
	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/display"
	"github.com/san-kum/oledwalk/internal/metrics"
	"github.com/san-kum/oledwalk/internal/prompt"
	"github.com/san-kum/oledwalk/internal/walk"
	"github.com/san-kum/oledwalk/internal/world"
)

// ErrCanceled is returned when the start screen is declined.
var ErrCanceled = errors.New("session: canceled before start")

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	// Interactive enables the cycle and start prompts.
	Interactive bool
	In          io.Reader
	Out         io.Writer
	Logger      *slog.Logger
	Observers   []walk.Observer
	Wait        WaitFunc
	Rand        *rand.Rand
}

// Sleep waits on a timer, returning early with ctx's error.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run owns b for its whole duration and always releases it. An interrupt
// through ctx ends the walk early without error; the partial summary is
// returned with Aborted set.
func Run(ctx context.Context, cfg config.Config, b bus.Bus, opts Options) (summary *metrics.Summary, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wait := opts.Wait
	if wait == nil {
		wait = Sleep
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	drv := display.New(b, cfg.Display, logger)
	defer func() {
		if cerr := shutdown(drv); cerr != nil {
			logger.Warn("display cleanup failed", "err", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	if err := drv.Initialize(); err != nil {
		return nil, err
	}

	cycles := cfg.Walk.Cycles
	if opts.Interactive {
		p := prompt.New(drv, drv.Bounds(), opts.In, opts.Out)
		n, err := p.AskCycles(ctx, cycles)
		if err != nil {
			return nil, err
		}
		cycles = n
		ok, err := p.Confirm(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			fmt.Fprintln(opts.Out, "Canceled")
			return nil, ErrCanceled
		}
	} else if cycles < 1 {
		cycles = 1
	}

	canvas, err := world.New(cfg)
	if err != nil {
		return nil, err
	}
	engine := walk.New(cfg, canvas, drv, opts.Rand)
	rec := metrics.NewRecorder()
	engine.AddObserver(rec)
	for _, o := range opts.Observers {
		engine.AddObserver(o)
	}

	logger.Info("walk starting", "cycles", cycles, "margin", cfg.World.Margin, "seed", cfg.Walk.Seed)
	if err := engine.Start(); err != nil {
		return nil, err
	}

	aborted := false
	for engine.State().Steps < cycles {
		pause, err := engine.Step()
		if err != nil {
			s := rec.Summary(cycles)
			s.Aborted = true
			return &s, err
		}
		st := engine.State()
		logger.Debug("step", "n", st.Steps, "x", st.X, "y", st.Y, "energy", st.Energy, "pause", pause)

		if err := wait(ctx, pause); err != nil {
			logger.Info("walk interrupted", "steps", st.Steps, "reason", err)
			aborted = true
			break
		}
	}

	s := rec.Summary(cycles)
	s.Aborted = aborted
	logger.Info("walk finished", "steps", s.Steps, "distance_m", s.Values["distance_m"])
	return &s, nil
}

// shutdown blanks the panel if it was initialized, then releases the bus.
func shutdown(drv *display.Driver) error {
	var errs []error
	if drv.Initialized() {
		drv.Clear()
		if err := drv.Present(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := drv.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
