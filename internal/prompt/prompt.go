// Package prompt runs the startup questions: each question is drawn on the
// display while the answer is read from the terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultCycles = 50
	lineHeight    = 13
)

var (
	CyclesScreen  = []string{"Random Walk Simulator", "", "How many cycles?"}
	ConfirmScreen = []string{"Press Enter to START", "", "(Ctrl-C to cancel)"}
)

// Display shows a composed screen.
type Display interface {
	Show(img image.Image) error
}

// Screen renders lines of text, white on black, into a w x h image.
func Screen(w, h int, lines []string) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(0, face.Ascent+i*lineHeight)
		d.DrawString(line)
	}
	return img
}

// NormalizeCycles turns a requested cycle count into one the run loop can
// use: unparsable input gives the default, anything below one gives one.
func NormalizeCycles(input string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	return n
}

type Prompter struct {
	display Display
	lines   chan lineResult
	out     io.Writer
	bounds  image.Rectangle
}

type lineResult struct {
	text string
	err  error
}

// New starts reading lines from in. The reader goroutine ends when in does.
func New(d Display, bounds image.Rectangle, in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		display: d,
		lines:   make(chan lineResult),
		out:     out,
		bounds:  bounds,
	}
	go p.read(in)
	return p
}

func (p *Prompter) read(in io.Reader) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		p.lines <- lineResult{text: sc.Text()}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	p.lines <- lineResult{err: err}
	close(p.lines)
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return r.text, r.err
	}
}

func (p *Prompter) show(lines []string) error {
	return p.display.Show(Screen(p.bounds.Dx(), p.bounds.Dy(), lines))
}

// AskCycles shows the cycle question and reads the answer. Input problems
// fall back to def; only display failures and cancellation are errors.
func (p *Prompter) AskCycles(ctx context.Context, def int) (int, error) {
	if err := p.show(CyclesScreen); err != nil {
		return 0, err
	}
	fmt.Fprintf(p.out, "How many cycles to run? (e.g., %d) > ", def)
	line, err := p.readLine(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return def, nil
	}
	return NormalizeCycles(line, def), nil
}

// Confirm waits for Enter. It reports false when the input closes or ctx
// is cancelled first.
func (p *Prompter) Confirm(ctx context.Context) (bool, error) {
	if err := p.show(ConfirmScreen); err != nil {
		return false, err
	}
	if _, err := p.readLine(ctx); err != nil {
		return false, nil
	}
	return true, nil
}
