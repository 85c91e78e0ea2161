// Package world holds the oversized offscreen canvas the walk trail is drawn
// into, and the mapping from continuous world coordinates to its pixels.
//
// World (0,0) maps to the canvas center for the whole run; the canvas never
// shifts or grows. Each frame a display-sized window is cut out around the
// walker, clamped so it always lies inside the canvas.
package world

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/oledwalk/internal/config"
)

var ErrViewTooLarge = errors.New("world: view larger than canvas")

var (
	ink   = color.Gray{Y: 0xFF}
	paper = color.Gray{Y: 0x00}
)

type Canvas struct {
	img          *image.Gray
	ox, oy       int
	viewW, viewH int
}

// New allocates a canvas of the display size plus margin on every side.
func New(cfg config.Config) (*Canvas, error) {
	if cfg.World.Margin < 0 {
		return nil, fmt.Errorf("%w: negative margin %d", ErrViewTooLarge, cfg.World.Margin)
	}
	w, h := cfg.CanvasSize()
	return NewSized(w, h, cfg.Display.Width, cfg.Display.Height)
}

// NewSized builds a w x h canvas for a viewW x viewH window.
func NewSized(w, h, viewW, viewH int) (*Canvas, error) {
	if viewW <= 0 || viewH <= 0 || viewW > w || viewH > h {
		return nil, fmt.Errorf("%w: view %dx%d, canvas %dx%d", ErrViewTooLarge, viewW, viewH, w, h)
	}
	return &Canvas{
		img:   image.NewGray(image.Rect(0, 0, w, h)),
		ox:    w / 2,
		oy:    h / 2,
		viewW: viewW,
		viewH: viewH,
	}, nil
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Origin is the canvas pixel world (0,0) maps to.
func (c *Canvas) Origin() image.Point { return image.Pt(c.ox, c.oy) }

func (c *Canvas) At(x, y int) bool {
	return c.img.GrayAt(x, y).Y != 0
}

// WorldToCanvas rounds half to even. Results may fall outside the canvas.
func (c *Canvas) WorldToCanvas(wx, wy float64) (int, int) {
	return int(math.RoundToEven(float64(c.ox) + wx)), int(math.RoundToEven(float64(c.oy) + wy))
}

// StampMarker fills the square of side 2*half+1 around the mapped point,
// clipping each edge to the canvas independently.
func (c *Canvas) StampMarker(wx, wy float64, half int) {
	ix, iy := c.WorldToCanvas(wx, wy)
	fillClipped(c.img, ix-half, iy-half, ix+half, iy+half)
}

// DrawSegment draws a line between two world points. Pixels falling off the
// canvas are dropped.
func (c *Canvas) DrawSegment(wx0, wy0, wx1, wy1 float64) {
	x0, y0 := c.WorldToCanvas(wx0, wy0)
	x1, y1 := c.WorldToCanvas(wx1, wy1)
	drawLine(c.img, x0, y0, x1, y1)
}

// WindowOrigin returns the clamped top-left of a viewW x viewH window
// centered on the given world point.
func (c *Canvas) WindowOrigin(wx, wy float64, viewW, viewH int) image.Point {
	cx, cy := c.WorldToCanvas(wx, wy)
	w, h := c.img.Rect.Dx(), c.img.Rect.Dy()
	return image.Pt(clampAxis(cx-viewW/2, viewW, w), clampAxis(cy-viewH/2, viewH, h))
}

func clampAxis(lo, view, size int) int {
	if lo < 0 {
		lo = 0
	}
	if lo+view > size {
		lo = size - view
	}
	return lo
}

// ExtractWindow copies out a viewW x viewH window centered on (wx, wy).
// The view must not exceed the canvas; New refuses configurations where the
// display window would.
func (c *Canvas) ExtractWindow(wx, wy float64, viewW, viewH int) *image.Gray {
	tl := c.WindowOrigin(wx, wy, viewW, viewH)
	dst := image.NewGray(image.Rect(0, 0, viewW, viewH))
	draw.Draw(dst, dst.Bounds(), c.img, tl, draw.Src)
	return dst
}

// View extracts a window of the configured display size.
func (c *Canvas) View(wx, wy float64) *image.Gray {
	return c.ExtractWindow(wx, wy, c.viewW, c.viewH)
}

// MarkCenter stamps the fixed walker marker at the center of a frame.
func MarkCenter(frame *image.Gray, half int) {
	b := frame.Bounds()
	cx, cy := b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2
	fillClipped(frame, cx-half, cy-half, cx+half, cy+half)
}

func fillClipped(img *image.Gray, x0, y0, x1, y1 int) {
	b := img.Bounds()
	x0, y0 = max(b.Min.X, x0), max(b.Min.Y, y0)
	x1, y1 = min(b.Max.X-1, x1), min(b.Max.Y-1, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetGray(x, y, ink)
		}
	}
}

// drawLine uses Bresenham's algorithm; SetGray ignores points off the image.
func drawLine(img *image.Gray, x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		img.SetGray(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Reset blanks the canvas. The origin does not move.
func (c *Canvas) Reset() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
