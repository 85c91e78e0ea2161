// Package display drives an SH1106-class monochrome OLED controller.
//
// The [Driver] owns a page-organized [FrameBuffer]; callers only see pixel
// and image operations. The controller's wire format (page and column
// addressing followed by chunked RAM writes) stays inside this package.
//
// # Lifecycle
//
//	d := display.New(b, cfg.Display, logger)
//	defer d.Close()
//	if err := d.Initialize(); err != nil { ... }
//	d.Clear()
//	d.Blit(img)
//	err := d.Present()
//
// A failed bus write is fatal: there are no retries and no partial-frame
// recovery.
package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/san-kum/oledwalk/internal/bus"
	"github.com/san-kum/oledwalk/internal/config"
)

// InitSequence is the fixed power-up configuration, one command byte per
// write. Contrast, rotation and multiplex are not tunable.
var InitSequence = []byte{
	0xAE,       // display off
	0xD5, 0x80, // clock divide
	0xA8, 0x3F, // multiplex 1/64
	0xD3, 0x00, // display offset
	0x40,       // start line 0
	0xAD, 0x8B, // charge pump on
	0xA1,       // segment remap
	0xC8,       // COM scan descending
	0xDA, 0x12, // COM pins
	0x81, 0x7F, // contrast
	0xD9, 0x22, // precharge
	0xDB, 0x40, // VCOM deselect
	0xA4,       // resume from RAM
	0xA6,       // normal, not inverted
	0xAF,       // display on
}

const (
	cmdPageAddr   = 0xB0
	cmdColumnLow  = 0x00
	cmdColumnHigh = 0x10

	// Threshold is the 8-bit gray level at which a source pixel is lit.
	Threshold = 128
)

var ErrNotInitialized = errors.New("display: not initialized")

type Driver struct {
	bus          bus.Bus
	fb           *FrameBuffer
	columnOffset int
	chunkSize    int
	initialized  bool
	closed       bool
	logger       *slog.Logger
}

func New(b bus.Bus, cfg config.DisplayConfig, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 || chunk > bus.MaxChunk {
		chunk = bus.MaxChunk
	}
	return &Driver{
		bus:          b,
		fb:           NewFrameBuffer(cfg.Width, cfg.Height),
		columnOffset: cfg.ColumnOffset,
		chunkSize:    chunk,
		logger:       logger.With("component", "display"),
	}
}

func (d *Driver) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.fb.Width(), d.fb.Height())
}

func (d *Driver) Initialized() bool { return d.initialized }

// Initialize sends InitSequence. It stops at the first failed write and
// leaves the driver uninitialized.
func (d *Driver) Initialize() error {
	for i, c := range InitSequence {
		if err := d.bus.Command(c); err != nil {
			return fmt.Errorf("display: init byte %d (0x%02X): %w", i, c, err)
		}
	}
	d.initialized = true
	d.logger.Debug("controller initialized", "commands", len(InitSequence))
	return nil
}

// Clear zeroes the output buffer. Nothing is sent until Present.
func (d *Driver) Clear() {
	d.fb.Clear()
}

// SetPixel is a no-op outside the panel; callers rely on that to crop
// unclamped drawing.
func (d *Driver) SetPixel(x, y int, on bool) {
	d.fb.Set(x, y, on)
}

// Blit copies the panel-sized top-left region of img into the buffer.
// Pixels outside img's bounds are cleared.
func (d *Driver) Blit(img image.Image) {
	b := img.Bounds()
	for y := 0; y < d.fb.Height(); y++ {
		for x := 0; x < d.fb.Width(); x++ {
			p := image.Pt(b.Min.X+x, b.Min.Y+y)
			on := false
			if p.In(b) {
				on = color.GrayModel.Convert(img.At(p.X, p.Y)).(color.Gray).Y >= Threshold
			}
			d.SetPixel(x, y, on)
		}
	}
}

// Present streams the buffer to the controller page by page.
func (d *Driver) Present() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	col := d.columnOffset
	for p := 0; p < d.fb.Pages(); p++ {
		for _, c := range [...]byte{
			cmdPageAddr + byte(p),
			cmdColumnLow | byte(col&0x0F),
			cmdColumnHigh | byte((col>>4)&0x0F),
		} {
			if err := d.bus.Command(c); err != nil {
				return fmt.Errorf("display: address page %d: %w", p, err)
			}
		}
		data := d.fb.page(p)
		for i := 0; i < len(data); i += d.chunkSize {
			end := min(i+d.chunkSize, len(data))
			if err := d.bus.Data(data[i:end]); err != nil {
				return fmt.Errorf("display: page %d bytes %d-%d: %w", p, i, end, err)
			}
		}
	}
	return nil
}

// Show replaces the buffer with img and presents it.
func (d *Driver) Show(img image.Image) error {
	d.Clear()
	d.Blit(img)
	return d.Present()
}

// Close releases the bus. No controller teardown is sent.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.initialized = false
	return d.bus.Close()
}
