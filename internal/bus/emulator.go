package bus

import (
	"errors"
	"image"
	"image/color"
)

const (
	// EmulatorColumns is the SH1106 RAM width; 128-pixel panels show columns 2..129.
	EmulatorColumns = 132
	EmulatorPages   = 8
)

// argCount lists commands followed by one parameter byte.
var argCount = map[byte]int{
	0x81: 1, // contrast
	0xA8: 1, // multiplex ratio
	0xAD: 1, // charge pump
	0xD3: 1, // display offset
	0xD5: 1, // clock divide
	0xD9: 1, // precharge
	0xDA: 1, // COM pins
	0xDB: 1, // VCOM deselect
}

var errInjected = errors.New("emulated NACK")

// Emulator interprets the controller byte stream in memory. It is used by
// the terminal preview and by tests that need to inspect what went over
// the wire.
type Emulator struct {
	ram     [EmulatorPages][EmulatorColumns]byte
	page    int
	column  int
	pending []byte
	need    int

	DisplayOn bool
	Closed    bool

	// Commands is every command byte received, parameters included.
	Commands []byte
	// Chunks holds the size of each data transaction.
	Chunks []int
	// Writes counts transactions of either kind.
	Writes int
	// FailAt makes the Nth transaction (1-based) fail. Zero disables it.
	FailAt int
	// Params records the last parameter seen for each multi-byte command.
	Params map[byte]byte
}

func NewEmulator() *Emulator {
	return &Emulator{Params: make(map[byte]byte)}
}

func (e *Emulator) fail(op string, reg byte) error {
	if e.Closed {
		return &Error{Op: op, Register: reg, Wrapped: ErrClosed}
	}
	e.Writes++
	if e.FailAt > 0 && e.Writes == e.FailAt {
		return &Error{Op: op, Register: reg, Wrapped: errInjected}
	}
	return nil
}

func (e *Emulator) Command(b byte) error {
	if err := e.fail("command", ControlCommand); err != nil {
		return err
	}
	e.Commands = append(e.Commands, b)

	if e.need > 0 {
		e.Params[e.pending[0]] = b
		e.need--
		if e.need == 0 {
			e.pending = e.pending[:0]
		}
		return nil
	}

	switch {
	case b == 0xAE:
		e.DisplayOn = false
	case b == 0xAF:
		e.DisplayOn = true
	case b >= 0xB0 && b <= 0xB7:
		e.page = int(b & 0x07)
	case b <= 0x0F:
		e.column = e.column&0xF0 | int(b)
	case b >= 0x10 && b <= 0x1F:
		e.column = e.column&0x0F | int(b&0x0F)<<4
	default:
		if n, ok := argCount[b]; ok {
			e.pending = append(e.pending[:0], b)
			e.need = n
		}
	}
	return nil
}

func (e *Emulator) Data(p []byte) error {
	if len(p) > MaxChunk {
		return &Error{Op: "data", Register: ControlData, Wrapped: ErrChunkTooLarge}
	}
	if err := e.fail("data", ControlData); err != nil {
		return err
	}
	e.Chunks = append(e.Chunks, len(p))
	for _, v := range p {
		if e.column < EmulatorColumns {
			e.ram[e.page][e.column] = v
		}
		e.column++
	}
	return nil
}

func (e *Emulator) Close() error {
	e.Closed = true
	return nil
}

// Page returns a copy of one RAM page.
func (e *Emulator) Page(page int) []byte {
	out := make([]byte, EmulatorColumns)
	copy(out, e.ram[page][:])
	return out
}

// Pixel reports the RAM bit behind display pixel (x, y) for a panel whose
// first visible column is offset.
func (e *Emulator) Pixel(x, y, offset int) bool {
	col := x + offset
	if col < 0 || col >= EmulatorColumns || y < 0 || y >= EmulatorPages*8 {
		return false
	}
	return e.ram[y/8][col]&(1<<uint(y%8)) != 0
}

// Snapshot renders the visible w x h panel as a grayscale image, lit
// pixels white. A display that is off renders black.
func (e *Emulator) Snapshot(w, h, offset int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	if !e.DisplayOn {
		return img
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if e.Pixel(x, y, offset) {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}
