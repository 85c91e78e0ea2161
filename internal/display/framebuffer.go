package display

// FrameBuffer is a monochrome bitmap stored in the controller's page
// layout: bit b of byte x+page*width is pixel (x, page*8+b).
type FrameBuffer struct {
	width, height int
	pages         int
	buf           []byte
}

func NewFrameBuffer(width, height int) *FrameBuffer {
	pages := (height + 7) / 8
	return &FrameBuffer{
		width:  width,
		height: height,
		pages:  pages,
		buf:    make([]byte, width*pages),
	}
}

func (f *FrameBuffer) Width() int  { return f.width }
func (f *FrameBuffer) Height() int { return f.height }
func (f *FrameBuffer) Pages() int  { return f.pages }

// Set lights or clears (x, y). Coordinates outside the buffer are ignored.
func (f *FrameBuffer) Set(x, y int, on bool) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	idx := x + (y/8)*f.width
	bit := byte(1) << uint(y&7)
	if on {
		f.buf[idx] |= bit
	} else {
		f.buf[idx] &^= bit
	}
}

func (f *FrameBuffer) At(x, y int) bool {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return false
	}
	return f.buf[x+(y/8)*f.width]&(1<<uint(y&7)) != 0
}

func (f *FrameBuffer) Clear() {
	clear(f.buf)
}

// page returns the live storage of one page.
func (f *FrameBuffer) page(p int) []byte {
	return f.buf[p*f.width : (p+1)*f.width]
}
