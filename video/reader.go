package video

import (
	"github.com/bodgit/monovid/bitstream"
	"github.com/bodgit/monovid/chunk"
	"github.com/bodgit/monovid/display"
	"github.com/bodgit/monovid/runlength"
)

const headerBytes = 2

// Decoder plays a stream back one frame at a time. It is not safe for
// concurrent use; Next must not be re-entered.
type Decoder struct {
	r     bitstream.Reader
	data  []byte
	first bool

	width, height    int
	offsetX, offsetY int
	displayWidth     int
	displayHeight    int
	grid             chunk.Grid
	mask             chunk.Mask
}

// NewDecoder returns a Decoder for data, centring frames on a display of the
// given size.
func NewDecoder(data []byte, displayWidth, displayHeight int) (*Decoder, error) {
	if len(data) < headerBytes {
		return nil, ErrShortHeader
	}

	d := &Decoder{
		data:          data,
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
	}
	d.Reset()

	d.width, d.height = int(d.r.ReadBits(8)), int(d.r.ReadBits(8))
	if d.width == 0 || d.height == 0 {
		return nil, ErrInvalidSize
	}
	if d.width > displayWidth || d.height > displayHeight {
		return nil, ErrTooLarge
	}

	d.offsetX = (displayWidth - d.width) / 2
	d.offsetY = (displayHeight - d.height) / 2
	d.grid = chunk.NewGrid(d.width, d.height)

	return d, nil
}

// Width returns the frame width.
func (d *Decoder) Width() int {
	return d.width
}

// Height returns the frame height.
func (d *Decoder) Height() int {
	return d.height
}

// Offset returns the position of the top left frame pixel on the display.
func (d *Decoder) Offset() (int, int) {
	return d.offsetX, d.offsetY
}

// Grid returns the chunk layout of the frames.
func (d *Decoder) Grid() chunk.Grid {
	return d.grid
}

// Mask returns the chunks written by the last successful call to Next.
func (d *Decoder) Mask() chunk.Mask {
	return d.mask
}

// Reset rewinds the Decoder to the first frame.
func (d *Decoder) Reset() {
	d.r.Reset(d.data)
	d.first = true
	if d.width != 0 {
		d.r.ReadBits(8 * headerBytes)
	}
}

// Next decodes the next frame into fb, which must be the display size given
// to NewDecoder and must hold the previous frame. Only pixels in changed
// chunks and the margins either side of the frame are written. It returns
// false, leaving fb untouched, once the stream is exhausted.
func (d *Decoder) Next(fb display.Framebuffer) bool {
	mask := chunk.All
	if d.first {
		d.first = false
	} else {
		m, ok := d.r.TryReadBits(chunk.Count)
		if !ok {
			return false
		}
		mask = chunk.Mask(m)
	}
	d.mask = mask

	if mask == 0 {
		return true
	}

	current := d.r.ReadBit()
	run := runlength.Read(&d.r)

	ch := d.grid.ChunkHeight
	for x := 0; x < d.width; x++ {
		for y := 0; y < d.height; y++ {
			if y%ch == 0 && !mask.Has(d.grid.At(x, y)) {
				y += ch - 1
				continue
			}
			if run == 0 {
				current = !current
				run = runlength.Read(&d.r)
			}
			run--

			fb.SetPixel(x+d.offsetX, y+d.offsetY, current)
		}
	}

	d.stabiliseBorders(fb)

	return true
}
