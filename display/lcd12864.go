package display

const (
	// LCDWidth and LCDHeight are the visible size of a 12864 panel.
	LCDWidth  = 128
	LCDHeight = 64

	lcdRows    = 32
	lcdColumns = 16
	wordBits   = 16
)

// Bus is the panel side of a 12864 graphic RAM update. The controller
// auto-increments its address after each pair of data bytes.
type Bus interface {
	SetAddress(row, column int) error
	WriteData(b byte) error
}

// LCD12864 lays pixels out the way a 12864 controller addresses its graphic
// RAM: 32 rows of sixteen 16-bit words, the leftmost pixel in the most
// significant bit, with the bottom 32 display rows stored in words 8 to 15 of
// the top rows.
type LCD12864 struct {
	// Draw is the buffer the decoder writes to.
	Draw [lcdRows][lcdColumns]uint16

	// What the panel is currently showing
	displayed [lcdRows][lcdColumns]uint16
}

var _ Framebuffer = (*LCD12864)(nil)

// Width implements Framebuffer.
func (l *LCD12864) Width() int {
	return LCDWidth
}

// Height implements Framebuffer.
func (l *LCD12864) Height() int {
	return LCDHeight
}

func locate(x, y int) (row, column int, bit uint) {
	row, column, bit = y, x/wordBits, uint(wordBits-1-x%wordBits)
	if row >= lcdRows {
		row -= lcdRows
		column += LCDWidth / wordBits
	}
	return
}

// Pixel implements Framebuffer.
func (l *LCD12864) Pixel(x, y int) bool {
	row, column, bit := locate(x, y)
	return l.Draw[row][column]&(1<<bit) != 0
}

// SetPixel implements Framebuffer.
func (l *LCD12864) SetPixel(x, y int, on bool) {
	row, column, bit := locate(x, y)
	if on {
		l.Draw[row][column] |= 1 << bit
	} else {
		l.Draw[row][column] &^= 1 << bit
	}
}

// FillRow implements Framebuffer a word at a time, masking the partial words
// at either end.
func (l *LCD12864) FillRow(y, x0, x1 int, on bool) {
	for x0 < x1 {
		row, column, _ := locate(x0, y)
		end := (x0/wordBits + 1) * wordBits
		if end > x1 {
			end = x1
		}
		first, last := uint(x0%wordBits), uint((end-1)%wordBits)
		mask := uint16(0xffff>>first) & uint16(0xffff<<(wordBits-1-last))
		if on {
			l.Draw[row][column] |= mask
		} else {
			l.Draw[row][column] &^= mask
		}
		x0 = end
	}
}

// Clear turns every pixel off in both buffers, matching a panel that has just
// had its graphic RAM cleared.
func (l *LCD12864) Clear() {
	l.Draw = [lcdRows][lcdColumns]uint16{}
	l.displayed = l.Draw
}

// Update pushes every word that differs from what the panel is showing. Runs
// of consecutive changed words share a single address command. It returns the
// number of words written.
func (l *LCD12864) Update(bus Bus) (int, error) {
	var n int
	for row := 0; row < lcdRows; row++ {
		run := false
		for column := 0; column < lcdColumns; column++ {
			data := l.Draw[row][column]
			if l.displayed[row][column] == data {
				run = false
				continue
			}
			if !run {
				if err := bus.SetAddress(row, column); err != nil {
					return n, err
				}
				run = true
			}
			if err := bus.WriteData(byte(data >> 8)); err != nil {
				return n, err
			}
			if err := bus.WriteData(byte(data)); err != nil {
				return n, err
			}
			l.displayed[row][column] = data
			n++
		}
	}
	return n, nil
}
