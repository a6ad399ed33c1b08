package video

import "github.com/bodgit/monovid/display"

// How many more pixels of one colour than the other the edge column of a
// frame needs before the margin beside it is painted that colour.
const borderBias = 10

// The margins either side of a narrow frame are never written by decoded
// pixels, so they are painted to match the frame's outermost columns when
// those are clearly one colour.
func (d *Decoder) stabiliseBorders(fb display.Framebuffer) {
	left, right := d.offsetX, d.offsetX+d.width
	if left == 0 && right >= d.displayWidth {
		return
	}

	var l0, l1, r0, r1 int
	for y := d.offsetY; y < d.offsetY+d.height; y++ {
		if fb.Pixel(left, y) {
			l1++
		} else {
			l0++
		}
		if fb.Pixel(right-1, y) {
			r1++
		} else {
			r0++
		}
	}

	if left > 0 && abs(l1-l0) >= borderBias {
		on := l1 > l0
		for y := 0; y < d.displayHeight; y++ {
			fb.FillRow(y, 0, left, on)
		}
	}

	if right < d.displayWidth && abs(r1-r0) >= borderBias {
		on := r1 > r0
		for y := 0; y < d.displayHeight; y++ {
			fb.FillRow(y, right, d.displayWidth, on)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
