package display

import (
	"bufio"
	"io"
)

var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// Render draws fb as text, two pixel rows per line using half block
// characters. If home is true the cursor is first moved to the top left so
// successive frames overwrite each other on an ANSI terminal.
func Render(w io.Writer, fb Framebuffer, home bool) error {
	bw := bufio.NewWriter(w)
	if home {
		if _, err := bw.WriteString("\x1b[H"); err != nil {
			return err
		}
	}
	for y := 0; y < fb.Height(); y += 2 {
		for x := 0; x < fb.Width(); x++ {
			var i int
			if fb.Pixel(x, y) {
				i |= 1
			}
			if y+1 < fb.Height() && fb.Pixel(x, y+1) {
				i |= 2
			}
			if _, err := bw.WriteString(halfBlocks[i]); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
