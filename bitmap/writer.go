package bitmap

import (
	"errors"
	"image"
	"io"

	"github.com/spakin/netpbm"
)

var encodeOptions = &netpbm.EncodeOptions{
	Format: netpbm.PBM,
}

// Encode writes the Image m to w in binary PBM format. Images that are not a
// *Frame are mapped pixel by pixel to the nearest colour in Palette.
func Encode(w io.Writer, m image.Image) error {
	if m.Bounds().Empty() {
		return errors.New("bitmap: image is empty")
	}

	f, ok := m.(*Frame)
	if !ok {
		b := m.Bounds()
		f = NewFrame(b.Dx(), b.Dy())
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				f.SetPixel(x, y, Palette.Index(m.At(b.Min.X+x, b.Min.Y+y)) == 1)
			}
		}
	}

	return netpbm.Encode(w, f, encodeOptions)
}
