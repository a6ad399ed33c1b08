/*
Package bitmap implements a packed bilevel frame and a Netpbm P4 (PBM)
decoder and encoder for it.

Pixels are stored row-major, eight to a byte with the leftmost pixel in the
most significant bit, which is also the P4 raster layout. A set bit is "on",
which renders as black.
*/
package bitmap

import (
	"image"
	"image/color"
)

// MaxSize is the largest width or height a frame may have in a stream.
const MaxSize = 255

// Palette maps pixel values to colours; index 1 is "on".
var Palette = color.Palette{color.White, color.Black}

// Frame is a bilevel image.
type Frame struct {
	// Pix holds the packed pixels.
	Pix []byte
	// Stride is the number of bytes per row.
	Stride int
	// Rect is the frame bounds, always anchored at (0, 0).
	Rect image.Rectangle
}

// NewFrame returns a frame of the given size with every pixel off.
func NewFrame(width, height int) *Frame {
	stride := (width + 7) >> 3
	return &Frame{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// Width returns the frame width.
func (f *Frame) Width() int {
	return f.Rect.Dx()
}

// Height returns the frame height.
func (f *Frame) Height() int {
	return f.Rect.Dy()
}

// Pixel reports whether the pixel at (x, y) is on.
func (f *Frame) Pixel(x, y int) bool {
	return f.Pix[y*f.Stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// SetPixel sets the pixel at (x, y).
func (f *Frame) SetPixel(x, y int, on bool) {
	i, m := y*f.Stride+x>>3, byte(0x80>>uint(x&7))
	if on {
		f.Pix[i] |= m
	} else {
		f.Pix[i] &^= m
	}
}

// FillRow sets every pixel in row y from x0 up to but not including x1.
func (f *Frame) FillRow(y, x0, x1 int, on bool) {
	for x := x0; x < x1; x++ {
		f.SetPixel(x, y, on)
	}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return Palette
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return f.Rect
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Rect)) {
		return Palette[0]
	}
	if f.Pixel(x, y) {
		return Palette[1]
	}
	return Palette[0]
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	dup := *f
	dup.Pix = append([]byte(nil), f.Pix...)
	return &dup
}

// CopyRect copies the pixels of src inside r into f. Both frames must be the
// same size.
func (f *Frame) CopyRect(src *Frame, r image.Rectangle) {
	r = r.Intersect(f.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetPixel(x, y, src.Pixel(x, y))
		}
	}
}

// Equal reports whether f and o have the same size and pixels. Padding bits
// past the right edge are ignored.
func (f *Frame) Equal(o *Frame) bool {
	if f.Rect != o.Rect {
		return false
	}
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if f.Pixel(x, y) != o.Pixel(x, y) {
				return false
			}
		}
	}
	return true
}
