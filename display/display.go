/*
Package display defines the pixel sink the video decoder draws into and
provides adapters for concrete buffer layouts.
*/
package display

// Framebuffer is a bilevel pixel buffer addressed in display coordinates.
// *bitmap.Frame satisfies it directly.
type Framebuffer interface {
	Width() int
	Height() int
	Pixel(x, y int) bool
	SetPixel(x, y int, on bool)
	// FillRow sets the pixels of row y in [x0, x1).
	FillRow(y, x0, x1 int, on bool)
}
