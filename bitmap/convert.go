package bitmap

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

// Mode selects how greyscale pixels are reduced to on/off.
type Mode int

const (
	// Threshold turns on every pixel at or below Converter.Threshold.
	Threshold Mode = iota
	// Quantize reduces the frame to its two dominant tones with a median
	// cut and turns on pixels mapped to the darker one.
	Quantize
)

// Fit selects how a source image is scaled to the target size.
type Fit int

const (
	// Letterbox scales the whole image to fit inside the target, keeping
	// the aspect ratio. The resulting frame may be smaller than the target.
	Letterbox Fit = iota
	// Crop scales the image to cover the target and crops the overflow
	// around the centre.
	Crop
)

// Converter turns arbitrary images into frames no larger than Width by Height.
type Converter struct {
	Width, Height int
	Threshold     uint8
	Invert        bool
	Mode          Mode
	Fit           Fit
	Filter        imaging.ResampleFilter
}

// NewConverter returns a Converter with the classic settings: nearest
// neighbour letterboxing and a midpoint threshold.
func NewConverter(width, height int) *Converter {
	return &Converter{
		Width:     width,
		Height:    height,
		Threshold: 127,
		Filter:    imaging.NearestNeighbor,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Size returns the frame size an image of the given size converts to.
func (c *Converter) Size(width, height int) (int, int) {
	if c.Fit == Crop {
		return c.Width, c.Height
	}
	// Integer form of min(W/w, H/h), rounded to nearest
	if c.Width*height <= c.Height*width {
		return c.Width, clamp((height*c.Width*2+width)/(width*2), 1, c.Height)
	}
	return clamp((width*c.Height*2+height)/(height*2), 1, c.Width), c.Height
}

func (c *Converter) scale(m image.Image) *image.NRGBA {
	b := m.Bounds()
	if c.Fit == Crop {
		return imaging.Fill(m, c.Width, c.Height, imaging.Center, c.Filter)
	}
	w, h := c.Size(b.Dx(), b.Dy())
	return imaging.Resize(m, w, h, c.Filter)
}

func (c *Converter) darkIndex(gray *image.NRGBA) (color.Palette, int) {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), gray)
	if len(p) < 2 {
		return p, -1
	}
	dark := 0
	if luma(p[1]) < luma(p[0]) {
		dark = 1
	}
	return p, dark
}

func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (19595*r + 38470*g + 7471*b + 1<<15) >> 16
}

// Convert scales m, converts it to greyscale and reduces it to a frame.
func (c *Converter) Convert(m image.Image) *Frame {
	gray := imaging.Grayscale(c.scale(m))
	b := gray.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	var (
		p    color.Palette
		dark int
	)
	if c.Mode == Quantize {
		p, dark = c.darkIndex(gray)
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := gray.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			// A single tone frame falls back to the threshold
			on := px.R <= c.Threshold
			if c.Mode == Quantize && dark >= 0 {
				on = p.Index(px) == dark
			}
			if c.Invert {
				on = !on
			}
			f.SetPixel(x, y, on)
		}
	}

	return f
}
