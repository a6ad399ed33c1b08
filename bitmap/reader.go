package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/spakin/netpbm"
)

// MaxPixels bounds the area of a PBM image Decode will allocate a frame for.
const MaxPixels = 1 << 24

// ErrTooLarge is returned for PBM images with more than MaxPixels pixels.
var ErrTooLarge = errors.New("bitmap: PBM image too large")

func init() {
	image.RegisterFormat("pbm", "P4", Decode, DecodeConfig)
}

var decodeOptions = &netpbm.DecodeOptions{
	Target: netpbm.PBM,
	Exact:  true,
}

// Decode reads a PBM image from r and returns it as an image.Image. The
// concrete type is *Frame.
func Decode(r io.Reader) (image.Image, error) {
	// Check the header before anything is allocated for the raster
	var header bytes.Buffer
	cfg, err := DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, err
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, ErrTooLarge
	}

	m, err := netpbm.Decode(io.MultiReader(&header, r), decodeOptions)
	if err != nil {
		return nil, fmt.Errorf("bitmap: %w", err)
	}

	b := m.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if Palette.Index(m.At(b.Min.X+x, b.Min.Y+y)) == 1 {
				f.SetPixel(x, y, true)
			}
		}
	}

	return f, nil
}

// DecodeConfig returns the color model and dimensions of a PBM image without
// decoding the raster.
func DecodeConfig(r io.Reader) (image.Config, error) {
	cfg, err := netpbm.DecodeConfig(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("bitmap: %w", err)
	}
	return image.Config{
		ColorModel: Palette,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}, nil
}
