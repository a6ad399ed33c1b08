package monovid

import (
	"bufio"
	"bytes"
	"image"
	"log"
	"os"

	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/config"
	"github.com/bodgit/monovid/source"
	"github.com/bodgit/monovid/video"
)

type frameSource struct {
	src  source.Source
	conv *bitmap.Converter
}

func (s *frameSource) Next() (*bitmap.Frame, error) {
	m, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	return s.conv.Convert(m), nil
}

func options(cfg config.Config, limit int, logger *log.Logger) *video.Options {
	if limit == 0 {
		limit = cfg.Encoder.Limit
	}
	return &video.Options{
		Chunk:     cfg.Chunk(),
		Limit:     limit,
		FrameRate: cfg.Display.FrameRate,
		Logger:    logger,
	}
}

// EncodeImages encodes a sequence of images, converting each to fit the
// configured display.
func EncodeImages(cfg config.Config, src source.Source, limit int, logger *log.Logger) ([]byte, video.Stats, error) {
	b := new(bytes.Buffer)
	stats, err := video.Encode(b, &frameSource{src: src, conv: cfg.Converter()}, options(cfg, limit, logger))
	if err != nil {
		return nil, stats, err
	}
	return b.Bytes(), stats, nil
}

// EncodeFile encodes the directory or GIF at in and writes the stream to out.
// The output file is only created once the source has been opened and is
// removed again if the encode fails.
func EncodeFile(cfg config.Config, in, out string, limit int, logger *log.Logger) (stats video.Stats, err error) {
	src, err := source.Open(in, cfg.Display.FrameRate)
	if err != nil {
		return video.Stats{}, err
	}
	defer src.Close()

	f, err := os.Create(out)
	if err != nil {
		return video.Stats{}, err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(out)
		}
	}()

	w := bufio.NewWriter(f)
	if stats, err = video.Encode(w, &frameSource{src: src, conv: cfg.Converter()}, options(cfg, limit, logger)); err != nil {
		return stats, err
	}
	if err = w.Flush(); err != nil {
		return stats, err
	}

	return stats, f.Close()
}

// Grey levels used for "on" and "off" pixels in chunks that were not sent
const (
	unchangedOn  = 0x28
	unchangedOff = 0xc8
)

func showUnchanged(dst *image.Gray, d *video.Decoder, fb *bitmap.Frame) {
	offX, offY := d.Offset()
	g, mask := d.Grid(), d.Mask()
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			on := fb.Pixel(x, y)
			fx, fy := x-offX, y-offY
			inFrame := fx >= 0 && fy >= 0 && fx < d.Width() && fy < d.Height()

			var v uint8
			switch {
			case inFrame && !mask.Has(g.At(fx, fy)) && on:
				v = unchangedOn
			case inFrame && !mask.Has(g.At(fx, fy)):
				v = unchangedOff
			case on:
				v = 0x00
			default:
				v = 0xff
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
}

// DecodeFrames plays data onto a display sized framebuffer and calls fn with
// every frame, as an image, in turn. If unchanged is set each image is an
// *image.Gray with the pixels of chunks not sent in that frame shown grey.
func DecodeFrames(cfg config.Config, data []byte, unchanged bool, fn func(int, image.Image) error) (int, error) {
	d, err := video.NewDecoder(data, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return 0, err
	}

	fb := bitmap.NewFrame(cfg.Display.Width, cfg.Display.Height)
	var gray *image.Gray
	if unchanged {
		gray = image.NewGray(fb.Bounds())
	}

	var n int
	for d.Next(fb) {
		var m image.Image = fb
		if unchanged {
			showUnchanged(gray, d, fb)
			m = gray
		}
		if err := fn(n, m); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
