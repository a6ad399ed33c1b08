package source

import (
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// GIF frames with no delay are shown for this long, in 100ths of a second
const defaultDelay = 10

type gifSource struct {
	frames   []*image.RGBA
	ends     []int // cumulative end time of each frame, in ms
	interval float64
	sample   int
	i        int
}

// OpenGIF returns a Source that samples the animation in path every
// 1/frameRate seconds, the way a video would be sampled.
func OpenGIF(path string, frameRate int) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return newGIFSource(f, frameRate)
}

func newGIFSource(r io.Reader, frameRate int) (*gifSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}

	b := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if b.Empty() && len(g.Image) > 0 {
		b = g.Image[0].Bounds()
	}

	s := &gifSource{
		interval: 1000 / float64(frameRate),
	}

	canvas := image.NewRGBA(b)
	var end int
	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = copyRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		s.frames = append(s.frames, copyRGBA(canvas))

		delay := defaultDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i]
		}
		end += delay * 10
		s.ends = append(s.ends, end)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return s, nil
}

func copyRGBA(m *image.RGBA) *image.RGBA {
	dup := *m
	dup.Pix = append([]uint8(nil), m.Pix...)
	return &dup
}

func (s *gifSource) Next() (image.Image, error) {
	t := int(float64(s.sample) * s.interval)
	for s.i < len(s.ends) && t >= s.ends[s.i] {
		s.i++
	}
	if s.i >= len(s.frames) {
		return nil, io.EOF
	}
	s.sample++
	return s.frames[s.i], nil
}

func (s *gifSource) Close() error {
	return nil
}
