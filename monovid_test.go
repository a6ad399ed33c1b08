package monovid

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/monovid/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageSource struct {
	images []image.Image
	closed bool
}

func (s *imageSource) Next() (image.Image, error) {
	if len(s.images) == 0 {
		return nil, io.EOF
	}
	m := s.images[0]
	s.images = s.images[1:]
	return m, nil
}

func (s *imageSource) Close() error {
	s.closed = true
	return nil
}

// bar draws a black vertical bar at x on a white background.
func bar(w, h, x int) image.Image {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for i := 0; i < w; i++ {
			if i >= x && i < x+4 {
				m.SetGray(i, y, color.Gray{})
			} else {
				m.SetGray(i, y, color.Gray{Y: 0xff})
			}
		}
	}
	return m
}

func bars(w, h, n int) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		images[i] = bar(w, h, (i*3)%(w-4))
	}
	return images
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Display.Width = 32
	cfg.Display.Height = 16
	return cfg
}

func testLogger() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func writeFrames(t *testing.T, dir string, images []image.Image) {
	require.NoError(t, os.MkdirAll(dir, os.FileMode(0755)))
	for i, m := range images {
		f, err := os.Create(filepath.Join(dir, string(rune('a'+i))+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, m))
		require.NoError(t, f.Close())
	}
}

func newTestMonovid(t *testing.T) *Monovid {
	m, err := New(filepath.Join(t.TempDir(), "test.db"), testConfig(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, m.Close())
	})
	return m
}
