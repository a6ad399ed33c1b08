package source

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/monovid/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, file string, m image.Image, enc func(io.Writer, image.Image) error) {
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, enc(f, m))
}

func solid(c color.Color) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "002.png"), solid(color.White), png.Encode)
	writeImage(t, filepath.Join(dir, "001.png"), solid(color.Black), png.Encode)
	writeImage(t, filepath.Join(dir, ".hidden.png"), solid(color.Black), png.Encode)
	f := bitmap.NewFrame(4, 4)
	f.FillRow(0, 0, 4, true)
	writeImage(t, filepath.Join(dir, "003.PBM"), f, bitmap.Encode)
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))
	require.Nil(t, os.Mkdir(filepath.Join(dir, "004.png"), 0755))

	files, err := Frames(dir, DefaultPattern)
	require.Nil(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001.png"),
		filepath.Join(dir, "002.png"),
		filepath.Join(dir, "003.PBM"),
	}, files)

	s, err := Open(dir, 12)
	require.Nil(t, err)
	defer s.Close()

	m, err := s.Next()
	require.Nil(t, err)
	r, _, _, _ := m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)

	m, err = s.Next()
	require.Nil(t, err)
	r, _, _, _ = m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	m, err = s.Next()
	require.Nil(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, f.Pixel(x, y), bitmap.Palette.Index(m.At(x, y)) == 1)
		}
	}

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDirSourceTooLarge(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "001.pbm"), []byte("P4\n65536 65536\n"), 0644))

	s, err := OpenDir(dir, DefaultPattern)
	require.Nil(t, err)
	defer s.Close()

	_, err = s.Next()
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestGIFSource(t *testing.T) {
	palette := color.Palette{color.Black, color.White, color.Gray{Y: 0x80}}
	frame := func(i uint8) *image.Paletted {
		m := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
		for j := range m.Pix {
			m.Pix[j] = i
		}
		return m
	}

	file := filepath.Join(t.TempDir(), "anim.GIF")
	f, err := os.Create(file)
	require.Nil(t, err)
	require.Nil(t, gif.EncodeAll(f, &gif.GIF{
		Image: []*image.Paletted{frame(0), frame(1), frame(2)},
		Delay: []int{10, 20, 5},
	}))
	require.Nil(t, f.Close())

	s, err := Open(file, 10)
	require.Nil(t, err)
	defer s.Close()

	var got []uint32
	for {
		m, err := s.Next()
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		r, _, _, _ := m.At(1, 1).RGBA()
		got = append(got, r>>8)
	}

	// Frames end at 100, 300 and 350ms, sampled every 100ms
	assert.Equal(t, []uint32{0x00, 0xff, 0xff, 0x80}, got)
}

func TestOpenUnsupported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "video.mp4")
	require.Nil(t, ioutil.WriteFile(file, nil, 0644))

	_, err := Open(file, 12)
	assert.Equal(t, ErrUnsupported, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing"), 12)
	assert.True(t, os.IsNotExist(err))
}
