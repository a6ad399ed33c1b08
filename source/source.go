/*
Package source reads the still images a video is built from.

A source is either a directory of numbered image files, read in lexical order,
or an animated GIF which is resampled to a fixed frame rate.
*/
package source

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Frame formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultPattern matches the image files a directory source reads.
const DefaultPattern = "*.{png,jpg,jpeg,gif,bmp,webp,pbm}"

var (
	// ErrUnsupported is returned for paths that are neither a directory
	// nor a GIF.
	ErrUnsupported = errors.New("source: unsupported source")
	// ErrTooLarge is returned for images with more than bitmap.MaxPixels
	// pixels.
	ErrTooLarge = errors.New("source: image too large")
)

// Source yields images in playback order. Next returns io.EOF after the last
// image.
type Source interface {
	Next() (image.Image, error)
	Close() error
}

// Open opens path as a Source. Directories are read with DefaultPattern, GIF
// files are sampled at frameRate frames per second.
func Open(path string, frameRate int) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return OpenDir(path, DefaultPattern)
	}

	if strings.ToLower(filepath.Ext(path)) == ".gif" {
		return OpenGIF(path, frameRate)
	}

	return nil, ErrUnsupported
}
