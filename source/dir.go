package source

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bodgit/monovid/bitmap"
	"github.com/gobwas/glob"
)

type dirSource struct {
	files []string
	i     int
}

// Frames lists the files in dir matching pattern, case insensitively, in
// lexical order. Hidden files are ignored.
func Frames(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, err
	}

	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	infos, err := d.Readdir(0)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, info := range infos {
		name := info.Name()
		if name[0] == '.' || !info.Mode().IsRegular() {
			continue
		}
		if g.Match(strings.ToLower(name)) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	return files, nil
}

// OpenDir returns a Source reading every file in dir matching pattern.
func OpenDir(dir, pattern string) (Source, error) {
	files, err := Frames(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &dirSource{files: files}, nil
}

func (s *dirSource) Next() (image.Image, error) {
	if s.i >= len(s.files) {
		return nil, io.EOF
	}

	f, err := os.Open(s.files[s.i])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s.i++

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", s.files[s.i-1], err)
	}
	if cfg.Width*cfg.Height > bitmap.MaxPixels {
		return nil, fmt.Errorf("source: %s: %w", s.files[s.i-1], ErrTooLarge)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", s.files[s.i-1], err)
	}
	return m, nil
}

func (s *dirSource) Close() error {
	return nil
}
