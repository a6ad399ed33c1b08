package video

import (
	"fmt"

	"github.com/bodgit/monovid/bitmap"
)

// Info describes a stream.
type Info struct {
	Width, Height int
	Frames        int
}

// Probe decodes the whole of data to validate it and count its frames. Unlike
// Decoder.Next it is safe to call on untrusted data.
func Probe(data []byte) (info Info, err error) {
	if len(data) < headerBytes {
		return Info{}, ErrShortHeader
	}

	// Use a display exactly the size of the frame so there are no margins
	d, err := NewDecoder(data, int(data[0]), int(data[1]))
	if err != nil {
		return Info{}, err
	}
	info.Width, info.Height = d.Width(), d.Height()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: after %d frames: %v", ErrCorrupt, info.Frames, r)
		}
	}()

	fb := bitmap.NewFrame(info.Width, info.Height)
	for d.Next(fb) {
		info.Frames++
	}

	return info, nil
}
