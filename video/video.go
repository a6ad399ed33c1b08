/*
Package video implements the bilevel video stream encoder and decoder.

A stream starts with two bytes, the frame width and height, each 1 to 255.
The first frame follows immediately as run-length coded pixels in
column-major order: a literal starting colour bit, then start-step-stop coded
run lengths with the colour flipping after each run. Every later frame starts
with a 64-bit change mask, chunk 63 first. A zero mask means the frame is
unchanged and nothing else follows; otherwise the pixels of the changed chunks
follow in the same run-length form, skipping unchanged chunks entirely. The
stream ends when fewer than 64 bits remain for the next mask. There is no
version tag or checksum.

The decoder is written for a playback loop driven by a periodic timer. It never
allocates and reads the stream without bounds checks once a frame's mask has
been read: the data is assumed to come from this package's encoder. A
truncated or corrupt stream makes Decoder.Next panic part way through a frame.
*/
package video

import "errors"

// Filename is the conventional name of an encoded stream on disk.
const Filename = "video.bin"

var (
	// ErrNoFrames is returned when the source yields no frames at all.
	ErrNoFrames = errors.New("video: no frames to encode")
	// ErrSizeChanged is returned when a frame differs in size from the
	// first frame of the stream.
	ErrSizeChanged = errors.New("video: frame size changed")
	// ErrInvalidSize is returned for frames wider or taller than 255
	// pixels, or empty ones.
	ErrInvalidSize = errors.New("video: invalid frame size")
	// ErrTooLarge is returned when the frame does not fit on the display.
	ErrTooLarge = errors.New("video: frame larger than display")
	// ErrShortHeader is returned when a stream is shorter than its size
	// header.
	ErrShortHeader = errors.New("video: stream too short")
	// ErrCorrupt is returned by Probe for streams that end part way
	// through a frame or contain an invalid run length.
	ErrCorrupt = errors.New("video: corrupt stream")
)
