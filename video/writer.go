package video

import (
	"bufio"
	"io"
	"io/ioutil"
	"log"

	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/bitstream"
	"github.com/bodgit/monovid/chunk"
	"github.com/bodgit/monovid/runlength"
)

// Stats summarises an encode.
type Stats struct {
	Width, Height int
	// Frames is the number of frames written, including the first.
	Frames int
	// Unchanged counts frames written as a bare zero mask.
	Unchanged int
	// Chunks counts chunks retransmitted after the first frame.
	Chunks int
	// DeferredError is the pixel error summed over every chunk that was
	// not sent, over every frame.
	DeferredError uint64
	// Bytes is the size of the stream.
	Bytes int64
}

// AverageError returns the deferred error per frame, in pixels.
func (s Stats) AverageError() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.DeferredError) / float64(s.Frames)
}

// AverageErrorPercent returns the deferred error per frame as a percentage of
// the frame area.
func (s Stats) AverageErrorPercent() float64 {
	if s.Width*s.Height == 0 {
		return 0
	}
	return s.AverageError() * 100 / float64(s.Width*s.Height)
}

// Encoder writes frames to a stream.
type Encoder struct {
	bw    *bufio.Writer
	w     *bitstream.Writer
	cfg   chunk.Config
	det   *chunk.Detector
	stats Stats
}

// NewEncoder returns an Encoder writing to w. Close must be called to flush
// the final partial byte.
func NewEncoder(w io.Writer, cfg chunk.Config) *Encoder {
	bw := bufio.NewWriter(w)
	return &Encoder{
		bw:  bw,
		w:   bitstream.NewWriter(bw),
		cfg: cfg,
	}
}

func (e *Encoder) writePixels(f *bitmap.Frame, g chunk.Grid, m chunk.Mask) error {
	rle := runlength.NewEncoder(e.w)
	if err := g.Scan(m, func(x, y int) error {
		return rle.Encode(f.Pixel(x, y))
	}); err != nil {
		return err
	}
	return rle.Flush()
}

func (e *Encoder) writeFirst(f *bitmap.Frame) error {
	w, h := f.Width(), f.Height()
	if w < 1 || h < 1 || w > bitmap.MaxSize || h > bitmap.MaxSize {
		return ErrInvalidSize
	}

	if err := e.w.WriteBits(uint64(w), 8); err != nil {
		return err
	}
	if err := e.w.WriteBits(uint64(h), 8); err != nil {
		return err
	}

	e.det = chunk.NewDetector(f, e.cfg)
	e.stats.Width, e.stats.Height = w, h

	return e.writePixels(f, e.det.Grid(), chunk.All)
}

// Encode appends f to the stream and returns the chunks that were sent. The
// first frame is always sent in full.
func (e *Encoder) Encode(f *bitmap.Frame) (chunk.Mask, error) {
	if e.det == nil {
		if err := e.writeFirst(f); err != nil {
			return 0, err
		}
		e.stats.Frames++
		return chunk.All, nil
	}

	if f.Rect != e.det.Committed().Rect {
		return 0, ErrSizeChanged
	}

	mask, deferred := e.det.Detect(f)
	e.stats.DeferredError += deferred

	if err := e.w.WriteBits(uint64(mask), chunk.Count); err != nil {
		return 0, err
	}
	e.stats.Frames++

	if mask == 0 {
		e.stats.Unchanged++
		return mask, nil
	}

	for i := 0; i < chunk.Count; i++ {
		if mask.Has(i) {
			e.stats.Chunks++
		}
	}

	return mask, e.writePixels(f, e.det.Grid(), mask)
}

// Reference returns the picture a decoder will be showing after the frames
// written so far, or nil before the first frame.
func (e *Encoder) Reference() *bitmap.Frame {
	if e.det == nil {
		return nil
	}
	return e.det.Committed()
}

// Stats returns the statistics so far.
func (e *Encoder) Stats() Stats {
	s := e.stats
	s.Bytes = (e.w.Len() + 7) / 8
	return s
}

// Close flushes any buffered bits. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.w.Flush(); err != nil {
		return err
	}
	return e.bw.Flush()
}

// FrameSource yields frames to encode, returning io.EOF after the last one.
type FrameSource interface {
	Next() (*bitmap.Frame, error)
}

// Options control Encode.
type Options struct {
	Chunk chunk.Config
	// Limit stops the encode after this many frames, 0 for no limit.
	Limit int
	// FrameRate is only used to report progress.
	FrameRate int
	Logger    *log.Logger
}

// DefaultOptions are used when Encode is passed nil.
var DefaultOptions = Options{
	Chunk:     chunk.DefaultConfig,
	FrameRate: 12,
}

const progressInterval = 50

// Encode reads every frame from src and writes the stream to w.
func Encode(w io.Writer, src FrameSource, opts *Options) (Stats, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultOptions.FrameRate
	}

	e := NewEncoder(w, opts.Chunk)
	for {
		if opts.Limit > 0 && e.stats.Frames >= opts.Limit {
			logger.Println("Frame limit reached")
			break
		}

		f, err := src.Next()
		if err == io.EOF {
			if e.stats.Frames == 0 {
				return e.Stats(), ErrNoFrames
			}
			logger.Println("All frames read")
			break
		}
		if err != nil {
			return e.Stats(), err
		}

		if _, err := e.Encode(f); err != nil {
			return e.Stats(), err
		}

		if e.stats.Frames%progressInterval == 0 {
			logger.Printf("Encoded %.1f seconds\n", float64(e.stats.Frames)/float64(rate))
		}
	}

	if err := e.Close(); err != nil {
		return e.Stats(), err
	}

	s := e.Stats()
	logger.Printf("Encoded %d frames (%d unchanged, %d chunks resent) in %d bytes\n", s.Frames, s.Unchanged, s.Chunks, s.Bytes)
	logger.Printf("Total frame error: %d pixels, average %.2f pixels (%.2f%%)\n", s.DeferredError, s.AverageError(), s.AverageErrorPercent())

	return s, nil
}
