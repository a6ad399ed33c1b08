package chunk

import "github.com/bodgit/monovid/bitmap"

// Config holds the change detector tuning.
type Config struct {
	// DiffPercent is the share of a chunk's area that must accumulate as
	// error before the chunk is retransmitted.
	DiffPercent int
	// UniformPenalty is added to a chunk's error while it is a single
	// colour and has any error pending.
	UniformPenalty int
}

// DefaultConfig is the tuning the codec was designed with.
var DefaultConfig = Config{
	DiffPercent:    8,
	UniformPenalty: 5,
}

// Detector decides which chunks of each new frame need to be sent. It keeps a
// snapshot of what the decoder is showing and the error accumulated against it
// per chunk.
type Detector struct {
	grid      Grid
	cfg       Config
	limit     uint64
	errors    [Count]uint64
	committed *bitmap.Frame
}

// NewDetector returns a Detector seeded with the first frame, which is always
// sent in full.
func NewDetector(first *bitmap.Frame, cfg Config) *Detector {
	g := NewGrid(first.Width(), first.Height())
	return &Detector{
		grid:      g,
		cfg:       cfg,
		limit:     uint64(g.Area() * cfg.DiffPercent / 100),
		committed: first.Clone(),
	}
}

// Grid returns the chunk layout.
func (d *Detector) Grid() Grid {
	return d.grid
}

// Error returns the error currently accumulated for chunk i.
func (d *Detector) Error(i int) uint64 {
	return d.errors[i]
}

// Committed returns the snapshot of what has been sent so far. It must not be
// modified.
func (d *Detector) Committed() *bitmap.Frame {
	return d.committed
}

// Detect compares f against the committed snapshot and returns the chunks to
// send. Sent chunks have their error reset and are copied into the snapshot.
// The second return value is the pixel error left outstanding in chunks that
// were not sent this frame.
func (d *Detector) Detect(f *bitmap.Frame) (Mask, uint64) {
	var (
		mask     Mask
		deferred uint64
	)

	for i := 0; i < Count; i++ {
		r := d.grid.Bounds(i)
		if r.Empty() {
			continue
		}

		var diff uint64
		uniform, first := true, f.Pixel(r.Min.X, r.Min.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				cur := f.Pixel(x, y)
				if cur != d.committed.Pixel(x, y) {
					diff++
				}
				if cur != first {
					uniform = false
				}
			}
		}

		d.errors[i] += diff
		if uniform && d.errors[i] > 0 {
			d.errors[i] += uint64(d.cfg.UniformPenalty)
		}

		if d.errors[i] > d.limit {
			d.errors[i] = 0
			mask = mask.Set(i)
			d.committed.CopyRect(f, r)
		} else {
			deferred += diff
		}
	}

	return mask, deferred
}
