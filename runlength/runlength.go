/*
Package runlength implements the start-step-stop code used to store the length
of each constant-colour run of pixels.

A run length n >= 1 is stored as n-1. The value space is split into groups of
3-bit steps: group 1 holds 0-7 in 3 bits, group 2 the next 64 values in 6 bits,
and so on up to group 6. The group count is sent in unary as (groups-1) one
bits and a terminating zero bit, followed by the offset into the group in
groups*3 bits, most significant bit first.
*/
package runlength

import (
	"errors"

	"github.com/bodgit/monovid/bitstream"
)

const (
	// GroupSize is the number of value bits added by each group.
	GroupSize = 3
	maxGroups = 6

	// MaxRun is the longest run that can be represented.
	MaxRun = 299592
)

// Cumulative capacity of groups 1..g, offsets[maxGroups] is the sentinel
// capacity of all six groups.
var offsets = [maxGroups + 1]uint64{0, 8, 72, 584, 4680, 37448, 299592}

// ErrRange is returned when a run length is outside 1..MaxRun.
var ErrRange = errors.New("runlength: run length out of range")

func groupsFor(v uint64) int {
	groups := 1
	for v >= offsets[groups] {
		groups++
	}
	return groups
}

// Size returns the number of bits needed to store a run of length n.
func Size(n int) (int, error) {
	if n < 1 || n > MaxRun {
		return 0, ErrRange
	}
	g := groupsFor(uint64(n - 1))
	return g + g*GroupSize, nil
}

// Write writes the run length n to w.
func Write(w *bitstream.Writer, n int) error {
	if n < 1 || n > MaxRun {
		return ErrRange
	}

	v := uint64(n - 1)
	groups := groupsFor(v)
	v -= offsets[groups-1]

	// groups-1 one bits followed by a zero bit
	if err := w.WriteBits((1<<uint(groups-1)-1)<<1, uint(groups)); err != nil {
		return err
	}
	return w.WriteBits(v, uint(groups*GroupSize))
}

// Read reads a run length from r. It performs no range checking; a group count
// above six is not a valid encoding and may panic.
func Read(r *bitstream.Reader) int {
	groups := 1
	for r.ReadBit() {
		groups++
	}
	return int(r.ReadBits(uint(groups*GroupSize)) + offsets[groups-1] + 1)
}

// Encoder run-length encodes a sequence of pixels. The first pixel written
// is stored literally as the starting colour; after that only run lengths are
// written, with the colour flipping after each run.
type Encoder struct {
	w       *bitstream.Writer
	current bool
	run     int
	started bool
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w *bitstream.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode adds one pixel.
func (e *Encoder) Encode(on bool) error {
	if !e.started {
		e.started = true
		e.current = on
		e.run = 1
		return e.w.WriteBit(on)
	}
	if on != e.current {
		if err := Write(e.w, e.run); err != nil {
			return err
		}
		e.current = on
		e.run = 0
	}
	e.run++
	return nil
}

// Flush writes the pending run and resets the Encoder so the next pixel
// starts a new sequence with its own starting colour.
func (e *Encoder) Flush() error {
	if !e.started {
		return nil
	}
	e.started = false
	return Write(e.w, e.run)
}
