/*
Package bitstream implements the MSB-first bit writer and reader used by the
video codec.

The Writer packs bits into bytes starting from the most significant bit and
left-justifies any partial byte when flushed. The Reader works directly over an
in-memory byte slice so that it can be embedded by value in a decoder and never
allocates.
*/
package bitstream

import (
	"io"

	"github.com/icza/bitio"
)

// Writer accumulates bits MSB-first and writes whole bytes to the underlying
// io.Writer. Any write error is sticky and returned by subsequent calls.
type Writer struct {
	w     *bitio.Writer
	count int64
	err   error
}

// Passes each completed byte straight through so bitio does not buffer it.
type byteWriter struct {
	io.Writer
	tmp [1]byte
}

func (b *byteWriter) WriteByte(c byte) error {
	b.tmp[0] = c
	_, err := b.Write(b.tmp[:])
	return err
}

// NewWriter returns a new Writer writing to w. Each byte is written to w as
// soon as it is complete.
func NewWriter(w io.Writer) *Writer {
	if _, ok := w.(io.ByteWriter); !ok {
		w = &byteWriter{Writer: w}
	}
	return &Writer{w: bitio.NewWriter(w)}
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(bit bool) error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.WriteBool(bit)
	w.count++
	return w.err
}

// WriteBits writes the low n bits of v, most significant first. n must not
// exceed 64.
func (w *Writer) WriteBits(v uint64, n uint) error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.WriteBits(v, uint8(n))
	w.count += int64(n)
	return w.err
}

// Len returns the number of bits written so far, including any not yet
// flushed.
func (w *Writer) Len() int64 {
	return w.count
}

// Flush writes any partial byte, left-justified with the remaining low bits
// set to zero. Flushing on a byte boundary writes nothing.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	skipped, err := w.w.Align()
	if err != nil {
		w.err = err
		return err
	}
	w.count += int64(skipped)
	return nil
}

// Reader consumes bits MSB-first from a byte slice. The zero value reads from
// an empty slice; use Reset or NewReader to point it at data.
//
// ReadBit and ReadBits perform no range checking and will panic if they run
// past the end of the data. Only TryReadBits is bounded.
type Reader struct {
	data []byte
	pos  int
	bit  uint8 // bits left in data[pos], 1..8
}

// NewReader returns a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	r := new(Reader)
	r.Reset(data)
	return r
}

// Reset repositions r at the first bit of data.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
	r.bit = 8
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() bool {
	r.bit--
	bit := r.data[r.pos]&(1<<r.bit) != 0
	if r.bit == 0 {
		r.bit = 8
		r.pos++
	}
	return bit
}

// ReadBits returns the next n bits as an unsigned integer, most significant
// bit first. n must not exceed 64.
func (r *Reader) ReadBits(n uint) uint64 {
	var v uint64
	for ; n > 0; n-- {
		v <<= 1
		if r.ReadBit() {
			v |= 1
		}
	}
	return v
}

// TryReadBits reads exactly n bits. If fewer than n bits remain it returns
// false and leaves the cursor untouched.
func (r *Reader) TryReadBits(n uint) (uint64, bool) {
	if uint64(r.Remaining()) < uint64(n) {
		return 0, false
	}
	return r.ReadBits(n), true
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return (len(r.data)-r.pos-1)*8 + int(r.bit)
}

// Offset returns the index of the byte holding the next bit.
func (r *Reader) Offset() int {
	return r.pos
}
