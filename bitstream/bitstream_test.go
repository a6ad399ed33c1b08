package bitstream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFlushLeftJustifies(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewWriter(b)

	require.Nil(t, w.WriteBits(0x5, 3))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, int64(3), w.Len())

	require.Nil(t, w.Flush())
	assert.Equal(t, []byte{0xa0}, b.Bytes())
	assert.Equal(t, int64(8), w.Len())

	// Nothing pending, nothing written
	require.Nil(t, w.Flush())
	assert.Equal(t, 1, b.Len())
}

func TestWriterWholeBytes(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewWriter(b)

	require.Nil(t, w.WriteBits(0xdead, 16))
	require.Nil(t, w.WriteBit(true))
	require.Nil(t, w.Flush())

	assert.Equal(t, []byte{0xde, 0xad, 0x80}, b.Bytes())
}

type plainWriter struct {
	b bytes.Buffer
}

func (w *plainWriter) Write(p []byte) (int, error) {
	return w.b.Write(p)
}

func TestWriterPlainWriter(t *testing.T) {
	pw := new(plainWriter)
	w := NewWriter(pw)

	require.Nil(t, w.WriteBits(0xab, 8))
	assert.Equal(t, []byte{0xab}, pw.b.Bytes())

	// Bits above n are ignored
	require.Nil(t, w.WriteBits(0xff3, 4))
	require.Nil(t, w.Flush())
	assert.Equal(t, []byte{0xab, 0x30}, pw.b.Bytes())
	assert.Equal(t, int64(16), w.Len())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failWriter{})

	assert.Nil(t, w.WriteBits(0, 7))
	assert.NotNil(t, w.WriteBit(false))
	assert.NotNil(t, w.WriteBit(true))
	assert.NotNil(t, w.Flush())
}

func TestReader(t *testing.T) {
	r := NewReader([]byte{0xb4, 0x0f})

	assert.True(t, r.ReadBit())
	assert.False(t, r.ReadBit())
	assert.Equal(t, uint64(0x3), r.ReadBits(2))
	assert.Equal(t, 12, r.Remaining())
	assert.Equal(t, uint64(0x40f), r.ReadBits(12))
	assert.Equal(t, 0, r.Remaining())
	assert.Equal(t, 2, r.Offset())
}

func TestReaderTryReadBits(t *testing.T) {
	r := NewReader([]byte{0xff, 0x00, 0xff})

	v, ok := r.TryReadBits(4)
	require.True(t, ok)
	assert.Equal(t, uint64(0xf), v)

	_, ok = r.TryReadBits(21)
	assert.False(t, ok)
	assert.Equal(t, 20, r.Remaining())

	v, ok = r.TryReadBits(20)
	require.True(t, ok)
	assert.Equal(t, uint64(0xf00ff), v)

	_, ok = r.TryReadBits(1)
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewWriter(b)

	values := []struct {
		v uint64
		n uint
	}{
		{1, 1},
		{0x2a, 6},
		{0xffffffffffffffff, 64},
		{0, 5},
		{0x123456789, 33},
	}
	for _, x := range values {
		require.Nil(t, w.WriteBits(x.v, x.n))
	}
	require.Nil(t, w.Flush())

	r := NewReader(b.Bytes())
	for _, x := range values {
		assert.Equal(t, x.v, r.ReadBits(x.n))
	}
}
