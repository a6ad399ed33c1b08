package runlength

import (
	"bytes"
	"testing"

	"github.com/bodgit/monovid/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, n int) ([]byte, int64) {
	b := new(bytes.Buffer)
	w := bitstream.NewWriter(b)
	require.Nil(t, Write(w, n))
	bits := w.Len()
	require.Nil(t, w.Flush())
	return b.Bytes(), bits
}

func TestWrite(t *testing.T) {
	tables := []struct {
		n    int
		bits int64
		want []byte
	}{
		// 0 + 000
		{1, 4, []byte{0x00}},
		// 0 + 111, last value of the first group
		{8, 4, []byte{0x70}},
		// 10 + 000000
		{9, 8, []byte{0x80}},
		// 10 + 111111
		{72, 8, []byte{0xbf}},
		// 110 + 000000000
		{73, 12, []byte{0xc0, 0x00}},
		{MaxRun, 24, []byte{0xfb, 0xff, 0xff}},
	}

	for _, table := range tables {
		b, bits := encode(t, table.n)
		assert.Equal(t, table.bits, bits, "n=%d", table.n)
		assert.Equal(t, table.want, b, "n=%d", table.n)

		size, err := Size(table.n)
		require.Nil(t, err)
		assert.Equal(t, int(table.bits), size)
	}
}

func TestWriteRange(t *testing.T) {
	w := bitstream.NewWriter(new(bytes.Buffer))
	assert.Equal(t, ErrRange, Write(w, 0))
	assert.Equal(t, ErrRange, Write(w, -1))
	assert.Equal(t, ErrRange, Write(w, MaxRun+1))

	_, err := Size(MaxRun + 1)
	assert.Equal(t, ErrRange, err)
}

func TestRoundTripAll(t *testing.T) {
	b := new(bytes.Buffer)
	w := bitstream.NewWriter(b)
	for n := 1; n <= MaxRun; n++ {
		require.Nil(t, Write(w, n))
	}
	require.Nil(t, w.Flush())

	r := bitstream.NewReader(b.Bytes())
	for n := 1; n <= MaxRun; n++ {
		if got := Read(r); got != n {
			t.Fatalf("decoded %d, want %d", got, n)
		}
	}
}

func TestEncoder(t *testing.T) {
	b := new(bytes.Buffer)
	w := bitstream.NewWriter(b)
	e := NewEncoder(w)

	pixels := []bool{true, true, true, false, true, true, true, true, true, true, true, true, true, true}
	for _, p := range pixels {
		require.Nil(t, e.Encode(p))
	}
	require.Nil(t, e.Flush())
	require.Nil(t, w.Flush())

	r := bitstream.NewReader(b.Bytes())
	assert.True(t, r.ReadBit())
	assert.Equal(t, 3, Read(r))
	assert.Equal(t, 1, Read(r))
	assert.Equal(t, 10, Read(r))
}

func TestEncoderFlushRestarts(t *testing.T) {
	b := new(bytes.Buffer)
	w := bitstream.NewWriter(b)
	e := NewEncoder(w)

	require.Nil(t, e.Flush())
	assert.Equal(t, int64(0), w.Len())

	require.Nil(t, e.Encode(false))
	require.Nil(t, e.Flush())
	require.Nil(t, e.Encode(true))
	require.Nil(t, e.Flush())
	require.Nil(t, w.Flush())

	// 0 0000 1 0000
	assert.Equal(t, []byte{0x04, 0x00}, b.Bytes())
}
