package player

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Lights one more pixel per frame for n frames
type countingDecoder struct {
	n, calls int
	active   bool
}

func (d *countingDecoder) Next(fb display.Framebuffer) bool {
	if d.active {
		panic("re-entered")
	}
	d.active = true
	defer func() { d.active = false }()

	if d.calls == d.n {
		return false
	}
	fb.SetPixel(d.calls, 0, true)
	d.calls++
	return true
}

// Ticks as fast as the player reads
func manualTicker(time.Duration) (<-chan time.Time, func()) {
	c := make(chan time.Time)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case c <- time.Now():
			case <-done:
				return
			}
		}
	}()
	return c, func() { close(done) }
}

func TestRunToEnd(t *testing.T) {
	d := &countingDecoder{n: 5}
	fb := bitmap.NewFrame(8, 1)

	var seen []int
	logs := new(bytes.Buffer)
	p := New(d, fb, 12, func(fb display.Framebuffer) error {
		var lit int
		for x := 0; x < fb.Width(); x++ {
			if fb.Pixel(x, 0) {
				lit++
			}
		}
		seen = append(seen, lit)
		return nil
	}, log.New(logs, "", 0))
	p.tickerMaker = manualTicker

	n, err := p.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	assert.Contains(t, logs.String(), "End of stream after 5 frames")
}

func TestRunPresentError(t *testing.T) {
	boom := errors.New("boom")
	p := New(&countingDecoder{n: 5}, bitmap.NewFrame(8, 1), 12, func(display.Framebuffer) error {
		return boom
	}, nil)
	p.tickerMaker = manualTicker

	n, err := p.Run(context.Background())
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, n)
}

func TestRunCancel(t *testing.T) {
	p := New(&countingDecoder{n: 1000}, bitmap.NewFrame(1000, 1), 1, nil, nil)
	assert.Equal(t, time.Second, p.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := p.Run(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, n)
}

func TestRunRealTicker(t *testing.T) {
	p := New(&countingDecoder{n: 3}, bitmap.NewFrame(8, 1), 200, nil, nil)

	start := time.Now()
	n, err := p.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, time.Since(start) >= 3*p.Interval())
}
