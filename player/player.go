/*
Package player drives a video decoder from a periodic trigger, the way the
firmware drives it from a timer interrupt.
*/
package player

import (
	"context"
	"io/ioutil"
	"log"
	"time"

	"github.com/bodgit/monovid/display"
	"github.com/bodgit/monovid/video"
)

// Decoder is the part of *video.Decoder the player needs.
type Decoder interface {
	Next(fb display.Framebuffer) bool
}

var _ Decoder = (*video.Decoder)(nil)

// Player calls Next on its decoder once per tick and hands the framebuffer to
// Present only after each call has returned, so a presenter never sees a
// partially decoded frame.
type Player struct {
	decoder     Decoder
	fb          display.Framebuffer
	interval    time.Duration
	present     func(display.Framebuffer) error
	logger      *log.Logger
	tickerMaker func(time.Duration) (<-chan time.Time, func())
}

// New returns a Player running at frameRate frames per second. present may be
// nil. logger may be nil to discard log output.
func New(d Decoder, fb display.Framebuffer, frameRate int, present func(display.Framebuffer) error, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Player{
		decoder:  d,
		fb:       fb,
		interval: time.Second / time.Duration(frameRate),
		present:  present,
		logger:   logger,
		tickerMaker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Interval returns the time between frames.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Run plays until the stream is exhausted, ctx is cancelled or Present fails.
// It returns the number of frames decoded. Reaching the end of the stream is
// not an error.
func (p *Player) Run(ctx context.Context) (int, error) {
	c, stop := p.tickerMaker(p.interval)
	defer stop()

	var frames int
	for {
		select {
		case <-ctx.Done():
			p.logger.Printf("Playback stopped after %d frames\n", frames)
			return frames, ctx.Err()
		case <-c:
		}

		start := time.Now()
		if !p.decoder.Next(p.fb) {
			p.logger.Printf("End of stream after %d frames\n", frames)
			return frames, nil
		}
		frames++

		if elapsed := time.Since(start); elapsed > p.interval {
			p.logger.Printf("Frame %d took %v, over the %v frame interval\n", frames, elapsed, p.interval)
		}

		if p.present != nil {
			if err := p.present(p.fb); err != nil {
				return frames, err
			}
		}
	}
}
