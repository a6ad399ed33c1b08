/*
Package chunk implements the fixed 8 by 8 chunk grid that frames are split
into for change detection and selective retransmission.

However big the frame, there are always 64 chunks. Chunk dimensions are the
frame dimensions divided by eight and rounded up so the rightmost and
bottommost chunks may be clipped, or even empty for very narrow frames. Chunks
are numbered column-major, index = cx*8 + cy.
*/
package chunk

import "image"

const (
	// CountX is the number of chunk columns.
	CountX = 8
	// CountY is the number of chunk rows.
	CountY = 8
	// Count is the total number of chunks.
	Count = CountX * CountY
)

// Mask has bit k set when chunk k is changed.
type Mask uint64

// All marks every chunk as changed.
const All Mask = 1<<Count - 1

// Has reports whether chunk i is set.
func (m Mask) Has(i int) bool {
	return m&(1<<uint(i)) != 0
}

// Set returns m with chunk i set.
func (m Mask) Set(i int) Mask {
	return m | 1<<uint(i)
}

// Grid describes the chunk layout for one frame size.
type Grid struct {
	Width, Height           int
	ChunkWidth, ChunkHeight int
}

// NewGrid returns the grid for a width by height frame.
func NewGrid(width, height int) Grid {
	return Grid{
		Width:       width,
		Height:      height,
		ChunkWidth:  (width-1)/CountX + 1,
		ChunkHeight: (height-1)/CountY + 1,
	}
}

// Index returns the linear index of the chunk at column cx, row cy.
func Index(cx, cy int) int {
	return cx*CountY + cy
}

// At returns the index of the chunk containing pixel (x, y).
func (g Grid) At(x, y int) int {
	cx, cy := x/g.ChunkWidth, y/g.ChunkHeight
	if cx >= CountX {
		cx = CountX - 1
	}
	if cy >= CountY {
		cy = CountY - 1
	}
	return Index(cx, cy)
}

// Bounds returns the pixels covered by chunk i, clipped to the frame.
func (g Grid) Bounds(i int) image.Rectangle {
	cx, cy := i/CountY, i%CountY
	r := image.Rect(cx*g.ChunkWidth, cy*g.ChunkHeight, (cx+1)*g.ChunkWidth, (cy+1)*g.ChunkHeight)
	return r.Intersect(image.Rect(0, 0, g.Width, g.Height))
}

// Area returns the nominal, unclipped, chunk area.
func (g Grid) Area() int {
	return g.ChunkWidth * g.ChunkHeight
}

// Scan visits every pixel of the chunks set in m in stream order: columns
// left to right, each column top to bottom, jumping a whole chunk height
// whenever a band belongs to an unset chunk.
func (g Grid) Scan(m Mask, fn func(x, y int) error) error {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if y%g.ChunkHeight == 0 && !m.Has(g.At(x, y)) {
				y += g.ChunkHeight - 1
				continue
			}
			if err := fn(x, y); err != nil {
				return err
			}
		}
	}
	return nil
}
