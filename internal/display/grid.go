package display

import "github.com/danmuck/slimvfd/internal/font"

const (
	Width = 40
	Lines = 2
	Cells = Width * Lines

	HomeLine1 = 0
	HomeLine2 = Width
)

// Grid is the flat cell array of the display. The cursor saturates: once the
// last cell has been written the grid is full and further writes are dropped
// until the cursor is moved.
type Grid struct {
	cells      [Cells]uint8
	cursor     int
	full       bool
	brightness uint8
}

func newGrid() Grid {
	var g Grid
	for i := range g.cells {
		g.cells[i] = font.Space
	}
	return g
}

// Put writes slot at the cursor and advances it. It returns the written cell,
// or false when the grid is full.
func (g *Grid) Put(slot uint8) (int, bool) {
	if g.full {
		return 0, false
	}
	cell := g.cursor
	g.cells[cell] = slot
	if g.cursor == Cells-1 {
		g.full = true
	} else {
		g.cursor++
	}
	return cell, true
}

// Home moves the cursor to pos and re-enables writes.
func (g *Grid) Home(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos >= Cells {
		pos = Cells - 1
	}
	g.cursor = pos
	g.full = false
}

func (g *Grid) Cursor() int { return g.cursor }

func (g *Grid) Full() bool { return g.full }

func (g *Grid) Cell(i int) uint8 {
	if i < 0 || i >= Cells {
		return font.Space
	}
	return g.cells[i]
}

func (g *Grid) Brightness() uint8 { return g.brightness }
