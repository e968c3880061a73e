package display

import (
	"slices"
	"strings"
	"sync"

	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/protocol"
)

// Display is the lock-guarded VFD state shared by the client loop and its
// readers.
type Display struct {
	mu        sync.RWMutex
	store     *Store
	grid      Grid
	rec       recorder
	observers []Observer
}

// Snapshot is a point-in-time copy of the grid.
type Snapshot struct {
	Cells      [Cells]uint8  `json:"cells"`
	Cursor     int           `json:"cursor"`
	Full       bool          `json:"full"`
	Brightness uint8         `json:"brightness"`
	Lines      [Lines]string `json:"lines"`
}

func New(tbl font.Table, observers ...Observer) *Display {
	return &Display{
		store:     NewStore(tbl),
		grid:      newGrid(),
		observers: observers,
	}
}

// Subscribe adds an observer for subsequent changes.
func (d *Display) Subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Apply interprets one display-update datagram, header included.
func (d *Display) Apply(datagram []byte) Result {
	d.mu.Lock()
	in := NewInterpreter(d.store, &d.grid, &d.rec)
	res := in.Run(protocol.NewScanner(datagram))
	events, observers := d.rec.drain(), slices.Clone(d.observers)
	d.mu.Unlock()

	deliver(observers, events)
	return res
}

// SetLines writes status text over the whole grid, padding with spaces.
// Characters without a glyph are shown as spaces.
func (d *Display) SetLines(line1, line2 string) {
	d.mu.Lock()
	d.writeLine(HomeLine1, line1)
	d.writeLine(HomeLine2, line2)
	events, observers := d.rec.drain(), slices.Clone(d.observers)
	d.mu.Unlock()

	deliver(observers, events)
}

func (d *Display) writeLine(home int, text string) {
	d.grid.Home(home)
	b := []byte(text)
	for i := 0; i < Width; i++ {
		c := uint8(font.Space)
		if i < len(b) && b[i] >= font.Space && b[i] <= font.Block {
			c = b[i]
		}
		before := d.grid.Cell(d.grid.Cursor())
		if cell, ok := d.grid.Put(c); ok && before != c {
			d.rec.CellChanged(cell, c)
		}
	}
}

func (d *Display) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := Snapshot{
		Cells:      d.grid.cells,
		Cursor:     d.grid.cursor,
		Full:       d.grid.full,
		Brightness: d.grid.brightness,
	}
	for line := range Lines {
		snap.Lines[line] = text(d.grid.cells[line*Width : (line+1)*Width])
	}
	return snap
}

func (d *Display) Glyph(slot int) font.Glyph {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Glyph(slot)
}

func (d *Display) BitAt(slot, row, col int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.BitAt(slot, row, col)
}

// Rune maps a slot to a printable approximation of its factory glyph.
func Rune(slot uint8) rune {
	switch {
	case slot < font.Custom:
		return '▒'
	case slot == 0x7E:
		return '→'
	case slot == 0x7F:
		return '←'
	case slot == font.Block:
		return '█'
	case slot > font.Block:
		return ' '
	default:
		return rune(slot)
	}
}

func text(cells []uint8) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteRune(Rune(c))
	}
	return strings.TrimRight(b.String(), " ")
}
