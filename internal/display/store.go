package display

import "github.com/danmuck/slimvfd/internal/font"

// Store holds the 129 character definitions.
type Store struct {
	glyphs font.Table
}

func NewStore(tbl font.Table) *Store {
	return &Store{glyphs: tbl}
}

// Load replaces the rows of a custom slot. Missing rows are zero, extra rows
// are ignored and factory slots are never modified. It reports whether the
// slot was written.
func (s *Store) Load(slot int, rows ...uint8) bool {
	if slot < 0 || slot >= font.Custom {
		return false
	}
	var g font.Glyph
	for i := 0; i < len(rows) && i < font.Rows; i++ {
		g[i] = rows[i] & font.RowMask
	}
	s.glyphs[slot] = g
	return true
}

// BitAt reports whether a pixel of slot is lit. Slots outside the table
// resolve to the space glyph.
func (s *Store) BitAt(slot, row, col int) bool {
	if row < 0 || row >= font.Rows {
		return false
	}
	return font.Lit(s.Glyph(slot)[row], col)
}

func (s *Store) Glyph(slot int) font.Glyph {
	return s.glyphs[resolveSlot(slot)]
}

func resolveSlot(slot int) int {
	if slot < 0 || slot >= font.Slots {
		return font.Space
	}
	return slot
}
