// Package font owns the VFD character table.
//
// Ownership boundary:
// - factory glyph definitions
// - glyph overlay files
// - text sketches of glyph bitmaps
package font

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	Rows    = 8
	Columns = 5

	// Slots is the number of addressable character definitions.
	Slots = 129
	// Custom is the number of leading slots the server may redefine.
	Custom = 32

	Space = 0x20
	Block = 0x80

	// RowMask covers the five lit columns of one row.
	RowMask uint8 = 1<<Columns - 1
)

var (
	ErrGlyphCode = errors.New("font: glyph code out of range")
	ErrGlyphRows = errors.New("font: invalid glyph rows")
)

// Glyph is one 5x8 bitmap.
type Glyph [Rows]uint8

// Table is a complete set of slot definitions.
type Table [Slots]Glyph

// Default returns a copy of the factory table.
func Default() Table {
	return factory
}

// Lit reports whether column col of row is set.
func Lit(row uint8, col int) bool {
	if col < 0 || col >= Columns {
		return false
	}
	return row&(1<<(Columns-1-col)) != 0
}

// Sketch renders g as Rows strings of '.' and '@'.
func Sketch(g Glyph) []string {
	out := make([]string, 0, Rows)
	for _, row := range g {
		line := make([]byte, Columns)
		for col := range Columns {
			if Lit(row, col) {
				line[col] = '@'
			} else {
				line[col] = '.'
			}
		}
		out = append(out, string(line))
	}
	return out
}

type overlayFile struct {
	Glyphs []overlayGlyph `toml:"glyph"`
}

type overlayGlyph struct {
	Code int   `toml:"code"`
	Rows []int `toml:"rows"`
}

// LoadFile reads glyph overrides from a TOML file and applies them to base.
//
//	[[glyph]]
//	code = 0x7e
//	rows = [0, 4, 2, 31, 2, 4, 0, 0]
func LoadFile(path string, base Table) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("font load failed (%s): %w", path, err)
	}
	return Overlay(data, base)
}

// Overlay applies TOML glyph overrides in data to base.
func Overlay(data []byte, base Table) (Table, error) {
	var raw overlayFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Table{}, fmt.Errorf("font parse failed: %w", err)
	}
	out := base
	for i, g := range raw.Glyphs {
		if g.Code < 0 || g.Code >= Slots {
			return Table{}, fmt.Errorf("%w: glyph[%d] code=%d", ErrGlyphCode, i, g.Code)
		}
		if len(g.Rows) > Rows {
			return Table{}, fmt.Errorf("%w: glyph[%d] has %d rows", ErrGlyphRows, i, len(g.Rows))
		}
		var glyph Glyph
		for r, v := range g.Rows {
			if v < 0 || v > int(RowMask) {
				return Table{}, fmt.Errorf("%w: glyph[%d] row %d value %d", ErrGlyphRows, i, r, v)
			}
			glyph[r] = uint8(v)
		}
		out[g.Code] = glyph
	}
	return out, nil
}
