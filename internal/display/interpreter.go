package display

import (
	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Display controller commands understood by the receiver.
const (
	CmdHomeLine1  byte = 0x02
	CmdEntryMode  byte = 0x06
	CmdDisplayOn  byte = 0x0C
	CmdBrightness byte = 0x30
	CmdClear      byte = 0x33
	CmdHomeLine2  byte = 0xC0

	// CmdDefineFlag marks a custom character definition; the slot is
	// (cmd - 0x40) / 8.
	CmdDefineFlag byte = 0x40
)

// Result summarizes one interpreted datagram.
type Result struct {
	Tokens   int
	Commands int
	Written  int
	Dropped  int
	Defined  int
	Unknown  bool
	Prefix   byte
}

// Interpreter applies display-update tokens to a store and grid. It is not
// safe for concurrent use.
type Interpreter struct {
	store *Store
	grid  *Grid
	obs   Observer
}

func NewInterpreter(store *Store, grid *Grid, obs Observer) *Interpreter {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	return &Interpreter{store: store, grid: grid, obs: obs}
}

// Run consumes s until it is exhausted or an unknown prefix ends the scan.
func (in *Interpreter) Run(s *protocol.Scanner) Result {
	var res Result
	for {
		tok, ok := s.Next()
		if !ok {
			return res
		}
		res.Tokens++
		switch tok.Kind {
		case protocol.TokenData:
			in.putChar(tok.Value, &res)
		case protocol.TokenCommand:
			res.Commands++
			in.command(tok.Value, s, &res)
		default:
			res.Unknown = true
			res.Prefix = tok.Value
			log.Debug().
				Int("offset", tok.Offset).
				Uint8("prefix", tok.Value).
				Msg("display unknown token prefix")
			return res
		}
	}
}

func (in *Interpreter) putChar(c byte, res *Result) {
	slot := c
	if slot > font.Block {
		slot = font.Block
	}
	before := in.grid.Cell(in.grid.Cursor())
	cell, ok := in.grid.Put(slot)
	if !ok {
		res.Dropped++
		return
	}
	res.Written++
	if before != slot {
		in.obs.CellChanged(cell, slot)
	}
}

func (in *Interpreter) command(c byte, s *protocol.Scanner, res *Result) {
	switch c {
	case CmdClear:
		in.clear()
	case CmdBrightness:
		in.brightness(s, res)
	case CmdHomeLine1:
		in.grid.Home(HomeLine1)
	case CmdHomeLine2:
		in.grid.Home(HomeLine2)
	case CmdEntryMode, CmdDisplayOn:
	default:
		if c&CmdDefineFlag != 0 {
			in.define(c, s, res)
		}
	}
}

func (in *Interpreter) clear() {
	for i := range in.grid.cells {
		if in.grid.cells[i] != font.Space {
			in.grid.cells[i] = font.Space
			in.obs.CellChanged(i, font.Space)
		}
	}
}

func (in *Interpreter) brightness(s *protocol.Scanner, res *Result) {
	next, ok := s.Peek()
	if !ok || next.Kind != protocol.TokenData {
		log.Debug().Msg("display brightness command without level")
		return
	}
	s.Next()
	res.Tokens++
	in.grid.brightness = next.Value
	in.obs.BrightnessChanged(next.Value)
}

func (in *Interpreter) define(c byte, s *protocol.Scanner, res *Result) {
	slot := int(c-CmdDefineFlag) / 8
	rows := make([]uint8, 0, font.Rows)
	for len(rows) < font.Rows {
		next, ok := s.Peek()
		if !ok || next.Kind != protocol.TokenData {
			break
		}
		s.Next()
		res.Tokens++
		rows = append(rows, next.Value)
	}
	if !in.store.Load(slot, rows...) {
		log.Debug().Int("slot", slot).Msg("display definition for factory slot ignored")
		return
	}
	res.Defined++
	in.obs.SlotBitmapChanged(uint8(slot))
}
