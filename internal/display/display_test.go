package display

import (
	"sync"
	"testing"

	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/danmuck/slimvfd/internal/testutil/testlog"
)

func update(pairs ...byte) []byte {
	msg := make([]byte, protocol.HeaderLen, protocol.HeaderLen+len(pairs))
	msg[0] = byte(protocol.TypeDisplayUpdate)
	return append(msg, pairs...)
}

func chars(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, protocol.PrefixData, s[i])
	}
	return out
}

func cmd(c byte) []byte {
	return []byte{protocol.PrefixCommand, c}
}

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type recordingObserver struct {
	cells      map[int]uint8
	brightness []uint8
	slots      []uint8
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{cells: make(map[int]uint8)}
}

func (r *recordingObserver) CellChanged(cell int, slot uint8) { r.cells[cell] = slot }
func (r *recordingObserver) BrightnessChanged(level uint8)    { r.brightness = append(r.brightness, level) }
func (r *recordingObserver) SlotBitmapChanged(slot uint8)     { r.slots = append(r.slots, slot) }

func TestWriteTextAndHomeCommands(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(join(cmd(CmdHomeLine1), chars("Now Playing"), cmd(CmdHomeLine2), chars("Track 1"))...))

	snap := d.Snapshot()
	if snap.Lines[0] != "Now Playing" || snap.Lines[1] != "Track 1" {
		t.Fatalf("unexpected lines: %q", snap.Lines)
	}
	if snap.Cursor != HomeLine2+len("Track 1") {
		t.Fatalf("unexpected cursor: %d", snap.Cursor)
	}
}

func TestScenarioClearAll(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(chars("garbage on screen")...))
	before := d.Snapshot().Brightness

	d.Apply(update(cmd(CmdClear)...))
	snap := d.Snapshot()
	for i, c := range snap.Cells {
		if c != font.Space {
			t.Fatalf("cell %d = %d after clear", i, c)
		}
	}
	if snap.Brightness != before {
		t.Fatalf("clear changed brightness: %d", snap.Brightness)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	testlog.Start(t)
	once := New(font.Default())
	twice := New(font.Default())
	seed := update(chars("hello")...)
	once.Apply(seed)
	twice.Apply(seed)

	once.Apply(update(cmd(CmdClear)...))
	twice.Apply(update(join(cmd(CmdClear), cmd(CmdClear))...))
	if once.Snapshot().Cells != twice.Snapshot().Cells {
		t.Fatalf("double clear differs from single clear")
	}
}

func TestScenarioBrightness(t *testing.T) {
	testlog.Start(t)
	obs := newRecordingObserver()
	d := New(font.Default(), obs)
	res := d.Apply(update(join(cmd(CmdBrightness), []byte{protocol.PrefixData, 5})...))

	if got := d.Snapshot().Brightness; got != 5 {
		t.Fatalf("brightness=%d", got)
	}
	if len(obs.brightness) != 1 || obs.brightness[0] != 5 {
		t.Fatalf("brightness notifications: %v", obs.brightness)
	}
	if res.Tokens != 2 || res.Written != 0 {
		t.Fatalf("level token must not be drawn: %+v", res)
	}
}

func TestBrightnessWithoutLevelAborts(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(join(cmd(CmdBrightness), []byte{protocol.PrefixData, 3})...))
	d.Apply(update(join(cmd(CmdBrightness), cmd(CmdHomeLine2), chars("x"))...))

	snap := d.Snapshot()
	if snap.Brightness != 3 {
		t.Fatalf("aborted brightness changed level: %d", snap.Brightness)
	}
	if snap.Cells[HomeLine2] != 'x' {
		t.Fatalf("token after aborted brightness must still run, cell=%d", snap.Cells[HomeLine2])
	}

	d.Apply(update(cmd(CmdBrightness)...))
	if got := d.Snapshot().Brightness; got != 3 {
		t.Fatalf("brightness at end of stream changed level: %d", got)
	}
}

func TestCursorSaturates(t *testing.T) {
	testlog.Start(t)
	payload := make([]byte, 0, 2*(Cells+1))
	for i := 0; i < Cells; i++ {
		payload = append(payload, protocol.PrefixData, 'A'+byte(i%26))
	}
	payload = append(payload, protocol.PrefixData, '!')

	d := New(font.Default())
	res := d.Apply(update(payload...))
	snap := d.Snapshot()
	if want := uint8('A' + (Cells-1)%26); snap.Cells[Cells-1] != want {
		t.Fatalf("last cell=%q want %q", snap.Cells[Cells-1], want)
	}
	if snap.Cursor != Cells-1 || !snap.Full {
		t.Fatalf("cursor=%d full=%v", snap.Cursor, snap.Full)
	}
	if res.Written != Cells || res.Dropped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	d.Apply(update(join(cmd(CmdHomeLine1), chars("Z"))...))
	if got := d.Snapshot().Cells[0]; got != 'Z' {
		t.Fatalf("home must re-enable writes, cell0=%q", got)
	}
}

func TestCharacterCodesClampToBlock(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(protocol.PrefixData, 0x80, protocol.PrefixData, 0x81, protocol.PrefixData, 0xff))
	snap := d.Snapshot()
	for i := 0; i < 3; i++ {
		if snap.Cells[i] != font.Block {
			t.Fatalf("cell %d = %d, want block", i, snap.Cells[i])
		}
	}
}

func TestScenarioCustomDefinitionPadded(t *testing.T) {
	testlog.Start(t)
	obs := newRecordingObserver()
	d := New(font.Default(), obs)
	res := d.Apply(update(
		protocol.PrefixCommand, 0x42,
		protocol.PrefixData, 1,
		protocol.PrefixData, 2,
		protocol.PrefixData, 3,
		0x09, 0x00,
		protocol.PrefixData, 'X',
	))

	if got := d.Glyph(0); got != (font.Glyph{1, 2, 3, 0, 0, 0, 0, 0}) {
		t.Fatalf("slot 0 rows=%v", got)
	}
	if !res.Unknown || res.Prefix != 0x09 {
		t.Fatalf("expected unknown prefix to end scan: %+v", res)
	}
	if d.Snapshot().Cells[0] != font.Space {
		t.Fatalf("data after unknown prefix must be discarded")
	}
	if len(obs.slots) != 1 || obs.slots[0] != 0 {
		t.Fatalf("slot notifications: %v", obs.slots)
	}
}

func TestCustomDefinitionTakesEightRows(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	payload := []byte{protocol.PrefixCommand, 0x40 + 8*3}
	for i := 1; i <= 9; i++ {
		payload = append(payload, protocol.PrefixData, byte(i))
	}
	d.Apply(update(payload...))

	if got := d.Glyph(3); got != (font.Glyph{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("slot 3 rows=%v", got)
	}
	if got := d.Snapshot().Cells[0]; got != 9 {
		t.Fatalf("ninth data token should be drawn as a character, cell0=%d", got)
	}
}

func TestCustomSlotDrawsRedefinedBitmap(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(join(
		[]byte{protocol.PrefixCommand, 0x48},
		[]byte{protocol.PrefixData, 0x1f, protocol.PrefixData, 0x11},
		cmd(CmdHomeLine1),
		[]byte{protocol.PrefixData, 1},
	)...))
	if !d.BitAt(1, 0, 0) || !d.BitAt(1, 1, 4) || d.BitAt(1, 1, 2) {
		t.Fatalf("slot 1 bitmap mismatch: %v", d.Glyph(1))
	}
	if d.Snapshot().Cells[0] != 1 {
		t.Fatalf("cell 0 should reference slot 1")
	}
}

func TestIgnoredCommandsAreNoOps(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(join(chars("ab"), cmd(CmdEntryMode), cmd(CmdDisplayOn), cmd(0x01), chars("c"))...))
	if got := d.Snapshot().Lines[0]; got != "abc" {
		t.Fatalf("line=%q", got)
	}
}

func TestObserverSeesChangedCellsOnly(t *testing.T) {
	testlog.Start(t)
	obs := newRecordingObserver()
	d := New(font.Default())
	d.Subscribe(obs)
	d.Apply(update(join(chars("a b"))...))
	if len(obs.cells) != 2 || obs.cells[0] != 'a' || obs.cells[2] != 'b' {
		t.Fatalf("unexpected cell notifications: %v", obs.cells)
	}
}

func TestSetLines(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	d.Apply(update(chars("previous contents that are long")...))
	d.SetLines("Looking for server...", "\x01ok\xff")
	snap := d.Snapshot()
	if snap.Lines[0] != "Looking for server..." {
		t.Fatalf("line1=%q", snap.Lines[0])
	}
	if snap.Lines[1] != " ok" {
		t.Fatalf("line2=%q", snap.Lines[1])
	}
	if snap.Cells[len("Looking for server...")] != font.Space {
		t.Fatalf("status text must clear the rest of the line")
	}
}

func TestFactoryGlyphsStable(t *testing.T) {
	testlog.Start(t)
	tbl := font.Default()
	d := New(tbl)
	payload := []byte{}
	for c := 0x40; c < 0x100; c += 8 {
		if byte(c) == CmdHomeLine2 {
			continue
		}
		payload = append(payload, protocol.PrefixCommand, byte(c))
		for r := 0; r < font.Rows; r++ {
			payload = append(payload, protocol.PrefixData, 0x1f)
		}
	}
	d.Apply(update(join(payload, cmd(CmdClear))...))

	for slot := font.Custom; slot < font.Slots; slot++ {
		for row := 0; row < font.Rows; row++ {
			for col := 0; col < font.Columns; col++ {
				if d.BitAt(slot, row, col) != font.Lit(tbl[slot][row], col) {
					t.Fatalf("factory slot %d changed at %d,%d", slot, row, col)
				}
			}
		}
	}
}

func TestStoreLoadAndBitAt(t *testing.T) {
	testlog.Start(t)
	s := NewStore(font.Default())
	rows := []uint8{0x10, 0x01, 0x0a}
	if !s.Load(7, rows...) {
		t.Fatalf("load of custom slot rejected")
	}
	for r := 0; r < font.Rows; r++ {
		for c := 0; c < font.Columns; c++ {
			want := false
			if r < len(rows) {
				want = rows[r]&(1<<(font.Columns-1-c)) != 0
			}
			if got := s.BitAt(7, r, c); got != want {
				t.Fatalf("BitAt(7,%d,%d)=%v want %v", r, c, got, want)
			}
		}
	}
	if s.Load(font.Custom, 1) || s.Load(-1, 1) {
		t.Fatalf("load outside custom range must be ignored")
	}
	if s.Glyph(font.Slots) != s.Glyph(font.Space) || s.Glyph(-5) != s.Glyph(font.Space) {
		t.Fatalf("out of range slots must fall back to space")
	}
	if s.BitAt(font.Block, font.Rows, 0) || s.BitAt(font.Block, -1, 0) {
		t.Fatalf("rows outside the glyph must be dark")
	}
}

func TestConcurrentReadersDuringApply(t *testing.T) {
	testlog.Start(t)
	d := New(font.Default())
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = d.Snapshot()
					_ = d.BitAt(0, 0, 0)
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		d.Apply(update(join(cmd(CmdHomeLine1), chars("tick"), []byte{protocol.PrefixCommand, 0x40, protocol.PrefixData, byte(i)})...))
	}
	close(stop)
	wg.Wait()
}

func TestRune(t *testing.T) {
	cases := map[uint8]rune{0: '▒', 'A': 'A', 0x7e: '→', 0x7f: '←', font.Block: '█', 0x90: ' '}
	for slot, want := range cases {
		if got := Rune(slot); got != want {
			t.Fatalf("Rune(%d)=%q want %q", slot, got, want)
		}
	}
}
