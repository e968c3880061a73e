package display

// Observer receives display changes. Calls arrive on the writer goroutine
// after the change is visible through Display's read methods.
type Observer interface {
	CellChanged(cell int, slot uint8)
	BrightnessChanged(level uint8)
	SlotBitmapChanged(slot uint8)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Cell       func(cell int, slot uint8)
	Brightness func(level uint8)
	Slot       func(slot uint8)
}

func (f ObserverFuncs) CellChanged(cell int, slot uint8) {
	if f.Cell != nil {
		f.Cell(cell, slot)
	}
}

func (f ObserverFuncs) BrightnessChanged(level uint8) {
	if f.Brightness != nil {
		f.Brightness(level)
	}
}

func (f ObserverFuncs) SlotBitmapChanged(slot uint8) {
	if f.Slot != nil {
		f.Slot(slot)
	}
}

type eventKind uint8

const (
	eventCell eventKind = iota
	eventBrightness
	eventSlot
)

type event struct {
	kind  eventKind
	index int
	value uint8
}

// recorder buffers notifications raised while the write lock is held.
type recorder struct {
	events []event
}

func (r *recorder) CellChanged(cell int, slot uint8) {
	r.events = append(r.events, event{kind: eventCell, index: cell, value: slot})
}

func (r *recorder) BrightnessChanged(level uint8) {
	r.events = append(r.events, event{kind: eventBrightness, value: level})
}

func (r *recorder) SlotBitmapChanged(slot uint8) {
	r.events = append(r.events, event{kind: eventSlot, value: slot})
}

func (r *recorder) drain() []event {
	out := r.events
	r.events = nil
	return out
}

func deliver(observers []Observer, events []event) {
	for _, ev := range events {
		for _, o := range observers {
			switch ev.kind {
			case eventCell:
				o.CellChanged(ev.index, ev.value)
			case eventBrightness:
				o.BrightnessChanged(ev.value)
			case eventSlot:
				o.SlotBitmapChanged(ev.value)
			}
		}
	}
}
