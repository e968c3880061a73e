package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/slimvfd/internal/display"
)

// preview prints the two display lines whenever they change.
type preview struct {
	display *display.Display
	out     io.Writer
	changed chan struct{}
	last    string
}

func newPreview(d *display.Display, out io.Writer) *preview {
	return &preview{
		display: d,
		out:     out,
		changed: make(chan struct{}, 1),
	}
}

// observer wakes the preview on any cell change.
func (p *preview) observer() display.Observer {
	return display.ObserverFuncs{
		Cell: func(int, uint8) { p.poke() },
	}
}

func (p *preview) poke() {
	select {
	case p.changed <- struct{}{}:
	default:
	}
}

func (p *preview) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.changed:
			p.render()
		}
	}
}

func (p *preview) render() {
	snap := p.display.Snapshot()
	screen := frame(snap.Lines)
	if screen == p.last {
		return
	}
	p.last = screen
	// Raw terminals need explicit carriage returns.
	fmt.Fprint(p.out, strings.ReplaceAll(screen, "\n", "\r\n"))
}

func (p *preview) String() string { return "preview" }

func frame(lines [display.Lines]string) string {
	border := "+" + strings.Repeat("-", display.Width) + "+\n"
	var b strings.Builder
	b.WriteString(border)
	for _, line := range lines {
		fmt.Fprintf(&b, "|%-*s|\n", display.Width, line)
	}
	b.WriteString(border)
	return b.String()
}
