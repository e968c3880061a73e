package main

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const keyInterrupt = 0x03

type binding struct {
	Key  byte
	Code uint32
	Name string
}

type keymap map[byte]binding

// defaultKeymap is the classic simulator layout.
func defaultKeymap() keymap {
	k := keymap{}
	for _, b := range []binding{
		{'q', 0xf702, "power"},
		{',', 0xc0f8, "volume down"},
		{'.', 0xc078, "volume up"},
		{'s', 0xf7c2, "stop"},
		{'p', 0xf732, "play"},
		{'P', 0xf7b2, "pause"},
		{'f', 0xf76e, "fast forward"},
		{'w', 0xf70e, "rewind"},
		{'u', 0xf70b, "up"},
		{'l', 0xf74b, "left"},
		{'d', 0xf78b, "down"},
		{'r', 0xf7cb, "right"},
		{'S', 0xf72b, "shuffle"},
		{'R', 0xf7ab, "repeat"},
		{'D', 0xf703, "display"},
		{'M', 0xc038, "mute"},
		{'H', 0xf783, "menu home"},
		{'i', 0xf7f6, "pip"},
		{'0', 0xf776, "0"},
		{'1', 0xf786, "1"},
		{'2', 0xf746, "2"},
		{'3', 0xf7c6, "3"},
		{'4', 0xf726, "4"},
		{'5', 0xf7a6, "5"},
		{'6', 0xf766, "6"},
		{'7', 0xf7e6, "7"},
		{'8', 0xf716, "8"},
		{'9', 0xf796, "9"},
	} {
		k[b.Key] = b
	}
	return k
}

func (k keymap) bind(key byte, code uint32, name string) {
	if name == "" {
		name = "custom"
		if prev, ok := k[key]; ok && prev.Code == code {
			name = prev.Name
		}
	}
	k[key] = binding{Key: key, Code: code, Name: name}
}

func (k keymap) lookup(key byte) (uint32, bool) {
	b, ok := k[key]
	return b.Code, ok
}

func (k keymap) sorted() []binding {
	out := make([]binding, 0, len(k))
	for _, b := range k {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b binding) int { return int(a.Key) - int(b.Key) })
	return out
}

// keyReader forwards mapped key presses from a terminal or any reader.
type keyReader struct {
	in     io.Reader
	keys   keymap
	submit func(code uint32) error
	quit   func()
}

// Serve reads single bytes until ctx is done, the reader is exhausted, or
// Ctrl-C arrives.
func (r *keyReader) Serve(ctx context.Context) error {
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		old, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			log.Warn().Err(err).Msg("slimctl raw terminal unavailable")
		} else {
			defer func() { _ = term.Restore(int(f.Fd()), old) }()
		}
	}

	bytesCh := make(chan byte)
	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := r.in.Read(buf)
			if n > 0 {
				select {
				case bytesCh <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err != io.EOF {
				log.Warn().Err(err).Msg("slimctl key input stopped")
			}
			<-ctx.Done()
			return ctx.Err()
		case b := <-bytesCh:
			if b == keyInterrupt {
				if r.quit != nil {
					r.quit()
				}
				continue
			}
			code, ok := r.keys.lookup(b)
			if !ok {
				log.Debug().Str("key", string(rune(b))).Msg("slimctl unmapped key")
				continue
			}
			if err := r.submit(code); err != nil {
				log.Warn().Err(err).Uint32("code", code).Msg("slimctl key not queued")
			}
		}
	}
}

func (r *keyReader) String() string { return "key reader" }
