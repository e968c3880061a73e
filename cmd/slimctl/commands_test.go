package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/slimvfd/internal/display"
	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/protocol"
)

func TestEncodeMessages(t *testing.T) {
	msg, err := encodeMessage([]string{"discovery"}, 0)
	if err != nil || len(msg) != protocol.MessageSize || msg[0] != 'd' {
		t.Fatalf("discovery: % x err=%v", msg, err)
	}
	msg, err = encodeMessage([]string{"key", "0xf732"}, 1500)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	key, err := protocol.DecodeKeyInput(msg)
	if err != nil || key.Code != 0xf732 || key.Timestamp != 1500 {
		t.Fatalf("unexpected key %+v err=%v", key, err)
	}
	for _, args := range [][]string{{"key"}, {"key", "nope"}, {"bogus"}} {
		if _, err := encodeMessage(args, 0); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestEncodeCommandPrintsHex(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"encode", "hello"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "68" + strings.Repeat("00", 17) + "\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestKeysCommandListsDefaults(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"keys"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(defaultKeymap()) {
		t.Fatalf("got %d bindings", len(lines))
	}
	if !strings.Contains(out.String(), "p  0x0000f732  play") {
		t.Fatalf("play binding missing:\n%s", out.String())
	}
}

type keySink struct {
	mu    sync.Mutex
	codes []uint32
}

func (k *keySink) submit(code uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.codes = append(k.codes, code)
	return nil
}

func (k *keySink) snapshot() []uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]uint32(nil), k.codes...)
}

func TestKeyReaderMapsAndQuits(t *testing.T) {
	sink := &keySink{}
	quit := make(chan struct{})
	r := &keyReader{
		in:     strings.NewReader("pz1\x03"),
		keys:   defaultKeymap(),
		submit: sink.submit,
		quit:   func() { close(quit) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatalf("ctrl-c not handled")
	}
	cancel()
	<-done

	got := sink.snapshot()
	if len(got) != 2 || got[0] != 0xf732 || got[1] != 0xf786 {
		t.Fatalf("unexpected codes %#v", got)
	}
}

func TestPreviewRendersOnChange(t *testing.T) {
	d := display.New(font.Default())
	var out bytes.Buffer
	pv := newPreview(d, &out)
	d.Subscribe(pv.observer())

	d.SetLines("hello", "world")
	pv.render()
	first := out.String()
	if !strings.Contains(first, "|hello"+strings.Repeat(" ", display.Width-5)+"|\r\n") {
		t.Fatalf("unexpected frame:\n%s", first)
	}

	pv.render()
	if out.String() != first {
		t.Fatalf("unchanged display rendered twice")
	}

	select {
	case <-pv.changed:
	default:
		t.Fatalf("observer did not wake the preview")
	}
}
