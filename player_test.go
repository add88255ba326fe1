package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestPlayerInsertSelected(t *testing.T) {
	root := t.TempDir()
	cdir := writeCartridge(t, root, "retro", retroMeta)
	writeWav(t, cdir, "intro.wav", 100*time.Millisecond)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Shelf.Directory = root
	clock := newManualClock()
	p, err := NewPlayer(cfg, clock)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	if err := p.shelf.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	p.InsertSelected()
	clock.Advance(SETTLE_DELAY)
	deadline := time.Now().Add(5 * time.Second)
	for p.device.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("track never loaded")
		}
		time.Sleep(time.Millisecond)
		p.Tick()
	}

	st := p.status.snapshot()
	if !st.mounted || !st.settled || st.cartridge != "Retro Hits" || st.trackCount != 3 || st.shelfSize != 1 {
		t.Fatalf("status = %+v", st)
	}
	if got := terminalLine(p.Texts(), p.Elapsed()); got != "PAUSED | 1 of 3 | Retro Hits — Intro | 0:00 / 2:00 | w/ ANN sounds" {
		t.Fatalf("texts = %q", got)
	}
	if p.Elapsed() != SETTLE_DELAY {
		t.Fatalf("Elapsed = %v", p.Elapsed())
	}
}

func TestNewPlayerRejectsInvalidConfig(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Audio.SongGain = 0
	if _, err := NewPlayer(cfg, nil); err == nil {
		t.Fatal("expected validation error")
	}
}
