package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeCartridge writes a meta.json for name into dir/sub and returns the
// cartridge directory.
func writeCartridge(t *testing.T, dir, sub, meta string) string {
	t.Helper()
	cdir := filepath.Join(dir, sub)
	if err := os.MkdirAll(cdir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cdir, CARTRIDGE_META_FILE), []byte(meta), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	return cdir
}

const retroMeta = `{
  "name": "Retro Hits",
  "tracks": [
    {"name": "Intro", "file": "intro.wav", "duration": 120},
    {"name": "Chase", "file": "chase.wav", "duration": 90},
    {"name": "Finale", "file": "https://example.com/finale.mp3", "duration": 200}
  ]
}`

func TestLoadCartridge(t *testing.T) {
	dir := writeCartridge(t, t.TempDir(), "retro", retroMeta)
	c, err := LoadCartridge(dir)
	if err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if c.Name != "Retro Hits" || len(c.Tracks) != 3 || c.Dir != dir {
		t.Fatalf("cartridge = %+v", c)
	}
	if got := c.Runtime(); got != 410 {
		t.Fatalf("Runtime = %d, want 410", got)
	}
	if c.Tracks[1].Name != "Chase" {
		t.Fatalf("track 2 = %+v", c.Tracks[1])
	}

	byFile, err := LoadCartridge(filepath.Join(dir, CARTRIDGE_META_FILE))
	if err != nil || byFile.Dir != dir {
		t.Fatalf("load by file: %v %+v", err, byFile)
	}
}

func TestCartridgeTrackURL(t *testing.T) {
	dir := writeCartridge(t, t.TempDir(), "retro", retroMeta)
	c, err := LoadCartridge(dir)
	if err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if u, _ := c.TrackURL(0); u != filepath.Join(dir, "intro.wav") {
		t.Fatalf("relative track = %q", u)
	}
	if u, _ := c.TrackURL(2); u != "https://example.com/finale.mp3" {
		t.Fatalf("remote track = %q", u)
	}
	if _, err := c.TrackURL(3); !errors.Is(err, ErrTrackIndex) {
		t.Fatalf("out of range = %v", err)
	}
}

func TestParseCartridgeRejects(t *testing.T) {
	cases := map[string]string{
		"empty":    `{"name": "x", "tracks": []}`,
		"no file":  `{"name": "x", "tracks": [{"name": "a", "duration": 3}]}`,
		"negative": `{"name": "x", "tracks": [{"name": "a", "file": "a.wav", "duration": -1}]}`,
		"garbage":  `{"name": `,
	}
	for name, meta := range cases {
		if _, err := ParseCartridge([]byte(meta)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := ParseCartridge([]byte(cases["empty"])); !errors.Is(err, ErrEmptyCartridge) {
		t.Fatalf("empty: %v", err)
	}
}
