package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/viper"
)

func TestRenderSnapshot(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	img, err := renderSnapshot(cfg, testCartridge(), 1)
	if err != nil {
		t.Fatalf("renderSnapshot: %v", err)
	}
	wantW := int(float64(cfg.Display.Width) * cfg.Display.Density)
	wantH := int(float64(cfg.Display.Height) * cfg.Display.Density)
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Fatalf("snapshot size = %v, want %dx%d", img.Bounds().Size(), wantW, wantH)
	}
	if !hasColor(img) {
		t.Fatal("snapshot is blank")
	}

	out := filepath.Join(t.TempDir(), "display.png")
	if err := imaging.Save(img, out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if back.Bounds().Size() != img.Bounds().Size() {
		t.Fatalf("reopened size = %v", back.Bounds().Size())
	}
}

func TestRenderSnapshotRejectsTrack(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := renderSnapshot(cfg, testCartridge(), 3); !errors.Is(err, ErrTrackIndex) {
		t.Fatalf("track 4 of 3 = %v, want ErrTrackIndex", err)
	}
}
