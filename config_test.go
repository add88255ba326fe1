package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Display.Width != DISPLAY_WIDTH || cfg.Display.Height != DISPLAY_HEIGHT {
		t.Fatalf("display = %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.Pixelation != PIXELATION_LEVEL || cfg.Display.RasterInterval != RASTER_INTERVAL {
		t.Fatalf("display opts = %+v", cfg.Display)
	}
	if cfg.Audio.SampleRate != SAMPLE_RATE || cfg.Audio.SongGain != SONG_GAIN {
		t.Fatalf("audio = %+v", cfg.Audio)
	}
	if cfg.Shelf.Directory != "cartridges" || !cfg.Shelf.Watch {
		t.Fatalf("shelf = %+v", cfg.Shelf)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	data := []byte("window:\n  scale: 1.5\n  fullscreen: true\ndisplay:\n  pixelation: 4\nshelf:\n  directory: /srv/carts\n  watch: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Window.Scale != 1.5 || !cfg.Window.Fullscreen || cfg.Display.Pixelation != 4 {
		t.Fatalf("file values not applied: %+v %+v", cfg.Window, cfg.Display)
	}
	if cfg.Shelf.Directory != "/srv/carts" || cfg.Shelf.Watch {
		t.Fatalf("shelf = %+v", cfg.Shelf)
	}
	if cfg.Display.Width != DISPLAY_WIDTH {
		t.Fatal("unset keys should keep their defaults")
	}
	dc := cfg.WindowDisplay()
	if dc.Width != WINDOW_WIDTH || dc.Scale != 1.5 || !dc.Fullscreen || dc.Title != "Cartridge Player" {
		t.Fatalf("window display = %+v", dc)
	}
}

func TestConfigValidate(t *testing.T) {
	base, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]func(c *Config){
		"display.pixelation":      func(c *Config) { c.Display.Pixelation = 0 },
		"display.raster_interval": func(c *Config) { c.Display.RasterInterval = 0 },
		"audio.sample_rate":       func(c *Config) { c.Audio.SampleRate = 10 },
		"audio.song_gain":         func(c *Config) { c.Audio.SongGain = 2 },
		"shelf.directory":         func(c *Config) { c.Shelf.Directory = "" },
		"logging.format":          func(c *Config) { c.Logging.Format = "xml" },
	}
	for field, mutate := range cases {
		c := *base
		mutate(&c)
		err := c.Validate()
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Field != field {
			t.Fatalf("%s: err = %v", field, err)
		}
	}
}

func TestClampScale(t *testing.T) {
	for in, want := range map[float64]float64{0: 1, -2: 1, 0.6: 0.6, 9: 4} {
		if got := ClampScale(in); got != want {
			t.Fatalf("ClampScale(%v) = %v, want %v", in, got, want)
		}
	}
}
