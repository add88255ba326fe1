// cartridge.go - Cartridge descriptors and track metadata

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

const CARTRIDGE_META_FILE = "meta.json"

var (
	ErrEmptyCartridge = errors.New("cartridge has no tracks")
	ErrTrackIndex     = errors.New("track index out of range")
)

// Track is one song on a cartridge. Duration is in whole seconds.
type Track struct {
	Name     string `json:"name"`
	File     string `json:"file"`
	Duration int    `json:"duration"`
}

// Cartridge is a collection of tracks read from a meta.json descriptor.
type Cartridge struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`

	// Dir is the directory track files are resolved against
	Dir string `json:"-"`
}

// LoadCartridge reads a cartridge from a directory holding meta.json, or
// from the descriptor file itself.
func LoadCartridge(path string) (*Cartridge, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	metaPath := path
	if info.IsDir() {
		metaPath = filepath.Join(path, CARTRIDGE_META_FILE)
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read cartridge: %w", err)
	}
	c, err := ParseCartridge(data)
	if err != nil {
		return nil, fmt.Errorf("cartridge %s: %w", metaPath, err)
	}
	c.Dir = filepath.Dir(metaPath)
	return c, nil
}

// ParseCartridge decodes a meta.json descriptor.
func ParseCartridge(data []byte) (*Cartridge, error) {
	var c Cartridge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Tracks) == 0 {
		return nil, ErrEmptyCartridge
	}
	for i, t := range c.Tracks {
		if t.File == "" {
			return nil, fmt.Errorf("track %d (%q): missing file", i, t.Name)
		}
		if t.Duration < 0 {
			return nil, fmt.Errorf("track %d (%q): negative duration", i, t.Name)
		}
	}
	return &c, nil
}

// Track returns track i.
func (c *Cartridge) Track(i int) (Track, error) {
	if i < 0 || i >= len(c.Tracks) {
		return Track{}, fmt.Errorf("%w: %d of %d", ErrTrackIndex, i, len(c.Tracks))
	}
	return c.Tracks[i], nil
}

// TrackURL returns the asset location of track i. Remote and absolute
// locations pass through; relative files resolve against the cartridge.
func (c *Cartridge) TrackURL(i int) (string, error) {
	t, err := c.Track(i)
	if err != nil {
		return "", err
	}
	if isRemoteURL(t.File) || filepath.IsAbs(t.File) || c.Dir == "" {
		return t.File, nil
	}
	return filepath.Join(c.Dir, t.File), nil
}

// Runtime is the sum of all track durations in seconds.
func (c *Cartridge) Runtime() int {
	return lo.SumBy(c.Tracks, func(t Track) int { return t.Duration })
}
