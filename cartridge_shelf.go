// cartridge_shelf.go - Cartridge shelf with carousel selection and hot reload

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

const SHELF_BOUNCE_DELAY = 50 * time.Millisecond

// CartridgeShelf is the carousel of available cartridges. The slot after the
// last cartridge is an empty placeholder; landing on it bounces back to the
// last real cartridge. All methods run on the scheduler goroutine.
type CartridgeShelf struct {
	dir   string
	sched *Scheduler
	log   *slog.Logger

	carts    []*Cartridge
	slot     int // carousel position, may be the placeholder
	selected int // last real cartridge position
	bounce   *Timer

	reloadQueued atomic.Bool

	// OnChange runs after the shelf contents or selection change
	OnChange func()
}

func NewCartridgeShelf(dir string, sched *Scheduler) *CartridgeShelf {
	return &CartridgeShelf{
		dir:   dir,
		sched: sched,
		log:   logComponent("shelf"),
	}
}

// NewCartridgeShelfFrom builds a shelf over an already loaded set.
func NewCartridgeShelfFrom(carts []*Cartridge, sched *Scheduler) *CartridgeShelf {
	s := NewCartridgeShelf("", sched)
	s.carts = carts
	return s
}

// Reload rescans the shelf directory. The selection follows the previously
// selected cartridge when it is still present.
func (s *CartridgeShelf) Reload() error {
	carts, err := scanShelf(s.dir)
	if err != nil {
		return err
	}
	prev := s.Selected()
	s.carts = carts
	s.selected = 0
	if prev != nil {
		if _, i, ok := lo.FindIndexOf(carts, func(c *Cartridge) bool { return c.Dir == prev.Dir }); ok {
			s.selected = i
		}
	}
	s.slot = s.selected
	s.bounce.Stop()
	s.log.Info("shelf loaded", "dir", s.dir, "cartridges", len(carts))
	s.changed()
	return nil
}

// scanShelf loads the cartridge in dir itself and every cartridge in its
// immediate subdirectories, in name order. Unreadable entries are skipped.
func scanShelf(dir string) ([]*Cartridge, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var carts []*Cartridge
	if c, err := LoadCartridge(filepath.Join(dir, CARTRIDGE_META_FILE)); err == nil {
		carts = append(carts, c)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		c, err := LoadCartridge(filepath.Join(dir, e.Name()))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logComponent("shelf").Warn("skipping cartridge", "dir", e.Name(), "err", err)
			}
			continue
		}
		carts = append(carts, c)
	}
	return carts, nil
}

func (s *CartridgeShelf) Cartridges() []*Cartridge { return s.carts }

// Slots is the carousel length including the placeholder.
func (s *CartridgeShelf) Slots() int { return len(s.carts) + 1 }

// Slot is the carousel position currently shown.
func (s *CartridgeShelf) Slot() int { return s.slot }

// Index is the position of the selected cartridge.
func (s *CartridgeShelf) Index() int { return s.selected }

// Selected returns the selected cartridge, or nil on an empty shelf.
func (s *CartridgeShelf) Selected() *Cartridge {
	if s.selected < 0 || s.selected >= len(s.carts) {
		return nil
	}
	return s.carts[s.selected]
}

func (s *CartridgeShelf) CanPrev(mounted bool) bool {
	return !mounted && s.selected > 0
}

func (s *CartridgeShelf) CanNext(mounted bool) bool {
	return !mounted
}

// Prev scrolls one slot back. Returns false when disabled.
func (s *CartridgeShelf) Prev(mounted bool) bool {
	if !s.CanPrev(mounted) {
		return false
	}
	s.scrollTo(s.slot - 1)
	return true
}

// Next scrolls one slot forward. Returns false when disabled.
func (s *CartridgeShelf) Next(mounted bool) bool {
	if !s.CanNext(mounted) {
		return false
	}
	s.scrollTo(s.slot + 1)
	return true
}

func (s *CartridgeShelf) scrollTo(slot int) {
	slot = max(0, min(slot, s.Slots()-1))
	if slot == s.slot {
		return
	}
	s.slot = slot
	s.bounce.Stop()
	if slot == s.Slots()-1 {
		s.bounce = s.sched.AfterFunc(SHELF_BOUNCE_DELAY, func() {
			s.bounce = nil
			s.scrollTo(s.slot - 1)
		})
	} else {
		s.selected = slot
	}
	s.changed()
}

func (s *CartridgeShelf) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Watch reloads the shelf when cartridge descriptors change on disk, until
// ctx is cancelled. Reloads are posted onto the scheduler and coalesced.
func (s *CartridgeShelf) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}
	for _, c := range s.carts {
		if c.Dir != s.dir {
			_ = watcher.Add(c.Dir)
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				s.queueReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("shelf watch error", "err", err)
			}
		}
	}()
	return nil
}

func (s *CartridgeShelf) queueReload() {
	if !s.reloadQueued.CompareAndSwap(false, true) {
		return
	}
	s.sched.Post(func() {
		s.reloadQueued.Store(false)
		if err := s.Reload(); err != nil {
			s.log.Warn("shelf reload failed", "err", err)
		}
	})
}
