package main

import "sync"

// playerStatusSnapshot is what the status bar and terminal line show. It is
// written on the scheduler goroutine and read from the draw path.
type playerStatusSnapshot struct {
	state      TransportState
	mounted    bool
	settled    bool
	loading    bool
	skipping   bool
	cartridge  string
	track      int
	trackCount int
	elapsed    int
	voices     int
	shelfSlot  int
	shelfSize  int
}

type playerStatusStore struct {
	mu sync.RWMutex
	playerStatusSnapshot
}

func (s *playerStatusStore) set(snap playerStatusSnapshot) {
	s.mu.Lock()
	s.playerStatusSnapshot = snap
	s.mu.Unlock()
}

func (s *playerStatusStore) snapshot() playerStatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerStatusSnapshot
}
