//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and hands every decoded key to onKey on the
// reader goroutine. Arrow keys arrive as their shell key bytes.
type TerminalHost struct {
	onKey        func(byte)
	keys         keyDecoder
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

// NewTerminalHost creates a host adapter that reports keys to onKey.
func NewTerminalHost(onKey func(byte)) *TerminalHost {
	return &TerminalHost{
		onKey:  onKey,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start sets stdin to raw mode and begins reading in a goroutine.
// Call Stop() to restore stdin.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal raw mode: %w", err)
	}
	h.oldTermState = oldState

	go h.readLoop()
	return nil
}

const terminalPoll = 5 * time.Millisecond

// readLoop blocks in Read, so a stop request is only noticed after the next key.
func (h *TerminalHost) readLoop() {
	defer close(h.done)
	var buf [16]byte
	for {
		select {
		case <-h.stopCh:
			return
		default:
		}
		n, err := os.Stdin.Read(buf[:])
		for _, b := range buf[:n] {
			if k, ok := h.keys.feed(b); ok {
				h.onKey(k)
			}
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(terminalPoll)
		}
	}
}

// Stop terminates the stdin reading goroutine and restores terminal state.
// The reader exits after its next key.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
