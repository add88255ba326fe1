//go:build !windows

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
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
	nonblockSet  bool
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

// Start sets stdin to raw non-blocking mode and begins reading in a
// goroutine. Call Stop() to restore stdin.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("terminal nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

// terminalPoll is how long the reader sleeps when stdin has nothing queued.
const terminalPoll = 5 * time.Millisecond

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	var buf [16]byte
	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf[:])
		for _, b := range buf[:max(n, 0)] {
			if k, ok := h.keys.feed(b); ok {
				h.onKey(k)
			}
		}
		switch {
		case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || (err == nil && n == 0):
			time.Sleep(terminalPoll)
		case err != nil:
			return
		}
	}
}

// Stop terminates the stdin reading goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
