// shell_terminal.go - Terminal shell for the cartridge player

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const TERMINAL_TICK = time.Second / 60

const terminalHelp = "space play/pause  b/n prev/next  r/f hold rewind/forward  [ ] or arrows shelf  i insert  e eject  q quit\r\n"

// terminalShell maps keys onto the device buttons. Terminals report no key
// release, so r and f toggle a held button.
type terminalShell struct {
	p       *Player
	out     io.Writer
	holding *Button
	last    string
}

func newTerminalShell(p *Player, out io.Writer) *terminalShell {
	return &terminalShell{p: p, out: out}
}

// runTerminal drives the player from raw stdin until q, Ctrl+C or ctx ends.
func runTerminal(ctx context.Context, p *Player, out io.Writer) error {
	keys := make(chan byte, 16)
	host := NewTerminalHost(func(b byte) {
		select {
		case keys <- b:
		default:
		}
	})
	if err := host.Start(); err != nil {
		return err
	}
	defer host.Stop()

	sh := newTerminalShell(p, out)
	fmt.Fprint(out, terminalHelp)
	ticker := time.NewTicker(TERMINAL_TICK)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(out, "\r\n")
			return nil
		case b := <-keys:
			if !sh.handleKey(b) {
				fmt.Fprint(out, "\r\n")
				return nil
			}
		case <-ticker.C:
			p.Tick()
			sh.redraw()
		}
	}
}

// handleKey applies one key. It returns false when the shell should exit.
func (sh *terminalShell) handleKey(b byte) bool {
	d := sh.p.device
	switch b {
	case 'q', 'Q', 0x03:
		return false
	case ' ', 'p':
		sh.tap(d.Play)
	case 'b':
		sh.tap(d.Prev)
	case 'n':
		sh.tap(d.Next)
	case 'r':
		sh.toggleHold(d.Prev)
	case 'f':
		sh.toggleHold(d.Next)
	case 'e':
		sh.releaseHold()
		sh.tap(d.Eject)
	case 'i', '\r':
		sh.p.InsertSelected()
	case '[':
		sh.p.shelf.Prev(d.Mounted())
	case ']':
		sh.p.shelf.Next(d.Mounted())
	}
	return true
}

func (sh *terminalShell) tap(b *Button) {
	b.Press()
	b.PointerUp(true)
}

func (sh *terminalShell) toggleHold(b *Button) {
	if sh.holding == b {
		sh.releaseHold()
		return
	}
	sh.releaseHold()
	b.Press()
	sh.holding = b
}

func (sh *terminalShell) releaseHold() {
	if sh.holding == nil {
		return
	}
	sh.holding.PointerUp(true)
	sh.holding = nil
}

func (sh *terminalShell) redraw() {
	line := terminalLine(sh.p.Texts(), sh.p.Elapsed())
	if !sh.p.device.Mounted() {
		if c := sh.p.shelf.Selected(); c != nil {
			line += fmt.Sprintf("  [shelf %d/%d: %s]", sh.p.shelf.Index()+1, len(sh.p.shelf.Cartridges()), c.Name)
		}
	}
	if line == sh.last {
		return
	}
	sh.last = line
	fmt.Fprintf(sh.out, "\r\x1b[2K%s", line)
}

// keyDecoder folds ANSI cursor sequences into single shell keys: left and
// right scroll the shelf, up inserts and down ejects.
type keyDecoder struct {
	state int
}

func (k *keyDecoder) feed(b byte) (byte, bool) {
	switch k.state {
	case 1:
		if b == '[' || b == 'O' {
			k.state = 2
			return 0, false
		}
		k.state = 0
		return b, true
	case 2:
		k.state = 0
		switch b {
		case 'D':
			return '[', true
		case 'C':
			return ']', true
		case 'A':
			return 'i', true
		case 'B':
			return 'e', true
		}
		return 0, false
	}
	if b == 0x1b {
		k.state = 1
		return 0, false
	}
	return b, true
}

// terminalLine flattens a layout into one status line as seen at t.
func terminalLine(layout TextLayout, t time.Duration) string {
	parts := make([]string, 0, len(layout))
	for _, e := range layout {
		if s, ok := e.TextAt(t); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}
