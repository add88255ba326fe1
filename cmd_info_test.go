package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderCartridgeInfo(t *testing.T) {
	var buf bytes.Buffer
	renderCartridgeInfo(&buf, testCartridge())
	out := buf.String()
	for _, want := range []string{"Retro Hits", "3 Tracks | Runtime: 6:50", "Chase", "1:30", "finale.wav", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderShelf(t *testing.T) {
	var buf bytes.Buffer
	renderShelf(&buf, nil)
	if !strings.Contains(buf.String(), "No cartridges") {
		t.Fatalf("empty shelf output = %q", buf.String())
	}
	buf.Reset()
	renderShelf(&buf, []*Cartridge{testCartridge()})
	if !strings.Contains(buf.String(), "Retro Hits") || !strings.Contains(buf.String(), "6:50") {
		t.Fatalf("shelf output:\n%s", buf.String())
	}
}
