// text_layout.go - Text layout model for the CRT display

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"time"
)

const (
	DISPLAY_WIDTH  = 1560
	DISPLAY_HEIGHT = 470
	DISPLAY_MARGIN = 60
)

// Align is the horizontal anchor of a text entry.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// TextFrame is one time slice of an animated entry.
type TextFrame struct {
	TimeFraction float64 // [0,1), ascending within an entry
	Text         string
}

// TextEntry is a static string, or an animated one when Frames is set.
type TextEntry struct {
	Text     string
	Frames   []TextFrame
	Duration time.Duration
	X, Y     float64
	Size     float64
	Align    Align
}

// Animated reports whether the entry selects its text by time.
func (e TextEntry) Animated() bool {
	return len(e.Frames) > 0
}

// TextAt returns the text shown at t, measured from any fixed epoch. The
// second result is false when no frame is active.
func (e TextEntry) TextAt(t time.Duration) (string, bool) {
	if !e.Animated() {
		return e.Text, true
	}
	f, ok := SelectFrame(e.Frames, e.Duration, t)
	if !ok {
		return "", false
	}
	return f.Text, true
}

// SelectFrame returns the last frame whose fraction is not past the
// position of t within the cycle.
func SelectFrame(frames []TextFrame, period time.Duration, t time.Duration) (TextFrame, bool) {
	if period <= 0 || len(frames) == 0 {
		return TextFrame{}, false
	}
	pos := t % period
	if pos < 0 {
		pos += period
	}
	p := float64(pos) / float64(period)

	var sel TextFrame
	found := false
	for _, f := range frames {
		if f.TimeFraction > p {
			break
		}
		sel = f
		found = true
	}
	return sel, found
}

// TextLayout is an ordered list of entries; later entries paint over
// earlier ones.
type TextLayout []TextEntry

// LayoutMode selects which of the three screens is shown.
type LayoutMode int

const (
	LayoutUnmounted LayoutMode = iota
	LayoutLoading
	LayoutLoaded
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutUnmounted:
		return "unmounted"
	case LayoutLoading:
		return "loading"
	case LayoutLoaded:
		return "loaded"
	}
	return fmt.Sprintf("LayoutMode(%d)", int(m))
}

var unmountedLayout = TextLayout{
	{Text: "Insert cartridge", X: DISPLAY_MARGIN, Y: 250, Size: 58},
	{Text: "v v v", X: DISPLAY_MARGIN, Y: 350, Size: 42},
}

var loadingLayout = TextLayout{
	{
		Frames: []TextFrame{
			{TimeFraction: 0, Text: "Loading."},
			{TimeFraction: .33, Text: "Loading.."},
			{TimeFraction: .66, Text: "Loading..."},
		},
		Duration: 1500 * time.Millisecond,
		X:        DISPLAY_MARGIN,
		Y:        250,
		Size:     58,
	},
}

// ComputeLayout builds the display text for the given device state. It has
// no side effects; callers recompute it whenever the inputs change.
func ComputeLayout(mode LayoutMode, snap PlaybackSnapshot, trackIndex, trackCount int, meta *Cartridge) TextLayout {
	switch mode {
	case LayoutLoading:
		return loadingLayout
	case LayoutLoaded:
		if meta == nil || trackIndex < 0 || trackIndex >= len(meta.Tracks) {
			return loadingLayout
		}
	default:
		return unmountedLayout
	}

	track := meta.Tracks[trackIndex]
	status := "PAUSED"
	if snap.Playing() {
		status = "NOW PLAYING"
	}
	elapsed := max(0, min(snap.ElapsedSeconds, track.Duration))

	return TextLayout{
		{Text: status, X: DISPLAY_MARGIN, Y: 151, Size: 42},
		{Text: fmt.Sprintf("%d of %d", trackIndex+1, trackCount), X: DISPLAY_WIDTH - DISPLAY_MARGIN, Y: 151, Size: 42, Align: AlignRight},
		{Text: meta.Name + " — " + track.Name, X: DISPLAY_MARGIN, Y: 250, Size: 58},
		{Text: FormatDuration(elapsed) + " / " + FormatDuration(track.Duration), X: DISPLAY_MARGIN, Y: 350, Size: 42},
		{Text: "w/ ANN sounds", X: DISPLAY_WIDTH - DISPLAY_MARGIN, Y: 350, Size: 42, Align: AlignRight},
	}
}

// FormatDuration renders whole seconds as m:ss. Negative input reads as 0:00.
func FormatDuration(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
