package main

import (
	"testing"
	"time"
)

func TestSelectFrame(t *testing.T) {
	frames := []TextFrame{{TimeFraction: 0, Text: "A"}, {TimeFraction: 0.5, Text: "B"}}
	cases := []struct {
		at   time.Duration
		want string
	}{
		{0, "A"},
		{200 * time.Millisecond, "A"},
		{500 * time.Millisecond, "B"},
		{700 * time.Millisecond, "B"},
		{1200 * time.Millisecond, "A"},
		{-300 * time.Millisecond, "B"},
	}
	for _, c := range cases {
		f, ok := SelectFrame(frames, time.Second, c.at)
		if !ok || f.Text != c.want {
			t.Fatalf("SelectFrame at %v = %q/%v, want %q", c.at, f.Text, ok, c.want)
		}
	}
}

func TestSelectFrameNoActiveFrame(t *testing.T) {
	frames := []TextFrame{{TimeFraction: 0.5, Text: "late"}}
	if _, ok := SelectFrame(frames, time.Second, 100*time.Millisecond); ok {
		t.Fatal("expected no frame before the first fraction")
	}
	if _, ok := SelectFrame(frames, 0, 0); ok {
		t.Fatal("expected no frame for a zero period")
	}
}

func TestLoadingAnimationCycle(t *testing.T) {
	e := loadingLayout[0]
	for _, c := range []struct {
		at   time.Duration
		want string
	}{
		{0, "Loading."},
		{600 * time.Millisecond, "Loading.."},
		{1200 * time.Millisecond, "Loading..."},
		{1500 * time.Millisecond, "Loading."},
	} {
		got, ok := e.TextAt(c.at)
		if !ok || got != c.want {
			t.Fatalf("TextAt(%v) = %q, want %q", c.at, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	for in, want := range map[int]string{0: "0:00", 5: "0:05", 65: "1:05", 600: "10:00", -3: "0:00"} {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func testCartridge() *Cartridge {
	return &Cartridge{
		Name: "Retro Hits",
		Tracks: []Track{
			{Name: "Intro", File: "intro.wav", Duration: 120},
			{Name: "Chase", File: "chase.wav", Duration: 90},
			{Name: "Finale", File: "finale.wav", Duration: 200},
		},
	}
}

func TestComputeLayoutModes(t *testing.T) {
	cart := testCartridge()
	if l := ComputeLayout(LayoutUnmounted, PlaybackSnapshot{}, 0, 3, cart); l[0].Text != "Insert cartridge" {
		t.Fatalf("unmounted layout = %+v", l)
	}
	if l := ComputeLayout(LayoutLoading, PlaybackSnapshot{}, 0, 3, cart); !l[0].Animated() {
		t.Fatalf("loading layout should be animated: %+v", l)
	}
	if l := ComputeLayout(LayoutLoaded, PlaybackSnapshot{}, 7, 3, cart); !l[0].Animated() {
		t.Fatal("out of range track should fall back to the loading layout")
	}
}

func TestComputeLayoutLoaded(t *testing.T) {
	cart := testCartridge()
	snap := PlaybackSnapshot{State: StatePlaying, ElapsedSeconds: 65, Loaded: true}
	l := ComputeLayout(LayoutLoaded, snap, 1, 3, cart)
	if len(l) != 5 {
		t.Fatalf("loaded layout has %d entries", len(l))
	}
	want := []string{"NOW PLAYING", "2 of 3", "Retro Hits — Chase", "1:05 / 1:30", "w/ ANN sounds"}
	for i, w := range want {
		if l[i].Text != w {
			t.Fatalf("entry %d = %q, want %q", i, l[i].Text, w)
		}
	}
	if l[1].Align != AlignRight || l[1].X != DISPLAY_WIDTH-DISPLAY_MARGIN {
		t.Fatalf("track counter should be right aligned at the margin: %+v", l[1])
	}
}

func TestComputeLayoutClampsElapsed(t *testing.T) {
	cart := testCartridge()
	l := ComputeLayout(LayoutLoaded, PlaybackSnapshot{State: StatePaused, ElapsedSeconds: -4}, 0, 3, cart)
	if l[0].Text != "PAUSED" || l[3].Text != "0:00 / 2:00" {
		t.Fatalf("negative elapsed: %q %q", l[0].Text, l[3].Text)
	}
	l = ComputeLayout(LayoutLoaded, PlaybackSnapshot{State: StateScrubbing, ElapsedSeconds: 500, Resume: true}, 0, 3, cart)
	if l[0].Text != "NOW PLAYING" || l[3].Text != "2:00 / 2:00" {
		t.Fatalf("overrun elapsed: %q %q", l[0].Text, l[3].Text)
	}
}
