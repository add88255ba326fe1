package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type deviceRig struct {
	device *Device
	engine *TransportEngine
	graph  *AudioGraph
	sched  *Scheduler
	clock  *manualClock
	cart   *Cartridge
}

// newDeviceRig builds a device over a real engine and a three track
// cartridge of short silent songs. The graph is never pulled, so songs
// only end when a test drains it.
func newDeviceRig(t *testing.T) *deviceRig {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"intro.wav", "chase.wav", "finale.wav"} {
		writeWav(t, dir, name, 100*time.Millisecond)
	}
	cart := testCartridge()
	cart.Dir = dir

	clock := newManualClock()
	sched := NewScheduler(clock)
	graph := NewAudioGraph(SAMPLE_RATE)
	engine := NewTransportEngine(graph, sched, TransportOptions{})
	return &deviceRig{
		device: NewDevice(sched, engine),
		engine: engine,
		graph:  graph,
		sched:  sched,
		clock:  clock,
		cart:   cart,
	}
}

// waitFor runs the scheduler until cond holds. Song loads finish on a
// worker goroutine, so this polls in real time without moving the clock.
func (r *deviceRig) waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		r.sched.RunPending()
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// holdTrack serves track i over HTTP and keeps the response back until
// the returned release func runs.
func (r *deviceRig) holdTrack(t *testing.T, i int) (release func()) {
	t.Helper()
	gate := make(chan struct{})
	var once sync.Once
	release = func() { once.Do(func() { close(gate) }) }

	name := r.cart.Tracks[i].File
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		<-gate
		http.ServeFile(w, req, filepath.Join(r.cart.Dir, filepath.Base(req.URL.Path)))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(release)
	r.cart.Tracks[i].File = srv.URL + "/" + name
	return release
}

func (r *deviceRig) loadedURL() string {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	if r.engine.loaded == nil {
		return ""
	}
	return r.engine.loaded.URL
}

func (r *deviceRig) insertAndSettle(t *testing.T) {
	t.Helper()
	r.device.Insert(r.cart)
	if r.device.Mode() != LayoutUnmounted {
		t.Fatalf("mode while settling = %v", r.device.Mode())
	}
	step(r.sched, r.clock, SETTLE_DELAY, 10*time.Millisecond)
	r.waitFor(t, "first track", func() bool { return !r.device.Loading() })
	if r.device.Mode() != LayoutLoaded {
		t.Fatalf("mode after insert = %v", r.device.Mode())
	}
}

func TestDevice_InitialState(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	if d.Mounted() || !d.Settled() || d.Playing() || !d.Loading() || d.TrackIndex() != 0 {
		t.Fatalf("initial state mounted=%v settled=%v playing=%v loading=%v index=%d",
			d.Mounted(), d.Settled(), d.Playing(), d.Loading(), d.TrackIndex())
	}
	if got := d.Texts()[0].Text; got != "Insert cartridge" {
		t.Fatalf("initial text = %q", got)
	}
}

func TestDevice_PlayThenNextTrack(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)

	d.PlayPause()
	if !d.Playing() || r.engine.State() != StatePlaying {
		t.Fatalf("playing = %v engine = %v", d.Playing(), r.engine.State())
	}
	step(r.sched, r.clock, 65*time.Second, 100*time.Millisecond)
	if got := d.Texts()[3].Text; got != "1:05 / 2:00" {
		t.Fatalf("elapsed text = %q", got)
	}

	d.NextTrack()
	if r.engine.State() != StateStopped || d.TrackIndex() != 0 {
		t.Fatalf("immediately after next: engine = %v index = %d", r.engine.State(), d.TrackIndex())
	}
	if got := d.Texts()[0].Text; got != "NOW PLAYING" {
		t.Fatalf("status during track change = %q", got)
	}
	r.waitFor(t, "second track playing", func() bool { return r.engine.State() == StatePlaying })
	if d.TrackIndex() != 1 {
		t.Fatalf("index = %d, want 1", d.TrackIndex())
	}
	texts := d.Texts()
	if texts[1].Text != "2 of 3" || texts[2].Text != "Retro Hits — Chase" || texts[3].Text != "0:00 / 1:30" {
		t.Fatalf("texts = %q %q %q", texts[1].Text, texts[2].Text, texts[3].Text)
	}
}

func TestDevice_PrevAtFirstTrackRestarts(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.PlayPause()
	step(r.sched, r.clock, 10*time.Second, 100*time.Millisecond)
	d.PrevTrack()
	r.waitFor(t, "restart", func() bool { return r.engine.State() == StatePlaying })
	if d.TrackIndex() != 0 || r.engine.ElapsedSeconds() != 0 {
		t.Fatalf("index = %d elapsed = %d", d.TrackIndex(), r.engine.ElapsedSeconds())
	}
}

func TestDevice_NextWhilePausedStaysPaused(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.NextTrack()
	r.sched.RunPending()
	r.waitFor(t, "second track", func() bool { return d.TrackIndex() == 1 && d.loadCancel == nil })
	step(r.sched, r.clock, time.Second, 100*time.Millisecond)
	if r.engine.State() != StateStopped || d.Playing() {
		t.Fatalf("engine = %v playing = %v", r.engine.State(), d.Playing())
	}
	if got := d.Texts()[0].Text; got != "PAUSED" {
		t.Fatalf("status = %q", got)
	}
}

func TestDevice_PlayBeforeSettleForcesPause(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	d.PlayPause()
	if d.Playing() {
		t.Fatal("play without a cartridge started playback")
	}
	d.Insert(r.cart)
	d.PlayPause()
	if d.Playing() {
		t.Fatal("play during the settle animation started playback")
	}
}

func TestDevice_PlayWhileLoadingStartsAfterLoad(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	d.Insert(r.cart)
	r.clock.Advance(SETTLE_DELAY)
	d.sched.RunPending()
	if !d.Settled() {
		t.Fatal("device should be settled")
	}
	if d.Loading() {
		// The load may already have landed; only the loading path is
		// interesting here.
		d.PlayPause()
		if !d.Playing() || r.engine.State() == StatePlaying {
			t.Fatalf("play during load: playing = %v engine = %v", d.Playing(), r.engine.State())
		}
	} else {
		d.PlayPause()
	}
	r.waitFor(t, "playback", func() bool { return r.engine.State() == StatePlaying })
}

func TestDevice_HoldScrubsAndResumes(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.PlayPause()
	step(r.sched, r.clock, 5*time.Second, 100*time.Millisecond)

	d.Next.Press()
	step(r.sched, r.clock, HOLD_DELAY, 10*time.Millisecond)
	if !d.Skipping() || r.engine.State() != StateScrubbing {
		t.Fatalf("skipping = %v engine = %v", d.Skipping(), r.engine.State())
	}
	step(r.sched, r.clock, 300*time.Millisecond, 10*time.Millisecond)
	d.Next.PointerUp(true)
	if d.Skipping() || r.engine.State() != StatePlaying {
		t.Fatalf("after release skipping = %v engine = %v", d.Skipping(), r.engine.State())
	}
	if d.TrackIndex() != 0 {
		t.Fatal("a hold must not change track")
	}
	// 5.8s at hold start, plus ten forward ticks.
	if got := r.engine.ElapsedMillis(); got != 15800 {
		t.Fatalf("elapsed after scrub = %d, want 15800", got)
	}
}

func TestDevice_ScrubPastEndClamps(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.Next.Press()
	step(r.sched, r.clock, HOLD_DELAY, 10*time.Millisecond)
	step(r.sched, r.clock, 5*time.Second, 10*time.Millisecond)
	d.Next.PointerUp(true)
	if got := r.engine.ElapsedSeconds(); got != 120 {
		t.Fatalf("elapsed = %d, want clamp to 120", got)
	}
}

func TestDevice_LastTrackEndStops(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.NextTrack()
	r.sched.RunPending()
	d.NextTrack()
	r.waitFor(t, "last track", func() bool { return d.TrackIndex() == 2 && d.loadCancel == nil })
	d.PlayPause()
	r.waitFor(t, "playing", func() bool { return r.engine.State() == StatePlaying })

	d.playNext()
	if d.Playing() || r.engine.State() != StateStopped || d.TrackIndex() != 2 {
		t.Fatalf("after last track: playing = %v engine = %v index = %d", d.Playing(), r.engine.State(), d.TrackIndex())
	}
}

func TestDevice_Eject(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	r.insertAndSettle(t)
	d.PlayPause()
	d.EjectCartridge()
	if d.Mounted() || d.Playing() || !d.Loading() || d.TrackIndex() != 0 || d.Settled() {
		t.Fatalf("eject state mounted=%v playing=%v loading=%v settled=%v", d.Mounted(), d.Playing(), d.Loading(), d.Settled())
	}
	if r.engine.State() != StateStopped {
		t.Fatalf("engine after eject = %v", r.engine.State())
	}
	step(r.sched, r.clock, SETTLE_DELAY, 10*time.Millisecond)
	if !d.Settled() || d.Texts()[0].Text != "Insert cartridge" {
		t.Fatal("eject should settle back to the insert screen")
	}
	if d.NowPlaying() != "" {
		t.Fatal("no track should be reported after eject")
	}
}

func TestDevice_PauseDuringAutoAdvanceLoad(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	release := r.holdTrack(t, 1)
	r.insertAndSettle(t)
	d.PlayPause()

	pull(r.graph, SAMPLE_RATE/2)
	pull(r.graph, SAMPLE_RATE/2)
	r.sched.RunPending()
	r.sched.RunPending()
	if d.TrackIndex() != 1 || !d.Playing() {
		t.Fatalf("after song end: index = %d playing = %v", d.TrackIndex(), d.Playing())
	}

	d.PlayPause()
	if d.Playing() {
		t.Fatal("pause during the next track load was ignored")
	}
	release()
	r.waitFor(t, "second track", func() bool { return d.loadCancel == nil })
	r.sched.RunPending()
	if r.engine.State() == StatePlaying {
		t.Fatalf("engine = %v after a pause during load", r.engine.State())
	}
	if got := d.Texts()[0].Text; got != "PAUSED" {
		t.Fatalf("status = %q", got)
	}

	d.PlayPause()
	if r.engine.State() != StatePlaying || r.engine.ElapsedSeconds() != 0 {
		t.Fatalf("play after load: engine = %v elapsed = %d", r.engine.State(), r.engine.ElapsedSeconds())
	}
}

func TestDevice_PlayDuringTrackChangeWaitsForLoad(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	release := r.holdTrack(t, 1)
	r.insertAndSettle(t)

	d.NextTrack()
	r.sched.RunPending()
	d.PlayPause()
	if !d.Playing() {
		t.Fatal("play intent lost during the track change")
	}
	if r.engine.State() == StatePlaying {
		t.Fatalf("previous song %s started while the next one loads", r.loadedURL())
	}

	release()
	r.waitFor(t, "second track playing", func() bool { return r.engine.State() == StatePlaying })
	if d.TrackIndex() != 1 || !strings.HasSuffix(r.loadedURL(), "/chase.wav") {
		t.Fatalf("index = %d sounding = %s", d.TrackIndex(), r.loadedURL())
	}
}

func TestDevice_HoldIgnoredWhileLoading(t *testing.T) {
	r := newDeviceRig(t)
	d := r.device
	release := r.holdTrack(t, 0)
	d.Insert(r.cart)
	step(r.sched, r.clock, SETTLE_DELAY, 10*time.Millisecond)
	if !d.Loading() {
		t.Fatal("first track should still be loading")
	}

	d.Next.Press()
	step(r.sched, r.clock, HOLD_DELAY, 10*time.Millisecond)
	if d.Skipping() || r.engine.State() == StateScrubbing {
		t.Fatalf("hold during load: skipping = %v engine = %v", d.Skipping(), r.engine.State())
	}

	release()
	r.waitFor(t, "first track", func() bool { return !d.Loading() })
	d.Next.PointerUp(true)
	if d.Skipping() || d.TrackIndex() != 0 || r.engine.State() != StateStopped {
		t.Fatalf("after release: skipping = %v index = %d engine = %v", d.Skipping(), d.TrackIndex(), r.engine.State())
	}
}
