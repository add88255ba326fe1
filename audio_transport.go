// audio_transport.go - Transport engine for cartridge song playback

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

/*
The transport tracks the playhead from wall-clock timestamps rather than by
counting samples:

  Stopped    startedAt and pausedAt both absent, elapsed reads 0
  Playing    a voice is sounding, elapsed = now - startedAt
  Paused     pausedAt holds the elapsed milliseconds captured at pause
  Scrubbing  a repeating timer moves pausedAt; queries behave as Paused

Resuming restarts the song buffer at pausedAt and back-dates startedAt by the
same amount, so the elapsed position stays continuous across any pause gap.
Scrubbing never plays audio; it only moves the snapshot that the next Play
resumes from. The engine applies no bounds to that snapshot; callers clamp
with ClampPaused.
*/

package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	REWIND_TICK  = 100 * time.Millisecond
	REWIND_STEP  = 1000 // ms per tick
	FORWARD_TICK = 30 * time.Millisecond
	FORWARD_STEP = 1000 // ms per tick
)

var ErrNoSongLoaded = errors.New("no song loaded")

// TransportState is the logical state of the transport.
type TransportState int

const (
	StateStopped TransportState = iota
	StatePlaying
	StatePaused
	StateScrubbing
)

func (s TransportState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateScrubbing:
		return "scrubbing"
	}
	return "unknown"
}

// PlaybackSnapshot is the read-only view the layout model consumes.
type PlaybackSnapshot struct {
	State          TransportState
	ElapsedSeconds int
	Loaded         bool
	// Resume is set by the shell while playback is meant to continue, such as
	// during a scrub or a track change.
	Resume bool
}

// Playing reports whether the display should read as playing.
func (p PlaybackSnapshot) Playing() bool {
	return p.State == StatePlaying || p.Resume
}

type TransportOptions struct {
	SongGain float64
	Fetcher  *AssetFetcher
	Logger   *slog.Logger
}

// TransportEngine owns the playback state of one song and the UI effects.
type TransportEngine struct {
	mu      sync.Mutex
	graph   *AudioGraph
	sched   *Scheduler
	fetcher *AssetFetcher
	effects *effectBank
	gain    float64
	log     *slog.Logger

	loaded    *Song
	active    *voice
	state     TransportState
	startedAt time.Time
	hasStart  bool
	pausedAt  int64
	hasPause  bool
	skipTimer *Timer
}

func NewTransportEngine(graph *AudioGraph, sched *Scheduler, opts TransportOptions) *TransportEngine {
	if opts.SongGain <= 0 {
		opts.SongGain = SONG_GAIN
	}
	if opts.Fetcher == nil {
		opts.Fetcher = &AssetFetcher{}
	}
	if opts.Logger == nil {
		opts.Logger = logComponent("transport")
	}
	return &TransportEngine{
		graph:   graph,
		sched:   sched,
		fetcher: opts.Fetcher,
		effects: newEffectBank(graph.Format()),
		gain:    opts.SongGain,
		log:     opts.Logger,
	}
}

// LoadSong fetches and decodes url, then makes it the current song and
// resets the transport to Stopped. The result is committed only while ctx
// is live, so a superseded load never replaces a newer one.
func (e *TransportEngine) LoadSong(ctx context.Context, url string) error {
	song, err := DecodeSong(ctx, e.fetcher, url, e.graph.Format())
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.cancelSkipLocked()
	e.stopVoiceLocked()
	e.loaded = song
	e.hasStart = false
	e.hasPause = false
	e.pausedAt = 0
	e.state = StateStopped
	e.log.Debug("song loaded", "url", url, "duration", song.Duration())
	return nil
}

// LoadEffect replaces the synthesised blip for an effect with an asset.
func (e *TransportEngine) LoadEffect(ctx context.Context, kind Effect, url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effects.load(ctx, e.fetcher, kind, url, e.graph.Format())
}

// Play starts the loaded song, resuming from the paused position if there
// is one. onEnded runs once on the scheduler goroutine when the song plays
// to its end; it never runs after Pause, Stop or another Play.
func (e *TransportEngine) Play(onEnded func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelSkipLocked()
	e.stopVoiceLocked()
	if e.loaded == nil {
		return ErrNoSongLoaded
	}

	now := e.sched.Now()
	var offset int64
	if e.hasPause && e.pausedAt > 0 {
		offset = e.pausedAt
	}
	e.startedAt = now.Add(-time.Duration(offset) * time.Millisecond)
	e.hasStart = true
	e.hasPause = false
	e.pausedAt = 0

	var v *voice
	v = newVoice(e.loaded.streamerAt(time.Duration(offset)*time.Millisecond), func() {
		e.sched.Post(func() { e.handleEnded(v, onEnded) })
	})
	e.active = v
	e.state = StatePlaying
	e.graph.start(v, e.gain)
	return nil
}

func (e *TransportEngine) handleEnded(v *voice, onEnded func()) {
	e.mu.Lock()
	if e.active != v || e.graph.isStopped(v) {
		e.mu.Unlock()
		return
	}
	e.active = nil
	e.pausedAt = e.sched.Now().Sub(e.startedAt).Milliseconds()
	e.hasPause = true
	e.hasStart = false
	e.state = StatePaused
	e.mu.Unlock()

	if onEnded != nil {
		onEnded()
	}
}

// Pause stops the sounding song and captures the elapsed position. It is a
// no-op unless the song is playing.
func (e *TransportEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked()
}

func (e *TransportEngine) pauseLocked() {
	e.cancelSkipLocked()
	if e.state != StatePlaying {
		return
	}
	e.stopVoiceLocked()
	e.pausedAt = e.sched.Now().Sub(e.startedAt).Milliseconds()
	e.hasPause = true
	e.hasStart = false
	e.state = StatePaused
}

// Stop silences the song and forgets the position.
func (e *TransportEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelSkipLocked()
	e.stopVoiceLocked()
	e.hasPause = false
	e.pausedAt = 0
	e.hasStart = false
	e.state = StateStopped
}

// StartRewinding pauses and moves the paused position back 1000ms every
// 100ms until StopSkipping.
func (e *TransportEngine) StartRewinding() {
	e.startSkipping(REWIND_TICK, -REWIND_STEP)
}

// StartForwarding pauses and moves the paused position forward 1000ms every
// 30ms until StopSkipping.
func (e *TransportEngine) StartForwarding() {
	e.startSkipping(FORWARD_TICK, FORWARD_STEP)
}

func (e *TransportEngine) startSkipping(tick time.Duration, step int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked()
	e.state = StateScrubbing
	e.skipTimer = e.sched.Every(tick, func() {
		e.mu.Lock()
		e.pausedAt += step
		e.hasPause = true
		e.mu.Unlock()
	})
}

// StopSkipping ends a scrub and re-derives startedAt from the paused
// position without resuming audio.
func (e *TransportEngine) StopSkipping() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelSkipLocked()
	if e.state == StatePlaying {
		return
	}
	e.startedAt = e.sched.Now().Add(-time.Duration(e.pausedAt) * time.Millisecond)
	e.hasStart = true
	if e.state == StateScrubbing {
		e.state = StatePaused
	}
}

// ClampPaused bounds the paused position to [lo, hi].
func (e *TransportEngine) ClampPaused(lo, hi time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasPause {
		return
	}
	e.pausedAt = max(lo.Milliseconds(), min(e.pausedAt, hi.Milliseconds()))
}

// ElapsedMillis returns the elapsed position in milliseconds.
func (e *TransportEngine) ElapsedMillis() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

func (e *TransportEngine) elapsedLocked() int64 {
	if e.state == StatePlaying && e.hasStart {
		return e.sched.Now().Sub(e.startedAt).Milliseconds()
	}
	if e.hasPause {
		return e.pausedAt
	}
	return 0
}

// ElapsedSeconds returns the elapsed position rounded to whole seconds.
func (e *TransportEngine) ElapsedSeconds() int {
	return roundMillis(e.ElapsedMillis())
}

func (e *TransportEngine) State() TransportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *TransportEngine) Snapshot() PlaybackSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PlaybackSnapshot{
		State:          e.state,
		ElapsedSeconds: roundMillis(e.elapsedLocked()),
		Loaded:         e.loaded != nil,
	}
}

// PlayEffect fires a one-shot effect regardless of the song state.
// Overlapping effects mix.
func (e *TransportEngine) PlayEffect(kind Effect) {
	e.mu.Lock()
	buf := e.effects.buffers[kind]
	e.mu.Unlock()
	if buf == nil {
		return
	}
	gain, ok := effectGains[kind]
	if !ok {
		gain = 1
	}
	e.graph.start(newVoice(buf.Streamer(0, buf.Len()), nil), gain)
}

// PlayEffectThrottled plays at most one effect per 20ms window and reports
// whether the call got through.
func (e *TransportEngine) PlayEffectThrottled(kind Effect) bool {
	if !e.effects.allow(e.sched.Now()) {
		return false
	}
	e.PlayEffect(kind)
	return true
}

func (e *TransportEngine) cancelSkipLocked() {
	e.skipTimer.Stop()
	e.skipTimer = nil
}

func (e *TransportEngine) stopVoiceLocked() {
	if e.active == nil {
		return
	}
	e.graph.stop(e.active)
	e.active = nil
}

// roundMillis rounds half towards +Inf, matching the display's historical
// rounding of negative scrub positions.
func roundMillis(ms int64) int {
	return int(math.Floor(float64(ms)/1000 + 0.5))
}
