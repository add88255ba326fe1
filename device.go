// device.go - Cartridge player device state machine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

/*
The device wires the buttons to the transport and derives the display text.
Everything here runs on the scheduler goroutine; only song decoding leaves
it, and its completion is posted back.

  insert   mounted, settling for SETTLE_DELAY, loading track 0
  eject    unmounted, paused, loading, track 0
  prev     stop now, next tick step back and load, resume if playing
  next     stop now, next tick step forward and load, resume if playing
  hold     scrub back (prev) or forward (next) until released
*/

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const SETTLE_DELAY = 600 * time.Millisecond

// Transport is the engine surface the device drives.
type Transport interface {
	LoadSong(ctx context.Context, url string) error
	Play(onEnded func()) error
	Pause()
	Stop()
	StartRewinding()
	StartForwarding()
	StopSkipping()
	ClampPaused(lo, hi time.Duration)
	Snapshot() PlaybackSnapshot
	PlayEffectThrottled(kind Effect) bool
}

type Device struct {
	sched  *Scheduler
	engine Transport
	log    *slog.Logger

	Play  *Button
	Prev  *Button
	Next  *Button
	Eject *Button

	cart        *Cartridge
	mounted     bool
	settled     bool
	settleTimer *Timer
	playing     bool
	skipping    bool
	loading     bool
	switching   bool
	index       int

	loadCancel context.CancelFunc
	loadSeq    uint64

	// OnChange runs after any state change that alters the display
	OnChange func()
}

func NewDevice(sched *Scheduler, engine Transport) *Device {
	d := &Device{
		sched:   sched,
		engine:  engine,
		log:     logComponent("device"),
		settled: true,
		loading: true,
	}
	d.Play = NewButton("play", sched, engine)
	d.Prev = NewButton("prev", sched, engine)
	d.Next = NewButton("next", sched, engine)
	d.Eject = NewButton("eject", sched, engine)

	d.Play.OnClick = d.PlayPause
	d.Prev.OnClick = d.PrevTrack
	d.Prev.OnHold = d.rewindHold
	d.Prev.OnRelease = d.skipRelease
	d.Next.OnClick = d.NextTrack
	d.Next.OnHold = d.forwardHold
	d.Next.OnRelease = d.skipRelease
	d.Eject.OnClick = d.EjectCartridge
	return d
}

func (d *Device) Mounted() bool         { return d.mounted }
func (d *Device) Settled() bool         { return d.settled }
func (d *Device) Playing() bool         { return d.playing }
func (d *Device) Skipping() bool        { return d.skipping }
func (d *Device) Loading() bool         { return d.loading }
func (d *Device) TrackIndex() int       { return d.index }
func (d *Device) Cartridge() *Cartridge { return d.cart }

func (d *Device) changed() {
	if d.OnChange != nil {
		d.OnChange()
	}
}

// Insert mounts cart and starts loading its first track. It is a no-op
// while a cartridge is mounted.
func (d *Device) Insert(cart *Cartridge) {
	if d.mounted || cart == nil || len(cart.Tracks) == 0 {
		return
	}
	d.cart = cart
	d.mounted = true
	d.index = 0
	d.loading = true
	d.settle()
	d.log.Info("cartridge inserted", "cartridge", cart.Name, "tracks", len(cart.Tracks))
	d.loadTrack(0, func() {
		d.loading = false
		if d.playing {
			d.startPlayback()
		}
	})
	d.changed()
}

// EjectCartridge unmounts the cartridge and resets the device.
func (d *Device) EjectCartridge() {
	if !d.mounted {
		return
	}
	d.cancelLoad()
	for _, b := range []*Button{d.Play, d.Prev, d.Next} {
		b.CancelTimers()
	}
	d.engine.Stop()
	d.mounted = false
	d.playing = false
	d.skipping = false
	d.loading = true
	d.switching = false
	d.index = 0
	d.settle()
	d.log.Info("cartridge ejected")
	d.changed()
}

// settle runs the insert or eject animation.
func (d *Device) settle() {
	d.settled = false
	d.settleTimer.Stop()
	d.settleTimer = d.sched.AfterFunc(SETTLE_DELAY, func() {
		d.settleTimer = nil
		d.settled = true
		d.changed()
	})
}

// busy reports a song load in flight. The engine still holds the previous
// song until it lands.
func (d *Device) busy() bool {
	return d.loading || d.switching
}

// PlayPause toggles playback. Without a settled cartridge it forces pause.
// While a track is loading only the intent changes; playback starts when
// the load completes.
func (d *Device) PlayPause() {
	if !d.mounted || !d.settled {
		d.playing = false
		d.engine.Pause()
		d.changed()
		return
	}
	if d.playing {
		d.engine.Pause()
	} else if !d.busy() {
		d.startPlayback()
	}
	d.playing = !d.playing
	d.changed()
}

func (d *Device) startPlayback() {
	if err := d.engine.Play(d.playNext); err != nil {
		d.log.Warn("play failed", "track", d.index, "err", err)
	}
}

// playNext is the end-of-song callback. It advances and keeps playing,
// stopping after the last track.
func (d *Device) playNext() {
	if d.cart == nil {
		return
	}
	if d.index >= len(d.cart.Tracks)-1 {
		d.engine.Stop()
		d.playing = false
		d.changed()
		return
	}
	d.index++
	d.switching = true
	d.loadTrack(d.index, func() {
		d.switching = false
		d.sched.Post(d.resume)
	})
	d.changed()
}

// PrevTrack steps back one track.
func (d *Device) PrevTrack() {
	d.changeTrack(-1)
}

// NextTrack steps forward one track.
func (d *Device) NextTrack() {
	d.changeTrack(1)
}

func (d *Device) changeTrack(step int) {
	if !d.mounted || d.cart == nil {
		return
	}
	d.engine.Stop()
	d.switching = true
	d.changed()
	d.sched.Post(func() {
		if !d.mounted || d.cart == nil {
			return
		}
		d.index = max(0, min(d.index+step, len(d.cart.Tracks)-1))
		d.loadTrack(d.index, func() {
			d.switching = false
			d.sched.Post(d.resume)
		})
		d.changed()
	})
}

// resume restarts playback if it is still wanted when the post runs.
func (d *Device) resume() {
	if d.playing && d.mounted && !d.busy() {
		d.startPlayback()
		d.changed()
	}
}

func (d *Device) rewindHold() {
	if !d.mounted || d.busy() {
		return
	}
	d.skipping = true
	d.engine.StartRewinding()
	d.changed()
}

func (d *Device) forwardHold() {
	if !d.mounted || d.busy() {
		return
	}
	d.skipping = true
	d.engine.StartForwarding()
	d.changed()
}

// skipRelease ends a scrub, clamps the position to the track and resumes
// if the device was playing.
func (d *Device) skipRelease() {
	if !d.skipping {
		return
	}
	d.skipping = false
	d.engine.StopSkipping()
	if d.cart != nil {
		if t, err := d.cart.Track(d.index); err == nil {
			d.engine.ClampPaused(0, time.Duration(t.Duration)*time.Second)
		}
	}
	if d.playing && d.mounted && !d.busy() {
		d.startPlayback()
	}
	d.changed()
}

// loadTrack decodes track i off the scheduler goroutine. A newer load
// cancels an older one; done runs on the scheduler goroutine only for the
// latest successful load. Failures are logged and leave the device loading
// until eject or another track change.
func (d *Device) loadTrack(i int, done func()) {
	d.cancelLoad()
	url, err := d.cart.TrackURL(i)
	if err != nil {
		d.log.Error("track lookup failed", "track", i, "err", err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.loadCancel = cancel
	d.loadSeq++
	seq := d.loadSeq

	go func() {
		err := d.engine.LoadSong(ctx, url)
		d.sched.Post(func() {
			if seq != d.loadSeq {
				return
			}
			d.loadCancel = nil
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					d.log.Error("song load failed", "track", i, "url", url, "err", err)
				}
				return
			}
			d.log.Debug("track ready", "track", i, "url", url)
			if done != nil {
				done()
			}
			d.changed()
		})
	}()
}

func (d *Device) cancelLoad() {
	if d.loadCancel != nil {
		d.loadCancel()
		d.loadCancel = nil
	}
	d.loadSeq++
}

// Mode is the display screen for the current state.
func (d *Device) Mode() LayoutMode {
	if !d.mounted || !d.settled {
		return LayoutUnmounted
	}
	if d.loading {
		return LayoutLoading
	}
	return LayoutLoaded
}

// Texts computes the display layout for the current state.
func (d *Device) Texts() TextLayout {
	snap := d.engine.Snapshot()
	snap.Resume = d.playing
	count := 0
	if d.cart != nil {
		count = len(d.cart.Tracks)
	}
	return ComputeLayout(d.Mode(), snap, d.index, count, d.cart)
}

// NowPlaying is a one-line description of the current track.
func (d *Device) NowPlaying() string {
	if d.cart == nil || !d.mounted {
		return ""
	}
	t, err := d.cart.Track(d.index)
	if err != nil {
		return ""
	}
	return d.cart.Name + " — " + t.Name
}
