// player.go - Player assembly shared by the window and terminal shells

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Player owns every long-lived object of a session. Tick drives it from the
// frame loop.
type Player struct {
	cfg    *Config
	sched  *Scheduler
	graph  *AudioGraph
	engine *TransportEngine
	shelf  *CartridgeShelf
	device *Device
	output *OtoPlayer
	log    *slog.Logger

	epoch  time.Time
	status playerStatusStore
}

func NewPlayer(cfg *Config, clock Clock) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched := NewScheduler(clock)
	graph := NewAudioGraph(cfg.Audio.SampleRate)
	engine := NewTransportEngine(graph, sched, TransportOptions{
		SongGain: cfg.Audio.SongGain,
		Fetcher:  &AssetFetcher{},
	})

	p := &Player{
		cfg:    cfg,
		sched:  sched,
		graph:  graph,
		engine: engine,
		shelf:  NewCartridgeShelf(cfg.Shelf.Directory, sched),
		device: NewDevice(sched, engine),
		log:    logComponent("player"),
		epoch:  sched.Now(),
	}
	return p, nil
}

// Start opens the audio output, loads effect assets and the shelf, and
// starts watching the shelf when configured.
func (p *Player) Start(ctx context.Context) error {
	out, err := NewOtoPlayer(p.cfg.Audio.SampleRate)
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	out.SetupPlayer(p.graph)
	out.Start()
	p.output = out

	for kind, path := range map[Effect]string{
		EffectButtonPress: p.cfg.Audio.ButtonPress,
		EffectButtonUp:    p.cfg.Audio.ButtonUp,
	} {
		if path == "" {
			continue
		}
		if err := p.engine.LoadEffect(ctx, kind, path); err != nil {
			p.log.Warn("effect load failed, using synthesised blip", "effect", kind, "err", err)
		}
	}

	if err := p.shelf.Reload(); err != nil {
		return fmt.Errorf("shelf %s: %w", p.cfg.Shelf.Directory, err)
	}
	if p.cfg.Shelf.Watch {
		if err := p.shelf.Watch(ctx); err != nil {
			p.log.Warn("shelf watch unavailable", "err", err)
		}
	}
	p.updateStatus()
	return nil
}

// Close silences and releases the audio output.
func (p *Player) Close() {
	p.engine.Stop()
	if p.output != nil {
		p.output.Close()
	}
}

// Tick runs due timers and posted callbacks, then refreshes the status.
func (p *Player) Tick() {
	p.sched.RunPending()
	p.updateStatus()
}

// Elapsed is the session time animated text is sampled at.
func (p *Player) Elapsed() time.Duration {
	return p.sched.Now().Sub(p.epoch)
}

// Texts is the layout accessor handed to renderers.
func (p *Player) Texts() TextLayout {
	return p.device.Texts()
}

// InsertSelected mounts the cartridge selected on the shelf.
func (p *Player) InsertSelected() {
	if c := p.shelf.Selected(); c != nil {
		p.device.Insert(c)
	}
}

func (p *Player) updateStatus() {
	snap := p.engine.Snapshot()
	s := playerStatusSnapshot{
		state:     snap.State,
		mounted:   p.device.Mounted(),
		settled:   p.device.Settled(),
		loading:   p.device.Loading(),
		skipping:  p.device.Skipping(),
		track:     p.device.TrackIndex(),
		elapsed:   snap.ElapsedSeconds,
		voices:    p.graph.Voices(),
		shelfSlot: p.shelf.Slot(),
		shelfSize: len(p.shelf.Cartridges()),
	}
	if c := p.device.Cartridge(); c != nil {
		s.cartridge = c.Name
		s.trackCount = len(c.Tracks)
	}
	p.status.set(s)
}

// HandleRemote applies a request from another invocation. It runs on the
// IPC goroutine; device changes are posted to the scheduler.
func (p *Player) HandleRemote(req ipcRequest) error {
	switch req.Cmd {
	case ipcCmdInsert:
		cart, err := LoadCartridge(req.Path)
		if err != nil {
			return err
		}
		p.sched.Post(func() {
			p.device.EjectCartridge()
			p.device.Insert(cart)
		})
	case ipcCmdEject:
		p.sched.Post(p.device.EjectCartridge)
	case ipcCmdPlay:
		p.sched.Post(p.device.PlayPause)
	default:
		return fmt.Errorf("unknown command %q", req.Cmd)
	}
	return nil
}
