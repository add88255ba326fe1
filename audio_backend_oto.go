//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

type OtoPlayer struct {
	ctx      *oto.Context
	player   *oto.Player
	graph    atomic.Pointer[AudioGraph] // Atomic for lock-free Read()
	frameBuf [][2]float64               // Pre-allocated mix buffer
	started  bool
	mutex    sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: OUTPUT_CHANNELS,
		Format:       oto.FormatFloat32LE,
		BufferSize:   40 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{
		ctx:     ctx,
		started: false,
	}, nil
}

func (op *OtoPlayer) SetupPlayer(graph *AudioGraph) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.graph.Store(graph)
	op.player = op.ctx.NewPlayer(op)
	// Typical oto reads are 4096 bytes = 512 stereo float32 frames
	op.frameBuf = make([][2]float64, 512)
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load graph pointer atomically - no lock needed for the hot path
	graph := op.graph.Load()
	if graph == nil {
		clear(p)
		return len(p), nil
	}

	frames := len(p) / (OUTPUT_CHANNELS * 4)
	if len(op.frameBuf) < frames {
		op.frameBuf = make([][2]float64, frames)
	}
	buf := op.frameBuf[:frames]
	graph.Stream(buf)
	encodeFloat32Frames(p, buf)
	clear(p[frames*OUTPUT_CHANNELS*4:])
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}
