// audio_graph.go - Mixer graph feeding the audio output

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

const (
	SAMPLE_RATE      = 44100
	SONG_GAIN        = 0.1
	OUTPUT_CHANNELS  = 2
	RESAMPLE_QUALITY = 4
)

// AudioGraph mixes every sounding voice into one stereo stream. The output
// backend pulls from it on its own goroutine; all mutation goes through the
// graph lock, like speaker.Lock in beep's speaker package.
type AudioGraph struct {
	mu     sync.Mutex
	mixer  beep.Mixer
	format beep.Format
}

func NewAudioGraph(sampleRate int) *AudioGraph {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	return &AudioGraph{
		format: beep.Format{
			SampleRate:  beep.SampleRate(sampleRate),
			NumChannels: OUTPUT_CHANNELS,
			Precision:   2,
		},
	}
}

func (g *AudioGraph) Format() beep.Format {
	return g.format
}

// Stream fills samples with the mix, padding with silence. The graph never
// drains, so the output device keeps running between songs.
func (g *AudioGraph) Stream(samples [][2]float64) (int, bool) {
	g.mu.Lock()
	n, ok := g.mixer.Stream(samples)
	g.mu.Unlock()
	if !ok {
		n = 0
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (g *AudioGraph) Err() error {
	return nil
}

// Voices returns the number of streamers currently mixed.
func (g *AudioGraph) Voices() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mixer.Len()
}

// start attaches a voice to the mix at the given gain.
func (g *AudioGraph) start(v *voice, gain float64) {
	var s beep.Streamer = v
	if gain != 1 {
		s = &effects.Gain{Streamer: v, Gain: gain - 1}
	}
	g.mu.Lock()
	g.mixer.Add(s)
	g.mu.Unlock()
}

// stop silences a voice. The mixer drops it on the next pull.
func (g *AudioGraph) stop(v *voice) {
	if v == nil {
		return
	}
	g.mu.Lock()
	v.stopped = true
	g.mu.Unlock()
}

func (g *AudioGraph) isStopped(v *voice) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return v.stopped
}

// voice is one sounding source. It plays src once; onEnd runs on the audio
// goroutine when src drains naturally and never after stop.
type voice struct {
	src     beep.Streamer
	stopped bool
	ended   bool
	onEnd   func()
}

func newVoice(src beep.Streamer, onEnd func()) *voice {
	return &voice{src: src, onEnd: onEnd}
}

// Stream is called with the graph lock held.
func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.stopped || v.ended {
		return 0, false
	}
	n, ok := v.src.Stream(samples)
	if !ok || n < len(samples) {
		v.ended = true
		if v.onEnd != nil {
			v.onEnd()
		}
		if n == 0 {
			return 0, false
		}
	}
	return n, true
}

func (v *voice) Err() error {
	return v.src.Err()
}
