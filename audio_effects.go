// audio_effects.go - One-shot UI sound effects

package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"golang.org/x/time/rate"
)

// Effect identifies a UI sound.
type Effect int

const (
	EffectButtonPress Effect = iota
	EffectButtonUp
)

const EFFECT_THROTTLE = 20 * time.Millisecond

// effectGains are the per-effect output levels.
var effectGains = map[Effect]float64{
	EffectButtonPress: 0.3,
	EffectButtonUp:    0.6,
}

func (e Effect) String() string {
	switch e {
	case EffectButtonPress:
		return "ButtonPress"
	case EffectButtonUp:
		return "ButtonUp"
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// effectBank holds the decoded effect buffers.
type effectBank struct {
	buffers map[Effect]*beep.Buffer
	limiter *rate.Limiter
}

func newEffectBank(format beep.Format) *effectBank {
	return &effectBank{
		buffers: map[Effect]*beep.Buffer{
			EffectButtonPress: synthBlip(format, 1800, 25*time.Millisecond),
			EffectButtonUp:    synthBlip(format, 1200, 35*time.Millisecond),
		},
		limiter: rate.NewLimiter(rate.Every(EFFECT_THROTTLE), 1),
	}
}

// load replaces an effect's synthesised blip with a decoded asset.
func (b *effectBank) load(ctx context.Context, fetcher *AssetFetcher, e Effect, url string, format beep.Format) error {
	song, err := DecodeSong(ctx, fetcher, url, format)
	if err != nil {
		return fmt.Errorf("effect %s: %w", e, err)
	}
	b.buffers[e] = song.Buffer
	return nil
}

// allow applies the throttle window at time now. Calls inside the window are
// dropped, not queued.
func (b *effectBank) allow(now time.Time) bool {
	return b.limiter.AllowN(now, 1)
}

// synthBlip renders a short decaying click used when no effect asset is
// configured.
func synthBlip(format beep.Format, freq float64, length time.Duration) *beep.Buffer {
	n := format.SampleRate.N(length)
	rateHz := float64(format.SampleRate)
	i := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= n {
			return 0, false
		}
		c := 0
		for ; c < len(samples) && i < n; c++ {
			t := float64(i) / rateHz
			env := math.Exp(-t * 160)
			v := math.Sin(2*math.Pi*freq*t) * env
			samples[c] = [2]float64{v, v}
			i++
		}
		return c, true
	})
	buf := beep.NewBuffer(format)
	buf.Append(gen)
	return buf
}
