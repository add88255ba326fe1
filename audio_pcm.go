// audio_pcm.go - PCM frame encoding for the output device

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"math"
)

// encodeFloat32Frames writes stereo frames as interleaved float32 LE,
// clipping each sample to [-1, 1]. It returns the number of bytes written.
func encodeFloat32Frames(dst []byte, frames [][2]float64) int {
	n := 0
	for _, f := range frames {
		if n+OUTPUT_CHANNELS*4 > len(dst) {
			break
		}
		for ch := 0; ch < OUTPUT_CHANNELS; ch++ {
			s := f[ch]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(float32(s)))
			n += 4
		}
	}
	return n
}
