package main

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeFloat32Frames(t *testing.T) {
	frames := [][2]float64{{0.5, -0.25}, {2, -3}}
	buf := make([]byte, 16)
	if n := encodeFloat32Frames(buf, frames); n != 16 {
		t.Fatalf("wrote %d bytes, want 16", n)
	}
	want := []float32{0.5, -0.25, 1, -1}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != w {
			t.Fatalf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestEncodeFloat32FramesShortBuffer(t *testing.T) {
	buf := make([]byte, 12)
	if n := encodeFloat32Frames(buf, [][2]float64{{0.1, 0.1}, {0.2, 0.2}}); n != 8 {
		t.Fatalf("wrote %d bytes, want 8", n)
	}
}
