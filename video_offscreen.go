// video_offscreen.go - Offscreen color/depth render target

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math"
)

// RenderTarget is an offscreen destination with one color and one depth
// attachment, both sized canvas × density. Its color texture has no
// upload path and is only ever written by draw calls.
type RenderTarget struct {
	dev     GraphicsDevice
	color   Texture
	depth   Texture
	width   int
	height  int
	density float64
}

func NewRenderTarget(dev GraphicsDevice, width, height int, density float64) (*RenderTarget, error) {
	if density <= 0 {
		density = 1
	}
	w := int(math.Round(float64(width) * density))
	h := int(math.Round(float64(height) * density))
	if w <= 0 || h <= 0 {
		return nil, &VideoError{
			Operation: "render target creation",
			Details:   fmt.Sprintf("invalid size %dx%d", w, h),
		}
	}

	color, err := dev.NewTexture(w, h, TextureUsageRenderTarget)
	if err != nil {
		return nil, &VideoError{Operation: "render target creation", Details: "color attachment", Err: err}
	}
	depth, err := dev.NewTexture(w, h, TextureUsageDepth)
	if err != nil {
		return nil, &VideoError{Operation: "render target creation", Details: "depth attachment", Err: err}
	}
	return &RenderTarget{
		dev:     dev,
		color:   color,
		depth:   depth,
		width:   width,
		height:  height,
		density: density,
	}, nil
}

// Size returns the attachment size in device pixels.
func (r *RenderTarget) Size() (int, int) {
	return r.color.Size()
}

// DrawInto runs fn with the target bound for drawing. The visible surface
// is bound again on return, also when fn panics.
func (r *RenderTarget) DrawInto(fn func() error) error {
	r.BindAsWriteTarget()
	defer r.dev.SetTarget(nil)
	return fn()
}

// BindAsWriteTarget directs subsequent draw calls into the target.
func (r *RenderTarget) BindAsWriteTarget() {
	r.dev.SetTarget(r.color)
}

// BindAsReadOnlySampler returns the color attachment for use as a shader
// input.
func (r *RenderTarget) BindAsReadOnlySampler() Texture {
	return r.color
}
