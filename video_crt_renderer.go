// video_crt_renderer.go - CRT display renderer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

/*
Per display refresh:

 1. On every RasterInterval-th frame, starting with frame 0, the current
    layout is rasterized on the CPU and uploaded to the text texture.
 2. The text texture is drawn into the offscreen target.
 3. The visible surface is cleared and covered by one CRT shader rect that
    samples the offscreen target.

The renderer pulls the layout through an accessor; nothing pushes state
into it.
*/

package main

import (
	"image"
	"time"
)

const (
	RASTER_INTERVAL     = 60
	CRT_BRIGHTNESS      = 4
	CRT_VIGNETTE_OPAC   = 1
	CRT_VIGNETTE_ROUND  = 2.0
	CRT_SCANLINE_OPAC_X = 1
	CRT_SCANLINE_OPAC_Y = 1
)

type CRTRendererOptions struct {
	Width          int
	Height         int
	Density        float64
	Pixelation     int
	BlurRadius     float64
	RasterInterval int
	FontData       []byte
	// Clock returns the time animated text is sampled at
	Clock func() time.Duration
}

type CRTRenderer struct {
	dev    GraphicsDevice
	layout func() TextLayout
	clock  func() time.Duration

	raster   *TextRasterizer
	textBuf  *image.RGBA
	textTex  UploadTexture
	target   *RenderTarget
	shader   Shader
	uniforms Uniforms

	width      int
	height     int
	interval   uint64
	frameCount uint64
}

// NewCRTRenderer allocates every render resource once. Any failure is
// returned as a *VideoError and leaves no usable renderer.
func NewCRTRenderer(dev GraphicsDevice, layout func() TextLayout, opts CRTRendererOptions) (*CRTRenderer, error) {
	if opts.Width <= 0 {
		opts.Width = DISPLAY_WIDTH
	}
	if opts.Height <= 0 {
		opts.Height = DISPLAY_HEIGHT
	}
	if opts.Pixelation <= 0 {
		opts.Pixelation = PIXELATION_LEVEL
	}
	if opts.RasterInterval <= 0 {
		opts.RasterInterval = RASTER_INTERVAL
	}
	if opts.Clock == nil {
		start := time.Now()
		opts.Clock = func() time.Duration { return time.Since(start) }
	}

	raster, err := NewTextRasterizer(opts.FontData, opts.BlurRadius, opts.Pixelation)
	if err != nil {
		return nil, err
	}
	textTex, err := dev.NewUploadTexture(opts.Width, opts.Height)
	if err != nil {
		return nil, &VideoError{Operation: "renderer setup", Details: "text texture", Err: err}
	}
	target, err := NewRenderTarget(dev, opts.Width, opts.Height, opts.Density)
	if err != nil {
		return nil, err
	}
	shader, err := dev.CompileShader([]byte(crtShaderSrc))
	if err != nil {
		return nil, &VideoError{Operation: "renderer setup", Details: "CRT shader", Err: err}
	}

	px := float32(opts.Pixelation)
	return &CRTRenderer{
		dev:     dev,
		layout:  layout,
		clock:   opts.Clock,
		raster:  raster,
		textBuf: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		textTex: textTex,
		target:  target,
		shader:  shader,
		uniforms: Uniforms{
			// height and width are swapped on purpose
			UniformScreenResolution:  []float32{float32(opts.Height) / px, float32(opts.Width) / px},
			UniformScanLineOpacity:   []float32{CRT_SCANLINE_OPAC_X, CRT_SCANLINE_OPAC_Y},
			UniformVignetteOpacity:   float32(CRT_VIGNETTE_OPAC),
			UniformBrightness:        float32(CRT_BRIGHTNESS),
			UniformVignetteRoundness: float32(CRT_VIGNETTE_ROUND),
		},
		width:    opts.Width,
		height:   opts.Height,
		interval: uint64(opts.RasterInterval),
	}, nil
}

// DrawFrame renders one display refresh.
func (r *CRTRenderer) DrawFrame() error {
	if r.frameCount%r.interval == 0 {
		if err := r.rasterize(); err != nil {
			return err
		}
	}
	r.frameCount++

	err := r.target.DrawInto(func() error {
		r.dev.Clear()
		r.dev.DrawTexture(r.textTex)
		return nil
	})
	if err != nil {
		return err
	}

	r.dev.Clear()
	r.dev.DrawShaderRect(r.shader, r.target.BindAsReadOnlySampler(), r.uniforms)
	return nil
}

func (r *CRTRenderer) rasterize() error {
	var layout TextLayout
	if r.layout != nil {
		layout = r.layout()
	}
	if err := r.raster.Rasterize(r.textBuf, layout, r.clock()); err != nil {
		return err
	}
	if err := r.textTex.Upload(r.textBuf); err != nil {
		return &VideoError{Operation: "text upload", Details: "text texture", Err: err}
	}
	return nil
}

// FrameCount is the number of frames drawn so far.
func (r *CRTRenderer) FrameCount() uint64 { return r.frameCount }

// Uniforms returns the values bound to the CRT shader each frame.
func (r *CRTRenderer) Uniforms() Uniforms { return r.uniforms }

// Size is the logical display size.
func (r *CRTRenderer) Size() (int, int) { return r.width, r.height }
