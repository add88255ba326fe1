//go:build !headless

// video_backend_ebiten.go - Ebiten graphics device and status bar

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type ebitenTexture struct {
	img   *ebiten.Image
	usage TextureUsage
	w, h  int
}

func (t *ebitenTexture) Size() (int, int)    { return t.w, t.h }
func (t *ebitenTexture) Usage() TextureUsage { return t.usage }

// ebitenUploadTexture is the only ebiten texture with an Upload method.
type ebitenUploadTexture struct {
	*ebitenTexture
}

func (t ebitenUploadTexture) Upload(pix *image.RGBA) error {
	if pix.Bounds().Dx() != t.w || pix.Bounds().Dy() != t.h {
		return fmt.Errorf("upload size %v does not match %dx%d", pix.Bounds().Size(), t.w, t.h)
	}
	t.img.WritePixels(pix.Pix)
	return nil
}

// EbitenDevice implements GraphicsDevice on ebiten images. Its visible
// surface is an offscreen image the window composites into the device
// artwork.
type EbitenDevice struct {
	surface *ebitenTexture
	target  *ebitenTexture
}

func NewEbitenDevice(width, height int) *EbitenDevice {
	return &EbitenDevice{
		surface: &ebitenTexture{img: ebiten.NewImage(width, height), usage: TextureUsageRenderTarget, w: width, h: height},
	}
}

// NewTexture allocates an image per texture. Ebiten has no depth buffers,
// so a depth texture is an ordinary image that is never drawn to.
func (d *EbitenDevice) NewTexture(width, height int, usage TextureUsage) (Texture, error) {
	if usage == TextureUsageUpload {
		return nil, ErrUploadUsage
	}
	return newEbitenTexture(width, height, usage)
}

func (d *EbitenDevice) NewUploadTexture(width, height int) (UploadTexture, error) {
	t, err := newEbitenTexture(width, height, TextureUsageUpload)
	if err != nil {
		return nil, err
	}
	return ebitenUploadTexture{t}, nil
}

func newEbitenTexture(width, height int, usage TextureUsage) (*ebitenTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	return &ebitenTexture{img: ebiten.NewImage(width, height), usage: usage, w: width, h: height}, nil
}

func asEbitenTexture(t Texture) (*ebitenTexture, bool) {
	switch et := t.(type) {
	case *ebitenTexture:
		return et, true
	case ebitenUploadTexture:
		return et.ebitenTexture, true
	}
	return nil, false
}

func (d *EbitenDevice) CompileShader(src []byte) (Shader, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *EbitenDevice) SetTarget(t Texture) {
	et, _ := asEbitenTexture(t)
	d.target = et
}

func (d *EbitenDevice) Target() Texture {
	if d.target == nil {
		return nil
	}
	return d.target
}

func (d *EbitenDevice) SurfaceSize() (int, int) {
	return d.surface.Size()
}

// Surface is the image the renderer's visible output lands in.
func (d *EbitenDevice) Surface() *ebiten.Image {
	return d.surface.img
}

func (d *EbitenDevice) current() *ebitenTexture {
	if d.target != nil {
		return d.target
	}
	return d.surface
}

func (d *EbitenDevice) Clear() {
	d.current().img.Clear()
}

func (d *EbitenDevice) DrawTexture(src Texture) {
	st, ok := asEbitenTexture(src)
	if !ok {
		return
	}
	dst := d.current()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.w)/float64(st.w), float64(dst.h)/float64(st.h))
	op.Filter = ebiten.FilterNearest
	dst.img.DrawImage(st.img, op)
}

func (d *EbitenDevice) DrawShaderRect(sh Shader, sampler Texture, uniforms Uniforms) {
	shader, ok := sh.(*ebiten.Shader)
	if !ok {
		return
	}
	dst := d.current()
	op := &ebiten.DrawRectShaderOptions{Uniforms: uniforms}
	if st, ok := asEbitenTexture(sampler); ok {
		op.Images[0] = st.img
	}
	dst.img.DrawRectShader(dst.w, dst.h, shader, op)
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func drawRuntimeStatusBar(screen *ebiten.Image, s playerStatusSnapshot) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	barHeight := 31
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	drawStatusLine(screen, 6, y+13, "TRANSPORT", []statusToken{
		{name: "STOP", enabled: s.state == StateStopped},
		{name: "|", enabled: false},
		{name: "PLAY", enabled: s.state == StatePlaying},
		{name: "|", enabled: false},
		{name: "PAUSE", enabled: s.state == StatePaused},
		{name: "|", enabled: false},
		{name: "SCRUB", enabled: s.state == StateScrubbing},
		{name: fmt.Sprintf("  %s  voices %d", FormatDuration(s.elapsed), s.voices), enabled: false},
	})
	cart := "-"
	if s.cartridge != "" {
		cart = fmt.Sprintf("%s  %d/%d", s.cartridge, s.track+1, s.trackCount)
	}
	drawStatusLine(screen, 6, y+26, "DEVICE   ", []statusToken{
		{name: "MOUNTED", enabled: s.mounted},
		{name: "|", enabled: false},
		{name: "SETTLED", enabled: s.mounted && s.settled},
		{name: "|", enabled: false},
		{name: "LOADING", enabled: s.mounted && s.loading},
		{name: "  " + cart, enabled: false},
	})

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F11 Fullscreen  F12 Status Bar  Ctrl+C Copy"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(w-legendW-6, 6)
	legendOpts := &ebiten.DrawImageOptions{}
	legendOpts.GeoM.Translate(float64(legendX), float64(y+26))
	legendOpts.ColorScale.ScaleWithColor(legendColor)
	text.DrawWithOptions(screen, legend, basicfont.Face7x13, legendOpts)
}
