// video_backend_software.go - CPU graphics device for headless runs and tests

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
)

// softTexture is an RGBA image standing in for a GPU texture.
type softTexture struct {
	img   *image.RGBA
	usage TextureUsage
	id    int
}

func (t *softTexture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *softTexture) Usage() TextureUsage { return t.usage }

// softUploadTexture is the only soft texture with an Upload method.
type softUploadTexture struct {
	*softTexture
}

func (t softUploadTexture) Upload(pix *image.RGBA) error {
	if pix.Bounds().Size() != t.img.Bounds().Size() {
		return fmt.Errorf("upload size %v does not match %v", pix.Bounds().Size(), t.img.Bounds().Size())
	}
	draw.Draw(t.img, t.img.Bounds(), pix, pix.Bounds().Min, draw.Src)
	return nil
}

func asSoftTexture(t Texture) (*softTexture, bool) {
	switch st := t.(type) {
	case *softTexture:
		return st, true
	case softUploadTexture:
		return st.softTexture, true
	}
	return nil, false
}

func (t *softTexture) String() string {
	return fmt.Sprintf("texture#%d(%s)", t.id, t.usage)
}

type softShader struct {
	src []byte
}

// DrawOp is one recorded device call.
type DrawOp struct {
	Name     string
	Target   Texture // nil is the visible surface
	Source   Texture
	Uniforms Uniforms
}

// SoftwareDevice implements GraphicsDevice on CPU images. Shader rects copy
// the sampler unmodified. With Record set, every draw call is appended to
// Ops.
type SoftwareDevice struct {
	mu      sync.Mutex
	surface *softTexture
	target  Texture
	nextID  int

	Record bool
	Ops    []DrawOp
}

func NewSoftwareDevice(width, height int) *SoftwareDevice {
	d := &SoftwareDevice{}
	d.surface = &softTexture{img: image.NewRGBA(image.Rect(0, 0, width, height)), usage: TextureUsageRenderTarget}
	return d
}

func (d *SoftwareDevice) NewTexture(width, height int, usage TextureUsage) (Texture, error) {
	if usage == TextureUsageUpload {
		return nil, ErrUploadUsage
	}
	return d.newTexture(width, height, usage)
}

func (d *SoftwareDevice) NewUploadTexture(width, height int) (UploadTexture, error) {
	t, err := d.newTexture(width, height, TextureUsageUpload)
	if err != nil {
		return nil, err
	}
	return softUploadTexture{t}, nil
}

func (d *SoftwareDevice) newTexture(width, height int, usage TextureUsage) (*softTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return &softTexture{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		usage: usage,
		id:    d.nextID,
	}, nil
}

func (d *SoftwareDevice) CompileShader(src []byte) (Shader, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("empty shader source")
	}
	return &softShader{src: src}, nil
}

func (d *SoftwareDevice) SetTarget(t Texture) {
	d.mu.Lock()
	d.target = t
	d.mu.Unlock()
	d.record(DrawOp{Name: "bind", Target: t})
}

func (d *SoftwareDevice) Target() Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

func (d *SoftwareDevice) SurfaceSize() (int, int) {
	return d.surface.Size()
}

// Surface is the visible surface image.
func (d *SoftwareDevice) Surface() *image.RGBA {
	return d.surface.img
}

func (d *SoftwareDevice) current() *softTexture {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := asSoftTexture(d.target); ok {
		return t
	}
	return d.surface
}

func (d *SoftwareDevice) Clear() {
	dst := d.current()
	clear(dst.img.Pix)
	d.record(DrawOp{Name: "clear", Target: d.Target()})
}

func (d *SoftwareDevice) DrawTexture(src Texture) {
	d.blit(src)
	d.record(DrawOp{Name: "texture", Target: d.Target(), Source: src})
}

func (d *SoftwareDevice) DrawShaderRect(sh Shader, sampler Texture, uniforms Uniforms) {
	d.blit(sampler)
	d.record(DrawOp{Name: "shader", Target: d.Target(), Source: sampler, Uniforms: uniforms})
}

// blit scales src over the current target with nearest sampling.
func (d *SoftwareDevice) blit(src Texture) {
	st, ok := asSoftTexture(src)
	if !ok {
		return
	}
	dst := d.current()
	if st == dst {
		return
	}
	sw, sh := st.Size()
	dw, dh := dst.Size()
	if sw == dw && sh == dh {
		draw.Draw(dst.img, dst.img.Bounds(), st.img, image.Point{}, draw.Over)
		return
	}
	for y := 0; y < dh; y++ {
		sy := y * sh / dh
		for x := 0; x < dw; x++ {
			sx := x * sw / dw
			dst.img.SetRGBA(x, y, st.img.RGBAAt(sx, sy))
		}
	}
}

func (d *SoftwareDevice) record(op DrawOp) {
	if !d.Record {
		return
	}
	d.mu.Lock()
	d.Ops = append(d.Ops, op)
	d.mu.Unlock()
}
