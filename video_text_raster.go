// video_text_raster.go - CPU rasterizer for the CRT display text

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	PIXELATION_LEVEL = 6
	TEXT_BLUR_RADIUS = 24
)

var (
	textGlowColor = color.RGBA{191, 64, 255, 255}
	textColor     = color.RGBA{191, 95, 255, 255}
	// pixelOffset is where each pixelation block is painted relative to
	// the pixel it samples
	pixelOffset = image.Point{X: -1, Y: -3}
)

// TextRasterizer draws a TextLayout into a CPU pixel buffer with the glow,
// blur and pixelation passes of the display.
type TextRasterizer struct {
	font       *opentype.Font
	faces      map[float64]font.Face
	blurRadius float64
	pixelation int
	offset     image.Point
}

// LoadFontData reads a TTF/OTF file. An empty path selects Go Mono.
func LoadFontData(path string) ([]byte, error) {
	if path == "" {
		return gomono.TTF, nil
	}
	return os.ReadFile(path)
}

func NewTextRasterizer(fontData []byte, blurRadius float64, pixelation int) (*TextRasterizer, error) {
	if len(fontData) == 0 {
		fontData = gomono.TTF
	}
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, &VideoError{Operation: "font load", Details: "parse", Err: err}
	}
	if pixelation <= 0 {
		pixelation = PIXELATION_LEVEL
	}
	return &TextRasterizer{
		font:       f,
		faces:      make(map[float64]font.Face),
		blurRadius: blurRadius,
		pixelation: pixelation,
		offset:     pixelOffset,
	}, nil
}

func (r *TextRasterizer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// Rasterize redraws dst from layout as seen at time t.
func (r *TextRasterizer) Rasterize(dst *image.RGBA, layout TextLayout, t time.Duration) error {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if err := r.drawLayout(dst, layout, t, textGlowColor); err != nil {
		return err
	}
	if r.blurRadius > 0 {
		blurred := imaging.Blur(dst, r.blurRadius/3)
		draw.Draw(dst, dst.Bounds(), blurred, blurred.Bounds().Min, draw.Src)
	}
	if err := r.drawLayout(dst, layout, t, textColor); err != nil {
		return err
	}
	pixelate(dst, r.pixelation, r.offset)
	return nil
}

func (r *TextRasterizer) drawLayout(dst *image.RGBA, layout TextLayout, t time.Duration, c color.Color) error {
	for _, entry := range layout {
		s, ok := entry.TextAt(t)
		if !ok || s == "" {
			continue
		}
		face, err := r.face(entry.Size)
		if err != nil {
			return &VideoError{Operation: "text raster", Details: "font face", Err: err}
		}
		x := fixed.Int26_6(entry.X * 64)
		if entry.Align == AlignRight {
			x -= font.MeasureString(face, s)
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.Point26_6{X: x, Y: fixed.Int26_6(entry.Y * 64)},
		}
		d.DrawString(s)
	}
	return nil
}

// pixelate re-quantizes img into level×level blocks. Each block samples the
// pixel at its origin and is painted as a solid square shifted by offset.
// Samples are taken before any square is painted.
func pixelate(img *image.RGBA, level int, offset image.Point) {
	if level <= 1 {
		return
	}
	src := image.NewRGBA(img.Bounds())
	copy(src.Pix, img.Pix)

	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x += level {
		for y := b.Min.Y; y < b.Max.Y; y += level {
			c := src.RGBAAt(x, y)
			sq := image.Rect(x, y, x+level, y+level).Add(offset).Intersect(b)
			draw.Draw(img, sq, image.NewUniform(c), image.Point{}, draw.Over)
		}
	}
}
