//go:build !headless

// shell_ebiten.go - Desktop window shell for the cartridge player

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

var (
	colorBackground = color.RGBA{24, 22, 30, 255}
	colorDevice     = color.RGBA{52, 48, 60, 255}
	colorBezel      = color.RGBA{12, 10, 16, 255}
	colorButton     = color.RGBA{88, 82, 100, 255}
	colorPressed    = color.RGBA{60, 55, 70, 255}
	colorCartridge  = color.RGBA{150, 60, 210, 255}
	colorLabel      = color.RGBA{210, 205, 220, 255}
	colorDisabled   = color.RGBA{90, 88, 96, 255}
)

func init() {
	compiledFeatures = append(compiledFeatures, "shell:ebiten")
}

// PlayerWindow is the ebiten game hosting the device artwork, the CRT
// display and the cartridge shelf.
type PlayerWindow struct {
	ctx      context.Context
	player   *Player
	cfg      *Config
	device   *EbitenDevice
	renderer *CRTRenderer

	fullscreen    bool
	showStatusBar bool
	active        *Button
	activeCtl     windowControl

	clipboardOnce sync.Once
	clipboardOK   bool
}

// runWindow opens the window and blocks until it closes or ctx ends.
func runWindow(ctx context.Context, p *Player, cfg *Config) error {
	dc := cfg.WindowDisplay()
	w := &PlayerWindow{
		ctx:           ctx,
		player:        p,
		cfg:           cfg,
		fullscreen:    dc.Fullscreen,
		showStatusBar: true,
	}
	ebiten.SetWindowSize(int(float64(dc.Width)*dc.Scale), int(float64(dc.Height)*dc.Scale))
	ebiten.SetWindowTitle(dc.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(dc.VSync)
	ebiten.SetFullscreen(w.fullscreen)
	return ebiten.RunGame(w)
}

// setup allocates the display resources on the first frame. A failure is
// fatal for the window.
func (w *PlayerWindow) setup() error {
	density := w.cfg.Display.Density
	width, height := w.cfg.Display.Width, w.cfg.Display.Height
	fontData, err := LoadFontData(w.cfg.Display.Font)
	if err != nil {
		return &VideoError{Operation: "font load", Details: w.cfg.Display.Font, Err: err}
	}
	w.device = NewEbitenDevice(int(float64(width)*density), int(float64(height)*density))
	w.renderer, err = NewCRTRenderer(w.device, w.player.Texts, CRTRendererOptions{
		Width:          width,
		Height:         height,
		Density:        density,
		Pixelation:     w.cfg.Display.Pixelation,
		BlurRadius:     w.cfg.Display.BlurRadius,
		RasterInterval: w.cfg.Display.RasterInterval,
		FontData:       fontData,
		Clock:          w.player.Elapsed,
	})
	return err
}

func (w *PlayerWindow) Update() error {
	if ebiten.IsWindowBeingClosed() || w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if w.renderer == nil {
		if err := w.setup(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		w.fullscreen = !w.fullscreen
		ebiten.SetFullscreen(w.fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		w.showStatusBar = !w.showStatusBar
	}
	w.handleKeyboard()
	w.handlePointer()
	w.player.Tick()
	return nil
}

func (w *PlayerWindow) buttonFor(ctl windowControl) *Button {
	d := w.player.device
	switch ctl {
	case controlPlay:
		return d.Play
	case controlPrev:
		return d.Prev
	case controlNext:
		return d.Next
	case controlEject:
		return d.Eject
	}
	return nil
}

func (w *PlayerWindow) handlePointer() {
	x, y := ebiten.CursorPosition()
	p := image.Pt(x, y)
	mounted := w.player.device.Mounted()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		ctl := controlAt(p, mounted)
		switch ctl {
		case controlInsert:
			w.player.InsertSelected()
		case controlShelfPrev:
			w.player.shelf.Prev(mounted)
		case controlShelfNext:
			w.player.shelf.Next(mounted)
		default:
			if b := w.buttonFor(ctl); b != nil {
				b.Press()
				w.active = b
				w.activeCtl = ctl
			}
		}
	}

	if w.active == nil {
		return
	}
	inside := controlAt(p, mounted) == w.activeCtl
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		w.active.PointerUp(inside)
		w.active = nil
		return
	}
	if !inside && w.active.Pressed() {
		// leaving the button releases it; a hold in progress ends on mouse up
		w.active.Release()
	}
}

func (w *PlayerWindow) handleKeyboard() {
	d := w.player.device
	keys := []struct {
		key ebiten.Key
		btn *Button
	}{
		{ebiten.KeySpace, d.Play},
		{ebiten.KeyArrowLeft, d.Prev},
		{ebiten.KeyArrowRight, d.Next},
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.key) {
			k.btn.Press()
		}
		if inpututil.IsKeyJustReleased(k.key) {
			k.btn.PointerUp(true)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) && d.Mounted() {
		d.Eject.Press()
		d.Eject.PointerUp(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && !d.Mounted() {
		w.player.InsertSelected()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		w.player.shelf.Prev(d.Mounted())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		w.player.shelf.Next(d.Mounted())
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.copyNowPlaying()
	}
}

func (w *PlayerWindow) copyNowPlaying() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		return
	}
	if s := w.player.device.NowPlaying(); s != "" {
		clipboard.Write(clipboard.FmtText, []byte(s))
	}
}

func (w *PlayerWindow) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	w.drawShelf(screen)
	w.drawDevice(screen)

	if w.renderer != nil {
		if err := w.renderer.DrawFrame(); err != nil {
			w.player.log.Error("display frame failed", "err", err)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(1/w.cfg.Display.Density, 1/w.cfg.Display.Density)
		op.GeoM.Scale(float64(rectDisplay.Dx())/float64(w.cfg.Display.Width), float64(rectDisplay.Dy())/float64(w.cfg.Display.Height))
		op.GeoM.Translate(float64(rectDisplay.Min.X), float64(rectDisplay.Min.Y))
		screen.DrawImage(w.device.Surface(), op)
	}

	if w.showStatusBar {
		drawRuntimeStatusBar(screen, w.player.status.snapshot())
	}
}

func (w *PlayerWindow) Layout(_, _ int) (int, int) {
	return WINDOW_WIDTH, WINDOW_HEIGHT
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, true)
}

func drawLabel(dst *ebiten.Image, s string, x, y int, scale float64, c color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.DrawWithOptions(dst, s, basicfont.Face7x13, op)
}

func (w *PlayerWindow) drawDevice(screen *ebiten.Image) {
	d := w.player.device
	fillRect(screen, rectDevice, colorDevice)
	fillRect(screen, rectDisplay.Inset(-14), colorBezel)

	for _, b := range []struct {
		c   circle
		btn *Button
		tag string
	}{
		{circlePlay, d.Play, "PLAY"},
		{circlePrev, d.Prev, "<<"},
		{circleNext, d.Next, ">>"},
	} {
		c := colorButton
		if b.btn.Pressed() {
			c = colorPressed
		}
		vector.DrawFilledCircle(screen, float32(b.c.center.X), float32(b.c.center.Y), float32(b.c.radius), c, true)
		drawLabel(screen, b.tag, b.c.center.X-len(b.tag)*7, b.c.center.Y-8, 2, colorLabel)
	}
	if d.Mounted() {
		c := colorButton
		if d.Eject.Pressed() {
			c = colorPressed
		}
		fillRect(screen, rectEject, c)
		drawLabel(screen, "EJECT", rectEject.Min.X+65, rectEject.Min.Y+14, 2, colorLabel)
	}
}

func (w *PlayerWindow) drawShelf(screen *ebiten.Image) {
	d := w.player.device
	shelf := w.player.shelf
	mounted := d.Mounted()

	prevColor, nextColor := colorLabel, colorLabel
	if !shelf.CanPrev(mounted) {
		prevColor = colorDisabled
	}
	if !shelf.CanNext(mounted) {
		nextColor = colorDisabled
	}
	drawLabel(screen, "<", rectShelfPrev.Min.X+20, rectShelfPrev.Min.Y+20, 4, prevColor)
	drawLabel(screen, ">", rectShelfNext.Min.X+20, rectShelfNext.Min.Y+20, 4, nextColor)

	cart := shelf.Selected()
	placeholder := shelf.Slot() >= len(shelf.Cartridges())
	body := rectCartridge
	switch {
	case mounted && d.Settled():
		body = body.Add(image.Pt(0, 320))
	case mounted || !d.Settled():
		body = body.Add(image.Pt(0, 160))
	}
	if placeholder || cart == nil {
		vector.StrokeRect(screen, float32(body.Min.X), float32(body.Min.Y), float32(body.Dx()), float32(body.Dy()), 4, colorDisabled, true)
	} else {
		fillRect(screen, body, colorCartridge)
		drawLabel(screen, cart.Name, body.Min.X+20, body.Min.Y+30, 2, colorLabel)
	}

	if !mounted {
		fillRect(screen, rectInsert, colorButton)
		drawLabel(screen, "INSERT", rectInsert.Min.X+58, rectInsert.Min.Y+12, 2, colorLabel)
	}
	if cart != nil && !placeholder {
		w.drawInfoPanel(screen, cart)
	}
}

func (w *PlayerWindow) drawInfoPanel(screen *ebiten.Image, c *Cartridge) {
	x, y := rectInfoPanel.Min.X, rectInfoPanel.Min.Y
	drawLabel(screen, c.Name, x, y, 3, colorLabel)
	y += 48
	drawLabel(screen, fmt.Sprintf("%d Tracks | Runtime: %s", len(c.Tracks), FormatDuration(c.Runtime())), x, y, 2, colorDisabled)
	y += 36
	for i, t := range c.Tracks {
		if y > rectInfoPanel.Max.Y-24 {
			drawLabel(screen, fmt.Sprintf("... %d more", len(c.Tracks)-i), x, y, 2, colorDisabled)
			break
		}
		clr := colorLabel
		if w.player.device.Mounted() && w.player.device.Cartridge() == c && w.player.device.TrackIndex() == i {
			clr = colorCartridge
		}
		drawLabel(screen, t.Name, x, y, 2, clr)
		drawLabel(screen, FormatDuration(t.Duration), rectInfoPanel.Max.X-70, y, 2, clr)
		y += 28
	}
}
