// shell_geometry.go - Window layout and hit testing for the device artwork

package main

import "image"

const (
	WINDOW_WIDTH  = 1800
	WINDOW_HEIGHT = 1140
)

// windowControl identifies a clickable region of the window.
type windowControl int

const (
	controlNone windowControl = iota
	controlPlay
	controlPrev
	controlNext
	controlEject
	controlInsert
	controlShelfPrev
	controlShelfNext
)

var (
	rectInfoPanel = image.Rect(100, 40, 780, 390)
	rectCartridge = image.Rect(900, 60, 1300, 360)
	rectShelfPrev = image.Rect(800, 170, 870, 250)
	rectShelfNext = image.Rect(1330, 170, 1400, 250)
	rectInsert    = image.Rect(1000, 372, 1200, 414)
	rectDevice    = image.Rect(60, 430, 1740, 1110)
	rectDisplay   = image.Rect(120, 470, 120+DISPLAY_WIDTH, 470+DISPLAY_HEIGHT)
	rectEject     = image.Rect(1450, 1000, 1650, 1060)

	circlePlay = circle{center: image.Pt(900, 1030), radius: 55}
	circlePrev = circle{center: image.Pt(720, 1030), radius: 45}
	circleNext = circle{center: image.Pt(1080, 1030), radius: 45}
)

type circle struct {
	center image.Point
	radius int
}

func (c circle) contains(p image.Point) bool {
	d := p.Sub(c.center)
	return d.X*d.X+d.Y*d.Y <= c.radius*c.radius
}

// controlAt returns the control under p. Eject only exists while a
// cartridge is mounted and Insert only while none is.
func controlAt(p image.Point, mounted bool) windowControl {
	switch {
	case circlePlay.contains(p):
		return controlPlay
	case circlePrev.contains(p):
		return controlPrev
	case circleNext.contains(p):
		return controlNext
	case mounted && p.In(rectEject):
		return controlEject
	case !mounted && p.In(rectInsert):
		return controlInsert
	case p.In(rectShelfPrev):
		return controlShelfPrev
	case p.In(rectShelfNext):
		return controlShelfNext
	}
	return controlNone
}
