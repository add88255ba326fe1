// device_button.go - Press, hold and release state machine for device buttons

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

/*
A button turns raw pointer events into three callbacks:

  OnClick    press and release inside the button within the hold window
  OnHold     the press lasted HOLD_DELAY without a release
  OnRelease  the click that ends a hold

Press and release are each debounced leading-edge: the first event fires and
any repeat within DEBOUNCE_WINDOW of the previous one is swallowed, which
absorbs the duplicate events some input sources send for one gesture.
*/

package main

import "time"

const (
	DEBOUNCE_WINDOW = 10 * time.Millisecond
	HOLD_DELAY      = 800 * time.Millisecond
)

// effectPlayer is the part of the transport a button needs.
type effectPlayer interface {
	PlayEffectThrottled(kind Effect) bool
}

// debouncer fires on the leading edge and ignores calls until the window
// passes with no further calls.
type debouncer struct {
	window time.Duration
	until  time.Time
	armed  bool
}

func (d *debouncer) call(now time.Time) bool {
	fire := !d.armed || !now.Before(d.until)
	d.until = now.Add(d.window)
	d.armed = true
	return fire
}

type Button struct {
	Name      string
	OnClick   func()
	OnHold    func()
	OnRelease func()

	sched   *Scheduler
	effects effectPlayer

	pressed      bool
	preventClick bool
	holdTimer    *Timer
	pressDeb     debouncer
	releaseDeb   debouncer
}

func NewButton(name string, sched *Scheduler, effects effectPlayer) *Button {
	return &Button{
		Name:       name,
		sched:      sched,
		effects:    effects,
		pressDeb:   debouncer{window: DEBOUNCE_WINDOW},
		releaseDeb: debouncer{window: DEBOUNCE_WINDOW},
	}
}

// Pressed reports whether the button is drawn held down.
func (b *Button) Pressed() bool { return b.pressed }

// Holding reports whether the current press has turned into a hold.
func (b *Button) Holding() bool { return b.preventClick }

// Press handles pointer down.
func (b *Button) Press() {
	if !b.pressDeb.call(b.sched.Now()) {
		return
	}
	b.holdTimer.Stop()
	b.holdTimer = b.sched.AfterFunc(HOLD_DELAY, func() {
		b.holdTimer = nil
		b.preventClick = true
		if b.OnHold != nil {
			b.OnHold()
		}
	})
	if b.effects != nil {
		b.effects.PlayEffectThrottled(EffectButtonPress)
	}
	b.pressed = true
}

// Release handles pointer up, cancel and leave.
func (b *Button) Release() {
	if !b.releaseDeb.call(b.sched.Now()) {
		return
	}
	b.holdTimer.Stop()
	b.holdTimer = nil
	if b.pressed && b.effects != nil {
		b.effects.PlayEffectThrottled(EffectButtonUp)
	}
	b.pressed = false
}

// Click handles the activation that follows a release inside the button.
// After a hold it ends the hold instead of clicking.
func (b *Button) Click() {
	if b.preventClick {
		b.preventClick = false
		if b.OnRelease != nil {
			b.OnRelease()
		}
		return
	}
	if b.OnClick != nil {
		b.OnClick()
	}
}

// PointerUp is Release plus the click a pointer up produces. A hold ends
// even when the pointer left the button first.
func (b *Button) PointerUp(inside bool) {
	wasPressed := b.pressed
	b.Release()
	if (inside && wasPressed) || b.preventClick {
		b.Click()
	}
}

// CancelTimers drops a pending hold and any hold in progress without
// firing callbacks.
func (b *Button) CancelTimers() {
	b.holdTimer.Stop()
	b.holdTimer = nil
	b.preventClick = false
	b.pressed = false
}
