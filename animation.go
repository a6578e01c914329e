package vignette

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on an Element simultaneously.
// Create one with TweenAlpha or TweenPosition and either call Update(dt)
// yourself or hand it to Stage.Animate. If the target element is disposed,
// the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Element
	Done   bool
	// OnDone runs once when the group finishes (not when it is abandoned
	// because the target was disposed).
	OnDone func()
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// TweenAlpha creates a TweenGroup that animates el.Alpha to the target value.
func TweenAlpha(el *Element, to float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: el}
	g.tweens[0] = gween.New(float32(el.Alpha), float32(to), float32(duration.Seconds()), fn)
	g.fields[0] = &el.Alpha
	return g
}

// TweenPosition creates a TweenGroup that animates el.X and el.Y.
func TweenPosition(el *Element, toX, toY float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	d := float32(duration.Seconds())
	g := &TweenGroup{count: 2, target: el}
	g.tweens[0] = gween.New(float32(el.X), float32(toX), d, fn)
	g.tweens[1] = gween.New(float32(el.Y), float32(toY), d, fn)
	g.fields[0] = &el.X
	g.fields[1] = &el.Y
	return g
}

// fadeIn starts the reveal fade of el from transparent.
func fadeIn(s Surface, el *Element) {
	el.Alpha = 0
	s.Animate(TweenAlpha(el, 1, FadeDuration, ease.OutQuad))
}

// fadeOut starts the clear fade of el.
func fadeOut(s Surface, el *Element) {
	s.Animate(TweenAlpha(el, 0, FadeDuration, ease.InQuad))
}
