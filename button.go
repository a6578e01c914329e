package vignette

import "math"

// Button classifies gestures on an element as taps or drags. A gesture is a
// tap when the release lands on the element struck by the press and the
// pointer never moved more than TapThreshold pixels along either axis.
type Button struct {
	surface   Surface
	drag      *Draggable
	onTap     func()
	disabled  bool
	moved     bool
	threshold float64
}

// NewButton makes el tappable. onTap may be nil.
func NewButton(s Surface, el *Element, onTap func()) (*Button, error) {
	b := &Button{surface: s, onTap: onTap, threshold: TapThreshold}
	d, err := NewDraggable(s, el, DragHandlers{
		OnStart: b.start,
		OnMove:  b.move,
		OnEnd:   b.end,
	})
	if err != nil {
		return nil, err
	}
	b.drag = d
	return b, nil
}

// Element returns the button's element.
func (b *Button) Element() *Element {
	return b.drag.el
}

// SetDisabled enables or disables the button. Disabled buttons never call
// their tap callback. Setting the current value again is a no-op.
func (b *Button) SetDisabled(v bool) {
	b.disabled = v
	b.drag.el.ToggleClass(ClassDisabled, v)
}

// Disabled reports whether the button ignores taps.
func (b *Button) Disabled() bool {
	return b.disabled
}

// Moved reports whether the current or last gesture exceeded the threshold.
func (b *Button) Moved() bool {
	return b.moved
}

// Detach stops listening for gestures.
func (b *Button) Detach() {
	b.drag.Detach()
	b.drag.el.RemoveClass(ClassActive)
}

func (b *Button) start(ev PointerEvent, ctx *GestureContext) {
	ctx.Target = ev.Target
	ctx.Moved = false
	b.moved = false
	b.drag.el.AddClass(ClassActive)
}

func (b *Button) move(ev PointerEvent, ctx *GestureContext, dx, dy float64) {
	if math.Abs(dx) > b.threshold || math.Abs(dy) > b.threshold {
		ctx.Moved = true
		b.moved = true
	}
	over := b.surface.ElementAt(ev.X, ev.Y) == ctx.Target
	b.drag.el.ToggleClass(ClassActive, over && !ctx.Moved)
}

func (b *Button) end(ev PointerEvent, ctx *GestureContext) {
	b.drag.el.RemoveClass(ClassActive)
	if ctx.Moved || b.disabled {
		return
	}
	if ctx.Target == nil || b.surface.ElementAt(ev.X, ev.Y) != ctx.Target {
		return
	}
	if b.onTap != nil {
		b.onTap()
	}
}
