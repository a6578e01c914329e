package vignette

// GestureContext is the per-gesture record a Draggable hands to its
// callbacks. It is reset at every press and belongs to one Draggable.
type GestureContext struct {
	// Target is the element struck by the press, for callbacks to fill in.
	Target *Element
	// Moved is set by callbacks once the gesture stops being a tap.
	Moved bool
}

// DragHandlers are the callbacks of a Draggable. Any of them may be nil.
type DragHandlers struct {
	OnStart func(ev PointerEvent, ctx *GestureContext)
	OnMove  func(ev PointerEvent, ctx *GestureContext, dx, dy float64)
	OnEnd   func(ev PointerEvent, ctx *GestureContext)
}

// Draggable turns press, move* and release events on an element into start,
// move and end callbacks. Move and release listeners are attached to the
// document for the duration of a gesture, so gestures that leave the element
// still finish.
//
// The press listener is registered under the surface's current start name
// and under the other family's start name as well, so a device that starts
// sending touches (or mouse clicks) mid-scene still reaches buttons built
// earlier. A gesture follows the family of the press that began it.
type Draggable struct {
	surface  Surface
	el       *Element
	handlers DragHandlers

	press    ListenerHandle
	altPress ListenerHandle
	move     ListenerHandle
	release ListenerHandle

	active bool
	startX float64
	startY float64
	ctx    GestureContext
}

// NewDraggable attaches the press listeners to el. It fails only if the
// surface cannot name the start event.
func NewDraggable(s Surface, el *Element, h DragHandlers) (*Draggable, error) {
	name, err := s.EventName(AliasStart)
	if err != nil {
		return nil, err
	}
	d := &Draggable{surface: s, el: el, handlers: h}
	d.press = el.AddEventListener(name, d.onPress)
	d.altPress = el.AddEventListener(otherStartName(name), d.onPress)
	return d, nil
}

// Element returns the element the draggable listens on.
func (d *Draggable) Element() *Element {
	return d.el
}

// Active reports whether a gesture is in progress.
func (d *Draggable) Active() bool {
	return d.active
}

func (d *Draggable) onPress(ev PointerEvent) {
	if d.active {
		// A second press without a release (another finger) is ignored.
		return
	}
	moveName, endName := d.gestureNames(ev.Name)

	d.active = true
	d.startX, d.startY = ev.X, ev.Y
	d.ctx = GestureContext{}
	if d.handlers.OnStart != nil {
		d.handlers.OnStart(ev, &d.ctx)
	}
	d.move = d.surface.AddDocumentListener(moveName, d.onMove)
	d.release = d.surface.AddDocumentListener(endName, d.onRelease)
}

// gestureNames returns the move and end names matching the press event's
// family, or the surface's current names for an unknown press name.
func (d *Draggable) gestureNames(press string) (move, end string) {
	if names, ok := eventFamily(press); ok {
		return names[1], names[2]
	}
	move, err := d.surface.EventName(AliasMove)
	if err != nil {
		panic(err)
	}
	end, err = d.surface.EventName(AliasEnd)
	if err != nil {
		panic(err)
	}
	return move, end
}

func (d *Draggable) onMove(ev PointerEvent) {
	if !d.active {
		return
	}
	if d.handlers.OnMove != nil {
		d.handlers.OnMove(ev, &d.ctx, ev.X-d.startX, ev.Y-d.startY)
	}
}

func (d *Draggable) onRelease(ev PointerEvent) {
	if !d.active {
		return
	}
	d.detachGesture()
	if d.handlers.OnEnd != nil {
		d.handlers.OnEnd(ev, &d.ctx)
	}
}

func (d *Draggable) detachGesture() {
	d.active = false
	d.move.Remove()
	d.release.Remove()
	d.move = ListenerHandle{}
	d.release = ListenerHandle{}
}

// Detach removes the press listeners and any listeners of a gesture in
// progress. The end callback is not called.
func (d *Draggable) Detach() {
	d.press.Remove()
	d.altPress.Remove()
	d.press = ListenerHandle{}
	d.altPress = ListenerHandle{}
	if d.active {
		d.detachGesture()
	}
}
