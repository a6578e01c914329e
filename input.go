package vignette

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers    = 10 // pointer 0 = mouse, 1-9 = touch
	wheelScrollPx  = 40.0
	mousePointerID = 0
)

// --- Per-pointer state ---

type pointerState struct {
	down  bool
	lastX float64
	lastY float64
}

// --- Hit testing ---

// collectVisible walks the tree in painter order (DFS), appending elements
// that can be hit to buf. Hidden subtrees are skipped.
func collectVisible(e *Element, buf []*Element) []*Element {
	if e.HasClass(ClassHidden) {
		return buf
	}
	buf = append(buf, e)
	for _, child := range e.children {
		buf = collectVisible(child, buf)
	}
	return buf
}

// ElementAt returns the topmost, deepest visible element whose box contains
// the page position (x, y), or nil when the point is outside the document.
func (s *Stage) ElementAt(x, y float64) *Element {
	s.layout()
	s.hitBuf = collectVisible(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost element first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		e := s.hitBuf[i]
		if e.bounds.Contains(x, y) {
			return e
		}
	}
	return nil
}

// --- Input processing ---

// processInput is called from Stage.Update to handle mouse, touch and wheel
// input.
func (s *Stage) processInput() {
	s.processMousePointer()
	s.processTouchPointers()

	if _, dy := ebiten.Wheel(); dy != 0 {
		s.ScrollTo(s.scrollY - dy*wheelScrollPx)
	}
}

// processMousePointer handles mouse input (pointer 0).
func (s *Stage) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.processPointer(mousePointerID, float64(mx), float64(my)+s.scrollY, pressed, false)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Stage) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs
	if len(touchIDs) > 0 {
		s.sawTouch = true
	}

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty)+s.scrollY, true, true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, true)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Stage) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer turns one pointer sample (page coordinates) into press, move
// and release events. Touch pointers use touch event names, the mouse uses
// pointer event names.
func (s *Stage) processPointer(pointerID int, x, y float64, pressed, touch bool) {
	ps := &s.pointers[pointerID]
	names := pointerEventNames
	if touch {
		names = touchEventNames
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.lastX, ps.lastY = x, y
		s.dispatchPointer(names[0], pointerID, x, y)
	case !pressed && ps.down:
		ps.down = false
		ps.lastX, ps.lastY = x, y
		s.dispatchPointer(names[2], pointerID, x, y)
	case x != ps.lastX || y != ps.lastY:
		// Touches only move while down; the mouse also moves while hovering.
		ps.lastX, ps.lastY = x, y
		if ps.down || !touch {
			s.dispatchPointer(names[1], pointerID, x, y)
		}
	}
}

// --- Event dispatch ---

// dispatchPointer hit-tests (x, y), delivers the event to the target and each
// of its ancestors, then to document listeners.
func (s *Stage) dispatchPointer(name string, pointerID int, x, y float64) {
	target := s.ElementAt(x, y)
	ev := PointerEvent{Name: name, X: x, Y: y, Target: target, PointerID: pointerID}
	for e := target; e != nil; {
		parent := e.Parent
		e.listeners.dispatch(ev)
		e = parent
	}
	s.document.dispatch(ev)
}
