package vignette

import (
	"image"
)

// --- Pointer events ---

// PointerEvent is a raw press, move or release delivered to listeners.
// X and Y are page coordinates (screen position plus the stage scroll).
type PointerEvent struct {
	Name      string
	X, Y      float64
	Target    *Element // deepest visible element under the pointer, or nil
	PointerID int
}

// PointerListener receives pointer events.
type PointerListener func(ev PointerEvent)

type pointerListener struct {
	id uint32
	fn PointerListener
}

// listenerSet is an ordered per-name listener table shared by elements and
// the stage document.
type listenerSet struct {
	byName map[string][]pointerListener
	nextID uint32
}

func (ls *listenerSet) add(name string, fn PointerListener) ListenerHandle {
	if ls.byName == nil {
		ls.byName = make(map[string][]pointerListener)
	}
	ls.nextID++
	id := ls.nextID
	ls.byName[name] = append(ls.byName[name], pointerListener{id: id, fn: fn})
	return ListenerHandle{id: id, set: ls, name: name}
}

func (ls *listenerSet) remove(name string, id uint32) {
	s := ls.byName[name]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerListener{}
			s = s[:len(s)-1]
			break
		}
	}
	if len(s) == 0 {
		delete(ls.byName, name)
		return
	}
	ls.byName[name] = s
}

// dispatch calls every listener registered for ev.Name. Listeners added or
// removed while dispatching take effect on the next event.
func (ls *listenerSet) dispatch(ev PointerEvent) {
	s := ls.byName[ev.Name]
	if len(s) == 0 {
		return
	}
	snapshot := make([]pointerListener, len(s))
	copy(snapshot, s)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

func (ls *listenerSet) count(name string) int {
	return len(ls.byName[name])
}

// ListenerHandle removes a registered pointer listener.
type ListenerHandle struct {
	id   uint32
	set  *listenerSet
	name string
}

// Remove unregisters the listener. Calling it more than once is a no-op.
func (h ListenerHandle) Remove() {
	if h.set == nil {
		return
	}
	h.set.remove(h.name, h.id)
}

// --- ID counter ---

// elementIDCounter is a plain counter (no atomic, the stage is single-threaded).
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// --- Element ---

// Element is a node of the stage's document tree. Children without Absolute
// flow top to bottom inside their parent's padding box; absolute children are
// placed at (X, Y) relative to the parent's top-left corner.
type Element struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout. A zero Width fills the parent; a zero Height fits the content.
	X, Y         float64
	Width        float64
	Height       float64
	Padding      float64
	MarginBottom float64
	Absolute     bool

	// Style
	Alpha       float64
	Background  Color
	Border      bool
	BorderColor Color
	TextColor   Color
	FontSize    float64
	Image       image.Image
	classes     map[string]struct{}

	// Content
	lines  []string
	markup string

	// Metadata
	UserData any

	listeners listenerSet
	bounds    Rect
	disposed  bool
}

// NewElement creates a detached element with default style.
func NewElement(name string) *Element {
	return &Element{
		ID:          nextElementID(),
		Name:        name,
		Alpha:       1,
		TextColor:   ColorWhite,
		BorderColor: ColorWhite,
		FontSize:    defaultFontSize,
	}
}

// --- Tree manipulation ---

// AppendChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		panic("vignette: cannot append nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AppendChild (parent)")
		debugCheckDisposed(child, "AppendChild (child)")
	}
	if isAncestor(child, e) {
		panic("vignette: appending child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
}

// RemoveChild detaches child from this element.
// Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if child.Parent != e {
		panic("vignette: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
}

// Remove detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) Remove() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// RemoveChildren detaches all children. Children are not disposed.
func (e *Element) RemoveChildren() {
	for _, child := range e.children {
		child.Parent = nil
	}
	e.children = e.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	return other != nil && isAncestor(e, other)
}

// --- Classes ---

// AddClass adds a style marker. Adding an existing class is a no-op.
func (e *Element) AddClass(name string) {
	if e.classes == nil {
		e.classes = make(map[string]struct{}, 2)
	}
	e.classes[name] = struct{}{}
}

// RemoveClass removes a style marker. Removing a missing class is a no-op.
func (e *Element) RemoveClass(name string) {
	delete(e.classes, name)
}

// ToggleClass adds the class when on is true and removes it otherwise.
func (e *Element) ToggleClass(name string, on bool) {
	if on {
		e.AddClass(name)
	} else {
		e.RemoveClass(name)
	}
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// Hidden reports whether the element or any ancestor carries ClassHidden.
func (e *Element) Hidden() bool {
	for p := e; p != nil; p = p.Parent {
		if p.HasClass(ClassHidden) {
			return true
		}
	}
	return false
}

// --- Content ---

// SetMarkup replaces the element's text with the given markup. Newlines are
// treated as line breaks.
func (e *Element) SetMarkup(markup string) {
	e.markup = markup
	e.lines = parseMarkup(markup)
}

// SetText replaces the element's text with plain text lines.
func (e *Element) SetText(lines ...string) {
	e.markup = ""
	e.lines = append(e.lines[:0], lines...)
}

// Markup returns the markup last passed to SetMarkup.
func (e *Element) Markup() string {
	return e.markup
}

// Lines returns the display lines. The returned slice MUST NOT be mutated.
func (e *Element) Lines() []string {
	return e.lines
}

// --- Listeners ---

// AddEventListener registers fn for pointer events named name that target
// this element or one of its descendants.
func (e *Element) AddEventListener(name string, fn PointerListener) ListenerHandle {
	return e.listeners.add(name, fn)
}

// ListenerCount returns the number of listeners registered for name.
func (e *Element) ListenerCount(name string) int {
	return e.listeners.count(name)
}

// Bounds returns the page-space rectangle computed by the last layout pass.
func (e *Element) Bounds() Rect {
	return e.bounds
}

// --- Disposal ---

// Dispose removes this element from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.Remove()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.Image = nil
	e.UserData = nil
	e.listeners = listenerSet{}
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is el or an ancestor of el.
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
