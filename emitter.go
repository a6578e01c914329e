package vignette

// Listener receives component events. src is always the component that
// emitted the event.
type Listener func(src Component, args ...any)

// Emitter is the publish/subscribe capability embedded by every component.
// Dispatch is synchronous and in registration order. Emitting or removing an
// event type nobody registered is a no-op.
type Emitter struct {
	owner     Component
	listeners map[string][]Listener
}

// bindEmitter makes owner the src argument of every listener call.
func (e *Emitter) bindEmitter(owner Component) {
	e.owner = owner
}

// On appends fn to the listeners of event.
func (e *Emitter) On(event string, fn Listener) {
	if fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Emit calls every listener registered for event with args. Listeners added
// during dispatch are not called for this emission.
func (e *Emitter) Emit(event string, args ...any) {
	ls := e.listeners[event]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]Listener, len(ls))
	copy(snapshot, ls)
	for _, fn := range snapshot {
		fn(e.owner, args...)
	}
}

// RemoveAllListeners clears the listeners of the named events, or of every
// event when called without arguments.
func (e *Emitter) RemoveAllListeners(events ...string) {
	if len(events) == 0 {
		e.listeners = nil
		return
	}
	for _, ev := range events {
		delete(e.listeners, ev)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter) ListenerCount(event string) int {
	return len(e.listeners[event])
}
