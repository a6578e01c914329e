package vignette

import (
	"fmt"
	"sort"
)

// Lifecycle is the stage a component has reached.
type Lifecycle uint8

const (
	LifecycleConstructed Lifecycle = iota // element built, nothing fetched
	LifecycleLoaded                       // Load resolved
	LifecycleRevealed                     // visible on the stage
)

// String returns the lifecycle name.
func (l Lifecycle) String() string {
	switch l {
	case LifecycleLoaded:
		return "loaded"
	case LifecycleRevealed:
		return "revealed"
	default:
		return "constructed"
	}
}

// Component is a visual unit placed on the stage by the engine. A component
// owns exactly one element for its whole life.
type Component interface {
	// Element returns the owned element.
	Element() *Element
	// Load fetches whatever the component needs before it can be shown.
	Load() *Future[struct{}]
	// Redraw applies the component's configuration to its element. Safe to
	// call more than once.
	Redraw()
	// Lifecycle returns the current lifecycle stage.
	Lifecycle() Lifecycle

	On(event string, fn Listener)
	Emit(event string, args ...any)
	RemoveAllListeners(events ...string)
	ListenerCount(event string) int

	// SetLifecycle is called by the engine as the component advances.
	SetLifecycle(Lifecycle)
	// Detach releases input listeners when the component's scene is torn
	// down.
	Detach()
}

// Factory constructs a component from props. Factories are synchronous and
// must not perform I/O.
type Factory func(s Surface, props Props) (Component, error)

// Base holds the state every component shares. Embed it and call Init from
// the factory.
type Base struct {
	Emitter
	el    *Element
	stage Lifecycle
}

// Init binds the emitter to owner and records the owned element.
func (b *Base) Init(owner Component, el *Element) {
	b.el = el
	b.bindEmitter(owner)
}

// Element returns the owned element.
func (b *Base) Element() *Element { return b.el }

// Lifecycle returns the current lifecycle stage.
func (b *Base) Lifecycle() Lifecycle { return b.stage }

// SetLifecycle records the lifecycle stage.
func (b *Base) SetLifecycle(l Lifecycle) { b.stage = l }

// Load resolves immediately. Components with resources override it.
func (b *Base) Load() *Future[struct{}] { return Resolved(struct{}{}) }

// Detach does nothing. Components with input override it.
func (b *Base) Detach() {}

// Registry maps component type names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in components registered
// under both their Go names and their script names ("panel", "choice",
// "next-button", "restart-button").
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for _, b := range []struct {
		name, alias string
		f           Factory
	}{
		{"Panel", "panel", NewPanel},
		{"Choice", "choice", NewChoice},
		{"NextButton", "next-button", NewNextButton},
		{"RestartButton", "restart-button", NewRestartButton},
	} {
		r.Register(b.name, b.f)
		r.Register(b.alias, b.f)
	}
	return r
}

// Register adds or replaces the factory for typeName.
func (r *Registry) Register(typeName string, f Factory) {
	r.factories[typeName] = f
}

// Create builds a component of the registered type.
func (r *Registry) Create(s Surface, typeName string, props Props) (Component, error) {
	f, ok := r.factories[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, typeName)
	}
	c, err := f(s, props)
	if err != nil {
		return nil, fmt.Errorf("vignette: create %s: %w", typeName, err)
	}
	return c, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
