package vignette

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
)

// ContentProvider is the application's cross-scene logic: it fills a fresh
// context when a scene loads, picks the successor scene and resets its own
// state on restart.
type ContentProvider interface {
	Load(name string, ctx *SceneContext)
	Next(current string, ctx *SceneContext) string
	Restart(current string, ctx *SceneContext)
}

// SceneFunc sets up a scene written in Go. It runs where a scene script's
// ready callback would, and is expected to Create components, wire
// listeners and Append them once.
type SceneFunc func(e *Engine, ctx *SceneContext) error

// TransitionState is the engine's position in the scene lifecycle.
type TransitionState uint8

const (
	StateIdle     TransitionState = iota // nothing loaded yet
	StateActive                          // a scene is loading or shown
	StateClearing                        // the scene is hidden, successor pending
)

// String returns the state name.
func (s TransitionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClearing:
		return "clearing"
	default:
		return "idle"
	}
}

// sceneFrame is one loaded scene: its container and the components appended
// into it.
type sceneFrame struct {
	name       string
	container  *Element
	components []Component
	removed    bool
}

// Engine loads scenes into a Surface, reveals their components in order and
// runs the transitions between scenes.
type Engine struct {
	surface   Surface
	content   ContentProvider
	registry  *Registry
	scenes    map[string]SceneFunc
	scriptDir string

	state   TransitionState
	current string
	ctx     *SceneContext
	frame   *sceneFrame
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithScriptDir sets the directory scene scripts are fetched from.
func WithScriptDir(dir string) EngineOption {
	return func(e *Engine) { e.scriptDir = dir }
}

// WithRegistry replaces the default component registry.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) { e.registry = r }
}

// NewEngine creates an engine on s. content may be nil, in which case Next
// has nowhere to go.
func NewEngine(s Surface, content ContentProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		surface:   s,
		content:   content,
		registry:  NewRegistry(),
		scenes:    make(map[string]SceneFunc),
		scriptDir: "scenes",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Surface returns the surface the engine renders into.
func (e *Engine) Surface() Surface { return e.surface }

// State returns the transition state.
func (e *Engine) State() TransitionState { return e.state }

// Current returns the name of the current scene.
func (e *Engine) Current() string { return e.current }

// Context returns the current scene's context.
func (e *Engine) Context() *SceneContext { return e.ctx }

// Container returns the current scene's container element, or nil.
func (e *Engine) Container() *Element {
	if e.frame == nil {
		return nil
	}
	return e.frame.container
}

// Components returns the components appended to the current scene.
func (e *Engine) Components() []Component {
	if e.frame == nil {
		return nil
	}
	return e.frame.components
}

// Register adds a component type.
func (e *Engine) Register(typeName string, f Factory) {
	e.registry.Register(typeName, f)
}

// RegisterScene makes name load fn instead of fetching a script.
func (e *Engine) RegisterScene(name string, fn SceneFunc) {
	e.scenes[name] = fn
}

// Create constructs a component of a registered type. Unregistered names
// fail with ErrUnknownComponentType.
func (e *Engine) Create(typeName string, props Props) (Component, error) {
	return e.registry.Create(e.surface, typeName, props)
}

// --- Reveal sequencing ---

// Append inserts the components into the current scene hidden, redraws them
// and then reveals them one at a time, in order. Each component is revealed
// once its Load has resolved and at least RevealDwell has passed since the
// load began. The returned future resolves after the last reveal, or rejects
// with the first load failure; components after a failure stay hidden.
func (e *Engine) Append(components []Component) *Future[struct{}] {
	if e.frame == nil {
		return Rejected[struct{}](errors.New("vignette: append with no scene loaded"))
	}
	return e.appendTo(e.frame, components)
}

func (e *Engine) appendTo(frame *sceneFrame, components []Component) *Future[struct{}] {
	for _, c := range components {
		el := c.Element()
		el.AddClass(ClassHidden)
		el.Alpha = 0
		frame.container.AppendChild(el)
		frame.components = append(frame.components, c)
	}
	for _, c := range components {
		c.Redraw()
	}

	done := NewFuture[struct{}]()
	e.revealFrom(components, 0, done)
	return done
}

func (e *Engine) revealFrom(components []Component, i int, done *Future[struct{}]) {
	if i == len(components) {
		done.Resolve(struct{}{})
		return
	}
	c := components[i]
	loop := e.surface.Loop()
	start := loop.Now()

	c.Load().Then(func(_ struct{}, err error) {
		if err != nil {
			warnf("reveal %s: %v", c.Element().Name, err)
			done.Reject(fmt.Errorf("vignette: reveal %s: %w", c.Element().Name, err))
			return
		}
		c.SetLifecycle(LifecycleLoaded)
		c.Redraw()

		reveal := func() {
			el := c.Element()
			el.RemoveClass(ClassHidden)
			fadeIn(e.surface, el)
			c.SetLifecycle(LifecycleRevealed)
			e.revealFrom(components, i+1, done)
		}
		if wait := RevealDwell - (loop.Now() - start); wait > 0 {
			loop.After(wait, reveal)
			return
		}
		reveal()
	})
}

// --- Transitions ---

// Load makes name the current scene: it creates a fresh context, lets the
// content provider fill it, adds a new container and runs the scene setup.
// Once setup has succeeded, the scroll position is reset and the previous
// container is removed, after TouchSwapDelay on touch surfaces. If setup
// fails, the new container is hidden and the previous one is left in place.
// The returned future settles when setup has run; it does not wait for
// reveals.
func (e *Engine) Load(name string) *Future[struct{}] {
	e.state = StateActive
	e.current = name
	e.ctx = NewSceneContext(name)
	if e.content != nil {
		e.content.Load(name, e.ctx)
	}
	debugf("load scene %q", name)

	prev := e.frame
	container := e.surface.NewElement("scene-" + name)
	container.Absolute = true
	e.surface.Root().AppendChild(container)
	frame := &sceneFrame{name: name, container: container}
	e.frame = frame

	done := NewFuture[struct{}]()
	e.runScene(frame, e.ctx).Then(func(_ struct{}, err error) {
		if err != nil {
			// The failed scene stays hidden and the previous one stays put.
			warnf("scene %q: %v", name, err)
			container.AddClass(ClassHidden)
			done.Reject(err)
			return
		}
		e.swap(prev)
		done.Resolve(struct{}{})
	})
	return done
}

// swap resets scrolling and removes the outgoing scene.
func (e *Engine) swap(prev *sceneFrame) {
	finish := func() {
		e.surface.ScrollTo(0)
		if prev != nil {
			e.teardown(prev)
		}
	}
	if e.surface.TouchCapable() {
		e.surface.Loop().After(TouchSwapDelay, finish)
		return
	}
	finish()
}

// teardown releases every listener of the frame's components and removes
// its container from the document.
func (e *Engine) teardown(frame *sceneFrame) {
	if frame.removed {
		return
	}
	frame.removed = true
	for _, c := range frame.components {
		c.Detach()
		c.RemoveAllListeners()
	}
	frame.container.Dispose()
	debugf("removed scene %q", frame.name)
}

// Clear hides the current scene's container immediately and fades it out.
// The container stays in the document until the next Load swaps it out.
func (e *Engine) Clear() {
	if e.frame == nil {
		return
	}
	c := e.frame.container
	c.AddClass(ClassHidden)
	fadeOut(e.surface, c)
}

// Next hides the current scene and, after TransitionDelay, loads the scene
// the content provider picks. Pending loads and timers of the outgoing scene
// are not cancelled.
func (e *Engine) Next() {
	if e.state == StateClearing {
		debugf("next while clearing %q", e.current)
	}
	current, ctx := e.current, e.ctx
	e.state = StateClearing
	e.Clear()
	e.surface.Loop().After(TransitionDelay, func() {
		var next string
		if e.content != nil {
			next = e.content.Next(current, ctx)
		}
		if next == "" {
			warnf("%v after %q", ErrNoNextScene, current)
			return
		}
		e.Load(next)
	})
}

// Restart hides the current scene and, after TransitionDelay, resets the
// content provider and loads StartScene.
func (e *Engine) Restart() {
	current, ctx := e.current, e.ctx
	e.state = StateClearing
	e.Clear()
	e.surface.Loop().After(TransitionDelay, func() {
		if e.content != nil {
			e.content.Restart(current, ctx)
		}
		e.Load(StartScene)
	})
}

// --- Scene setup ---

func (e *Engine) runScene(frame *sceneFrame, ctx *SceneContext) *Future[struct{}] {
	if fn, ok := e.scenes[frame.name]; ok {
		if err := fn(e, ctx); err != nil {
			return Rejected[struct{}](fmt.Errorf("%w: %s: %w", ErrScript, frame.name, err))
		}
		return Resolved(struct{}{})
	}

	url := path.Join(e.scriptDir, frame.name+".lua")
	done := NewFuture[struct{}]()
	e.surface.Fetch("GET", url).Then(func(src string, err error) {
		if err != nil {
			if isNotFound(err) {
				err = fmt.Errorf("%w: %s: %w", ErrSceneNotFound, frame.name, err)
			}
			done.Reject(err)
			return
		}
		if err := runSceneScript(e, frame, ctx, url, src); err != nil {
			done.Reject(err)
			return
		}
		done.Resolve(struct{}{})
	})
	return done
}

func isNotFound(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
