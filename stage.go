package vignette

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultStageWidth  = 480
	defaultStageHeight = 800
	defaultFontSize    = 18
)

// StageConfig configures a Stage.
type StageConfig struct {
	Width, Height int
	Touch         TouchMode
	Fetcher       Fetcher
	// Loop to run on. NewStage creates one when nil.
	Loop       *Loop
	ClearColor Color
}

// Stage is the top-level object that owns the document tree, input state,
// running tweens and the loop. It implements Surface.
type Stage struct {
	root       *Element
	loop       *Loop
	fetcher    Fetcher
	touchMode  TouchMode
	sawTouch   bool
	debug      bool
	width      float64
	height     float64
	scrollY    float64
	ClearColor Color

	// Input state
	document     listenerSet
	pointers     [maxPointers]pointerState
	hitBuf       []*Element
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	captureQueue []string

	// CaptureDir is where Capture writes PNG files.
	CaptureDir string

	tweens []*TweenGroup

	// Render state, created lazily on the first Draw.
	renderer *renderer
	// Overlay returns extra lines for the debug overlay.
	Overlay func() string
}

// NewStage creates a stage with an empty root element.
func NewStage(cfg StageConfig) *Stage {
	if cfg.Width <= 0 {
		cfg.Width = defaultStageWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultStageHeight
	}
	loop := cfg.Loop
	if loop == nil {
		loop = NewLoop()
	}
	root := NewElement("root")
	return &Stage{
		root:       root,
		loop:       loop,
		fetcher:    cfg.Fetcher,
		touchMode:  cfg.Touch,
		width:      float64(cfg.Width),
		height:     float64(cfg.Height),
		ClearColor: cfg.ClearColor,
		CaptureDir: "captures",
	}
}

// Root returns the document root.
func (s *Stage) Root() *Element {
	return s.root
}

// Loop returns the stage's scheduler.
func (s *Stage) Loop() *Loop {
	return s.loop
}

// NewElement creates a detached element.
func (s *Stage) NewElement(name string) *Element {
	return NewElement(name)
}

// Size returns the viewport size in pixels.
func (s *Stage) Size() (width, height float64) {
	return s.width, s.height
}

// TouchCapable reports whether the stage takes touch input. In TouchAuto
// mode this is true on mobile platforms and after the first touch.
func (s *Stage) TouchCapable() bool {
	switch s.touchMode {
	case TouchOn:
		return true
	case TouchOff:
		return false
	}
	return s.sawTouch || mobileOS()
}

// EventName maps a gesture alias to the event name for the current input
// mode. Unknown aliases fail with ErrUnknownEventAlias.
func (s *Stage) EventName(alias string) (string, error) {
	return eventNameFor(alias, s.TouchCapable())
}

// AddDocumentListener registers fn for every pointer event named name.
func (s *Stage) AddDocumentListener(name string, fn PointerListener) ListenerHandle {
	return s.document.add(name, fn)
}

// DocumentListenerCount returns the number of document listeners for name.
func (s *Stage) DocumentListenerCount(name string) int {
	return s.document.count(name)
}

// Fetch retrieves a resource body through the configured Fetcher.
func (s *Stage) Fetch(method, url string) *Future[string] {
	if method != "GET" {
		return Rejected[string](fmt.Errorf("%w: %s %s", ErrUnsupportedMethod, method, url))
	}
	if s.fetcher == nil {
		return Rejected[string](fmt.Errorf("vignette: fetch %s: no fetcher configured", url))
	}
	s.debugf("fetch %s", url)
	return s.fetcher.Fetch(s.loop, method, url)
}

// Animate runs g on every Step until it is done.
func (s *Stage) Animate(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	s.tweens = append(s.tweens, g)
}

// ScrollY returns the vertical scroll offset.
func (s *Stage) ScrollY() float64 {
	return s.scrollY
}

// ScrollTo sets the vertical scroll offset, clamped to the content.
func (s *Stage) ScrollTo(y float64) {
	s.layout()
	maxY := s.root.bounds.Height - s.height
	if y > maxY {
		y = maxY
	}
	if y < 0 {
		y = 0
	}
	s.scrollY = y
}

// Step advances the stage by dt: it feeds one queued synthetic pointer event,
// moves the loop clock (settling posted results and firing timers) and
// advances tweens.
func (s *Stage) Step(dt time.Duration) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()
	s.loop.Advance(dt)

	sec := float32(dt.Seconds())
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(sec)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}

// Update polls device input and steps the stage by one tick. It is meant to
// be called from ebiten.Game.Update.
func (s *Stage) Update() {
	if len(s.injectQueue) == 0 {
		s.processInput()
	}
	s.Step(time.Second / time.Duration(ebiten.TPS()))
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-element
// access panics, fetches and transitions are logged and Draw shows an
// overlay.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Stage debug flag so that element
// operations (which lack a Stage pointer) can check it cheaply.
var globalDebug bool

// --- Layout ---

// layout recomputes page-space bounds for the whole tree.
func (s *Stage) layout() {
	layoutElement(s.root, 0, 0, s.width)
	if s.root.bounds.Height < s.height {
		s.root.bounds.Height = s.height
	}
}

func layoutElement(e *Element, originX, originY, availW float64) {
	w := e.Width
	if w <= 0 {
		w = availW
	}
	e.bounds = Rect{X: originX + e.X, Y: originY + e.Y, Width: w}

	cursor := e.Padding
	inner := w - 2*e.Padding
	flowed := false
	var extent float64 // bottom edge of absolute children
	for _, c := range e.children {
		if c.Absolute {
			layoutElement(c, e.bounds.X, e.bounds.Y, w-c.X)
			extent = max(extent, c.Y+c.bounds.Height)
			continue
		}
		layoutElement(c, e.bounds.X+e.Padding, e.bounds.Y+cursor, inner)
		cursor += c.bounds.Height + c.MarginBottom
		flowed = true
	}

	h := e.Height
	if h <= 0 {
		switch {
		case flowed:
			h = cursor + e.Padding
		case len(e.lines) > 0:
			h = float64(len(e.lines))*lineHeight(e.FontSize) + 2*e.Padding
		}
		h = max(h, extent)
	}
	e.bounds.Height = h
}

func lineHeight(size float64) float64 {
	if size <= 0 {
		size = defaultFontSize
	}
	return size * 1.4
}
