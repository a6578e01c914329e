package vignette

import (
	"fmt"
	"runtime"
	"strings"
)

// Surface is everything a component needs from the platform: element
// creation, resource fetches, hit testing, document-wide pointer listeners
// and the loop it runs on. *Stage is the Ebitengine implementation.
type Surface interface {
	// NewElement creates a detached element.
	NewElement(name string) *Element
	// Root returns the document root.
	Root() *Element
	// Fetch retrieves a resource body. Only GET is supported.
	Fetch(method, url string) *Future[string]
	// TouchCapable reports whether the surface takes touch input. It is
	// evaluated on every call.
	TouchCapable() bool
	// EventName maps a gesture alias (start, move, end) to the concrete
	// event name for the current input mode.
	EventName(alias string) (string, error)
	// AddDocumentListener registers fn for every pointer event named name,
	// wherever it lands.
	AddDocumentListener(name string, fn PointerListener) ListenerHandle
	// ElementAt returns the deepest visible element at page position (x, y).
	ElementAt(x, y float64) *Element
	// Loop returns the scheduler the surface runs on.
	Loop() *Loop
	// Animate runs a tween until it completes.
	Animate(g *TweenGroup)
	// ScrollTo sets the vertical scroll offset of the document.
	ScrollTo(y float64)
}

// TouchMode selects how a Stage decides whether it is touch capable.
type TouchMode uint8

const (
	TouchAuto TouchMode = iota // mobile platforms, or once a touch has been seen
	TouchOn                    // always touch
	TouchOff                   // never touch
)

// String returns the mode name.
func (m TouchMode) String() string {
	switch m {
	case TouchOn:
		return "on"
	case TouchOff:
		return "off"
	default:
		return "auto"
	}
}

// UnmarshalText parses auto, on or off.
func (m *TouchMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "auto":
		*m = TouchAuto
	case "on", "true", "1":
		*m = TouchOn
	case "off", "false", "0":
		*m = TouchOff
	default:
		return fmt.Errorf("vignette: invalid touch mode %q", string(b))
	}
	return nil
}

var (
	touchEventNames   = [3]string{"touchstart", "touchmove", "touchend"}
	pointerEventNames = [3]string{"pointerdown", "pointermove", "pointerup"}
)

// eventNameFor resolves alias against touch or pointer naming.
func eventNameFor(alias string, touch bool) (string, error) {
	names := pointerEventNames
	if touch {
		names = touchEventNames
	}
	switch alias {
	case AliasStart:
		return names[0], nil
	case AliasMove:
		return names[1], nil
	case AliasEnd:
		return names[2], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventAlias, alias)
}

func mobileOS() bool {
	return runtime.GOOS == "android" || runtime.GOOS == "ios"
}

// eventFamily returns the start, move and end names of the family name
// belongs to.
func eventFamily(name string) ([3]string, bool) {
	for _, names := range [][3]string{touchEventNames, pointerEventNames} {
		for _, n := range names {
			if n == name {
				return names, true
			}
		}
	}
	return [3]string{}, false
}

// otherStartName returns the start event of the family name does not
// belong to.
func otherStartName(name string) string {
	if name == touchEventNames[0] {
		return pointerEventNames[0]
	}
	return touchEventNames[0]
}
