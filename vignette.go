package vignette

import (
	"errors"
	"image/color"
	"time"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a color.RGBA, clamping each component.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: unit8(c.R * c.A),
		G: unit8(c.G * c.A),
		B: unit8(c.B * c.A),
		A: unit8(c.A),
	}
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Rect is an axis-aligned rectangle. The origin is the top-left corner, with
// Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Element classes act as the style markers components and the engine toggle.
const (
	ClassHidden   = "hidden"   // not hit-testable; revealed by removing it
	ClassActive   = "active"   // button is pressed and the pointer is still on it
	ClassSelected = "selected" // choice option is the current selection
	ClassDisabled = "disabled" // button ignores taps
)

// Gesture aliases accepted by Surface.EventName.
const (
	AliasStart = "start"
	AliasMove  = "move"
	AliasEnd   = "end"
)

// Timing and input constants. These are part of the observable contract.
const (
	// RevealDwell is the minimum time between the start of a component's load
	// and its reveal.
	RevealDwell = 100 * time.Millisecond
	// TransitionDelay separates Clear from the next Load on Next and Restart.
	TransitionDelay = 200 * time.Millisecond
	// TouchSwapDelay delays removal of the outgoing container on touch
	// surfaces.
	TouchSwapDelay = 100 * time.Millisecond
	// TapThreshold is the per-axis movement in pixels after which a gesture
	// can no longer be a tap.
	TapThreshold = 5.0
	// FadeDuration is the length of reveal and clear fades.
	FadeDuration = 200 * time.Millisecond
)

// StartScene is the scene loaded by Engine.Restart.
const StartScene = "start"

var (
	// ErrUnknownComponentType is returned by Engine.Create for unregistered
	// type names.
	ErrUnknownComponentType = errors.New("vignette: unknown component type")
	// ErrUnknownEventAlias is returned by Surface.EventName for aliases other
	// than start, move and end.
	ErrUnknownEventAlias = errors.New("vignette: unknown event alias")
	// ErrUnsupportedMethod is returned when a fetch uses a method other than
	// GET, or a script calls a method the component does not have.
	ErrUnsupportedMethod = errors.New("vignette: unsupported method")
	// ErrFetchStatus wraps responses outside 200-399; see StatusError.
	ErrFetchStatus = errors.New("vignette: unexpected fetch status")
	// ErrOptionIndex is returned by Choice.Select for out-of-range indices.
	ErrOptionIndex = errors.New("vignette: option index out of range")
	// ErrSceneNotFound is returned when no scene script exists for a name.
	ErrSceneNotFound = errors.New("vignette: scene not found")
	// ErrNoNextScene is reported when the content provider names no successor.
	ErrNoNextScene = errors.New("vignette: no next scene")
	// ErrScript wraps failures raised while running a scene script.
	ErrScript = errors.New("vignette: scene script failed")
)
