package vignette

import (
	"fmt"
	"log"
)

// debugf logs a stage-level message when debug mode is on.
func (s *Stage) debugf(format string, args ...any) {
	if !s.debug {
		return
	}
	log.Printf("[vignette] "+format, args...)
}

// debugf logs when any stage has debug mode on.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	log.Printf("[vignette] "+format, args...)
}

// warnf always logs. Used for failures the engine surfaces but cannot
// recover from, such as a component that never loads.
func warnf(format string, args ...any) {
	log.Printf("[vignette] warning: "+format, args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("vignette debug: %s on disposed element %q", op, e.Name))
	}
}

// debugSummary describes the stage for the debug overlay.
func (s *Stage) debugSummary() string {
	s.layout()
	return fmt.Sprintf("elements: %d | tweens: %d | timers: %d | scroll: %.0f",
		countElements(s.root), len(s.tweens), s.loop.Pending(), s.scrollY)
}

func countElements(e *Element) int {
	n := 1
	for _, c := range e.children {
		n += countElements(c)
	}
	return n
}
