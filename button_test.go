package vignette

import (
	"testing"
	"time"
)

// newTestButton places a 200x60 button at the top of the stage.
func newTestButton(t *testing.T, touch TouchMode) (*Stage, *Button, *int) {
	t.Helper()
	s := NewStage(StageConfig{Touch: touch})
	el := s.NewElement("button")
	el.Width, el.Height = 200, 60
	s.Root().AppendChild(el)
	taps := new(int)
	b, err := NewButton(s, el, func() { *taps++ })
	if err != nil {
		t.Fatal(err)
	}
	return s, b, taps
}

func drain(s *Stage) {
	for s.PendingInput() > 0 {
		s.Step(time.Millisecond)
	}
}

func TestButtonTap(t *testing.T) {
	for _, touch := range []TouchMode{TouchOff, TouchOn} {
		s, _, taps := newTestButton(t, touch)
		s.InjectTap(100, 30)
		drain(s)
		if *taps != 1 {
			t.Errorf("touch=%v: taps = %d, want 1", touch, *taps)
		}
	}
}

func TestButtonMovementThreshold(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   int
	}{
		{"still", 0, 0, 1},
		{"within threshold", 4, -4, 1},
		{"exactly threshold", TapThreshold, 0, 1},
		{"past threshold x", 6, 0, 0},
		{"past threshold y", 0, -6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, taps := newTestButton(t, TouchOff)
			s.InjectPress(100, 30)
			s.InjectMove(100+tt.dx, 30+tt.dy)
			s.InjectRelease(100+tt.dx, 30+tt.dy)
			drain(s)
			if *taps != tt.want {
				t.Errorf("taps = %d, want %d", *taps, tt.want)
			}
		})
	}
}

func TestButtonMovedIsIrreversible(t *testing.T) {
	s, b, taps := newTestButton(t, TouchOff)
	s.InjectPress(100, 30)
	s.InjectMove(120, 30)
	s.InjectMove(100, 30)
	s.InjectRelease(100, 30)
	drain(s)

	if *taps != 0 {
		t.Errorf("taps = %d, want 0 after returning to the start", *taps)
	}
	if !b.Moved() {
		t.Error("Moved() = false, want true")
	}
}

func TestButtonReleaseOffTarget(t *testing.T) {
	s, _, taps := newTestButton(t, TouchOff)
	other := s.NewElement("other")
	other.Height = 60
	s.Root().AppendChild(other)

	// Release 2px below the button lands on the other element.
	s.InjectPress(100, 58)
	s.InjectRelease(100, 62)
	drain(s)
	if *taps != 0 {
		t.Errorf("taps = %d, want 0", *taps)
	}
}

func TestButtonDisabled(t *testing.T) {
	s, b, taps := newTestButton(t, TouchOff)
	b.SetDisabled(true)
	b.SetDisabled(true)
	if !b.Element().HasClass(ClassDisabled) {
		t.Error("disabled class missing")
	}

	s.InjectTap(100, 30)
	drain(s)
	if *taps != 0 {
		t.Errorf("taps = %d, want 0 while disabled", *taps)
	}

	b.SetDisabled(false)
	s.InjectTap(100, 30)
	drain(s)
	if *taps != 1 {
		t.Errorf("taps = %d, want 1 after enabling", *taps)
	}
}

func TestButtonActiveClass(t *testing.T) {
	s, b, _ := newTestButton(t, TouchOff)
	el := b.Element()

	s.InjectPress(100, 30)
	s.Step(0)
	if !el.HasClass(ClassActive) {
		t.Error("active class missing while pressed")
	}

	s.InjectMove(150, 30)
	s.Step(0)
	if el.HasClass(ClassActive) {
		t.Error("active class should clear once moved")
	}

	s.InjectRelease(150, 30)
	s.Step(0)
	if el.HasClass(ClassActive) {
		t.Error("active class should clear on release")
	}
}

func TestButtonReleasesDocumentListeners(t *testing.T) {
	s, b, _ := newTestButton(t, TouchOff)
	s.InjectPress(100, 30)
	s.Step(0)
	if n := s.DocumentListenerCount("pointermove"); n != 1 {
		t.Errorf("move listeners during gesture = %d, want 1", n)
	}
	s.InjectRelease(100, 30)
	s.Step(0)
	if n := s.DocumentListenerCount("pointermove") + s.DocumentListenerCount("pointerup"); n != 0 {
		t.Errorf("document listeners after release = %d, want 0", n)
	}

	b.Detach()
	if n := b.Element().ListenerCount("pointerdown") + b.Element().ListenerCount("touchstart"); n != 0 {
		t.Errorf("press listeners after Detach = %d, want 0", n)
	}
}

func TestButtonTapsWhenInputFamilyChanges(t *testing.T) {
	const touchSlot = 1
	tests := []struct {
		name          string
		touchBefore   bool // first touch seen before the button is built
		first, second bool // touch flag of the two taps
	}{
		{"built for mouse, touched", false, true, false},
		{"built for touch, clicked", true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStage(StageConfig{Touch: TouchAuto})
			s.sawTouch = tt.touchBefore
			el := s.NewElement("button")
			el.Width, el.Height = 200, 60
			s.Root().AppendChild(el)
			taps := 0
			if _, err := NewButton(s, el, func() { taps++ }); err != nil {
				t.Fatal(err)
			}
			s.sawTouch = true

			for i, touch := range []bool{tt.first, tt.second} {
				id := mousePointerID
				if touch {
					id = touchSlot
				}
				s.processPointer(id, 100, 30, true, touch)
				s.processPointer(id, 100, 30, false, touch)
				if taps != i+1 {
					t.Fatalf("after tap %d (touch=%v): taps = %d, want %d", i+1, touch, taps, i+1)
				}
			}
			for _, name := range []string{"touchmove", "touchend", "pointermove", "pointerup"} {
				if n := s.DocumentListenerCount(name); n != 0 {
					t.Errorf("%s listeners after gestures = %d, want 0", name, n)
				}
			}
		})
	}
}
