package vignette

import (
	"reflect"
	"testing"
)

func TestDraggableCallbacks(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	el := s.NewElement("drag")
	el.Height = 100
	s.Root().AppendChild(el)

	var log []string
	var deltas [][2]float64
	var ctxs []*GestureContext
	d, err := NewDraggable(s, el, DragHandlers{
		OnStart: func(ev PointerEvent, ctx *GestureContext) {
			log = append(log, "start")
			ctx.Target = ev.Target
			ctxs = append(ctxs, ctx)
		},
		OnMove: func(ev PointerEvent, ctx *GestureContext, dx, dy float64) {
			log = append(log, "move")
			deltas = append(deltas, [2]float64{dx, dy})
		},
		OnEnd: func(ev PointerEvent, ctx *GestureContext) {
			log = append(log, "end")
			if ctx.Target != el {
				t.Errorf("ctx.Target = %v, want el", ctx.Target)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// The gesture leaves the element and still ends.
	s.InjectPress(10, 10)
	s.InjectMove(30, 50)
	s.InjectMove(30, 300)
	s.InjectRelease(30, 300)
	drain(s)

	if !reflect.DeepEqual(log, []string{"start", "move", "move", "end"}) {
		t.Errorf("log = %v", log)
	}
	if !reflect.DeepEqual(deltas, [][2]float64{{20, 40}, {20, 290}}) {
		t.Errorf("deltas = %v", deltas)
	}
	if d.Active() {
		t.Error("Active() after release")
	}

	// The context is reset for the next gesture.
	s.InjectPress(10, 10)
	s.Step(0)
	if len(ctxs) != 2 || ctxs[1].Moved {
		t.Errorf("context not reset between gestures")
	}
}

func TestDraggableIgnoresSecondPress(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	el := s.NewElement("drag")
	el.Height = 100
	s.Root().AppendChild(el)

	starts := 0
	d, err := NewDraggable(s, el, DragHandlers{
		OnStart: func(PointerEvent, *GestureContext) { starts++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	d.onPress(PointerEvent{Name: "pointerdown", X: 1, Y: 1, Target: el})
	d.onPress(PointerEvent{Name: "pointerdown", X: 2, Y: 2, Target: el})

	if starts != 1 {
		t.Errorf("starts = %d, want 1", starts)
	}
	if n := s.DocumentListenerCount("pointerup"); n != 1 {
		t.Errorf("end listeners = %d, want 1", n)
	}
}

func TestDraggableDetachMidGesture(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	el := s.NewElement("drag")
	el.Height = 100
	s.Root().AppendChild(el)

	ended := false
	d, err := NewDraggable(s, el, DragHandlers{
		OnEnd: func(PointerEvent, *GestureContext) { ended = true },
	})
	if err != nil {
		t.Fatal(err)
	}
	s.InjectPress(10, 10)
	s.Step(0)
	d.Detach()
	s.InjectRelease(10, 10)
	s.Step(0)

	if ended {
		t.Error("OnEnd called after Detach")
	}
	if s.DocumentListenerCount("pointermove") != 0 || el.ListenerCount("pointerdown") != 0 {
		t.Error("listeners survived Detach")
	}
}
