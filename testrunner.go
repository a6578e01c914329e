package vignette

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// A TestRunner plays a story with no reader at the screen. Each frame it
// runs at most one step of a JSON script against the stage:
//
//	{"steps": [
//	  {"action": "tap", "x": 240, "y": 620},
//	  {"action": "wait", "frames": 30},
//	  {"action": "capture", "label": "after-choice"},
//	  {"action": "mark", "label": "choice made"}
//	]}
//
// A step does not start while injected input from an earlier one is still
// queued, so a tap lands in full before the next step looks at the scene.
type TestRunner struct {
	steps []scriptStep
	pos   int
	hold  int // frames left in the current wait
	done  bool
	marks []string
}

type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// stepActions maps each action name to what it does to the stage.
var stepActions = map[string]func(r *TestRunner, s *Stage, st scriptStep){
	"tap": func(_ *TestRunner, s *Stage, st scriptStep) {
		s.InjectTap(st.X, st.Y)
	},
	"drag": func(_ *TestRunner, s *Stage, st scriptStep) {
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	},
	"scroll": func(_ *TestRunner, s *Stage, st scriptStep) {
		s.ScrollTo(st.Y)
	},
	"wait": func(r *TestRunner, _ *Stage, st scriptStep) {
		// The frame that starts the wait is its first.
		r.hold = max(st.Frames-1, 0)
	},
	"capture": func(_ *TestRunner, s *Stage, st scriptStep) {
		s.Capture(st.Label)
	},
	"mark": func(r *TestRunner, s *Stage, st scriptStep) {
		r.marks = append(r.marks, st.Label)
		log.Printf("[vignette] mark %q at %v", st.Label, s.loop.Now())
	},
}

// LoadTestScript decodes a script. Actions are "tap" (x, y), "drag" (fromX,
// fromY, toX, toY, frames), "scroll" (y), "wait" (frames), "capture" (label)
// and "mark" (label); anything else is rejected here rather than mid-story.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("vignette: test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("vignette: test script has no steps")
	}
	for i, st := range script.Steps {
		if _, ok := stepActions[st.Action]; !ok {
			return nil, fmt.Errorf("vignette: test script step %d: unknown action %q", i+1, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner makes the stage run r at the start of every Step.
func (s *Stage) SetTestRunner(r *TestRunner) {
	s.testRunner = r
}

// Done reports whether the whole script has played out.
func (r *TestRunner) Done() bool {
	return r.done
}

// Marks returns the labels of the marks reached so far.
func (r *TestRunner) Marks() []string {
	return r.marks
}

func (r *TestRunner) step(s *Stage) {
	switch {
	case r.done, len(s.injectQueue) > 0:
		return
	case r.hold > 0:
		r.hold--
		return
	case r.pos == len(r.steps):
		r.done = true
		return
	}
	st := r.steps[r.pos]
	r.pos++
	stepActions[st.Action](r, s, st)
	r.done = r.pos == len(r.steps) && r.hold == 0 && len(s.injectQueue) == 0
}
