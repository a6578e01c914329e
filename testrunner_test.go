package vignette

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadTestScript(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "mark", "label": "initial"},
		{"action": "tap", "x": 100, "y": 200},
		{"action": "wait", "frames": 3},
		{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []scriptStep{
		{Action: "mark", Label: "initial"},
		{Action: "tap", X: 100, Y: 200},
		{Action: "wait", Frames: 3},
		{Action: "drag", FromX: 1, FromY: 2, ToX: 3, ToY: 4},
	}
	if !reflect.DeepEqual(runner.steps, want) {
		t.Errorf("steps = %+v, want %+v", runner.steps, want)
	}
}

func TestLoadTestScriptRejects(t *testing.T) {
	tests := []struct {
		name, src string
	}{
		{"not json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "mark"}, {"action": "screenshot"}]}`},
	}
	for _, tt := range tests {
		if _, err := LoadTestScript([]byte(tt.src)); err == nil {
			t.Errorf("%s: LoadTestScript succeeded", tt.name)
		}
	}
}

func TestRunnerInjectsInput(t *testing.T) {
	tests := []struct {
		src    string
		queued int
	}{
		{`{"steps": [{"action": "tap", "x": 50, "y": 50}]}`, 2},
		{`{"steps": [{"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "frames": 4}]}`, 4},
		{`{"steps": [{"action": "drag", "toX": 20}]}`, 2},
	}
	for _, tt := range tests {
		s := NewStage(StageConfig{Touch: TouchOff})
		runner, err := LoadTestScript([]byte(tt.src))
		if err != nil {
			t.Fatal(err)
		}
		runner.step(s)
		if got := s.PendingInput(); got != tt.queued {
			t.Errorf("%s: queued = %d, want %d", tt.src, got, tt.queued)
		}
		if runner.Done() {
			t.Errorf("%s: done while input is still queued", tt.src)
		}
		for s.processInjectedInput() {
		}
		runner.step(s)
		if !runner.Done() {
			t.Errorf("%s: not done once input drained", tt.src)
		}
	}
}

func TestRunnerWaitCountsFrames(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "mark", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for frame := 1; frame <= 3; frame++ {
		runner.step(s)
		if runner.Done() || len(runner.Marks()) != 0 {
			t.Fatalf("frame %d: mark reached during the wait", frame)
		}
	}
	runner.step(s)
	if !runner.Done() || !reflect.DeepEqual(runner.Marks(), []string{"done"}) {
		t.Errorf("after wait: done %v, marks %v", runner.Done(), runner.Marks())
	}
}

func TestRunnerHoldsWhileInputQueued(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "tap", "x": 50, "y": 50},
		{"action": "scroll", "y": 120},
		{"action": "mark", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s)
	runner.step(s)
	if runner.pos != 1 {
		t.Fatalf("pos = %d with input queued, want 1", runner.pos)
	}

	s.injectQueue = s.injectQueue[:0]
	runner.step(s)
	runner.step(s)
	if !reflect.DeepEqual(runner.Marks(), []string{"after"}) || !runner.Done() {
		t.Errorf("marks %v, done %v", runner.Marks(), runner.Done())
	}
}

func TestRunnerTapsButtonThroughStage(t *testing.T) {
	s := NewStage(StageConfig{Touch: TouchOff})
	c, err := NewNextButton(s, Props{})
	if err != nil {
		t.Fatal(err)
	}
	s.Root().AppendChild(c.Element())
	taps := 0
	c.On("tap", func(Component, ...any) { taps++ })

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "tap", "x": 20, "y": 20}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	for i := 0; i < 4; i++ {
		s.Step(16 * time.Millisecond)
	}

	if taps != 1 {
		t.Errorf("taps = %d, want 1", taps)
	}
	if !runner.Done() {
		t.Error("runner not done")
	}
}
