package vignette

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

const startScript = `
ready(function(context)
  local panel = create("panel", { height = 120, captions = { { x = 8, y = 8, text = "Hello" } } })
  local choice = create("choice", { title = "Pick", options = { "one", "two", "three" } })
  local next_button = create("next-button", { disabled = true, label = "Next" })

  choice:on("select", function(index)
    next_button:disabled(false)
    context.selectedIndex = index
  end)
  next_button:on("tap", function()
    next()
  end)

  append({ panel, choice, next_button })
end)
`

const nextScript = `
ready(function(context)
  local panel = create("panel", {
    height = 120,
    captions = { { x = 24, y = 96, text = "Selected: Option " .. (context.selectedIndex + 1) } },
  })
  local restart_button = create("restart-button")
  restart_button:on("tap", function()
    restart()
  end)
  append({ panel, restart_button })
end)
`

const storyFlow = `
defaults:
  selectedIndex: -1
scenes:
  start:
    next: next
    carry: [selectedIndex]
  next: {}
`

func newScriptEngine(t *testing.T, scripts map[string]string, content ContentProvider) (*Stage, *Engine) {
	t.Helper()
	res := make(map[string]fakeResource, len(scripts))
	for name, src := range scripts {
		res["scenes/"+name+".lua"] = fakeResource{body: src}
	}
	s := newTestStage(TouchOff, res)
	return s, NewEngine(s, content)
}

// tracedFlow records the content calls a Flow receives.
type tracedFlow struct {
	*Flow
	calls []string
}

func (f *tracedFlow) Load(name string, ctx *SceneContext) {
	f.calls = append(f.calls, "load:"+name)
	f.Flow.Load(name, ctx)
}

func (f *tracedFlow) Next(current string, ctx *SceneContext) string {
	f.calls = append(f.calls, "next:"+current)
	return f.Flow.Next(current, ctx)
}

func (f *tracedFlow) Restart(current string, ctx *SceneContext) {
	f.calls = append(f.calls, "restart:"+current)
	f.Flow.Restart(current, ctx)
}

func TestScriptedStory(t *testing.T) {
	parsed, err := ParseFlow([]byte(storyFlow))
	if err != nil {
		t.Fatal(err)
	}
	flow := &tracedFlow{Flow: parsed}
	s, e := newScriptEngine(t, map[string]string{"start": startScript, "next": nextScript}, flow)

	load := e.Load("start")
	advance(s, time.Second)
	if err := load.Err(); err != nil {
		t.Fatalf("load start: %v", err)
	}
	cs := e.Components()
	if len(cs) != 3 {
		t.Fatalf("components = %d, want 3", len(cs))
	}
	for _, c := range cs {
		if c.Lifecycle() != LifecycleRevealed {
			t.Fatalf("%s lifecycle = %v, want revealed", c.Element().Name, c.Lifecycle())
		}
	}
	choice := cs[1].(*Choice)
	next := cs[2].(*NextButton)
	if !next.IsDisabled() {
		t.Fatal("next button should start disabled")
	}

	tap(t, s, next.Element())
	if e.State() != StateActive {
		t.Fatal("tapping a disabled next button must not transition")
	}

	tap(t, s, choice.Options()[1].Element())
	if next.IsDisabled() {
		t.Fatal("select did not enable the next button")
	}
	if v, ok := e.Context().Int("selectedIndex"); !ok || v != 1 {
		t.Fatalf("context selectedIndex = %v, %v, want 1", v, ok)
	}

	startContainer := e.Container()
	tap(t, s, next.Element())
	if !startContainer.HasClass(ClassHidden) {
		t.Fatal("next() did not hide the scene")
	}
	advance(s, time.Second)

	if e.Current() != "next" {
		t.Fatalf("Current() = %q, want next", e.Current())
	}
	// One tap, one next().
	if want := []string{"load:start", "next:start", "load:next"}; !reflect.DeepEqual(flow.calls, want) {
		t.Fatalf("content calls = %v, want %v", flow.calls, want)
	}
	panel := e.Components()[0].(*Panel)
	if got := panel.Captions()[0].Text; got != "Selected: Option 2" {
		t.Errorf("caption = %q, want %q", got, "Selected: Option 2")
	}
	if !startContainer.IsDisposed() {
		t.Error("start container not removed")
	}

	restart := e.Components()[1].(*RestartButton)
	tap(t, s, restart.Element())
	advance(s, time.Second)

	if e.Current() != "start" {
		t.Errorf("Current() = %q after restart, want start", e.Current())
	}
	want := []string{"load:start", "next:start", "load:next", "restart:next", "load:start"}
	if !reflect.DeepEqual(flow.calls, want) {
		t.Errorf("content calls = %v, want %v", flow.calls, want)
	}
	if v, _ := flow.Carried("selectedIndex"); v != -1 {
		t.Errorf("carried selectedIndex = %v after restart, want -1", v)
	}
	if v, _ := e.Context().Int("selectedIndex"); v != -1 {
		t.Errorf("start context selectedIndex = %v, want -1", v)
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
	}{
		{"syntax", `ready(function(`, ErrScript},
		{"runtime", `error("boom")`, ErrScript},
		{"unknown type", `create("carousel", {})`, ErrUnknownComponentType},
		{"unsupported method", `create("panel"):disabled(true)`, ErrUnsupportedMethod},
		{"option index", `create("choice", { options = { "a" } }):select(3)`, ErrOptionIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := newScriptEngine(t, map[string]string{"start": tt.src}, nil)
			load := e.Load("start")
			s.Loop().Advance(0)
			err := load.Err()
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
			if !errors.Is(err, ErrScript) {
				t.Errorf("err = %v, want it wrapped in ErrScript", err)
			}
		})
	}
}

func TestScriptSceneNotFound(t *testing.T) {
	s, e := newScriptEngine(t, nil, nil)
	load := e.Load("missing")
	s.Loop().Advance(0)
	if err := load.Err(); !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("err = %v, want ErrSceneNotFound", err)
	}
}

func TestScriptContextAndEmitter(t *testing.T) {
	src := `
context.name = "story"
context.ratio = 0.5
context.flag = true
context.tags = { "a", "b" }

local button = create("NextButton")
local count = 0
button:on("ping", function(n, label)
  count = count + n
  context.count = count
  context.label = label
end)
button:emit("ping", 2, "x")
button:emit("ping", 3, "y")
button:remove_all_listeners("ping")
button:emit("ping", 100, "z")

append({ button }, function(err)
  context.done = (err == nil)
end)
`
	s, e := newScriptEngine(t, map[string]string{"start": src}, nil)
	load := e.Load("start")
	advance(s, time.Second)
	if err := load.Err(); err != nil {
		t.Fatal(err)
	}

	ctx := e.Context()
	if v, _ := ctx.String("name"); v != "story" {
		t.Errorf("name = %q", v)
	}
	if v, _ := ctx.Get("ratio"); v != 0.5 {
		t.Errorf("ratio = %v", v)
	}
	if v, _ := ctx.Get("flag"); v != true {
		t.Errorf("flag = %v", v)
	}
	if v, _ := ctx.Get("tags"); len(v.([]any)) != 2 {
		t.Errorf("tags = %v", v)
	}
	if v, _ := ctx.Int("count"); v != 5 {
		t.Errorf("count = %v, want 5", v)
	}
	if v, _ := ctx.String("label"); v != "y" {
		t.Errorf("label = %q, want y", v)
	}
	if v, _ := ctx.Get("done"); v != true {
		t.Errorf("append done callback: done = %v", v)
	}
}

func TestScriptSceneTable(t *testing.T) {
	src := `
scene.ready(function(ctx)
  ctx.seen = ctx.scene
  scene.append({ scene.create("panel") })
end)
`
	s, e := newScriptEngine(t, map[string]string{"start": src}, nil)
	e.Load("start")
	advance(s, 200*time.Millisecond)
	if v, _ := e.Context().String("seen"); v != "start" {
		t.Errorf("seen = %q, want start", v)
	}
	if len(e.Components()) != 1 {
		t.Errorf("components = %d, want 1", len(e.Components()))
	}
}
