package vignette

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

// fakeResource is what the fake fetcher serves for one URL.
type fakeResource struct {
	body  string
	delay time.Duration
	err   error
}

// newFakeFetcher serves resources from a map, settling each fetch on the
// loop after the resource's delay. Unknown URLs fail with a 404.
func newFakeFetcher(res map[string]fakeResource) Fetcher {
	return FetcherFunc(func(loop *Loop, method, url string) *Future[string] {
		f := NewFuture[string]()
		r, ok := res[url]
		if !ok {
			r.err = &StatusError{URL: url, Code: 404}
		}
		loop.After(r.delay, func() {
			if r.err != nil {
				f.Reject(r.err)
				return
			}
			f.Resolve(r.body)
		})
		return f
	})
}

func newTestStage(touch TouchMode, res map[string]fakeResource) *Stage {
	return NewStage(StageConfig{Touch: touch, Fetcher: newFakeFetcher(res)})
}

// advance steps the stage in 10ms ticks so that timers, injected input and
// tweens all progress.
func advance(s *Stage, d time.Duration) {
	const tick = 10 * time.Millisecond
	for d > 0 {
		dt := min(tick, d)
		s.Step(dt)
		d -= dt
	}
}

// tap injects a tap at the center of el and steps until it is consumed.
func tap(t *testing.T, s *Stage, el *Element) {
	t.Helper()
	s.layout()
	b := el.Bounds()
	if b.Width == 0 || b.Height == 0 {
		t.Fatalf("tap: element %q has empty bounds %+v", el.Name, b)
	}
	s.InjectTap(b.X+b.Width/2, b.Y+b.Height/2)
	for s.PendingInput() > 0 {
		s.Step(time.Millisecond)
	}
}

// await waits for a future settled by a background goroutine.
func await[T any](t *testing.T, loop *Loop, f *Future[T]) (T, error) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for !f.Settled() {
		select {
		case <-loop.Wakeup():
			loop.Advance(0)
		case <-timeout:
			t.Fatal("future did not settle")
		}
	}
	return f.Result()
}

func testPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

// testComponent is a component whose load is settled by the test.
type testComponent struct {
	Base
	load    *Future[struct{}]
	redraws int
}

func newTestComponent(s Surface, name string) *testComponent {
	c := &testComponent{load: NewFuture[struct{}]()}
	c.Init(c, s.NewElement(name))
	c.el.Height = 50
	return c
}

func (c *testComponent) Load() *Future[struct{}] { return c.load }
func (c *testComponent) Redraw()                 { c.redraws++ }

// recordingContent is a ContentProvider that records its calls.
type recordingContent struct {
	next     string
	loads    []string
	nexts    []string
	restarts []string
	nextCtx  *SceneContext
	// calls interleaves every call as "load:x", "next:x" or "restart:x".
	calls []string
}

func (c *recordingContent) Load(name string, ctx *SceneContext) {
	c.loads = append(c.loads, name)
	c.calls = append(c.calls, "load:"+name)
}

func (c *recordingContent) Next(current string, ctx *SceneContext) string {
	c.nexts = append(c.nexts, current)
	c.calls = append(c.calls, "next:"+current)
	c.nextCtx = ctx
	return c.next
}

func (c *recordingContent) Restart(current string, ctx *SceneContext) {
	c.restarts = append(c.restarts, current)
	c.calls = append(c.calls, "restart:"+current)
}
