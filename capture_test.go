package vignette

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"start", "start"},
		{"after-choice", "after-choice"},
		{"scene.02", "scene.02"},
		{"has spaces", "has_spaces"},
		{"a/b\\c", "a_b_c"},
		{"", "unlabeled"},
		{"  ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := captureName(tt.in); got != tt.want {
			t.Errorf("captureName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		100, 50, 0, 200,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}, 3, 1)
	want := []byte{127, 63, 0, 200, 10, 20, 30, 255, 0, 0, 0, 0}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], b)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("width = %d, want 2", img.Bounds().Dx())
	}
}

func TestCaptureQueuedByTestRunner(t *testing.T) {
	s := NewStage(StageConfig{})
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "capture", "label": "first"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	s.Step(0)

	if got := s.PendingCaptures(); len(got) != 1 || got[0] != "first" {
		t.Errorf("PendingCaptures() = %v, want [first]", got)
	}
}
