package vignette

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Capture queues a PNG capture of the next drawn frame. The file is written
// to the stage's CaptureDir as <scene time>_<label>.png.
func (s *Stage) Capture(label string) {
	s.captureQueue = append(s.captureQueue, label)
}

// PendingCaptures returns the labels waiting for the next Draw.
func (s *Stage) PendingCaptures() []string {
	return s.captureQueue
}

// flushCaptures writes every queued capture from the frame just drawn.
func (s *Stage) flushCaptures(screen *ebiten.Image) {
	if len(s.captureQueue) == 0 {
		return
	}
	defer func() { s.captureQueue = s.captureQueue[:0] }()

	if err := os.MkdirAll(s.CaptureDir, 0o755); err != nil {
		log.Printf("[vignette] capture: mkdir %s: %v", s.CaptureDir, err)
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := fmt.Sprintf("%06d", s.loop.Now().Milliseconds())
	for _, label := range s.captureQueue {
		path := filepath.Join(s.CaptureDir, stamp+"_"+captureName(label)+".png")
		if err := writePNG(path, img); err != nil {
			log.Printf("[vignette] capture: %v", err)
			continue
		}
		s.debugf("captured %s", path)
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		copy(img.Pix[i:i+4], []byte{r, g, b, a})
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// captureName makes label safe for a file name.
func captureName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
