package vignette

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	activeShade   = 0.75
	selectedColor = Color{0.95, 0.75, 0.25, 1}
	disabledAlpha = 0.45
)

// renderer holds GPU-side state for a Stage: text faces per size and
// uploaded images. Created on the first Draw.
type renderer struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	images map[image.Image]*ebiten.Image
	seen   map[image.Image]bool
}

func newRenderer() (*renderer, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("vignette: failed to parse font: %w", err)
	}
	return &renderer{
		source: source,
		faces:  make(map[float64]*text.GoTextFace),
		images: make(map[image.Image]*ebiten.Image),
		seen:   make(map[image.Image]bool),
	}, nil
}

func (r *renderer) face(size float64) *text.GoTextFace {
	if size <= 0 {
		size = defaultFontSize
	}
	f, ok := r.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: r.source, Size: size}
		r.faces[size] = f
	}
	return f
}

// image returns the GPU copy of img, uploading it on first use.
func (r *renderer) image(img image.Image) *ebiten.Image {
	if eimg, ok := r.images[img]; ok {
		r.seen[img] = true
		return eimg
	}
	eimg := ebiten.NewImageFromImage(img)
	r.images[img] = eimg
	r.seen[img] = true
	return eimg
}

// sweep releases images that were not drawn this frame.
func (r *renderer) sweep() {
	for img, eimg := range r.images {
		if !r.seen[img] {
			eimg.Deallocate()
			delete(r.images, img)
		}
	}
	clear(r.seen)
}

// Draw lays out the document and paints it onto screen, offset by the
// scroll position. In debug mode an overlay with frame rates and stage
// counters is drawn on top.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.renderer == nil {
		r, err := newRenderer()
		if err != nil {
			panic(err)
		}
		s.renderer = r
	}
	s.layout()
	screen.Fill(s.ClearColor.RGBA())
	s.drawElement(screen, s.root, 1)
	s.renderer.sweep()

	if s.debug {
		s.drawOverlay(screen)
	}
	s.flushCaptures(screen)
}

func (s *Stage) drawElement(dst *ebiten.Image, e *Element, parentAlpha float64) {
	alpha := parentAlpha * e.Alpha
	if e.HasClass(ClassDisabled) {
		alpha *= disabledAlpha
	}
	if alpha <= 0 {
		return
	}

	b := e.bounds
	x := float32(b.X)
	y := float32(b.Y - s.scrollY)
	w, h := float32(b.Width), float32(b.Height)
	visible := b.Y+b.Height >= s.scrollY && b.Y <= s.scrollY+s.height

	if visible {
		if bg := e.Background; bg.A > 0 {
			if e.HasClass(ClassActive) {
				bg = Color{bg.R * activeShade, bg.G * activeShade, bg.B * activeShade, bg.A}
			}
			if e.HasClass(ClassSelected) {
				bg = selectedColor
			}
			vector.DrawFilledRect(dst, x, y, w, h, scaleAlpha(bg, alpha).RGBA(), false)
		}
		if e.Image != nil {
			s.drawImage(dst, e, alpha)
		}
		if e.Border {
			vector.StrokeRect(dst, x, y, w, h, 2, scaleAlpha(e.BorderColor, alpha).RGBA(), false)
		}
		if len(e.lines) > 0 {
			s.drawLines(dst, e, alpha)
		}
	}

	for _, c := range e.children {
		s.drawElement(dst, c, alpha)
	}
}

// drawImage scales the image to the element's width, cropping whatever
// falls below the element's height.
func (s *Stage) drawImage(dst *ebiten.Image, e *Element, alpha float64) {
	eimg := s.renderer.image(e.Image)
	iw := eimg.Bounds().Dx()
	if iw == 0 {
		return
	}
	b := e.bounds
	scale := b.Width / float64(iw)
	visibleH := int(b.Height / scale)
	if visibleH < eimg.Bounds().Dy() {
		eimg = eimg.SubImage(image.Rect(0, 0, iw, visibleH)).(*ebiten.Image)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(b.X, b.Y-s.scrollY)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(eimg, op)
}

func (s *Stage) drawLines(dst *ebiten.Image, e *Element, alpha float64) {
	face := s.renderer.face(e.FontSize)
	lh := lineHeight(e.FontSize)
	y := e.bounds.Y - s.scrollY + e.Padding
	for _, line := range e.lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(e.bounds.X+e.Padding, y)
		op.ColorScale.ScaleWithColor(e.TextColor.RGBA())
		op.ColorScale.ScaleAlpha(float32(alpha))
		op.LineSpacing = lh
		text.Draw(dst, line, face, op)
		y += lh
	}
}

func (s *Stage) drawOverlay(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\n%s", ebiten.ActualFPS(), ebiten.ActualTPS(), s.debugSummary())
	if s.Overlay != nil {
		msg += "\n" + s.Overlay()
	}
	vector.DrawFilledRect(screen, 0, 0, float32(s.width), 48, color.RGBA{0, 0, 0, 160}, false)
	ebitenutil.DebugPrint(screen, msg)
}

func scaleAlpha(c Color, a float64) Color {
	return Color{c.R, c.G, c.B, c.A * a}
}
