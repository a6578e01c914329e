package vignette

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	defaultPanelHeight = 200
	componentMargin    = 16
)

// Caption is a text overlay positioned inside a Panel. Text is markup.
type Caption struct {
	X, Y float64
	Text string
}

// Panel shows an optional image with positioned captions.
//
// Props: image (URL), height (px, default 200), border (bool, default true),
// captions (list of {x, y, text}).
type Panel struct {
	Base
	surface    Surface
	imageURL   string
	height     float64
	border     bool
	captions   []Caption
	captionEls []*Element
	img        image.Image
}

// NewPanel is the Factory for "Panel".
func NewPanel(s Surface, props Props) (Component, error) {
	p := &Panel{surface: s}
	var err error
	if p.imageURL, err = props.String("image", ""); err != nil {
		return nil, err
	}
	if p.height, err = props.Float("height", defaultPanelHeight); err != nil {
		return nil, err
	}
	if p.border, err = props.Bool("border", true); err != nil {
		return nil, err
	}
	if p.captions, err = captionsFromProps(props); err != nil {
		return nil, err
	}

	el := s.NewElement("panel")
	el.MarginBottom = componentMargin
	el.Background = Color{0.12, 0.12, 0.14, 1}
	for i := range p.captions {
		cel := s.NewElement(fmt.Sprintf("caption-%d", i))
		cel.Absolute = true
		cel.Padding = 6
		cel.FontSize = 16
		cel.Background = Color{0, 0, 0, 0.6}
		el.AppendChild(cel)
		p.captionEls = append(p.captionEls, cel)
	}
	p.Init(p, el)
	return p, nil
}

func captionsFromProps(props Props) ([]Caption, error) {
	list, err := props.List("captions")
	if err != nil {
		return nil, err
	}
	captions := make([]Caption, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("caption %d: want table, got %T", i, item)
		}
		cp := Props(m)
		var c Caption
		if c.X, err = cp.Float("x", 0); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i, err)
		}
		if c.Y, err = cp.Float("y", 0); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i, err)
		}
		if c.Text, err = cp.String("text", ""); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i, err)
		}
		captions = append(captions, c)
	}
	return captions, nil
}

// Captions returns the panel's captions.
func (p *Panel) Captions() []Caption {
	return p.captions
}

// Image returns the decoded image, or nil before Load resolves or when the
// panel has none.
func (p *Panel) Image() image.Image {
	return p.img
}

// Load fetches and decodes the panel image, if any.
func (p *Panel) Load() *Future[struct{}] {
	if p.imageURL == "" {
		return Resolved(struct{}{})
	}
	fut := NewFuture[struct{}]()
	p.surface.Fetch("GET", p.imageURL).Then(func(body string, err error) {
		if err != nil {
			fut.Reject(fmt.Errorf("vignette: load panel image: %w", err))
			return
		}
		img, _, err := image.Decode(strings.NewReader(body))
		if err != nil {
			fut.Reject(fmt.Errorf("vignette: decode panel image %s: %w", p.imageURL, err))
			return
		}
		p.img = img
		fut.Resolve(struct{}{})
	})
	return fut
}

// Redraw applies height, border, image and caption layout.
func (p *Panel) Redraw() {
	el := p.el
	el.Height = p.height
	el.Border = p.border
	el.Image = p.img
	for i, c := range p.captions {
		cel := p.captionEls[i]
		cel.X, cel.Y = c.X, c.Y
		cel.SetMarkup(c.Text)
	}
}
