package vignette

import (
	"fmt"
)

// Option is one entry of a Choice.
type Option struct {
	Text     string
	selected bool
	el       *Element
	button   *Button
}

// Selected reports whether this option is the choice's current selection.
func (o *Option) Selected() bool {
	return o.selected
}

// Element returns the option's element.
func (o *Option) Element() *Element {
	return o.el
}

// Choice shows a title and a list of mutually exclusive options. Tapping an
// option selects it and emits "select" with the option's zero-based index.
//
// Props: title, options (list of strings or {text} tables).
type Choice struct {
	Base
	title    string
	titleEl  *Element
	options  []*Option
	selected int
}

// NewChoice is the Factory for "Choice".
func NewChoice(s Surface, props Props) (Component, error) {
	c := &Choice{selected: -1}
	var err error
	if c.title, err = props.String("title", ""); err != nil {
		return nil, err
	}
	texts, err := optionTexts(props)
	if err != nil {
		return nil, err
	}

	el := s.NewElement("choice")
	el.Padding = 12
	el.MarginBottom = componentMargin
	el.Background = Color{0.16, 0.16, 0.2, 1}

	c.titleEl = s.NewElement("choice-title")
	c.titleEl.MarginBottom = 8
	el.AppendChild(c.titleEl)

	for i, text := range texts {
		oel := s.NewElement(fmt.Sprintf("option-%d", i))
		oel.Padding = 12
		oel.MarginBottom = 8
		oel.Border = true
		oel.Background = Color{0.22, 0.22, 0.28, 1}
		el.AppendChild(oel)

		opt := &Option{Text: text, el: oel}
		index := i
		opt.button, err = NewButton(s, oel, func() {
			_ = c.Select(index)
		})
		if err != nil {
			return nil, err
		}
		c.options = append(c.options, opt)
	}
	c.Init(c, el)
	return c, nil
}

func optionTexts(props Props) ([]string, error) {
	list, err := props.List("options")
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case string:
			texts = append(texts, v)
		case map[string]any:
			text, err := Props(v).String("text", "")
			if err != nil {
				return nil, fmt.Errorf("option %d: %w", i, err)
			}
			texts = append(texts, text)
		default:
			return nil, fmt.Errorf("option %d: want string or table, got %T", i, item)
		}
	}
	return texts, nil
}

// Options returns the options in display order.
func (c *Choice) Options() []*Option {
	return c.options
}

// Selected returns the index of the selected option, or -1.
func (c *Choice) Selected() int {
	return c.selected
}

// Select marks option i as the only selected option and emits "select" with
// i. Selecting the current option again emits again.
func (c *Choice) Select(i int) error {
	if i < 0 || i >= len(c.options) {
		return fmt.Errorf("%w: %d of %d", ErrOptionIndex, i, len(c.options))
	}
	c.selected = i
	for j, o := range c.options {
		o.selected = j == i
		o.el.ToggleClass(ClassSelected, o.selected)
	}
	c.Emit("select", i)
	return nil
}

// Redraw applies the title and option texts.
func (c *Choice) Redraw() {
	c.titleEl.SetMarkup(c.title)
	for _, o := range c.options {
		o.el.SetText(o.Text)
		o.el.ToggleClass(ClassSelected, o.selected)
	}
}

// Detach stops all option buttons from listening.
func (c *Choice) Detach() {
	for _, o := range c.options {
		o.button.Detach()
	}
}
