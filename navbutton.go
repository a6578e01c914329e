package vignette

// navButton is the shared implementation of NextButton and RestartButton: a
// labelled Button that emits a bare "tap".
type navButton struct {
	Base
	label  string
	button *Button
}

func (n *navButton) build(s Surface, props Props, owner Component, name, defLabel string) error {
	label, err := props.String("label", defLabel)
	if err != nil {
		return err
	}
	if n.label, err = props.String("text", label); err != nil {
		return err
	}
	disabled, err := props.Bool("disabled", false)
	if err != nil {
		return err
	}

	el := s.NewElement(name)
	el.Padding = 14
	el.MarginBottom = componentMargin
	el.Border = true
	el.Background = Color{0.2, 0.35, 0.6, 1}

	n.button, err = NewButton(s, el, func() {
		n.Emit("tap")
	})
	if err != nil {
		return err
	}
	n.button.SetDisabled(disabled)
	n.Init(owner, el)
	return nil
}

// Disabled enables or disables the button. A disabled button never emits
// "tap". Setting the current value again is a no-op.
func (n *navButton) Disabled(v bool) {
	n.button.SetDisabled(v)
}

// IsDisabled reports whether the button is disabled.
func (n *navButton) IsDisabled() bool {
	return n.button.Disabled()
}

// Label returns the button text.
func (n *navButton) Label() string {
	return n.label
}

// Redraw applies the label markup.
func (n *navButton) Redraw() {
	n.el.SetMarkup(n.label)
}

// Detach stops listening for gestures.
func (n *navButton) Detach() {
	n.button.Detach()
}

// NextButton advances to the next scene when wired to Engine.Next.
//
// Props: text or label (default "Next"), disabled (bool).
type NextButton struct {
	navButton
}

// NewNextButton is the Factory for "NextButton".
func NewNextButton(s Surface, props Props) (Component, error) {
	b := &NextButton{}
	if err := b.build(s, props, b, "next-button", "Next"); err != nil {
		return nil, err
	}
	return b, nil
}

// RestartButton returns to the start scene when wired to Engine.Restart.
//
// Props: text or label (default "Restart"), disabled (bool).
type RestartButton struct {
	navButton
}

// NewRestartButton is the Factory for "RestartButton".
func NewRestartButton(s Surface, props Props) (Component, error) {
	b := &RestartButton{}
	if err := b.build(s, props, b, "restart-button", "Restart"); err != nil {
		return nil, err
	}
	return b, nil
}
