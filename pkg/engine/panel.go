package engine

import (
	"fmt"

	"reveal/pkg/config"
)

// coarseMultiplier scales one step when the coarse modifier is held
const coarseMultiplier = 10

// Panel is a keyboard-driven settings panel bound to a live Params.
// It has no widgets of its own; the host shows Title somewhere visible.
type Panel struct {
	params   *Params
	selected int

	// OnChange is called after every value change
	OnChange func(name string, value float32)
}

// NewPanel binds a panel to params with the first control selected
func NewPanel(params *Params) *Panel {
	return &Panel{params: params}
}

// Selected returns the control under the cursor with its current default
func (p *Panel) Selected() ParamSpec {
	s, _ := p.params.Spec(Specs[p.selected].Name)
	return s
}

// Next moves the cursor to the next control, wrapping around
func (p *Panel) Next() {
	p.selected = (p.selected + 1) % len(Specs)
}

// Prev moves the cursor to the previous control, wrapping around
func (p *Panel) Prev() {
	p.selected = (p.selected - 1 + len(Specs)) % len(Specs)
}

// Select moves the cursor to the named control
func (p *Panel) Select(name string) error {
	for i, s := range Specs {
		if s.Name == name {
			p.selected = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Increase raises the selected value by one step, or ten when coarse
func (p *Panel) Increase(coarse bool) float32 {
	return p.nudge(1, coarse)
}

// Decrease lowers the selected value by one step, or ten when coarse
func (p *Panel) Decrease(coarse bool) float32 {
	return p.nudge(-1, coarse)
}

func (p *Panel) nudge(dir float32, coarse bool) float32 {
	s := Specs[p.selected]
	step := s.Step
	if coarse {
		step *= coarseMultiplier
	}
	cur, _ := p.params.Get(s.Name)
	v, _ := p.params.Set(s.Name, cur+dir*step)
	if v != cur {
		p.changed(s.Name, v)
	}
	return v
}

// ResetSelected restores the selected control to its default
func (p *Panel) ResetSelected() float32 {
	name := Specs[p.selected].Name
	before, _ := p.params.Get(name)
	v, _ := p.params.Reset(name)
	if v != before {
		p.changed(name, v)
	}
	return v
}

// ResetAll restores every control and reports each one that moved
func (p *Panel) ResetAll() {
	before := p.params.Effect()
	p.params.ResetAll()
	after := p.params.Effect()
	for _, s := range Specs {
		if *s.field(&before) != *s.field(&after) {
			p.changed(s.Name, *s.field(&after))
		}
	}
}

// Apply merges an externally edited parameter set, firing OnChange for
// every value that moved
func (p *Panel) Apply(effect config.EffectConfig) []string {
	changed := p.params.Apply(effect)
	for _, name := range changed {
		v, _ := p.params.Get(name)
		p.changed(name, v)
	}
	return changed
}

// Save writes the current values to a params file
func (p *Panel) Save(path string) error {
	return config.SaveEffect(p.params.Effect(), path)
}

// Title renders the selected control for a window title or status line
func (p *Panel) Title() string {
	s := Specs[p.selected]
	v, _ := p.params.Get(s.Name)
	return fmt.Sprintf("[%d/%d] %s = %g (%g..%g)", p.selected+1, len(Specs), s.Name, v, s.Min, s.Max)
}

func (p *Panel) changed(name string, v float32) {
	if p.OnChange != nil {
		p.OnChange(name, v)
	}
}
