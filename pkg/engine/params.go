package engine

import (
	"errors"
	"fmt"

	"reveal/internal/util"
	"reveal/pkg/config"
)

// ErrUnknownParam is returned when a parameter name is not in Specs
var ErrUnknownParam = errors.New("unknown parameter")

// ParamSpec describes one panel control
type ParamSpec struct {
	Name    string
	Min     float32
	Max     float32
	Step    float32
	Default float32

	field func(*config.EffectConfig) *float32
}

// Specs lists the tunables in panel order. Default is the value from
// config.DefaultEffect; Params.Spec reports the default of a live set.
var Specs = withDefaults(config.DefaultEffect(), []ParamSpec{
	{Name: "blur", Min: 0, Max: 10, Step: 0.01, field: func(e *config.EffectConfig) *float32 { return &e.Blur }},
	{Name: "blurIntensity", Min: 0, Max: 20, Step: 0.1, field: func(e *config.EffectConfig) *float32 { return &e.BlurIntensity }},
	{Name: "threshold", Min: 0, Max: 1, Step: 0.01, field: func(e *config.EffectConfig) *float32 { return &e.Threshold }},
	{Name: "softness", Min: 0, Max: 1, Step: 0.01, field: func(e *config.EffectConfig) *float32 { return &e.Softness }},
	{Name: "noise1Size", Min: 1, Max: 200, Step: 0.1, field: func(e *config.EffectConfig) *float32 { return &e.Noise1Size }},
	{Name: "noise1Freq", Min: 0.001, Max: 1, Step: 0.001, field: func(e *config.EffectConfig) *float32 { return &e.Noise1Freq }},
	{Name: "noise2Size", Min: 1, Max: 200, Step: 0.1, field: func(e *config.EffectConfig) *float32 { return &e.Noise2Size }},
	{Name: "noise2Freq", Min: 0.001, Max: 1, Step: 0.001, field: func(e *config.EffectConfig) *float32 { return &e.Noise2Freq }},
	{Name: "noise2Factor", Min: 0, Max: 1, Step: 0.01, field: func(e *config.EffectConfig) *float32 { return &e.Noise2Factor }},
	{Name: "noise3Size", Min: 1, Max: 200, Step: 0.1, field: func(e *config.EffectConfig) *float32 { return &e.Noise3Size }},
	{Name: "noise3Freq", Min: 0.001, Max: 1, Step: 0.001, field: func(e *config.EffectConfig) *float32 { return &e.Noise3Freq }},
	{Name: "noise3Factor", Min: 0, Max: 1, Step: 0.01, field: func(e *config.EffectConfig) *float32 { return &e.Noise3Factor }},
})

func withDefaults(defaults config.EffectConfig, specs []ParamSpec) []ParamSpec {
	for i := range specs {
		specs[i].Default = *specs[i].field(&defaults)
	}
	return specs
}

// Clamp limits v to the control range and snaps it to the step grid
func (s ParamSpec) Clamp(v float32) float32 {
	v = util.Clamp(v, s.Min, s.Max)
	snapped := util.Snap(v, s.Min, s.Step)
	// values already on the grid are kept bit-exact
	if d := snapped - v; d < s.Step*1e-3 && d > -s.Step*1e-3 {
		return v
	}
	return util.Clamp(snapped, s.Min, s.Max)
}

// Params is the live parameter set shared by the panel, the params file
// watcher and the per-frame uniform sync. It is only touched from the
// render thread.
type Params struct {
	values   config.EffectConfig
	defaults config.EffectConfig
}

// NewParams creates a parameter set; initial values become the reset
// defaults. Out-of-range values are clamped.
func NewParams(initial config.EffectConfig) *Params {
	p := &Params{}
	for _, s := range Specs {
		v := s.Clamp(*s.field(&initial))
		*s.field(&p.values) = v
		*s.field(&p.defaults) = v
	}
	return p
}

// lookup returns the spec for a name
func lookup(name string) (ParamSpec, error) {
	for _, s := range Specs {
		if s.Name == name {
			return s, nil
		}
	}
	return ParamSpec{}, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Spec returns the control description for name with its current default
func (p *Params) Spec(name string) (ParamSpec, error) {
	s, err := lookup(name)
	if err != nil {
		return s, err
	}
	s.Default = *s.field(&p.defaults)
	return s, nil
}

// Get returns the current value of a parameter
func (p *Params) Get(name string) (float32, bool) {
	s, err := lookup(name)
	if err != nil {
		return 0, false
	}
	return *s.field(&p.values), true
}

// Set stores a clamped, step-aligned value and returns what was stored
func (p *Params) Set(name string, v float32) (float32, error) {
	s, err := lookup(name)
	if err != nil {
		return 0, err
	}
	v = s.Clamp(v)
	*s.field(&p.values) = v
	return v, nil
}

// Reset restores one parameter to its default
func (p *Params) Reset(name string) (float32, error) {
	s, err := lookup(name)
	if err != nil {
		return 0, err
	}
	v := *s.field(&p.defaults)
	*s.field(&p.values) = v
	return v, nil
}

// ResetAll restores every parameter to its default
func (p *Params) ResetAll() {
	p.values = p.defaults
}

// Apply merges a whole parameter set, e.g. from the params file, and
// returns the names whose value changed.
func (p *Params) Apply(effect config.EffectConfig) []string {
	var changed []string
	for _, s := range Specs {
		v := s.Clamp(*s.field(&effect))
		cur := s.field(&p.values)
		if *cur != v {
			*cur = v
			changed = append(changed, s.Name)
		}
	}
	return changed
}

// Effect returns a copy of the current values
func (p *Params) Effect() config.EffectConfig {
	return p.values
}
