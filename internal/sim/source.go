package sim

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"exposuresim/internal/config"
)

type DecayMode int

const (
	// Linear subtracts the raw distance from the strength inside the radius.
	Linear DecayMode = iota
	// Constant gives the full strength anywhere inside the radius.
	Constant
)

func (m DecayMode) String() string {
	switch m {
	case Linear:
		return config.DecayLinear
	case Constant:
		return config.DecayConstant
	}
	return fmt.Sprintf("DecayMode(%d)", int(m))
}

func ParseDecayMode(s string) (DecayMode, error) {
	switch s {
	case config.DecayLinear:
		return Linear, nil
	case config.DecayConstant:
		return Constant, nil
	}
	return 0, fmt.Errorf("unknown decay mode %q", s)
}

// ExposureSource is a fixed contamination emitter. It is a value type and
// safe to share between simulations.
type ExposureSource struct {
	Name     string
	Strength float64
	Radius   float64
	Pos      orb.Point
	Decay    DecayMode
}

func NewExposureSource(name string, strength, radius float64, pos orb.Point, decay DecayMode) (ExposureSource, error) {
	if strength <= 0 {
		return ExposureSource{}, fmt.Errorf("source %q: strength %v must be positive", name, strength)
	}
	if radius < 0 {
		return ExposureSource{}, fmt.Errorf("source %q: radius %v must not be negative", name, radius)
	}
	return ExposureSource{Name: name, Strength: strength, Radius: radius, Pos: pos, Decay: decay}, nil
}

// NewSources builds sources from scenario definitions, keeping their order.
func NewSources(defs []config.SourceDef) ([]ExposureSource, error) {
	out := make([]ExposureSource, 0, len(defs))
	for _, d := range defs {
		mode, err := ParseDecayMode(d.Decay)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", d.Name, err)
		}
		src, err := NewExposureSource(d.Name, d.Strength, d.Radius, orb.Point{d.X, d.Y}, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// ExposureAt is the exposure one day at p contributes.
func (s ExposureSource) ExposureAt(p orb.Point) float64 {
	d := distance(p, s.Pos)
	if d > s.Radius {
		return 0
	}
	if s.Decay == Linear {
		return math.Max(0, s.Strength-d)
	}
	return s.Strength
}
