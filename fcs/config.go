// fcs/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	"fmt"

	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/math"
	"github.com/mmp/sixdof/util"
)

// Config is the declarative description of a flight control system, as
// found in the "flight_controls" section of a vehicle definition.
type Config struct {
	Inputs    []InputConfig    `json:"control_inputs" msgpack:"control_inputs"`
	Modifiers []ModifierConfig `json:"modifiers,omitempty" msgpack:"modifiers"`
	Surfaces  []SurfaceConfig  `json:"control_surfaces,omitempty" msgpack:"control_surfaces"`
	Values    []ValueConfig    `json:"control_values,omitempty" msgpack:"control_values"`
	Booleans  []BooleanConfig  `json:"control_booleans,omitempty" msgpack:"control_booleans"`
}

type InputConfig struct {
	Name string `json:"name" msgpack:"name"`
	Bool bool   `json:"bool,omitempty" msgpack:"bool"`
}

type ModifierConfig struct {
	Name string `json:"name" msgpack:"name"`
	// See ParseModifierType for the available types.
	Type  string     `json:"type" msgpack:"type"`
	Gain  *float64   `json:"gain,omitempty" msgpack:"gain"`
	Min   *float64   `json:"min,omitempty" msgpack:"min"`
	Max   *float64   `json:"max,omitempty" msgpack:"max"`
	Table math.Curve `json:"table,omitempty" msgpack:"table"`
}

type StreamConfig struct {
	Input     string   `json:"input" msgpack:"input"`
	Modifiers []string `json:"modifiers,omitempty" msgpack:"modifiers"`
	Override  bool     `json:"override,omitempty" msgpack:"override"`
}

type SurfaceConfig struct {
	Name               string          `json:"name" msgpack:"name"`
	Inputs             []StreamConfig  `json:"inputs" msgpack:"inputs"`
	MinAngle           *float64        `json:"min_angle_deg" msgpack:"min_angle_deg"`
	MaxAngle           *float64        `json:"max_angle_deg" msgpack:"max_angle_deg"`
	InitialAngle       float64         `json:"initial_angle_deg,omitempty" msgpack:"initial_angle_deg"`
	AngleMappingAuto   math.Curve      `json:"angle_mapping_auto,omitempty" msgpack:"angle_mapping_auto"`
	AngleMappingManual math.Curve      `json:"angle_mapping_manual,omitempty" msgpack:"angle_mapping_manual"`
	OverridePolicy     string          `json:"override_policy,omitempty" msgpack:"override_policy"`
	Actuator           *ActuatorConfig `json:"actuator,omitempty" msgpack:"actuator"`
}

type ActuatorConfig struct {
	MaxPositiveRate float64 `json:"max_positive_rate_dps" msgpack:"max_positive_rate_dps"`
	MaxNegativeRate float64 `json:"max_negative_rate_dps" msgpack:"max_negative_rate_dps"`
	// The actuator's travel limits default to the surface's.
	MinAngle *float64 `json:"min_angle_deg,omitempty" msgpack:"min_angle_deg"`
	MaxAngle *float64 `json:"max_angle_deg,omitempty" msgpack:"max_angle_deg"`
}

type ValueConfig struct {
	Name           string         `json:"name" msgpack:"name"`
	Inputs         []StreamConfig `json:"inputs" msgpack:"inputs"`
	Min            *float64       `json:"min,omitempty" msgpack:"min"`
	Max            *float64       `json:"max,omitempty" msgpack:"max"`
	OverridePolicy string         `json:"override_policy,omitempty" msgpack:"override_policy"`
}

type BooleanConfig struct {
	Name           string         `json:"name" msgpack:"name"`
	Inputs         []StreamConfig `json:"inputs" msgpack:"inputs"`
	Threshold      *float64       `json:"threshold,omitempty" msgpack:"threshold"`
	OverridePolicy string         `json:"override_policy,omitempty" msgpack:"override_policy"`
}

// Unbounded control values are limited to this magnitude.
const defaultValueLimit = 1e9

// NewSystem builds a flight control system from its configuration.
// Problems with individual inputs, modifiers, and elements are reported
// to e; the offending item is left out and the rest of the system is
// built. The returned System is always usable. Inputs are added to reg,
// which may be shared with the command blender; if it is nil a new
// registry is created.
func NewSystem(cfg Config, reg *Registry, e *util.ErrorLogger, lg *log.Logger) *System {
	if e == nil {
		e = &util.ErrorLogger{}
	}
	defer e.CheckDepth(e.CurrentDepth())

	if reg == nil {
		reg = &Registry{}
	}
	s := newSystem(reg)

	e.Push("control_inputs")
	for _, ic := range cfg.Inputs {
		kind := FloatInput
		if ic.Bool {
			kind = BoolInput
		}
		if _, err := reg.Add(ic.Name, kind); err != nil {
			e.Error(err)
		}
	}
	e.Pop()

	e.Push("modifiers")
	for _, mc := range cfg.Modifiers {
		e.Push(mc.Name)
		if m, err := buildModifier(mc); err != nil {
			e.Error(err)
		} else if s.modifierHandle(m.Name) != 0 {
			e.Error(ErrDuplicateModifier)
		} else {
			s.Modifiers = append(s.Modifiers, m)
		}
		e.Pop()
	}
	e.Pop()

	e.Push("control_surfaces")
	for _, sc := range cfg.Surfaces {
		e.Push(sc.Name)
		n := e.Count()
		surf := s.buildSurface(sc, e)
		if s.ControlSurfaceHandle(sc.Name) != 0 {
			e.Error(ErrDuplicateElement)
		}
		if e.Count() == n {
			s.Surfaces = append(s.Surfaces, surf)
		} else {
			lg.Warn("control surface dropped", "surface", sc.Name)
		}
		e.Pop()
	}
	e.Pop()

	e.Push("control_values")
	for _, vc := range cfg.Values {
		e.Push(vc.Name)
		n := e.Count()
		cv := &ControlValue{
			Name:    vc.Name,
			Streams: s.buildStreams(vc.Inputs, e),
			Policy:  s.buildPolicy(vc.OverridePolicy, e),
			Min:     -defaultValueLimit,
			Max:     defaultValueLimit,
		}
		if vc.Min != nil {
			cv.Min = *vc.Min
		}
		if vc.Max != nil {
			cv.Max = *vc.Max
		}
		if cv.Min > cv.Max {
			e.ErrorString("min %g > max %g: %v", cv.Min, cv.Max, ErrInvalidLimits)
		}
		if s.ControlValueHandle(vc.Name) != 0 {
			e.Error(ErrDuplicateElement)
		}
		if e.Count() == n {
			s.Values = append(s.Values, cv)
		} else {
			lg.Warn("control value dropped", "value", vc.Name)
		}
		e.Pop()
	}
	e.Pop()

	e.Push("control_booleans")
	for _, bc := range cfg.Booleans {
		e.Push(bc.Name)
		n := e.Count()
		cb := &ControlBoolean{
			Name:      bc.Name,
			Streams:   s.buildStreams(bc.Inputs, e),
			Policy:    s.buildPolicy(bc.OverridePolicy, e),
			Threshold: DefaultBooleanThreshold,
		}
		if bc.Threshold != nil {
			cb.Threshold = *bc.Threshold
		}
		if s.ControlBooleanHandle(bc.Name) != 0 {
			e.Error(ErrDuplicateElement)
		}
		if e.Count() == n {
			s.Booleans = append(s.Booleans, cb)
		} else {
			lg.Warn("control boolean dropped", "boolean", bc.Name)
		}
		e.Pop()
	}
	e.Pop()

	lg.Debug("flight control system built",
		"inputs", len(reg.Inputs), "modifiers", len(s.Modifiers), "surfaces", len(s.Surfaces),
		"values", len(s.Values), "booleans", len(s.Booleans))

	return s
}

func buildModifier(mc ModifierConfig) (Modifier, error) {
	kind, axis, err := ParseModifierType(mc.Type)
	if err != nil {
		return Modifier{}, err
	}

	m := Modifier{Name: mc.Name, Kind: kind, Axis: axis}
	switch kind {
	case ScalarGain:
		if mc.Gain == nil {
			return m, fmt.Errorf("gain: %w", ErrMissingLimit)
		}
		m.Gain = *mc.Gain

	case ClampGain:
		m.Lo, m.Hi = -1, 1
		if mc.Min != nil {
			m.Lo = *mc.Min
		}
		if mc.Max != nil {
			m.Hi = *mc.Max
		}
		if m.Lo > m.Hi {
			return m, fmt.Errorf("min %g, max %g: %w", m.Lo, m.Hi, ErrInvalidClamp)
		}

	case GainTable, MappingTable, SignalMappingTable:
		if len(mc.Table) == 0 {
			return m, ErrMissingTable
		}
		if err := mc.Table.Validate(); err != nil {
			return m, err
		}
		m.Table = mc.Table
	}
	return m, nil
}

func (s *System) buildStreams(scs []StreamConfig, e *util.ErrorLogger) []GainStream {
	if len(scs) == 0 {
		e.Error(ErrNoStreams)
		return nil
	}

	var streams []GainStream
	for _, sc := range scs {
		e.Push(sc.Input)
		gs := GainStream{Input: s.Registry.Handle(sc.Input), Override: sc.Override}
		if gs.Input == 0 {
			e.Error(ErrUnknownInput)
		}
		for _, mn := range sc.Modifiers {
			if mh := s.modifierHandle(mn); mh == 0 {
				e.ErrorString("%q: %v", mn, ErrUnknownModifier)
			} else {
				gs.Modifiers = append(gs.Modifiers, mh)
			}
		}
		streams = append(streams, gs)
		e.Pop()
	}
	return streams
}

func (s *System) buildPolicy(p string, e *util.ErrorLogger) OverridePolicy {
	policy, ok := parseOverridePolicy(p)
	if !ok {
		e.ErrorString("%q: %v", p, ErrUnknownPolicy)
	}
	return policy
}

func (s *System) buildSurface(sc SurfaceConfig, e *util.ErrorLogger) *ControlSurface {
	surf := &ControlSurface{
		Name:    sc.Name,
		Streams: s.buildStreams(sc.Inputs, e),
		Policy:  s.buildPolicy(sc.OverridePolicy, e),
		Mapping: AngleMapping{Auto: sc.AngleMappingAuto, Manual: sc.AngleMappingManual},
	}

	if sc.MinAngle == nil {
		e.ErrorString("min_angle_deg: %v", ErrMissingLimit)
	} else {
		surf.Min = *sc.MinAngle
	}
	if sc.MaxAngle == nil {
		e.ErrorString("max_angle_deg: %v", ErrMissingLimit)
	} else {
		surf.Max = *sc.MaxAngle
	}
	if surf.Min > surf.Max {
		e.ErrorString("min_angle_deg %g > max_angle_deg %g: %v", surf.Min, surf.Max, ErrInvalidLimits)
	}

	for _, c := range []struct {
		name  string
		curve math.Curve
	}{{"angle_mapping_auto", sc.AngleMappingAuto}, {"angle_mapping_manual", sc.AngleMappingManual}} {
		if len(c.curve) > 0 {
			if err := c.curve.Validate(); err != nil {
				e.ErrorString("%s: %v", c.name, err)
			}
		}
	}

	if ac := sc.Actuator; ac != nil {
		e.Push("actuator")
		a := &Actuator{
			PositiveRate: ac.MaxPositiveRate,
			NegativeRate: ac.MaxNegativeRate,
			Min:          surf.Min,
			Max:          surf.Max,
		}
		if ac.MinAngle != nil {
			a.Min = *ac.MinAngle
		}
		if ac.MaxAngle != nil {
			a.Max = *ac.MaxAngle
		}
		if a.PositiveRate <= 0 || a.NegativeRate <= 0 {
			e.ErrorString("positive %g, negative %g: %v", a.PositiveRate, a.NegativeRate, ErrInvalidRate)
		}
		if a.Min > a.Max {
			e.ErrorString("min %g > max %g: %v", a.Min, a.Max, ErrInvalidLimits)
		}
		surf.Actuator = a
		e.Pop()
	}

	surf.SetAngle(sc.InitialAngle)

	return surf
}
