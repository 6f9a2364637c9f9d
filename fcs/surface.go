// fcs/surface.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	"time"

	"github.com/mmp/sixdof/math"
)

// AngleMapping holds the curves that convert a surface's combined stream
// value into a commanded angle. Auto is used when an autopilot or control
// augmentation is flying the vehicle and Manual otherwise; if only one is
// given it is used in both cases.
type AngleMapping struct {
	Auto   math.Curve
	Manual math.Curve
}

func (am AngleMapping) curve(auto bool) math.Curve {
	if auto && len(am.Auto) > 0 {
		return am.Auto
	}
	if len(am.Manual) > 0 {
		return am.Manual
	}
	return am.Auto
}

type ControlSurface struct {
	Name     string
	Streams  []GainStream
	Mapping  AngleMapping
	Policy   OverridePolicy
	Min, Max float64
	Current  float64
	// Actuator may be nil, in which case the surface follows its
	// commanded angle without lag.
	Actuator *Actuator
}

// SurfaceHandle identifies a ControlSurface in a System; 0 is invalid.
type SurfaceHandle int

// Update runs the surface's pipeline for a tick: combine the gain
// streams, map the result to an angle, clamp it to the surface's limits,
// and pass it to the actuator. The new angle is returned.
func (s *ControlSurface) Update(now time.Duration, fc FlightCondition, auto bool, reg *Registry, mods []Modifier) float64 {
	v := combineStreams(s.Streams, s.Policy, reg, mods, fc)

	angle := v
	if c := s.Mapping.curve(auto); len(c) > 0 {
		angle = c.Lookup(v)
	}
	angle = math.Clamp(angle, s.Min, s.Max)

	if s.Actuator != nil {
		angle = s.Actuator.Update(now, angle)
	}

	// The actuator may have been configured with a wider range than the
	// surface.
	s.Current = math.Clamp(angle, s.Min, s.Max)
	return s.Current
}

// SetAngle sets the surface (and its actuator) to the given angle,
// bypassing the actuator's rate limits. Initialization only.
func (s *ControlSurface) SetAngle(angle float64) {
	s.Current = math.Clamp(angle, s.Min, s.Max)
	if s.Actuator != nil {
		s.Actuator.SetAngle(s.Current)
	}
}

// NormalizedValue returns the surface angle as a fraction of its travel
// in the direction it's deflected: positive angles are divided by Max and
// negative angles by |Min|.
func (s *ControlSurface) NormalizedValue() float64 {
	if s.Min == 0 && s.Max == 0 {
		return 0
	}
	if s.Current >= 0 {
		if s.Max == 0 {
			return 0
		}
		return s.Current / s.Max
	}
	if s.Min == 0 {
		return 0
	}
	return -(s.Current / s.Min)
}
