// fcs/value.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import "github.com/mmp/sixdof/math"

// ControlValue is a continuous output derived from gain streams, e.g., a
// throttle setting or thrust vectoring command.
type ControlValue struct {
	Name     string
	Streams  []GainStream
	Policy   OverridePolicy
	Min, Max float64
	Current  float64
}

type ValueHandle int

func (cv *ControlValue) Update(fc FlightCondition, reg *Registry, mods []Modifier) float64 {
	v := combineStreams(cv.Streams, cv.Policy, reg, mods, fc)
	cv.Current = math.Clamp(v, cv.Min, cv.Max)
	return cv.Current
}

// ControlBoolean is a discrete output derived from gain streams: it is
// true when the combined stream value is at or above Threshold. The
// previous tick's value is kept so callers can detect transitions.
type ControlBoolean struct {
	Name      string
	Streams   []GainStream
	Policy    OverridePolicy
	Threshold float64
	Current   bool
	Last      bool
}

type BooleanHandle int

const DefaultBooleanThreshold = 0.5

func (cb *ControlBoolean) Update(fc FlightCondition, reg *Registry, mods []Modifier) bool {
	v := combineStreams(cb.Streams, cb.Policy, reg, mods, fc)
	cb.Last = cb.Current
	cb.Current = v >= cb.Threshold
	return cb.Current
}

// Rising reports whether the boolean went from false to true on the last
// update.
func (cb *ControlBoolean) Rising() bool { return cb.Current && !cb.Last }

// Falling reports whether the boolean went from true to false on the last
// update.
func (cb *ControlBoolean) Falling() bool { return !cb.Current && cb.Last }
