// fcs/actuator.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	"time"

	"github.com/mmp/sixdof/math"
)

// Actuator tracks a commanded angle subject to travel rate and position
// limits. Angles are in degrees and rates in degrees/second; rates are
// magnitudes and may differ for positive and negative travel.
type Actuator struct {
	PositiveRate float64
	NegativeRate float64
	Min, Max     float64

	Current    float64
	Commanded  float64
	LastUpdate time.Duration

	// NoLag makes the actuator follow commands immediately; it's used for
	// testing and initialization.
	NoLag bool
}

// Initialize sets the actuator's angle and update time; it bypasses the
// rate limits and so should only be used before the simulation starts
// running.
func (a *Actuator) Initialize(now time.Duration, angle float64) {
	a.SetAngle(angle)
	a.LastUpdate = now
}

// SetAngle sets the current and commanded angle directly, ignoring rate
// limits. Initialization only.
func (a *Actuator) SetAngle(angle float64) {
	a.Current = math.Clamp(angle, a.Min, a.Max)
	a.Commanded = a.Current
}

// Update moves the actuator toward the commanded angle for the time
// elapsed since its last update and returns the resulting angle.
// Non-positive time steps leave the angle unchanged.
func (a *Actuator) Update(now time.Duration, commanded float64) float64 {
	a.Commanded = commanded

	if a.NoLag {
		a.Current = math.Clamp(commanded, a.Min, a.Max)
		a.LastUpdate = now
		return a.Current
	}

	dt := (now - a.LastUpdate).Seconds()
	a.LastUpdate = now
	if dt <= 0 {
		return a.Current
	}

	if delta := commanded - a.Current; delta >= 0 {
		a.Current = min(commanded, a.Current+a.PositiveRate*dt)
	} else {
		a.Current = max(commanded, a.Current-a.NegativeRate*dt)
	}
	a.Current = math.Clamp(a.Current, a.Min, a.Max)

	return a.Current
}
