// propulsion/engine.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

import (
	"fmt"

	"github.com/mmp/sixdof/math"
)

// Conditions are the atmospheric and kinematic conditions a thrust
// calculation is made for. Dt is the length of the step in seconds.
type Conditions struct {
	Dt           float64
	AltitudeFt   float64
	DynPressPSF  float64
	StatPressPSF float64
	SpeedFPS     float64
	Mach         float64
	AlphaRad     float64
	BetaRad      float64
}

// Engine computes the thrust and fuel flow of an engine for a given
// throttle setting. The throttle runs from 0 (idle) to 1 (military power)
// and up to 2 (full afterburner) for engines with an afterburner.
// Implementations must not have side effects; all engine state is kept by
// the ThrustProducer.
type Engine interface {
	ComputeThrust(c Conditions, throttle float64) (thrustLbf, fuelPPH float64)
	AfterburnerPresent() bool
}

// Smoker is implemented by engines that leave a visible smoke trail at
// some throttle settings.
type Smoker interface {
	SmokesAt(throttle float64) bool
}

///////////////////////////////////////////////////////////////////////////
// JetEngine

type JetEngineConfig struct {
	// Thrust in lbf as a function of altitude in feet.
	IdleThrust math.Curve `json:"idle_thrust_vs_alt,omitempty" msgpack:"idle_thrust_vs_alt"`
	MilThrust  math.Curve `json:"mil_thrust_vs_alt" msgpack:"mil_thrust_vs_alt"`
	ABThrust   math.Curve `json:"ab_thrust_vs_alt,omitempty" msgpack:"ab_thrust_vs_alt"`

	// Thrust specific fuel consumption, lb/hr per lbf.
	TSFCIdle float64 `json:"tsfc_idle,omitempty" msgpack:"tsfc_idle"`
	TSFCMil  float64 `json:"tsfc_mil,omitempty" msgpack:"tsfc_mil"`
	TSFCAB   float64 `json:"tsfc_ab,omitempty" msgpack:"tsfc_ab"`

	// If set, the engine smokes at throttle settings above this level
	// when not in afterburner.
	SmokesAbove *float64 `json:"smokes_above_throttle,omitempty" msgpack:"smokes_above_throttle"`
}

// JetEngine is a turbojet/turbofan modeled with simple thrust versus
// altitude tables for idle, military, and afterburner power.
type JetEngine struct {
	JetEngineConfig
}

func NewJetEngine(cfg JetEngineConfig) (*JetEngine, error) {
	if len(cfg.MilThrust) == 0 {
		return nil, ErrMissingThrustData
	}
	for _, c := range []struct {
		name  string
		curve math.Curve
	}{{"idle_thrust_vs_alt", cfg.IdleThrust}, {"mil_thrust_vs_alt", cfg.MilThrust}, {"ab_thrust_vs_alt", cfg.ABThrust}} {
		if len(c.curve) > 0 {
			if err := c.curve.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", c.name, err)
			}
		}
	}
	if cfg.TSFCIdle < 0 || cfg.TSFCMil < 0 || cfg.TSFCAB < 0 {
		return nil, ErrNegativeFuelFlow
	}
	return &JetEngine{JetEngineConfig: cfg}, nil
}

func (j *JetEngine) AfterburnerPresent() bool {
	return len(j.ABThrust) > 0
}

// splitThrottle returns the military and afterburner portions of a
// throttle setting.
func (j *JetEngine) splitThrottle(throttle float64) (mil, ab float64) {
	if j.AfterburnerPresent() {
		throttle = math.Clamp(throttle, 0, 2)
	} else {
		throttle = math.Clamp(throttle, 0, 1)
	}
	if throttle > 1 {
		return 1, throttle - 1
	}
	return throttle, 0
}

func (j *JetEngine) ComputeThrust(c Conditions, throttle float64) (float64, float64) {
	idle := j.IdleThrust.Lookup(c.AltitudeFt)
	mil := j.MilThrust.Lookup(c.AltitudeFt)
	var ab float64
	if j.AfterburnerPresent() {
		ab = j.ABThrust.Lookup(c.AltitudeFt)
	}

	// Incremental thrust of each regime; ab before mil.
	ab -= mil
	mil -= idle

	milLever, abLever := j.splitThrottle(throttle)
	mil *= milLever
	ab *= abLever
	if !j.AfterburnerPresent() {
		ab = 0
	}

	thrust := idle + mil + ab
	fuel := j.TSFCIdle*idle + j.TSFCMil*mil + j.TSFCAB*ab
	return thrust, max(fuel, 0)
}

func (j *JetEngine) SmokesAt(throttle float64) bool {
	if j.SmokesAbove == nil {
		return false
	}
	_, ab := j.splitThrottle(throttle)
	return throttle > *j.SmokesAbove && ab == 0
}
