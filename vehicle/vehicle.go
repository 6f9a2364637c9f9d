// vehicle/vehicle.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import (
	"fmt"
	"time"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/math"
	"github.com/mmp/sixdof/pilot"
	"github.com/mmp/sixdof/propulsion"
	"github.com/mmp/sixdof/util"

	"github.com/brunoga/deep"
)

// Vehicle is one instance of a vehicle type: its flight controls, pilot,
// and propulsion, all bound to a private control input registry.
type Vehicle struct {
	Name       string
	FCS        *fcs.System
	Pilot      *pilot.Pilot
	Propulsion *propulsion.System

	// Freeze is applied by the pilot on every tick.
	Freeze pilot.FreezeFlags

	Last     TickOutput
	lastTick time.Duration
	ticked   bool

	lg *log.Logger
}

type SurfaceAngle struct {
	Name     string  `json:"name"`
	AngleDeg float64 `json:"angle_deg"`
}

// TickOutput is what a tick produces for the aerodynamics and mass
// properties code: control surface angles and total thrust.
type TickOutput struct {
	Time     time.Duration
	Surfaces []SurfaceAngle
	Thrust   propulsion.Result
}

// Rebuild creates a new Vehicle from the configuration. Nothing is shared
// with cfg or with other vehicles built from it. Configuration problems
// that only disable part of the vehicle are returned in the ErrorLogger;
// an error is returned only if the vehicle can't be built at all.
func Rebuild(cfg Config, lg *log.Logger) (*Vehicle, *util.ErrorLogger, error) {
	cfg = deep.MustCopy(cfg)
	e := &util.ErrorLogger{}
	lg = lg.With("vehicle", cfg.Name)

	v := &Vehicle{Name: cfg.Name, lg: lg}
	reg := &fcs.Registry{}

	e.Push("flight_controls")
	v.FCS = fcs.NewSystem(cfg.FlightControls, reg, e, lg)
	e.Pop()

	e.Push("pilot")
	v.Pilot = pilot.NewPilot(cfg.Pilot, reg, e, lg)
	e.Pop()

	e.Push("propulsion")
	prop, err := propulsion.NewSystem(cfg.Propulsion, v.FCS, e, lg)
	e.Pop()
	if err != nil {
		return nil, e, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	v.Propulsion = prop
	v.Pilot.SetReverserSink(prop)

	if e.HaveErrors() {
		lg.Warnf("%d configuration errors", e.Count())
	}
	return v, e, nil
}

// Initialize sets the time the vehicle starts at; actuators are placed
// at their initial angles.
func (v *Vehicle) Initialize(now time.Duration) {
	v.FCS.Initialize(now)
	v.lastTick, v.ticked = now, true
}

// SetTestingNoLag makes the actuators and engines respond to commands
// immediately.
func (v *Vehicle) SetTestingNoLag(noLag bool) {
	v.Freeze.TestingNoLag = noLag
	v.FCS.SetTestingNoLag(noLag)
	v.Propulsion.SetTestingNoLag(noLag)
}

// Tick advances the vehicle to the given time. The pilot writes the
// control inputs, the flight control system derives surface angles and
// control values from them, and then the engines produce thrust. Each
// stage only reads what the stage before it wrote, so every stage sees
// the inputs as they were at the start of its part of the tick. A tick
// at or before the previous one returns the previous output.
func (v *Vehicle) Tick(now time.Duration, fc fcs.FlightCondition, ap pilot.AutopilotControls) TickOutput {
	if v.ticked && now <= v.lastTick {
		return v.Last
	}
	dt := 0.
	if v.ticked {
		dt = (now - v.lastTick).Seconds()
	} else {
		// Actuators start moving from the first tick.
		v.FCS.Initialize(now)
	}
	v.lastTick, v.ticked = now, true

	if v.Freeze.TestingNoLag != v.FCS.TestingNoLag {
		v.SetTestingNoLag(v.Freeze.TestingNoLag)
	}

	v.Pilot.Freeze = v.Freeze
	v.Pilot.Update(now, ap)

	v.FCS.Update(now, fc, v.Pilot.AutoMapping())

	thrust := v.Propulsion.UpdateThrust(propulsionConditions(fc, dt))

	v.Last = TickOutput{
		Time:     now,
		Surfaces: v.surfaceAngles(),
		Thrust:   thrust,
	}
	v.lg.Debug("tick", "time", now, "condition", fc, "mode", v.Pilot.Mode(), "thrust", thrust)

	return v.Last
}

const ktasToFPS = 1.6878098571

func propulsionConditions(fc fcs.FlightCondition, dt float64) propulsion.Conditions {
	return propulsion.Conditions{
		Dt:           dt,
		AltitudeFt:   fc.AltitudeFt,
		DynPressPSF:  fc.DynamicPressurePSF,
		StatPressPSF: fc.StaticPressurePSF,
		SpeedFPS:     fc.KTAS * ktasToFPS,
		Mach:         fc.Mach,
		AlphaRad:     math.Radians(fc.AlphaDeg),
		BetaRad:      math.Radians(fc.BetaDeg),
	}
}

func (v *Vehicle) surfaceAngles() []SurfaceAngle {
	sa := make([]SurfaceAngle, len(v.FCS.Surfaces))
	for i, s := range v.FCS.Surfaces {
		sa[i] = SurfaceAngle{Name: s.Name, AngleDeg: s.Current}
	}
	return sa
}

// Lookahead returns the thrust the vehicle would produce for the given
// conditions with its current controls, without changing any state.
func (v *Vehicle) Lookahead(fc fcs.FlightCondition, dt float64) propulsion.Result {
	return v.Propulsion.CalculateThrust(propulsionConditions(fc, dt))
}
