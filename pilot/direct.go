// pilot/direct.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import (
	"strings"

	"github.com/mmp/sixdof/math"
)

// Override is a set of direct-control overrides. While a channel's
// override is set, the direct setters below drive it and the blended
// command sources leave it alone.
type Override uint8

const (
	OverrideNone        Override = 0
	OverrideStickBack   Override = 1 << (iota - 1)
	OverrideStickRight
	OverrideRudderRight
	OverrideThrottle
	OverrideSpeedBrakes
	OverrideWheelBrakes
)

func (o Override) Has(c Override) bool {
	return c != OverrideNone && o&c == c
}

func (o Override) String() string {
	var s []string
	for _, n := range []struct {
		o    Override
		name string
	}{
		{OverrideStickBack, "stick_back"},
		{OverrideStickRight, "stick_right"},
		{OverrideRudderRight, "rudder_right"},
		{OverrideThrottle, "throttle"},
		{OverrideSpeedBrakes, "speed_brakes"},
		{OverrideWheelBrakes, "wheel_brakes"},
	} {
		if o.Has(n.o) {
			s = append(s, n.name)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

func (p *Pilot) EnableDirectStickBackInput()    { p.Overrides |= OverrideStickBack }
func (p *Pilot) ReleaseDirectStickBackInput()   { p.Overrides &^= OverrideStickBack }
func (p *Pilot) EnableDirectStickRightInput()   { p.Overrides |= OverrideStickRight }
func (p *Pilot) ReleaseDirectStickRightInput()  { p.Overrides &^= OverrideStickRight }
func (p *Pilot) EnableDirectRudderRightInput()  { p.Overrides |= OverrideRudderRight }
func (p *Pilot) ReleaseDirectRudderRightInput() { p.Overrides &^= OverrideRudderRight }
func (p *Pilot) EnableDirectThrottleInput()     { p.Overrides |= OverrideThrottle }
func (p *Pilot) ReleaseDirectThrottleInput()    { p.Overrides &^= OverrideThrottle }
func (p *Pilot) EnableDirectSpeedBrakeInput()   { p.Overrides |= OverrideSpeedBrakes }
func (p *Pilot) ReleaseDirectSpeedBrakeInput()  { p.Overrides &^= OverrideSpeedBrakes }
func (p *Pilot) EnableDirectBraking()           { p.Overrides |= OverrideWheelBrakes }

// ReleaseDirectBraking releases both wheel brakes before giving up
// direct control of them.
func (p *Pilot) ReleaseDirectBraking() {
	p.ReleaseParkingBrake()
	p.Overrides &^= OverrideWheelBrakes
}

// direct sets the channel if its override is engaged.
func (p *Pilot) direct(ch Channel, v float64) {
	if p.Overrides.Has(ch.overrideClass()) {
		p.set(ch, v)
	}
}

func (p *Pilot) SetDirectStickBackInput(v float64)   { p.direct(StickBack, math.Limit(v, 1)) }
func (p *Pilot) SetDirectStickRightInput(v float64)  { p.direct(StickRight, math.Limit(v, 1)) }
func (p *Pilot) SetDirectRudderRightInput(v float64) { p.direct(RudderRight, math.Limit(v, 1)) }

func (p *Pilot) MoveThrottleToIdle()        { p.SetDirectThrottleInput(0) }
func (p *Pilot) MoveThrottleToFull()        { p.SetDirectThrottleInput(1) }
func (p *Pilot) MoveThrottleToAfterburner() { p.SetDirectThrottleInput(2) }

// SetDirectThrottleInput sets the throttle lever position, 0..2.
func (p *Pilot) SetDirectThrottleInput(lever float64) {
	if p.Overrides.Has(OverrideThrottle) {
		p.setThrottle(lever)
	}
}

func (p *Pilot) OpenSpeedBrake()  { p.direct(SpeedBrakesOut, 1) }
func (p *Pilot) CloseSpeedBrake() { p.direct(SpeedBrakesOut, 0) }
func (p *Pilot) SetDirectSpeedBrakesInput(v float64) {
	p.direct(SpeedBrakesOut, math.Clamp(v, 0, 1))
}

func (p *Pilot) ApplyLeftGearBrake(v float64)  { p.direct(WheelBrakeLeft, math.Clamp(v, 0, 1)) }
func (p *Pilot) ApplyRightGearBrake(v float64) { p.direct(WheelBrakeRight, math.Clamp(v, 0, 1)) }

func (p *Pilot) SetParkingBrake() {
	p.ApplyLeftGearBrake(1)
	p.ApplyRightGearBrake(1)
}

func (p *Pilot) ReleaseParkingBrake() {
	p.ApplyLeftGearBrake(0)
	p.ApplyRightGearBrake(0)
}

///////////////////////////////////////////////////////////////////////////
// Configuration controls; these may be set in any mode.

func (p *Pilot) SetLandingGearControlPosition(v float64) { p.set(LandingGearDown, math.Clamp(v, 0, 1)) }
func (p *Pilot) SetFlapsControlPosition(v float64)       { p.set(FlapsDown, math.Clamp(v, 0, 1)) }
func (p *Pilot) SetSpoilersControlPosition(v float64)    { p.set(SpoilersOut, math.Clamp(v, 0, 1)) }
func (p *Pilot) SetEnableNWS(enabled bool)               { p.setBool(NWSEnabled, enabled) }

// SetThrustReverserControlPosition sets the reverser lever and enables
// or disables the reverser itself depending on whether the lever is out
// of its stowed position.
func (p *Pilot) SetThrustReverserControlPosition(v float64) {
	if !p.Bound(ThrustReverser) {
		return
	}
	if p.reverser != nil {
		p.reverser.EnableThrustReverser(v > 0.001)
	}
	p.set(ThrustReverser, math.Clamp(v, 0, 1))
}

///////////////////////////////////////////////////////////////////////////
// Test control; these have no effect unless test control has been taken.

func (p *Pilot) test(ch Channel, v float64) {
	if p.TestingActive() {
		p.set(ch, v)
	}
}

func (p *Pilot) SetTestStickBackControllerPosition(v float64) {
	p.test(StickBack, math.Limit(v, 1))
}
func (p *Pilot) SetTestStickRightControllerPosition(v float64) {
	p.test(StickRight, math.Limit(v, 1))
}
func (p *Pilot) SetTestRudderRightControllerPosition(v float64) {
	p.test(RudderRight, math.Limit(v, 1))
}
func (p *Pilot) SetTestSpeedBrakesControllerPosition(v float64) {
	p.test(SpeedBrakesOut, math.Clamp(v, 0, 1))
}
func (p *Pilot) SetTestFlapsControllerPosition(v float64) {
	p.test(FlapsDown, math.Clamp(v, 0, 1))
}
func (p *Pilot) SetTestSpoilersControllerPosition(v float64) {
	p.test(SpoilersOut, math.Clamp(v, 0, 1))
}
func (p *Pilot) SetTestLandingGearControllerPosition(v float64) {
	p.test(LandingGearDown, math.Clamp(v, 0, 1))
}

func (p *Pilot) SetTestThrottleControllerPosition(lever float64) {
	if p.TestingActive() {
		p.setThrottle(lever)
	}
}
func (p *Pilot) SetTestThrottleMilitaryControllerPosition(v float64) {
	p.test(ThrottleMIL, math.Clamp(v, 0, 1))
}
func (p *Pilot) SetTestThrottleAfterburnerControllerPosition(v float64) {
	p.test(ThrottleAB, math.Clamp(v, 0, 1))
}
