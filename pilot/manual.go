// pilot/manual.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import "github.com/mmp/sixdof/math"

// ManualControls are cockpit device positions. Sticks, pedals, thrust
// vectoring and nose wheel steering range over -1..1; levers and brakes
// over 0..1. ThrottleLever runs from 0 (idle) through 1 (MIL) to 2 (full
// afterburner).
type ManualControls struct {
	StickRight        float64 `json:"stick_right"`
	StickBack         float64 `json:"stick_back"`
	RudderRight       float64 `json:"rudder_right"`
	ThrottleLever     float64 `json:"throttle_lever"`
	ThrustReverser    float64 `json:"thrust_reverser"`
	ThrustVectorYaw   float64 `json:"thrust_vector_yaw"`
	ThrustVectorPitch float64 `json:"thrust_vector_pitch"`
	ThrustVectorRoll  float64 `json:"thrust_vector_roll"`
	SpeedBrake        float64 `json:"speed_brake"`
	Spoilers          float64 `json:"spoilers"`
	Flaps             float64 `json:"flaps"`
	LandingGear       float64 `json:"landing_gear"`
	NoseWheelSteering float64 `json:"nose_wheel_steering"`
	WheelBrakeLeft    float64 `json:"wheel_brake_left"`
	WheelBrakeRight   float64 `json:"wheel_brake_right"`
	NWSEnabled        bool    `json:"nws_enabled"`
}

// SetManualControlData writes the cockpit controls to the control
// inputs. It has no effect unless manual control is active.
func (p *Pilot) SetManualControlData(mc ManualControls) {
	if p.ManualActive() {
		p.applyDeviceControls(mc)
	}
}

// SetExternalDirectControlData is the external-controller equivalent of
// SetManualControlData; it has no effect unless external direct control
// is active.
func (p *Pilot) SetExternalDirectControlData(mc ManualControls) {
	if p.ExternalDirectActive() {
		p.applyDeviceControls(mc)
	}
}

// SetTrimManualControlData accumulates trim button time, in seconds, for
// each axis. Negative times trim the other way.
func (p *Pilot) SetTrimManualControlData(noseUpSec, rollRightSec, yawRightSec float64) {
	p.trimSec[pitchAxis] += noseUpSec
	p.trimSec[rollAxis] += rollRightSec
	p.trimSec[yawAxis] += yawRightSec
}

// Trim returns the current trim offset for each axis.
func (p *Pilot) Trim() (noseUp, rollRight, yawRight float64) {
	return p.trim(pitchAxis), p.trim(rollAxis), p.trim(yawAxis)
}

func (p *Pilot) trim(ax axis) float64 {
	return math.Limit(p.trimFactor[ax]*p.trimSec[ax], 1)
}

// trimmed applies trim and the axis's control mapping to a device
// position.
func (p *Pilot) trimmed(ax axis, pos float64) float64 {
	pos = math.Limit(pos+p.trim(ax), 1)
	if p.mapping[ax] != nil {
		pos = p.mapping[ax].Lookup(pos)
	}
	return pos
}

func (p *Pilot) applyDeviceControls(mc ManualControls) {
	for _, a := range []struct {
		ch  Channel
		ax  axis
		pos float64
	}{
		{StickRight, rollAxis, mc.StickRight},
		{StickBack, pitchAxis, mc.StickBack},
		{RudderRight, yawAxis, mc.RudderRight},
	} {
		if p.Bound(a.ch) {
			v := p.trimmed(a.ax, a.pos)
			p.command(a.ch, v)
			p.augmentation[a.ax] = v
		}
	}

	p.commandThrottle(mc.ThrottleLever)

	p.command(SpeedBrakesOut, mc.SpeedBrake)
	p.command(SpoilersOut, mc.Spoilers)
	p.command(FlapsDown, mc.Flaps)
	p.command(LandingGearDown, mc.LandingGear)
	p.command(ThrustReverser, mc.ThrustReverser)
	p.command(ThrustVectorYaw, mc.ThrustVectorYaw)
	p.command(ThrustVectorPitch, mc.ThrustVectorPitch)
	p.command(ThrustVectorRoll, mc.ThrustVectorRoll)
	// Both steering channels follow the same device.
	p.command(NoseWheelSteering, mc.NoseWheelSteering)
	p.command(NWSSteering, mc.NoseWheelSteering)
	p.setBool(NWSEnabled, mc.NWSEnabled)
	p.command(WheelBrakeLeft, mc.WheelBrakeLeft)
	p.command(WheelBrakeRight, mc.WheelBrakeRight)
}

// SplitThrottle decomposes a throttle lever position into MIL and
// afterburner settings, each 0..1.
func SplitThrottle(lever float64) (mil, ab float64) {
	if lever > 1 {
		mil, ab = 1, lever-1
	} else {
		mil = lever
	}
	return math.Clamp(mil, 0, 1), math.Clamp(ab, 0, 1)
}

func (p *Pilot) commandThrottle(lever float64) {
	mil, ab := SplitThrottle(lever)
	p.command(ThrottleMIL, mil)
	p.command(ThrottleAB, ab)
}

func (p *Pilot) setThrottle(lever float64) {
	mil, ab := SplitThrottle(lever)
	p.set(ThrottleMIL, mil)
	p.set(ThrottleAB, ab)
}
