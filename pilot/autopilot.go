// pilot/autopilot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import "github.com/mmp/sixdof/math"

// AutopilotControls is the output of the autopilot (or of the control
// augmentation system, which shares it). Configuration controls such as
// flaps, gear, and the thrust reverser are never commanded by the
// autopilot.
type AutopilotControls struct {
	StickBack         float64 `json:"stick_back"`
	StickRight        float64 `json:"stick_right"`
	RudderRight       float64 `json:"rudder_right"`
	ThrottleMIL       float64 `json:"throttle_mil"`
	ThrottleAB        float64 `json:"throttle_ab"`
	ThrustVectorYaw   float64 `json:"thrust_vector_yaw"`
	ThrustVectorPitch float64 `json:"thrust_vector_pitch"`
	ThrustVectorRoll  float64 `json:"thrust_vector_roll"`
	SpeedBrake        float64 `json:"speed_brake"`
	NoseWheelSteering float64 `json:"nose_wheel_steering"`
	NWSSteering       float64 `json:"nws_steering"`
	WheelBrakeLeft    float64 `json:"wheel_brake_left"`
	WheelBrakeRight   float64 `json:"wheel_brake_right"`
}

// EnforceControlLimits returns the controls with each limited to its
// physical range: -1..1 for bidirectional controls and 0..1 for the
// others.
func (ac AutopilotControls) EnforceControlLimits() AutopilotControls {
	for _, v := range []*float64{&ac.StickBack, &ac.StickRight, &ac.RudderRight,
		&ac.ThrustVectorYaw, &ac.ThrustVectorPitch, &ac.ThrustVectorRoll,
		&ac.NoseWheelSteering, &ac.NWSSteering} {
		*v = math.Clamp(*v, -1, 1)
	}
	for _, v := range []*float64{&ac.ThrottleMIL, &ac.ThrottleAB, &ac.SpeedBrake,
		&ac.WheelBrakeLeft, &ac.WheelBrakeRight} {
		*v = math.Clamp(*v, 0, 1)
	}
	return ac
}

// Stability augmentation may contribute at most this much of full
// control authority on any axis.
const sasAuthority = 0.25

// sasBlend blends a manual control position with an autopilot command,
// giving the autopilot a weight of at most sasAuthority.
func sasBlend(manual, autopilot float64) float64 {
	w := min(math.Abs(autopilot), sasAuthority)
	return manual*(1-w) + autopilot*w
}

func (p *Pilot) loadAutopilotControls() {
	ap := p.Autopilot

	p.command(StickRight, ap.StickRight)
	p.command(StickBack, ap.StickBack)
	p.command(RudderRight, ap.RudderRight)

	// With CAS engaged, the pilot keeps the throttle and speed brake.
	if !p.ControlAugmentationActive() {
		p.command(ThrottleMIL, ap.ThrottleMIL)
		p.command(ThrottleAB, ap.ThrottleAB)
		p.command(SpeedBrakesOut, ap.SpeedBrake)
	}

	p.command(ThrustVectorYaw, ap.ThrustVectorYaw)
	p.command(ThrustVectorPitch, ap.ThrustVectorPitch)
	p.command(ThrustVectorRoll, ap.ThrustVectorRoll)
	p.command(NoseWheelSteering, ap.NoseWheelSteering)
	p.command(NWSSteering, ap.NWSSteering)
	p.command(WheelBrakeLeft, ap.WheelBrakeLeft)
	p.command(WheelBrakeRight, ap.WheelBrakeRight)
}

func (p *Pilot) blendStabilityAugmentation() {
	ap := p.Autopilot
	if p.Modes.RollSAS {
		p.command(StickRight, sasBlend(p.augmentation[rollAxis], ap.StickRight))
	}
	if p.Modes.PitchSAS {
		p.command(StickBack, sasBlend(p.augmentation[pitchAxis], ap.StickBack))
	}
	if p.Modes.YawSAS {
		p.command(RudderRight, sasBlend(p.augmentation[yawAxis], ap.RudderRight))
	}
}
