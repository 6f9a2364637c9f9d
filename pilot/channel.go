// pilot/channel.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

// Channel identifies one of the standard pilot controls. Each may be
// bound to a control input in the vehicle's registry; an unbound channel
// is simply not available on that vehicle.
type Channel int

const (
	StickBack Channel = iota
	StickRight
	RudderRight
	ThrottleMIL
	ThrottleAB
	ThrustReverser
	ThrustVectorYaw
	ThrustVectorPitch
	ThrustVectorRoll
	SpeedBrakesOut
	FlapsDown
	SpoilersOut
	LandingGearDown
	NoseWheelSteering
	NWSSteering
	NWSEnabled
	WheelBrakeLeft
	WheelBrakeRight
	NumChannels
)

var channelNames = [NumChannels]string{
	StickBack:         "std_stick_back",
	StickRight:        "std_stick_right",
	RudderRight:       "std_rudder_right",
	ThrottleMIL:       "std_throttle_mil",
	ThrottleAB:        "std_throttle_ab",
	ThrustReverser:    "std_thrust_reverser",
	ThrustVectorYaw:   "std_thrust_vectoring_yaw",
	ThrustVectorPitch: "std_thrust_vectoring_pitch",
	ThrustVectorRoll:  "std_thrust_vectoring_roll",
	SpeedBrakesOut:    "std_speed_brakes_out",
	FlapsDown:         "std_flaps_down",
	SpoilersOut:       "std_spoilers_out",
	LandingGearDown:   "std_landing_gear_down",
	NoseWheelSteering: "std_nose_wheel_steering",
	NWSSteering:       "std_nws_steering",
	NWSEnabled:        "std_nws_enabled",
	WheelBrakeLeft:    "std_wheel_brake_left",
	WheelBrakeRight:   "std_wheel_brake_right",
}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

func ParseChannel(s string) (Channel, bool) {
	for i, n := range channelNames {
		if n == s {
			return Channel(i), true
		}
	}
	return 0, false
}

// overrideClass returns which direct-control override, if any, governs
// the channel.
func (c Channel) overrideClass() Override {
	switch c {
	case StickBack:
		return OverrideStickBack
	case StickRight:
		return OverrideStickRight
	case RudderRight:
		return OverrideRudderRight
	case ThrottleMIL, ThrottleAB:
		return OverrideThrottle
	case SpeedBrakesOut:
		return OverrideSpeedBrakes
	case WheelBrakeLeft, WheelBrakeRight:
		return OverrideWheelBrakes
	default:
		return OverrideNone
	}
}
