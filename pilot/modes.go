// pilot/modes.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import "log/slog"

// ModeFlags are the externally commanded switches that together select
// which command source drives the controls. They're not mutually
// exclusive; the predicates on Pilot resolve them into a single active
// mode.
type ModeFlags struct {
	ControlsEnabled       bool `json:"controls_enabled" msgpack:"controls_enabled"`
	AutopilotEnabled      bool `json:"autopilot_enabled,omitempty" msgpack:"autopilot_enabled"`
	ManualControl         bool `json:"manual_control,omitempty" msgpack:"manual_control"`
	ExternalDirectControl bool `json:"external_direct_control,omitempty" msgpack:"external_direct_control"`
	ControlAugmentation   bool `json:"cas,omitempty" msgpack:"cas"`
	PitchSAS              bool `json:"pitch_sas,omitempty" msgpack:"pitch_sas"`
	RollSAS               bool `json:"roll_sas,omitempty" msgpack:"roll_sas"`
	YawSAS                bool `json:"yaw_sas,omitempty" msgpack:"yaw_sas"`
	TestControl           bool `json:"test_control,omitempty" msgpack:"test_control"`
}

func (m ModeFlags) anySAS() bool {
	return m.PitchSAS || m.RollSAS || m.YawSAS
}

type Mode int

const (
	ModeNone Mode = iota
	ModeTesting
	ModeDisabled
	ModeAutopilot
	ModeManual
	ModeControlAugmentation
	ModeStabilityAugmentation
	ModeExternalDirect
)

func (m Mode) String() string {
	return [...]string{"none", "testing", "disabled", "autopilot", "manual", "cas", "sas", "external_direct"}[m]
}

func (m Mode) LogValue() slog.Value { return slog.StringValue(m.String()) }

// TestingActive reports whether test control has been taken; it
// suppresses every other mode.
func (p *Pilot) TestingActive() bool {
	return p.Modes.TestControl
}

func (p *Pilot) DisabledActive() bool {
	return !p.Modes.TestControl && !p.Modes.ControlsEnabled
}

func (p *Pilot) enabled() bool {
	return !p.Modes.TestControl && p.Modes.ControlsEnabled
}

func (p *Pilot) AutopilotActive() bool {
	return p.enabled() && p.Modes.AutopilotEnabled
}

func (p *Pilot) ManualActive() bool {
	return p.enabled() && !p.Modes.AutopilotEnabled && p.Modes.ManualControl
}

// ExternalDirectActive reports whether an external controller drives the
// controls. With CAS engaged, external direct control is available even
// when the autopilot is enabled.
func (p *Pilot) ExternalDirectActive() bool {
	if !p.enabled() || p.Modes.ManualControl {
		return false
	}
	if !p.Modes.ControlAugmentation && p.Modes.AutopilotEnabled {
		return false
	}
	return p.Modes.ExternalDirectControl
}

func (p *Pilot) ControlAugmentationActive() bool {
	return p.ManualActive() && p.Modes.ControlAugmentation
}

func (p *Pilot) StabilityAugmentationActive() bool {
	return p.ControlAugmentationActive() && p.Modes.anySAS()
}

// Mode returns the dominant active mode.
func (p *Pilot) Mode() Mode {
	switch {
	case p.TestingActive():
		return ModeTesting
	case p.DisabledActive():
		return ModeDisabled
	case p.AutopilotActive():
		return ModeAutopilot
	case p.StabilityAugmentationActive():
		return ModeStabilityAugmentation
	case p.ControlAugmentationActive():
		return ModeControlAugmentation
	case p.ManualActive():
		return ModeManual
	case p.ExternalDirectActive():
		return ModeExternalDirect
	default:
		return ModeNone
	}
}

// AutoMapping reports whether control surfaces should use their
// automatic angle mapping curves rather than their manual ones.
func (p *Pilot) AutoMapping() bool {
	return p.AutopilotActive() || p.ControlAugmentationActive()
}

func (p *Pilot) EnableControls(enabled bool)  { p.Modes.ControlsEnabled = enabled }
func (p *Pilot) EnableAutopilot(enabled bool) { p.Modes.AutopilotEnabled = enabled }
func (p *Pilot) TakeManualControl()           { p.Modes.ManualControl = true }
func (p *Pilot) ReleaseManualControl()        { p.Modes.ManualControl = false }
func (p *Pilot) TakeExternalDirectControl()   { p.Modes.ExternalDirectControl = true }
func (p *Pilot) ReleaseExternalDirectControl() {
	p.Modes.ExternalDirectControl = false
}
func (p *Pilot) TakeTestControl()    { p.Modes.TestControl = true }
func (p *Pilot) ReleaseTestControl() { p.Modes.TestControl = false }

func (p *Pilot) SetControlAugmentationModeActive(active bool) {
	p.Modes.ControlAugmentation = active
}

func (p *Pilot) SetStabilityAugmentation(pitch, roll, yaw bool) {
	p.Modes.PitchSAS, p.Modes.RollSAS, p.Modes.YawSAS = pitch, roll, yaw
}
