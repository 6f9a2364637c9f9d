// pilot/freeze.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import "log/slog"

// FreezeFlags are simulation directives that hold an axis fixed. A frozen
// axis has its controls forced to fixed values after all other command
// sources have been applied.
type FreezeFlags struct {
	Speed bool `json:"speed"`
	Pitch bool `json:"pitch"`
	Roll  bool `json:"roll"`
	Yaw   bool `json:"yaw"`
	// TestingNoLag makes actuators and engines respond immediately.
	TestingNoLag bool `json:"testing_no_lag"`
}

func (f FreezeFlags) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("speed", f.Speed),
		slog.Bool("pitch", f.Pitch),
		slog.Bool("roll", f.Roll),
		slog.Bool("yaw", f.Yaw),
		slog.Bool("no_lag", f.TestingNoLag))
}

func (p *Pilot) manageFrozenControls() {
	f := p.Freeze
	if f.Speed {
		// MIL power with the brakes and spoilers retracted.
		p.set(ThrottleMIL, 1)
		p.set(ThrottleAB, 0)
		p.set(ThrustReverser, 0)
		p.set(SpeedBrakesOut, 0)
		p.set(SpoilersOut, 0)
	}
	if f.Pitch {
		p.set(StickBack, 0)
		p.set(ThrustVectorPitch, 0)
	}
	if f.Roll {
		p.set(StickRight, 0)
		p.set(ThrustVectorRoll, 0)
	}
	if f.Yaw {
		p.set(RudderRight, 0)
		p.set(ThrustVectorYaw, 0)
	}
}

func (p *Pilot) zeroDisabledControls() {
	for ch := range NumChannels {
		if ch == NWSEnabled {
			p.setBool(ch, false)
		} else {
			p.command(ch, 0)
		}
	}
}
