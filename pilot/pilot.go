// pilot/pilot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import (
	"fmt"
	"slices"
	"time"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/math"
	"github.com/mmp/sixdof/util"

	"github.com/brunoga/deep"
)

type Config struct {
	// StandardInputs maps standard channel names (e.g.
	// "std_stick_back") to the names of the control inputs they drive.
	StandardInputs map[string]string `json:"standard_inputs" msgpack:"standard_inputs"`

	// Trim factors give the trim authority gained per second of trim
	// button time.
	PitchTrimFactor float64 `json:"pitch_trim_factor,omitempty" msgpack:"pitch_trim_factor"`
	RollTrimFactor  float64 `json:"roll_trim_factor,omitempty" msgpack:"roll_trim_factor"`
	YawTrimFactor   float64 `json:"yaw_trim_factor,omitempty" msgpack:"yaw_trim_factor"`

	// Optional curves applied to manual stick and pedal positions.
	PitchControlMapping math.Curve `json:"pitch_control_mapping,omitempty" msgpack:"pitch_control_mapping"`
	RollControlMapping  math.Curve `json:"roll_control_mapping,omitempty" msgpack:"roll_control_mapping"`
	YawControlMapping   math.Curve `json:"yaw_control_mapping,omitempty" msgpack:"yaw_control_mapping"`

	// Modes gives the initial mode flags; if omitted, controls are
	// enabled and nothing else is engaged.
	Modes *ModeFlags `json:"modes,omitempty" msgpack:"modes"`
}

// ReverserSink is told when the thrust reverser lever leaves or returns
// to its stowed position.
type ReverserSink interface {
	EnableThrustReverser(enabled bool)
}

type axis int

const (
	rollAxis axis = iota
	pitchAxis
	yawAxis
	numAxes
)

// Pilot arbitrates among the vehicle's command sources (manual devices,
// the autopilot, stability augmentation, external direct control, direct
// overrides, and freeze flags) and writes the result into the control
// input registry once per tick.
type Pilot struct {
	Modes     ModeFlags
	Overrides Override
	Freeze    FreezeFlags

	// Autopilot holds the most recent autopilot command, after limits
	// have been enforced.
	Autopilot AutopilotControls

	reg      *fcs.Registry
	bindings [NumChannels]fcs.InputHandle

	trimFactor [numAxes]float64
	trimSec    [numAxes]float64
	mapping    [numAxes]math.Curve

	// The most recent manual stick and pedal positions, after trim and
	// mapping; stability augmentation blends the autopilot with these.
	augmentation [numAxes]float64

	lastUpdate time.Duration
	updated    bool

	reverser ReverserSink
	lg       *log.Logger
}

// NewPilot returns a Pilot for the given configuration, bound to the
// control inputs in reg. Problems with the configuration, including
// standard inputs that don't match any control input, are reported to e;
// the affected items are ignored.
func NewPilot(cfg Config, reg *fcs.Registry, e *util.ErrorLogger, lg *log.Logger) *Pilot {
	if e == nil {
		e = &util.ErrorLogger{}
	}
	p := &Pilot{
		Modes: ModeFlags{ControlsEnabled: true},
		reg:   reg,
		lg:    lg,
	}
	if cfg.Modes != nil {
		p.Modes = *cfg.Modes
	}

	for _, t := range []struct {
		name   string
		ax     axis
		factor float64
		curve  math.Curve
	}{
		{"pitch", pitchAxis, cfg.PitchTrimFactor, cfg.PitchControlMapping},
		{"roll", rollAxis, cfg.RollTrimFactor, cfg.RollControlMapping},
		{"yaw", yawAxis, cfg.YawTrimFactor, cfg.YawControlMapping},
	} {
		if t.factor < 0 {
			e.ErrorString("%s: %v", t.name+"_trim_factor", ErrInvalidTrimFactor)
		} else {
			p.trimFactor[t.ax] = t.factor
		}
		if t.curve != nil {
			if err := t.curve.Validate(); err != nil {
				e.ErrorString("%s_control_mapping: %v", t.name, err)
			} else {
				p.mapping[t.ax] = t.curve
			}
		}
	}

	e.Push("standard_inputs")
	for _, err := range p.BindStandardInputs(cfg.StandardInputs) {
		e.Error(err)
	}
	e.Pop()

	return p
}

// BindStandardInputs resolves the standard channel bindings against the
// Pilot's registry. Channels whose binding can't be matched are left
// unbound; each such binding is logged and returned.
func (p *Pilot) BindStandardInputs(bindings map[string]string) []error {
	p.bindings = [NumChannels]fcs.InputHandle{}

	var errs []error
	// Sorted so that diagnostics come out in a stable order.
	for _, std := range util.SortedMapKeys(bindings) {
		input := bindings[std]
		ch, ok := ParseChannel(std)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", std, ErrUnknownStandardInput))
			continue
		}
		h := p.reg.Handle(input)
		if h == 0 {
			p.lg.Warn("unmatched standard input", "channel", std, "input", input)
			errs = append(errs, fmt.Errorf("%s -> %q: %w", std, input, ErrUnmatchedBinding))
			continue
		}
		p.bindings[ch] = h
	}
	return errs
}

// Bound reports whether the channel is bound to a control input.
func (p *Pilot) Bound(ch Channel) bool {
	return p.bindings[ch] != 0
}

// BoundChannels returns the channels that are bound to control inputs.
func (p *Pilot) BoundChannels() []Channel {
	var chs []Channel
	for ch := range NumChannels {
		if p.Bound(ch) {
			chs = append(chs, ch)
		}
	}
	return chs
}

func (p *Pilot) SetReverserSink(s ReverserSink) {
	p.reverser = s
}

// set writes the channel's control input unconditionally; it's used by
// direct-control setters and by frozen axes.
func (p *Pilot) set(ch Channel, v float64) {
	p.reg.SetValue(p.bindings[ch], v)
}

func (p *Pilot) setBool(ch Channel, b bool) {
	p.reg.SetBool(p.bindings[ch], b)
}

// command writes a channel on behalf of one of the blended command
// sources. Channels under direct override are left alone.
func (p *Pilot) command(ch Channel, v float64) {
	if p.Overrides.Has(ch.overrideClass()) {
		return
	}
	p.set(ch, v)
}

// ControllerPosition returns the current value of the channel's control
// input, or 0 if it is unbound.
func (p *Pilot) ControllerPosition(ch Channel) float64 {
	return p.reg.Value(p.bindings[ch])
}

// ThrottleControllerPosition returns the combined throttle lever
// position, from 0 (idle) through 1 (MIL) to 2 (full afterburner).
func (p *Pilot) ThrottleControllerPosition() float64 {
	if ab := p.ControllerPosition(ThrottleAB); ab > 0 {
		return 1 + ab
	}
	return p.ControllerPosition(ThrottleMIL)
}

// Update writes the control inputs for the given simulation time. The
// autopilot command is used only in the modes that consume it. Updates
// at a time at or before the previous one are ignored.
func (p *Pilot) Update(now time.Duration, ap AutopilotControls) {
	if p.updated && now <= p.lastUpdate {
		return
	}
	p.lastUpdate, p.updated = now, true
	p.Autopilot = ap.EnforceControlLimits()

	switch {
	case p.DisabledActive():
		p.zeroDisabledControls()

	case p.AutopilotActive(), p.ControlAugmentationActive():
		p.loadAutopilotControls()
		if p.StabilityAugmentationActive() {
			p.blendStabilityAugmentation()
		}
	}

	p.manageFrozenControls()

	p.lg.Debug("pilot update", "mode", p.Mode(), "freeze", p.Freeze)
}

// Snapshot returns an independent copy of the Pilot that writes to reg,
// which should be a copy of the Pilot's registry. The copy has no
// reverser sink.
func (p *Pilot) Snapshot(reg *fcs.Registry) *Pilot {
	c := *p
	c.reg = reg
	c.mapping = deep.MustCopy(p.mapping)
	c.reverser = nil
	return &c
}

// ActiveBindings returns the names of the bound channels and their
// control inputs, in channel order.
func (p *Pilot) ActiveBindings() [][2]string {
	var b [][2]string
	for _, ch := range p.BoundChannels() {
		b = append(b, [2]string{ch.String(), p.reg.Input(p.bindings[ch]).Name})
	}
	return slices.Clip(b)
}
