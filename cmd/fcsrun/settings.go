// cmd/fcsrun/settings.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/pilot"

	"github.com/spf13/viper"
)

// Run settings come from an optional settings file (YAML, TOML, or JSON,
// chosen by extension) and FCSRUN_ environment variables, e.g.
// FCSRUN_MANUAL_STICK_BACK=0.5.
type runSettings struct {
	Tick     time.Duration
	Duration time.Duration
	NoLag    bool

	// The commands in effect from the start of the run.
	commands
	// Later changes, sorted by time. Each step starts from the commands
	// before it and overrides only the keys it gives.
	Steps []commands
}

// commands are what fcsrun tells every vehicle from time At on.
type commands struct {
	At        time.Duration
	Mode      string
	SAS       [3]bool
	Freeze    pilot.FreezeFlags
	Manual    pilot.ManualControls
	Autopilot pilot.AutopilotControls
	Condition fcs.FlightCondition
}

type scriptStep struct {
	At  time.Duration  `mapstructure:"at"`
	Set map[string]any `mapstructure:",remain"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tick", "20ms")
	v.SetDefault("duration", "2s")
	v.SetDefault("no_lag", false)
	v.SetDefault("mode", "manual")

	v.SetDefault("condition.altitude_ft", 10000)
	v.SetDefault("condition.ktas", 300)
	v.SetDefault("condition.mach", 0.47)
	v.SetDefault("condition.dynamic_pressure_psf", 230)
	v.SetDefault("condition.static_pressure_psf", 1456)
	v.SetDefault("condition.nz", 1)
}

func loadSettings(path string) (runSettings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FCSRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return runSettings{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	s := runSettings{
		Tick:     v.GetDuration("tick"),
		Duration: v.GetDuration("duration"),
		NoLag:    v.GetBool("no_lag"),
		commands: readCommands(v),
	}
	if s.Tick <= 0 {
		return s, fmt.Errorf("tick: %s: must be positive", s.Tick)
	}
	if s.Duration < s.Tick {
		return s, fmt.Errorf("duration: %s: must be at least one tick", s.Duration)
	}

	var err error
	if s.Steps, err = readSteps(v); err != nil {
		return s, err
	}
	for _, c := range append([]commands{s.commands}, s.Steps...) {
		if _, ok := pilotModes[c.Mode]; !ok {
			return s, fmt.Errorf("mode: %q: unknown mode at %s", c.Mode, c.At)
		}
	}
	s.Freeze.TestingNoLag = s.NoLag
	for i := range s.Steps {
		s.Steps[i].Freeze.TestingNoLag = s.NoLag
	}
	return s, nil
}

func readCommands(v *viper.Viper) commands {
	return commands{
		Mode: v.GetString("mode"),
		SAS:  [3]bool{v.GetBool("sas.pitch"), v.GetBool("sas.roll"), v.GetBool("sas.yaw")},
		Freeze: pilot.FreezeFlags{
			Speed: v.GetBool("freeze.speed"),
			Pitch: v.GetBool("freeze.pitch"),
			Roll:  v.GetBool("freeze.roll"),
			Yaw:   v.GetBool("freeze.yaw"),
		},
		Manual: pilot.ManualControls{
			StickRight:        v.GetFloat64("manual.stick_right"),
			StickBack:         v.GetFloat64("manual.stick_back"),
			RudderRight:       v.GetFloat64("manual.rudder_right"),
			ThrottleLever:     v.GetFloat64("manual.throttle_lever"),
			ThrustReverser:    v.GetFloat64("manual.thrust_reverser"),
			ThrustVectorYaw:   v.GetFloat64("manual.thrust_vector_yaw"),
			ThrustVectorPitch: v.GetFloat64("manual.thrust_vector_pitch"),
			ThrustVectorRoll:  v.GetFloat64("manual.thrust_vector_roll"),
			SpeedBrake:        v.GetFloat64("manual.speed_brake"),
			Spoilers:          v.GetFloat64("manual.spoilers"),
			Flaps:             v.GetFloat64("manual.flaps"),
			LandingGear:       v.GetFloat64("manual.landing_gear"),
			NoseWheelSteering: v.GetFloat64("manual.nose_wheel_steering"),
			WheelBrakeLeft:    v.GetFloat64("manual.wheel_brake_left"),
			WheelBrakeRight:   v.GetFloat64("manual.wheel_brake_right"),
			NWSEnabled:        v.GetBool("manual.nws_enabled"),
		},
		Autopilot: pilot.AutopilotControls{
			StickBack:         v.GetFloat64("autopilot.stick_back"),
			StickRight:        v.GetFloat64("autopilot.stick_right"),
			RudderRight:       v.GetFloat64("autopilot.rudder_right"),
			ThrottleMIL:       v.GetFloat64("autopilot.throttle_mil"),
			ThrottleAB:        v.GetFloat64("autopilot.throttle_ab"),
			ThrustVectorYaw:   v.GetFloat64("autopilot.thrust_vector_yaw"),
			ThrustVectorPitch: v.GetFloat64("autopilot.thrust_vector_pitch"),
			ThrustVectorRoll:  v.GetFloat64("autopilot.thrust_vector_roll"),
			SpeedBrake:        v.GetFloat64("autopilot.speed_brake"),
			NoseWheelSteering: v.GetFloat64("autopilot.nose_wheel_steering"),
			NWSSteering:       v.GetFloat64("autopilot.nws_steering"),
			WheelBrakeLeft:    v.GetFloat64("autopilot.wheel_brake_left"),
			WheelBrakeRight:   v.GetFloat64("autopilot.wheel_brake_right"),
		},
		Condition: fcs.FlightCondition{
			Mach:               v.GetFloat64("condition.mach"),
			KTAS:               v.GetFloat64("condition.ktas"),
			AlphaDeg:           v.GetFloat64("condition.alpha_deg"),
			BetaDeg:            v.GetFloat64("condition.beta_deg"),
			Nx:                 v.GetFloat64("condition.nx"),
			Ny:                 v.GetFloat64("condition.ny"),
			Nz:                 v.GetFloat64("condition.nz"),
			AltitudeFt:         v.GetFloat64("condition.altitude_ft"),
			DynamicPressurePSF: v.GetFloat64("condition.dynamic_pressure_psf"),
			StaticPressurePSF:  v.GetFloat64("condition.static_pressure_psf"),
		},
	}
}

// readSteps returns the commands for each entry of the "steps" list. A
// step is layered over the settings in effect before it, so e.g.
// "{at: 1s, manual: {stick_back: 0.5}}" changes only the stick.
func readSteps(v *viper.Viper) ([]commands, error) {
	var steps []scriptStep
	if err := v.UnmarshalKey("steps", &steps); err != nil {
		return nil, fmt.Errorf("steps: %w", err)
	}
	for i, st := range steps {
		if st.At < 0 {
			return nil, fmt.Errorf("steps: %d: at %s: must not be negative", i, st.At)
		}
	}
	slices.SortStableFunc(steps, func(a, b scriptStep) int { return cmp.Compare(a.At, b.At) })

	settings := v.AllSettings()
	delete(settings, "steps")

	var script []commands
	for i, st := range steps {
		sv := viper.New()
		if err := sv.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("steps: %d: %w", i, err)
		}
		if err := sv.MergeConfigMap(st.Set); err != nil {
			return nil, fmt.Errorf("steps: %d: %w", i, err)
		}
		settings = sv.AllSettings()

		c := readCommands(sv)
		c.At = st.At
		script = append(script, c)
	}
	return script, nil
}

// commandsAt returns the commands in effect at t along with their index:
// 0 for the initial commands and i+1 for Steps[i].
func (s runSettings) commandsAt(t time.Duration) (int, commands) {
	idx, c := 0, s.commands
	for i, st := range s.Steps {
		if st.At > t {
			break
		}
		idx, c = i+1, st
	}
	return idx, c
}

var pilotModes = map[string]func(*pilot.Pilot){
	"manual":    (*pilot.Pilot).TakeManualControl,
	"external":  (*pilot.Pilot).TakeExternalDirectControl,
	"autopilot": func(p *pilot.Pilot) { p.EnableAutopilot(true) },
	"cas": func(p *pilot.Pilot) {
		p.TakeManualControl()
		p.SetControlAugmentationModeActive(true)
	},
	"disabled": func(p *pilot.Pilot) { p.EnableControls(false) },
	"testing":  (*pilot.Pilot).TakeTestControl,
}

// applyMode puts the pilot into the commanded mode, releasing any other.
func (c commands) applyMode(p *pilot.Pilot) error {
	take, ok := pilotModes[c.Mode]
	if !ok {
		return fmt.Errorf("%q: unknown mode", c.Mode)
	}

	p.EnableControls(true)
	p.EnableAutopilot(false)
	p.ReleaseManualControl()
	p.ReleaseExternalDirectControl()
	p.ReleaseTestControl()
	p.SetControlAugmentationModeActive(false)

	take(p)
	p.SetStabilityAugmentation(c.SAS[0], c.SAS[1], c.SAS[2])
	return nil
}
