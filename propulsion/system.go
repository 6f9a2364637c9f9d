// propulsion/system.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/math"
	"github.com/mmp/sixdof/util"
)

// Bindings name the flight control system's control values that drive
// the engines. Any may be empty.
type Bindings struct {
	ThrottleMIL string `json:"throttle_mil,omitempty" msgpack:"throttle_mil"`
	ThrottleAB  string `json:"throttle_ab,omitempty" msgpack:"throttle_ab"`
	Reverser    string `json:"thrust_reverser,omitempty" msgpack:"thrust_reverser"`
	VectorYaw   string `json:"thrust_vector_yaw,omitempty" msgpack:"thrust_vector_yaw"`
	VectorPitch string `json:"thrust_vector_pitch,omitempty" msgpack:"thrust_vector_pitch"`
}

type Config struct {
	Tanks     []FuelTankConfig `json:"fuel_tanks,omitempty" msgpack:"fuel_tanks"`
	Producers []ProducerConfig `json:"thrust_producers" msgpack:"thrust_producers"`
	Bindings  Bindings         `json:"control_bindings" msgpack:"control_bindings"`

	EnableThrustReverser  bool    `json:"enable_thrust_reverser,omitempty" msgpack:"enable_thrust_reverser"`
	EnableThrustVectoring bool    `json:"enable_thrust_vectoring,omitempty" msgpack:"enable_thrust_vectoring"`
	ContrailMinFt         float64 `json:"contrail_min_ft,omitempty" msgpack:"contrail_min_ft"`
	ContrailMaxFt         float64 `json:"contrail_max_ft,omitempty" msgpack:"contrail_max_ft"`
}

// System is the vehicle's propulsion: its thrust producers and fuel
// tanks, and the controls that drive them.
type System struct {
	Producers []*ThrustProducer
	Tanks     []*FuelTank

	fcs                             *fcs.System
	mil, ab, reverser, yaw, pitch   fcs.ValueHandle
	throttleLeverSet                bool
	reverserSet, yawSet, pitchSet   bool
	reverserEnabled, vectorsEnabled bool

	lg *log.Logger
}

// NewSystem builds the propulsion system. Problems with tanks, producers
// and bindings are reported to e and the offending element is skipped; a
// producer that has no engine is a fatal error.
func NewSystem(cfg Config, f *fcs.System, e *util.ErrorLogger, lg *log.Logger) (*System, error) {
	if e == nil {
		e = &util.ErrorLogger{}
	}
	defer e.CheckDepth(e.CurrentDepth())

	s := &System{
		fcs:             f,
		reverserEnabled: cfg.EnableThrustReverser,
		vectorsEnabled:  cfg.EnableThrustVectoring,
		lg:              lg,
	}

	e.Push("fuel_tanks")
	for _, tc := range cfg.Tanks {
		e.Push(tc.Name)
		if s.tank(tc.Name) != nil {
			e.Error(ErrDuplicateTank)
		} else if t, err := NewFuelTank(tc); err != nil {
			e.Error(err)
		} else {
			s.Tanks = append(s.Tanks, t)
		}
		e.Pop()
	}
	e.Pop()

	e.Push("thrust_producers")
	for _, pc := range cfg.Producers {
		p, err := s.newProducer(cfg, pc, e)
		if err != nil {
			e.Pop()
			return nil, fmt.Errorf("%s: %w", pc.Name, err)
		}
		if p != nil {
			s.Producers = append(s.Producers, p)
		}
	}
	e.Pop()

	e.Push("control_bindings")
	bind := func(what, name string) fcs.ValueHandle {
		if name == "" {
			return 0
		}
		var h fcs.ValueHandle
		if f != nil {
			h = f.ControlValueHandle(name)
		}
		if h == 0 {
			e.ErrorString("%s: %q: %v", what, name, ErrUnknownBinding)
			lg.Warn("propulsion binding unmatched", "binding", what, "control_value", name)
		}
		return h
	}
	s.mil = bind("throttle_mil", cfg.Bindings.ThrottleMIL)
	s.ab = bind("throttle_ab", cfg.Bindings.ThrottleAB)
	s.reverser = bind("thrust_reverser", cfg.Bindings.Reverser)
	s.yaw = bind("thrust_vector_yaw", cfg.Bindings.VectorYaw)
	s.pitch = bind("thrust_vector_pitch", cfg.Bindings.VectorPitch)
	e.Pop()

	return s, nil
}

// newProducer returns nil if the producer can't be built; only a missing
// engine is returned as an error, everything else is reported to e.
func (s *System) newProducer(cfg Config, pc ProducerConfig, e *util.ErrorLogger) (*ThrustProducer, error) {
	e.Push(pc.Name)
	defer e.Pop()

	if pc.Engine == nil {
		return nil, ErrNoEngine
	}
	if s.producer(pc.Name) != nil {
		e.Error(ErrDuplicateProducer)
		return nil, nil
	}
	jet, err := NewJetEngine(*pc.Engine)
	if err != nil {
		e.Error(err)
		return nil, nil
	}
	p, err := NewThrustProducer(pc, jet)
	if err != nil {
		return nil, err
	}

	p.contrailMinFt, p.contrailMaxFt = cfg.ContrailMinFt, cfg.ContrailMaxFt
	p.ReverserEnabled = cfg.EnableThrustReverser
	p.VectoringEnabled = cfg.EnableThrustVectoring
	if pc.FuelTank != "" {
		if p.Tank = s.tank(pc.FuelTank); p.Tank == nil {
			e.ErrorString("%q: %v", pc.FuelTank, ErrUnknownTank)
		}
	} else if len(s.Tanks) > 0 {
		p.Tank = s.Tanks[0]
	}
	return p, nil
}

func (s *System) tank(name string) *FuelTank {
	for _, t := range s.Tanks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (s *System) producer(name string) *ThrustProducer {
	for _, p := range s.Producers {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// applyControls sets the producers' controls from the flight control
// system for any that haven't been set directly.
func (s *System) applyControls() {
	if s.fcs == nil {
		return
	}

	if !s.throttleLeverSet && s.mil != 0 {
		lever := s.fcs.ControlValue(s.mil)
		// Afterburner is only added in once at full military power.
		if s.AfterburnerIsPresent() && s.ab != 0 && lever > 1-epsilon {
			lever += s.fcs.ControlValue(s.ab)
		}
		for _, p := range s.Producers {
			p.Throttle = math.Clamp(lever, 0, p.maxThrottle())
		}
	}

	if !s.reverserSet && s.reverser != 0 {
		setting := 0.0
		if s.reverserEnabled {
			setting = s.fcs.ControlValue(s.reverser)
		}
		for _, p := range s.Producers {
			p.ReverserEnabled = s.reverserEnabled
			p.SetThrustReverser(setting)
		}
	}

	if (!s.yawSet && s.yaw != 0) || (!s.pitchSet && s.pitch != 0) {
		for _, p := range s.Producers {
			p.VectoringEnabled = s.vectorsEnabled
			if !s.vectorsEnabled {
				p.SetThrustVector(0, 0)
				continue
			}
			yaw, pitch := p.VectorYawDeg, p.VectorPitchDeg
			if !s.yawSet && s.yaw != 0 {
				yaw = s.fcs.ControlValue(s.yaw)
			}
			if !s.pitchSet && s.pitch != 0 {
				pitch = s.fcs.ControlValue(s.pitch)
			}
			p.SetThrustVector(yaw, pitch)
		}
	}
}

var epsilon = gomath.Nextafter(1, 2) - 1

// CalculateThrust returns the total thrust of all producers for the given
// conditions without advancing any engine or fuel state. Producers that
// share a tank draw from it in order.
func (s *System) CalculateThrust(c Conditions) Result {
	s.applyControls()
	r, _ := s.compute(c, fuelSupply{})
	return r
}

// UpdateThrust returns the same result as CalculateThrust and advances
// the engines and fuel tanks.
func (s *System) UpdateThrust(c Conditions) Result {
	s.applyControls()
	fuel := fuelSupply{}
	r, states := s.compute(c, fuel)
	fuel.commit()
	for i, p := range s.Producers {
		p.advance(states[i].result, states[i].state)
	}
	s.lg.Debug("thrust updated", "result", r)
	return r
}

type producerStep struct {
	result Result
	state  producerState
}

func (s *System) compute(c Conditions, fuel fuelSupply) (Result, []producerStep) {
	var total Result
	steps := make([]producerStep, len(s.Producers))
	for i, p := range s.Producers {
		r, st := p.compute(c, fuel)
		steps[i] = producerStep{result: r, state: st}
		total = total.Add(r)
	}
	return total, steps
}

///////////////////////////////////////////////////////////////////////////
// Direct controls

// SetThrottleLeverPosition sets all engines' throttles directly, after
// which the throttle bindings are no longer consulted.
func (s *System) SetThrottleLeverPosition(lever float64) {
	s.throttleLeverSet = true
	for _, p := range s.Producers {
		p.Throttle = math.Clamp(lever, 0, p.maxThrottle())
	}
}

// SetThrustReverserPosition sets all engines' reversers directly; the
// reverser binding is no longer consulted.
func (s *System) SetThrustReverserPosition(setting float64) {
	s.reverserSet = true
	for _, p := range s.Producers {
		p.SetThrustReverser(setting)
	}
}

func (s *System) EnableThrustReverser(enable bool) {
	s.reverserEnabled = enable
	for _, p := range s.Producers {
		p.ReverserEnabled = enable
	}
}

func (s *System) EnableThrustVectoring(enable bool) {
	s.vectorsEnabled = enable
	for _, p := range s.Producers {
		p.VectoringEnabled = enable
	}
}

func (s *System) SetThrustVectorYaw(deg float64) {
	s.yawSet = true
	for _, p := range s.Producers {
		p.SetThrustVector(deg, p.VectorPitchDeg)
	}
}

func (s *System) SetThrustVectorPitch(deg float64) {
	s.pitchSet = true
	for _, p := range s.Producers {
		p.SetThrustVector(p.VectorYawDeg, deg)
	}
}

// SetTestingNoLag makes all engines respond to throttle changes
// immediately.
func (s *System) SetTestingNoLag(noLag bool) {
	for _, p := range s.Producers {
		p.NoLag = noLag
	}
}

// IgniteAll ignites all engines offset into the next step.
func (s *System) IgniteAll(offset time.Duration) {
	for _, p := range s.Producers {
		p.Ignite(offset)
	}
}

// ShutdownAll shuts down all engines offset into the next step.
func (s *System) ShutdownAll(offset time.Duration) {
	for _, p := range s.Producers {
		p.Shutdown(offset)
	}
}

func (s *System) SetFuelFeed(producer, tank string) error {
	p := s.producer(producer)
	if p == nil {
		return fmt.Errorf("%s: %w", producer, ErrUnknownProducer)
	}
	t := s.tank(tank)
	if t == nil {
		return fmt.Errorf("%s: %w", tank, ErrUnknownTank)
	}
	p.Tank = t
	return nil
}

func (s *System) SetFuelFeedAll(tank string) error {
	t := s.tank(tank)
	if t == nil {
		return fmt.Errorf("%s: %w", tank, ErrUnknownTank)
	}
	for _, p := range s.Producers {
		p.Tank = t
	}
	return nil
}

// MakeAnEngineSmoke makes the engine with the given 1-based index smoke
// as if damaged; index 0 makes all of them smoke. It reports whether any
// engine was affected.
func (s *System) MakeAnEngineSmoke(index int) bool {
	if index == 0 {
		for _, p := range s.Producers {
			p.DamageSmoke = true
		}
		return len(s.Producers) > 0
	}
	if index < 0 || index > len(s.Producers) {
		return false
	}
	s.Producers[index-1].DamageSmoke = true
	return true
}

///////////////////////////////////////////////////////////////////////////
// Queries

func (s *System) anyProducer(pred func(*ThrustProducer) bool) bool {
	for _, p := range s.Producers {
		if pred(p) {
			return true
		}
	}
	return false
}

func (s *System) AnEngineIsOperating() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.Operating })
}

func (s *System) AnEngineIsSmoking() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.Smoking })
}

func (s *System) AnEngineHasAfterburnerOn() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.AfterburnerOn })
}

func (s *System) AnEngineIsContrailing() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.Contrailing })
}

func (s *System) AfterburnerIsPresent() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.Engine.AfterburnerPresent() })
}

// IsProducingThrust reports whether any engine produced forward thrust in
// the last update.
func (s *System) IsProducingThrust() bool {
	return s.anyProducer(func(p *ThrustProducer) bool { return p.Operating && p.Last.ThrustLbf > 0 })
}

func (s *System) FuelRemainingLbs() float64 {
	var f float64
	for _, t := range s.Tanks {
		f += t.QuantityLbs
	}
	return f
}
