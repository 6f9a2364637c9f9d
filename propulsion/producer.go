// propulsion/producer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

import (
	"log/slog"
	"time"

	"github.com/mmp/sixdof/math"
)

type ProducerConfig struct {
	Name   string           `json:"name" msgpack:"name"`
	Engine *JetEngineConfig `json:"engine" msgpack:"engine"`

	InstalledYawDeg   float64   `json:"installed_yaw_deg,omitempty" msgpack:"installed_yaw_deg"`
	InstalledPitchDeg float64   `json:"installed_pitch_deg,omitempty" msgpack:"installed_pitch_deg"`
	InstalledRollDeg  float64   `json:"installed_roll_deg,omitempty" msgpack:"installed_roll_deg"`
	LocationFt        math.Vec3 `json:"location_ft" msgpack:"location_ft"`

	// Thrust vectoring angles are limited to +/- this; 0 means no limit.
	MaxVectorAngleDeg float64 `json:"max_vector_angle_deg,omitempty" msgpack:"max_vector_angle_deg"`
	// Windmilling drag of a dead engine is this area times the dynamic
	// pressure.
	InoperativeDragAreaFt2 float64 `json:"inoperative_drag_area_ft2,omitempty" msgpack:"inoperative_drag_area_ft2"`
	// Throttle response in throttle units per second; zero means the
	// engine responds immediately.
	SpinUpRate   float64 `json:"spin_up_per_sec,omitempty" msgpack:"spin_up_per_sec"`
	SpinDownRate float64 `json:"spin_down_per_sec,omitempty" msgpack:"spin_down_per_sec"`

	FuelTank string `json:"fuel_tank,omitempty" msgpack:"fuel_tank"`
	// Engines start running unless this is set.
	StartShutdown bool `json:"start_shutdown,omitempty" msgpack:"start_shutdown"`
}

// Result is the outcome of a thrust calculation. Force and Moment are in
// the vehicle's body frame, about its reference point; for a single
// producer Location is where the force acts.
type Result struct {
	Force         math.Vec3
	Moment        math.Vec3
	Location      math.Vec3
	ThrustLbf     float64
	FuelBurnPPH   float64
	FuelBurnedLbs float64
}

func (r Result) Add(o Result) Result {
	return Result{
		Force:         r.Force.Add(o.Force),
		Moment:        r.Moment.Add(o.Moment),
		ThrustLbf:     r.ThrustLbf + o.ThrustLbf,
		FuelBurnPPH:   r.FuelBurnPPH + o.FuelBurnPPH,
		FuelBurnedLbs: r.FuelBurnedLbs + o.FuelBurnedLbs,
	}
}

func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("force", r.Force),
		slog.Float64("thrust", r.ThrustLbf),
		slog.Float64("fuel_pph", r.FuelBurnPPH))
}

// ThrustProducer places an Engine on the vehicle: it orients and locates
// the engine's thrust, applies thrust vectoring and reversing, feeds it
// fuel, and tracks whether it is running.
type ThrustProducer struct {
	Name     string
	Engine   Engine
	Location math.Vec3

	installed      math.Matrix3
	maxVectorAngle float64
	dragArea       float64
	spinUp         float64
	spinDown       float64

	Tank *FuelTank

	// Controls
	Throttle         float64
	VectoringEnabled bool
	VectorYawDeg     float64
	VectorPitchDeg   float64
	ReverserEnabled  bool
	ReverserSetting  float64
	NoLag            bool

	EffectiveThrottle float64
	Lit               bool
	igniting          bool
	igniteOffset      float64
	shuttingDown      bool
	shutdownOffset    float64
	DamageSmoke       bool

	// State as of the last UpdateThrust.
	Operating     bool
	AfterburnerOn bool
	Smoking       bool
	Contrailing   bool
	Last          Result

	contrailMinFt, contrailMaxFt float64
}

type producerState struct {
	throttle      float64
	operating     bool
	afterburnerOn bool
	smoking       bool
	contrailing   bool
}

// NewThrustProducer returns a producer for the given engine; an engine is
// required.
func NewThrustProducer(cfg ProducerConfig, engine Engine) (*ThrustProducer, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}
	return &ThrustProducer{
		Name:     cfg.Name,
		Engine:   engine,
		Location: cfg.LocationFt,
		installed: math.RotationYPR(math.Radians(cfg.InstalledYawDeg), math.Radians(cfg.InstalledPitchDeg),
			math.Radians(cfg.InstalledRollDeg)),
		maxVectorAngle: cfg.MaxVectorAngleDeg,
		dragArea:       cfg.InoperativeDragAreaFt2,
		spinUp:         cfg.SpinUpRate,
		spinDown:       cfg.SpinDownRate,
		Lit:            !cfg.StartShutdown,
	}, nil
}

// ThrustFactor returns the multiplier the thrust reverser applies to
// forward thrust: 1 with the reverser stowed or disabled, down to -0.5 at
// full reverse.
func (p *ThrustProducer) ThrustFactor() float64 {
	if !p.ReverserEnabled {
		return 1
	}
	return 1 - 1.5*math.Clamp(p.ReverserSetting, 0, 1)
}

func (p *ThrustProducer) limitVector(deg float64) float64 {
	if p.maxVectorAngle > 0 {
		return math.Limit(deg, p.maxVectorAngle)
	}
	return deg
}

// Direction returns the unit thrust direction in the body frame.
func (p *ThrustProducer) Direction() math.Vec3 {
	c := p.installed
	if p.VectoringEnabled {
		yaw := math.Radians(p.limitVector(p.VectorYawDeg))
		pitch := math.Radians(p.limitVector(p.VectorPitchDeg))
		c = math.RotationY(pitch).PostMultiply(math.RotationZ(yaw)).PostMultiply(c)
	}
	return c.Transpose().TransformVector(math.Vec3{1, 0, 0})
}

func (p *ThrustProducer) maxThrottle() float64 {
	if p.Engine.AfterburnerPresent() {
		return 2
	}
	return 1
}

// nextThrottle returns the effective throttle after dt seconds of spooling
// toward the commanded throttle.
func (p *ThrustProducer) nextThrottle(dt float64) float64 {
	target := math.Clamp(p.Throttle, 0, p.maxThrottle())
	if p.NoLag {
		return target
	}

	delta := target - p.EffectiveThrottle
	if delta >= 0 && p.spinUp > 0 {
		delta = min(delta, p.spinUp*dt)
	} else if delta < 0 && p.spinDown > 0 {
		delta = max(delta, -p.spinDown*dt)
	}
	return math.Clamp(p.EffectiveThrottle+delta, 0, p.maxThrottle())
}

// runFraction returns the fraction of the step the engine runs for.
func (p *ThrustProducer) runFraction(dt float64) float64 {
	switch {
	case p.igniting:
		return 1 - math.Fraction(p.igniteOffset, dt)
	case p.shuttingDown:
		return math.Fraction(p.shutdownOffset, dt)
	case p.Lit:
		return 1
	default:
		return 0
	}
}

// compute returns the producer's thrust for the step, drawing its fuel
// from fuel rather than from the tank itself.
func (p *ThrustProducer) compute(c Conditions, fuel fuelSupply) (Result, producerState) {
	st := producerState{throttle: p.nextThrottle(c.Dt)}

	var thrust, fuelPPH float64
	frac := p.runFraction(c.Dt)
	if frac > 0 {
		thrust, fuelPPH = p.Engine.ComputeThrust(c, st.throttle)
		thrust *= frac
		fuelPPH *= frac
	}

	request := fuelPPH / 3600 * c.Dt
	left := fuel.remaining(p.Tank)
	drag := p.dragArea * c.DynPressPSF

	var net, burned float64
	switch {
	case frac == 0 || fuelPPH <= 0 || left <= 0:
		// Not running or fuel starved for the entire step.
		net = -drag
		fuelPPH = 0

	case left < request:
		// Flamed out partway through the step.
		burned = fuel.draw(p.Tank, request)
		ratio := burned / request
		net = thrust*ratio - drag*(1-ratio)
		fuelPPH *= ratio

	default:
		burned = fuel.draw(p.Tank, request)
		net = thrust
		st.operating = true
		st.afterburnerOn = p.Engine.AfterburnerPresent() && st.throttle > 1
		if s, ok := p.Engine.(Smoker); ok {
			st.smoking = s.SmokesAt(st.throttle)
		}
	}

	if st.operating && p.contrailMaxFt > p.contrailMinFt &&
		c.AltitudeFt >= p.contrailMinFt && c.AltitudeFt <= p.contrailMaxFt {
		st.contrailing = true
	}
	if p.DamageSmoke {
		st.smoking = true
	}

	// Windmilling drag is never reversed.
	if net >= 0 {
		net *= p.ThrustFactor()
	}

	force := p.Direction().Scale(net)
	return Result{
		Force:         force,
		Moment:        p.Location.Cross(force),
		Location:      p.Location,
		ThrustLbf:     net,
		FuelBurnPPH:   fuelPPH,
		FuelBurnedLbs: burned,
	}, st
}

// CalculateThrust computes the producer's thrust for the given conditions
// without changing any of its state.
func (p *ThrustProducer) CalculateThrust(c Conditions) Result {
	r, _ := p.compute(c, fuelSupply{})
	return r
}

// UpdateThrust computes the same result as CalculateThrust and then
// advances the producer: fuel is drawn from its tank, the throttle spools,
// and pending ignitions or shutdowns take effect.
func (p *ThrustProducer) UpdateThrust(c Conditions) Result {
	fuel := fuelSupply{}
	r, st := p.compute(c, fuel)
	fuel.commit()
	p.advance(r, st)
	return r
}

func (p *ThrustProducer) advance(r Result, st producerState) {
	p.EffectiveThrottle = st.throttle

	if p.igniting {
		p.igniting, p.Lit = false, true
	}
	if p.shuttingDown {
		p.shuttingDown, p.Lit = false, false
	}

	p.Operating = st.operating
	p.AfterburnerOn = st.afterburnerOn
	p.Smoking = st.smoking
	p.Contrailing = st.contrailing
	p.Last = r
}

// Ignite starts the engine offset into the next step; thrust and fuel
// flow for that step are scaled by the fraction of it the engine runs.
func (p *ThrustProducer) Ignite(offset time.Duration) {
	if p.Lit && !p.shuttingDown {
		return
	}
	p.shuttingDown = false
	p.igniting = true
	p.igniteOffset = offset.Seconds()
}

// Shutdown stops the engine offset into the next step.
func (p *ThrustProducer) Shutdown(offset time.Duration) {
	if p.igniting {
		p.igniting = false
		return
	}
	if !p.Lit {
		return
	}
	p.shuttingDown = true
	p.shutdownOffset = offset.Seconds()
}

func (p *ThrustProducer) SetThrustReverser(setting float64) {
	p.ReverserSetting = math.Clamp(setting, 0, 1)
}

func (p *ThrustProducer) SetThrustVector(yawDeg, pitchDeg float64) {
	p.VectorYawDeg = p.limitVector(yawDeg)
	p.VectorPitchDeg = p.limitVector(pitchDeg)
}
