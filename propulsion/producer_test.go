// propulsion/producer_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

import (
	"errors"
	gomath "math"
	"testing"
	"time"

	"github.com/mmp/sixdof/math"
)

func approxEqual(a, b, eps float64) bool {
	return gomath.Abs(a-b) <= eps
}

func vecApproxEqual(a, b math.Vec3, eps float64) bool {
	for i := range a {
		if !approxEqual(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

// constEngine produces fixed thrust and fuel flow regardless of throttle.
type constEngine struct {
	thrust, fuelPPH float64
}

func (c constEngine) ComputeThrust(Conditions, float64) (float64, float64) {
	return c.thrust, c.fuelPPH
}

func (constEngine) AfterburnerPresent() bool { return false }

func makeProducer(t *testing.T, cfg ProducerConfig, e Engine, fuelLbs float64) *ThrustProducer {
	t.Helper()
	p, err := NewThrustProducer(cfg, e)
	if err != nil {
		t.Fatal(err)
	}
	p.Tank = &FuelTank{Name: "main", CapacityLbs: 1000, QuantityLbs: fuelLbs}
	p.Throttle = 1
	p.NoLag = true
	return p
}

func TestNoEngine(t *testing.T) {
	if _, err := NewThrustProducer(ProducerConfig{Name: "empty"}, nil); !errors.Is(err, ErrNoEngine) {
		t.Errorf("got %v, expected ErrNoEngine", err)
	}
}

func TestReverser(t *testing.T) {
	p := makeProducer(t, ProducerConfig{}, constEngine{thrust: 1000, fuelPPH: 3600}, 1000)
	p.ReverserEnabled = true
	p.SetThrustReverser(0.6)

	r := p.CalculateThrust(Conditions{Dt: 0.1})
	if !approxEqual(r.ThrustLbf, 100, 1e-9) {
		t.Errorf("thrust: got %v, expected 100", r.ThrustLbf)
	}
	if !vecApproxEqual(r.Force, math.Vec3{100, 0, 0}, 1e-9) {
		t.Errorf("force: got %v, expected [100 0 0]", r.Force)
	}

	// The factor sweeps linearly from 1 to -0.5.
	for i := 0; i <= 10; i++ {
		s := float64(i) / 10
		p.SetThrustReverser(s)
		if f := p.ThrustFactor(); !approxEqual(f, 1-1.5*s, 1e-12) {
			t.Errorf("setting %v: got factor %v, expected %v", s, f, 1-1.5*s)
		}
	}
	p.SetThrustReverser(3)
	if f := p.ThrustFactor(); f != -0.5 {
		t.Errorf("setting beyond 1: got factor %v, expected -0.5", f)
	}
	p.ReverserEnabled = false
	if f := p.ThrustFactor(); f != 1 {
		t.Errorf("disabled reverser: got factor %v, expected 1", f)
	}
}

func TestReverserIgnoresDrag(t *testing.T) {
	// Fuel starved, so only windmilling drag remains.
	p := makeProducer(t, ProducerConfig{InoperativeDragAreaFt2: 2}, constEngine{thrust: 1000, fuelPPH: 3600}, 0)
	p.ReverserEnabled = true

	for _, s := range []float64{0, 0.5, 1} {
		p.SetThrustReverser(s)
		r := p.CalculateThrust(Conditions{Dt: 0.1, DynPressPSF: 100})
		if r.ThrustLbf != -200 {
			t.Errorf("reverser %v: got %v, expected drag of -200", s, r.ThrustLbf)
		}
		if r.FuelBurnPPH != 0 || r.FuelBurnedLbs != 0 {
			t.Errorf("reverser %v: dead engine burned fuel", s)
		}
	}
}

func TestCalculateMatchesUpdate(t *testing.T) {
	cfg := ProducerConfig{InstalledPitchDeg: 5, LocationFt: math.Vec3{-10, 1, 0.5}, SpinUpRate: 0.5, SpinDownRate: 0.5}
	p := makeProducer(t, cfg, constEngine{thrust: 2000, fuelPPH: 7200}, 500)
	p.NoLag = false
	p.ReverserEnabled = true
	p.SetThrustReverser(0.2)

	c := Conditions{Dt: 0.05, AltitudeFt: 10000, DynPressPSF: 250}
	for i := range 5 {
		calc := p.CalculateThrust(c)
		fuel := p.Tank.QuantityLbs
		if again := p.CalculateThrust(c); again != calc {
			t.Errorf("step %d: CalculateThrust changed between calls: %+v vs %+v", i, calc, again)
		}
		if p.Tank.QuantityLbs != fuel {
			t.Errorf("step %d: CalculateThrust drew fuel", i)
		}

		upd := p.UpdateThrust(c)
		if upd != calc {
			t.Errorf("step %d: got update %+v, expected %+v", i, upd, calc)
		}
		if !approxEqual(p.Tank.QuantityLbs, fuel-upd.FuelBurnedLbs, 1e-12) {
			t.Errorf("step %d: tank has %v, expected %v", i, p.Tank.QuantityLbs, fuel-upd.FuelBurnedLbs)
		}
	}
	if !approxEqual(p.EffectiveThrottle, 5*0.05*0.5, 1e-12) {
		t.Errorf("throttle spool: got %v, expected %v", p.EffectiveThrottle, 5*0.05*0.5)
	}
}

func TestIgniteShutdownFraction(t *testing.T) {
	p := makeProducer(t, ProducerConfig{StartShutdown: true}, constEngine{thrust: 1000, fuelPPH: 3600}, 1000)
	c := Conditions{Dt: 0.1}

	if r := p.UpdateThrust(c); r.ThrustLbf != 0 || p.Operating {
		t.Errorf("before ignition: got %v lbf, operating %v", r.ThrustLbf, p.Operating)
	}

	p.Ignite(25 * time.Millisecond)
	if r := p.CalculateThrust(c); !approxEqual(r.ThrustLbf, 750, 1e-9) {
		t.Errorf("ignition calculate: got %v, expected 750", r.ThrustLbf)
	}
	if r := p.UpdateThrust(c); !approxEqual(r.ThrustLbf, 750, 1e-9) || !approxEqual(r.FuelBurnPPH, 2700, 1e-9) {
		t.Errorf("ignition step: got %v lbf %v pph, expected 750 and 2700", r.ThrustLbf, r.FuelBurnPPH)
	}
	if r := p.UpdateThrust(c); !approxEqual(r.ThrustLbf, 1000, 1e-9) {
		t.Errorf("after ignition: got %v, expected 1000", r.ThrustLbf)
	}

	p.Shutdown(40 * time.Millisecond)
	if r := p.UpdateThrust(c); !approxEqual(r.ThrustLbf, 400, 1e-9) {
		t.Errorf("shutdown step: got %v, expected 400", r.ThrustLbf)
	}
	if r := p.UpdateThrust(c); r.ThrustLbf != 0 || p.Lit {
		t.Errorf("after shutdown: got %v lbf, lit %v", r.ThrustLbf, p.Lit)
	}
}

func TestThrustDirection(t *testing.T) {
	deg := math.Radians(10)
	for _, test := range []struct {
		name       string
		cfg        ProducerConfig
		vectoring  bool
		yaw, pitch float64
		expected   math.Vec3
	}{
		{name: "nominal", expected: math.Vec3{1, 0, 0}},
		{name: "vectoring disabled", yaw: 10, pitch: 10, expected: math.Vec3{1, 0, 0}},
		{name: "vector yaw", vectoring: true, yaw: 10, expected: math.Vec3{gomath.Cos(deg), gomath.Sin(deg), 0}},
		{name: "vector pitch", vectoring: true, pitch: 10, expected: math.Vec3{gomath.Cos(deg), 0, -gomath.Sin(deg)}},
		{name: "installed yaw", cfg: ProducerConfig{InstalledYawDeg: 10},
			expected: math.Vec3{gomath.Cos(deg), gomath.Sin(deg), 0}},
		{name: "installed plus vector", cfg: ProducerConfig{InstalledYawDeg: 5}, vectoring: true, yaw: 5,
			expected: math.Vec3{gomath.Cos(deg), gomath.Sin(deg), 0}},
		{name: "vector limit", cfg: ProducerConfig{MaxVectorAngleDeg: 10}, vectoring: true, yaw: 30,
			expected: math.Vec3{gomath.Cos(deg), gomath.Sin(deg), 0}},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := makeProducer(t, test.cfg, constEngine{thrust: 1000, fuelPPH: 3600}, 1000)
			p.VectoringEnabled = test.vectoring
			p.SetThrustVector(test.yaw, test.pitch)

			if d := p.Direction(); !vecApproxEqual(d, test.expected, 1e-12) {
				t.Errorf("direction: got %v, expected %v", d, test.expected)
			}
			if l := p.Direction().Length(); !approxEqual(l, 1, 1e-12) {
				t.Errorf("direction length: got %v, expected 1", l)
			}
		})
	}
}

func TestThrustMoment(t *testing.T) {
	p := makeProducer(t, ProducerConfig{LocationFt: math.Vec3{-10, 0, 1}}, constEngine{thrust: 1000, fuelPPH: 3600}, 1000)
	r := p.CalculateThrust(Conditions{Dt: 0.1})
	if !vecApproxEqual(r.Moment, math.Vec3{0, 1000, 0}, 1e-9) {
		t.Errorf("moment: got %v, expected [0 1000 0]", r.Moment)
	}
	if r.Location != p.Location {
		t.Errorf("location: got %v, expected %v", r.Location, p.Location)
	}
}

func TestFuelStarvation(t *testing.T) {
	p := makeProducer(t, ProducerConfig{InoperativeDragAreaFt2: 2}, constEngine{thrust: 1000, fuelPPH: 3600}, 0.05)

	// 0.1 lbs requested, half available.
	r := p.UpdateThrust(Conditions{Dt: 0.1, DynPressPSF: 100})
	if !approxEqual(r.ThrustLbf, 400, 1e-9) {
		t.Errorf("thrust: got %v, expected 400", r.ThrustLbf)
	}
	if !approxEqual(r.FuelBurnedLbs, 0.05, 1e-12) || p.Tank.QuantityLbs != 0 {
		t.Errorf("fuel: burned %v, %v remaining", r.FuelBurnedLbs, p.Tank.QuantityLbs)
	}
	if p.Operating {
		t.Errorf("a flamed out engine should not be operating")
	}
}

func TestJetEngine(t *testing.T) {
	smoke := 0.8
	j, err := NewJetEngine(JetEngineConfig{
		IdleThrust:  math.Curve{{0, 1000}},
		MilThrust:   math.Curve{{0, 5000}},
		ABThrust:    math.Curve{{0, 8000}},
		TSFCIdle:    1,
		TSFCMil:     0.8,
		TSFCAB:      2,
		SmokesAbove: &smoke,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		throttle       float64
		thrust, fuel   float64
		smokes         bool
	}{
		{throttle: 0, thrust: 1000, fuel: 1000},
		{throttle: 0.5, thrust: 3000, fuel: 1000 + 0.8*2000},
		{throttle: 1, thrust: 5000, fuel: 1000 + 0.8*4000, smokes: true},
		{throttle: 1.5, thrust: 6500, fuel: 1000 + 0.8*4000 + 2*1500},
		{throttle: 3, thrust: 8000, fuel: 1000 + 0.8*4000 + 2*3000},
	} {
		thrust, fuel := j.ComputeThrust(Conditions{}, test.throttle)
		if !approxEqual(thrust, test.thrust, 1e-9) || !approxEqual(fuel, test.fuel, 1e-9) {
			t.Errorf("throttle %v: got %v lbf %v pph, expected %v and %v", test.throttle, thrust, fuel, test.thrust, test.fuel)
		}
		if s := j.SmokesAt(test.throttle); s != test.smokes {
			t.Errorf("throttle %v: smoking %v, expected %v", test.throttle, s, test.smokes)
		}
	}

	if _, err := NewJetEngine(JetEngineConfig{IdleThrust: math.Curve{{0, 1000}}}); !errors.Is(err, ErrMissingThrustData) {
		t.Errorf("missing mil thrust: got %v, expected ErrMissingThrustData", err)
	}
	if _, err := NewJetEngine(JetEngineConfig{MilThrust: math.Curve{{1, 1}, {0, 2}}}); !errors.Is(err, math.ErrNonIncreasingCurve) {
		t.Errorf("bad curve: got %v, expected ErrNonIncreasingCurve", err)
	}
}
