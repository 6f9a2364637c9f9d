// fcs/actuator_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	gomath "math"
	"math/rand/v2"
	"testing"
	"time"
)

func approxEqual(a, b, eps float64) bool {
	return gomath.Abs(a-b) <= eps
}

func testActuator() *Actuator {
	return &Actuator{PositiveRate: 40, NegativeRate: 60, Min: -20, Max: 20}
}

func TestActuatorRamp(t *testing.T) {
	a := testActuator()
	a.Initialize(0, 0)

	expected := []float64{4, 8, 12, 16, 20, 20}
	for i, e := range expected {
		now := time.Duration(i+1) * 100 * time.Millisecond
		if got := a.Update(now, 20); !approxEqual(got, e, 1e-9) {
			t.Errorf("tick %d: got %v, expected %v", i+1, got, e)
		}
	}
	if a.Current != 20 {
		t.Errorf("final angle: got %v, expected exactly 20", a.Current)
	}

	// Faster travel in the negative direction.
	if got := a.Update(600*time.Millisecond+100*time.Millisecond, -20); !approxEqual(got, 14, 1e-9) {
		t.Errorf("negative step: got %v, expected %v", got, 14)
	}
}

func TestActuatorNonPositiveStep(t *testing.T) {
	a := testActuator()
	a.Initialize(time.Second, 5)

	for _, now := range []time.Duration{time.Second, 500 * time.Millisecond} {
		if got := a.Update(now, 20); got != 5 {
			t.Errorf("update at %v: got %v, expected 5", now, got)
		}
	}
}

func TestActuatorRateAndLimits(t *testing.T) {
	a := testActuator()
	a.Initialize(0, 0)

	r := rand.New(rand.NewPCG(1, 2))
	now := time.Duration(0)
	for i := range 1000 {
		dt := time.Duration(r.IntN(200)+1) * time.Millisecond
		now += dt
		cmd := -50 + 100*r.Float64()
		prev := a.Current

		cur := a.Update(now, cmd)

		if cur < a.Min || cur > a.Max {
			t.Fatalf("step %d: angle %v outside [%v, %v]", i, cur, a.Min, a.Max)
		}
		if d := cur - prev; d > a.PositiveRate*dt.Seconds()+1e-9 {
			t.Errorf("step %d: rose %v in %v, limit %v", i, d, dt, a.PositiveRate*dt.Seconds())
		} else if -d > a.NegativeRate*dt.Seconds()+1e-9 {
			t.Errorf("step %d: fell %v in %v, limit %v", i, -d, dt, a.NegativeRate*dt.Seconds())
		}
	}
}

func TestActuatorConvergence(t *testing.T) {
	for _, cmd := range []float64{13.7, -19.9, 0.01, 20, -20} {
		a := testActuator()
		a.Initialize(0, 0)

		now := time.Duration(0)
		prevErr := gomath.Inf(1)
		for range 100 {
			now += 30 * time.Millisecond
			a.Update(now, cmd)
			e := gomath.Abs(cmd - a.Current)
			if e > prevErr {
				t.Errorf("command %v: error increased from %v to %v", cmd, prevErr, e)
			}
			prevErr = e
		}
		if a.Current != cmd {
			t.Errorf("command %v: got %v, expected exact convergence", cmd, a.Current)
		}
	}
}

func TestActuatorNoLag(t *testing.T) {
	a := testActuator()
	a.NoLag = true
	a.Initialize(0, 0)

	for i, cmd := range []float64{15, -35, 3, 100} {
		// Even a repeated time snaps to the command.
		now := time.Duration(i/2) * time.Second
		expected := min(max(cmd, a.Min), a.Max)
		if got := a.Update(now, cmd); got != expected {
			t.Errorf("command %v: got %v, expected %v", cmd, got, expected)
		}
	}
}

func TestActuatorSetAngle(t *testing.T) {
	a := testActuator()
	a.SetAngle(45)
	if a.Current != 20 || a.Commanded != 20 {
		t.Errorf("SetAngle(45): got current %v commanded %v, expected 20 and 20", a.Current, a.Commanded)
	}
}
