// cmd/fcsrun/settings_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmp/sixdof/pilot"
)

func TestLoadSettings(t *testing.T) {
	s, err := loadSettings("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Tick != 20*time.Millisecond || s.Duration != 2*time.Second || s.Mode != "manual" {
		t.Errorf("defaults: got tick %s duration %s mode %q", s.Tick, s.Duration, s.Mode)
	}
	if s.Condition.AltitudeFt != 10000 || s.Condition.Nz != 1 {
		t.Errorf("default condition: got %+v", s.Condition)
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	yaml := `tick: 10ms
duration: 500ms
no_lag: true
mode: autopilot
freeze:
  pitch: true
manual:
  throttle_lever: 1.5
autopilot:
  stick_back: 0.25
condition:
  altitude_ft: 30000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err = loadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Tick != 10*time.Millisecond || s.Duration != 500*time.Millisecond {
		t.Errorf("got tick %s duration %s, expected 10ms and 500ms", s.Tick, s.Duration)
	}
	if !s.NoLag || !s.Freeze.TestingNoLag || !s.Freeze.Pitch || s.Freeze.Speed {
		t.Errorf("got freeze %+v no lag %v", s.Freeze, s.NoLag)
	}
	if s.Manual.ThrottleLever != 1.5 || s.Autopilot.StickBack != 0.25 {
		t.Errorf("got manual %+v autopilot %+v", s.Manual, s.Autopilot)
	}
	if s.Condition.AltitudeFt != 30000 || s.Condition.KTAS != 300 {
		t.Errorf("got condition %+v", s.Condition)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("tick: 0s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettings(bad); err == nil {
		t.Errorf("expected an error for a zero tick")
	}
}

func TestSettingsSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	yaml := `duration: 2s
manual:
  throttle_lever: 1
  stick_back: 0.25
steps:
  - at: 1s
    manual:
      stick_back: 0.5
  - at: 500ms
    mode: autopilot
    freeze:
      roll: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 2 {
		t.Fatalf("got %d steps, expected 2", len(s.Steps))
	}

	for _, test := range []struct {
		at         time.Duration
		index      int
		mode       string
		stickBack  float64
		rollFrozen bool
	}{
		{0, 0, "manual", 0.25, false},
		{499 * time.Millisecond, 0, "manual", 0.25, false},
		{500 * time.Millisecond, 1, "autopilot", 0.25, true},
		{time.Second, 2, "autopilot", 0.5, true},
		{2 * time.Second, 2, "autopilot", 0.5, true},
	} {
		i, c := s.commandsAt(test.at)
		if i != test.index {
			t.Errorf("%s: got step %d, expected %d", test.at, i, test.index)
		}
		if c.Mode != test.mode {
			t.Errorf("%s: got mode %q, expected %q", test.at, c.Mode, test.mode)
		}
		if c.Manual.StickBack != test.stickBack {
			t.Errorf("%s: got stick back %v, expected %v", test.at, c.Manual.StickBack, test.stickBack)
		}
		if c.Freeze.Roll != test.rollFrozen {
			t.Errorf("%s: got roll freeze %v, expected %v", test.at, c.Freeze.Roll, test.rollFrozen)
		}
		if c.Manual.ThrottleLever != 1 || c.Condition.AltitudeFt != 10000 {
			t.Errorf("%s: lost settings from before the step: %+v %+v", test.at, c.Manual, c.Condition)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("steps:\n  - at: 1s\n    mode: sideways\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettings(bad); err == nil {
		t.Errorf("expected an error for an unknown mode in a step")
	}
}

func TestApplyMode(t *testing.T) {
	p := pilot.NewPilot(pilot.Config{}, nil, nil, nil)

	c := commands{Mode: "autopilot"}
	if err := c.applyMode(p); err != nil {
		t.Fatal(err)
	}
	if m := p.Mode(); m != pilot.ModeAutopilot {
		t.Errorf("got mode %s, expected autopilot", m)
	}

	// Later commands replace the earlier mode rather than adding to it.
	c = commands{Mode: "manual"}
	if err := c.applyMode(p); err != nil {
		t.Fatal(err)
	}
	if m := p.Mode(); m != pilot.ModeManual {
		t.Errorf("got mode %s, expected manual", m)
	}

	c = commands{Mode: "sideways"}
	if err := c.applyMode(p); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}
