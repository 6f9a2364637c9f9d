// vehicle/vehicle_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/pilot"
	"github.com/mmp/sixdof/propulsion"
	"github.com/mmp/sixdof/util"

	"github.com/klauspost/compress/zstd"
)

const testVehicleConfig = `{
  "name": "trainer",
  "flight_controls": {
    "control_inputs": [
      { "name": "stick_back" },
      { "name": "stick_right" },
      { "name": "rudder" },
      { "name": "throttle_mil" },
      { "name": "throttle_ab" },
      { "name": "reverser" },
      { "name": "speed_brake" },
      { "name": "flaps" },
      { "name": "gear", "bool": true }
    ],
    "modifiers": [
      { "name": "pitch_gain", "type": "scalar_gain", "gain": 25 },
      { "name": "roll_gain", "type": "scalar_gain", "gain": 20 },
      { "name": "yaw_gain", "type": "scalar_gain", "gain": 30 }
    ],
    "control_surfaces": [
      {
        "name": "Elevator",
        "inputs": [ { "input": "stick_back", "modifiers": ["pitch_gain"] } ],
        "min_angle_deg": -25,
        "max_angle_deg": 25,
        "actuator": { "max_positive_rate_dps": 60, "max_negative_rate_dps": 60 }
      },
      {
        "name": "Aileron",
        "inputs": [ { "input": "stick_right", "modifiers": ["roll_gain"] } ],
        "min_angle_deg": -20,
        "max_angle_deg": 20
      },
      {
        "name": "Rudder",
        "inputs": [ { "input": "rudder", "modifiers": ["yaw_gain"] } ],
        "min_angle_deg": -30,
        "max_angle_deg": 30
      },
      {
        "name": "Speed_Brake",
        "inputs": [ { "input": "speed_brake" } ],
        "min_angle_deg": 0,
        "max_angle_deg": 60,
        "angle_mapping_auto": [[0, 0], [1, 30]],
        "angle_mapping_manual": [[0, 0], [1, 60]]
      }
    ],
    "control_values": [
      { "name": "mil", "inputs": [ { "input": "throttle_mil" } ], "min": 0, "max": 1 },
      { "name": "ab", "inputs": [ { "input": "throttle_ab" } ], "min": 0, "max": 1 },
      { "name": "reverser", "inputs": [ { "input": "reverser" } ], "min": 0, "max": 1 }
    ],
    "control_booleans": [
      { "name": "gear_down", "inputs": [ { "input": "gear" } ] }
    ]
  },
  "pilot": {
    "standard_inputs": {
      "std_stick_back": "stick_back",
      "std_stick_right": "stick_right",
      "std_rudder_right": "rudder",
      "std_throttle_mil": "throttle_mil",
      "std_throttle_ab": "throttle_ab",
      "std_thrust_reverser": "reverser",
      "std_speed_brakes_out": "speed_brake",
      "std_flaps_down": "flaps",
      "std_landing_gear_down": "gear"
    },
    "pitch_trim_factor": 0.05,
    "modes": { "controls_enabled": true, "manual_control": true }
  },
  "propulsion": {
    "fuel_tanks": [ { "name": "internal", "capacity_lbs": 3000 } ],
    "thrust_producers": [
      {
        "name": "engine",
        "engine": {
          "idle_thrust_vs_alt": [[0, 500]],
          "mil_thrust_vs_alt": [[0, 5000], [40000, 2000]],
          "ab_thrust_vs_alt": [[0, 8000]],
          "tsfc_idle": 1,
          "tsfc_mil": 0.8,
          "tsfc_ab": 2
        },
        "location_ft": [-15, 0, 0]
      }
    ],
    "control_bindings": { "throttle_mil": "mil", "throttle_ab": "ab", "thrust_reverser": "reverser" }
  }
}`

func approxEqual(a, b, tol float64) bool {
	return gomath.Abs(a-b) <= tol
}

func decodeTestConfig(t *testing.T) Config {
	t.Helper()
	var e util.ErrorLogger
	cfg, err := util.DecodeJSON[Config]([]byte(testVehicleConfig), &e)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.HaveErrors() {
		t.Fatalf("JSON errors: %s", e.String())
	}
	return cfg
}

func makeTestVehicle(t *testing.T) *Vehicle {
	t.Helper()
	v, e, err := Rebuild(decodeTestConfig(t), nil)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if e.HaveErrors() {
		t.Fatalf("Rebuild: %s", e.String())
	}
	v.Initialize(0)
	return v
}

func surfaceAngle(out TickOutput, name string) float64 {
	for _, s := range out.Surfaces {
		if s.Name == name {
			return s.AngleDeg
		}
	}
	return gomath.NaN()
}

func TestTick(t *testing.T) {
	v := makeTestVehicle(t)

	v.Pilot.SetManualControlData(pilot.ManualControls{StickBack: 1, StickRight: 0.5, ThrottleLever: 1.5})
	out := v.Tick(100*time.Millisecond, fcs.FlightCondition{}, pilot.AutopilotControls{})

	// The elevator is rate limited; the aileron has no actuator.
	if a := surfaceAngle(out, "Elevator"); !approxEqual(a, 6, 1e-9) {
		t.Errorf("elevator: got %v, expected 6", a)
	}
	if a := surfaceAngle(out, "Aileron"); !approxEqual(a, 10, 1e-9) {
		t.Errorf("aileron: got %v, expected 10", a)
	}
	if !approxEqual(out.Thrust.ThrustLbf, 6500, 1e-9) {
		t.Errorf("thrust: got %v, expected 6500", out.Thrust.ThrustLbf)
	}
	// Thrust acts along the body x axis, aft of the reference point.
	if !approxEqual(out.Thrust.Force[0], 6500, 1e-9) || !approxEqual(out.Thrust.Moment.Length(), 0, 1e-9) {
		t.Errorf("force %v moment %v", out.Thrust.Force, out.Thrust.Moment)
	}
	if burned := 3000 - v.Propulsion.FuelRemainingLbs(); !approxEqual(burned, 7100.0/36000, 1e-9) {
		t.Errorf("fuel burned: got %v, expected %v", burned, 7100.0/36000)
	}

	// A repeated tick changes nothing.
	v.Pilot.SetManualControlData(pilot.ManualControls{StickBack: -1})
	if again := v.Tick(100*time.Millisecond, fcs.FlightCondition{}, pilot.AutopilotControls{}); !reflect.DeepEqual(again, out) {
		t.Errorf("repeated tick: got %+v, expected %+v", again, out)
	}

	out = v.Tick(200*time.Millisecond, fcs.FlightCondition{}, pilot.AutopilotControls{})
	if a := surfaceAngle(out, "Elevator"); !approxEqual(a, 0, 1e-9) {
		t.Errorf("elevator: got %v, expected 0", a)
	}
}

func TestFirstTickStartsActuators(t *testing.T) {
	v, _, err := Rebuild(decodeTestConfig(t), nil)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	v.Pilot.SetManualControlData(pilot.ManualControls{StickBack: 1})
	out := v.Tick(100*time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})
	if a := surfaceAngle(out, "Elevator"); !approxEqual(a, 0, 1e-9) {
		t.Errorf("first tick elevator: got %v, expected 0", a)
	}

	out = v.Tick(100*time.Second+100*time.Millisecond, fcs.FlightCondition{}, pilot.AutopilotControls{})
	if a := surfaceAngle(out, "Elevator"); !approxEqual(a, 6, 1e-9) {
		t.Errorf("second tick elevator: got %v, expected 6", a)
	}
}

func TestTickAutoMapping(t *testing.T) {
	v := makeTestVehicle(t)

	v.Pilot.SetManualControlData(pilot.ManualControls{SpeedBrake: 1})
	out := v.Tick(time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})
	if a := surfaceAngle(out, "Speed_Brake"); a != 60 {
		t.Errorf("manual speed brake: got %v, expected 60", a)
	}

	v.Pilot.EnableAutopilot(true)
	out = v.Tick(2*time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{SpeedBrake: 1})
	if a := surfaceAngle(out, "Speed_Brake"); a != 30 {
		t.Errorf("autopilot speed brake: got %v, expected 30", a)
	}
}

func TestTickFreezeAndConfigurationControls(t *testing.T) {
	v := makeTestVehicle(t)
	v.SetTestingNoLag(true)

	v.Pilot.SetManualControlData(pilot.ManualControls{StickBack: 1, ThrottleLever: 2, SpeedBrake: 1})
	v.Pilot.SetLandingGearControlPosition(1)
	v.Freeze = pilot.FreezeFlags{Speed: true, Pitch: true, TestingNoLag: true}
	out := v.Tick(time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})

	if !approxEqual(out.Thrust.ThrustLbf, 5000, 1e-9) {
		t.Errorf("frozen speed: got %v lbf, expected 5000", out.Thrust.ThrustLbf)
	}
	for _, name := range []string{"Elevator", "Speed_Brake"} {
		if a := surfaceAngle(out, name); a != 0 {
			t.Errorf("%s: got %v, expected 0", name, a)
		}
	}
	if !v.FCS.ControlBoolean(v.FCS.ControlBooleanHandle("gear_down")) {
		t.Errorf("expected the gear to be down")
	}

	// The reverser lever enables the engine's reverser.
	v.Freeze = pilot.FreezeFlags{TestingNoLag: true}
	v.Pilot.SetManualControlData(pilot.ManualControls{ThrottleLever: 1})
	v.Pilot.SetThrustReverserControlPosition(0.6)
	out = v.Tick(2*time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})
	if !approxEqual(out.Thrust.ThrustLbf, 500, 1e-9) {
		t.Errorf("reversed thrust: got %v, expected 500", out.Thrust.ThrustLbf)
	}
	if r := v.Lookahead(fcs.FlightCondition{AltitudeFt: 40000}, 0.1); !approxEqual(r.ThrustLbf, 200, 1e-9) {
		t.Errorf("lookahead at 40000 ft: got %v, expected 200", r.ThrustLbf)
	}
}

func TestRebuildIsolation(t *testing.T) {
	cfg := decodeTestConfig(t)
	a, _, err := Rebuild(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Rebuild(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.Initialize(0)
	b.Initialize(0)

	// Neither the configuration nor the other vehicle is shared.
	cfg.Propulsion.Producers[0].Engine.MilThrust[0][1] = 0
	a.Pilot.SetManualControlData(pilot.ManualControls{ThrottleLever: 1})
	oa := a.Tick(time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})
	ob := b.Tick(time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})

	if !approxEqual(oa.Thrust.ThrustLbf, 5000, 1e-9) {
		t.Errorf("vehicle a: got %v, expected 5000", oa.Thrust.ThrustLbf)
	}
	if !approxEqual(ob.Thrust.ThrustLbf, 500, 1e-9) {
		t.Errorf("vehicle b: got %v, expected idle 500", ob.Thrust.ThrustLbf)
	}
}

func TestRebuildErrors(t *testing.T) {
	cfg := decodeTestConfig(t)
	cfg.FlightControls.Surfaces[1].Inputs[0].Modifiers = []string{"no_such_modifier"}
	cfg.Pilot.StandardInputs["std_nws_enabled"] = "nws"

	v, e, err := Rebuild(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if h := v.FCS.ControlSurfaceHandle("Aileron"); h != 0 {
		t.Errorf("aileron should have been dropped")
	}
	for _, expected := range []string{"flight_controls", "no_such_modifier", "pilot", "std_nws_enabled"} {
		if !strings.Contains(e.String(), expected) {
			t.Errorf("diagnostics missing %q:\n%s", expected, e.String())
		}
	}

	cfg = decodeTestConfig(t)
	cfg.Propulsion.Producers[0].Engine = nil
	if _, _, err := Rebuild(cfg, nil); !errors.Is(err, propulsion.ErrNoEngine) {
		t.Errorf("engine-less producer: got %v, expected ErrNoEngine", err)
	}
}

func TestReport(t *testing.T) {
	v := makeTestVehicle(t)
	v.Pilot.SetManualControlData(pilot.ManualControls{ThrottleLever: 1})
	v.Tick(time.Second, fcs.FlightCondition{}, pilot.AutopilotControls{})

	b, err := v.Report()
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	last := -1
	for _, key := range []string{`"vehicle":"trainer"`, `"Elevator"`, `"Aileron"`, `"Rudder"`, `"Speed_Brake"`,
		`"mil":1`, `"gear_down":false`, `"thrust_lbf":5000`} {
		idx := strings.Index(s, key)
		if idx == -1 {
			t.Errorf("report is missing %s: %s", key, s)
		} else if idx < last {
			t.Errorf("%s is out of order: %s", key, s)
		}
		last = max(last, idx)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Errorf("report is not valid JSON: %v", err)
	}

	if d := v.Dump(); !strings.Contains(d, "trainer") {
		t.Errorf("dump does not include the vehicle name")
	}
}

func TestConfigFormats(t *testing.T) {
	cfg := decodeTestConfig(t)
	dir := t.TempDir()

	bundle, err := EncodeBundle(cfg)
	if err != nil {
		t.Fatal(err)
	}
	bundlePath := filepath.Join(dir, "trainer.msgpack.zst")
	if err := os.WriteFile(bundlePath, bundle, 0o644); err != nil {
		t.Fatal(err)
	}

	zw, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zjson := zw.EncodeAll([]byte(testVehicleConfig), nil)
	zw.Close()
	zjsonPath := filepath.Join(dir, "trainer.json.zst")
	if err := os.WriteFile(zjsonPath, zjson, 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{bundlePath, zjsonPath} {
		var e util.ErrorLogger
		loaded, err := LoadConfig(path, &e)
		if err != nil {
			t.Errorf("%s: %v", path, err)
		} else if !reflect.DeepEqual(loaded, cfg) {
			t.Errorf("%s: configuration differs after loading", path)
		}
		if e.HaveErrors() {
			t.Errorf("%s: %s", path, e.String())
		}
	}

	txt := filepath.Join(dir, "trainer.txt")
	if err := os.WriteFile(txt, []byte(testVehicleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(txt, nil); !errors.Is(err, ErrUnknownConfigFormat) {
		t.Errorf("%s: got %v, expected ErrUnknownConfigFormat", txt, err)
	}

	// Misspelled keys are reported but don't prevent loading.
	typo := filepath.Join(dir, "typo.json")
	if err := os.WriteFile(typo, []byte(`{"name": "glider", "pilto": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var e util.ErrorLogger
	if g, err := LoadConfig(typo, &e); err != nil || g.Name != "glider" {
		t.Errorf("typo.json: got %q, %v", g.Name, err)
	}
	if !strings.Contains(e.String(), "pilto") {
		t.Errorf("expected the misspelled key to be reported: %s", e.String())
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c"} {
		cfg := strings.Replace(testVehicleConfig, `"name": "trainer"`, `"name": "`+name+`"`, 1)
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	loaded, err := LoadAll(context.Background(), paths, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range loaded {
		if l.Path != paths[i] || l.Vehicle.Name != []string{"a", "b", "c"}[i] {
			t.Errorf("%d: got %s/%s", i, l.Path, l.Vehicle.Name)
		}
		if l.Errors.HaveErrors() {
			t.Errorf("%s: %s", l.Path, l.Errors.String())
		}
	}

	if _, err := LoadAll(context.Background(), append(paths, filepath.Join(dir, "missing.json")), nil); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
