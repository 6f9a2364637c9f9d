// vehicle/report.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import (
	"encoding/json"

	"github.com/goforj/godump"
	"github.com/iancoleman/orderedmap"
)

// Report returns the vehicle's outputs from its last tick as a JSON
// object. Surfaces, values, and booleans are listed in the order they
// were configured.
func (v *Vehicle) Report() ([]byte, error) {
	o := orderedmap.New()

	o.Set("vehicle", v.Name)
	o.Set("time_s", v.Last.Time.Seconds())
	o.Set("mode", v.Pilot.Mode().String())

	surfaces := orderedmap.New()
	for _, s := range v.Last.Surfaces {
		surfaces.Set(s.Name, s.AngleDeg)
	}
	o.Set("surfaces_deg", surfaces)

	values := orderedmap.New()
	for _, cv := range v.FCS.Values {
		values.Set(cv.Name, cv.Current)
	}
	o.Set("values", values)

	booleans := orderedmap.New()
	for _, cb := range v.FCS.Booleans {
		booleans.Set(cb.Name, cb.Current)
	}
	o.Set("booleans", booleans)

	thrust := orderedmap.New()
	thrust.Set("thrust_lbf", v.Last.Thrust.ThrustLbf)
	thrust.Set("force_lbf", v.Last.Thrust.Force)
	thrust.Set("moment_ftlbf", v.Last.Thrust.Moment)
	thrust.Set("fuel_burn_pph", v.Last.Thrust.FuelBurnPPH)
	thrust.Set("fuel_remaining_lbs", v.Propulsion.FuelRemainingLbs())
	thrust.Set("afterburner", v.Propulsion.AnEngineHasAfterburnerOn())
	thrust.Set("contrailing", v.Propulsion.AnEngineIsContrailing())
	o.Set("propulsion", thrust)

	return json.Marshal(o)
}

// Dump returns a human-readable dump of the vehicle's complete state,
// for debugging.
func (v *Vehicle) Dump() string {
	return godump.DumpStr(v)
}
