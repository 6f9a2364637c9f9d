// fcs/stream.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

// GainStream binds a control input to an ordered list of modifiers.
type GainStream struct {
	Input     InputHandle
	Modifiers []ModifierHandle
	// Override streams take precedence over the others feeding the same
	// surface; see OverridePolicy.
	Override bool
}

// Evaluate folds the stream's modifiers, left to right, over the bound
// input's current value. Bool inputs contribute 1 or 0.
func (gs *GainStream) Evaluate(reg *Registry, mods []Modifier, fc FlightCondition) float64 {
	in := reg.Input(gs.Input)
	if in == nil {
		return 0
	}

	x := in.Value
	if in.Kind == BoolInput {
		x = 0
		if in.Bool {
			x = 1
		}
	}

	for _, mh := range gs.Modifiers {
		if mh > 0 && int(mh) <= len(mods) {
			x = mods[mh-1].Apply(x, fc)
		}
	}
	return x
}

// HasSAS reports whether the stream includes a SAS channel marker.
func (gs *GainStream) HasSAS(mods []Modifier) bool {
	for _, mh := range gs.Modifiers {
		if mh > 0 && int(mh) <= len(mods) && mods[mh-1].Kind == SASChannel {
			return true
		}
	}
	return false
}

// OverridePolicy determines how an element combines its streams when some
// of them are flagged as overrides.
type OverridePolicy int

const (
	// OverrideSuppress: when any override stream has a non-zero
	// contribution, only the override streams are summed.
	OverrideSuppress OverridePolicy = iota
	// OverrideSum: all streams are summed regardless of the override
	// flag.
	OverrideSum
)

func (p OverridePolicy) String() string {
	if p == OverrideSum {
		return "sum"
	}
	return "suppress"
}

func parseOverridePolicy(s string) (OverridePolicy, bool) {
	switch s {
	case "", "suppress":
		return OverrideSuppress, true
	case "sum":
		return OverrideSum, true
	default:
		return OverrideSuppress, false
	}
}

// combineStreams evaluates each stream and combines the results according
// to the policy.
func combineStreams(streams []GainStream, policy OverridePolicy, reg *Registry, mods []Modifier, fc FlightCondition) float64 {
	var sum, overrideSum float64
	overrideActive := false
	for i := range streams {
		v := streams[i].Evaluate(reg, mods, fc)
		sum += v
		if streams[i].Override {
			overrideSum += v
			if v != 0 {
				overrideActive = true
			}
		}
	}

	if policy == OverrideSuppress && overrideActive {
		return overrideSum
	}
	return sum
}
