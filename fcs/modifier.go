// fcs/modifier.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	"fmt"
	"strings"

	"github.com/mmp/sixdof/math"
)

// ModifierKind is the closed set of signal modifiers a gain stream may
// apply.
type ModifierKind int

const (
	ScalarGain ModifierKind = iota
	ClampGain
	// SASChannel marks a stream as carrying stability augmentation; it
	// does not change the value.
	SASChannel
	// GainTable multiplies the value by a table keyed on a flight
	// condition axis.
	GainTable
	// MappingTable replaces the value with a table lookup keyed on a
	// flight condition axis.
	MappingTable
	// SignalMappingTable replaces the value with a table lookup keyed on
	// the value itself.
	SignalMappingTable
)

func (k ModifierKind) String() string {
	switch k {
	case ScalarGain:
		return "scalar_gain"
	case ClampGain:
		return "clamp_gain"
	case SASChannel:
		return "sas_channel"
	case GainTable:
		return "gain_table"
	case MappingTable:
		return "mapping_table"
	case SignalMappingTable:
		return "signal_mapping_table"
	default:
		return "unknown"
	}
}

type Modifier struct {
	Name  string
	Kind  ModifierKind
	Gain  float64    // ScalarGain
	Lo    float64    // ClampGain
	Hi    float64    // ClampGain
	Axis  Axis       // GainTable, MappingTable
	Table math.Curve // GainTable, MappingTable, SignalMappingTable
}

// ModifierHandle identifies a Modifier in a System's modifier list; as
// with other handles, 0 is invalid.
type ModifierHandle int

// Apply returns the result of applying the modifier to x.
func (m *Modifier) Apply(x float64, fc FlightCondition) float64 {
	switch m.Kind {
	case ScalarGain:
		return x * m.Gain
	case ClampGain:
		return math.Clamp(x, m.Lo, m.Hi)
	case SASChannel:
		return x
	case GainTable:
		return x * m.Table.Lookup(fc.Value(m.Axis))
	case MappingTable:
		return m.Table.Lookup(fc.Value(m.Axis))
	case SignalMappingTable:
		return m.Table.Lookup(x)
	default:
		return x
	}
}

// ParseModifierType decodes modifier type names: "scalar_gain",
// "clamp_gain", "sas_channel", "signal_mapping_table", and
// "<axis>_gain_table" or "<axis>_mapping_table" where <axis> is one of
// mach, ktas, alpha, beta, gx_load, gy_load, gz_load, alt, or q.
func ParseModifierType(s string) (ModifierKind, Axis, error) {
	switch s {
	case "scalar_gain":
		return ScalarGain, AxisNone, nil
	case "clamp_gain":
		return ClampGain, AxisNone, nil
	case "sas_channel":
		return SASChannel, AxisNone, nil
	case "signal_mapping_table":
		return SignalMappingTable, AxisNone, nil
	}

	if ax, ok := strings.CutSuffix(s, "_gain_table"); ok {
		if a, ok := parseAxis(ax); ok {
			return GainTable, a, nil
		}
	} else if ax, ok := strings.CutSuffix(s, "_mapping_table"); ok {
		if a, ok := parseAxis(ax); ok {
			return MappingTable, a, nil
		}
	}
	return 0, AxisNone, fmt.Errorf("%q: %w", s, ErrUnknownModifierType)
}

// TypeName returns the configuration name for the modifier's type; it's
// the inverse of ParseModifierType.
func (m *Modifier) TypeName() string {
	switch m.Kind {
	case GainTable:
		return m.Axis.String() + "_gain_table"
	case MappingTable:
		return m.Axis.String() + "_mapping_table"
	default:
		return m.Kind.String()
	}
}
