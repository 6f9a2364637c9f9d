// fcs/condition.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import "log/slog"

// FlightCondition is the subset of the vehicle's kinematic state that
// table-keyed modifiers may depend on. It is supplied by the caller each
// tick and is not modified.
type FlightCondition struct {
	Mach               float64
	KTAS               float64
	AlphaDeg           float64
	BetaDeg            float64
	Nx, Ny, Nz         float64 // load factors, g
	AltitudeFt         float64
	DynamicPressurePSF float64
	StaticPressurePSF  float64
}

// Axis identifies the flight condition value a table modifier is keyed on.
type Axis int

const (
	AxisNone Axis = iota
	AxisMach
	AxisKTAS
	AxisAlpha
	AxisBeta
	AxisGxLoad
	AxisGyLoad
	AxisGzLoad
	AxisAltitude
	AxisDynamicPressure
)

var axisNames = [...]string{
	AxisNone:            "none",
	AxisMach:            "mach",
	AxisKTAS:            "ktas",
	AxisAlpha:           "alpha",
	AxisBeta:            "beta",
	AxisGxLoad:          "gx_load",
	AxisGyLoad:          "gy_load",
	AxisGzLoad:          "gz_load",
	AxisAltitude:        "alt",
	AxisDynamicPressure: "q",
}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return "unknown"
	}
	return axisNames[a]
}

func parseAxis(s string) (Axis, bool) {
	for i, n := range axisNames {
		if i != int(AxisNone) && n == s {
			return Axis(i), true
		}
	}
	return AxisNone, false
}

// Value returns the flight condition's value along the given axis.
func (fc FlightCondition) Value(a Axis) float64 {
	switch a {
	case AxisMach:
		return fc.Mach
	case AxisKTAS:
		return fc.KTAS
	case AxisAlpha:
		return fc.AlphaDeg
	case AxisBeta:
		return fc.BetaDeg
	case AxisGxLoad:
		return fc.Nx
	case AxisGyLoad:
		return fc.Ny
	case AxisGzLoad:
		return fc.Nz
	case AxisAltitude:
		return fc.AltitudeFt
	case AxisDynamicPressure:
		return fc.DynamicPressurePSF
	default:
		return 0
	}
}

func (fc FlightCondition) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mach", fc.Mach),
		slog.Float64("ktas", fc.KTAS),
		slog.Float64("alpha", fc.AlphaDeg),
		slog.Float64("beta", fc.BetaDeg),
		slog.Float64("nz", fc.Nz),
		slog.Float64("alt", fc.AltitudeFt),
		slog.Float64("q", fc.DynamicPressurePSF))
}
