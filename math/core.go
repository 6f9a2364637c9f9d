// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

func Radians(deg float64) float64 { return deg * gomath.Pi / 180 }

func Abs[V constraints.Integer | constraints.Float](x V) V {
	return max(x, -x)
}

// Clamp returns x limited to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return min(max(x, lo), hi)
}

// Limit clamps x to [-limit, limit].
func Limit[V constraints.Float](x, limit V) V {
	return Clamp(x, -limit, limit)
}

// Lerp linearly interpolates x of the way from a to b.
func Lerp[V constraints.Float](x, a, b V) V {
	return a + x*(b-a)
}

// Fraction returns offset as a fraction of a step of length dt, limited
// to [0,1]. A non-positive dt is treated as a complete step.
func Fraction(offset, dt float64) float64 {
	if dt <= 0 {
		return 1
	}
	return Clamp(offset/dt, 0, 1)
}
