// math/curve.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyCurve         = errors.New("Curve has no points")
	ErrNonIncreasingCurve = errors.New("Curve x values must be strictly increasing")
)

// Curve is a piecewise-linear function given by (x, y) points sorted by
// increasing x. In JSON it is written as [[x0, y0], [x1, y1], ...].
type Curve [][2]float64

// Lookup returns the curve's value at x, linearly interpolating between
// the bracketing points. Outside of the curve's domain the value at the
// nearest end point is returned.
func (c Curve) Lookup(x float64) float64 {
	n := len(c)
	switch {
	case n == 0:
		return 0
	case x <= c[0][0]:
		return c[0][1]
	case x >= c[n-1][0]:
		return c[n-1][1]
	}

	// Index of the first point with x value > x; it's in [1, n-1] given
	// the checks above.
	i := sort.Search(n, func(i int) bool { return c[i][0] > x })
	p0, p1 := c[i-1], c[i]
	t := (x - p0[0]) / (p1[0] - p0[0])
	return Lerp(t, p0[1], p1[1])
}

func (c Curve) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCurve
	}
	for i := 1; i < len(c); i++ {
		if c[i][0] <= c[i-1][0] {
			return fmt.Errorf("point %d (x=%g follows %g): %w", i, c[i][0], c[i-1][0], ErrNonIncreasingCurve)
		}
	}
	return nil
}
