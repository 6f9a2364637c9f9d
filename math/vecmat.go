// math/vecmat.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// Vec3

// Vec3 is a body-frame vector: x forward, y right, z down.
type Vec3 [3]float64

// a+b
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Length() float64 {
	return gomath.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector in the direction of a; the zero vector
// is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

///////////////////////////////////////////////////////////////////////////
// 3x3 matrix

// Matrix3 is a row-major 3x3 matrix, mostly used as a direction cosine
// matrix.
type Matrix3 [3][3]float64

func MakeMatrix3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) Matrix3 {
	return [3][3]float64{
		[3]float64{m00, m01, m02},
		[3]float64{m10, m11, m12},
		[3]float64{m20, m21, m22}}
}

func (m Matrix3) PostMultiply(m2 Matrix3) Matrix3 {
	var result Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j]
		}
	}
	return result
}

func (m Matrix3) Transpose() Matrix3 {
	return MakeMatrix3(
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2])
}

func (m Matrix3) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func (m Matrix3) Determinant() float64 {
	minor12 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	minor02 := m[1][0]*m[2][2] - m[1][2]*m[2][0]
	minor01 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	return m[0][0]*minor12 - m[0][1]*minor02 + m[0][2]*minor01
}

// Elementary frame rotations; each maps a vector expressed in the parent
// frame into the rotated frame.

func RotationX(a float64) Matrix3 {
	s, c := gomath.Sincos(a)
	return MakeMatrix3(1, 0, 0, 0, c, s, 0, -s, c)
}

func RotationY(a float64) Matrix3 {
	s, c := gomath.Sincos(a)
	return MakeMatrix3(c, 0, -s, 0, 1, 0, s, 0, c)
}

func RotationZ(a float64) Matrix3 {
	s, c := gomath.Sincos(a)
	return MakeMatrix3(c, s, 0, -s, c, 0, 0, 0, 1)
}

// RotationYPR returns the direction cosine matrix for a yaw, pitch, roll
// (3-2-1) rotation sequence; angles are in radians. The result transforms
// parent-frame vectors into the rotated frame; its transpose goes the
// other way.
func RotationYPR(yaw, pitch, roll float64) Matrix3 {
	return RotationX(roll).PostMultiply(RotationY(pitch)).PostMultiply(RotationZ(yaw))
}
