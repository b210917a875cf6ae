package mathutil

import "math"

// Mat3 is a row-major 3×3 linear map. It carries camera orientations and
// the rotation part of entity placements.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3Mul returns a × b, so b is applied first.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for i := range m {
		r, c := i/3*3, i%3
		m[i] = a[r]*b[c] + a[r+1]*b[3+c] + a[r+2]*b[6+c]
	}
	return m
}

func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		Vec3{m[0], m[1], m[2]}.Dot(v),
		Vec3{m[3], m[4], m[5]}.Dot(v),
		Vec3{m[6], m[7], m[8]}.Dot(v),
	}
}

// Det is the scalar triple product of the rows. Zero means the map
// flattens space; negative means it mirrors.
func (m Mat3) Det() float64 {
	return Vec3{m[0], m[1], m[2]}.Dot(Vec3{m[3], m[4], m[5]}.Cross(Vec3{m[6], m[7], m[8]}))
}

// RotX, RotY and RotZ are right-handed rotations by a radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, -s, 0, s, c, 0, 0, 0, 1}
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
