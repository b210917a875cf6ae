package spline

import "fmt"

// ToCubic converts one Bezier segment (degree+1 points) into a run of cubic
// segments sharing end points: 4 points for degree 1-3, 10 points (three
// cubics) for degree 4 and above.
//
// Degree 1 and 2 are exact elevations. Degree 4+ goes through reduceToCubic,
// which is an approximation.
func ToCubic[T Vector[T]](seg []T) ([]T, error) {
	switch {
	case len(seg) < 2:
		return nil, fmt.Errorf("%w: segment of %d points", ErrDegree, len(seg))
	case len(seg) == 2:
		return ElevateLinear(seg[0], seg[1]), nil
	case len(seg) == 3:
		return ElevateQuadratic(seg[0], seg[1], seg[2]), nil
	case len(seg) == 4:
		return append([]T(nil), seg...), nil
	default:
		return reduceToCubic(seg), nil
	}
}

// CubicPieces is the number of cubic segments in a ToCubic result.
func CubicPieces(n int) int {
	return (n - 1) / 3
}

// ElevateLinear returns the cubic form of the line p0-p1.
func ElevateLinear[T Vector[T]](p0, p1 T) []T {
	return []T{
		p0,
		p0.Scale(2).Add(p1).Scale(1.0 / 3),
		p0.Add(p1.Scale(2)).Scale(1.0 / 3),
		p1,
	}
}

// ElevateQuadratic returns the cubic form of the quadratic p0, p1, p2.
func ElevateQuadratic[T Vector[T]](p0, p1, p2 T) []T {
	return []T{
		p0,
		p0.Add(p1.Scale(2)).Scale(1.0 / 3),
		p2.Add(p1.Scale(2)).Scale(1.0 / 3),
		p2,
	}
}

// reduceToCubic approximates a Bezier segment of degree >= 4 by three cubic
// segments (10 points). The three leading points are the first control
// points of the segment's left part at t=1/3, the three trailing points
// mirror that from the end, and the four middle points are fixed linear
// combinations of those six. The coefficients are kept exactly as they are
// for output compatibility; the result is continuous but has no error bound.
func reduceToCubic[T Vector[T]](seg []T) []T {
	n := len(seg)
	s := make([]T, 10)

	s[0] = seg[0]
	s[1] = seg[0].Scale(2.0 / 3).Add(seg[1].Scale(1.0 / 3))
	s[2] = seg[0].Scale(4.0 / 9).Add(seg[1].Scale(4.0 / 9)).Add(seg[2].Scale(1.0 / 9))

	s[9] = seg[n-1]
	s[8] = seg[n-1].Scale(2.0 / 3).Add(seg[n-2].Scale(1.0 / 3))
	s[7] = seg[n-1].Scale(4.0 / 9).Add(seg[n-2].Scale(4.0 / 9)).Add(seg[n-3].Scale(1.0 / 9))

	s[3] = combine([]T{s[7], s[2], s[8], s[1]}, []float64{1.0 / 3, 7.0 / 6, -1.0 / 6, -1.0 / 3})
	s[4] = combine([]T{s[7], s[2], s[8], s[1]}, []float64{2.0 / 3, 4.0 / 3, -1.0 / 3, -2.0 / 3})
	s[5] = combine([]T{s[2], s[1], s[7], s[8]}, []float64{2.0 / 3, -1.0 / 3, 4.0 / 3, -2.0 / 3})
	s[6] = combine([]T{s[2], s[1], s[7], s[8]}, []float64{1.0 / 3, -1.0 / 6, 7.0 / 6, -1.0 / 3})

	return s
}

func combine[T Vector[T]](pts []T, coeffs []float64) T {
	acc := pts[0].Scale(coeffs[0])
	for i := 1; i < len(pts); i++ {
		acc = acc.Add(pts[i].Scale(coeffs[i]))
	}
	return acc
}
