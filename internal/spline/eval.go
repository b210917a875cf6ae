package spline

import "fmt"

// EvalBezier evaluates a Bezier segment at t in [0,1] by de Casteljau.
func EvalBezier[T Vector[T]](seg []T, t float64) T {
	tmp := append([]T(nil), seg...)
	for r := len(tmp) - 1; r > 0; r-- {
		for i := 0; i < r; i++ {
			tmp[i] = lerp(tmp[i], tmp[i+1], t)
		}
	}
	return tmp[0]
}

// Evaluate evaluates a B-spline with a reduced knot vector at t by de Boor's
// algorithm. t is clamped to the spline's domain.
func Evaluate[T Vector[T]](knots []float64, points []T, degree int, t float64) (T, error) {
	var zero T
	if err := checkCount(knots, len(points), degree); err != nil {
		return zero, err
	}
	if len(points) < degree+1 {
		return zero, fmt.Errorf("%w: %d points for degree %d", ErrKnotCount, len(points), degree)
	}

	full := Full(knots)
	n := len(points)

	// span l: T[l] <= t < T[l+1], restricted to [degree, n-1]
	l := degree
	for l < n-1 && full[l+1] <= t {
		l++
	}

	d := make([]T, degree+1)
	copy(d, points[l-degree:l+1])
	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			lo := full[j+l-degree]
			hi := full[j+1+l-r]
			alpha := 0.0
			if hi != lo {
				alpha = (t - lo) / (hi - lo)
			}
			d[j] = lerp(d[j-1], d[j], alpha)
		}
	}
	return d[degree], nil
}
