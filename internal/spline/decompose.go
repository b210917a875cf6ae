package spline

import "fmt"

// Decompose raises every interior knot of a clamped B-spline to multiplicity
// degree, splitting it into Bezier segments. knots is the reduced vector.
//
// Segment i of the result is points[i*degree : i*degree+degree+1] and spans
// the breakpoints knots[i*degree] and knots[i*degree+degree].
func Decompose[T Vector[T]](knots []float64, points []T, degree int) ([]float64, []T, error) {
	if err := checkCount(knots, len(points), degree); err != nil {
		return nil, nil, err
	}
	if len(points) < degree+1 {
		return nil, nil, fmt.Errorf("%w: %d points for degree %d", ErrKnotCount, len(points), degree)
	}

	mults := Multiplicities(knots)
	for _, m := range mults {
		if m.Mult > degree {
			return nil, nil, fmt.Errorf("%w: knot %g repeats %d times, degree %d", ErrMultiplicity, m.Knot, m.Mult, degree)
		}
	}
	if mults[0].Mult != degree || mults[len(mults)-1].Mult != degree {
		return nil, nil, fmt.Errorf("%w: end multiplicities %d and %d, degree %d",
			ErrUnclamped, mults[0].Mult, mults[len(mults)-1].Mult, degree)
	}

	newKnots := append([]float64(nil), knots...)
	newPoints := append([]T(nil), points...)
	for _, m := range mults[1 : len(mults)-1] {
		for i := m.Mult; i < degree; i++ {
			var err error
			newKnots, newPoints, err = InsertKnot(newKnots, newPoints, degree, m.Knot)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	return newKnots, newPoints, nil
}

// Segments slices a decomposed control sequence into its Bezier segments.
// Adjacent segments share their end point.
func Segments[T any](points []T, degree int) [][]T {
	if degree < 1 || len(points) < degree+1 {
		return nil
	}
	n := (len(points) - 1) / degree
	segs := make([][]T, n)
	for i := range segs {
		segs[i] = points[i*degree : i*degree+degree+1]
	}
	return segs
}

// Breakpoints returns the parameter interval of segment i of a decomposed
// reduced knot vector.
func Breakpoints(knots []float64, degree, i int) (float64, float64) {
	return knots[i*degree], knots[i*degree+degree]
}
