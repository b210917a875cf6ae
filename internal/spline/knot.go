package spline

import (
	"fmt"
	"sort"
)

// Reduced drops the first and last knot of a full knot vector (length n+d+1
// for n control points). Insertion and decomposition operate on the reduced
// vector of length n+d-1; the dropped end knots never influence the curve
// on its domain.
func Reduced(full []float64) []float64 {
	if len(full) < 2 {
		return nil
	}
	return append([]float64(nil), full[1:len(full)-1]...)
}

// Full re-pads a reduced knot vector by repeating its end knots.
func Full(reduced []float64) []float64 {
	if len(reduced) == 0 {
		return nil
	}
	out := make([]float64, 0, len(reduced)+2)
	out = append(out, reduced[0])
	out = append(out, reduced...)
	return append(out, reduced[len(reduced)-1])
}

// Multiplicity is one distinct knot value and how often it repeats.
type Multiplicity struct {
	Knot float64
	Mult int
}

// Multiplicities run-length encodes a non-decreasing knot vector.
// Values are grouped by exact equality: inserted knots are copies of
// existing values, so no tolerance is needed.
func Multiplicities(knots []float64) []Multiplicity {
	var mults []Multiplicity
	for _, k := range knots {
		if n := len(mults); n > 0 && mults[n-1].Knot == k {
			mults[n-1].Mult++
			continue
		}
		mults = append(mults, Multiplicity{Knot: k, Mult: 1})
	}
	return mults
}

func checkCount(knots []float64, n, degree int) error {
	if degree < 1 {
		return fmt.Errorf("%w: %d", ErrDegree, degree)
	}
	if n != len(knots)-degree+1 {
		return fmt.Errorf("%w: %d reduced knots, %d points, degree %d", ErrKnotCount, len(knots), n, degree)
	}
	return nil
}

// InsertKnot inserts t once into the reduced knot vector using Boehm's
// algorithm and returns the refined knots and control points. The
// represented curve is unchanged. Points are blended componentwise, so
// weights are interpolated exactly like positions and never divided out.
func InsertKnot[T Vector[T]](knots []float64, points []T, degree int, t float64) ([]float64, []T, error) {
	if err := checkCount(knots, len(points), degree); err != nil {
		return nil, nil, err
	}

	// j: first knot strictly greater than t
	j := sort.Search(len(knots), func(i int) bool { return knots[i] > t })
	if j < degree || j > len(knots)-degree {
		return nil, nil, fmt.Errorf("%w: t=%g", ErrKnotRange, t)
	}

	out := make([]T, 0, len(points)+1)
	out = append(out, points[:j-degree+1]...)
	for i := j - degree; i < j; i++ {
		alpha := (t - knots[i]) / (knots[i+degree] - knots[i])
		out = append(out, lerp(points[i], points[i+1], alpha))
	}
	out = append(out, points[j:]...)

	newKnots := make([]float64, len(knots)+1)
	copy(newKnots, knots[:j])
	newKnots[j] = t
	copy(newKnots[j+1:], knots[j:])

	return newKnots, out, nil
}
