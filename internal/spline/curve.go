package spline

import "fmt"

// Rect is an axis-aligned rectangle in a surface's parameter space.
type Rect struct {
	U0, V0 float64
	U1, V1 float64
}

// Valid reports whether both axes have a non-zero range, i.e. whether
// Normalize is finite.
func (r Rect) Valid() bool {
	return r.U1 != r.U0 && r.V1 != r.V0
}

// Normalize maps (u, v) into the unit square spanned by r.
func (r Rect) Normalize(u, v float64) (float64, float64) {
	return (u - r.U0) / (r.U1 - r.U0), (v - r.V0) / (r.V1 - r.V0)
}

// Curve is a rational B-spline curve as stored in the exchange file.
type Curve struct {
	Degree int
	Knots  []float64 // full vector, len(Points)+Degree+1
	Points []HPoint
	Domain [2]float64

	Planar     bool
	Closed     bool
	Polynomial bool
	Periodic   bool
	Normal     [3]float64 // unit normal, planar curves only
}

// Validate checks the knot/point counts.
func (c Curve) Validate() error {
	if c.Degree < 1 {
		return fmt.Errorf("%w: %d", ErrDegree, c.Degree)
	}
	if len(c.Knots) != len(c.Points)+c.Degree+1 {
		return fmt.Errorf("%w: %d knots, %d points, degree %d", ErrKnotCount, len(c.Knots), len(c.Points), c.Degree)
	}
	return nil
}

// Reverse returns the same curve traversed in the opposite direction.
func (c Curve) Reverse() Curve {
	out := c
	n := len(c.Knots)
	out.Knots = make([]float64, n)
	if n > 0 {
		a, b := c.Knots[0], c.Knots[n-1]
		for i := range c.Knots {
			out.Knots[i] = a + (b - c.Knots[n-1-i])
		}
		out.Domain = [2]float64{a + b - c.Domain[1], a + b - c.Domain[0]}
	}
	out.Points = make([]HPoint, len(c.Points))
	for i, p := range c.Points {
		out.Points[len(c.Points)-1-i] = p
	}
	return out
}

// Surface is a rational B-spline surface as stored in the exchange file.
// Points is row-major with u varying fastest: Points[v*NU+u].
type Surface struct {
	DegreeU, DegreeV int
	KnotsU, KnotsV   []float64 // full vectors
	NU, NV           int
	Points           []HPoint
	Domain           Rect

	ClosedU, ClosedV     bool
	Polynomial           bool
	PeriodicU, PeriodicV bool
}

// At returns the control point at column u, row v.
func (s Surface) At(u, v int) HPoint {
	return s.Points[v*s.NU+u]
}

// Validate checks grid and knot counts in both directions.
func (s Surface) Validate() error {
	if s.DegreeU < 1 || s.DegreeV < 1 {
		return fmt.Errorf("%w: %dx%d", ErrDegree, s.DegreeU, s.DegreeV)
	}
	if len(s.Points) != s.NU*s.NV {
		return fmt.Errorf("%w: %d points for a %dx%d grid", ErrKnotCount, len(s.Points), s.NU, s.NV)
	}
	if len(s.KnotsU) != s.NU+s.DegreeU+1 {
		return fmt.Errorf("%w: %d u knots, %d columns, degree %d", ErrKnotCount, len(s.KnotsU), s.NU, s.DegreeU)
	}
	if len(s.KnotsV) != s.NV+s.DegreeV+1 {
		return fmt.Errorf("%w: %d v knots, %d rows, degree %d", ErrKnotCount, len(s.KnotsV), s.NV, s.DegreeV)
	}
	return nil
}
