package spline

import "errors"

var (
	ErrDegree       = errors.New("spline: unsupported degree")
	ErrKnotCount    = errors.New("spline: knot count does not match control points")
	ErrKnotRange    = errors.New("spline: knot outside insertable range")
	ErrMultiplicity = errors.New("spline: knot multiplicity exceeds degree")
	ErrUnclamped    = errors.New("spline: knot vector is not clamped")
)
