package spline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// scalar is a one-dimensional control point.
type scalar float64

func (a scalar) Add(b scalar) scalar    { return a + b }
func (a scalar) Scale(s float64) scalar { return scalar(float64(a) * s) }

func floats(xs []scalar) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func scalars(xs ...float64) []scalar {
	out := make([]scalar, len(xs))
	for i, x := range xs {
		out[i] = scalar(x)
	}
	return out
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// sampleDomain returns n+1 evenly spaced parameters over the reduced knots' domain.
func sampleDomain(knots []float64, degree, n int) []float64 {
	a, b := knots[degree-1], knots[len(knots)-degree]
	ts := make([]float64, n+1)
	for i := range ts {
		ts[i] = a + (b-a)*float64(i)/float64(n)
	}
	return ts
}
