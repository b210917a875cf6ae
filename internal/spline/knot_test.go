package spline

import (
	"errors"
	"testing"
)

func TestMultiplicities(t *testing.T) {
	got := Multiplicities([]float64{-1, -1, -1, 0, 1, 1, 5, 5, 5})
	want := []Multiplicity{{-1, 3}, {0, 1}, {1, 2}, {5, 3}}
	diff(t, want, got)
}

func TestReducedFull(t *testing.T) {
	full := []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1}
	red := Reduced(full)
	diff(t, []float64{0, 0, 0, 0.5, 1, 1, 1}, red)
	diff(t, full, Full(red))
}

func TestInsertKnotPreservesCurve(t *testing.T) {
	knots := []float64{-1, -1, -1, 0, 1, 2, 3, 4, 5, 5, 5}
	pts := scalars(0, 0, 0, 0, 6, 0, 0, 0, 0)

	for _, tk := range []float64{-0.5, 0, 1.5, 2, 2.25, 4.75} {
		newKnots, newPts, err := InsertKnot(knots, pts, 3, tk)
		if err != nil {
			t.Fatalf("insert %g: %v", tk, err)
		}
		if len(newKnots) != len(knots)+1 || len(newPts) != len(pts)+1 {
			t.Fatalf("insert %g: got %d knots, %d points", tk, len(newKnots), len(newPts))
		}
		for _, s := range sampleDomain(knots, 3, 60) {
			before, err := Evaluate(knots, pts, 3, s)
			if err != nil {
				t.Fatal(err)
			}
			after, err := Evaluate(newKnots, newPts, 3, s)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, float64(before), float64(after), approx)
		}
	}
}

func TestInsertKnotHomogeneous(t *testing.T) {
	knots := []float64{0, 0, 1, 2, 2}
	pts := []HPoint{
		{0, 0, 0, 1},
		{1, 2, 0, 2},
		{2, -1, 1, 0.5},
		{3, 0, 2, 1},
	}
	newKnots, newPts, err := InsertKnot(knots, pts, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0.5, 1, 2, 2}, newKnots)

	// weights are blended like coordinates, not divided out
	alpha := 0.5 / 1.0
	diff(t, pts[0].Scale(1-alpha).Add(pts[1].Scale(alpha)), newPts[1], approx)

	for _, s := range sampleDomain(knots, 2, 40) {
		before, _ := Evaluate(knots, pts, 2, s)
		after, _ := Evaluate(newKnots, newPts, 2, s)
		diff(t, before, after, approx)
	}
}

func TestInsertKnotErrors(t *testing.T) {
	knots := []float64{0, 0, 0, 1, 1, 1}
	pts := scalars(0, 1, 2, 3)

	if _, _, err := InsertKnot(knots, pts[:3], 3, 0.5); !errors.Is(err, ErrKnotCount) {
		t.Errorf("got %v, want ErrKnotCount", err)
	}
	if _, _, err := InsertKnot(knots, pts, 0, 0.5); !errors.Is(err, ErrDegree) {
		t.Errorf("got %v, want ErrDegree", err)
	}
	if _, _, err := InsertKnot(knots, pts, 3, 1); !errors.Is(err, ErrKnotRange) {
		t.Errorf("got %v, want ErrKnotRange", err)
	}
	if _, _, err := InsertKnot(knots, pts, 3, -1); !errors.Is(err, ErrKnotRange) {
		t.Errorf("got %v, want ErrKnotRange", err)
	}
}
