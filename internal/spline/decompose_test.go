package spline

import (
	"errors"
	"math"
	"testing"
)

func TestDecomposeScenario(t *testing.T) {
	knots := []float64{-1, -1, -1, 0, 1, 2, 3, 4, 5, 5, 5}
	pts := scalars(0, 0, 0, 0, 6, 0, 0, 0, 0)

	gotKnots, gotPts, err := Decompose(knots, pts, 3)
	if err != nil {
		t.Fatal(err)
	}

	wantKnots := []float64{-1, -1, -1, 0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5, 5}
	diff(t, wantKnots, gotKnots)

	for _, m := range Multiplicities(gotKnots) {
		if m.Mult != 3 {
			t.Errorf("knot %g has multiplicity %d, want 3", m.Knot, m.Mult)
		}
	}

	segs := Segments(gotPts, 3)
	if len(segs) != 6 {
		t.Fatalf("got %d segments, want 6", len(segs))
	}
	for i, seg := range segs {
		if len(seg) != 4 {
			t.Errorf("segment %d has %d points", i, len(seg))
		}
		if i > 0 && segs[i-1][3] != seg[0] {
			t.Errorf("segment %d does not start where segment %d ends", i, i-1)
		}
	}

	// every segment, evaluated as a Bezier over its breakpoints, matches the
	// undecomposed spline
	for i, seg := range segs {
		a, b := Breakpoints(gotKnots, 3, i)
		for k := 0; k <= 8; k++ {
			s := float64(k) / 8
			want, err := Evaluate(knots, pts, 3, a+(b-a)*s)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, float64(want), float64(EvalBezier(seg, s)), approx)
		}
	}

	// the bump only reaches the segments the non-zero coefficient supports
	for i, seg := range segs {
		nonZero := false
		for _, v := range seg {
			if math.Abs(float64(v)) > 1e-12 {
				nonZero = true
			}
		}
		a, b := Breakpoints(gotKnots, 3, i)
		inSupport := b > 0 && a < 4
		if nonZero != inSupport {
			t.Errorf("segment %d [%g,%g]: non-zero=%v, want %v (%v)", i, a, b, nonZero, inSupport, floats(seg))
		}
	}
}

func TestDecomposeAlreadyBezier(t *testing.T) {
	knots := []float64{0, 0, 0, 1, 1, 1}
	pts := []HPoint{{0, 0, 0, 1}, {1, 1, 0, 1}, {2, 1, 0, 1}, {3, 0, 0, 1}}

	gotKnots, gotPts, err := Decompose(knots, pts, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, knots, gotKnots)
	diff(t, pts, gotPts)
}

func TestDecomposeRows(t *testing.T) {
	// rows of a grid decompose as one vector-valued control point each
	knots := []float64{0, 0.5, 1}
	rows := []Row[HPoint]{
		{{0, 0, 0, 1}, {0, 1, 0, 1}},
		{{1, 0, 1, 1}, {1, 1, 1, 1}},
		{{2, 0, 0, 1}, {2, 1, 0, 1}},
	}
	gotKnots, gotRows, err := Decompose(knots, rows, 1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, knots, gotKnots)
	if len(gotRows) != 3 {
		t.Fatalf("got %d rows", len(gotRows))
	}

	rows = append(rows, Row[HPoint]{{3, 0, 0, 1}, {3, 1, 0, 1}})
	gotKnots, gotRows, err = Decompose([]float64{0, 0, 0.5, 1, 1}, rows, 2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0.5, 0.5, 1, 1}, gotKnots)
	if len(gotRows) != 5 {
		t.Fatalf("got %d rows, want 5", len(gotRows))
	}
	for _, r := range gotRows {
		if len(r) != 2 {
			t.Fatalf("row width %d, want 2", len(r))
		}
	}
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name   string
		knots  []float64
		n      int
		degree int
		want   error
	}{
		{"multiplicity", []float64{0, 0, 0.5, 0.5, 0.5, 1, 1}, 6, 2, ErrMultiplicity},
		{"unclamped", []float64{0, 1, 2, 3, 4}, 4, 2, ErrUnclamped},
		{"count", []float64{0, 0, 1, 1}, 5, 2, ErrKnotCount},
		{"degree", []float64{0, 1}, 2, 0, ErrDegree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := make([]scalar, tt.n)
			_, _, err := Decompose(tt.knots, pts, tt.degree)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
