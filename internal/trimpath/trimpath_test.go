package trimpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"iges2bezier/internal/spline"
)

var unit = spline.Rect{U1: 1, V1: 1}

func pts(xy ...float64) []spline.HPoint {
	out := make([]spline.HPoint, 0, len(xy)/2)
	for i := 0; i < len(xy); i += 2 {
		out = append(out, spline.HPoint{X: xy[i], Y: xy[i+1], W: 1})
	}
	return out
}

func TestExportPolyline(t *testing.T) {
	c := spline.Curve{
		Degree:     1,
		Knots:      []float64{0, 0, 1, 2, 3, 3},
		Points:     pts(0, 0, 4, 0, 4, 2, 0, 2),
		Domain:     [2]float64{0, 3},
		Closed:     true,
		Polynomial: true,
	}
	got, err := Export(c, spline.Rect{U1: 4, V1: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := Path{
		{Op: MoveTo, Points: []Point{{0, 0}}},
		{Op: LineTo, Points: []Point{{1, 0}}},
		{Op: LineTo, Points: []Point{{1, 1}}},
		{Op: LineTo, Points: []Point{{0, 1}}},
		{Op: Close},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
	if s, want := got.String(), "M 0,0 L 1,0 L 1,1 L 0,1 z"; s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}

func TestExportQuadraticIsElevated(t *testing.T) {
	c := spline.Curve{
		Degree:     2,
		Knots:      []float64{0, 0, 0, 1, 1, 1},
		Points:     pts(0, 0, 3, 3, 6, 0),
		Domain:     [2]float64{0, 1},
		Polynomial: true,
	}
	got, err := Export(c, spline.Rect{U1: 6, V1: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := Path{
		{Op: MoveTo, Points: []Point{{0, 0}}},
		{Op: CurveTo, Points: []Point{{1.0 / 3, 2.0 / 3}, {2.0 / 3, 2.0 / 3}, {1, 0}}},
	}
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Error(d)
	}
}

func TestExportCubicSegments(t *testing.T) {
	c := spline.Curve{
		Degree:     3,
		Knots:      []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1},
		Points:     pts(0, 0, 0.25, 1, 0.5, 1, 0.75, 0, 1, 0),
		Domain:     [2]float64{0, 1},
		Polynomial: true,
	}
	got, err := Export(c, unit)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d commands, want move + 2 curves", len(got))
	}
	for _, cmd := range got[1:] {
		if cmd.Op != CurveTo || len(cmd.Points) != 3 {
			t.Errorf("unexpected command %+v", cmd)
		}
	}

	// end of the first segment is the curve at the breakpoint
	mid, err := spline.Evaluate(spline.Reduced(c.Knots), c.Points, 3, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Point{mid.X, mid.Y}, got[1].Points[2], cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(Point{1, 0}, got[2].Points[2]); d != "" {
		t.Error(d)
	}
}

func TestPathString(t *testing.T) {
	p := Path{
		{Op: MoveTo, Points: []Point{{0, 0.5}}},
		{Op: CurveTo, Points: []Point{{0.25, 1}, {0.5, 1}, {0.75, 0.5}}},
		{Op: CurveTo, Points: []Point{{1, 0}, {1, 0}, {1, 0.5}}},
		{Op: Close},
	}
	want := "M 0,0.5 C 0.25,1 0.5,1 0.75,0.5 1,0 1,0 1,0.5 z"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	line := Path{{Op: MoveTo, Points: []Point{{0, 0}}}, {Op: LineTo, Points: []Point{{1, 1}}}}
	if got, want := Join([]Path{line, line}), "M 0,0 L 1,1 M 0,0 L 1,1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportPreconditions(t *testing.T) {
	base := spline.Curve{
		Degree:     4,
		Knots:      []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		Points:     pts(0, 0, 1, 1, 2, 0, 3, 1, 4, 0),
		Polynomial: true,
	}
	if _, err := Export(base, unit); !errors.Is(err, ErrDegree) {
		t.Errorf("degree 4: got %v, want ErrDegree", err)
	}

	rational := spline.Curve{
		Degree: 1,
		Knots:  []float64{0, 0, 1, 1},
		Points: pts(0, 0, 1, 1),
	}
	if _, err := Export(rational, unit); !errors.Is(err, ErrRational) {
		t.Errorf("rational: got %v, want ErrRational", err)
	}

	bad := rational
	bad.Polynomial = true
	bad.Knots = []float64{0, 1, 1}
	if _, err := Export(bad, unit); !errors.Is(err, spline.ErrKnotCount) {
		t.Errorf("bad knots: got %v, want ErrKnotCount", err)
	}
}
