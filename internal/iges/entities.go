package iges

import (
	"fmt"
	"math"

	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/spline"
)

// Generic is any entity type the pipeline does not interpret. Only its
// directory entry and raw parameter tokens are kept.
type Generic struct {
	Directory
	Params []string
}

func (e *Generic) Decode(params []string) error {
	if _, err := begin(&e.Directory, params); err != nil {
		return err
	}
	e.Params = append([]string(nil), params...)
	return nil
}

// Line is entity 110.
type Line struct {
	Directory
	Start, End [3]float64
}

func (e *Line) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	pts, err := p.points(2)
	if err != nil {
		return err
	}
	e.Start, e.End = pts[0], pts[1]
	return nil
}

// Spline returns the line as a degree-1 polynomial B-spline on [0, 1].
func (e *Line) Spline() spline.Curve {
	return spline.Curve{
		Degree: 1,
		Knots:  []float64{0, 0, 1, 1},
		Points: []spline.HPoint{
			{X: e.Start[0], Y: e.Start[1], Z: e.Start[2], W: 1},
			{X: e.End[0], Y: e.End[1], Z: e.End[2], W: 1},
		},
		Domain:     [2]float64{0, 1},
		Polynomial: true,
	}
}

// CompositeCurve is entity 102: an ordered chain of curve entities.
type CompositeCurve struct {
	Directory
	Members []int
}

func (e *CompositeCurve) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	n, err := p.count()
	if err != nil {
		return err
	}
	e.Members, err = p.ints(n)
	return err
}

// RationalBSplineCurve is entity 126.
type RationalBSplineCurve struct {
	Directory
	K, M int // upper index of sum, degree

	Planar     bool
	Closed     bool
	Polynomial bool
	Periodic   bool

	Knots   []float64 // K+M+2 values
	Weights []float64
	Points  [][3]float64
	V0, V1  float64

	Normal    [3]float64
	HasNormal bool
}

func (e *RationalBSplineCurve) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	if e.K, err = p.count(); err != nil {
		return err
	}
	if e.M, err = p.count(); err != nil {
		return err
	}
	if e.M < 1 {
		return fmt.Errorf("%w: degree %d", errBadLayout, e.M)
	}
	if e.K < e.M {
		return fmt.Errorf("%w: upper index %d below degree %d", errBadLayout, e.K, e.M)
	}
	for _, f := range []*bool{&e.Planar, &e.Closed, &e.Polynomial, &e.Periodic} {
		if *f, err = p.flag(); err != nil {
			return err
		}
	}

	n := e.K + 1
	if err := p.need((e.K + e.M + 2) + n + 3*n + 2); err != nil {
		return err
	}
	if e.Knots, err = p.floats(e.K + e.M + 2); err != nil {
		return err
	}
	if e.Weights, err = p.floats(n); err != nil {
		return err
	}
	if e.Points, err = p.points(n); err != nil {
		return err
	}
	if e.V0, err = p.float(); err != nil {
		return err
	}
	if e.V1, err = p.float(); err != nil {
		return err
	}

	// the unit normal is only present on planar curves and often omitted
	if p.remaining() >= 3 {
		nrm, err := p.points(1)
		if err != nil {
			return err
		}
		e.Normal, e.HasNormal = nrm[0], true
	}
	return nil
}

// Spline converts the entity to the shared curve model. Weights are stored
// alongside the points, not multiplied in.
func (e *RationalBSplineCurve) Spline() spline.Curve {
	pts := make([]spline.HPoint, len(e.Points))
	for i, q := range e.Points {
		pts[i] = spline.HPoint{X: q[0], Y: q[1], Z: q[2], W: e.Weights[i]}
	}
	return spline.Curve{
		Degree:     e.M,
		Knots:      append([]float64(nil), e.Knots...),
		Points:     pts,
		Domain:     [2]float64{e.V0, e.V1},
		Planar:     e.Planar,
		Closed:     e.Closed,
		Polynomial: e.Polynomial,
		Periodic:   e.Periodic,
		Normal:     e.Normal,
	}
}

// RationalBSplineSurface is entity 128. Points and Weights are listed with
// the first parameter varying fastest.
type RationalBSplineSurface struct {
	Directory
	K1, K2 int
	M1, M2 int

	ClosedU, ClosedV     bool
	Polynomial           bool
	PeriodicU, PeriodicV bool

	KnotsU, KnotsV []float64
	Weights        []float64
	Points         [][3]float64
	U0, U1         float64
	V0, V1         float64
}

func (e *RationalBSplineSurface) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	for _, v := range []*int{&e.K1, &e.K2, &e.M1, &e.M2} {
		if *v, err = p.count(); err != nil {
			return err
		}
	}
	if e.M1 < 1 || e.M2 < 1 {
		return fmt.Errorf("%w: degree %dx%d", errBadLayout, e.M1, e.M2)
	}
	if e.K1 < e.M1 || e.K2 < e.M2 {
		return fmt.Errorf("%w: upper index %dx%d below degree %dx%d", errBadLayout, e.K1, e.K2, e.M1, e.M2)
	}
	for _, f := range []*bool{&e.ClosedU, &e.ClosedV, &e.Polynomial, &e.PeriodicU, &e.PeriodicV} {
		if *f, err = p.flag(); err != nil {
			return err
		}
	}

	nu, nv := e.K1+e.M1+2, e.K2+e.M2+2
	c := (e.K1 + 1) * (e.K2 + 1)
	if err := p.need(nu + nv + c + 3*c + 4); err != nil {
		return err
	}
	if e.KnotsU, err = p.floats(nu); err != nil {
		return err
	}
	if e.KnotsV, err = p.floats(nv); err != nil {
		return err
	}
	if e.Weights, err = p.floats(c); err != nil {
		return err
	}
	if e.Points, err = p.points(c); err != nil {
		return err
	}
	for _, v := range []*float64{&e.U0, &e.U1, &e.V0, &e.V1} {
		if *v, err = p.float(); err != nil {
			return err
		}
	}
	return nil
}

// Spline converts the entity to the shared surface model.
func (e *RationalBSplineSurface) Spline() spline.Surface {
	pts := make([]spline.HPoint, len(e.Points))
	for i, q := range e.Points {
		pts[i] = spline.HPoint{X: q[0], Y: q[1], Z: q[2], W: e.Weights[i]}
	}
	return spline.Surface{
		DegreeU:    e.M1,
		DegreeV:    e.M2,
		KnotsU:     append([]float64(nil), e.KnotsU...),
		KnotsV:     append([]float64(nil), e.KnotsV...),
		NU:         e.K1 + 1,
		NV:         e.K2 + 1,
		Points:     pts,
		Domain:     spline.Rect{U0: e.U0, V0: e.V0, U1: e.U1, V1: e.V1},
		ClosedU:    e.ClosedU,
		ClosedV:    e.ClosedV,
		Polynomial: e.Polynomial,
		PeriodicU:  e.PeriodicU,
		PeriodicV:  e.PeriodicV,
	}
}

// Sense values of a boundary model-space curve.
const (
	SenseAgree   = 1
	SenseReverse = 2
)

// BoundaryCurve is one model-space curve of a Boundary with the
// parameter-space curves that represent it.
type BoundaryCurve struct {
	Curve       int
	Sense       int
	ParamCurves []int
}

// Boundary is entity 141.
type Boundary struct {
	Directory
	BoundaryType   int // 0 model space only, 1 with parameter-space curves
	Representation int // preferred representation
	Surface        int
	Curves         []BoundaryCurve
}

func (e *Boundary) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	for _, v := range []*int{&e.BoundaryType, &e.Representation, &e.Surface} {
		if *v, err = p.int(); err != nil {
			return err
		}
	}
	n, err := p.count()
	if err != nil {
		return err
	}
	// every curve needs at least CRVPT, SENSE and K
	if err := p.need(3 * n); err != nil {
		return err
	}
	e.Curves = make([]BoundaryCurve, n)
	for i := range e.Curves {
		bc := &e.Curves[i]
		if bc.Curve, err = p.int(); err != nil {
			return err
		}
		if bc.Sense, err = p.int(); err != nil {
			return err
		}
		if bc.Sense != SenseAgree && bc.Sense != SenseReverse {
			return fmt.Errorf("%w: sense %d", errBadLayout, bc.Sense)
		}
		k, err := p.count()
		if err != nil {
			return err
		}
		if bc.ParamCurves, err = p.ints(k); err != nil {
			return err
		}
	}
	return nil
}

// ParametricCurve is entity 142: a curve on a parametric surface.
type ParametricCurve struct {
	Directory
	Creation       int
	Surface        int
	ParamCurve     int // BPTR, curve in the surface's (u, v) space
	ModelCurve     int // CPTR, curve in model space
	Representation int
}

func (e *ParametricCurve) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	for _, v := range []*int{&e.Creation, &e.Surface, &e.ParamCurve, &e.ModelCurve, &e.Representation} {
		if *v, err = p.int(); err != nil {
			return err
		}
	}
	return nil
}

// BoundedSurface is entity 143.
type BoundedSurface struct {
	Directory
	BoundaryType int
	Surface      int
	Boundaries   []int
}

func (e *BoundedSurface) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	if e.BoundaryType, err = p.int(); err != nil {
		return err
	}
	if e.Surface, err = p.int(); err != nil {
		return err
	}
	n, err := p.count()
	if err != nil {
		return err
	}
	e.Boundaries, err = p.ints(n)
	return err
}

// TrimmedSurface is entity 144.
type TrimmedSurface struct {
	Directory
	Surface int
	// HasOuter is false when the outer boundary is the boundary of the
	// surface's parameter domain; Outer is then unused.
	HasOuter bool
	Outer    int
	Inner    []int
}

func (e *TrimmedSurface) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	if e.Surface, err = p.int(); err != nil {
		return err
	}
	if e.HasOuter, err = p.flag(); err != nil {
		return err
	}
	n, err := p.count()
	if err != nil {
		return err
	}
	if e.Outer, err = p.int(); err != nil {
		return err
	}
	e.Inner, err = p.ints(n)
	return err
}

// singularDet is the smallest |det R| accepted for a placement.
const singularDet = 1e-12

// TransformationMatrix is entity 124: x' = R·x + T. Its own Transform
// field chains to a parent transform.
type TransformationMatrix struct {
	Directory
	R [9]float64 // row-major
	T [3]float64
}

func (e *TransformationMatrix) Decode(tokens []string) error {
	p, err := begin(&e.Directory, tokens)
	if err != nil {
		return err
	}
	for row := 0; row < 3; row++ {
		v, err := p.floats(4)
		if err != nil {
			return err
		}
		copy(e.R[row*3:row*3+3], v[:3])
		e.T[row] = v[3]
	}
	if d := mathutil.Mat3(e.R).Det(); math.Abs(d) < singularDet {
		return fmt.Errorf("%w: singular rotation, determinant %g", errBadLayout, d)
	}
	return nil
}

// Matrix returns the transform as an affine 4×4 matrix.
func (e *TransformationMatrix) Matrix() mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.Mat3(e.R), mathutil.Vec3(e.T))
}
