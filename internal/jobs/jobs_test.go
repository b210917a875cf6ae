package jobs_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iges2bezier/internal/iges"
	"iges2bezier/internal/iges/igestest"
	"iges2bezier/internal/jobs"
	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/spline"
	"iges2bezier/internal/trimpath"
)

func sheet() spline.Surface {
	return spline.Surface{
		DegreeU: 1, DegreeV: 1,
		KnotsU: []float64{0, 0, 4, 4},
		KnotsV: []float64{0, 0, 2, 2},
		NU:     2, NV: 2,
		Points: []spline.HPoint{
			{X: 0, Y: 0, Z: 0, W: 1}, {X: 4, Y: 0, Z: 0, W: 1},
			{X: 0, Y: 2, Z: 1, W: 1}, {X: 4, Y: 2, Z: 1, W: 1},
		},
		Domain:     spline.Rect{U0: 0, V0: 0, U1: 4, V1: 2},
		Polynomial: true,
	}
}

func circleish(cx, cy, r float64) spline.Curve {
	return spline.Curve{
		Degree: 2,
		Knots:  []float64{0, 0, 0, 1, 2, 3, 3, 3},
		Points: []spline.HPoint{
			{X: cx + r, Y: cy, W: 1}, {X: cx + r, Y: cy + r, W: 1}, {X: cx - r, Y: cy + r, W: 1},
			{X: cx - r, Y: cy - r, W: 1}, {X: cx + r, Y: cy, W: 1},
		},
		Domain:     [2]float64{0, 3},
		Closed:     true,
		Polynomial: true,
	}
}

func build(t *testing.T, b *igestest.Builder) ([]jobs.Job, []error) {
	t.Helper()
	g, err := iges.ParseReader(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	return jobs.Build(g)
}

func TestTrimmedDomainBoundary(t *testing.T) {
	b := igestest.New()
	surf := b.Surface(sheet())
	trimmed := b.Trimmed(surf, 0)

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)

	j := js[0]
	assert.Equal(t, 1, j.Index)
	assert.Equal(t, trimmed, j.Seq)
	assert.Equal(t, iges.TypeTrimmedSurface, j.Type)
	assert.Equal(t, surf, j.SurfaceSeq)
	assert.Equal(t, sheet().Domain, j.Box)
	require.Len(t, j.Loops, 1)
	assert.True(t, j.Loops[0].Outer)

	res, err := j.Export()
	require.NoError(t, err)
	require.Len(t, res.Patches, 1)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, "M 0,0 L 1,0 L 1,1 L 0,1 L 0,0 z", res.Paths[0].String())

	assert.True(t, j.Placement.IsIdentity())

	corner := res.Patches[0].Grid[3][3]
	assert.Equal(t, [3]float64{4, 2, 1}, [3]float64{corner.X, corner.Y, corner.Z})
	assert.InDelta(t, 1, corner.U, 1e-12)
	assert.InDelta(t, 1, corner.V, 1e-12)
}

func TestTrimmedWithLoops(t *testing.T) {
	b := igestest.New()
	surf := b.Surface(sheet())
	l1 := b.Line([3]float64{0.5, 0.5, 0}, [3]float64{3.5, 0.5, 0})
	l2 := b.Line([3]float64{3.5, 0.5, 0}, [3]float64{2, 1.5, 0})
	l3 := b.Line([3]float64{2, 1.5, 0}, [3]float64{0.5, 0.5, 0})
	outer := b.Composite(l1, l2, b.Composite(l3))
	hole := b.Curve(circleish(2, 1, 0.25))
	pcOuter := b.ParametricCurve(surf, outer, 0)
	pcHole := b.ParametricCurve(surf, hole, 0)
	b.Trimmed(surf, pcOuter, pcHole)

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)
	require.Len(t, js[0].Loops, 2)

	out, in := js[0].Loops[0], js[0].Loops[1]
	assert.True(t, out.Outer)
	assert.False(t, in.Outer)
	require.Len(t, out.Curves, 3)
	assert.Equal(t, []int{l1, l2, l3}, []int{out.Curves[0].Seq, out.Curves[1].Seq, out.Curves[2].Seq})
	require.Len(t, in.Curves, 1)
	assert.Equal(t, hole, in.Curves[0].Seq)

	res, err := js[0].Export()
	require.NoError(t, err)
	require.Len(t, res.Paths, 4)
	assert.Equal(t, "M 0.125,0.25 L 0.875,0.25", res.Paths[0].String())
	last := res.Paths[3]
	assert.Equal(t, trimpath.Close, last[len(last)-1].Op)
}

func TestBoundedReversedSense(t *testing.T) {
	b := igestest.New()
	surf := b.Surface(sheet())
	l1 := b.Line([3]float64{0, 0, 0}, [3]float64{4, 0, 0})
	l2 := b.Line([3]float64{4, 0, 0}, [3]float64{4, 2, 0})
	comp := b.Composite(l1, l2)
	bd := b.Boundary(surf, igestest.BoundaryCurve{Sense: iges.SenseReverse, Params: []int{comp}})
	b.Bounded(surf, bd)

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)
	require.Len(t, js[0].Loops, 1)

	curves := js[0].Loops[0].Curves
	require.Len(t, curves, 2)
	assert.Equal(t, l2, curves[0].Seq)
	assert.Equal(t, l1, curves[1].Seq)
	assert.True(t, curves[0].Reversed)

	res, err := js[0].Export()
	require.NoError(t, err)
	assert.Equal(t, "M 1,1 L 1,0", res.Paths[0].String())
	assert.Equal(t, "M 1,0 L 0,0", res.Paths[1].String())
}

func TestBoundedReversedSenseChain(t *testing.T) {
	b := igestest.New()
	surf := b.Surface(sheet())
	l1 := b.Line([3]float64{0, 0, 0}, [3]float64{4, 0, 0})
	l2 := b.Line([3]float64{4, 0, 0}, [3]float64{4, 2, 0})
	l3 := b.Line([3]float64{4, 2, 0}, [3]float64{0, 2, 0})
	bd := b.Boundary(surf, igestest.BoundaryCurve{Sense: iges.SenseReverse, Params: []int{l1, b.Composite(l2, l3)}})
	b.Bounded(surf, bd)

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)

	curves := js[0].Loops[0].Curves
	require.Len(t, curves, 3)
	assert.Equal(t, []int{l3, l2, l1}, []int{curves[0].Seq, curves[1].Seq, curves[2].Seq})

	first := curves[0].Curve.Points[0]
	assert.Equal(t, spline.HPoint{X: 0, Y: 2, Z: 0, W: 1}, first)
	for i := 1; i < len(curves); i++ {
		prev := curves[i-1].Curve.Points
		assert.Equal(t, prev[len(prev)-1], curves[i].Curve.Points[0], "curve %d does not start where curve %d ends", i, i-1)
	}
	last := curves[2].Curve.Points
	assert.Equal(t, spline.HPoint{X: 0, Y: 0, Z: 0, W: 1}, last[len(last)-1])
}

func TestBuildErrors(t *testing.T) {
	b := igestest.New()
	loopA := b.Composite(3)
	b.Composite(loopA)
	surf := b.Surface(sheet())
	line := b.Line([3]float64{0, 0, 0}, [3]float64{1, 1, 0})

	notSurface := b.Trimmed(line, 0)
	missing := b.Trimmed(surf, 999)
	noParam := b.Trimmed(surf, b.ParametricCurve(surf, 0, line))
	cycle := b.Trimmed(surf, b.ParametricCurve(surf, loopA, 0))
	ok := b.Trimmed(surf, 0)

	js, errs := build(t, b)
	require.Len(t, js, 1)
	assert.Equal(t, ok, js[0].Seq)
	assert.Equal(t, 1, js[0].Index)
	require.Len(t, errs, 4)

	bySeq := map[int]error{}
	for _, err := range errs {
		var je *jobs.Error
		require.True(t, errors.As(err, &je))
		bySeq[je.Seq] = je.Err
	}
	assert.ErrorIs(t, bySeq[notSurface], jobs.ErrUnsupportedSurface)
	assert.ErrorIs(t, bySeq[missing], iges.ErrReference)
	assert.ErrorIs(t, bySeq[noParam], jobs.ErrNoParamCurve)
	assert.Error(t, bySeq[cycle])
}

func TestExportReportsCurve(t *testing.T) {
	b := igestest.New()
	surf := b.Surface(sheet())
	c := circleish(2, 1, 0.5)
	c.Polynomial = false
	hole := b.Curve(c)
	b.Trimmed(surf, 0, b.ParametricCurve(surf, hole, 0))

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)

	_, err := js[0].Export()
	var je *jobs.Error
	require.True(t, errors.As(err, &je))
	assert.Equal(t, hole, je.Seq)
	assert.ErrorIs(t, err, trimpath.ErrRational)
}

func TestJobPlacement(t *testing.T) {
	b := igestest.New()
	shift := b.Transform([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, [3]float64{0, 0, 3})
	surf := b.Surface(sheet())
	b.Place(surf, shift)
	b.Trimmed(surf, 0)

	js, errs := build(t, b)
	require.Empty(t, errs)
	require.Len(t, js, 1)
	assert.Equal(t, mathutil.Vec3{4, 2, 4}, js[0].Placement.MulPoint(mathutil.Vec3{4, 2, 1}))
}
