// Package jobs turns bounded and trimmed surface entities into
// self-contained export jobs.
package jobs

import (
	"errors"
	"fmt"

	"iges2bezier/internal/iges"
	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/spline"
	"iges2bezier/internal/tessellate"
	"iges2bezier/internal/trimpath"
)

// maxNesting bounds composite curve recursion; composites that point back
// at themselves would otherwise never terminate.
const maxNesting = 32

var (
	ErrUnsupportedSurface = errors.New("jobs: base surface is not a rational b-spline surface")
	ErrNoParamCurve       = errors.New("jobs: no parameter-space curve")
	ErrDegenerateDomain   = errors.New("jobs: surface domain has zero area")
	errNesting            = errors.New("composite curves nested too deeply")
)

// Error ties a failure to the directory entry it came from.
type Error struct {
	Seq int
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("jobs: DE %d: %v", e.Seq, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// TrimCurve is one parameter-space curve of a loop. Seq is 0 for the
// synthesized domain boundary.
type TrimCurve struct {
	Seq      int
	Reversed bool
	Curve    spline.Curve
}

// Loop is a closed trim boundary.
type Loop struct {
	Outer  bool
	Curves []TrimCurve
}

// Job is one surface to export with its trim loops.
type Job struct {
	Index      int // 1-based, numbers the output files
	Seq        int // the 143/144 entity
	Type       int
	SurfaceSeq int
	Surface    spline.Surface
	Box        spline.Rect
	Loops      []Loop
	// Placement is the surface's transform chain. Artifacts stay in
	// definition space; previews apply it.
	Placement mathutil.Mat4
}

// Result is the converted geometry of a job.
type Result struct {
	Patches []tessellate.Patch
	Paths   []trimpath.Path
}

// Build walks the graph in directory order and creates a job for every
// bounded (143) and trimmed (144) surface. Entities that cannot be resolved
// are reported as *Error and skipped; the rest still get jobs.
func Build(g *iges.Graph) ([]Job, []error) {
	var jobs []Job
	var errs []error
	for i := 0; i < g.Len(); i++ {
		e, err := g.At(i)
		h := e.Header()
		if h.Type != iges.TypeBoundedSurface && h.Type != iges.TypeTrimmedSurface {
			continue
		}
		if err != nil {
			errs = append(errs, &Error{Seq: h.Seq, Err: err})
			continue
		}

		var job Job
		switch v := e.(type) {
		case *iges.BoundedSurface:
			job, err = bounded(g, v)
		case *iges.TrimmedSurface:
			job, err = trimmed(g, v)
		}
		if err != nil {
			errs = append(errs, &Error{Seq: h.Seq, Err: err})
			continue
		}
		job.Index = len(jobs) + 1
		job.Seq, job.Type = h.Seq, h.Type
		jobs = append(jobs, job)
	}
	return jobs, errs
}

func baseSurface(g *iges.Graph, seq int) (Job, error) {
	e, err := g.Lookup(seq)
	if err != nil {
		return Job{}, err
	}
	s, ok := e.(*iges.RationalBSplineSurface)
	if !ok {
		return Job{}, fmt.Errorf("%w: DE %d is a %s", ErrUnsupportedSurface, seq, iges.TypeName(e.Header().Type))
	}
	surf := s.Spline()
	if !surf.Domain.Valid() {
		return Job{}, fmt.Errorf("%w: DE %d", ErrDegenerateDomain, seq)
	}
	placement, err := g.Placement(s)
	if err != nil {
		return Job{}, err
	}
	return Job{SurfaceSeq: seq, Surface: surf, Box: surf.Domain, Placement: placement}, nil
}

func bounded(g *iges.Graph, bs *iges.BoundedSurface) (Job, error) {
	job, err := baseSurface(g, bs.Surface)
	if err != nil {
		return Job{}, err
	}
	for k, ptr := range bs.Boundaries {
		b, err := iges.LookupAs[*iges.Boundary](g, ptr)
		if err != nil {
			return Job{}, err
		}
		loop := Loop{Outer: k == 0}
		for _, bc := range b.Curves {
			if len(bc.ParamCurves) == 0 {
				return Job{}, fmt.Errorf("%w: boundary DE %d", ErrNoParamCurve, ptr)
			}
			// the K curves of a component form one chain; SENSE applies to
			// the whole chain
			var chain []TrimCurve
			for _, pscpt := range bc.ParamCurves {
				curves, err := resolveCurve(g, pscpt, 0)
				if err != nil {
					return Job{}, err
				}
				chain = append(chain, curves...)
			}
			if bc.Sense == iges.SenseReverse {
				chain = reverse(chain)
			}
			loop.Curves = append(loop.Curves, chain...)
		}
		job.Loops = append(job.Loops, loop)
	}
	return job, nil
}

func trimmed(g *iges.Graph, ts *iges.TrimmedSurface) (Job, error) {
	job, err := baseSurface(g, ts.Surface)
	if err != nil {
		return Job{}, err
	}
	if ts.HasOuter {
		loop, err := paramLoop(g, ts.Outer, true)
		if err != nil {
			return Job{}, err
		}
		job.Loops = append(job.Loops, loop)
	} else {
		job.Loops = append(job.Loops, domainLoop(job.Box))
	}
	for _, ptr := range ts.Inner {
		loop, err := paramLoop(g, ptr, false)
		if err != nil {
			return Job{}, err
		}
		job.Loops = append(job.Loops, loop)
	}
	return job, nil
}

// paramLoop resolves a 142 curve on surface into its (u, v) curves.
func paramLoop(g *iges.Graph, seq int, outer bool) (Loop, error) {
	pc, err := iges.LookupAs[*iges.ParametricCurve](g, seq)
	if err != nil {
		return Loop{}, err
	}
	if pc.ParamCurve == 0 {
		return Loop{}, fmt.Errorf("%w: DE %d", ErrNoParamCurve, seq)
	}
	curves, err := resolveCurve(g, pc.ParamCurve, 0)
	if err != nil {
		return Loop{}, err
	}
	return Loop{Outer: outer, Curves: curves}, nil
}

// domainLoop is the boundary of the parameter rectangle, counterclockwise.
func domainLoop(r spline.Rect) Loop {
	corner := func(u, v float64) spline.HPoint { return spline.HPoint{X: u, Y: v, W: 1} }
	c := spline.Curve{
		Degree: 1,
		Knots:  []float64{0, 0, 1, 2, 3, 4, 4},
		Points: []spline.HPoint{
			corner(r.U0, r.V0), corner(r.U1, r.V0), corner(r.U1, r.V1), corner(r.U0, r.V1), corner(r.U0, r.V0),
		},
		Domain:     [2]float64{0, 4},
		Planar:     true,
		Closed:     true,
		Polynomial: true,
		Normal:     [3]float64{0, 0, 1},
	}
	return Loop{Outer: true, Curves: []TrimCurve{{Curve: c}}}
}

// resolveCurve flattens a curve pointer into B-spline curves.
func resolveCurve(g *iges.Graph, seq, depth int) ([]TrimCurve, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("%w at DE %d", errNesting, seq)
	}
	e, err := g.Lookup(seq)
	if err != nil {
		return nil, err
	}
	switch v := e.(type) {
	case *iges.RationalBSplineCurve:
		return []TrimCurve{{Seq: seq, Curve: v.Spline()}}, nil
	case *iges.Line:
		return []TrimCurve{{Seq: seq, Curve: v.Spline()}}, nil
	case *iges.CompositeCurve:
		var out []TrimCurve
		for _, m := range v.Members {
			curves, err := resolveCurve(g, m, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, curves...)
		}
		return out, nil
	default:
		return nil, &iges.TypeError{Seq: seq, Got: e.Header().Type, Want: "curve"}
	}
}

// reverse flips the traversal of a chain: order and each curve.
func reverse(curves []TrimCurve) []TrimCurve {
	out := make([]TrimCurve, len(curves))
	for i, c := range curves {
		out[len(curves)-1-i] = TrimCurve{Seq: c.Seq, Reversed: !c.Reversed, Curve: c.Curve.Reverse()}
	}
	return out
}

// Export tessellates the surface and converts every trim curve.
func (j Job) Export() (Result, error) {
	patches, err := tessellate.Tessellate(j.Surface, j.Box)
	if err != nil {
		return Result{}, &Error{Seq: j.SurfaceSeq, Err: err}
	}
	res := Result{Patches: patches}
	for _, loop := range j.Loops {
		for _, tc := range loop.Curves {
			p, err := trimpath.Export(tc.Curve, j.Box)
			if err != nil {
				return Result{}, &Error{Seq: tc.Seq, Err: err}
			}
			res.Paths = append(res.Paths, p)
		}
	}
	return res, nil
}
