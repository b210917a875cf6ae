// Package igestest writes small synthetic IGES files for tests.
package igestest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"iges2bezier/internal/spline"
)

type entry struct {
	typ, form int
	transform int
	params    []string
}

// Builder accumulates entities and renders them as fixed-width records.
// Add returns the directory sequence number later entities point at.
type Builder struct {
	Product      string
	FileName     string
	Author       string
	Organization string
	// Delim and Term override the parameter and record delimiters.
	Delim, Term byte

	entries []entry
}

// New returns a builder with the default delimiters.
func New() *Builder {
	return &Builder{
		Product:      "igestest",
		FileName:     "test.igs",
		Author:       "tester",
		Organization: "none",
		Delim:        ',',
		Term:         ';',
	}
}

// Add appends an entity. Parameters are formatted with cast, so strings are
// written verbatim (useful for malformed input).
func (b *Builder) Add(typ, form int, params ...any) int {
	toks := make([]string, 0, len(params)+1)
	toks = append(toks, cast.ToString(typ))
	for _, p := range params {
		toks = append(toks, cast.ToString(p))
	}
	b.entries = append(b.entries, entry{typ: typ, form: form, params: toks})
	return 2*len(b.entries) - 1
}

// Line adds a 110 line.
func (b *Builder) Line(p0, p1 [3]float64) int {
	return b.Add(110, 0, p0[0], p0[1], p0[2], p1[0], p1[1], p1[2])
}

// Composite adds a 102 composite curve.
func (b *Builder) Composite(members ...int) int {
	params := []any{len(members)}
	for _, m := range members {
		params = append(params, m)
	}
	return b.Add(102, 0, params...)
}

// Curve adds a 126 rational B-spline curve.
func (b *Builder) Curve(c spline.Curve) int {
	params := []any{len(c.Points) - 1, c.Degree, flag(c.Planar), flag(c.Closed), flag(c.Polynomial), flag(c.Periodic)}
	for _, k := range c.Knots {
		params = append(params, k)
	}
	for _, p := range c.Points {
		params = append(params, p.W)
	}
	for _, p := range c.Points {
		params = append(params, p.X, p.Y, p.Z)
	}
	params = append(params, c.Domain[0], c.Domain[1])
	if c.Planar {
		params = append(params, c.Normal[0], c.Normal[1], c.Normal[2])
	}
	return b.Add(126, 0, params...)
}

// Surface adds a 128 rational B-spline surface.
func (b *Builder) Surface(s spline.Surface) int {
	params := []any{
		s.NU - 1, s.NV - 1, s.DegreeU, s.DegreeV,
		flag(s.ClosedU), flag(s.ClosedV), flag(s.Polynomial), flag(s.PeriodicU), flag(s.PeriodicV),
	}
	for _, k := range s.KnotsU {
		params = append(params, k)
	}
	for _, k := range s.KnotsV {
		params = append(params, k)
	}
	for _, p := range s.Points {
		params = append(params, p.W)
	}
	for _, p := range s.Points {
		params = append(params, p.X, p.Y, p.Z)
	}
	params = append(params, s.Domain.U0, s.Domain.U1, s.Domain.V0, s.Domain.V1)
	return b.Add(128, 0, params...)
}

// BoundaryCurve is one component of a 141 boundary.
type BoundaryCurve struct {
	Model  int
	Sense  int
	Params []int
}

// Boundary adds a 141 boundary with parameter-space curves.
func (b *Builder) Boundary(surface int, curves ...BoundaryCurve) int {
	params := []any{1, 1, surface, len(curves)}
	for _, c := range curves {
		sense := c.Sense
		if sense == 0 {
			sense = 1
		}
		params = append(params, c.Model, sense, len(c.Params))
		for _, p := range c.Params {
			params = append(params, p)
		}
	}
	return b.Add(141, 0, params...)
}

// ParametricCurve adds a 142 curve on a parametric surface.
func (b *Builder) ParametricCurve(surface, param, model int) int {
	return b.Add(142, 0, 0, surface, param, model, 1)
}

// Bounded adds a 143 bounded surface.
func (b *Builder) Bounded(surface int, boundaries ...int) int {
	params := []any{1, surface, len(boundaries)}
	for _, bd := range boundaries {
		params = append(params, bd)
	}
	return b.Add(143, 0, params...)
}

// Trimmed adds a 144 trimmed surface. outer == 0 means the outer boundary
// is the surface's domain.
func (b *Builder) Trimmed(surface, outer int, inner ...int) int {
	params := []any{surface, flag(outer != 0), len(inner), outer}
	for _, in := range inner {
		params = append(params, in)
	}
	return b.Add(144, 0, params...)
}

func flag(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Transform adds a 124 transformation matrix x' = R·x + T.
func (b *Builder) Transform(r [9]float64, t [3]float64) int {
	var ps []any
	for row := 0; row < 3; row++ {
		ps = append(ps, r[row*3], r[row*3+1], r[row*3+2], t[row])
	}
	return b.Add(124, 0, ps...)
}

// Place sets the directory transform pointer of an added entity.
func (b *Builder) Place(seq, transform int) {
	b.entries[(seq-1)/2].transform = transform
}

func holl(s string) string {
	return fmt.Sprintf("%dH%s", len(s), s)
}

// Bytes renders the S, G, D, P and T sections.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	d, t := string(b.Delim), string(b.Term)

	writeLine(&buf, "synthetic IGES file", 'S', 1)

	global := strings.Join([]string{
		holl(d), holl(t), holl(b.Product), holl(b.FileName), holl("igestest"), holl("1.0"),
		"32", "38", "6", "308", "15", holl(b.Product), "1.0", "2", "2HMM", "1", "0.01",
		holl("20261017.120000"), "1.0E-6", "1000.0", holl(b.Author), holl(b.Organization), "11", "0",
	}, d) + t
	gLines := 0
	for len(global) > 0 {
		n := min(72, len(global))
		gLines++
		writeLine(&buf, global[:n], 'G', gLines)
		global = global[n:]
	}

	// parameter chunks first: directory entries need pointer and count
	chunks := make([][]string, len(b.entries))
	for i, e := range b.entries {
		chunks[i] = wrap(strings.Join(e.params, d)+t, d)
	}

	pLine := 1
	for i, e := range b.entries {
		seq := 2*i + 1
		l1 := fmt.Sprintf("%8d%8d%8d%8d%8d%8d%8d%8d%8s", e.typ, pLine, 0, 0, 0, 0, e.transform, 0, "00000000")
		l2 := fmt.Sprintf("%8d%8d%8d%8d%8d%8s%8s%8s%8d", e.typ, 0, 0, len(chunks[i]), e.form, "", "", "", 0)
		writeLine(&buf, l1, 'D', seq)
		writeLine(&buf, l2, 'D', seq+1)
		pLine += len(chunks[i])
	}

	pLine = 1
	for i, c := range chunks {
		for _, data := range c {
			writeLine(&buf, fmt.Sprintf("%-64s%8d", data, 2*i+1), 'P', pLine)
			pLine++
		}
	}

	tail := fmt.Sprintf("S%7dG%7dD%7dP%7d", 1, gLines, 2*len(b.entries), pLine-1)
	writeLine(&buf, tail, 'T', 1)
	return buf.Bytes()
}

// wrap splits a parameter record into 64-column pieces, breaking after a
// delimiter where possible.
func wrap(s, delim string) []string {
	var out []string
	for len(s) > 64 {
		cut := strings.LastIndex(s[:64], delim) + 1
		if cut <= 0 {
			cut = 64
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}

func writeLine(buf *bytes.Buffer, data string, section byte, seq int) {
	fmt.Fprintf(buf, "%-72s%c%7d\n", data, section, seq)
}
