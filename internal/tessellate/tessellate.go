// Package tessellate splits rational B-spline surfaces into bicubic Bezier
// patches.
package tessellate

import (
	"fmt"

	"iges2bezier/internal/spline"
)

// Vertex is a patch control point: homogeneous position plus the
// normalized (u, v) it corresponds to.
type Vertex struct {
	spline.HPoint
	U, V float64
}

func (a Vertex) Add(b Vertex) Vertex {
	return Vertex{HPoint: a.HPoint.Add(b.HPoint), U: a.U + b.U, V: a.V + b.V}
}

func (a Vertex) Scale(s float64) Vertex {
	return Vertex{HPoint: a.HPoint.Scale(s), U: a.U * s, V: a.V * s}
}

// Patch is a bicubic Bezier patch, Grid[v][u].
type Patch struct {
	Grid [4][4]Vertex
}

// Eval evaluates the patch at (s, t) in [0,1]², s along u. Patches are
// non-rational: W is interpolated like any other component and never
// divided out.
func (p Patch) Eval(s, t float64) Vertex {
	var col [4]Vertex
	for j := range p.Grid {
		col[j] = spline.EvalBezier(p.Grid[j][:], s)
	}
	return spline.EvalBezier(col[:], t)
}

// Tessellate decomposes s into Bezier pieces along u, then v, normalizes
// every piece to bicubic and returns the patches ordered by v piece, u
// piece, then the cubic sub-patches of a piece (v before u).
//
// UVs are normalized by box. A box with an empty side yields NaN or Inf
// UVs; check box.Valid first.
func Tessellate(s spline.Surface, box spline.Rect) ([]Patch, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	du, dv := s.DegreeU, s.DegreeV

	// along u, every column of the grid is one control point
	cols := make([]spline.Row[Vertex], s.NU)
	for u := range cols {
		cols[u] = make(spline.Row[Vertex], s.NV)
		for v := range cols[u] {
			cols[u][v] = Vertex{HPoint: s.At(u, v)}
		}
	}
	knotsU, cols, err := spline.Decompose(spline.Reduced(s.KnotsU), cols, du)
	if err != nil {
		return nil, fmt.Errorf("tessellate: u direction: %w", err)
	}

	rows := make([]spline.Row[Vertex], s.NV)
	for v := range rows {
		rows[v] = make(spline.Row[Vertex], len(cols))
		for u := range cols {
			rows[v][u] = cols[u][v]
		}
	}
	knotsV, rows, err := spline.Decompose(spline.Reduced(s.KnotsV), rows, dv)
	if err != nil {
		return nil, fmt.Errorf("tessellate: v direction: %w", err)
	}

	piecesU := (len(cols) - 1) / du
	piecesV := (len(rows) - 1) / dv

	var patches []Patch
	for pv := 0; pv < piecesV; pv++ {
		v0, v1 := spline.Breakpoints(knotsV, dv, pv)
		for pu := 0; pu < piecesU; pu++ {
			u0, u1 := spline.Breakpoints(knotsU, du, pu)

			block := make([][]Vertex, dv+1)
			for j := range block {
				block[j] = make([]Vertex, du+1)
				for i := range block[j] {
					vert := rows[pv*dv+j][pu*du+i]
					u := u0 + (u1-u0)*float64(i)/float64(du)
					v := v0 + (v1-v0)*float64(j)/float64(dv)
					vert.U, vert.V = box.Normalize(u, v)
					block[j][i] = vert
				}
			}

			grid, err := cubicBlock(block)
			if err != nil {
				return nil, fmt.Errorf("tessellate: piece (%d,%d): %w", pu, pv, err)
			}
			patches = append(patches, split(grid)...)
		}
	}
	return patches, nil
}

// cubicBlock runs ToCubic across u in every row, then across v in every
// column of the result.
func cubicBlock(block [][]Vertex) ([][]Vertex, error) {
	for j, row := range block {
		c, err := spline.ToCubic(row)
		if err != nil {
			return nil, err
		}
		block[j] = c
	}

	width := len(block[0])
	var out [][]Vertex
	for i := 0; i < width; i++ {
		col := make([]Vertex, len(block))
		for j := range block {
			col[j] = block[j][i]
		}
		c, err := spline.ToCubic(col)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = make([][]Vertex, len(c))
			for j := range out {
				out[j] = make([]Vertex, width)
			}
		}
		for j, vert := range c {
			out[j][i] = vert
		}
	}
	return out, nil
}

// split cuts a grid of 4, 10, ... points per side into its 4x4 patches.
func split(grid [][]Vertex) []Patch {
	nv := spline.CubicPieces(len(grid))
	nu := spline.CubicPieces(len(grid[0]))
	patches := make([]Patch, 0, nu*nv)
	for k := 0; k < nv; k++ {
		for l := 0; l < nu; l++ {
			var p Patch
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					p.Grid[a][b] = grid[k*3+a][l*3+b]
				}
			}
			patches = append(patches, p)
		}
	}
	return patches
}
