// Package raster draws preview images of converted surfaces.
package raster

import (
	"image"
	"image/color"
	"math"

	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/tessellate"
)

// DefaultColor is the surface color when no texture is bound.
var DefaultColor = color.NRGBA{R: 160, G: 160, B: 170, A: 255}

// Options controls a preview render.
type Options struct {
	Size        int // output edge in pixels before supersampling
	Supersample int
	// Resolution is the number of grid cells per patch edge.
	Resolution int
	// Placement moves the patches into model space; View then orients
	// model space to the screen.
	Placement mathutil.Mat4
	View      mathutil.Mat3
	Texture   *image.NRGBA
	Color     color.NRGBA
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.Resolution <= 0 {
		o.Resolution = 8
	}
	if o.Placement == (mathutil.Mat4{}) {
		o.Placement = mathutil.Mat4Identity()
	}
	if o.View == (mathutil.Mat3{}) {
		o.View = mathutil.Isometric
	}
	if o.Color == (color.NRGBA{}) {
		o.Color = DefaultColor
	}
	return o
}

type sample struct {
	p    mathutil.Vec3
	u, v float64
}

// RenderPatches renders bicubic patches to a square NRGBA image of
// Size*Supersample pixels, orthographic, fitted to the patches' bounds.
// Each patch is evaluated on a Resolution×Resolution grid and drawn as two
// triangles per cell.
func RenderPatches(patches []tessellate.Patch, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample
	fb := NewFrameBuffer(renderSize, renderSize)
	if len(patches) == 0 {
		return fb.Image()
	}

	res := opts.Resolution
	grids := make([][]sample, len(patches))
	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for k, p := range patches {
		g := make([]sample, (res+1)*(res+1))
		for j := 0; j <= res; j++ {
			for i := 0; i <= res; i++ {
				v := p.Eval(float64(i)/float64(res), float64(j)/float64(res))
				world := opts.Placement.MulPoint(mathutil.Vec3{v.X, v.Y, v.Z})
				sp := opts.View.MulVec3(world)
				g[j*(res+1)+i] = sample{p: sp, u: v.U, v: v.V}
				allMin = allMin.Min(sp)
				allMax = allMax.Max(sp)
			}
		}
		grids[k] = g
	}

	center := allMin.Add(allMax).Scale(0.5)
	span := math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
	if span < 0.001 {
		span = 0.001
	}
	margin := 16 * opts.Supersample
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	project := func(s sample) Vertex {
		return Vertex{
			X: half + (s.p[0]-center[0])*scale,
			Y: half - (s.p[1]-center[1])*scale,
			Z: (s.p[2] - center[2]) * scale,
			U: s.u,
			V: s.v,
		}
	}

	lc := DefaultLightConfig()
	for _, g := range grids {
		for j := 0; j < res; j++ {
			for i := 0; i < res; i++ {
				v00 := project(g[j*(res+1)+i])
				v10 := project(g[j*(res+1)+i+1])
				v01 := project(g[(j+1)*(res+1)+i])
				v11 := project(g[(j+1)*(res+1)+i+1])
				RasterizeTriangle(fb, [3]Vertex{v00, v10, v11}, opts.Texture, opts.Color, &lc)
				RasterizeTriangle(fb, [3]Vertex{v00, v11, v01}, opts.Texture, opts.Color, &lc)
			}
		}
	}
	return fb.Image()
}
