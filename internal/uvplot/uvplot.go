// Package uvplot draws trim paths in the unit parameter square.
package uvplot

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"iges2bezier/internal/trimpath"
)

// Options controls the plot.
type Options struct {
	Size      int     // edge in pixels
	Margin    float64 // border around the unit square, in pixels
	LineWidth float64
}

// DefaultOptions returns a 512 pixel plot.
func DefaultOptions() Options {
	return Options{Size: 512, Margin: 16, LineWidth: 2}
}

// Plot strokes paths over a white background with the unit square outlined
// in grey. v runs up the image.
func Plot(paths []trimpath.Path, opts Options) (image.Image, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("uvplot: size %d", opts.Size)
	}
	dc := gg.NewContext(opts.Size, opts.Size)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	extent := float64(opts.Size) - 2*opts.Margin
	at := func(p trimpath.Point) (float64, float64) {
		return opts.Margin + p.X*extent, opts.Margin + (1-p.Y)*extent
	}

	dc.SetRGB(0.75, 0.75, 0.75)
	dc.SetLineWidth(1)
	dc.MoveTo(at(trimpath.Point{X: 0, Y: 0}))
	dc.LineTo(at(trimpath.Point{X: 1, Y: 0}))
	dc.LineTo(at(trimpath.Point{X: 1, Y: 1}))
	dc.LineTo(at(trimpath.Point{X: 0, Y: 1}))
	dc.ClosePath()
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("uvplot: domain: %w", err)
	}

	dc.SetRGB(0.1, 0.2, 0.8)
	dc.SetLineWidth(opts.LineWidth)
	for i, path := range paths {
		for _, cmd := range path {
			switch cmd.Op {
			case trimpath.MoveTo:
				dc.MoveTo(at(cmd.Points[0]))
			case trimpath.LineTo:
				dc.LineTo(at(cmd.Points[0]))
			case trimpath.CurveTo:
				x1, y1 := at(cmd.Points[0])
				x2, y2 := at(cmd.Points[1])
				x3, y3 := at(cmd.Points[2])
				dc.CubicTo(x1, y1, x2, y2, x3, y3)
			case trimpath.Close:
				dc.ClosePath()
			}
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("uvplot: path %d: %w", i, err)
		}
	}
	return dc.Image(), nil
}
