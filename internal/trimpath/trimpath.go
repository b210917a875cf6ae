// Package trimpath converts polynomial trim curves into SVG-style path
// commands in normalized parameter space.
package trimpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"iges2bezier/internal/spline"
)

var (
	ErrDegree   = errors.New("trimpath: curve degree above 3")
	ErrRational = errors.New("trimpath: curve is not polynomial")
)

// Op is a path command letter.
type Op byte

const (
	MoveTo  Op = 'M'
	LineTo  Op = 'L'
	CurveTo Op = 'C'
	Close   Op = 'z'
)

// Point is a normalized (u, v) position.
type Point struct {
	X, Y float64
}

// Command is one path command. MoveTo and LineTo carry one point, CurveTo
// three, Close none.
type Command struct {
	Op     Op
	Points []Point
}

// Path is a command sequence starting with MoveTo.
type Path []Command

// Export decomposes a polynomial curve of degree 1-3 into Bezier segments
// and emits them as path commands, with x and y normalized into box.
// Degree-1 segments become lines; quadratics are elevated to cubics.
func Export(c spline.Curve, box spline.Rect) (Path, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("trimpath: %w", err)
	}
	if c.Degree > 3 {
		return nil, fmt.Errorf("%w: %d", ErrDegree, c.Degree)
	}
	if !c.Polynomial {
		return nil, ErrRational
	}

	_, pts, err := spline.Decompose(spline.Reduced(c.Knots), c.Points, c.Degree)
	if err != nil {
		return nil, fmt.Errorf("trimpath: %w", err)
	}
	uv := make([]Point, len(pts))
	for i, p := range pts {
		u, v := box.Normalize(p.X, p.Y)
		uv[i] = Point{X: u, Y: v}
	}

	path := Path{{Op: MoveTo, Points: []Point{uv[0]}}}
	for _, seg := range spline.Segments(uv, c.Degree) {
		switch c.Degree {
		case 1:
			path = append(path, Command{Op: LineTo, Points: []Point{seg[1]}})
		case 2:
			cubic := spline.ElevateQuadratic(vec(seg[0]), vec(seg[1]), vec(seg[2]))
			path = append(path, Command{Op: CurveTo, Points: []Point{
				Point(cubic[1]), Point(cubic[2]), Point(cubic[3]),
			}})
		default:
			path = append(path, Command{Op: CurveTo, Points: append([]Point(nil), seg[1:]...)})
		}
	}
	if c.Closed {
		path = append(path, Command{Op: Close})
	}
	return path, nil
}

// vec lets a Point be blended by the spline package.
type vec Point

func (a vec) Add(b vec) vec { return vec{a.X + b.X, a.Y + b.Y} }
func (a vec) Scale(s float64) vec { return vec{a.X * s, a.Y * s} }

// String renders the path in compact form: consecutive curve commands
// share one C letter.
func (p Path) String() string {
	var b strings.Builder
	var prev Op
	for i, cmd := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		if cmd.Op != prev || cmd.Op != CurveTo {
			b.WriteByte(byte(cmd.Op))
			if len(cmd.Points) > 0 {
				b.WriteByte(' ')
			}
		}
		for j, pt := range cmd.Points {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(pt.X, 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(pt.Y, 'f', -1, 64))
		}
		prev = cmd.Op
	}
	return b.String()
}

// Join renders several paths separated by spaces, the layout of a curve
// artifact line.
func Join(paths []Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
