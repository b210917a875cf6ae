package spline

// Vector is any control point value that can be blended affinely.
// Knot insertion and degree conversion only ever need these two operations.
type Vector[T any] interface {
	Add(T) T
	Scale(float64) T
}

// HPoint is a control point position with its weight carried alongside.
// The position is NOT pre-multiplied by W; all four components are blended
// identically.
type HPoint struct {
	X, Y, Z, W float64
}

func (p HPoint) Add(q HPoint) HPoint {
	return HPoint{p.X + q.X, p.Y + q.Y, p.Z + q.Z, p.W + q.W}
}

func (p HPoint) Scale(s float64) HPoint {
	return HPoint{p.X * s, p.Y * s, p.Z * s, p.W * s}
}

// Weighted returns the pre-multiplied form (wx, wy, wz, w).
func (p HPoint) Weighted() HPoint {
	return HPoint{p.X * p.W, p.Y * p.W, p.Z * p.W, p.W}
}

// Unweighted is the inverse of Weighted. A zero weight leaves the position as is.
func (p HPoint) Unweighted() HPoint {
	if p.W == 0 {
		return p
	}
	return HPoint{p.X / p.W, p.Y / p.W, p.Z / p.W, p.W}
}

// Row is a sequence of control points blended element by element, so a whole
// row (or column) of a surface grid can act as a single control point.
type Row[T Vector[T]] []T

func (r Row[T]) Add(o Row[T]) Row[T] {
	out := make(Row[T], len(r))
	for i := range r {
		out[i] = r[i].Add(o[i])
	}
	return out
}

func (r Row[T]) Scale(s float64) Row[T] {
	out := make(Row[T], len(r))
	for i := range r {
		out[i] = r[i].Scale(s)
	}
	return out
}

func lerp[T Vector[T]](a, b T, t float64) T {
	return a.Scale(1 - t).Add(b.Scale(t))
}
