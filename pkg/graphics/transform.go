package graphics

import "golang.org/x/image/math/f64"

// Transform is a 2D affine transform stored as the first two rows of a 3x3
// matrix: x' = m[0]*x + m[1]*y + m[2], y' = m[3]*x + m[4]*y + m[5].
type Transform f64.Aff3

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{1, 0, 0, 0, 1, 0}
}

// Translation returns a transform moving points by (dx, dy).
func Translation(dx, dy float64) Transform {
	return Transform{1, 0, dx, 0, 1, dy}
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Transform {
	return Transform{s, 0, 0, 0, s, 0}
}

// Then returns the transform that applies t first and then next.
func (t Transform) Then(next Transform) Transform {
	return Transform{
		next[0]*t[0] + next[1]*t[3],
		next[0]*t[1] + next[1]*t[4],
		next[0]*t[2] + next[1]*t[5] + next[2],
		next[3]*t[0] + next[4]*t[3],
		next[3]*t[1] + next[4]*t[4],
		next[3]*t[2] + next[4]*t[5] + next[5],
	}
}

// Translate returns t followed by a translation.
func (t Transform) Translate(dx, dy float64) Transform {
	return t.Then(Translation(dx, dy))
}

// ScaleAbout returns t followed by a uniform scale around pivot, so the point
// under pivot stays fixed.
func (t Transform) ScaleAbout(s float64, pivot Offset) Transform {
	return t.Translate(-pivot.X, -pivot.Y).Then(Scaling(s)).Translate(pivot.X, pivot.Y)
}

// Apply maps p through t.
func (t Transform) Apply(p Offset) Offset {
	return Offset{
		X: t[0]*p.X + t[1]*p.Y + t[2],
		Y: t[3]*p.X + t[4]*p.Y + t[5],
	}
}

// ApplyRect maps r through t and returns the bounding rect of the result.
func (t Transform) ApplyRect(r Rect) Rect {
	a := t.Apply(Offset{X: r.Left, Y: r.Top})
	b := t.Apply(Offset{X: r.Right, Y: r.Bottom})
	c := t.Apply(Offset{X: r.Left, Y: r.Bottom})
	d := t.Apply(Offset{X: r.Right, Y: r.Top})
	return RectFromPoints(a, b).Union(RectFromPoints(c, d))
}

// Scale returns the horizontal scale factor.
func (t Transform) Scale() float64 {
	return t[0]
}

// Offset returns the translation component.
func (t Transform) Offset() Offset {
	return Offset{X: t[2], Y: t[5]}
}

// Invert returns the inverse transform and whether t is invertible.
func (t Transform) Invert() (Transform, bool) {
	det := t[0]*t[4] - t[1]*t[3]
	if floatEqual(det, 0) {
		return Transform{}, false
	}
	inv := 1 / det
	return Transform{
		t[4] * inv,
		-t[1] * inv,
		(t[1]*t[5] - t[4]*t[2]) * inv,
		-t[3] * inv,
		t[0] * inv,
		(t[3]*t[2] - t[0]*t[5]) * inv,
	}, true
}

// Aff3 returns t as an x/image affine matrix.
func (t Transform) Aff3() f64.Aff3 {
	return f64.Aff3(t)
}
