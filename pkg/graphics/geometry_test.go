package graphics

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := RectFromLTWH(10, 10, 20, 20)
	tests := []struct {
		p    Offset
		want bool
	}{
		{Offset{10, 10}, true},
		{Offset{29.9, 29.9}, true},
		{Offset{30, 15}, false},
		{Offset{9, 15}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(5, 5, 10, 10)
	got := a.Intersect(b)
	want := RectFromLTWH(5, 5, 5, 5)
	if !got.Equal(want) {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
	if !a.Intersect(RectFromLTWH(20, 20, 1, 1)).IsEmpty() {
		t.Error("disjoint Intersect() should be empty")
	}
	if !a.Overlaps(b) {
		t.Error("Overlaps() = false, want true")
	}
}

func TestRectFromPoints(t *testing.T) {
	got := RectFromPoints(Offset{10, 2}, Offset{4, 8})
	want := Rect{Left: 4, Top: 2, Right: 10, Bottom: 8}
	if got != want {
		t.Errorf("RectFromPoints() = %v, want %v", got, want)
	}
}

func TestOffsetDistances(t *testing.T) {
	a, b := Offset{0, 0}, Offset{3, 4}
	if got := a.Distance(b); math.Abs(got-5) > epsilon {
		t.Errorf("Distance() = %v, want 5", got)
	}
	if got := a.Manhattan(b); got != 7 {
		t.Errorf("Manhattan() = %v, want 7", got)
	}
}

func TestTransformApply(t *testing.T) {
	tr := Identity().Translate(10, 0).Then(Scaling(2))
	got := tr.Apply(Offset{1, 1})
	want := Offset{22, 2}
	if got != want {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestTransformScaleAboutKeepsPivot(t *testing.T) {
	pivot := Offset{50, 40}
	tr := Translation(5, 5).ScaleAbout(3, pivot)
	before := Translation(5, 5).Apply(Offset{45, 35})
	after := tr.Apply(Offset{45, 35})
	if before.Distance(pivot) > epsilon || after.Distance(pivot) > epsilon {
		t.Errorf("pivot moved: before %v after %v, want %v", before, after, pivot)
	}
	if tr.Scale() != 3 {
		t.Errorf("Scale() = %v, want 3", tr.Scale())
	}
}

func TestTransformInvert(t *testing.T) {
	tr := Translation(7, -3).ScaleAbout(2.5, Offset{1, 2})
	inv, ok := tr.Invert()
	if !ok {
		t.Fatal("Invert() ok = false, want true")
	}
	p := Offset{13, 21}
	if got := inv.Apply(tr.Apply(p)); got.Distance(p) > epsilon {
		t.Errorf("inverse round trip = %v, want %v", got, p)
	}
	if _, ok := Scaling(0).Invert(); ok {
		t.Error("Invert() of singular transform should fail")
	}
}

func TestTransformApplyRect(t *testing.T) {
	r := Scaling(2).Translate(1, 1).ApplyRect(RectFromLTWH(0, 0, 5, 5))
	want := RectFromLTWH(1, 1, 10, 10)
	if !r.Equal(want) {
		t.Errorf("ApplyRect() = %v, want %v", r, want)
	}
}
