package geometry

import (
	"math"
	"math/rand"
	"testing"
)

func TestCircleIntersectsRect(t *testing.T) {
	tests := []struct {
		cx, cy, cr     float64
		x1, y1, x2, y2 float64
		expect         bool
	}{
		{5, 5, 1, 0, 0, 10, 10, true},       // circle inside rect
		{5, 5, 100, 0, 0, 10, 10, true},     // rect inside circle
		{15, 5, 5, 0, 0, 10, 10, true},      // tangent on the east edge
		{15, 5, 4.999, 0, 0, 10, 10, false}, // just short of the east edge
		{13, 14, 5, 0, 0, 10, 10, true},     // tangent on the corner (3,4,5)
		{13, 14, 4.99, 0, 0, 10, 10, false},
		{-1, 5, 1, 0, 0, 10, 10, true},
		{-20, -20, 3, 0, 0, 10, 10, false},
		{5, 5, 0, 0, 0, 10, 10, true},       // zero radius, center inside
		{10, 10, 0, 0, 0, 10, 10, true},     // zero radius on the corner
		{11, 10, 0, 0, 0, 10, 10, false},
		{5, 5, -1, 0, 0, 10, 10, false},     // negative radius
		{5, 5, 1, 10, 10, 0, 0, true},       // swapped corners
		{0, 0, 0, 0, 0, 0, 0, true},         // degenerate rect
	}
	for i, tt := range tests {
		got := CircleIntersectsRect(tt.cx, tt.cy, tt.cr, tt.x1, tt.y1, tt.x2, tt.y2)
		if got != tt.expect {
			t.Fatalf("%d: circle(%v,%v,%v) rect(%v,%v,%v,%v) == %v, expect %v",
				i, tt.cx, tt.cy, tt.cr, tt.x1, tt.y1, tt.x2, tt.y2, got, tt.expect)
		}
	}
}

func TestPointInCircle(t *testing.T) {
	if !PointInCircle(5, 5, 5, 5, 0) {
		t.Fatal("center must be inside a zero radius circle")
	}
	if !PointInCircle(8, 9, 5, 5, 5) {
		t.Fatal("boundary point (3,4,5) must be inside")
	}
	if PointInCircle(8, 9.001, 5, 5, 5) {
		t.Fatal("point past the boundary must be outside")
	}
	if PointInCircle(5, 5, 5, 5, -1) {
		t.Fatal("negative radius must contain nothing")
	}
	if !PointInCircle(7, 3, 5, 5, 3) {
		t.Fatal("(7,3) is sqrt(8) from (5,5)")
	}
}

func TestExtremeMagnitudes(t *testing.T) {
	if PointInCircle(1e300, 0, 0, 0, 1e200) {
		t.Fatal("(1e300,0) is far outside a 1e200 radius")
	}
	if !PointInCircle(1e300, 0, 0, 0, 1e300) {
		t.Fatal("(1e300,0) is on the boundary of a 1e300 radius")
	}
	if PointInCircle(1e-190, 0, 0, 0, 1e-200) {
		t.Fatal("(1e-190,0) is far outside a 1e-200 radius")
	}
	if !PointInCircle(1e-200, 0, 0, 0, 1e-190) {
		t.Fatal("(1e-200,0) is inside a 1e-190 radius")
	}
	if CircleIntersectsRect(0, 0, 1e200, 1e300, 1e300, 2e300, 2e300) {
		t.Fatal("rect at 1e300 is far outside a 1e200 radius")
	}
	if CircleIntersectsRect(0, 0, 1e-200, 1e-190, 1e-190, 2e-190, 2e-190) {
		t.Fatal("rect at 1e-190 is far outside a 1e-200 radius")
	}
	if !CircleIntersectsRect(0, 0, 2e300, 1e300, 1e300, 2e300, 2e300) {
		t.Fatal("rect corner at sqrt(2)*1e300 is inside a 2e300 radius")
	}
}

func TestPointImpliesRect(t *testing.T) {
	rand.Seed(0)
	for i := 0; i < 10000; i++ {
		px, py := rand.Float64()*100, rand.Float64()*100
		cx, cy, cr := rand.Float64()*120-10, rand.Float64()*120-10, rand.Float64()*30
		if PointInCircle(px, py, cx, cy, cr) {
			// any rect holding the point must intersect the circle
			if !CircleIntersectsRect(cx, cy, cr, px-1, py-1, px+1, py+1) {
				t.Fatalf("point (%v,%v) in circle(%v,%v,%v) but its rect does not intersect", px, py, cx, cy, cr)
			}
			if !CircleIntersectsRect(cx, cy, cr, px, py, px, py) {
				t.Fatalf("point (%v,%v) in circle(%v,%v,%v) but its empty rect does not intersect", px, py, cx, cy, cr)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(5, 5, 8, 9); d != 5 {
		t.Fatalf("d == %v, expect %v", d, 5.0)
	}
	if d := Distance(5, 5, 7, 3); math.Abs(d-math.Sqrt(8)) > 1e-12 {
		t.Fatalf("d == %v, expect %v", d, math.Sqrt(8))
	}
}

func BenchmarkCircleIntersectsRect(b *testing.B) {
	for i := 0; i < b.N; i++ {
		CircleIntersectsRect(float64(i%100), 50, 10, 20, 20, 80, 80)
	}
}
