package pqtree

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func randf(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

func randXY() (x float64, y float64) {
	return randf(0, 100), randf(0, 100)
}

func wp(x, y float64) Point {
	return Point{x, y}
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})
}

func samePoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]Point(nil), a...)
	b = append([]Point(nil), b...)
	sortPoints(a)
	sortPoints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuadrant(t *testing.T) {
	tests := []struct {
		px, py float64
		quad   int
	}{
		{7, 3, NE},
		{7, 7, SE},
		{3, 3, NW},
		{3, 7, SW},
		{5, 3, NW}, // x tie goes west
		{5, 7, SW},
		{7, 5, SE}, // y tie goes south
		{3, 5, SW},
		{5, 5, SW}, // both
	}
	for _, tt := range tests {
		for i := 0; i < 3; i++ {
			if quad := Quadrant(5, 5, tt.px, tt.py); quad != tt.quad {
				t.Fatalf("quadrant(%v,%v) == %d, expect %d", tt.px, tt.py, quad, tt.quad)
			}
		}
	}
}

func TestSimpleSplit(t *testing.T) {
	x1, y1, x2, y2 := SplitRect(NE, 5, 5, 0, 0, 10, 10)
	if x1 != 5 || y1 != 0 || x2 != 10 || y2 != 5 {
		t.Fatalf("failed 1: %f, %f, %f, %f\n", x1, y1, x2, y2)
	}
	x1, y1, x2, y2 = SplitRect(SE, 5, 5, 0, 0, 10, 10)
	if x1 != 5 || y1 != 5 || x2 != 10 || y2 != 10 {
		t.Fatalf("failed 4: %f, %f, %f, %f\n", x1, y1, x2, y2)
	}
	x1, y1, x2, y2 = SplitRect(NW, 5, 5, 0, 0, 10, 10)
	if x1 != 0 || y1 != 0 || x2 != 5 || y2 != 5 {
		t.Fatalf("failed 2: %f, %f, %f, %f\n", x1, y1, x2, y2)
	}
	x1, y1, x2, y2 = SplitRect(SW, 5, 5, 0, 0, 10, 10)
	if x1 != 0 || y1 != 5 || x2 != 5 || y2 != 10 {
		t.Fatalf("failed 3: %f, %f, %f, %f\n", x1, y1, x2, y2)
	}
}

func TestFourQuadrants(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	tr.Insert(wp(7, 3))
	tr.Insert(wp(7, 7))
	tr.Insert(wp(3, 3))
	tr.Insert(wp(3, 7))
	expect := map[int]Point{NE: wp(7, 3), SE: wp(7, 7), NW: wp(3, 3), SW: wp(3, 7)}
	for quad, p := range expect {
		child := tr.Child(quad)
		if child == nil {
			t.Fatalf("quadrant %d is empty", quad)
		}
		if child.Point() != p {
			t.Fatalf("quadrant %d == %v, expect %v", quad, child.Point(), p)
		}
		if child.HasChild(NE) || child.HasChild(NW) || child.HasChild(SW) || child.HasChild(SE) {
			t.Fatalf("quadrant %d must be a leaf", quad)
		}
	}
	if x1, y1, x2, y2 := tr.Child(NE).Rect(); x1 != 5 || y1 != 0 || x2 != 10 || y2 != 5 {
		t.Fatalf("ne rect == %v,%v,%v,%v", x1, y1, x2, y2)
	}
	if x1, y1, x2, y2 := tr.Child(SW).Rect(); x1 != 0 || y1 != 5 || x2 != 5 || y2 != 10 {
		t.Fatalf("sw rect == %v,%v,%v,%v", x1, y1, x2, y2)
	}
	if tr.Child(0) != nil || tr.Child(5) != nil || tr.HasChild(-1) {
		t.Fatal("quadrants outside 1..4 must be empty")
	}
	if size := tr.Size(); size != 5 {
		t.Fatalf("size == %d, expect %d", size, 5)
	}
	found := tr.FindInCircle(5, 5, 3)
	if len(found) != 5 {
		t.Fatalf("found == %d, expect %d", len(found), 5)
	}
	// pre-order, quadrants 1,2,3,4
	order := []Point{wp(5, 5), wp(7, 3), wp(3, 3), wp(3, 7), wp(7, 7)}
	for i, p := range tr.AllPoints() {
		if p != order[i] {
			t.Fatalf("all points[%d] == %v, expect %v", i, p, order[i])
		}
	}
	for i, p := range found {
		if p != order[i] {
			t.Fatalf("found[%d] == %v, expect %v", i, p, order[i])
		}
	}
}

func TestRegionFromParentAnchor(t *testing.T) {
	tr := New(wp(50, 50), 0, 0, 100, 100)
	tr.Insert(wp(80, 20))
	tr.Insert(wp(90, 10))
	tr.Insert(wp(60, 40))
	ne := tr.Child(NE)
	// split at the root anchor, not at the child's bounds
	if x1, y1, x2, y2 := ne.Rect(); x1 != 50 || y1 != 0 || x2 != 100 || y2 != 50 {
		t.Fatalf("ne rect == %v,%v,%v,%v", x1, y1, x2, y2)
	}
	if x1, y1, x2, y2 := ne.Child(NE).Rect(); x1 != 80 || y1 != 0 || x2 != 100 || y2 != 20 {
		t.Fatalf("ne.ne rect == %v,%v,%v,%v", x1, y1, x2, y2)
	}
	if x1, y1, x2, y2 := ne.Child(SW).Rect(); x1 != 50 || y1 != 20 || x2 != 80 || y2 != 50 {
		t.Fatalf("ne.sw rect == %v,%v,%v,%v", x1, y1, x2, y2)
	}
}

func TestDuplicates(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	for i := 0; i < 10; i++ {
		tr.Insert(wp(5, 5))
	}
	if size := tr.Size(); size != 11 {
		t.Fatalf("size == %d, expect %d", size, 11)
	}
	// every copy lands southwest of the one before
	if depth := tr.Depth(); depth != 11 {
		t.Fatalf("depth == %d, expect %d", depth, 11)
	}
	if tr.HasChild(NE) || tr.HasChild(NW) || tr.HasChild(SE) {
		t.Fatal("duplicates must only go southwest")
	}
	if n := len(tr.FindInCircle(5, 5, 0)); n != 11 {
		t.Fatalf("found == %d, expect %d", n, 11)
	}
}

func TestOutsideRegion(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	tr.Insert(wp(-50, 200))
	tr.Insert(wp(1e9, -1e9))
	if size := tr.Size(); size != 3 {
		t.Fatalf("size == %d, expect %d", size, 3)
	}
	if !samePoints(tr.AllPoints(), []Point{wp(5, 5), wp(-50, 200), wp(1e9, -1e9)}) {
		t.Fatalf("all points == %v", tr.AllPoints())
	}
}

func TestInsertCount(t *testing.T) {
	rand.Seed(0)
	root := wp(50, 50)
	tr := New(root, 0, 0, 100, 100)
	l := 10000
	points := []Point{root}
	for i := 0; i < l; i++ {
		p := wp(randXY())
		tr.Insert(p)
		points = append(points, p)
	}
	if size := tr.Size(); size != l+1 {
		t.Fatalf("size == %d, expect %d", size, l+1)
	}
	all := tr.AllPoints()
	if len(all) != l+1 {
		t.Fatalf("all points == %d, expect %d", len(all), l+1)
	}
	if !samePoints(all, points) {
		t.Fatal("all points differ from the inserted points")
	}
}

func TestPermutation(t *testing.T) {
	rand.Seed(1)
	var points []Point
	for i := 0; i < 500; i++ {
		points = append(points, wp(randXY()))
	}
	root := wp(50, 50)
	expect := append([]Point{root}, points...)
	for i := 0; i < 10; i++ {
		rand.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
		tr := New(root, 0, 0, 100, 100)
		for _, p := range points {
			tr.Insert(p)
		}
		if !samePoints(tr.AllPoints(), expect) {
			t.Fatalf("permutation %d: all points differ", i)
		}
		found := tr.FindInCircle(30, 70, 25)
		if !samePoints(found, bruteCircle(expect, 30, 70, 25)) {
			t.Fatalf("permutation %d: circle results differ", i)
		}
	}
}

func bruteCircle(points []Point, cx, cy, cr float64) []Point {
	var res []Point
	for _, p := range points {
		dx, dy := p.X-cx, p.Y-cy
		if dx*dx+dy*dy <= cr*cr {
			res = append(res, p)
		}
	}
	return res
}

func TestFindInCircle(t *testing.T) {
	rand.Seed(2)
	root := wp(50, 50)
	tr := New(root, 0, 0, 100, 100)
	points := []Point{root}
	for i := 0; i < 5000; i++ {
		p := wp(randXY())
		tr.Insert(p)
		points = append(points, p)
	}
	for i := 0; i < 200; i++ {
		cx, cy, cr := randf(-20, 120), randf(-20, 120), randf(0, 40)
		found := tr.FindInCircle(cx, cy, cr)
		expect := bruteCircle(points, cx, cy, cr)
		if !samePoints(found, expect) {
			t.Fatalf("circle(%v,%v,%v): found %d, expect %d", cx, cy, cr, len(found), len(expect))
		}
	}
}

func TestPruning(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	tr.Insert(wp(7, 3))
	tr.Insert(wp(3, 7))
	// (30,30) lies outside the root region
	tr.Insert(wp(30, 30))
	if found := tr.FindInCircle(30, 30, 5); len(found) != 0 {
		t.Fatalf("found == %v, expect nothing", found)
	}
	if found := tr.FindInCircle(-100, -100, 10); len(found) != 0 {
		t.Fatalf("found == %v, expect nothing", found)
	}
	if found := tr.FindInCircle(5, 5, -1); len(found) != 0 {
		t.Fatalf("found == %v, expect nothing", found)
	}
}

func TestBoundary(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	tr.Insert(wp(8, 9))
	found := tr.FindInCircle(5, 5, 5)
	if !samePoints(found, []Point{wp(5, 5), wp(8, 9)}) {
		t.Fatalf("found == %v", found)
	}
	// circle tangent to the root region at (10,5) from outside
	tr = New(wp(10, 5), 0, 0, 10, 10)
	found = tr.FindInCircle(12, 5, 2)
	if len(found) != 1 {
		t.Fatalf("found == %v, expect the anchor on the tangent point", found)
	}
}

func TestSearchStop(t *testing.T) {
	tr := New(wp(50, 50), 0, 0, 100, 100)
	for i := 0; i < 100; i++ {
		tr.Insert(wp(randXY()))
	}
	var count int
	if tr.Search(50, 50, 200, func(item Point) bool {
		count++
		return count < 10
	}) {
		t.Fatal("search must report the early stop")
	}
	if count != 10 {
		t.Fatalf("count == %d, expect %d", count, 10)
	}
	count = 0
	tr.Scan(func(item Point) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("count == %d, expect %d", count, 3)
	}
}

func TestWalk(t *testing.T) {
	tr := New(wp(5, 5), 0, 0, 10, 10)
	tr.Insert(wp(7, 3))
	tr.Insert(wp(8, 1))
	tr.Insert(wp(3, 7))
	var depths []int
	tr.Walk(func(n *Node[Point], depth int) bool {
		depths = append(depths, depth)
		return true
	})
	expect := []int{0, 1, 2, 1}
	if len(depths) != len(expect) {
		t.Fatalf("depths == %v, expect %v", depths, expect)
	}
	for i := range depths {
		if depths[i] != expect[i] {
			t.Fatalf("depths == %v, expect %v", depths, expect)
		}
	}
	if depth := tr.Depth(); depth != 3 {
		t.Fatalf("depth == %d, expect %d", depth, 3)
	}
}

func TestChain(t *testing.T) {
	// monotonic input degenerates into a list
	tr := New(wp(0, 0), -1, -1, 1e6, 1e6)
	l := 100000
	for i := 1; i <= l; i++ {
		tr.Insert(wp(float64(i), float64(i)))
	}
	if size := tr.Size(); size != l+1 {
		t.Fatalf("size == %d, expect %d", size, l+1)
	}
	if depth := tr.Depth(); depth != l+1 {
		t.Fatalf("depth == %d, expect %d", depth, l+1)
	}
	found := tr.FindInCircle(500, 500, math.Sqrt2*10+0.5)
	if len(found) != 21 {
		t.Fatalf("found == %d, expect %d", len(found), 21)
	}
}

type city struct {
	name string
	x, y float64
}

func (c city) Point() (x, y float64) {
	return c.x, c.y
}

func TestCustomItem(t *testing.T) {
	tr := New(city{"hanover", 10, 10}, 0, 0, 100, 100)
	tr.Insert(city{"boston", 40, 12})
	tr.Insert(city{"portland", 30, 2})
	found := tr.FindInCircle(36, 8, 10)
	if len(found) != 2 || found[0].name != "portland" || found[1].name != "boston" {
		t.Fatalf("found == %v", found)
	}
}

func BenchmarkInsert(b *testing.B) {
	rand.Seed(0)
	tr := New(wp(50, 50), 0, 0, 100, 100)
	for i := 0; i < b.N; i++ {
		tr.Insert(wp(randXY()))
	}
	if size := tr.Size(); size != b.N+1 {
		b.Fatalf("size == %d, expect %d", size, b.N+1)
	}
}

func BenchmarkFindInCircle(b *testing.B) {
	rand.Seed(0)
	tr := New(wp(50, 50), 0, 0, 100, 100)
	for i := 0; i < 100000; i++ {
		tr.Insert(wp(randXY()))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, y := randXY()
		tr.FindInCircle(x, y, 1)
	}
}
