package collection

import (
	"time"
	"unsafe"

	"github.com/zycbobby/pqtree/geometry"
	"github.com/zycbobby/pqtree/index/pqtree"
)

// Point is a stored point. The id is a free label, it is not unique.
type Point struct {
	ID   string
	X, Y float64
}

// Point returns the coordinates.
func (p Point) Point() (x, y float64) {
	return p.X, p.Y
}

// Collection represents one point quadtree.
type Collection struct {
	root    *pqtree.Node[Point]
	created time.Time
	points  int
	weight  int
}

var nodeSize = int(unsafe.Sizeof(pqtree.Node[Point]{}))

// New creates a collection whose root is anchored at point and covers
// (x1,y1)-(x2,y2).
func New(point Point, x1, y1, x2, y2 float64) *Collection {
	c := &Collection{
		root:    pqtree.New(point, x1, y1, x2, y2),
		created: time.Now(),
	}
	c.account(point)
	return c
}

func (c *Collection) account(point Point) {
	c.points++
	c.weight += nodeSize + len(point.ID)
}

// Insert adds a point.
func (c *Collection) Insert(point Point) {
	c.root.Insert(point)
	c.account(point)
}

// Root returns the root node.
func (c *Collection) Root() *pqtree.Node[Point] {
	return c.root
}

// Created returns the creation time.
func (c *Collection) Created() time.Time {
	return c.created
}

// Count returns the number of points inserted so far without walking the tree.
func (c *Collection) Count() int {
	return c.points
}

// TotalWeight estimates the in-memory cost of the collection in bytes.
func (c *Collection) TotalWeight() int {
	return c.weight
}

// Size walks the tree and counts its points.
func (c *Collection) Size() int {
	return c.root.Size()
}

// Depth returns the number of levels of the tree.
func (c *Collection) Depth() int {
	return c.root.Depth()
}

// Bounds returns the root rectangle.
func (c *Collection) Bounds() (x1, y1, x2, y2 float64) {
	return c.root.Rect()
}

// Points returns every point in pre-order.
func (c *Collection) Points() []Point {
	return c.root.AllPoints()
}

// Nearby iterates over the points within radius r of (x,y), along with their
// distance to the center.
func (c *Collection) Nearby(x, y, r float64, iterator func(point Point, dist float64) bool) bool {
	return c.root.Search(x, y, r, func(point Point) bool {
		return iterator(point, geometry.Distance(x, y, point.X, point.Y))
	})
}

// NodeInfo describes one node for visualization.
type NodeInfo struct {
	Depth          int
	Point          Point
	X1, Y1, X2, Y2 float64
	Quadrants      []int
}

// Nodes iterates over every node in pre-order.
func (c *Collection) Nodes(iterator func(info NodeInfo) bool) bool {
	return c.root.Walk(func(n *pqtree.Node[Point], depth int) bool {
		info := NodeInfo{Depth: depth, Point: n.Point()}
		info.X1, info.Y1, info.X2, info.Y2 = n.Rect()
		for q := pqtree.NE; q <= pqtree.SE; q++ {
			if n.HasChild(q) {
				info.Quadrants = append(info.Quadrants, q)
			}
		}
		return iterator(info)
	})
}
