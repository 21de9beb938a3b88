// Package pqtree implements a point quadtree.
//
// Every node anchors exactly one item and owns up to four children, one per
// quadrant around the anchor. A child's region is its parent's region split at
// the parent anchor, so regions nest but are not tight bounds. The tree is
// never rebalanced; its shape follows insertion order.
//
// A Node is not safe for concurrent use.
package pqtree

import "github.com/zycbobby/pqtree/geometry"

// Item is a pqtree item
type Item interface {
	comparable
	Point() (x, y float64)
}

// Point is point
type Point struct {
	X, Y float64
}

// Point returns the point
func (item Point) Point() (x, y float64) {
	return item.X, item.Y
}

// Quadrants, numbered counter-clockwise from the northeast. North is toward
// smaller y.
const (
	NE = 1
	NW = 2
	SW = 3
	SE = 4
)

// Node is a point quadtree node. The root is the tree.
type Node[T Item] struct {
	point          T
	x1, y1, x2, y2 float64
	nodes          [4]*Node[T]
}

// New creates a leaf anchored at point, covering the rectangle (x1,y1)-(x2,y2).
// The rectangle is not validated and the point need not lie inside it.
func New[T Item](point T, x1, y1, x2, y2 float64) *Node[T] {
	return &Node[T]{point: point, x1: x1, y1: y1, x2: x2, y2: y2}
}

// Point returns the anchor item.
func (n *Node[T]) Point() T {
	return n.point
}

// Rect returns the upper-left and lower-right corners of the node region.
func (n *Node[T]) Rect() (x1, y1, x2, y2 float64) {
	return n.x1, n.y1, n.x2, n.y2
}

// Child returns the child at quadrant 1 through 4, or nil.
func (n *Node[T]) Child(quadrant int) *Node[T] {
	if quadrant < NE || quadrant > SE {
		return nil
	}
	return n.nodes[quadrant-1]
}

// HasChild returns true if there is a child at quadrant 1 through 4.
func (n *Node[T]) HasChild(quadrant int) bool {
	return n.Child(quadrant) != nil
}

// Quadrant classifies (px,py) against an anchor at (ax,ay). A tie in x goes
// west and a tie in y goes south.
func Quadrant(ax, ay, px, py float64) int {
	if px > ax {
		if py < ay {
			return NE
		}
		return SE
	}
	if py < ay {
		return NW
	}
	return SW
}

// SplitRect returns the region of the given quadrant when (x1,y1)-(x2,y2) is
// split at (ax,ay).
func SplitRect(quadrant int, ax, ay, x1, y1, x2, y2 float64) (nx1, ny1, nx2, ny2 float64) {
	switch quadrant {
	case NE:
		return ax, y1, x2, ay
	case NW:
		return x1, y1, ax, ay
	case SW:
		return x1, ay, ax, y2
	default:
		return ax, ay, x2, y2
	}
}

// Insert inserts an item into the tree. Items with equal coordinates are
// accepted and follow the same path.
func (n *Node[T]) Insert(item T) {
	px, py := item.Point()
	for {
		ax, ay := n.point.Point()
		quad := Quadrant(ax, ay, px, py)
		child := n.nodes[quad-1]
		if child == nil {
			x1, y1, x2, y2 := SplitRect(quad, ax, ay, n.x1, n.y1, n.x2, n.y2)
			n.nodes[quad-1] = New(item, x1, y1, x2, y2)
			return
		}
		n = child
	}
}

// Size returns the number of items in the tree, counting this node.
func (n *Node[T]) Size() int {
	count := 1
	for _, child := range n.nodes {
		if child != nil {
			count += child.Size()
		}
	}
	return count
}

// Depth returns the number of levels in the tree. A leaf has depth 1.
func (n *Node[T]) Depth() int {
	var max int
	for _, child := range n.nodes {
		if child != nil {
			if d := child.Depth(); d > max {
				max = d
			}
		}
	}
	return max + 1
}

// AllPoints returns every item in pre-order, children in quadrant order.
func (n *Node[T]) AllPoints() []T {
	var items []T
	n.Scan(func(item T) bool {
		items = append(items, item)
		return true
	})
	return items
}

// Scan iterates over every item in the same order as AllPoints. Returning
// false from the iterator stops the scan.
func (n *Node[T]) Scan(iter func(item T) bool) bool {
	return n.Walk(func(node *Node[T], depth int) bool {
		return iter(node.point)
	})
}

// Walk visits every node in pre-order with its depth, starting at 0.
func (n *Node[T]) Walk(iter func(node *Node[T], depth int) bool) bool {
	return walk(n, 0, iter)
}

func walk[T Item](n *Node[T], depth int, iter func(node *Node[T], depth int) bool) bool {
	if !iter(n, depth) {
		return false
	}
	for _, child := range n.nodes {
		if child != nil {
			if !walk(child, depth+1, iter) {
				return false
			}
		}
	}
	return true
}

// FindInCircle returns the items within distance cr of (cx,cy). Subtrees
// whose region misses the circle are skipped.
func (n *Node[T]) FindInCircle(cx, cy, cr float64) []T {
	var items []T
	n.Search(cx, cy, cr, func(item T) bool {
		items = append(items, item)
		return true
	})
	return items
}

// Search iterates over the items within distance cr of (cx,cy) in the same
// order as FindInCircle.
func (n *Node[T]) Search(cx, cy, cr float64, iter func(item T) bool) bool {
	if !geometry.CircleIntersectsRect(cx, cy, cr, n.x1, n.y1, n.x2, n.y2) {
		return true
	}
	x, y := n.point.Point()
	if geometry.PointInCircle(x, y, cx, cy, cr) {
		if !iter(n.point) {
			return false
		}
	}
	for _, child := range n.nodes {
		if child != nil {
			if !child.Search(cx, cy, cr, iter) {
				return false
			}
		}
	}
	return true
}
