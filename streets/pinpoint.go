package streets

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
)

// polylabel returns the pole of inaccessibility of ring: the point deepest
// inside the polygon, farthest from any edge. Adapted from the Mapbox
// polylabel algorithm for picking a street's pin point when no label node
// is available.
func polylabel(ring orb.Ring, precision float64) orb.Point {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range ring {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}

	width := maxX - minX
	height := maxY - minY
	cellSize := math.Min(width, height)
	if cellSize == 0 {
		return orb.Point{minX, minY}
	}
	h := cellSize / 2

	queue := &cellQueue{}
	for x := minX; x < maxX; x += cellSize {
		for y := minY; y < maxY; y += cellSize {
			heap.Push(queue, newCell(x+h, y+h, h, ring))
		}
	}

	best := centroidCell(ring)
	bbox := newCell(minX+width/2, minY+height/2, 0, ring)
	if bbox.d > best.d {
		best = bbox
	}

	for queue.Len() != 0 {
		cell := heap.Pop(queue).(*cell)
		if cell.d > best.d {
			best = cell
		}
		if cell.max-best.d <= precision {
			continue
		}

		h = cell.h / 2
		heap.Push(queue, newCell(cell.x-h, cell.y-h, h, ring))
		heap.Push(queue, newCell(cell.x+h, cell.y-h, h, ring))
		heap.Push(queue, newCell(cell.x-h, cell.y+h, h, ring))
		heap.Push(queue, newCell(cell.x+h, cell.y+h, h, ring))
	}

	return orb.Point{best.x, best.y}
}

type cell struct {
	x, y float64
	h    float64
	d    float64 // distance from cell center to the polygon boundary
	max  float64 // upper bound on distance achievable within this cell
}

func newCell(x, y, h float64, ring orb.Ring) *cell {
	d := distanceToRing(x, y, ring)
	return &cell{x: x, y: y, h: h, d: d, max: d + h*math.Sqrt2}
}

// cellQueue is a max-heap on cell.max, container/heap-backed in place of the
// hand-rolled queue this algorithm is traditionally paired with.
type cellQueue []*cell

func (q cellQueue) Len() int            { return len(q) }
func (q cellQueue) Less(i, j int) bool  { return q[i].max > q[j].max }
func (q cellQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *cellQueue) Push(x interface{}) { *q = append(*q, x.(*cell)) }
func (q *cellQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func distanceToRing(x, y float64, ring orb.Ring) float64 {
	inside := false
	minDistSq := math.MaxFloat64

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a[1] > y) != (b[1] > y) && x < (b[0]-a[0])*(y-a[1])/(b[1]-a[1])+a[0] {
			inside = !inside
		}
		minDistSq = math.Min(minDistSq, segmentDistSq(x, y, a, b))
	}

	if inside {
		return math.Sqrt(minDistSq)
	}
	return -math.Sqrt(minDistSq)
}

func centroidCell(ring orb.Ring) *cell {
	area, x, y := 0.0, 0.0, 0.0
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		f := a[0]*b[1] - b[0]*a[1]
		x += (a[0] + b[0]) * f
		y += (a[1] + b[1]) * f
		area += f * 3
	}
	if area == 0 {
		return newCell(ring[0][0], ring[0][1], 0, ring)
	}
	return newCell(x/area, y/area, 0, ring)
}

func segmentDistSq(px, py float64, a, b orb.Point) float64 {
	x, y := a[0], a[1]
	dx, dy := b[0]-x, b[1]-y

	if dx != 0 || dy != 0 {
		t := ((px-x)*dx + (py-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b[0], b[1]
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = px-x, py-y
	return dx*dx + dy*dy
}

// representativePoint picks a street's pin: if areal parts exist, the
// polylabel point of the largest part's outer ring; else the middle vertex
// of the longest segment.
func representativePoint(areas []orb.Polygon, segments []orb.LineString) orb.Point {
	if len(areas) > 0 {
		largest := areas[0]
		largestArea := ringArea(largest[0])
		for _, poly := range areas[1:] {
			if a := ringArea(poly[0]); a > largestArea {
				largest, largestArea = poly, a
			}
		}
		return polylabel(largest[0], 1.0)
	}

	if len(segments) == 0 {
		return orb.Point{}
	}
	longest := segments[0]
	longestLen := lineLength(longest)
	for _, seg := range segments[1:] {
		if l := lineLength(seg); l > longestLen {
			longest, longestLen = seg, l
		}
	}
	return longest[len(longest)/2]
}

func ringArea(ring orb.Ring) float64 {
	area := 0.0
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		area += ring[j][0]*ring[i][1] - ring[i][0]*ring[j][1]
	}
	return math.Abs(area / 2)
}

func lineLength(ls orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		dx := ls[i][0] - ls[i-1][0]
		dy := ls[i][1] - ls[i-1][1]
		total += math.Hypot(dx, dy)
	}
	return total
}
