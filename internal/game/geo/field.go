package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/udisondev/arenaai/internal/model"
)

// Field is an obstacle layer made of polygons (walls, rocks, pillars).
// Read-only after construction; safe for concurrent Blocked calls.
type Field struct {
	polygons []orb.Polygon
	bounds   []orb.Bound
}

// NewField creates an obstacle field from polygons.
func NewField(polygons ...orb.Polygon) *Field {
	f := &Field{}
	for _, p := range polygons {
		f.Add(p)
	}
	return f
}

// Add appends a polygon. Rings are closed automatically.
func (f *Field) Add(p orb.Polygon) {
	for i, ring := range p {
		if len(ring) > 0 && !ring.Closed() {
			p[i] = append(ring, ring[0])
		}
	}
	f.polygons = append(f.polygons, p)
	f.bounds = append(f.bounds, p.Bound())
}

// Rect adds an axis-aligned rectangular obstacle.
func (f *Field) Rect(minX, minY, maxX, maxY float64) {
	f.Add(orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

// Len returns the number of polygons.
func (f *Field) Len() int {
	return len(f.polygons)
}

// Solid reports whether a point lies inside any polygon.
func (f *Field) Solid(p model.Vec2) bool {
	pt := orb.Point{p.X, p.Y}
	for i, poly := range f.polygons {
		if f.bounds[i].Contains(pt) && planar.PolygonContains(poly, pt) {
			return true
		}
	}
	return false
}

// Blocked reports whether the segment from -> to crosses or starts inside any polygon.
func (f *Field) Blocked(from, to model.Vec2) bool {
	a := orb.Point{from.X, from.Y}
	b := orb.Point{to.X, to.Y}
	seg := orb.LineString{a, b}.Bound()

	for i, poly := range f.polygons {
		if !f.bounds[i].Intersects(seg) {
			continue
		}
		if planar.PolygonContains(poly, a) || planar.PolygonContains(poly, b) {
			return true
		}
		for _, ring := range poly {
			for j := 0; j+1 < len(ring); j++ {
				if segmentsIntersect(a, b, ring[j], ring[j+1]) {
					return true
				}
			}
		}
	}
	return false
}

// segmentsIntersect tests p1p2 against q1q2, touching endpoints included.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
