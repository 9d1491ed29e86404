package ecs

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// SpatialHit is one entity returned by a spatial query.
type SpatialHit struct {
	Entity   Entity
	Centre   common.Point
	Distance float64 // centre to query centre
}

// SpatialIndex answers circle queries over entity hit circles. It is backed
// by a Chipmunk space holding one static circle per entity; nothing is ever
// stepped, the space is only used for its bounding-box tree.
type SpatialIndex struct {
	space  *cp.Space
	shapes map[Entity]*cp.Shape
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		space:  cp.NewSpace(),
		shapes: make(map[Entity]*cp.Shape),
	}
}

// Insert places e at centre with the given hit radius, replacing any
// previous entry for e.
func (s *SpatialIndex) Insert(e Entity, centre common.Point, radius float64) {
	if s == nil || s.space == nil || !e.Valid() {
		return
	}
	s.Remove(e)
	if radius < 0 {
		radius = 0
	}
	shape := cp.NewCircle(s.space.StaticBody, radius, cp.Vector{X: centre.X, Y: centre.Y})
	shape.UserData = e
	s.space.AddShape(shape)
	s.shapes[e] = shape
}

// Remove drops e from the index.
func (s *SpatialIndex) Remove(e Entity) {
	if s == nil || s.space == nil {
		return
	}
	shape, ok := s.shapes[e]
	if !ok {
		return
	}
	s.space.RemoveShape(shape)
	delete(s.shapes, e)
}

// Len returns the number of indexed entities.
func (s *SpatialIndex) Len() int {
	if s == nil {
		return 0
	}
	return len(s.shapes)
}

// QueryCircle returns every entity whose hit circle overlaps the circle at
// centre, nearest first with ties broken by handle.
func (s *SpatialIndex) QueryCircle(centre common.Point, radius float64) []SpatialHit {
	if s == nil || s.space == nil || len(s.shapes) == 0 || radius < 0 {
		return nil
	}
	p := cp.Vector{X: centre.X, Y: centre.Y}
	var hits []SpatialHit
	s.space.BBQuery(cp.NewBBForCircle(p, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(Entity)
		if !ok {
			return
		}
		info := shape.PointQuery(p)
		if info.Distance > radius {
			return
		}
		c := shapeCentre(shape)
		hits = append(hits, SpatialHit{Entity: e, Centre: c, Distance: centre.DistanceTo(c)})
	}, nil)
	SortHits(hits)
	return hits
}

// Nearest returns the closest entity within maxDistance accepted by keep.
func (s *SpatialIndex) Nearest(centre common.Point, maxDistance float64, keep func(Entity) bool) (SpatialHit, bool) {
	for _, hit := range s.QueryCircle(centre, maxDistance) {
		if keep == nil || keep(hit.Entity) {
			return hit, true
		}
	}
	return SpatialHit{}, false
}

// SortHits orders hits nearest first, then by ascending handle.
func SortHits(hits []SpatialHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Entity < hits[j].Entity
	})
}

func shapeCentre(shape *cp.Shape) common.Point {
	if circle, ok := shape.Class.(*cp.Circle); ok {
		c := circle.TransformC()
		return common.Point{X: c.X, Y: c.Y}
	}
	bb := shape.BB()
	return common.Point{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}
