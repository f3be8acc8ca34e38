package graph

import (
	"math"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/models"
	"github.com/TFMV/forcepad/physics"
)

const (
	// StrokeWidth is the drawn width of an edge.
	StrokeWidth = models.DefaultStrokeWidth

	arrowScale    = 0.7
	arrowArmsSize = 25.0
	arrowArmAngle = math.Pi * 3 / 4

	// hitTolerance is how far from the centre line a point still hits the
	// edge: one and a half times the stroke half-width.
	hitTolerance = 1.5 * StrokeWidth / 2
)

// Geometry is an edge's shape derived from its endpoint positions.
type Geometry struct {
	From geom.Vec2
	To   geom.Vec2

	// The arrow shaft covers the middle part of the segment; the arms fan
	// back from ShaftTo.
	ShaftFrom  geom.Vec2
	ShaftTo    geom.Vec2
	ArrowLeft  geom.Vec2
	ArrowRight geom.Vec2
}

// NewGeometry computes the geometry of an edge between from and to.
func NewGeometry(from, to geom.Vec2) Geometry {
	shaftFrom := geom.Lerp(from, to, (1-arrowScale)/2)
	shaftTo := geom.Lerp(from, to, (1+arrowScale)/2)
	dir := shaftTo.Sub(shaftFrom)

	return Geometry{
		From:       from,
		To:         to,
		ShaftFrom:  shaftFrom,
		ShaftTo:    shaftTo,
		ArrowLeft:  dir.Rotated(arrowArmAngle).Normalized().Scale(arrowArmsSize).Add(shaftTo),
		ArrowRight: dir.Rotated(-arrowArmAngle).Normalized().Scale(arrowArmsSize).Add(shaftTo),
	}
}

// Contains reports whether point lies on the edge's stroke.
//
// The point must first fall inside the rectangle spanned by the endpoints,
// grown by the tolerance on every side, otherwise any point on the infinite
// line through them would match. Then the
// area of the triangle (from, to, point) is compared with the area at the
// tolerance distance, which bounds the perpendicular distance without a
// square root. Endpoints are put in a fixed order first so that swapping them
// gives bit-identical results.
func (g Geometry) Contains(point geom.Vec2) bool {
	lo := geom.V(math.Min(g.From.X, g.To.X)-hitTolerance, math.Min(g.From.Y, g.To.Y)-hitTolerance)
	hi := geom.V(math.Max(g.From.X, g.To.X)+hitTolerance, math.Max(g.From.Y, g.To.Y)+hitTolerance)
	if !point.Within(lo, hi) {
		return false
	}

	a, b := g.From, g.To
	if b.Less(a) {
		a, b = b, a
	}

	offset := b.Sub(a).Normalized().Rotated(math.Pi / 2).Scale(hitTolerance)
	maxArea := geom.TriangleArea(a, b, a.Add(offset))

	return geom.TriangleArea(a, b, point) <= maxArea
}

// Edge is a directed connection between two nodes.
type Edge struct {
	from    NodeID
	to      NodeID
	enabled bool

	cache  Geometry
	cached bool
}

func newEdge(from, to NodeID) *Edge {
	return &Edge{from: from, to: to, enabled: true}
}

// From returns the source node.
func (e *Edge) From() NodeID { return e.from }

// To returns the target node.
func (e *Edge) To() NodeID { return e.to }

// Enabled reports whether the edge takes part in the simulation.
func (e *Edge) Enabled() bool { return e.enabled }

// Opacity is the draw opacity; disabled edges are drawn faded.
func (e *Edge) Opacity() float64 {
	if e.enabled {
		return 1
	}
	return models.DisabledEdgeOpacity
}

func (e *Edge) touches(id NodeID) bool {
	return e.from == id || e.to == id
}

// geometry returns the cached geometry, rebuilding it whenever the endpoint
// positions differ from the ones it was built from.
func (e *Edge) geometry(from, to geom.Vec2) Geometry {
	if !e.cached || e.cache.From != from || e.cache.To != to {
		e.cache = NewGeometry(from, to)
		e.cached = true
	}
	return e.cache
}

// pullForce is the force on the source node; the target gets its negation.
func (e *Edge) pullForce(from, to geom.Vec2, cfg physics.PullConfig) geom.Vec2 {
	if !e.enabled {
		return geom.Zero()
	}
	return physics.Pull(from, to, cfg)
}

func (e *Edge) setEnabled(v bool) {
	e.enabled = v
}
