package graph

import (
	"time"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/models"
)

// SnapshotOptions controls how a snapshot is taken.
type SnapshotOptions struct {
	Pointer    geom.Vec2
	HasPointer bool // when false nothing is marked hovered
	Directed   bool
}

// Snapshot copies the graph into render-ready values. Edge geometry is
// refreshed as part of the copy.
func (g *Graph) Snapshot(opts SnapshotOptions) models.Snapshot {
	snap := models.Snapshot{
		GraphID:  g.id.String(),
		Directed: opts.Directed,
		Pointer:  opts.Pointer,
		Nodes:    make([]models.NodeView, 0, g.nodes.len()),
		Edges:    make([]models.EdgeView, 0, g.edges.len()),
		TakenAt:  time.Now(),
	}

	for id, n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, models.NodeView{
			ID:          id.String(),
			Position:    n.position,
			Radius:      n.radius,
			FillColor:   n.fillColor,
			BorderColor: n.borderColor,
			BorderWidth: models.DefaultBorderWidth,
			Highlighted: n.highlight == Highlighted,
			Hovered:     opts.HasPointer && n.Contains(opts.Pointer),
			Pinned:      n.ignoreForce,
		})
	}

	for id, e := range g.Edges() {
		geo, ok := g.EdgeGeometry(id)
		if !ok {
			continue
		}
		snap.Edges = append(snap.Edges, models.EdgeView{
			ID:     id.String(),
			Source: e.from.String(),
			Target: e.to.String(),
			From:   geo.From,
			To:     geo.To,
			Arrow: models.Arrow{
				ShaftFrom: geo.ShaftFrom,
				ShaftTo:   geo.ShaftTo,
				Left:      geo.ArrowLeft,
				Right:     geo.ArrowRight,
			},
			Enabled:     e.enabled,
			Color:       models.DefaultEdgeColor,
			Opacity:     e.Opacity(),
			StrokeWidth: StrokeWidth,
		})
	}

	return snap
}
