// Package graph holds the editor's directed graph and its force simulation.
//
// Graph is the only mutator of nodes and edges. Operations that reference a
// node or edge which no longer exists are silent no-ops: pointer input
// routinely lands on targets that were just removed.
package graph

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/physics"
)

// Graph owns all nodes and edges.
type Graph struct {
	id     uuid.UUID
	nodes  arena[Node]
	edges  arena[Edge]
	jitter physics.Perturber
}

// Option configures a Graph.
type Option func(*Graph)

// WithPerturber sets the source of tie-breaking directions for coincident
// nodes. Pass a seeded physics.Jitter for reproducible layouts.
func WithPerturber(p physics.Perturber) Option {
	return func(g *Graph) {
		g.jitter = p
	}
}

// WithID fixes the graph's identity.
func WithID(id uuid.UUID) Option {
	return func(g *Graph) {
		g.id = id
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:    uuid.New(),
		nodes: newArena[Node](),
		edges: newArena[Edge](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.jitter == nil {
		g.jitter = physics.NewJitter(time.Now().UnixNano())
	}
	return g
}

// ID returns the graph's identity.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// AddNode inserts a node at position.
func (g *Graph) AddNode(position geom.Vec2) NodeID {
	return NodeID{g.nodes.insert(newNode(position))}
}

// RemoveNode removes a node together with every edge that starts or ends at
// it. Unknown ids are ignored.
func (g *Graph) RemoveNode(id NodeID) {
	if _, ok := g.nodes.get(id.h); !ok {
		return
	}
	for _, eid := range g.EdgesOf(id) {
		g.edges.remove(eid.h)
	}
	g.nodes.remove(id.h)
}

// AddEdge connects from to to. It reports false and adds nothing when either
// endpoint is missing, when from and to are the same node, or when the
// ordered pair is already connected; in the last case the existing edge's
// id is returned.
func (g *Graph) AddEdge(from, to NodeID) (EdgeID, bool) {
	if !g.HasNode(from) || !g.HasNode(to) || from == to {
		return EdgeID{}, false
	}
	for h, e := range g.edges.all() {
		if e.from == from && e.to == to {
			return EdgeID{h}, false
		}
	}
	return EdgeID{g.edges.insert(newEdge(from, to))}, true
}

// RemoveEdge removes an edge. Unknown ids are ignored.
func (g *Graph) RemoveEdge(id EdgeID) {
	g.edges.remove(id.h)
}

// HasNode reports whether id refers to a live node.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes.get(id.h)
	return ok
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	return g.nodes.get(id.h)
}

// Edge returns the edge for id.
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	return g.edges.get(id.h)
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	return g.nodes.len()
}

// EdgeCount returns the number of live edges, enabled or not.
func (g *Graph) EdgeCount() int {
	return g.edges.len()
}

// Nodes iterates over live nodes in storage order.
func (g *Graph) Nodes() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		for h, n := range g.nodes.all() {
			if !yield(NodeID{h}, n) {
				return
			}
		}
	}
}

// Edges iterates over live edges in storage order.
func (g *Graph) Edges() iter.Seq2[EdgeID, *Edge] {
	return func(yield func(EdgeID, *Edge) bool) {
		for h, e := range g.edges.all() {
			if !yield(EdgeID{h}, e) {
				return
			}
		}
	}
}

// EdgesOf returns every edge that starts or ends at id.
func (g *Graph) EdgesOf(id NodeID) []EdgeID {
	var result []EdgeID
	for eid, e := range g.Edges() {
		if e.touches(id) {
			result = append(result, eid)
		}
	}
	return result
}

// NodeAt returns the first node, in storage order, whose disc contains point.
func (g *Graph) NodeAt(point geom.Vec2) (NodeID, bool) {
	for id, n := range g.Nodes() {
		if n.Contains(point) {
			return id, true
		}
	}
	return NodeID{}, false
}

// EdgeAt returns the first edge, in storage order, whose stroke contains
// point.
func (g *Graph) EdgeAt(point geom.Vec2) (EdgeID, bool) {
	for id := range g.Edges() {
		geo, ok := g.EdgeGeometry(id)
		if ok && geo.Contains(point) {
			return id, true
		}
	}
	return EdgeID{}, false
}

// EdgeGeometry returns the edge's geometry for the current endpoint
// positions.
func (g *Graph) EdgeGeometry(id EdgeID) (Geometry, bool) {
	e, ok := g.edges.get(id.h)
	if !ok {
		return Geometry{}, false
	}
	from, okFrom := g.nodes.get(e.from.h)
	to, okTo := g.nodes.get(e.to.h)
	if !okFrom || !okTo {
		return Geometry{}, false
	}
	return e.geometry(from.position, to.position), true
}

// SetNodePosition moves a node.
func (g *Graph) SetNodePosition(id NodeID, p geom.Vec2) {
	if n, ok := g.nodes.get(id.h); ok {
		n.setPosition(p)
	}
}

// SetIgnoreForce pins or releases a node. Either way, any force accumulated
// so far is dropped.
func (g *Graph) SetIgnoreForce(id NodeID, v bool) {
	if n, ok := g.nodes.get(id.h); ok {
		n.setIgnoreForce(v)
	}
}

// SetHighlight sets a node's highlight state.
func (g *Graph) SetHighlight(id NodeID, h Highlight) {
	if n, ok := g.nodes.get(id.h); ok {
		n.setHighlight(h)
	}
}

// SetEdgeEnabled enables or disables an edge. Disabled edges stay in the
// graph but exert no pull.
func (g *Graph) SetEdgeEnabled(id EdgeID, v bool) {
	if e, ok := g.edges.get(id.h); ok {
		e.setEnabled(v)
	}
}

// ToggleEdge flips an edge between enabled and disabled.
func (g *Graph) ToggleEdge(id EdgeID) {
	if e, ok := g.edges.get(id.h); ok {
		e.setEnabled(!e.enabled)
	}
}

// Step advances the simulation by dt seconds.
//
// Every unordered pair of nodes repels and every enabled edge pulls its
// endpoints together; each force is computed once and applied with opposite
// signs to the two nodes. Nodes then move by force*dt, except pinned nodes,
// which drop their force.
func (g *Graph) Step(dt float64, push physics.PushConfig, pull physics.PullConfig) {
	nodes := make([]*Node, 0, g.nodes.len())
	for _, n := range g.nodes.all() {
		nodes = append(nodes, n)
	}

	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			f := physics.Push(a.position, b.position, push, g.jitter)
			a.addForce(f)
			b.addForce(f.Neg())
		}
	}

	for _, e := range g.edges.all() {
		from, okFrom := g.nodes.get(e.from.h)
		to, okTo := g.nodes.get(e.to.h)
		if !okFrom || !okTo {
			continue
		}
		f := e.pullForce(from.position, to.position, pull)
		from.addForce(f)
		to.addForce(f.Neg())
	}

	for _, n := range nodes {
		n.consumeForce(dt)
	}
}
