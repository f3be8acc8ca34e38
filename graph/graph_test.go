package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/physics"
)

func newTestGraph() *Graph {
	return New(WithPerturber(physics.NewJitter(1)))
}

var noPush = physics.PushConfig{Force: 0, Distance: 0}

func TestAddNode(t *testing.T) {
	g := newTestGraph()
	id := g.AddNode(geom.V(100, 100))

	require.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, id.IsZero())

	n, ok := g.Node(id)
	require.True(t, ok)
	assert.Equal(t, geom.V(100, 100), n.Position())
	assert.Equal(t, Normal, n.Highlight())
	assert.False(t, n.IgnoresForce())
	assert.Equal(t, geom.Zero(), n.Force())
}

func TestWithID(t *testing.T) {
	id := uuid.New()
	g := New(WithID(id))
	assert.Equal(t, id, g.ID())
	assert.Equal(t, id.String(), g.Snapshot(SnapshotOptions{}).GraphID)
}

func TestRemoveNode_CascadesIncidentEdges(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	c := g.AddNode(geom.V(0, 300))

	_, ok := g.AddEdge(a, b)
	require.True(t, ok)
	_, ok = g.AddEdge(c, a)
	require.True(t, ok)
	bc, ok := g.AddEdge(b, c)
	require.True(t, ok)

	g.RemoveNode(a)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	_, ok = g.Edge(bc)
	assert.True(t, ok, "edge not touching the removed node survives")
	for _, e := range g.Edges() {
		assert.NotEqual(t, a, e.From())
		assert.NotEqual(t, a, e.To())
	}
	assert.Empty(t, g.EdgesOf(a))
}

func TestRemoveNode_UnknownIsNoop(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	g.RemoveNode(a)
	g.RemoveNode(a)
	g.RemoveNode(NodeID{})
	assert.Equal(t, 0, g.NodeCount())
}

func TestRemovedIDNeverAliasesNewNode(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	g.RemoveNode(a)

	b := g.AddNode(geom.V(0, 0))
	assert.NotEqual(t, a, b, "slot is reused under a new generation")
	assert.Equal(t, a.h.index, b.h.index)

	assert.False(t, g.HasNode(a))
	_, ok := g.Node(a)
	assert.False(t, ok)

	found, ok := g.NodeAt(geom.V(0, 0))
	require.True(t, ok)
	assert.Equal(t, b, found)
	assert.NotEqual(t, a, found)

	// Stale ids must not mutate the new occupant.
	g.SetNodePosition(a, geom.V(999, 999))
	g.SetHighlight(a, Highlighted)
	n, _ := g.Node(b)
	assert.Equal(t, geom.V(0, 0), n.Position())
	assert.Equal(t, Normal, n.Highlight())
}

func TestNodeAt_AfterRemovalMisses(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(50, 50))
	g.RemoveNode(a)
	_, ok := g.NodeAt(geom.V(50, 50))
	assert.False(t, ok)
}

func TestNodeAt_FirstInStorageOrder(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	g.AddNode(geom.V(5, 0))

	id, ok := g.NodeAt(geom.V(2, 0))
	require.True(t, ok)
	assert.Equal(t, a, id)
}

func TestAddEdge_MissingEndpointIsNoop(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(10, 0))
	g.RemoveNode(b)

	_, ok := g.AddEdge(a, b)
	assert.False(t, ok)
	_, ok = g.AddEdge(NodeID{}, a)
	assert.False(t, ok)
	assert.Equal(t, 0, g.EdgeCount())
}

func TestAddEdge_RejectsSelfLoopAndDuplicate(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))

	_, ok := g.AddEdge(a, a)
	assert.False(t, ok)

	ab, ok := g.AddEdge(a, b)
	require.True(t, ok)

	dup, ok := g.AddEdge(a, b)
	assert.False(t, ok)
	assert.Equal(t, ab, dup)

	_, ok = g.AddEdge(b, a)
	assert.True(t, ok, "reverse direction is a different edge")
	assert.Equal(t, 2, g.EdgeCount())
}

func TestStep_SymmetricRepulsion(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(10, 0))

	g.Step(1.0, physics.PushConfig{Force: 1000, Distance: 150}, physics.DefaultPull())

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	assert.Greater(t, na.Position().Distance(nb.Position()), 10.0)

	da := na.Position().Sub(geom.V(0, 0))
	db := nb.Position().Sub(geom.V(10, 0))
	assert.InDelta(t, da.X, -db.X, 1e-9)
	assert.InDelta(t, da.Y, -db.Y, 1e-9)
	assert.Less(t, da.X, 0.0)

	assert.Equal(t, geom.Zero(), na.Force(), "force is consumed")
	assert.Equal(t, geom.Zero(), nb.Force())
}

func TestStep_CoincidentNodesSeparate(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(5, 5))
	b := g.AddNode(geom.V(5, 5))

	g.Step(0.01, physics.DefaultPush(), physics.DefaultPull())

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	// Full push of 1000 for 0.01s moves each node 10 apart.
	assert.InDelta(t, 20.0, na.Position().Distance(nb.Position()), 1e-6)
}

func TestStep_PullAlongEdge(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	g.AddEdge(a, b)

	g.Step(0.01, noPush, physics.DefaultPull())

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	// (300/100 - 1) * 500 = 1000, over 0.01s.
	assert.InDelta(t, 10.0, na.Position().X, 1e-9)
	assert.InDelta(t, 290.0, nb.Position().X, 1e-9)
}

func TestStep_DisabledEdgeDoesNotPull(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	e, _ := g.AddEdge(a, b)
	g.SetEdgeEnabled(e, false)

	g.Step(0.01, noPush, physics.DefaultPull())

	na, _ := g.Node(a)
	assert.Equal(t, geom.V(0, 0), na.Position())
	assert.Equal(t, 1, g.EdgeCount(), "disabled edges stay in the graph")
}

func TestStep_ReenabledEdgeBehavesAsNew(t *testing.T) {
	run := func(toggle bool) (geom.Vec2, bool) {
		g := newTestGraph()
		a := g.AddNode(geom.V(0, 0))
		b := g.AddNode(geom.V(300, 0))
		e, _ := g.AddEdge(a, b)
		if toggle {
			g.ToggleEdge(e)
			g.ToggleEdge(e)
		}
		_, hit := g.EdgeAt(geom.V(150, 0))
		g.Step(0.01, noPush, physics.DefaultPull())
		n, _ := g.Node(a)
		return n.Position(), hit
	}

	plain, plainHit := run(false)
	toggled, toggledHit := run(true)
	assert.Equal(t, plain, toggled)
	assert.Equal(t, plainHit, toggledHit)
}

func TestStep_PinnedNodeStays(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(10, 0))
	g.SetIgnoreForce(a, true)

	g.Step(1.0, physics.DefaultPush(), physics.DefaultPull())

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	assert.Equal(t, geom.V(0, 0), na.Position())
	assert.Equal(t, geom.Zero(), na.Force(), "pinned force is discarded")
	assert.Greater(t, nb.Position().X, 10.0, "pinned nodes still push others")
}

func TestStep_ZeroElapsedTime(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	g.AddNode(geom.V(10, 0))

	g.Step(0, physics.DefaultPush(), physics.DefaultPull())

	na, _ := g.Node(a)
	assert.Equal(t, geom.V(0, 0), na.Position())
	assert.Equal(t, geom.Zero(), na.Force())
}

func TestStep_EmptyGraph(t *testing.T) {
	g := newTestGraph()
	assert.NotPanics(t, func() {
		g.Step(1, physics.DefaultPush(), physics.DefaultPull())
	})
}

func TestSetIgnoreForce_ClearsForce(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	n, _ := g.Node(a)
	n.addForce(geom.V(5, 5))

	g.SetIgnoreForce(a, true)
	assert.True(t, n.IgnoresForce())
	assert.Equal(t, geom.Zero(), n.Force())

	g.SetIgnoreForce(a, false)
	assert.False(t, n.IgnoresForce())
}

func TestNodeContainsOwnCentre(t *testing.T) {
	g := newTestGraph()
	for _, p := range []geom.Vec2{geom.V(0, 0), geom.V(-12.5, 88), geom.V(1e6, -1e6)} {
		id := g.AddNode(p)
		n, _ := g.Node(id)
		assert.True(t, n.Contains(p))
		assert.True(t, n.Contains(p.Add(geom.V(n.Radius(), 0))), "rim is inside")
		assert.False(t, n.Contains(p.Add(geom.V(n.Radius()+0.01, 0))))
	}
}

func TestEdgeAt(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	e, _ := g.AddEdge(a, b)

	found, ok := g.EdgeAt(geom.V(150, 0))
	require.True(t, ok)
	assert.Equal(t, e, found)

	_, ok = g.EdgeAt(geom.V(150, 3))
	assert.True(t, ok, "near a horizontal edge")
	_, ok = g.EdgeAt(geom.V(150, 40))
	assert.False(t, ok)
	_, ok = g.EdgeAt(geom.V(400, 0))
	assert.False(t, ok)
}

func TestEdgeGeometry_FollowsMovedEndpoints(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	e, _ := g.AddEdge(a, b)

	geo, ok := g.EdgeGeometry(e)
	require.True(t, ok)
	assert.Equal(t, geom.V(300, 0), geo.To)

	g.SetNodePosition(b, geom.V(0, 300))
	geo, _ = g.EdgeGeometry(e)
	assert.Equal(t, geom.V(0, 300), geo.To)

	_, ok = g.EdgeAt(geom.V(150, 0))
	assert.False(t, ok, "old position no longer hits")
	_, ok = g.EdgeAt(geom.V(0, 150))
	assert.True(t, ok)

	g.RemoveEdge(e)
	_, ok = g.EdgeGeometry(e)
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	g := newTestGraph()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(300, 0))
	e, _ := g.AddEdge(a, b)
	g.SetHighlight(a, Highlighted)
	g.SetEdgeEnabled(e, false)
	g.SetIgnoreForce(b, true)

	snap := g.Snapshot(SnapshotOptions{Pointer: geom.V(300, 5), HasPointer: true, Directed: true})

	require.Len(t, snap.Nodes, 2)
	require.Len(t, snap.Edges, 1)
	assert.True(t, snap.Directed)

	na, ok := snap.FindNode(a.String())
	require.True(t, ok)
	assert.True(t, na.Highlighted)
	assert.False(t, na.Hovered)

	nb, _ := snap.FindNode(b.String())
	assert.True(t, nb.Hovered)
	assert.True(t, nb.Pinned)

	ev := snap.Edges[0]
	assert.Equal(t, a.String(), ev.Source)
	assert.Equal(t, b.String(), ev.Target)
	assert.False(t, ev.Enabled)
	assert.Equal(t, 0.5, ev.Opacity)
	assert.Equal(t, geom.V(300, 0), ev.To)

	none := g.Snapshot(SnapshotOptions{Pointer: geom.V(300, 0)})
	for _, n := range none.Nodes {
		assert.False(t, n.Hovered, "no pointer, no hover")
	}
}
