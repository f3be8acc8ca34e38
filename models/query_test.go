package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TFMV/forcepad/geom"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Nodes: []NodeView{
			{ID: "a", Position: geom.V(0, 0), Radius: 20},
			{ID: "b", Position: geom.V(100, 50), Radius: 20, Highlighted: true},
			{ID: "c", Position: geom.V(-40, 10), Radius: 10},
		},
		Edges: []EdgeView{
			{ID: "ab", Source: "a", Target: "b", Enabled: true},
			{ID: "cb", Source: "c", Target: "b"},
		},
	}
}

func TestSnapshot_Find(t *testing.T) {
	s := sampleSnapshot()

	n, ok := s.FindNode("b")
	assert.True(t, ok)
	assert.True(t, n.Highlighted)

	_, ok = s.FindNode("zz")
	assert.False(t, ok)

	e, ok := s.FindEdge("cb")
	assert.True(t, ok)
	assert.False(t, e.Enabled)
}

func TestSnapshot_Adjacency(t *testing.T) {
	s := sampleSnapshot()
	assert.Len(t, s.IncomingEdges("b"), 2)
	assert.Len(t, s.OutgoingEdges("a"), 1)
	assert.Empty(t, s.OutgoingEdges("b"))
}

func TestSnapshot_Bounds(t *testing.T) {
	s := sampleSnapshot()
	minX, minY, maxX, maxY := s.Bounds()
	assert.Equal(t, -50.0, minX)
	assert.Equal(t, -20.0, minY)
	assert.InDelta(t, 122.0, maxX, 1e-9) // 100 + 20*1.1
	assert.InDelta(t, 72.0, maxY, 1e-9)

	var empty Snapshot
	minX, minY, maxX, maxY = empty.Bounds()
	assert.Zero(t, minX+minY+maxX+maxY)
}

func TestNodeView_Scale(t *testing.T) {
	assert.Equal(t, 1.0, NodeView{}.Scale())
	assert.Equal(t, HighlightScale, NodeView{Hovered: true}.Scale())
	assert.Equal(t, HighlightScale, NodeView{Highlighted: true}.Scale())
}
