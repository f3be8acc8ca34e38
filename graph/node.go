package graph

import (
	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/models"
)

// Highlight is the visual selection state of a node.
type Highlight int

const (
	Normal Highlight = iota
	Highlighted
)

func (h Highlight) String() string {
	if h == Highlighted {
		return "highlighted"
	}
	return "normal"
}

// Node is a disc on the canvas. Only Graph changes a Node; everything else
// reads it through the accessors.
type Node struct {
	position    geom.Vec2
	force       geom.Vec2
	radius      float64
	highlight   Highlight
	ignoreForce bool

	fillColor   string
	borderColor string
}

func newNode(position geom.Vec2) *Node {
	return &Node{
		position:    position,
		radius:      models.DefaultNodeRadius,
		highlight:   Normal,
		fillColor:   models.DefaultFillColor,
		borderColor: models.DefaultBorderColor,
	}
}

// Position returns the node's centre.
func (n *Node) Position() geom.Vec2 { return n.position }

// Force returns the force accumulated so far in the current frame.
func (n *Node) Force() geom.Vec2 { return n.force }

// Radius returns the node's hit and draw radius.
func (n *Node) Radius() float64 { return n.radius }

// Highlight returns the node's highlight state.
func (n *Node) Highlight() Highlight { return n.highlight }

// IgnoresForce reports whether the simulation leaves this node in place.
func (n *Node) IgnoresForce() bool { return n.ignoreForce }

// FillColor returns the node's fill colour.
func (n *Node) FillColor() string { return n.fillColor }

// BorderColor returns the node's border colour.
func (n *Node) BorderColor() string { return n.borderColor }

// Contains reports whether point lies on the node's disc.
func (n *Node) Contains(point geom.Vec2) bool {
	return point.Distance(n.position) <= n.radius
}

func (n *Node) addForce(f geom.Vec2) {
	n.force = n.force.Add(f)
}

// consumeForce moves the node by its accumulated force over dt seconds and
// clears the force. Pinned nodes drop the force without moving.
func (n *Node) consumeForce(dt float64) {
	if !n.ignoreForce && dt > 0 {
		n.position = n.position.Add(n.force.Scale(dt))
	}
	n.force = geom.Zero()
}

func (n *Node) setIgnoreForce(v bool) {
	n.ignoreForce = v
	n.force = geom.Zero()
}

func (n *Node) setPosition(p geom.Vec2) {
	n.position = p
}

func (n *Node) setHighlight(h Highlight) {
	n.highlight = h
}
