// Package models defines the render-ready view of an editor frame. A Snapshot
// is what the rendering collaborator receives: plain values with no way back
// into the live graph.
package models

import (
	"time"

	"github.com/TFMV/forcepad/geom"
)

// Default node and edge appearance.
const (
	DefaultNodeRadius   = 20.0
	DefaultBorderWidth  = 4.0
	DefaultStrokeWidth  = 5.0
	DefaultFillColor    = "#FFFFFF"
	DefaultBorderColor  = "#000000"
	DefaultEdgeColor    = "#000000"
	DefaultBackground   = "#6495ED"
	HighlightScale      = 1.1
	DisabledEdgeOpacity = 0.5
)

// NodeView is a node as the renderer sees it.
type NodeView struct {
	ID          string    `json:"id"`
	Position    geom.Vec2 `json:"position"`
	Radius      float64   `json:"radius"`
	FillColor   string    `json:"fill_color"`
	BorderColor string    `json:"border_color"`
	BorderWidth float64   `json:"border_width"`
	Highlighted bool      `json:"highlighted"`
	Hovered     bool      `json:"hovered"`
	Pinned      bool      `json:"pinned"` // ignoring simulation forces, e.g. while dragged
}

// Scale returns the draw scale for the node.
func (n NodeView) Scale() float64 {
	if n.Highlighted || n.Hovered {
		return HighlightScale
	}
	return 1
}

// Arrow is the pre-computed geometry of a directed edge's arrow.
type Arrow struct {
	ShaftFrom geom.Vec2 `json:"shaft_from"`
	ShaftTo   geom.Vec2 `json:"shaft_to"`
	Left      geom.Vec2 `json:"left"`
	Right     geom.Vec2 `json:"right"`
}

// EdgeView is an edge as the renderer sees it.
type EdgeView struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Target      string    `json:"target"`
	From        geom.Vec2 `json:"from"`
	To          geom.Vec2 `json:"to"`
	Arrow       Arrow     `json:"arrow"`
	Enabled     bool      `json:"enabled"`
	Color       string    `json:"color"`
	Opacity     float64   `json:"opacity"`
	StrokeWidth float64   `json:"stroke_width"`
}

// Snapshot is one frame of the editor.
type Snapshot struct {
	GraphID  string     `json:"graph_id"`
	Frame    uint64     `json:"frame"`
	Mode     string     `json:"mode"`
	Directed bool       `json:"directed"`
	Pointer  geom.Vec2  `json:"pointer"`
	Nodes    []NodeView `json:"nodes"`
	Edges    []EdgeView `json:"edges"`
	TakenAt  time.Time  `json:"taken_at"`
}
