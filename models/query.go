package models

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *NodeView) bool

// EdgeFilter is a function type used to filter edges in queries
type EdgeFilter func(edge *EdgeView) bool

// FindNode returns the node with the given id.
func (s *Snapshot) FindNode(id string) (*NodeView, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// FindEdge returns the edge with the given id.
func (s *Snapshot) FindEdge(id string) (*EdgeView, bool) {
	for i := range s.Edges {
		if s.Edges[i].ID == id {
			return &s.Edges[i], true
		}
	}
	return nil, false
}

// OutgoingEdges returns all edges originating from a node
func (s *Snapshot) OutgoingEdges(nodeID string) []EdgeView {
	return s.FilterEdges(func(e *EdgeView) bool { return e.Source == nodeID })
}

// IncomingEdges returns all edges targeting a node
func (s *Snapshot) IncomingEdges(nodeID string) []EdgeView {
	return s.FilterEdges(func(e *EdgeView) bool { return e.Target == nodeID })
}

// FilterNodes returns nodes that match the provided filter function
func (s *Snapshot) FilterNodes(filter NodeFilter) []NodeView {
	var result []NodeView
	for i := range s.Nodes {
		if filter(&s.Nodes[i]) {
			result = append(result, s.Nodes[i])
		}
	}
	return result
}

// FilterEdges returns edges that match the provided filter function
func (s *Snapshot) FilterEdges(filter EdgeFilter) []EdgeView {
	var result []EdgeView
	for i := range s.Edges {
		if filter(&s.Edges[i]) {
			result = append(result, s.Edges[i])
		}
	}
	return result
}

// Bounds returns the smallest rectangle containing every node disc. An
// empty snapshot has zero bounds.
func (s *Snapshot) Bounds() (minX, minY, maxX, maxY float64) {
	for i, n := range s.Nodes {
		r := n.Radius * n.Scale()
		if i == 0 {
			minX, minY = n.Position.X-r, n.Position.Y-r
			maxX, maxY = n.Position.X+r, n.Position.Y+r
			continue
		}
		minX = min(minX, n.Position.X-r)
		minY = min(minY, n.Position.Y-r)
		maxX = max(maxX, n.Position.X+r)
		maxY = max(maxY, n.Position.Y+r)
	}
	return minX, minY, maxX, maxY
}
