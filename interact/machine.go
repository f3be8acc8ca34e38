package interact

import (
	"fmt"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/graph"
)

// Graph is the part of *graph.Graph the state machine edits through.
type Graph interface {
	AddNode(p geom.Vec2) graph.NodeID
	RemoveNode(id graph.NodeID)
	AddEdge(from, to graph.NodeID) (graph.EdgeID, bool)
	RemoveEdge(id graph.EdgeID)
	NodeAt(p geom.Vec2) (graph.NodeID, bool)
	EdgeAt(p geom.Vec2) (graph.EdgeID, bool)
	SetNodePosition(id graph.NodeID, p geom.Vec2)
	SetIgnoreForce(id graph.NodeID, v bool)
	SetHighlight(id graph.NodeID, h graph.Highlight)
}

// EventKind is the kind of a pointer event.
type EventKind int

const (
	PointerMoved EventKind = iota
	PrimaryPressed
	PrimaryReleased
)

func (k EventKind) String() string {
	switch k {
	case PointerMoved:
		return "moved"
	case PrimaryPressed:
		return "pressed"
	case PrimaryReleased:
		return "released"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a pointer event in canvas coordinates.
type Event struct {
	Kind EventKind
	Pos  geom.Vec2
}

// Moved returns a pointer-moved event.
func Moved(p geom.Vec2) Event { return Event{Kind: PointerMoved, Pos: p} }

// Pressed returns a primary-button press, i.e. a click.
func Pressed(p geom.Vec2) Event { return Event{Kind: PrimaryPressed, Pos: p} }

// Released returns a primary-button release.
func Released(p geom.Vec2) Event { return Event{Kind: PrimaryReleased, Pos: p} }

// Action names what an event did to the graph.
type Action int

const (
	NoAction Action = iota
	NodeAdded
	NodeRemoved
	EdgeAdded
	EdgeRemoved
	ConnectStarted
	ConnectCleared
	DragStarted
	DragMoved
	DragEnded
)

var actionNames = [...]string{
	NoAction:       "none",
	NodeAdded:      "node-added",
	NodeRemoved:    "node-removed",
	EdgeAdded:      "edge-added",
	EdgeRemoved:    "edge-removed",
	ConnectStarted: "connect-started",
	ConnectCleared: "connect-cleared",
	DragStarted:    "drag-started",
	DragMoved:      "drag-moved",
	DragEnded:      "drag-ended",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Effect describes the graph edit made by one transition.
type Effect struct {
	Action Action
	Node   graph.NodeID
	Edge   graph.EdgeID
}

// Transition applies ev to g under mode and returns the next mode.
func Transition(mode Mode, g Graph, ev Event) (Mode, Effect) {
	switch m := mode.(type) {
	case Add:
		if ev.Kind == PrimaryPressed {
			return m, Effect{Action: NodeAdded, Node: g.AddNode(ev.Pos)}
		}
		return m, Effect{}

	case Remove:
		if ev.Kind != PrimaryPressed {
			return m, Effect{}
		}
		if id, ok := g.NodeAt(ev.Pos); ok {
			g.RemoveNode(id)
			return m, Effect{Action: NodeRemoved, Node: id}
		}
		if id, ok := g.EdgeAt(ev.Pos); ok {
			g.RemoveEdge(id)
			return m, Effect{Action: EdgeRemoved, Edge: id}
		}
		return m, Effect{}

	case Move:
		return moveTransition(m, g, ev)

	case Connect:
		return connectTransition(m, g, ev)

	default:
		return Move{}, Effect{}
	}
}

func moveTransition(m Move, g Graph, ev Event) (Mode, Effect) {
	switch ev.Kind {
	case PrimaryPressed:
		// A drag whose release never arrived ends here.
		if id, ok := m.Dragging(); ok {
			g.SetIgnoreForce(id, false)
			return Move{pressed: true, origin: ev.Pos}, Effect{Action: DragEnded, Node: id}
		}
		return Move{pressed: true, origin: ev.Pos}, Effect{}

	case PointerMoved:
		if !m.pressed {
			return m, Effect{}
		}
		action := DragMoved
		if !m.grabbed {
			m.grabbed = true
			id, ok := g.NodeAt(m.origin)
			if !ok {
				return m, Effect{}
			}
			m.node = id
			g.SetIgnoreForce(id, true)
			action = DragStarted
		}
		if m.node.IsZero() {
			return m, Effect{}
		}
		g.SetNodePosition(m.node, ev.Pos)
		return m, Effect{Action: action, Node: m.node}

	case PrimaryReleased:
		if id, ok := m.Dragging(); ok {
			g.SetIgnoreForce(id, false)
			return Move{}, Effect{Action: DragEnded, Node: id}
		}
		return Move{}, Effect{}
	}
	return m, Effect{}
}

func connectTransition(m Connect, g Graph, ev Event) (Mode, Effect) {
	if ev.Kind != PrimaryPressed {
		return m, Effect{}
	}

	if !m.HasPending() {
		id, ok := g.NodeAt(ev.Pos)
		if !ok {
			return m, Effect{}
		}
		g.SetHighlight(id, graph.Highlighted)
		return Connect{Pending: id}, Effect{Action: ConnectStarted, Node: id}
	}

	from := m.Pending
	g.SetHighlight(from, graph.Normal)
	if to, ok := g.NodeAt(ev.Pos); ok {
		if eid, added := g.AddEdge(from, to); added {
			return Connect{}, Effect{Action: EdgeAdded, Node: from, Edge: eid}
		}
	}
	return Connect{}, Effect{Action: ConnectCleared, Node: from}
}

// Cancel abandons whatever mode is in the middle of: a pending connection
// loses its highlight and a dragged node is handed back to the simulation.
// The returned mode is the same kind with no state.
func Cancel(mode Mode, g Graph) (Mode, Effect) {
	switch m := mode.(type) {
	case Connect:
		if m.HasPending() {
			g.SetHighlight(m.Pending, graph.Normal)
			return Connect{}, Effect{Action: ConnectCleared, Node: m.Pending}
		}
	case Move:
		if id, ok := m.Dragging(); ok {
			g.SetIgnoreForce(id, false)
			return Move{}, Effect{Action: DragEnded, Node: id}
		}
	}
	return fresh(mode), Effect{}
}

// Machine holds the active mode between events.
type Machine struct {
	mode Mode
}

// NewMachine returns a machine in Move mode.
func NewMachine() *Machine {
	return &Machine{mode: Move{}}
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Handle applies one pointer event.
func (m *Machine) Handle(g Graph, ev Event) Effect {
	var eff Effect
	m.mode, eff = Transition(m.mode, g, ev)
	return eff
}

// CancelPending drops a pending connection and clears its highlight. It is
// a no-op outside Connect mode.
func (m *Machine) CancelPending(g Graph) Effect {
	if _, ok := m.mode.(Connect); !ok {
		return Effect{}
	}
	var eff Effect
	m.mode, eff = Cancel(m.mode, g)
	return eff
}

// SetMode switches to next after cancelling any pending connection or
// active drag. next always starts without in-progress state.
func (m *Machine) SetMode(g Graph, next Mode) Effect {
	var eff Effect
	m.mode, eff = Cancel(m.mode, g)
	if next == nil {
		next = Move{}
	}
	m.mode = fresh(next)
	return eff
}
