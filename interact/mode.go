// Package interact turns pointer events into graph edits according to the
// active editing mode.
package interact

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/graph"
)

// ErrUnknownMode is returned by ParseMode for names it does not recognise.
var ErrUnknownMode = errors.New("unknown mode")

// Mode names.
const (
	NameAdd     = "add"
	NameRemove  = "remove"
	NameMove    = "move"
	NameConnect = "connect"
)

// Mode is one of Add, Remove, Move or Connect.
type Mode interface {
	Name() string
	isMode()
}

// Add places a node at every click.
type Add struct{}

// Remove deletes the node under a click, or failing that the edge under it.
type Remove struct{}

// Move drags nodes with the pointer.
type Move struct {
	pressed bool
	origin  geom.Vec2
	grabbed bool // the drag origin has been looked up
	node    graph.NodeID
}

// Connect joins two nodes clicked one after the other. Pending is the first
// node once it has been picked.
type Connect struct {
	Pending graph.NodeID
}

func (Add) Name() string     { return NameAdd }
func (Remove) Name() string  { return NameRemove }
func (Move) Name() string    { return NameMove }
func (Connect) Name() string { return NameConnect }

func (Add) isMode()     {}
func (Remove) isMode()  {}
func (Move) isMode()    {}
func (Connect) isMode() {}

// Dragging returns the node being dragged, if any.
func (m Move) Dragging() (graph.NodeID, bool) {
	return m.node, !m.node.IsZero()
}

// HasPending reports whether the first node of a connection has been picked.
func (c Connect) HasPending() bool {
	return !c.Pending.IsZero()
}

// ParseMode returns the fresh mode with the given name.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameAdd:
		return Add{}, nil
	case NameRemove:
		return Remove{}, nil
	case NameMove:
		return Move{}, nil
	case NameConnect:
		return Connect{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%q", name)
	}
}

// ModeNames lists the names ParseMode accepts.
func ModeNames() []string {
	return []string{NameAdd, NameRemove, NameMove, NameConnect}
}

// fresh drops any in-progress state carried by m.
func fresh(m Mode) Mode {
	switch m.(type) {
	case Add:
		return Add{}
	case Remove:
		return Remove{}
	case Connect:
		return Connect{}
	default:
		return Move{}
	}
}
