// Package script replays recorded pointer sessions against an editor. A
// script is a flat list of steps (pointer events, mode switches, edge
// toggles and frame advances) loaded from JSON or CSV.
package script

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/interact"
	"github.com/TFMV/forcepad/models"
)

var (
	// ErrUnknownOp is returned for a step whose op is not recognised.
	ErrUnknownOp = errors.New("unknown op")
	// ErrSyntax is returned for structurally malformed script input.
	ErrSyntax = errors.New("malformed script")
)

// Op names a script step.
type Op string

const (
	OpMove     Op = "move"
	OpPress    Op = "press"
	OpRelease  Op = "release"
	OpClick    Op = "click" // press then release at the same point
	OpMode     Op = "mode"
	OpToggle   Op = "toggle"
	OpFrame    Op = "frame"
	OpDirected Op = "directed"
)

// ParseOp resolves an op name, ignoring case and surrounding space.
func ParseOp(s string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OpMove, OpPress, OpRelease, OpClick, OpMode, OpToggle, OpFrame, OpDirected:
		return op, nil
	}
	return "", errors.Wrapf(ErrUnknownOp, "%q", s)
}

// Step is one scripted action. Line is the source line it came from, for
// error messages.
type Step struct {
	Op       Op
	Pos      geom.Vec2
	Mode     string
	Frames   int
	Directed bool
	Line     int
}

// Script is a named sequence of steps.
type Script struct {
	Name  string
	Steps []Step
}

// Target is what a script drives. *editor.Editor satisfies it.
type Target interface {
	Handle(ev interact.Event) interact.Effect
	SetMode(name string) error
	ToggleEdgeAt(p geom.Vec2) bool
	SetDirected(v bool)
	Frame(dt float64) models.Snapshot
	Snapshot() models.Snapshot
}

// FrameFunc observes each frame produced during playback. A non-nil error
// stops playback.
type FrameFunc func(snap models.Snapshot) error

// Play applies every step of s to t, advancing frame steps by dt seconds
// each. It returns the final snapshot.
func Play(t Target, s *Script, dt float64, onFrame FrameFunc) (models.Snapshot, error) {
	for _, st := range s.Steps {
		switch st.Op {
		case OpMove:
			t.Handle(interact.Moved(st.Pos))
		case OpPress:
			t.Handle(interact.Pressed(st.Pos))
		case OpRelease:
			t.Handle(interact.Released(st.Pos))
		case OpClick:
			t.Handle(interact.Pressed(st.Pos))
			t.Handle(interact.Released(st.Pos))
		case OpMode:
			if err := t.SetMode(st.Mode); err != nil {
				return t.Snapshot(), errors.Wrapf(err, "%s line %d", s.Name, st.Line)
			}
		case OpToggle:
			t.ToggleEdgeAt(st.Pos)
		case OpDirected:
			t.SetDirected(st.Directed)
		case OpFrame:
			for range max(st.Frames, 1) {
				snap := t.Frame(dt)
				if onFrame == nil {
					continue
				}
				if err := onFrame(snap); err != nil {
					return snap, errors.Wrapf(err, "%s line %d", s.Name, st.Line)
				}
			}
		default:
			return t.Snapshot(), errors.Wrapf(ErrUnknownOp, "%s line %d: %q", s.Name, st.Line, st.Op)
		}
	}
	return t.Snapshot(), nil
}
