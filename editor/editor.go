// Package editor ties the graph, the interaction state machine and the force
// parameters into one frame-driven unit. An Editor is not safe for
// concurrent use; see package session for running one behind a channel.
package editor

import (
	"log/slog"
	"time"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/graph"
	"github.com/TFMV/forcepad/interact"
	"github.com/TFMV/forcepad/models"
	"github.com/TFMV/forcepad/physics"
)

// Options configures a new Editor.
type Options struct {
	Push     physics.PushConfig
	Pull     physics.PullConfig
	Directed bool
	Seed     int64 // jitter seed; zero picks one from the clock
}

// DefaultOptions returns the default force parameters with directed
// drawing on.
func DefaultOptions() Options {
	return Options{
		Push:     physics.DefaultPush(),
		Pull:     physics.DefaultPull(),
		Directed: true,
	}
}

// Editor is one editing session's state.
type Editor struct {
	graph   *graph.Graph
	machine *interact.Machine

	push     physics.PushConfig
	pull     physics.PullConfig
	directed bool

	pointer    geom.Vec2
	hasPointer bool
	frame      uint64

	log *slog.Logger
}

// New creates an editor with an empty graph.
func New(opts Options, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := graph.New(graph.WithPerturber(physics.NewJitter(seed)))

	return &Editor{
		graph:    g,
		machine:  interact.NewMachine(),
		push:     opts.Push,
		pull:     opts.Pull,
		directed: opts.Directed,
		log:      logger.With("graph", g.ID().String()),
	}
}

// Graph exposes the graph for reading.
func (e *Editor) Graph() *graph.Graph {
	return e.graph
}

// Mode returns the active interaction mode.
func (e *Editor) Mode() interact.Mode {
	return e.machine.Mode()
}

// Handle applies one pointer event.
func (e *Editor) Handle(ev interact.Event) interact.Effect {
	e.pointer = ev.Pos
	e.hasPointer = true

	eff := e.machine.Handle(e.graph, ev)
	if eff.Action != interact.NoAction && eff.Action != interact.DragMoved {
		e.log.Debug("pointer event",
			"event", ev.Kind.String(),
			"x", ev.Pos.X, "y", ev.Pos.Y,
			"mode", e.machine.Mode().Name(),
			"action", eff.Action.String(),
			"node", eff.Node.String(),
			"edge", eff.Edge.String(),
		)
	}
	return eff
}

// SetMode switches modes by name, cancelling any pending connection or drag.
func (e *Editor) SetMode(name string) error {
	mode, err := interact.ParseMode(name)
	if err != nil {
		return err
	}
	e.SetModeTo(mode)
	return nil
}

// SetModeTo switches to mode, cancelling any pending connection or drag.
func (e *Editor) SetModeTo(mode interact.Mode) {
	prev := e.machine.Mode().Name()
	eff := e.machine.SetMode(e.graph, mode)
	e.log.Debug("mode switched", "from", prev, "to", e.machine.Mode().Name(), "cancelled", eff.Action.String())
}

// Forces returns the current force parameters.
func (e *Editor) Forces() (physics.PushConfig, physics.PullConfig) {
	return e.push, e.pull
}

// SetForces replaces the force parameters used from the next frame on.
func (e *Editor) SetForces(push physics.PushConfig, pull physics.PullConfig) error {
	if err := push.Validate(); err != nil {
		return err
	}
	if err := pull.Validate(); err != nil {
		return err
	}
	e.push, e.pull = push, pull
	e.log.Debug("forces updated",
		"push_force", push.Force, "push_distance", push.Distance,
		"pull_min_distance", pull.MinDistance, "pull_force", pull.ForceAtTwiceDistance)
	return nil
}

// Directed reports whether edges are drawn with arrows.
func (e *Editor) Directed() bool {
	return e.directed
}

// SetDirected switches between arrow and plain-line edge drawing.
func (e *Editor) SetDirected(v bool) {
	e.directed = v
}

// ToggleEdgeAt enables or disables the edge under p and reports whether
// there was one.
func (e *Editor) ToggleEdgeAt(p geom.Vec2) bool {
	id, ok := e.graph.EdgeAt(p)
	if !ok {
		return false
	}
	e.graph.ToggleEdge(id)
	if edge, ok := e.graph.Edge(id); ok {
		e.log.Debug("edge toggled", "edge", id.String(), "enabled", edge.Enabled())
	}
	return true
}

// Frame advances the simulation by dt seconds and returns the resulting
// snapshot. Negative dt is treated as zero.
func (e *Editor) Frame(dt float64) models.Snapshot {
	if dt < 0 {
		dt = 0
	}
	e.graph.Step(dt, e.push, e.pull)
	e.frame++
	return e.Snapshot()
}

// Snapshot returns the current state without advancing it.
func (e *Editor) Snapshot() models.Snapshot {
	snap := e.graph.Snapshot(graph.SnapshotOptions{
		Pointer:    e.pointer,
		HasPointer: e.hasPointer,
		Directed:   e.directed,
	})
	snap.Frame = e.frame
	snap.Mode = e.machine.Mode().Name()
	return snap
}
