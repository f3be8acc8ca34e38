// Package session runs an Editor on a single goroutine. Input arrives as
// commands over a channel and frames leave as snapshots, so the graph only
// ever has one writer no matter how many connections feed it.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/editor"
	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/interact"
	"github.com/TFMV/forcepad/models"
	"github.com/TFMV/forcepad/physics"
)

// Defaults for the frame clock.
const (
	DefaultFrameRate     = 60
	DefaultMaxFrameDelta = 100 * time.Millisecond
)

var (
	// ErrStopped is returned for commands sent after Run has returned.
	ErrStopped = errors.New("session stopped")
	// ErrAlreadyRunning is returned by a second concurrent call to Run.
	ErrAlreadyRunning = errors.New("session already running")
)

type request struct {
	apply func(*editor.Editor) error
	done  chan error
}

// Session owns an Editor and drives its frames.
type Session struct {
	id       uuid.UUID
	editor   *editor.Editor
	requests chan request
	stopped  chan struct{}
	running  atomic.Bool

	interval time.Duration
	maxDelta time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	latest  models.Snapshot
	subs    map[int]chan models.Snapshot
	nextSub int
}

// Option configures a Session.
type Option func(*Session)

// WithFrameRate sets how many frames per second Run produces.
func WithFrameRate(fps int) Option {
	return func(s *Session) {
		if fps > 0 {
			s.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithMaxFrameDelta caps the elapsed time fed into one simulation step, so a
// stalled host does not fling nodes across the canvas.
func WithMaxFrameDelta(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.maxDelta = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New wraps ed in a session. ed must not be used directly afterwards.
func New(ed *editor.Editor, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		editor:   ed,
		requests: make(chan request),
		stopped:  make(chan struct{}),
		interval: time.Second / DefaultFrameRate,
		maxDelta: DefaultMaxFrameDelta,
		log:      slog.Default(),
		subs:     make(map[int]chan models.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id.String())
	s.latest = ed.Snapshot()
	return s
}

// ID returns the session's identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Run processes commands and frames until ctx is cancelled. Commands
// received before a tick are applied before that tick's simulation step.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.closeSubscribers()
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("session started", "frame_interval", s.interval)
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped")
			return nil

		case req := <-s.requests:
			req.done <- req.apply(s.editor)

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > s.maxDelta {
				dt = s.maxDelta
			}
			s.publish(s.editor.Frame(dt.Seconds()))
		}
	}
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func(*editor.Editor) error) error {
	req := request{apply: fn, done: make(chan error, 1)}
	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send delivers pointer events in order.
func (s *Session) Send(ctx context.Context, events ...interact.Event) error {
	return s.do(ctx, func(ed *editor.Editor) error {
		for _, ev := range events {
			ed.Handle(ev)
		}
		return nil
	})
}

// SetMode switches the interaction mode by name.
func (s *Session) SetMode(ctx context.Context, name string) error {
	return s.do(ctx, func(ed *editor.Editor) error {
		return ed.SetMode(name)
	})
}

// SetForces replaces the force parameters from the next frame on.
func (s *Session) SetForces(ctx context.Context, push physics.PushConfig, pull physics.PullConfig) error {
	return s.do(ctx, func(ed *editor.Editor) error {
		return ed.SetForces(push, pull)
	})
}

// Forces returns the force parameters in use.
func (s *Session) Forces(ctx context.Context) (push physics.PushConfig, pull physics.PullConfig, err error) {
	err = s.do(ctx, func(ed *editor.Editor) error {
		push, pull = ed.Forces()
		return nil
	})
	return push, pull, err
}

// SetDirected switches between arrow and plain-line edge drawing.
func (s *Session) SetDirected(ctx context.Context, v bool) error {
	return s.do(ctx, func(ed *editor.Editor) error {
		ed.SetDirected(v)
		return nil
	})
}

// ToggleEdgeAt enables or disables the edge under p.
func (s *Session) ToggleEdgeAt(ctx context.Context, p geom.Vec2) (found bool, err error) {
	err = s.do(ctx, func(ed *editor.Editor) error {
		found = ed.ToggleEdgeAt(p)
		return nil
	})
	return found, err
}

// Latest returns the most recently published snapshot.
func (s *Session) Latest() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Subscribe returns a channel that receives every published snapshot a
// reader keeps up with; a slow reader only ever sees the newest one. The
// channel is closed by cancel or when Run returns. After Run has returned the
// channel holds the final snapshot and is already closed.
func (s *Session) Subscribe() (<-chan models.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan models.Snapshot, 1)
	select {
	case <-s.stopped:
		ch <- s.latest
		close(ch)
		return ch, func() {}
	default:
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.latest

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

func (s *Session) publish(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = snap
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Replace the unread frame with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
