// Package vote applies votes optimistically to locally cached counters and
// restores them when the remote rejects the change.
package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrInvalidVote = errors.New("vote must be -1, 0 or 1")
	ErrNotFound    = errors.New("vote target not found")
)

// Metrics are the vote counters of one post or comment.
// Score always equals Upvotes - Downvotes after Calculate.
type Metrics struct {
	Score     int
	Upvotes   int
	Downvotes int
	MyVote    int
}

// Effective returns the vote that should be sent when the user asks for
// requested while current is recorded. Repeating the current vote clears it.
func Effective(current, requested int) int {
	if requested == current {
		return 0
	}
	return requested
}

// Calculate returns the counters after the user requests a vote.
func Calculate(old Metrics, requested int) (Metrics, error) {
	if !valid(requested) || !valid(old.MyVote) {
		return old, ErrInvalidVote
	}
	effective := Effective(old.MyVote, requested)

	next := old
	switch old.MyVote {
	case 1:
		next.Upvotes--
		next.Score--
	case -1:
		next.Downvotes--
		next.Score++
	}
	switch effective {
	case 1:
		next.Upvotes++
		next.Score++
	case -1:
		next.Downvotes++
		next.Score--
	}
	next.MyVote = effective
	return next, nil
}

func valid(v int) bool {
	return v >= -1 && v <= 1
}

// Target reads and writes the locally cached counters of one entity.
type Target interface {
	Load() (Metrics, bool)
	Store(Metrics) bool
}

// Sender transmits the effective vote to the remote.
type Sender func(ctx context.Context, effective int) error

// Recorder observes rollbacks.
type Recorder interface {
	RecordVoteRollback(kind string)
}

type Engine struct {
	logger   *slog.Logger
	recorder Recorder
}

func NewEngine(logger *slog.Logger, recorder Recorder) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, recorder: recorder}
}

// RollbackError reports a rejected vote whose local change was reverted.
type RollbackError struct {
	Kind     string
	Restored Metrics
	Err      error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("%s vote rolled back: %v", e.Kind, e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}

// Pending is a vote already applied locally and not yet sent.
type Pending struct {
	engine    *Engine
	kind      string
	target    Target
	requested int
	send      Sender
	snapshot  Metrics
	next      Metrics
}

// Metrics returns the optimistic counters now stored in the target.
func (p *Pending) Metrics() Metrics {
	return p.next
}

// Begin snapshots the target and applies the vote locally without sending
// it. kind labels logs and metrics ("post", "comment").
func (e *Engine) Begin(kind string, target Target, requested int, send Sender) (*Pending, error) {
	snapshot, ok := target.Load()
	if !ok {
		return nil, fmt.Errorf("%s vote: %w", kind, ErrNotFound)
	}
	next, err := Calculate(snapshot, requested)
	if err != nil {
		return nil, fmt.Errorf("%s vote: %w", kind, err)
	}
	if !target.Store(next) {
		return nil, fmt.Errorf("%s vote: %w", kind, ErrNotFound)
	}
	return &Pending{
		engine:    e,
		kind:      kind,
		target:    target,
		requested: requested,
		send:      send,
		snapshot:  snapshot,
		next:      next,
	}, nil
}

// Send transmits the effective vote and restores the snapshot if sending
// fails.
func (p *Pending) Send(ctx context.Context) (Metrics, error) {
	err := p.send(ctx, p.next.MyVote)
	if err == nil {
		return p.next, nil
	}
	p.target.Store(p.snapshot)
	p.engine.logger.Warn("vote rejected, restored local counters",
		"kind", p.kind,
		"requested", p.requested,
		"effective", p.next.MyVote,
		"err", err,
	)
	if p.engine.recorder != nil {
		p.engine.recorder.RecordVoteRollback(p.kind)
	}
	return p.snapshot, &RollbackError{Kind: p.kind, Restored: p.snapshot, Err: err}
}

// Apply runs Begin and Send back to back.
func (e *Engine) Apply(ctx context.Context, kind string, target Target, requested int, send Sender) (Metrics, error) {
	p, err := e.Begin(kind, target, requested, send)
	if err != nil {
		m, _ := target.Load()
		return m, err
	}
	return p.Send(ctx)
}
