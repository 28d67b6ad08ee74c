// Package gateway is the single entry point for remote operations. It merges
// caller parameters with per-operation defaults, talks to the current
// backend, merges results into the shared stores and normalizes failures.
//
// Reads swallow failures and report absence. Writes that carry optimistic
// local state return a *Error after rolling the local change back. The
// remaining writes are best effort and report success as a bool.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/feed"
	"github.com/glabrego/lemmy-cli/internal/metrics"
	"github.com/glabrego/lemmy-cli/internal/settings"
	"github.com/glabrego/lemmy-cli/internal/store"
	"github.com/glabrego/lemmy-cli/internal/vote"
)

var ErrNotReady = errors.New("session not ready")

// Handle yields the backend of the current session.
type Handle interface {
	Backend() (api.Backend, bool)
}

// SettingsProvider returns the current user settings.
type SettingsProvider interface {
	Get() settings.Settings
}

// Prefetcher warms media of newly cached posts. It must not block.
type Prefetcher interface {
	Prefetch(urls []string)
}

// Error is the normalized failure surfaced to the UI.
type Error struct {
	Op   string
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is a short text for the status line.
func (e *Error) Message() string {
	var apiErr *api.APIError
	switch {
	case errors.Is(e.Err, ErrNotReady):
		return "Not signed in."
	case errors.Is(e.Err, context.Canceled):
		return "Request cancelled."
	case errors.Is(e.Err, vote.ErrNotFound):
		return "That item is no longer loaded."
	case e.Code != "":
		return "Server rejected the request: " + e.Code
	case errors.As(e.Err, &apiErr):
		return fmt.Sprintf("Server error (%d).", apiErr.StatusCode)
	default:
		return "Could not reach the server."
	}
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Code: api.ErrorCode(err), Err: err}
}

type Options struct {
	Logger     *slog.Logger
	Recorder   metrics.Recorder
	Prefetcher Prefetcher
}

type Gateway struct {
	handle     Handle
	state      *store.State
	settings   SettingsProvider
	feeds      *feed.Reconciler
	votes      *vote.Engine
	prefetcher Prefetcher
	recorder   metrics.Recorder
	logger     *slog.Logger
}

func New(handle Handle, state *store.State, prefs SettingsProvider, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Gateway{
		handle:     handle,
		state:      state,
		settings:   prefs,
		feeds:      feed.NewReconciler(state.Posts, state.Feeds, logger, recorder),
		votes:      vote.NewEngine(logger, recorder),
		prefetcher: opts.Prefetcher,
		recorder:   recorder,
		logger:     logger,
	}
}

func (g *Gateway) State() *store.State {
	return g.state
}

// ReleaseFeed forgets a feed whose view went away and returns how many posts
// were evicted.
func (g *Gateway) ReleaseFeed(feedID string) int {
	return g.feeds.Release(feedID)
}

func (g *Gateway) NextPage(feedID string) int {
	return g.feeds.NextPage(feedID)
}

// call runs fn against the current backend, recording and logging the
// outcome. Errors are returned raw.
func call[T any](g *Gateway, op string, fn func(api.Backend) (T, error)) (T, error) {
	var zero T
	backend, ok := g.handle.Backend()
	if !ok {
		g.recorder.RecordCall(op, ErrNotReady, 0)
		g.logger.Debug("remote call without session", "op", op)
		return zero, ErrNotReady
	}
	start := time.Now()
	out, err := fn(backend)
	g.recorder.RecordCall(op, err, time.Since(start))
	if err != nil {
		g.logger.Error("remote call failed", "op", op, "err", err)
		return zero, err
	}
	return out, nil
}

// stale reports whether the response of op must be dropped because the
// cycle that asked for it was cancelled.
func (g *Gateway) stale(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		g.logger.Debug("dropping stale response", "op", op, "err", err)
		return err
	}
	return nil
}
