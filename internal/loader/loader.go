// Package loader drives paginated views: it runs at most one fetch per view,
// tracks loading flags and the page cursor and discards results of cycles
// that were cancelled or superseded.
package loader

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type Mode int

const (
	ModeLoad Mode = iota
	ModeRefresh
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeRefresh:
		return "refresh"
	case ModeAppend:
		return "append"
	default:
		return "load"
	}
}

// FetchFunc loads one page. refresh is true for the initial load and for
// refreshes, when the page replaces the current data.
type FetchFunc[T any] func(ctx context.Context, page int, refresh bool) ([]T, error)

// ResultMsg carries the outcome of one cycle back into the bubbletea loop.
type ResultMsg[T any] struct {
	Key   string
	Token string
	Mode  Mode
	Items []T
	Err   error
}

type Status struct {
	IsLoading    bool
	IsRefreshing bool
	IsError      bool
	Err          error
}

// Loader is owned by one bubbletea model. Its methods must be called from
// the model's Update; only the returned commands run elsewhere.
type Loader[T any] struct {
	key    string
	parent context.Context
	fetch  FetchFunc[T]

	status Status
	data   []T
	page   int
	token  string
	cancel context.CancelFunc
}

func New[T any](parent context.Context, key string, fetch FetchFunc[T]) *Loader[T] {
	if parent == nil {
		parent = context.Background()
	}
	return &Loader[T]{key: key, parent: parent, fetch: fetch, page: 1}
}

func (l *Loader[T]) Key() string      { return l.key }
func (l *Loader[T]) Status() Status   { return l.status }
func (l *Loader[T]) Data() []T        { return l.data }
func (l *Loader[T]) Page() int        { return l.page }
func (l *Loader[T]) InFlight() bool   { return l.token != "" }
func (l *Loader[T]) Load() tea.Cmd    { return l.start(ModeLoad) }
func (l *Loader[T]) Refresh() tea.Cmd { return l.start(ModeRefresh) }
func (l *Loader[T]) Append() tea.Cmd  { return l.start(ModeAppend) }

// start returns nil when a cycle is already outstanding; the trigger is
// dropped, not queued.
func (l *Loader[T]) start(mode Mode) tea.Cmd {
	if l.InFlight() {
		return nil
	}
	ctx, cancel := context.WithCancel(l.parent)
	token := uuid.NewString()
	l.token = token
	l.cancel = cancel

	l.status = Status{
		IsLoading:    mode != ModeRefresh,
		IsRefreshing: mode == ModeRefresh,
	}

	page := 1
	if mode == ModeAppend {
		page = l.page
	}
	key, fetch := l.key, l.fetch
	return func() tea.Msg {
		items, err := fetch(ctx, page, mode != ModeAppend)
		return ResultMsg[T]{Key: key, Token: token, Mode: mode, Items: items, Err: err}
	}
}

// Update applies a result of the current cycle. It reports whether msg
// belonged to this loader; results of cancelled cycles are swallowed.
func (l *Loader[T]) Update(msg tea.Msg) bool {
	res, ok := msg.(ResultMsg[T])
	if !ok || res.Key != l.key {
		return false
	}
	if res.Token == "" || res.Token != l.token {
		return true
	}
	l.finish()

	if res.Err != nil {
		l.status = Status{IsError: true, Err: res.Err}
		return true
	}
	l.status = Status{}
	if res.Mode == ModeAppend {
		l.data = append(l.data, res.Items...)
		l.page++
		return true
	}
	l.data = res.Items
	l.page = 2
	return true
}

// Cancel abandons the outstanding cycle, if any.
func (l *Loader[T]) Cancel() {
	if !l.InFlight() {
		return
	}
	l.finish()
	l.status.IsLoading = false
	l.status.IsRefreshing = false
}

func (l *Loader[T]) finish() {
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = nil
	l.token = ""
}
