package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/gateway"
	"github.com/glabrego/lemmy-cli/internal/loader"
	"github.com/glabrego/lemmy-cli/internal/preview"
	"github.com/glabrego/lemmy-cli/internal/store"
	"github.com/glabrego/lemmy-cli/internal/tui/actions"
	"github.com/glabrego/lemmy-cli/internal/tui/state"
	tuitheme "github.com/glabrego/lemmy-cli/internal/tui/theme"
	"github.com/glabrego/lemmy-cli/internal/tui/view"
)

// appendThreshold is how close to the end of the feed the cursor has to be
// before the next page is requested.
const appendThreshold = 5

type clearStatusMsg struct {
	id int
}

type Options struct {
	Context context.Context
	FeedID  string
	Posts   gateway.PostsOptions
	Now     func() time.Time
}

type Model struct {
	gw     actions.Gateway
	state  *store.State
	feedID string
	feed   *loader.Loader[int64]

	cursor        int
	inComments    bool
	commentPostID int64
	commentCursor int
	commentsBusy  bool
	collapsed     map[int64]bool

	showHelp bool
	width    int
	height   int
	status   string
	statusID int
	err      error
	nowFn    func() time.Time
	theme    tuitheme.Theme
}

func NewModel(gw actions.Gateway, st *store.State, opts Options) Model {
	if opts.FeedID == "" {
		opts.FeedID = "home"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Model{
		gw:        gw,
		state:     st,
		feedID:    opts.FeedID,
		feed:      loader.New(opts.Context, opts.FeedID, actions.FeedFetch(gw, opts.FeedID, opts.Posts)),
		collapsed: make(map[int64]bool),
		nowFn:     opts.Now,
		theme:     tuitheme.Default(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.gw == nil {
		return nil
	}
	return m.feed.Load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loader.ResultMsg[int64]); ok {
		anchor, hasAnchor := m.currentPostID()
		if !m.feed.Update(res) {
			return m, nil
		}
		st := m.feed.Status()
		if st.IsError {
			m.err = st.Err
		} else {
			m.err = nil
		}
		ids := m.postIDs()
		if hasAnchor {
			if i := state.IndexOfID(ids, anchor); i >= 0 {
				m.cursor = i
			}
		}
		m.cursor = state.ClampCursor(m.cursor, len(ids))
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.VoteSuccessMsg:
		m.err = nil
		return m.setStatus(voteStatus(msg.Metrics.MyVote), 3*time.Second)
	case actions.VoteErrorMsg:
		m.err = msg.Err
		return m, nil
	case actions.SaveResultMsg:
		if !msg.OK {
			return m.setStatus("Could not update saved state", 4*time.Second)
		}
		if msg.Saved {
			return m.setStatus("Saved", 3*time.Second)
		}
		return m.setStatus("Unsaved", 3*time.Second)
	case actions.CommentsLoadedMsg:
		if msg.PostID != m.commentPostID {
			return m, nil
		}
		m.commentsBusy = false
		if !msg.OK {
			return m.setStatus("Could not load comments", 4*time.Second)
		}
		m.commentCursor = state.ClampCursor(m.commentCursor, len(m.commentRows()))
		return m.setStatus(fmt.Sprintf("%d comments", msg.Count), 3*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.inComments {
		return m.handleCommentKey(msg)
	}

	ids := m.postIDs()
	switch msg.String() {
	case "up", "k":
		m.cursor = state.ClampCursor(m.cursor-1, len(ids))
	case "down", "j":
		m.cursor = state.ClampCursor(m.cursor+1, len(ids))
		return m, m.maybeAppend()
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = state.ClampCursor(len(ids)-1, len(ids))
		return m, m.maybeAppend()
	case "pgdown":
		m.cursor = state.ClampCursor(m.cursor+state.PageStep(m.height, m.status != ""), len(ids))
		return m, m.maybeAppend()
	case "pgup":
		m.cursor = state.ClampCursor(m.cursor-state.PageStep(m.height, m.status != ""), len(ids))
	case "r":
		m.err = nil
		return m, m.feed.Refresh()
	case "n":
		return m, m.feed.Append()
	case "enter":
		id, ok := m.currentPostID()
		if !ok {
			return m, nil
		}
		m.inComments = true
		m.commentPostID = id
		m.commentCursor = 0
		m.commentsBusy = true
		return m, actions.LoadCommentsCmd(m.gw, id)
	case "u", "d":
		id, ok := m.currentPostID()
		if !ok {
			return m, nil
		}
		return m, actions.StartVote(m.gw, actions.KindPost, id, requestedVote(msg.String()))
	case "s":
		id, ok := m.currentPostID()
		if !ok {
			return m, nil
		}
		entry, _ := m.state.Posts.Get(id)
		return m, actions.SaveCmd(m.gw, actions.KindPost, id, !entry.View.Saved)
	}
	return m, nil
}

func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.commentRows()
	switch msg.String() {
	case "esc", "backspace":
		m.inComments = false
		m.commentsBusy = false
		m.commentCursor = 0
		m.collapsed = make(map[int64]bool)
	case "up", "k":
		m.commentCursor = state.ClampCursor(m.commentCursor-1, len(rows))
	case "down", "j":
		m.commentCursor = state.ClampCursor(m.commentCursor+1, len(rows))
	case "g", "home":
		m.commentCursor = 0
	case "G", "end":
		m.commentCursor = state.ClampCursor(len(rows)-1, len(rows))
	case "pgdown":
		m.commentCursor = state.ClampCursor(m.commentCursor+state.PageStep(m.height, m.status != ""), len(rows))
	case "pgup":
		m.commentCursor = state.ClampCursor(m.commentCursor-state.PageStep(m.height, m.status != ""), len(rows))
	case " ", "space":
		if len(rows) == 0 {
			return m, nil
		}
		id := rows[m.commentCursor].CommentID
		m.collapsed[id] = !m.collapsed[id]
		m.commentCursor = state.CommentCursor(m.commentRows(), id, m.commentCursor)
	case "r":
		m.commentsBusy = true
		return m, actions.LoadCommentsCmd(m.gw, m.commentPostID)
	case "u", "d":
		if len(rows) == 0 {
			return m, nil
		}
		return m, actions.StartVote(m.gw, actions.KindComment, rows[m.commentCursor].CommentID, requestedVote(msg.String()))
	case "s":
		if len(rows) == 0 {
			return m, nil
		}
		id := rows[m.commentCursor].CommentID
		cv := m.commentView(rows[m.commentCursor])
		return m, actions.SaveCmd(m.gw, actions.KindComment, id, !cv.Saved)
	}
	return m, nil
}

// quit abandons the outstanding fetch and drops this view's posts from the
// shared cache before exiting.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.feed.Cancel()
	if m.gw != nil {
		m.gw.ReleaseFeed(m.feedID)
	}
	return m, tea.Quit
}

func (m Model) maybeAppend() tea.Cmd {
	if !state.ShouldAppend(m.cursor, len(m.postIDs()), appendThreshold) {
		return nil
	}
	return m.feed.Append()
}

func (m Model) setStatus(status string, after time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, clearStatusCmd(m.statusID, after)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func requestedVote(key string) int {
	if key == "d" {
		return -1
	}
	return 1
}

func voteStatus(myVote int) string {
	switch myVote {
	case 1:
		return "Upvoted"
	case -1:
		return "Downvoted"
	default:
		return "Vote cleared"
	}
}

// postIDs reads the feed's ordering from the shared store, which the
// gateway keeps in sync with every merged page.
func (m Model) postIDs() []int64 {
	if m.state == nil {
		return nil
	}
	f, _ := m.state.Feeds.Get(m.feedID)
	return f.PostIDs
}

func (m Model) currentPostID() (int64, bool) {
	ids := m.postIDs()
	if len(ids) == 0 || m.cursor >= len(ids) {
		return 0, false
	}
	return ids[m.cursor], true
}

func (m Model) commentRows() []comments.Row {
	entry, ok := m.state.Posts.Get(m.commentPostID)
	if !ok {
		return nil
	}
	return comments.Flatten(entry.Comments, comments.BuildOptions{Collapsed: m.collapsed})
}

// commentView prefers the comment cache, which carries vote and save updates
// the tree nodes do not.
func (m Model) commentView(row comments.Row) api.CommentView {
	if c, ok := m.state.Comments.Get(row.CommentID); ok {
		return c
	}
	if row.Node != nil {
		return row.Node.View
	}
	return api.CommentView{}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Lemmy CLI"))
	b.WriteString(" ")
	b.WriteString(m.theme.ModePill.Render(m.mode()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(strings.Join(view.HelpLines(), "\n"))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.theme.MetaLabel.Render(view.Toolbar(m.inComments)))
	b.WriteString("\n\n")
	if m.inComments {
		b.WriteString(m.commentsView())
	} else {
		b.WriteString(m.feedView())
	}
	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(view.CompactFooter(m.mode(), m.feedID, m.feed.Page(), len(m.postIDs()), m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) mode() string {
	if m.inComments {
		return "comments"
	}
	return "feed"
}

func (m Model) feedView() string {
	ids := m.postIDs()
	if len(ids) == 0 {
		if m.feed.Status().IsLoading {
			return "Loading posts...\n"
		}
		return "No posts available.\n"
	}
	start, end := state.CenteredWindow(len(ids), m.cursor, m.listHeight())
	now := m.nowFn()
	return view.RenderRows(start, end, m.cursor, func(i int, active bool) string {
		entry, ok := m.state.Posts.Get(ids[i])
		if !ok {
			return ""
		}
		return view.RenderPostLine(view.PostLineParams{Entry: entry, Now: now, Active: active, Width: m.contentWidth()}, m.theme)
	})
}

func (m Model) commentsView() string {
	entry, ok := m.state.Posts.Get(m.commentPostID)
	if !ok {
		return "That post is no longer loaded.\n"
	}
	var b strings.Builder
	header := view.PostHeaderLines(entry, m.contentWidth(), preview.Wrap)
	b.WriteString(strings.Join(header, "\n"))
	b.WriteString("\n\n")

	rows := comments.Flatten(entry.Comments, comments.BuildOptions{Collapsed: m.collapsed})
	if len(rows) == 0 {
		if m.commentsBusy {
			b.WriteString("Loading comments...\n")
		} else {
			b.WriteString("No comments.\n")
		}
		return b.String()
	}
	height := m.listHeight() - len(header) - 1
	if height < 3 {
		height = 3
	}
	start, end := state.CenteredWindow(len(rows), m.commentCursor, height)
	b.WriteString(view.RenderRows(start, end, m.commentCursor, func(i int, active bool) string {
		return view.RenderCommentLine(view.CommentLineParams{
			Row:    rows[i],
			View:   m.commentView(rows[i]),
			Active: active,
			Width:  m.contentWidth(),
		}, m.theme)
	}))
	return b.String()
}

func (m Model) messagePanel() string {
	st := m.feed.Status()
	loading := st.IsLoading || st.IsRefreshing || m.commentsBusy
	return view.CompactMessage(loading, m.err != nil, m.status, errorText(m.err), m.theme)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message()
	}
	return err.Error()
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listHeight() int {
	if m.height > 0 {
		if h := m.height - 7; h > 3 {
			return h
		}
	}
	return 20
}
