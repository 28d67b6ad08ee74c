package actions

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/gateway"
	"github.com/glabrego/lemmy-cli/internal/loader"
	"github.com/glabrego/lemmy-cli/internal/vote"
)

// Gateway is the part of the remote gateway the terminal front end drives.
type Gateway interface {
	GetPosts(ctx context.Context, feedID string, opts gateway.PostsOptions, addToFeed bool) (*gateway.PostsPage, error)
	GetComments(ctx context.Context, postID, parentID int64, addToPost bool) ([]*comments.Node, bool)
	StartLikePost(postID int64, requested int) (vote.Metrics, gateway.VoteSend, error)
	StartLikeComment(commentID int64, requested int) (vote.Metrics, gateway.VoteSend, error)
	SavePost(ctx context.Context, postID int64, save bool) bool
	SaveComment(ctx context.Context, commentID int64, save bool) bool
	MarkPostRead(ctx context.Context, postID int64, read bool) bool
	ReleaseFeed(feedID string) int
}

const actionTimeout = 10 * time.Second

type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

type VoteSuccessMsg struct {
	Kind    Kind
	ID      int64
	Metrics vote.Metrics
}

type VoteErrorMsg struct {
	Kind Kind
	ID   int64
	Err  error
}

type SaveResultMsg struct {
	Kind  Kind
	ID    int64
	Saved bool
	OK    bool
}

type CommentsLoadedMsg struct {
	PostID int64
	Count  int
	OK     bool
}

// FeedFetch adapts the gateway to a loader. The loader's context is the
// request context, so cancelling the cycle drops the merge.
func FeedFetch(gw Gateway, feedID string, base gateway.PostsOptions) loader.FetchFunc[int64] {
	return func(ctx context.Context, page int, refresh bool) ([]int64, error) {
		opts := base
		opts.Page = page
		opts.Refresh = refresh
		res, err := gw.GetPosts(ctx, feedID, opts, true)
		if err != nil {
			return nil, err
		}
		return res.Added, nil
	}
}

// StartVote applies the vote to the cache before returning, so the next
// render shows it, and returns the command that sends it.
func StartVote(gw Gateway, kind Kind, id int64, requested int) tea.Cmd {
	var (
		send gateway.VoteSend
		err  error
	)
	if kind == KindComment {
		_, send, err = gw.StartLikeComment(id, requested)
	} else {
		_, send, err = gw.StartLikePost(id, requested)
	}
	if err != nil {
		return func() tea.Msg { return VoteErrorMsg{Kind: kind, ID: id, Err: err} }
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		m, err := send(ctx)
		if err != nil {
			return VoteErrorMsg{Kind: kind, ID: id, Err: err}
		}
		return VoteSuccessMsg{Kind: kind, ID: id, Metrics: m}
	}
}

func SaveCmd(gw Gateway, kind Kind, id int64, save bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		var ok bool
		if kind == KindComment {
			ok = gw.SaveComment(ctx, id, save)
		} else {
			ok = gw.SavePost(ctx, id, save)
		}
		return SaveResultMsg{Kind: kind, ID: id, Saved: save, OK: ok}
	}
}

// LoadCommentsCmd fetches a post's comments and marks the post as read.
func LoadCommentsCmd(gw Gateway, postID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		roots, ok := gw.GetComments(ctx, postID, 0, true)
		if ok {
			gw.MarkPostRead(ctx, postID, true)
		}
		return CommentsLoadedMsg{PostID: postID, Count: comments.Count(roots), OK: ok}
	}
}
