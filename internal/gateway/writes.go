package gateway

import (
	"context"
	"errors"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/vote"
)

// VoteSend transmits a vote that was already applied to the cache.
type VoteSend func(ctx context.Context) (vote.Metrics, error)

// StartLikePost applies a vote to a cached post right away and returns the
// optimistic counters with the function that sends it. A failed send
// restores the counters.
func (g *Gateway) StartLikePost(postID int64, requested int) (vote.Metrics, VoteSend, error) {
	const op = "LikePost"
	target := postTarget{posts: g.state.Posts, id: postID}
	return g.startVote(op, "post", target, requested, func(ctx context.Context, effective int) error {
		_, err := call(g, op, func(b api.Backend) (*api.PostResponse, error) {
			return b.LikePost(ctx, postID, effective)
		})
		return err
	})
}

func (g *Gateway) StartLikeComment(commentID int64, requested int) (vote.Metrics, VoteSend, error) {
	const op = "LikeComment"
	target := commentTarget{comments: g.state.Comments, id: commentID}
	return g.startVote(op, "comment", target, requested, func(ctx context.Context, effective int) error {
		_, err := call(g, op, func(b api.Backend) (*api.CommentResponse, error) {
			return b.LikeComment(ctx, commentID, effective)
		})
		return err
	})
}

func (g *Gateway) startVote(op, kind string, target vote.Target, requested int, send vote.Sender) (vote.Metrics, VoteSend, error) {
	p, err := g.votes.Begin(kind, target, requested, send)
	if err != nil {
		m, _ := target.Load()
		return m, nil, newError(op, err)
	}
	return p.Metrics(), func(ctx context.Context) (vote.Metrics, error) {
		m, err := p.Send(ctx)
		if err != nil {
			return m, newError(op, err)
		}
		return m, nil
	}, nil
}

// LikePost votes on a cached post. The counters change immediately and are
// restored if the server rejects the vote.
func (g *Gateway) LikePost(ctx context.Context, postID int64, requested int) (vote.Metrics, error) {
	m, send, err := g.StartLikePost(postID, requested)
	if err != nil {
		return m, err
	}
	return send(ctx)
}

func (g *Gateway) LikeComment(ctx context.Context, commentID int64, requested int) (vote.Metrics, error) {
	m, send, err := g.StartLikeComment(commentID, requested)
	if err != nil {
		return m, err
	}
	return send(ctx)
}

// CreatePost submits a new post. An unset language is sent as 0, which the
// server reads as "undetermined".
func (g *Gateway) CreatePost(ctx context.Context, form api.CreatePostForm) (*api.PostView, error) {
	const op = "CreatePost"
	if form.LanguageID < 0 {
		form.LanguageID = 0
	}
	res, err := call(g, op, func(b api.Backend) (*api.PostResponse, error) {
		return b.CreatePost(ctx, form)
	})
	if err != nil {
		return nil, newError(op, err)
	}
	return &res.PostView, nil
}

func (g *Gateway) CreateComment(ctx context.Context, form api.CreateCommentForm) (*api.CommentView, error) {
	const op = "CreateComment"
	res, err := call(g, op, func(b api.Backend) (*api.CommentResponse, error) {
		return b.CreateComment(ctx, form)
	})
	if err != nil {
		return nil, newError(op, err)
	}
	g.state.Comments.Upsert(res.CommentView)
	return &res.CommentView, nil
}

func (g *Gateway) SavePost(ctx context.Context, postID int64, save bool) bool {
	_, err := call(g, "SavePost", func(b api.Backend) (*api.PostResponse, error) {
		return b.SavePost(ctx, postID, save)
	})
	if err != nil {
		return false
	}
	g.state.Posts.UpdateView(postID, func(v *api.PostView) { v.Saved = save })
	return true
}

func (g *Gateway) SaveComment(ctx context.Context, commentID int64, save bool) bool {
	_, err := call(g, "SaveComment", func(b api.Backend) (*api.CommentResponse, error) {
		return b.SaveComment(ctx, commentID, save)
	})
	if err != nil {
		return false
	}
	g.state.Comments.Update(commentID, func(v *api.CommentView) { v.Saved = save })
	return true
}

func (g *Gateway) MarkPostRead(ctx context.Context, postID int64, read bool) bool {
	_, err := call(g, "MarkPostRead", func(b api.Backend) (struct{}, error) {
		return struct{}{}, b.MarkPostAsRead(ctx, postID, read)
	})
	if err != nil {
		return false
	}
	g.state.Posts.UpdateView(postID, func(v *api.PostView) { v.Read = read })
	return true
}

func (g *Gateway) SubscribeCommunity(ctx context.Context, communityID int64, follow bool) bool {
	res, err := call(g, "SubscribeCommunity", func(b api.Backend) (*api.CommunityResponse, error) {
		return b.FollowCommunity(ctx, communityID, follow)
	})
	if err != nil {
		return false
	}
	name := res.CommunityView.Community.Name
	if cached, ok := g.state.Communities.Get(name); ok {
		cached.CommunityView.Subscribed = res.CommunityView.Subscribed
		g.state.Communities.Set(name, cached)
	}
	return true
}

func (g *Gateway) BlockCommunity(ctx context.Context, communityID int64, block bool) bool {
	_, err := call(g, "BlockCommunity", func(b api.Backend) (*api.BlockCommunityResponse, error) {
		return b.BlockCommunity(ctx, communityID, block)
	})
	return err == nil
}

func (g *Gateway) BlockUser(ctx context.Context, personID int64, block bool) bool {
	_, err := call(g, "BlockUser", func(b api.Backend) (*api.BlockPersonResponse, error) {
		return b.BlockPerson(ctx, personID, block)
	})
	return err == nil
}

func (g *Gateway) ReportPost(ctx context.Context, postID int64, reason string) bool {
	_, err := call(g, "ReportPost", func(b api.Backend) (struct{}, error) {
		return struct{}{}, b.ReportPost(ctx, postID, reason)
	})
	return err == nil
}

func (g *Gateway) ReportComment(ctx context.Context, commentID int64, reason string) bool {
	_, err := call(g, "ReportComment", func(b api.Backend) (struct{}, error) {
		return struct{}{}, b.ReportComment(ctx, commentID, reason)
	})
	return err == nil
}

func (g *Gateway) EditComment(ctx context.Context, commentID int64, content string) bool {
	res, err := call(g, "EditComment", func(b api.Backend) (*api.CommentResponse, error) {
		return b.EditComment(ctx, commentID, content)
	})
	if err != nil {
		return false
	}
	g.state.Comments.Update(commentID, func(v *api.CommentView) {
		v.Comment.Content = res.CommentView.Comment.Content
	})
	return true
}

func (g *Gateway) DeletePost(ctx context.Context, postID int64, deleted bool) bool {
	_, err := call(g, "DeletePost", func(b api.Backend) (*api.PostResponse, error) {
		return b.DeletePost(ctx, postID, deleted)
	})
	if err != nil {
		return false
	}
	g.state.Posts.UpdateView(postID, func(v *api.PostView) { v.Post.Deleted = deleted })
	return true
}

func (g *Gateway) DeleteComment(ctx context.Context, commentID int64, deleted bool) bool {
	_, err := call(g, "DeleteComment", func(b api.Backend) (*api.CommentResponse, error) {
		return b.DeleteComment(ctx, commentID, deleted)
	})
	if err != nil {
		return false
	}
	g.state.Comments.Update(commentID, func(v *api.CommentView) { v.Comment.Deleted = deleted })
	return true
}

// IsRollback reports whether err came from a vote whose local change was
// reverted.
func IsRollback(err error) bool {
	var rb *vote.RollbackError
	return errors.As(err, &rb)
}
