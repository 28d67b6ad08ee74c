package gateway

import (
	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/store"
	"github.com/glabrego/lemmy-cli/internal/vote"
)

func metricsOf(c api.Counts, myVote int) vote.Metrics {
	return vote.Metrics{Score: c.Score, Upvotes: c.Upvotes, Downvotes: c.Downvotes, MyVote: myVote}
}

func applyMetrics(c *api.Counts, myVote *int, m vote.Metrics) {
	c.Score = m.Score
	c.Upvotes = m.Upvotes
	c.Downvotes = m.Downvotes
	*myVote = m.MyVote
}

type postTarget struct {
	posts *store.PostStore
	id    int64
}

func (t postTarget) Load() (vote.Metrics, bool) {
	e, ok := t.posts.Get(t.id)
	if !ok {
		return vote.Metrics{}, false
	}
	return metricsOf(e.View.Counts, e.View.MyVote), true
}

func (t postTarget) Store(m vote.Metrics) bool {
	return t.posts.UpdateView(t.id, func(v *api.PostView) {
		applyMetrics(&v.Counts, &v.MyVote, m)
	})
}

type commentTarget struct {
	comments *store.CommentStore
	id       int64
}

func (t commentTarget) Load() (vote.Metrics, bool) {
	v, ok := t.comments.Get(t.id)
	if !ok {
		return vote.Metrics{}, false
	}
	return metricsOf(v.Counts, v.MyVote), true
}

func (t commentTarget) Store(m vote.Metrics) bool {
	return t.comments.Update(t.id, func(v *api.CommentView) {
		applyMetrics(&v.Counts, &v.MyVote, m)
	})
}
