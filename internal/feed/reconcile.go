// Package feed merges fetched pages of posts into the shared post cache and
// the per-feed id lists.
package feed

import (
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/preview"
	"github.com/glabrego/lemmy-cli/internal/store"
)

// Recorder observes merges.
type Recorder interface {
	RecordPostsMerged(count int)
}

type Reconciler struct {
	posts    *store.PostStore
	feeds    *store.FeedStore
	logger   *slog.Logger
	recorder Recorder
}

func NewReconciler(posts *store.PostStore, feeds *store.FeedStore, logger *slog.Logger, recorder Recorder) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{posts: posts, feeds: feeds, logger: logger, recorder: recorder}
}

type MergeResult struct {
	// Added are the ids appended to the feed, in page order.
	Added []int64
	// Inserted counts posts that were not cached before this merge.
	Inserted int
	// ImageURLs are media of newly cached posts worth prefetching.
	ImageURLs []string
	NextPage  int
}

// MergePage folds one fetched page into feedID. A refresh resets the feed's
// id list and releases only the posts missing from the new page, so posts
// that stay keep their cached state. Other feeds keep their cached posts.
func (r *Reconciler) MergePage(feedID string, posts []api.PostView, page int, refresh bool) MergeResult {
	if refresh {
		fetched := lo.Map(posts, func(v api.PostView, _ int) int64 { return v.Post.ID })
		r.release(feedID, lo.Without(r.feeds.Reset(feedID), fetched...))
	}

	res := MergeResult{NextPage: page + 1}
	ids := make([]int64, 0, len(posts))
	for _, view := range posts {
		d := preview.Derive(view)
		inserted := r.posts.Adopt(feedID, store.PostEntry{
			View:    view,
			Link:    d.Link,
			Preview: d.Preview,
		})
		if inserted {
			res.Inserted++
			if img := preview.ImageURL(view, d.Link); img != "" {
				res.ImageURLs = append(res.ImageURLs, img)
			}
		}
		ids = append(ids, view.Post.ID)
	}
	res.Added = r.feeds.Append(feedID, ids, res.NextPage)

	if r.recorder != nil {
		r.recorder.RecordPostsMerged(len(res.Added))
	}
	r.logger.Debug("merged feed page",
		"feed", feedID,
		"page", page,
		"refresh", refresh,
		"added", len(res.Added),
		"inserted", res.Inserted,
	)
	return res
}

// Release forgets feedID and evicts posts no other feed references. Views
// call it when they are torn down.
func (r *Reconciler) Release(feedID string) int {
	return r.release(feedID, r.feeds.Remove(feedID))
}

func (r *Reconciler) release(feedID string, ids []int64) int {
	evicted := 0
	for _, id := range ids {
		if r.posts.Release(id, feedID) {
			evicted++
		}
	}
	return evicted
}

// NextPage returns the page an append on feedID should request.
func (r *Reconciler) NextPage(feedID string) int {
	f, _ := r.feeds.Get(feedID)
	if f.NextPage < 1 {
		return 1
	}
	return f.NextPage
}

// Key builds a feed id from a route name and its parameters. Parameters are
// sorted so equivalent listings share a key.
func Key(route string, params url.Values) string {
	if len(params) == 0 {
		return route
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(route)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.Join(vals, ",")))
	}
	return b.String()
}
