package gateway

import (
	"context"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/comments"
)

const (
	defaultPostsLimit      = 25
	defaultCommentDepth    = 5
	defaultCommentsLimit   = 50
	defaultPersonLimit     = 50
	defaultRepliesLimit    = 50
	defaultSearchLimit     = 10
	defaultCommunityLimit  = 15
	defaultListingSortType = api.SortTopDay
)

type PostsOptions struct {
	Type          api.ListingType
	Sort          api.SortType
	Page          int
	Limit         int
	CommunityID   int64
	CommunityName string
	SavedOnly     bool
	// Refresh replaces the feed instead of appending to it.
	Refresh bool
}

type PostsPage struct {
	Posts []api.PostView
	// Added are the ids appended to the feed by this page.
	Added    []int64
	NextPage int
}

func (g *Gateway) postsForm(opts PostsOptions) api.GetPostsForm {
	form := api.GetPostsForm{
		Type:          opts.Type,
		Sort:          opts.Sort,
		Page:          opts.Page,
		Limit:         opts.Limit,
		CommunityID:   opts.CommunityID,
		CommunityName: opts.CommunityName,
		SavedOnly:     opts.SavedOnly,
	}
	if form.Type == "" {
		form.Type = g.settings.Get().DefaultListingType
	}
	if form.Sort == "" {
		form.Sort = defaultListingSortType
	}
	if form.Page < 1 {
		form.Page = 1
	}
	if form.Limit < 1 {
		form.Limit = defaultPostsLimit
	}
	return form
}

// GetPosts fetches one page of a listing. With addToFeed the page is merged
// into feedID and the media of newly cached posts is prefetched.
func (g *Gateway) GetPosts(ctx context.Context, feedID string, opts PostsOptions, addToFeed bool) (*PostsPage, error) {
	const op = "GetPosts"
	form := g.postsForm(opts)
	res, err := call(g, op, func(b api.Backend) (*api.GetPostsResponse, error) {
		return b.GetPosts(ctx, form)
	})
	if err != nil {
		return nil, newError(op, err)
	}
	if err := g.stale(ctx, op); err != nil {
		return nil, newError(op, err)
	}

	page := &PostsPage{Posts: res.Posts, NextPage: form.Page + 1}
	if !addToFeed {
		return page, nil
	}
	merged := g.feeds.MergePage(feedID, res.Posts, form.Page, opts.Refresh)
	page.Added = merged.Added
	page.NextPage = merged.NextPage
	if g.prefetcher != nil && len(merged.ImageURLs) > 0 {
		g.prefetcher.Prefetch(merged.ImageURLs)
	}
	return page, nil
}

func (g *Gateway) GetPost(ctx context.Context, postID int64) (*api.GetPostResponse, bool) {
	res, err := call(g, "GetPost", func(b api.Backend) (*api.GetPostResponse, error) {
		return b.GetPost(ctx, postID)
	})
	if err != nil {
		return nil, false
	}
	return res, true
}

// GetComments fetches the comments of a post, caches them flat and builds
// their tree. With addToPost the post must be cached and receives the tree.
func (g *Gateway) GetComments(ctx context.Context, postID, parentID int64, addToPost bool) ([]*comments.Node, bool) {
	const op = "GetComments"
	if addToPost && !g.state.Posts.Has(postID) {
		g.logger.Warn("comments requested for uncached post", "op", op, "post_id", postID)
		return nil, false
	}
	form := api.GetCommentsForm{
		PostID:   postID,
		ParentID: parentID,
		MaxDepth: defaultCommentDepth,
		Limit:    defaultCommentsLimit,
		Sort:     g.settings.Get().DefaultCommentSort,
	}
	res, err := call(g, op, func(b api.Backend) (*api.GetCommentsResponse, error) {
		return b.GetComments(ctx, form)
	})
	if err != nil || g.stale(ctx, op) != nil {
		return nil, false
	}

	roots := comments.Build(g.state.Comments.Upsert(res.Comments...))
	if addToPost {
		g.state.Posts.SetComments(postID, roots)
	}
	return roots, true
}

func (g *Gateway) GetSite(ctx context.Context) (*api.GetSiteResponse, bool) {
	res, err := call(g, "GetSite", func(b api.Backend) (*api.GetSiteResponse, error) {
		return b.GetSite(ctx)
	})
	if err != nil {
		return nil, false
	}
	g.state.Site.Set(res)
	return res, true
}

func (g *Gateway) GetUnreadCount(ctx context.Context) (*api.GetUnreadCountResponse, bool) {
	res, err := call(g, "GetUnreadCount", func(b api.Backend) (*api.GetUnreadCountResponse, error) {
		return b.GetUnreadCount(ctx)
	})
	if err != nil {
		return nil, false
	}
	return res, true
}

func (g *Gateway) GetCaptcha(ctx context.Context) (*api.CaptchaResponse, bool) {
	res, err := call(g, "GetCaptcha", func(b api.Backend) (*api.GetCaptchaResponse, error) {
		return b.GetCaptcha(ctx)
	})
	if err != nil || res.OK == nil {
		return nil, false
	}
	return res.OK, true
}

func (g *Gateway) GetPersonDetails(ctx context.Context, username string) (*api.GetPersonDetailsResponse, bool) {
	form := api.GetPersonDetailsForm{
		Username: username,
		Sort:     api.SortNew,
		Limit:    defaultPersonLimit,
		Page:     1,
	}
	res, err := call(g, "GetPersonDetails", func(b api.Backend) (*api.GetPersonDetailsResponse, error) {
		return b.GetPersonDetails(ctx, form)
	})
	if err != nil {
		return nil, false
	}
	return res, true
}

func (g *Gateway) GetCommunity(ctx context.Context, name string, addToStore bool) (*api.GetCommunityResponse, bool) {
	res, err := call(g, "GetCommunity", func(b api.Backend) (*api.GetCommunityResponse, error) {
		return b.GetCommunity(ctx, name)
	})
	if err != nil {
		return nil, false
	}
	if addToStore {
		g.state.Communities.Set(name, *res)
	}
	return res, true
}

func (g *Gateway) GetReplies(ctx context.Context, page, limit int) ([]api.CommentReplyView, bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultRepliesLimit
	}
	form := api.GetRepliesForm{Page: page, Limit: limit}
	res, err := call(g, "GetReplies", func(b api.Backend) (*api.GetRepliesResponse, error) {
		return b.GetReplies(ctx, form)
	})
	if err != nil {
		return nil, false
	}
	return res.Replies, true
}

func (g *Gateway) Search(ctx context.Context, form api.SearchForm) (*api.SearchResponse, error) {
	const op = "Search"
	if form.Sort == "" {
		form.Sort = api.SortHot
	}
	if form.Type == "" {
		form.Type = api.SearchAll
	}
	if form.Limit < 1 {
		form.Limit = defaultSearchLimit
	}
	res, err := call(g, op, func(b api.Backend) (*api.SearchResponse, error) {
		return b.Search(ctx, form)
	})
	if err != nil {
		return nil, newError(op, err)
	}
	return res, nil
}

func (g *Gateway) ListCommunities(ctx context.Context, form api.ListCommunitiesForm) ([]api.CommunityView, error) {
	const op = "ListCommunities"
	if form.Sort == "" {
		form.Sort = api.SortTopDay
	}
	if form.Limit < 1 {
		form.Limit = defaultCommunityLimit
	}
	res, err := call(g, op, func(b api.Backend) (*api.ListCommunitiesResponse, error) {
		return b.ListCommunities(ctx, form)
	})
	if err != nil {
		return nil, newError(op, err)
	}
	return res.Communities, nil
}
