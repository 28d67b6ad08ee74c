// Package kbin is the placeholder for the kbin flavor. Every call fails with
// api.ErrUnsupportedFlavor until the flavor is implemented.
package kbin

import (
	"context"
	"fmt"

	"github.com/glabrego/lemmy-cli/internal/api"
)

var _ api.Backend = (*Client)(nil)

type Client struct {
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

func (c *Client) unsupported(op string) error {
	return fmt.Errorf("kbin %s at %s: %w", op, c.baseURL, api.ErrUnsupportedFlavor)
}

func (c *Client) GetSite(context.Context) (*api.GetSiteResponse, error) {
	return nil, c.unsupported("get site")
}

func (c *Client) Login(context.Context, api.LoginForm) (*api.LoginResponse, error) {
	return nil, c.unsupported("login")
}

func (c *Client) Register(context.Context, api.RegisterForm) (*api.LoginResponse, error) {
	return nil, c.unsupported("register")
}

func (c *Client) GetCaptcha(context.Context) (*api.GetCaptchaResponse, error) {
	return nil, c.unsupported("get captcha")
}

func (c *Client) GetPosts(context.Context, api.GetPostsForm) (*api.GetPostsResponse, error) {
	return nil, c.unsupported("list posts")
}

func (c *Client) GetPost(context.Context, int64) (*api.GetPostResponse, error) {
	return nil, c.unsupported("get post")
}

func (c *Client) CreatePost(context.Context, api.CreatePostForm) (*api.PostResponse, error) {
	return nil, c.unsupported("create post")
}

func (c *Client) DeletePost(context.Context, int64, bool) (*api.PostResponse, error) {
	return nil, c.unsupported("delete post")
}

func (c *Client) LikePost(context.Context, int64, int) (*api.PostResponse, error) {
	return nil, c.unsupported("like post")
}

func (c *Client) SavePost(context.Context, int64, bool) (*api.PostResponse, error) {
	return nil, c.unsupported("save post")
}

func (c *Client) MarkPostAsRead(context.Context, int64, bool) error {
	return c.unsupported("mark post as read")
}

func (c *Client) ReportPost(context.Context, int64, string) error {
	return c.unsupported("report post")
}

func (c *Client) GetComments(context.Context, api.GetCommentsForm) (*api.GetCommentsResponse, error) {
	return nil, c.unsupported("list comments")
}

func (c *Client) CreateComment(context.Context, api.CreateCommentForm) (*api.CommentResponse, error) {
	return nil, c.unsupported("create comment")
}

func (c *Client) EditComment(context.Context, int64, string) (*api.CommentResponse, error) {
	return nil, c.unsupported("edit comment")
}

func (c *Client) DeleteComment(context.Context, int64, bool) (*api.CommentResponse, error) {
	return nil, c.unsupported("delete comment")
}

func (c *Client) LikeComment(context.Context, int64, int) (*api.CommentResponse, error) {
	return nil, c.unsupported("like comment")
}

func (c *Client) SaveComment(context.Context, int64, bool) (*api.CommentResponse, error) {
	return nil, c.unsupported("save comment")
}

func (c *Client) ReportComment(context.Context, int64, string) error {
	return c.unsupported("report comment")
}

func (c *Client) GetCommunity(context.Context, string) (*api.GetCommunityResponse, error) {
	return nil, c.unsupported("get community")
}

func (c *Client) FollowCommunity(context.Context, int64, bool) (*api.CommunityResponse, error) {
	return nil, c.unsupported("follow community")
}

func (c *Client) BlockCommunity(context.Context, int64, bool) (*api.BlockCommunityResponse, error) {
	return nil, c.unsupported("block community")
}

func (c *Client) ListCommunities(context.Context, api.ListCommunitiesForm) (*api.ListCommunitiesResponse, error) {
	return nil, c.unsupported("list communities")
}

func (c *Client) GetPersonDetails(context.Context, api.GetPersonDetailsForm) (*api.GetPersonDetailsResponse, error) {
	return nil, c.unsupported("get person details")
}

func (c *Client) BlockPerson(context.Context, int64, bool) (*api.BlockPersonResponse, error) {
	return nil, c.unsupported("block person")
}

func (c *Client) GetReplies(context.Context, api.GetRepliesForm) (*api.GetRepliesResponse, error) {
	return nil, c.unsupported("list replies")
}

func (c *Client) GetUnreadCount(context.Context) (*api.GetUnreadCountResponse, error) {
	return nil, c.unsupported("get unread count")
}

func (c *Client) Search(context.Context, api.SearchForm) (*api.SearchResponse, error) {
	return nil, c.unsupported("search")
}

func (c *Client) Close() error {
	return nil
}
