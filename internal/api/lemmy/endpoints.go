package lemmy

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/glabrego/lemmy-cli/internal/api"
)

func (c *Client) GetSite(ctx context.Context) (*api.GetSiteResponse, error) {
	var out api.GetSiteResponse
	if err := c.get(ctx, "get site", "/site", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, form api.LoginForm) (*api.LoginResponse, error) {
	var out api.LoginResponse
	if err := c.send(ctx, http.MethodPost, "login", "/user/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, form api.RegisterForm) (*api.LoginResponse, error) {
	var out api.LoginResponse
	if err := c.send(ctx, http.MethodPost, "register", "/user/register", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCaptcha(ctx context.Context) (*api.GetCaptchaResponse, error) {
	var out api.GetCaptchaResponse
	if err := c.get(ctx, "get captcha", "/user/get_captcha", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPosts(ctx context.Context, form api.GetPostsForm) (*api.GetPostsResponse, error) {
	var out api.GetPostsResponse
	if err := c.get(ctx, "list posts", "/post/list", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPost(ctx context.Context, postID int64) (*api.GetPostResponse, error) {
	var out api.GetPostResponse
	if err := c.get(ctx, "get post", "/post", idQuery(postID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, form api.CreatePostForm) (*api.PostResponse, error) {
	var out api.PostResponse
	if err := c.send(ctx, http.MethodPost, "create post", "/post", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int64, deleted bool) (*api.PostResponse, error) {
	body := map[string]any{"post_id": postID, "deleted": deleted}
	var out api.PostResponse
	if err := c.send(ctx, http.MethodPost, "delete post", "/post/delete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LikePost(ctx context.Context, postID int64, score int) (*api.PostResponse, error) {
	body := map[string]any{"post_id": postID, "score": score}
	var out api.PostResponse
	if err := c.send(ctx, http.MethodPost, "like post", "/post/like", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SavePost(ctx context.Context, postID int64, save bool) (*api.PostResponse, error) {
	body := map[string]any{"post_id": postID, "save": save}
	var out api.PostResponse
	if err := c.send(ctx, http.MethodPut, "save post", "/post/save", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkPostAsRead(ctx context.Context, postID int64, read bool) error {
	body := map[string]any{"post_id": postID, "read": read}
	return c.send(ctx, http.MethodPost, "mark post as read", "/post/mark_as_read", body, nil)
}

func (c *Client) ReportPost(ctx context.Context, postID int64, reason string) error {
	body := map[string]any{"post_id": postID, "reason": reason}
	return c.send(ctx, http.MethodPost, "report post", "/post/report", body, nil)
}

func (c *Client) GetComments(ctx context.Context, form api.GetCommentsForm) (*api.GetCommentsResponse, error) {
	var out api.GetCommentsResponse
	if err := c.get(ctx, "list comments", "/comment/list", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateComment(ctx context.Context, form api.CreateCommentForm) (*api.CommentResponse, error) {
	var out api.CommentResponse
	if err := c.send(ctx, http.MethodPost, "create comment", "/comment", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditComment(ctx context.Context, commentID int64, content string) (*api.CommentResponse, error) {
	body := map[string]any{"comment_id": commentID, "content": content}
	var out api.CommentResponse
	if err := c.send(ctx, http.MethodPut, "edit comment", "/comment", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64, deleted bool) (*api.CommentResponse, error) {
	body := map[string]any{"comment_id": commentID, "deleted": deleted}
	var out api.CommentResponse
	if err := c.send(ctx, http.MethodPost, "delete comment", "/comment/delete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LikeComment(ctx context.Context, commentID int64, score int) (*api.CommentResponse, error) {
	body := map[string]any{"comment_id": commentID, "score": score}
	var out api.CommentResponse
	if err := c.send(ctx, http.MethodPost, "like comment", "/comment/like", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveComment(ctx context.Context, commentID int64, save bool) (*api.CommentResponse, error) {
	body := map[string]any{"comment_id": commentID, "save": save}
	var out api.CommentResponse
	if err := c.send(ctx, http.MethodPut, "save comment", "/comment/save", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReportComment(ctx context.Context, commentID int64, reason string) error {
	body := map[string]any{"comment_id": commentID, "reason": reason}
	return c.send(ctx, http.MethodPost, "report comment", "/comment/report", body, nil)
}

func (c *Client) GetCommunity(ctx context.Context, name string) (*api.GetCommunityResponse, error) {
	q := make(url.Values)
	q.Set("name", name)
	var out api.GetCommunityResponse
	if err := c.get(ctx, "get community", "/community", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FollowCommunity(ctx context.Context, communityID int64, follow bool) (*api.CommunityResponse, error) {
	body := map[string]any{"community_id": communityID, "follow": follow}
	var out api.CommunityResponse
	if err := c.send(ctx, http.MethodPost, "follow community", "/community/follow", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BlockCommunity(ctx context.Context, communityID int64, block bool) (*api.BlockCommunityResponse, error) {
	body := map[string]any{"community_id": communityID, "block": block}
	var out api.BlockCommunityResponse
	if err := c.send(ctx, http.MethodPost, "block community", "/community/block", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCommunities(ctx context.Context, form api.ListCommunitiesForm) (*api.ListCommunitiesResponse, error) {
	var out api.ListCommunitiesResponse
	if err := c.get(ctx, "list communities", "/community/list", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPersonDetails(ctx context.Context, form api.GetPersonDetailsForm) (*api.GetPersonDetailsResponse, error) {
	var out api.GetPersonDetailsResponse
	if err := c.get(ctx, "get person details", "/user", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BlockPerson(ctx context.Context, personID int64, block bool) (*api.BlockPersonResponse, error) {
	body := map[string]any{"person_id": personID, "block": block}
	var out api.BlockPersonResponse
	if err := c.send(ctx, http.MethodPost, "block person", "/user/block", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReplies(ctx context.Context, form api.GetRepliesForm) (*api.GetRepliesResponse, error) {
	var out api.GetRepliesResponse
	if err := c.get(ctx, "list replies", "/user/replies", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUnreadCount(ctx context.Context) (*api.GetUnreadCountResponse, error) {
	var out api.GetUnreadCountResponse
	if err := c.get(ctx, "get unread count", "/user/unread_count", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, form api.SearchForm) (*api.SearchResponse, error) {
	var out api.SearchResponse
	if err := c.get(ctx, "search", "/search", form.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func idQuery(id int64) url.Values {
	q := make(url.Values)
	q.Set("id", strconv.FormatInt(id, 10))
	return q
}
