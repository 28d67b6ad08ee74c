package api

import (
	"net/url"
	"strconv"
)

// Request forms. Zero values are left off the wire so the server
// applies its own defaults.

type LoginForm struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
	TOTP2FAToken    string `json:"totp_2fa_token,omitempty"`
}

type RegisterForm struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	PasswordVerify string `json:"password_verify"`
	ShowNSFW       bool   `json:"show_nsfw"`
	Email          string `json:"email,omitempty"`
	CaptchaUUID    string `json:"captcha_uuid,omitempty"`
	CaptchaAnswer  string `json:"captcha_answer,omitempty"`
	Answer         string `json:"answer,omitempty"`
}

type GetPostsForm struct {
	Type          ListingType
	Sort          SortType
	Page          int
	Limit         int
	CommunityID   int64
	CommunityName string
	SavedOnly     bool
}

func (f GetPostsForm) Values() url.Values {
	q := make(url.Values)
	setString(q, "type_", string(f.Type))
	setString(q, "sort", string(f.Sort))
	setInt(q, "page", int64(f.Page))
	setInt(q, "limit", int64(f.Limit))
	setInt(q, "community_id", f.CommunityID)
	setString(q, "community_name", f.CommunityName)
	setBool(q, "saved_only", f.SavedOnly)
	return q
}

type GetCommentsForm struct {
	PostID   int64
	ParentID int64
	MaxDepth int
	Limit    int
	Page     int
	Sort     CommentSortType
	Type     ListingType
}

func (f GetCommentsForm) Values() url.Values {
	q := make(url.Values)
	setInt(q, "post_id", f.PostID)
	setInt(q, "parent_id", f.ParentID)
	setInt(q, "max_depth", int64(f.MaxDepth))
	setInt(q, "limit", int64(f.Limit))
	setInt(q, "page", int64(f.Page))
	setString(q, "sort", string(f.Sort))
	setString(q, "type_", string(f.Type))
	return q
}

type GetPersonDetailsForm struct {
	PersonID  int64
	Username  string
	Sort      SortType
	Page      int
	Limit     int
	SavedOnly bool
}

func (f GetPersonDetailsForm) Values() url.Values {
	q := make(url.Values)
	setInt(q, "person_id", f.PersonID)
	setString(q, "username", f.Username)
	setString(q, "sort", string(f.Sort))
	setInt(q, "page", int64(f.Page))
	setInt(q, "limit", int64(f.Limit))
	setBool(q, "saved_only", f.SavedOnly)
	return q
}

type GetRepliesForm struct {
	Sort       CommentSortType
	Page       int
	Limit      int
	UnreadOnly bool
}

func (f GetRepliesForm) Values() url.Values {
	q := make(url.Values)
	setString(q, "sort", string(f.Sort))
	setInt(q, "page", int64(f.Page))
	setInt(q, "limit", int64(f.Limit))
	setBool(q, "unread_only", f.UnreadOnly)
	return q
}

type SearchForm struct {
	Q             string
	Type          SearchType
	Sort          SortType
	ListingType   ListingType
	CommunityID   int64
	CommunityName string
	Page          int
	Limit         int
}

func (f SearchForm) Values() url.Values {
	q := make(url.Values)
	setString(q, "q", f.Q)
	setString(q, "type_", string(f.Type))
	setString(q, "sort", string(f.Sort))
	setString(q, "listing_type", string(f.ListingType))
	setInt(q, "community_id", f.CommunityID)
	setString(q, "community_name", f.CommunityName)
	setInt(q, "page", int64(f.Page))
	setInt(q, "limit", int64(f.Limit))
	return q
}

type ListCommunitiesForm struct {
	Type  ListingType
	Sort  SortType
	Page  int
	Limit int
}

func (f ListCommunitiesForm) Values() url.Values {
	q := make(url.Values)
	setString(q, "type_", string(f.Type))
	setString(q, "sort", string(f.Sort))
	setInt(q, "page", int64(f.Page))
	setInt(q, "limit", int64(f.Limit))
	return q
}

type CreatePostForm struct {
	Name        string `json:"name"`
	CommunityID int64  `json:"community_id"`
	URL         string `json:"url,omitempty"`
	Body        string `json:"body,omitempty"`
	NSFW        bool   `json:"nsfw"`
	LanguageID  int64  `json:"language_id"`
}

type CreateCommentForm struct {
	Content  string `json:"content"`
	PostID   int64  `json:"post_id"`
	ParentID int64  `json:"parent_id,omitempty"`
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int64) {
	if value != 0 {
		q.Set(key, strconv.FormatInt(value, 10))
	}
}

func setBool(q url.Values, key string, value bool) {
	if value {
		q.Set(key, "true")
	}
}
