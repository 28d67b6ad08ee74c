// Package api defines the contract every backend flavor implements and the
// wire types shared between them.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Flavor names a backend implementation family.
type Flavor string

const (
	FlavorLemmy Flavor = "lemmy"
	FlavorKbin  Flavor = "kbin"
)

func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case "", FlavorLemmy:
		return FlavorLemmy, nil
	case FlavorKbin:
		return FlavorKbin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFlavor, s)
	}
}

// Protocol is the remote API generation detected by the site probe.
type Protocol int

const (
	// ProtocolV018 carries the auth token in query and body fields.
	ProtocolV018 Protocol = iota
	// ProtocolV019 carries the auth token only in the Authorization header.
	ProtocolV019
)

func (p Protocol) String() string {
	if p == ProtocolV019 {
		return "v0.19"
	}
	return "v0.18"
}

// ProtocolFromVersion maps a reported server version to a protocol generation.
func ProtocolFromVersion(version string) Protocol {
	if strings.Contains(version, ".19") {
		return ProtocolV019
	}
	return ProtocolV018
}

// Remote error codes the client branches on.
const (
	CodeCaptchaIncorrect = "captcha_incorrect"
	CodeMissingTOTP      = "missing_totp_token"
	CodeIncorrectLogin   = "incorrect_login"
)

var ErrUnsupportedFlavor = errors.New("unsupported backend flavor")

// APIError is a non-2xx response from the remote.
type APIError struct {
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Code)
}

// ErrorCode extracts the remote error code from err, if any.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given remote error code.
func HasCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// Backend is one remote server speaking a specific flavor of the API.
type Backend interface {
	GetSite(ctx context.Context) (*GetSiteResponse, error)
	Login(ctx context.Context, form LoginForm) (*LoginResponse, error)
	Register(ctx context.Context, form RegisterForm) (*LoginResponse, error)
	GetCaptcha(ctx context.Context) (*GetCaptchaResponse, error)

	GetPosts(ctx context.Context, form GetPostsForm) (*GetPostsResponse, error)
	GetPost(ctx context.Context, postID int64) (*GetPostResponse, error)
	CreatePost(ctx context.Context, form CreatePostForm) (*PostResponse, error)
	DeletePost(ctx context.Context, postID int64, deleted bool) (*PostResponse, error)
	LikePost(ctx context.Context, postID int64, score int) (*PostResponse, error)
	SavePost(ctx context.Context, postID int64, save bool) (*PostResponse, error)
	MarkPostAsRead(ctx context.Context, postID int64, read bool) error
	ReportPost(ctx context.Context, postID int64, reason string) error

	GetComments(ctx context.Context, form GetCommentsForm) (*GetCommentsResponse, error)
	CreateComment(ctx context.Context, form CreateCommentForm) (*CommentResponse, error)
	EditComment(ctx context.Context, commentID int64, content string) (*CommentResponse, error)
	DeleteComment(ctx context.Context, commentID int64, deleted bool) (*CommentResponse, error)
	LikeComment(ctx context.Context, commentID int64, score int) (*CommentResponse, error)
	SaveComment(ctx context.Context, commentID int64, save bool) (*CommentResponse, error)
	ReportComment(ctx context.Context, commentID int64, reason string) error

	GetCommunity(ctx context.Context, name string) (*GetCommunityResponse, error)
	FollowCommunity(ctx context.Context, communityID int64, follow bool) (*CommunityResponse, error)
	BlockCommunity(ctx context.Context, communityID int64, block bool) (*BlockCommunityResponse, error)
	ListCommunities(ctx context.Context, form ListCommunitiesForm) (*ListCommunitiesResponse, error)

	GetPersonDetails(ctx context.Context, form GetPersonDetailsForm) (*GetPersonDetailsResponse, error)
	BlockPerson(ctx context.Context, personID int64, block bool) (*BlockPersonResponse, error)
	GetReplies(ctx context.Context, form GetRepliesForm) (*GetRepliesResponse, error)
	GetUnreadCount(ctx context.Context) (*GetUnreadCountResponse, error)

	Search(ctx context.Context, form SearchForm) (*SearchResponse, error)

	Close() error
}

// ProtocolSetter is implemented by backends whose request shape depends on
// the detected protocol generation.
type ProtocolSetter interface {
	SetProtocol(p Protocol)
}
