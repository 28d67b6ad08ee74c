package api

// SortType orders post listings.
type SortType string

const (
	SortActive       SortType = "Active"
	SortHot          SortType = "Hot"
	SortNew          SortType = "New"
	SortOld          SortType = "Old"
	SortTopDay       SortType = "TopDay"
	SortTopWeek      SortType = "TopWeek"
	SortTopMonth     SortType = "TopMonth"
	SortTopYear      SortType = "TopYear"
	SortTopAll       SortType = "TopAll"
	SortMostComments SortType = "MostComments"
	SortNewComments  SortType = "NewComments"
)

// ListingType selects which communities a listing draws from.
type ListingType string

const (
	ListingAll        ListingType = "All"
	ListingLocal      ListingType = "Local"
	ListingSubscribed ListingType = "Subscribed"
)

type CommentSortType string

const (
	CommentSortHot CommentSortType = "Hot"
	CommentSortTop CommentSortType = "Top"
	CommentSortNew CommentSortType = "New"
	CommentSortOld CommentSortType = "Old"
)

type SearchType string

const (
	SearchAll         SearchType = "All"
	SearchComments    SearchType = "Comments"
	SearchPosts       SearchType = "Posts"
	SearchCommunities SearchType = "Communities"
	SearchUsers       SearchType = "Users"
	SearchURL         SearchType = "Url"
)

// Person is the subset of user fields the client renders.
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	ActorID     string `json:"actor_id"`
	Local       bool   `json:"local"`
	BotAccount  bool   `json:"bot_account"`
}

type Community struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Icon    string `json:"icon,omitempty"`
	ActorID string `json:"actor_id"`
	NSFW    bool   `json:"nsfw"`
	Local   bool   `json:"local"`
}

type Post struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	Body         string `json:"body,omitempty"`
	CreatorID    int64  `json:"creator_id"`
	CommunityID  int64  `json:"community_id"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	NSFW         bool   `json:"nsfw"`
	Deleted      bool   `json:"deleted"`
	Removed      bool   `json:"removed"`
	Locked       bool   `json:"locked"`
	Published    string `json:"published"`
	LanguageID   int64  `json:"language_id"`
}

// Counts are the aggregate counters attached to posts and comments.
type Counts struct {
	Score      int `json:"score"`
	Upvotes    int `json:"upvotes"`
	Downvotes  int `json:"downvotes"`
	Comments   int `json:"comments"`
	ChildCount int `json:"child_count"`
}

// PostView is a post together with the viewer-specific state the server attaches to it.
type PostView struct {
	Post           Post      `json:"post"`
	Creator        Person    `json:"creator"`
	Community      Community `json:"community"`
	Counts         Counts    `json:"counts"`
	MyVote         int       `json:"my_vote"`
	Saved          bool      `json:"saved"`
	Read           bool      `json:"read"`
	UnreadComments int       `json:"unread_comments"`
}

type Comment struct {
	ID        int64  `json:"id"`
	CreatorID int64  `json:"creator_id"`
	PostID    int64  `json:"post_id"`
	Content   string `json:"content"`
	Path      string `json:"path"`
	Deleted   bool   `json:"deleted"`
	Removed   bool   `json:"removed"`
	Published string `json:"published"`
}

type CommentView struct {
	Comment   Comment   `json:"comment"`
	Creator   Person    `json:"creator"`
	Post      Post      `json:"post"`
	Community Community `json:"community"`
	Counts    Counts    `json:"counts"`
	MyVote    int       `json:"my_vote"`
	Saved     bool      `json:"saved"`
}

type CommentReply struct {
	ID        int64 `json:"id"`
	CommentID int64 `json:"comment_id"`
	Read      bool  `json:"read"`
}

type CommentReplyView struct {
	CommentReply CommentReply `json:"comment_reply"`
	Comment      Comment      `json:"comment"`
	Creator      Person       `json:"creator"`
	Post         Post         `json:"post"`
	Community    Community    `json:"community"`
	Counts       Counts       `json:"counts"`
	MyVote       int          `json:"my_vote"`
}

type CommunityCounts struct {
	Subscribers int `json:"subscribers"`
	Posts       int `json:"posts"`
	Comments    int `json:"comments"`
}

type CommunityView struct {
	Community  Community       `json:"community"`
	Subscribed string          `json:"subscribed"`
	Blocked    bool            `json:"blocked"`
	Counts     CommunityCounts `json:"counts"`
}

type PersonCounts struct {
	PostCount    int `json:"post_count"`
	CommentCount int `json:"comment_count"`
}

type PersonView struct {
	Person Person       `json:"person"`
	Counts PersonCounts `json:"counts"`
}

type Site struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ActorID     string `json:"actor_id"`
}

type SiteView struct {
	Site Site `json:"site"`
}

type Language struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type CommunityFollowerView struct {
	Community Community `json:"community"`
	Follower  Person    `json:"follower"`
}

type LocalUserView struct {
	Person Person `json:"person"`
}

type MyUserInfo struct {
	LocalUserView LocalUserView           `json:"local_user_view"`
	Follows       []CommunityFollowerView `json:"follows"`
}

type GetSiteResponse struct {
	SiteView     SiteView    `json:"site_view"`
	Version      string      `json:"version"`
	MyUser       *MyUserInfo `json:"my_user,omitempty"`
	AllLanguages []Language  `json:"all_languages"`
}

type LoginResponse struct {
	JWT                 *string `json:"jwt"`
	RegistrationCreated bool    `json:"registration_created"`
	VerifyEmailSent     bool    `json:"verify_email_sent"`
}

type CaptchaResponse struct {
	PNG  string `json:"png"`
	WAV  string `json:"wav,omitempty"`
	UUID string `json:"uuid"`
}

type GetCaptchaResponse struct {
	OK *CaptchaResponse `json:"ok,omitempty"`
}

type GetPostsResponse struct {
	Posts []PostView `json:"posts"`
}

type GetPostResponse struct {
	PostView      PostView      `json:"post_view"`
	CommunityView CommunityView `json:"community_view"`
}

type PostResponse struct {
	PostView PostView `json:"post_view"`
}

type GetCommentsResponse struct {
	Comments []CommentView `json:"comments"`
}

type CommentResponse struct {
	CommentView CommentView `json:"comment_view"`
}

type GetCommunityResponse struct {
	CommunityView CommunityView `json:"community_view"`
}

type CommunityResponse struct {
	CommunityView CommunityView `json:"community_view"`
}

type ListCommunitiesResponse struct {
	Communities []CommunityView `json:"communities"`
}

type GetPersonDetailsResponse struct {
	PersonView PersonView    `json:"person_view"`
	Comments   []CommentView `json:"comments"`
	Posts      []PostView    `json:"posts"`
}

type GetRepliesResponse struct {
	Replies []CommentReplyView `json:"replies"`
}

type GetUnreadCountResponse struct {
	Replies         int `json:"replies"`
	Mentions        int `json:"mentions"`
	PrivateMessages int `json:"private_messages"`
}

type SearchResponse struct {
	Type        SearchType      `json:"type_"`
	Comments    []CommentView   `json:"comments"`
	Posts       []PostView      `json:"posts"`
	Communities []CommunityView `json:"communities"`
	Users       []PersonView    `json:"users"`
}

type BlockPersonResponse struct {
	PersonView PersonView `json:"person_view"`
	Blocked    bool       `json:"blocked"`
}

type BlockCommunityResponse struct {
	CommunityView CommunityView `json:"community_view"`
	Blocked       bool          `json:"blocked"`
}
