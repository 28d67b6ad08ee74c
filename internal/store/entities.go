package store

import (
	"sync"

	"github.com/glabrego/lemmy-cli/internal/api"
)

type CommentStore struct {
	mu       sync.RWMutex
	comments map[int64]*api.CommentView
}

func NewCommentStore() *CommentStore {
	return &CommentStore{comments: make(map[int64]*api.CommentView)}
}

// Upsert caches views and returns them as stored. A comment that is already
// cached keeps its counters and vote so a fetch racing a vote cannot undo the
// local change.
func (s *CommentStore) Upsert(views ...api.CommentView) []api.CommentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.CommentView, len(views))
	for i := range views {
		v := views[i]
		if cached, ok := s.comments[v.Comment.ID]; ok {
			v.Counts = cached.Counts
			v.MyVote = cached.MyVote
		}
		s.comments[v.Comment.ID] = &v
		out[i] = v
	}
	return out
}

func (s *CommentStore) Get(id int64) (api.CommentView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.comments[id]
	if !ok {
		return api.CommentView{}, false
	}
	return *v, true
}

func (s *CommentStore) Update(id int64, fn func(*api.CommentView)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.comments[id]
	if !ok {
		return false
	}
	fn(v)
	return true
}

// ForPost returns the cached comments of a post.
func (s *CommentStore) ForPost(postID int64) []api.CommentView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.CommentView, 0)
	for _, v := range s.comments {
		if v.Comment.PostID == postID {
			out = append(out, *v)
		}
	}
	return out
}

func (s *CommentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

type CommunityStore struct {
	mu          sync.RWMutex
	communities map[string]api.GetCommunityResponse
}

func NewCommunityStore() *CommunityStore {
	return &CommunityStore{communities: make(map[string]api.GetCommunityResponse)}
}

func (s *CommunityStore) Set(name string, c api.GetCommunityResponse) {
	s.mu.Lock()
	s.communities[name] = c
	s.mu.Unlock()
}

func (s *CommunityStore) Get(name string) (api.GetCommunityResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communities[name]
	return c, ok
}

// SiteStore caches the probed site description and its protocol generation.
type SiteStore struct {
	mu       sync.RWMutex
	site     *api.GetSiteResponse
	protocol api.Protocol
}

func NewSiteStore() *SiteStore {
	return &SiteStore{}
}

func (s *SiteStore) Set(site *api.GetSiteResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = site
	if site != nil {
		s.protocol = api.ProtocolFromVersion(site.Version)
	}
}

func (s *SiteStore) Get() (*api.GetSiteResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site, s.site != nil
}

func (s *SiteStore) Protocol() api.Protocol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protocol
}

func (s *SiteStore) Clear() {
	s.mu.Lock()
	s.site = nil
	s.protocol = api.ProtocolV018
	s.mu.Unlock()
}

// State bundles the containers handed to the gateway and the views.
type State struct {
	Posts       *PostStore
	Comments    *CommentStore
	Feeds       *FeedStore
	Communities *CommunityStore
	Site        *SiteStore
}

func NewState() *State {
	return &State{
		Posts:       NewPostStore(),
		Comments:    NewCommentStore(),
		Feeds:       NewFeedStore(),
		Communities: NewCommunityStore(),
		Site:        NewSiteStore(),
	}
}
