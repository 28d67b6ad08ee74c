// Package store holds the in-memory caches shared by every view: posts,
// comments, feeds, communities and the site description. All containers are
// safe for concurrent use; no lock is held across I/O.
package store

import (
	"sync"

	"github.com/samber/lo"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/preview"
)

// PostEntry is a cached post. It stays cached while at least one feed
// references it through UsedBy.
type PostEntry struct {
	View     api.PostView
	UsedBy   []string
	Link     preview.LinkInfo
	Preview  string
	Comments []*comments.Node
}

type PostStore struct {
	mu    sync.RWMutex
	posts map[int64]*PostEntry
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[int64]*PostEntry)}
}

func (s *PostStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *PostStore) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.posts[id]
	return ok
}

// Get returns a copy of the cached entry.
func (s *PostStore) Get(id int64) (PostEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return PostEntry{}, false
	}
	out := *p
	out.UsedBy = append([]string(nil), p.UsedBy...)
	return out, true
}

// Adopt records that feedID references the post. It inserts entry when the
// post is not cached yet and reports whether an insert happened.
func (s *PostStore) Adopt(feedID string, entry PostEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := entry.View.Post.ID
	if p, ok := s.posts[id]; ok {
		if !lo.Contains(p.UsedBy, feedID) {
			p.UsedBy = append(p.UsedBy, feedID)
		}
		return false
	}
	entry.UsedBy = []string{feedID}
	s.posts[id] = &entry
	return true
}

// Release drops feedID from the post's users and evicts the post when no
// feed references it anymore. It reports whether the post was evicted.
func (s *PostStore) Release(id int64, feedID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	p.UsedBy = lo.Without(p.UsedBy, feedID)
	if len(p.UsedBy) == 0 {
		delete(s.posts, id)
		return true
	}
	return false
}

// UpdateView applies fn to the cached view under the store lock.
func (s *PostStore) UpdateView(id int64, fn func(*api.PostView)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	fn(&p.View)
	return true
}

func (s *PostStore) SetComments(id int64, roots []*comments.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	p.Comments = roots
	return true
}

func (s *PostStore) Clear() {
	s.mu.Lock()
	s.posts = make(map[int64]*PostEntry)
	s.mu.Unlock()
}
