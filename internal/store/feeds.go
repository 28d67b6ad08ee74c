package store

import (
	"sync"

	"github.com/samber/lo"
)

// Feed is one paginated listing. PostIDs are unique and kept in first-seen
// order; NextPage is the page to request on the next append.
type Feed struct {
	ID       string
	PostIDs  []int64
	NextPage int
}

type FeedStore struct {
	mu    sync.RWMutex
	feeds map[string]*Feed
}

func NewFeedStore() *FeedStore {
	return &FeedStore{feeds: make(map[string]*Feed)}
}

func (s *FeedStore) Get(id string) (Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.feeds[id]
	if !ok {
		return Feed{ID: id, NextPage: 1}, false
	}
	return Feed{ID: f.ID, PostIDs: append([]int64(nil), f.PostIDs...), NextPage: f.NextPage}, true
}

// Append adds the ids not yet in the feed, keeping their order, sets the next
// page and returns the ids actually added.
func (s *FeedStore) Append(id string, postIDs []int64, nextPage int) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.ensure(id)
	seen := make(map[int64]struct{}, len(f.PostIDs)+len(postIDs))
	for _, pid := range f.PostIDs {
		seen[pid] = struct{}{}
	}
	added := make([]int64, 0, len(postIDs))
	for _, pid := range postIDs {
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		added = append(added, pid)
	}
	f.PostIDs = append(f.PostIDs, added...)
	f.NextPage = nextPage
	return added
}

// Reset empties the feed and returns the ids it held.
func (s *FeedStore) Reset(id string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		return nil
	}
	old := f.PostIDs
	f.PostIDs = nil
	f.NextPage = 1
	return old
}

// Remove deletes the feed and returns the ids it held.
func (s *FeedStore) Remove(id string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		return nil
	}
	delete(s.feeds, id)
	return f.PostIDs
}

func (s *FeedStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.feeds)
}

func (s *FeedStore) ensure(id string) *Feed {
	f, ok := s.feeds[id]
	if !ok {
		f = &Feed{ID: id, NextPage: 1}
		s.feeds[id] = f
	}
	return f
}
